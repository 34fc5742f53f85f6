package abi

import (
	"context"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
	"github.com/sonic-net/sai-redis-go/internal/sai/validator"
)

// Per-object-type OID wrappers (spec.md §4.7). Every function here does
// nothing but name ot for Dispatcher; grouped into one file rather than
// one file per type because the bodies are otherwise identical — the
// "no schema knowledge lives here" point spec.md §4.7 makes is the same
// reason there is nothing left to differentiate them into separate
// files.

// CreateSwitch creates the (singleton) switch object.
func (d *Dispatcher) CreateSwitch(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "switch", attrs)
}

// RemoveSwitch removes the switch object.
func (d *Dispatcher) RemoveSwitch(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "switch", oid)
}

// SetSwitch assigns a single switch attribute.
func (d *Dispatcher) SetSwitch(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "switch", oid, attr, v)
}

// GetSwitch reads switch attributes.
func (d *Dispatcher) GetSwitch(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "switch", oid, attrIDs)
}

// CreatePort creates a port object.
func (d *Dispatcher) CreatePort(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "port", attrs)
}

// RemovePort removes a port object.
func (d *Dispatcher) RemovePort(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "port", oid)
}

// SetPort assigns a single port attribute.
func (d *Dispatcher) SetPort(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "port", oid, attr, v)
}

// GetPort reads port attributes.
func (d *Dispatcher) GetPort(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "port", oid, attrIDs)
}

// GetPortStats reads port counters.
func (d *Dispatcher) GetPortStats(ctx context.Context, oid uint64, counterIDs []int32) validator.GetStatsResult {
	return d.GetStats(ctx, "port", oid, counterIDs)
}

// ClearPortStats zeroes port counters.
func (d *Dispatcher) ClearPortStats(ctx context.Context, oid uint64, counterIDs []int32) status.Code {
	return d.ClearStats(ctx, "port", oid, counterIDs)
}

// CreateVlan creates a VLAN object.
func (d *Dispatcher) CreateVlan(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "vlan", attrs)
}

// RemoveVlan removes a VLAN object.
func (d *Dispatcher) RemoveVlan(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "vlan", oid)
}

// SetVlan assigns a single VLAN attribute.
func (d *Dispatcher) SetVlan(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "vlan", oid, attr, v)
}

// GetVlan reads VLAN attributes.
func (d *Dispatcher) GetVlan(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "vlan", oid, attrIDs)
}

// CreateBridge creates a bridge object.
func (d *Dispatcher) CreateBridge(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "bridge", attrs)
}

// RemoveBridge removes a bridge object.
func (d *Dispatcher) RemoveBridge(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "bridge", oid)
}

// SetBridge assigns a single bridge attribute.
func (d *Dispatcher) SetBridge(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "bridge", oid, attr, v)
}

// GetBridge reads bridge attributes.
func (d *Dispatcher) GetBridge(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "bridge", oid, attrIDs)
}

// CreateBridgePort creates a bridge_port object.
func (d *Dispatcher) CreateBridgePort(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "bridge_port", attrs)
}

// RemoveBridgePort removes a bridge_port object.
func (d *Dispatcher) RemoveBridgePort(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "bridge_port", oid)
}

// SetBridgePort assigns a single bridge_port attribute.
func (d *Dispatcher) SetBridgePort(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "bridge_port", oid, attr, v)
}

// GetBridgePort reads bridge_port attributes.
func (d *Dispatcher) GetBridgePort(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "bridge_port", oid, attrIDs)
}

// CreateVirtualRouter creates a virtual_router object.
func (d *Dispatcher) CreateVirtualRouter(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "virtual_router", attrs)
}

// RemoveVirtualRouter removes a virtual_router object.
func (d *Dispatcher) RemoveVirtualRouter(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "virtual_router", oid)
}

// SetVirtualRouter assigns a single virtual_router attribute.
func (d *Dispatcher) SetVirtualRouter(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "virtual_router", oid, attr, v)
}

// GetVirtualRouter reads virtual_router attributes.
func (d *Dispatcher) GetVirtualRouter(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "virtual_router", oid, attrIDs)
}

// CreateRouterInterface creates a router_interface object.
func (d *Dispatcher) CreateRouterInterface(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "router_interface", attrs)
}

// RemoveRouterInterface removes a router_interface object.
func (d *Dispatcher) RemoveRouterInterface(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "router_interface", oid)
}

// SetRouterInterface assigns a single router_interface attribute.
func (d *Dispatcher) SetRouterInterface(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "router_interface", oid, attr, v)
}

// GetRouterInterface reads router_interface attributes.
func (d *Dispatcher) GetRouterInterface(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "router_interface", oid, attrIDs)
}

// CreateNextHop creates a next_hop object.
func (d *Dispatcher) CreateNextHop(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "next_hop", attrs)
}

// RemoveNextHop removes a next_hop object.
func (d *Dispatcher) RemoveNextHop(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "next_hop", oid)
}

// SetNextHop assigns a single next_hop attribute.
func (d *Dispatcher) SetNextHop(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "next_hop", oid, attr, v)
}

// GetNextHop reads next_hop attributes.
func (d *Dispatcher) GetNextHop(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "next_hop", oid, attrIDs)
}

// CreateTunnel creates a tunnel object.
func (d *Dispatcher) CreateTunnel(ctx context.Context, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.Create(ctx, "tunnel", attrs)
}

// RemoveTunnel removes a tunnel object.
func (d *Dispatcher) RemoveTunnel(ctx context.Context, oid uint64) status.Code {
	return d.Remove(ctx, "tunnel", oid)
}

// SetTunnel assigns a single tunnel attribute.
func (d *Dispatcher) SetTunnel(ctx context.Context, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.Set(ctx, "tunnel", oid, attr, v)
}

// GetTunnel reads tunnel attributes.
func (d *Dispatcher) GetTunnel(ctx context.Context, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.Get(ctx, "tunnel", oid, attrIDs)
}
