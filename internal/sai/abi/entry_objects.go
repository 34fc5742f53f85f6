package abi

import (
	"context"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
	"github.com/sonic-net/sai-redis-go/internal/sai/validator"
)

// Per-object-type structured-key wrappers (spec.md §4.7), the
// entry-keyed counterpart of oid_objects.go.

// CreateRouteEntry creates a route_entry keyed by keyValues.
func (d *Dispatcher) CreateRouteEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.CreateEntry(ctx, "route_entry", keyValues, attrs)
}

// RemoveRouteEntry removes a route_entry.
func (d *Dispatcher) RemoveRouteEntry(ctx context.Context, keyValues []graph.EntryKeyValue) status.Code {
	return d.RemoveEntry(ctx, "route_entry", keyValues)
}

// SetRouteEntry assigns a single route_entry attribute.
func (d *Dispatcher) SetRouteEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attr metadata.AttrID, v codec.Value) status.Code {
	return d.SetEntry(ctx, "route_entry", keyValues, attr, v)
}

// GetRouteEntry reads route_entry attributes.
func (d *Dispatcher) GetRouteEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attrIDs []metadata.AttrID) validator.GetResult {
	return d.GetEntry(ctx, "route_entry", keyValues, attrIDs)
}

// CreateNeighborEntry creates a neighbor_entry keyed by keyValues.
func (d *Dispatcher) CreateNeighborEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.CreateEntry(ctx, "neighbor_entry", keyValues, attrs)
}

// RemoveNeighborEntry removes a neighbor_entry.
func (d *Dispatcher) RemoveNeighborEntry(ctx context.Context, keyValues []graph.EntryKeyValue) status.Code {
	return d.RemoveEntry(ctx, "neighbor_entry", keyValues)
}

// SetNeighborEntry assigns a single neighbor_entry attribute.
func (d *Dispatcher) SetNeighborEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attr metadata.AttrID, v codec.Value) status.Code {
	return d.SetEntry(ctx, "neighbor_entry", keyValues, attr, v)
}

// GetNeighborEntry reads neighbor_entry attributes.
func (d *Dispatcher) GetNeighborEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attrIDs []metadata.AttrID) validator.GetResult {
	return d.GetEntry(ctx, "neighbor_entry", keyValues, attrIDs)
}

// CreateFDBEntry creates a fdb_entry keyed by keyValues.
func (d *Dispatcher) CreateFDBEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.CreateEntry(ctx, "fdb_entry", keyValues, attrs)
}

// RemoveFDBEntry removes a fdb_entry.
func (d *Dispatcher) RemoveFDBEntry(ctx context.Context, keyValues []graph.EntryKeyValue) status.Code {
	return d.RemoveEntry(ctx, "fdb_entry", keyValues)
}

// SetFDBEntry assigns a single fdb_entry attribute.
func (d *Dispatcher) SetFDBEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attr metadata.AttrID, v codec.Value) status.Code {
	return d.SetEntry(ctx, "fdb_entry", keyValues, attr, v)
}

// GetFDBEntry reads fdb_entry attributes.
func (d *Dispatcher) GetFDBEntry(ctx context.Context, keyValues []graph.EntryKeyValue, attrIDs []metadata.AttrID) validator.GetResult {
	return d.GetEntry(ctx, "fdb_entry", keyValues, attrIDs)
}
