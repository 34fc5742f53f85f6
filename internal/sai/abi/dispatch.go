// Package abi is the driver ABI/dispatch layer of spec.md §6: thin,
// schema-free functions that shape arguments and call straight into
// validator.Core. spec.md §6 names this interface but treats the
// per-object-type wrappers as a code-generation target out of scope for
// the distilled spec; this package still needs *some* concrete callable
// surface to exercise the validator end-to-end, so Dispatcher supplies
// the generic core and the per-object-type files wrap it the way a real
// SAI driver's sai_create_port_fn/sai_create_vlan_fn/... table would,
// minus any code generator.
package abi

import (
	"context"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
	"github.com/sonic-net/sai-redis-go/internal/sai/validator"
)

// Dispatcher is the one generic entry point every per-object-type
// wrapper in this package delegates to. It carries no schema knowledge
// of its own — metadata.Registry already moved that out of source and
// into data (spec.md §9) — so Dispatcher's only job is rendering the
// OID/entry-key identity a caller supplies into the canonical key
// string validator.Core's GetStats/ClearStats need; every other method
// passes its arguments straight through.
type Dispatcher struct {
	core *validator.Core
}

// NewDispatcher wraps core for use by the per-object-type wrappers.
func NewDispatcher(core *validator.Core) *Dispatcher {
	return &Dispatcher{core: core}
}

// Create creates an OID-identified object of type ot.
func (d *Dispatcher) Create(ctx context.Context, ot metadata.ObjectType, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.core.CreateOID(ctx, ot, attrs)
}

// Remove removes an OID-identified object.
func (d *Dispatcher) Remove(ctx context.Context, ot metadata.ObjectType, oid uint64) status.Code {
	return d.core.RemoveOID(ctx, ot, oid)
}

// Set assigns a single attribute on an OID-identified object.
func (d *Dispatcher) Set(ctx context.Context, ot metadata.ObjectType, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	return d.core.SetOID(ctx, ot, oid, attr, v)
}

// Get reads a set of attributes from an OID-identified object.
func (d *Dispatcher) Get(ctx context.Context, ot metadata.ObjectType, oid uint64, attrIDs []metadata.AttrID) validator.GetResult {
	return d.core.GetOID(ctx, ot, oid, attrIDs)
}

// GetStats reads a list of counters from an OID-identified object.
func (d *Dispatcher) GetStats(ctx context.Context, ot metadata.ObjectType, oid uint64, counterIDs []int32) validator.GetStatsResult {
	return d.core.GetStats(ctx, ot, graph.ObjectKey(ot, oid), counterIDs)
}

// ClearStats zeroes a list of counters on an OID-identified object.
func (d *Dispatcher) ClearStats(ctx context.Context, ot metadata.ObjectType, oid uint64, counterIDs []int32) status.Code {
	return d.core.ClearStats(ctx, ot, graph.ObjectKey(ot, oid), counterIDs)
}

// CreateBulk creates a batch of OID-identified objects of type ot, one
// result per input element.
func (d *Dispatcher) CreateBulk(ctx context.Context, ot metadata.ObjectType, suppliedList []map[metadata.AttrID]codec.Value) []validator.CreateResult {
	return d.core.CreateBulkOID(ctx, ot, suppliedList)
}

// RemoveBulk removes a batch of OID-identified objects of type ot, one
// result per input element.
func (d *Dispatcher) RemoveBulk(ctx context.Context, ot metadata.ObjectType, oids []uint64) []status.Code {
	return d.core.RemoveBulkOID(ctx, ot, oids)
}

// SetBulk assigns one attribute per object across a batch of
// OID-identified objects of type ot, one result per input element.
func (d *Dispatcher) SetBulk(ctx context.Context, ot metadata.ObjectType, elements []validator.BulkSetOIDElement) []status.Code {
	return d.core.SetBulkOID(ctx, ot, elements)
}

// CreateEntry creates a structured-key object of type ot.
func (d *Dispatcher) CreateEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue, attrs map[metadata.AttrID]codec.Value) validator.CreateResult {
	return d.core.CreateEntry(ctx, ot, keyValues, attrs)
}

// RemoveEntry removes a structured-key object.
func (d *Dispatcher) RemoveEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue) status.Code {
	return d.core.RemoveEntry(ctx, ot, keyValues)
}

// SetEntry assigns a single attribute on a structured-key object.
func (d *Dispatcher) SetEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue, attr metadata.AttrID, v codec.Value) status.Code {
	return d.core.SetEntry(ctx, ot, keyValues, attr, v)
}

// GetEntry reads a set of attributes from a structured-key object.
func (d *Dispatcher) GetEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue, attrIDs []metadata.AttrID) validator.GetResult {
	return d.core.GetEntry(ctx, ot, keyValues, attrIDs)
}

// GetStatsEntry reads a list of counters from a structured-key object.
func (d *Dispatcher) GetStatsEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue, counterIDs []int32) validator.GetStatsResult {
	key, err := graph.EntryKey(ot, keyValues)
	if err != nil {
		return validator.GetStatsResult{Status: status.Failure}
	}
	return d.core.GetStats(ctx, ot, key, counterIDs)
}

// ClearStatsEntry zeroes a list of counters on a structured-key object.
func (d *Dispatcher) ClearStatsEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue, counterIDs []int32) status.Code {
	key, err := graph.EntryKey(ot, keyValues)
	if err != nil {
		return status.Failure
	}
	return d.core.ClearStats(ctx, ot, key, counterIDs)
}

// CreateBulkEntry creates a batch of structured-key objects of type ot,
// one result per input element.
func (d *Dispatcher) CreateBulkEntry(ctx context.Context, ot metadata.ObjectType, keyValuesList [][]graph.EntryKeyValue, suppliedList []map[metadata.AttrID]codec.Value) []status.Code {
	return d.core.CreateBulkEntry(ctx, ot, keyValuesList, suppliedList)
}

// RemoveBulkEntry removes a batch of structured-key objects of type ot,
// one result per input element.
func (d *Dispatcher) RemoveBulkEntry(ctx context.Context, ot metadata.ObjectType, keyValuesList [][]graph.EntryKeyValue) []status.Code {
	return d.core.RemoveBulkEntry(ctx, ot, keyValuesList)
}

// SetBulkEntry assigns one attribute per object across a batch of
// structured-key objects of type ot, one result per input element.
func (d *Dispatcher) SetBulkEntry(ctx context.Context, ot metadata.ObjectType, elements []validator.BulkSetEntryElement) []status.Code {
	return d.core.SetBulkEntry(ctx, ot, elements)
}
