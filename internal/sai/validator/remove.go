package validator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
)

// vlanIDAttr and DefaultVlanID single out the one VLAN instance that,
// unlike the rest of the vlan object type, can never be removed
// (spec.md §4.4.2: "certain singleton entry types (default VLAN,
// switch, trap) are un-removable" — default VLAN is un-removable as an
// *instance* of an otherwise ordinary, removable object type, so it
// cannot be expressed via ObjectTypeMeta.Unremovable alone).
const vlanIDAttr metadata.AttrID = 2
const DefaultVlanID uint16 = 1

// RemoveOID validates and removes an OID-identified object (spec.md
// §4.4.2).
func (c *Core) RemoveOID(ctx context.Context, ot metadata.ObjectType, oid uint64) status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		return status.Failure
	}
	if otMeta.IsEntry {
		c.fatal("RemoveOID called for entry-typed object", zap.String("type", string(ot)))
	}

	key := graph.ObjectKey(ot, oid)
	if code := c.removeOIDValidate(ot, otMeta, oid, key); !code.OK() {
		return code
	}

	if err := c.transport.Del(ctx, key, pipeline.OpRemove); err != nil {
		c.logger.Error("push remove failed", zap.String("key", key), zap.Error(err))
		return status.Failure
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterRemove, key, nil)
	}

	c.applyRemoveOID(ot, oid, key)

	return status.Success
}

// RemoveBulkOID validates and removes a batch of OID-identified objects
// of type ot, one result per input element, sending the whole accepted
// batch as a single outbound message (spec.md §4.5 `"bulkremove"`).
// Grounded on original_source's `internal_redis_bulk_generic_remove`
// (sai_redis_generic_remove.cpp): one message keyed `"<type>:<count>"`
// whose fields name only the entries that passed validation, each
// carrying an empty value — a remove has no attributes to send, only an
// identity. As with CreateBulkOID, acceptance is per element; a wire
// failure after that point does not roll back already-applied graph
// state (SPEC_FULL.md's bulk-atomicity decision).
func (c *Core) RemoveBulkOID(ctx context.Context, ot metadata.ObjectType, oids []uint64) []status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]status.Code, len(oids))

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		for i := range results {
			results[i] = status.Failure
		}
		return results
	}
	if otMeta.IsEntry {
		c.fatal("RemoveBulkOID called for entry-typed object", zap.String("type", string(ot)))
	}

	var acceptedOIDs []uint64
	var acceptedKeys []string
	bulkFields := make(pipeline.Fields, len(oids))

	for i, oid := range oids {
		key := graph.ObjectKey(ot, oid)
		code := c.removeOIDValidate(ot, otMeta, oid, key)
		results[i] = code
		if !code.OK() {
			continue
		}
		bulkFields[key] = ""
		acceptedOIDs = append(acceptedOIDs, oid)
		acceptedKeys = append(acceptedKeys, key)
	}

	if len(acceptedKeys) == 0 {
		return results
	}

	bulkKey := fmt.Sprintf("%s:%d", ot, len(acceptedKeys))
	if err := c.transport.Push(ctx, pipeline.Message{Key: bulkKey, Op: pipeline.OpBulkRemove, Fields: bulkFields}); err != nil {
		c.logger.Error("push bulk remove failed", zap.String("type", string(ot)), zap.Int("count", len(acceptedKeys)), zap.Error(err))
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterBulkRemove, bulkKey, bulkFields)
	}

	for i, oid := range acceptedOIDs {
		c.applyRemoveOID(ot, oid, acceptedKeys[i])
	}

	return results
}

// removeOIDValidate runs RemoveOID's pre-send checks, shared by
// RemoveOID and RemoveBulkOID. Caller must hold c.mu.
func (c *Core) removeOIDValidate(ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, oid uint64, key string) status.Code {
	if !c.store.Exists(key) {
		return status.InvalidParameter
	}
	if otMeta.Unremovable {
		return status.InvalidParameter
	}
	if ot == "vlan" {
		if attrs, ok := c.store.Attrs(key); ok {
			if v, ok := attrs[vlanIDAttr]; ok && uint16(v.U) == DefaultVlanID {
				return status.InvalidParameter
			}
		}
	}
	if c.store.RefCount(oid) > 0 {
		return status.InvalidParameter
	}
	return status.Success
}

// applyRemoveOID commits a validated OID remove to the graph (spec.md
// §4.4.2 post-update). Caller must hold c.mu and must already have
// pushed/traced the request.
func (c *Core) applyRemoveOID(ot metadata.ObjectType, oid uint64, key string) {
	c.decrefStoredOIDs(key)
	c.store.RefRemove(oid)
	c.store.RemoveKeyTuple(ot, key)
	c.store.Remove(key)
}

// RemoveEntry validates and removes a structured-key object, undoing
// the parent-reference bump its create performed.
func (c *Core) RemoveEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue) status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		return status.Failure
	}
	if !otMeta.IsEntry {
		c.fatal("RemoveEntry called for OID-typed object", zap.String("type", string(ot)))
	}

	code, key := c.removeEntryValidate(ot, otMeta, keyValues)
	if !code.OK() {
		return code
	}

	if err := c.transport.Del(ctx, key, pipeline.OpRemove); err != nil {
		c.logger.Error("push remove failed", zap.String("key", key), zap.Error(err))
		return status.Failure
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterRemove, key, nil)
	}

	c.applyRemoveEntry(key, keyValues)

	return status.Success
}

// RemoveBulkEntry validates and removes a batch of structured-key
// objects of type ot, one result per input element, mirroring
// RemoveBulkOID's single-wire-message batching (spec.md §4.5
// `"bulkremove"`) for entry-typed objects.
func (c *Core) RemoveBulkEntry(ctx context.Context, ot metadata.ObjectType, keyValuesList [][]graph.EntryKeyValue) []status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]status.Code, len(keyValuesList))

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		for i := range results {
			results[i] = status.Failure
		}
		return results
	}
	if !otMeta.IsEntry {
		c.fatal("RemoveBulkEntry called for OID-typed object", zap.String("type", string(ot)))
	}

	type pending struct {
		key       string
		keyValues []graph.EntryKeyValue
	}
	var accepted []pending
	bulkFields := make(pipeline.Fields, len(keyValuesList))

	for i, keyValues := range keyValuesList {
		code, key := c.removeEntryValidate(ot, otMeta, keyValues)
		results[i] = code
		if !code.OK() {
			continue
		}
		bulkFields[key] = ""
		accepted = append(accepted, pending{key: key, keyValues: keyValues})
	}

	if len(accepted) == 0 {
		return results
	}

	bulkKey := fmt.Sprintf("%s:%d", ot, len(accepted))
	if err := c.transport.Push(ctx, pipeline.Message{Key: bulkKey, Op: pipeline.OpBulkRemove, Fields: bulkFields}); err != nil {
		c.logger.Error("push bulk remove failed", zap.String("type", string(ot)), zap.Int("count", len(accepted)), zap.Error(err))
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterBulkRemove, bulkKey, bulkFields)
	}

	for _, p := range accepted {
		c.applyRemoveEntry(p.key, p.keyValues)
	}

	return results
}

// removeEntryValidate runs RemoveEntry's pre-send checks, shared by
// RemoveEntry and RemoveBulkEntry. Caller must hold c.mu.
func (c *Core) removeEntryValidate(ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, keyValues []graph.EntryKeyValue) (status.Code, string) {
	key, err := graph.EntryKey(ot, keyValues)
	if err != nil {
		c.logger.Error("render entry key failed", zap.String("type", string(ot)), zap.Error(err))
		return status.Failure, ""
	}
	if !c.store.Exists(key) {
		return status.InvalidParameter, ""
	}
	if otMeta.Unremovable {
		return status.InvalidParameter, ""
	}
	return status.Success, key
}

// applyRemoveEntry commits a validated entry remove to the graph
// (spec.md §4.4.2 post-update). Caller must hold c.mu and must already
// have pushed/traced the request.
func (c *Core) applyRemoveEntry(key string, keyValues []graph.EntryKeyValue) {
	c.decrefStoredOIDs(key)
	for _, kv := range keyValues {
		if kv.Field.Kind == metadata.EntryFieldOID {
			if err := c.store.RefDec(kv.Value.U); err != nil {
				c.fatal("ref_dec underflow on entry parent", zap.String("key", key), zap.Error(err))
			}
		}
	}
	c.store.Remove(key)
}

// decrefStoredOIDs decrements every OID referent held by key's current
// attribute slots (spec.md §4.4.2 post-update). Caller must hold c.mu
// and must call this before Remove erases the slots.
func (c *Core) decrefStoredOIDs(key string) {
	attrs, ok := c.store.Attrs(key)
	if !ok {
		return
	}
	for _, v := range attrs {
		for _, ref := range v.OIDRefs() {
			if ref == metadata.NullOID {
				continue
			}
			if err := c.store.RefDec(ref); err != nil {
				c.fatal("ref_dec underflow on remove", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
