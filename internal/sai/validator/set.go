package validator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
)

// setValidate runs SetOID/SetEntry's pre-send checks and wire encoding
// (spec.md §4.4.3), shared by the single and bulk set paths. Caller
// must hold c.mu and must already have confirmed key exists.
func (c *Core) setValidate(ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, key string, attr metadata.AttrID, v codec.Value) (code status.Code, fields pipeline.Fields) {
	am, ok := otMeta.AttrMeta(attr)
	if !ok {
		return status.InvalidParameter, nil
	}

	restricted := am.Flags.Has(metadata.ReadOnly) || am.Flags.Has(metadata.CreateOnly) || am.Flags.Has(metadata.Key)
	if restricted && !c.consumeUnitTestReadOnlyOverride(ot, attr) {
		return status.InvalidParameter, nil
	}

	if code := validateAttrShape(am, v); !code.OK() {
		return code, nil
	}
	if code := validateOIDRefs(c, am, v); !code.OK() {
		return code, nil
	}
	if code := validateEnum(c, am, v); !code.OK() {
		return code, nil
	}

	stored, ok := c.store.Attrs(key)
	if !ok {
		c.fatal("set against object missing its attribute map", zap.String("key", key))
	}
	if code := checkSetConditionActive(c.schema, ot, am, stored); !code.OK() {
		return code, nil
	}

	fields, err := pipeline.EncodeAttrs(map[metadata.AttrID]codec.Value{attr: v})
	if err != nil {
		c.logger.Error("encode set attr failed", zap.String("key", key), zap.Error(err))
		return status.Failure, nil
	}

	return status.Success, fields
}

// applySet commits a validated single-attribute set to the graph
// (spec.md §4.4.3 post-update). Caller must hold c.mu and must already
// have pushed/traced the request.
func (c *Core) applySet(key string, attr metadata.AttrID, v codec.Value) {
	if prev, had := c.store.GetPreviousAttr(key, attr); had {
		for _, ref := range prev.OIDRefs() {
			if ref != metadata.NullOID {
				if err := c.store.RefDec(ref); err != nil {
					c.fatal("ref_dec underflow on set", zap.String("key", key), zap.Error(err))
				}
			}
		}
	}
	for _, ref := range v.OIDRefs() {
		if ref != metadata.NullOID {
			c.store.RefInc(ref)
		}
	}
	if err := c.store.SetAttr(key, attr, v); err != nil {
		c.fatal("set_attr during set post-update", zap.String("key", key), zap.Error(err))
	}
}

// setCommon is the shared body of SetOID and SetEntry: both resolve
// their own canonical key and otherwise follow the identical set
// validation path of spec.md §4.4.3. Caller must hold c.mu and must
// already have confirmed key exists.
func (c *Core) setCommon(ctx context.Context, ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, key string, attr metadata.AttrID, v codec.Value) status.Code {
	code, fields := c.setValidate(ot, otMeta, key, attr, v)
	if !code.OK() {
		return code
	}

	if err := c.transport.Push(ctx, pipeline.Message{Key: key, Op: pipeline.OpSet, Fields: fields}); err != nil {
		c.logger.Error("push set failed", zap.String("key", key), zap.Error(err))
		return status.Failure
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterSet, key, fields)
	}

	c.applySet(key, attr, v)

	return status.Success
}

// SetOID validates and applies a single attribute set against an
// OID-identified object.
func (c *Core) SetOID(ctx context.Context, ot metadata.ObjectType, oid uint64, attr metadata.AttrID, v codec.Value) status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		return status.Failure
	}
	key := graph.ObjectKey(ot, oid)
	if !c.store.Exists(key) {
		return status.InvalidParameter
	}
	return c.setCommon(ctx, ot, otMeta, key, attr, v)
}

// SetEntry validates and applies a single attribute set against a
// structured-key object.
func (c *Core) SetEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue, attr metadata.AttrID, v codec.Value) status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		return status.Failure
	}
	key, err := graph.EntryKey(ot, keyValues)
	if err != nil {
		c.logger.Error("render entry key failed", zap.String("type", string(ot)), zap.Error(err))
		return status.Failure
	}
	if !c.store.Exists(key) {
		return status.InvalidParameter
	}
	return c.setCommon(ctx, ot, otMeta, key, attr, v)
}

// BulkSetOIDElement is one element of a SetBulkOID batch: the object to
// set and the single attribute/value pair to apply to it (spec.md's
// bulk set, like the real SAI bulk API, carries one attribute per
// object rather than a full attribute list).
type BulkSetOIDElement struct {
	OID   uint64
	Attr  metadata.AttrID
	Value codec.Value
}

// SetBulkOID validates and applies a batch of single-attribute sets
// against OID-identified objects of type ot, one result per input
// element, sending the whole accepted batch as a single outbound
// message (spec.md §4.5 `"bulkset"`), the same single-message batching
// CreateBulkOID/RemoveBulkOID use.
func (c *Core) SetBulkOID(ctx context.Context, ot metadata.ObjectType, elements []BulkSetOIDElement) []status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]status.Code, len(elements))

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		for i := range results {
			results[i] = status.Failure
		}
		return results
	}

	type pending struct {
		key  string
		attr metadata.AttrID
		v    codec.Value
	}
	var accepted []pending
	bulkFields := make(pipeline.Fields, len(elements))

	for i, el := range elements {
		key := graph.ObjectKey(ot, el.OID)
		if !c.store.Exists(key) {
			results[i] = status.InvalidParameter
			continue
		}
		code, fields := c.setValidate(ot, otMeta, key, el.Attr, el.Value)
		results[i] = code
		if !code.OK() {
			continue
		}
		bulkFields[key] = pipeline.EncodeBulkElement(fields)
		accepted = append(accepted, pending{key: key, attr: el.Attr, v: el.Value})
	}

	if len(accepted) == 0 {
		return results
	}

	bulkKey := fmt.Sprintf("%s:%d", ot, len(accepted))
	if err := c.transport.Push(ctx, pipeline.Message{Key: bulkKey, Op: pipeline.OpBulkSet, Fields: bulkFields}); err != nil {
		c.logger.Error("push bulk set failed", zap.String("type", string(ot)), zap.Int("count", len(accepted)), zap.Error(err))
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterSet, bulkKey, bulkFields)
	}

	for _, p := range accepted {
		c.applySet(p.key, p.attr, p.v)
	}

	return results
}

// BulkSetEntryElement is one element of a SetBulkEntry batch.
type BulkSetEntryElement struct {
	KeyValues []graph.EntryKeyValue
	Attr      metadata.AttrID
	Value     codec.Value
}

// SetBulkEntry validates and applies a batch of single-attribute sets
// against structured-key objects of type ot, mirroring SetBulkOID's
// single-wire-message batching for entry-typed objects.
func (c *Core) SetBulkEntry(ctx context.Context, ot metadata.ObjectType, elements []BulkSetEntryElement) []status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]status.Code, len(elements))

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		for i := range results {
			results[i] = status.Failure
		}
		return results
	}

	type pending struct {
		key  string
		attr metadata.AttrID
		v    codec.Value
	}
	var accepted []pending
	bulkFields := make(pipeline.Fields, len(elements))

	for i, el := range elements {
		key, err := graph.EntryKey(ot, el.KeyValues)
		if err != nil {
			c.logger.Error("render entry key failed", zap.String("type", string(ot)), zap.Error(err))
			results[i] = status.Failure
			continue
		}
		if !c.store.Exists(key) {
			results[i] = status.InvalidParameter
			continue
		}
		code, fields := c.setValidate(ot, otMeta, key, el.Attr, el.Value)
		results[i] = code
		if !code.OK() {
			continue
		}
		bulkFields[key] = pipeline.EncodeBulkElement(fields)
		accepted = append(accepted, pending{key: key, attr: el.Attr, v: el.Value})
	}

	if len(accepted) == 0 {
		return results
	}

	bulkKey := fmt.Sprintf("%s:%d", ot, len(accepted))
	if err := c.transport.Push(ctx, pipeline.Message{Key: bulkKey, Op: pipeline.OpBulkSet, Fields: bulkFields}); err != nil {
		c.logger.Error("push bulk set failed", zap.String("type", string(ot)), zap.Int("count", len(accepted)), zap.Error(err))
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterSet, bulkKey, bulkFields)
	}

	for _, p := range accepted {
		c.applySet(p.key, p.attr, p.v)
	}

	return results
}
