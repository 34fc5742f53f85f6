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

// CreateResult is CreateOID/CreateEntry's outcome: the freshly
// allocated OID (zero for entry-typed objects, which carry their own
// identity) and a status code.
type CreateResult struct {
	OID    uint64
	Status status.Code
}

// CreateOID validates and creates an OID-identified object (spec.md
// §4.4.1). The OID is allocated locally, sequentially, before the
// request is pushed — the validated request and its eventual graph
// entry always agree on identity, mirroring how the real sairedis
// client generates the object's virtual id client-side rather than
// waiting on the executor to mint one.
func (c *Core) CreateOID(ctx context.Context, ot metadata.ObjectType, supplied map[metadata.AttrID]codec.Value) CreateResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		return CreateResult{Status: status.Failure}
	}
	if otMeta.IsEntry {
		c.fatal("CreateOID called for entry-typed object", zap.String("type", string(ot)))
	}

	code, oid, key, fields, tuple := c.createOIDValidate(ot, otMeta, supplied)
	if !code.OK() {
		return CreateResult{Status: code}
	}

	if err := c.transport.Push(ctx, pipeline.Message{Key: key, Op: pipeline.OpCreate, Fields: fields}); err != nil {
		c.logger.Error("push create failed", zap.String("key", key), zap.Error(err))
		return CreateResult{Status: status.Failure}
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterCreate, key, fields)
	}

	c.applyCreateOID(ot, otMeta, oid, key, tuple, supplied)

	return CreateResult{OID: oid, Status: status.Success}
}

// CreateBulkOID validates and creates a batch of OID-identified objects
// of type ot, one result per input element, in allocation order (spec.md
// §4.5 `"bulkcreate"`). Every element is pre-validated against the graph
// independently — the same pre-checks CreateOID runs, plus a rejection
// of any KEY tuple an earlier accepted element of the batch already
// holds — but the whole
// accepted batch travels as a single outbound message instead of one
// per element, grounded on original_source's
// `internal_redis_bulk_generic_remove` (sai_redis_generic_remove.cpp):
// one message keyed `"<type>:<count>"` carrying one field per accepted
// entry, sent only for the entries that passed validation since "only
// those will be executed on syncd". Per SPEC_FULL.md's bulk-atomicity
// decision this is not atomic across the pipeline boundary: elements
// that pass local validation are applied to the graph regardless of
// whether the single wire push itself succeeds.
func (c *Core) CreateBulkOID(ctx context.Context, ot metadata.ObjectType, suppliedList []map[metadata.AttrID]codec.Value) []CreateResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]CreateResult, len(suppliedList))

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		for i := range results {
			results[i] = CreateResult{Status: status.Failure}
		}
		return results
	}
	if otMeta.IsEntry {
		c.fatal("CreateBulkOID called for entry-typed object", zap.String("type", string(ot)))
	}

	type pending struct {
		oid   uint64
		key   string
		tuple string
		attrs map[metadata.AttrID]codec.Value
	}
	var accepted []pending
	bulkFields := make(pipeline.Fields, len(suppliedList))
	batchTuples := make(map[string]bool)

	for i, supplied := range suppliedList {
		code, oid, key, fields, tuple := c.createOIDValidate(ot, otMeta, supplied)
		if code.OK() && tuple != "" && batchTuples[tuple] {
			code, oid = status.InvalidParameter, 0
		}
		results[i] = CreateResult{OID: oid, Status: code}
		if !code.OK() {
			continue
		}
		if tuple != "" {
			batchTuples[tuple] = true
		}
		bulkFields[key] = pipeline.EncodeBulkElement(fields)
		accepted = append(accepted, pending{oid: oid, key: key, tuple: tuple, attrs: supplied})
	}

	if len(accepted) == 0 {
		return results
	}

	bulkKey := fmt.Sprintf("%s:%d", ot, len(accepted))
	if err := c.transport.Push(ctx, pipeline.Message{Key: bulkKey, Op: pipeline.OpBulkCreate, Fields: bulkFields}); err != nil {
		c.logger.Error("push bulk create failed", zap.String("type", string(ot)), zap.Int("count", len(accepted)), zap.Error(err))
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterBulkCreate, bulkKey, bulkFields)
	}

	for _, p := range accepted {
		c.applyCreateOID(ot, otMeta, p.oid, p.key, p.tuple, p.attrs)
	}

	return results
}

// createOIDValidate runs CreateOID's pre-send checks and OID allocation
// (spec.md §4.4.1 pre-checks), shared by CreateOID and CreateBulkOID.
// Caller must hold c.mu. On any non-OK code the remaining return values
// are zero and must not be used.
func (c *Core) createOIDValidate(ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, supplied map[metadata.AttrID]codec.Value) (code status.Code, oid uint64, key string, fields pipeline.Fields, tuple string) {
	if otMeta.IsSingleton && c.store.HasSingleton(ot) {
		return status.ItemAlreadyExists, 0, "", nil, ""
	}

	if code := c.validateSupplied(otMeta, supplied, true); !code.OK() {
		return code, 0, "", nil, ""
	}
	if code := checkMandatoryAndConditional(c.schema, ot, otMeta, supplied); !code.OK() {
		return code, 0, "", nil, ""
	}

	if keyAttrs := otMeta.KeyAttrs(); len(keyAttrs) > 0 {
		t, err := graph.KeyTuple(supplied, keyAttrs)
		if err != nil {
			c.logger.Error("render key-tuple failed", zap.String("type", string(ot)), zap.Error(err))
			return status.Failure, 0, "", nil, ""
		}
		if t != "" && c.store.TupleExists(ot, t) {
			return status.InvalidParameter, 0, "", nil, ""
		}
		tuple = t
	}

	oid = c.allocOID()
	key = graph.ObjectKey(ot, oid)

	fields, err := pipeline.EncodeAttrs(supplied)
	if err != nil {
		c.logger.Error("encode create attrs failed", zap.String("type", string(ot)), zap.Error(err))
		return status.Failure, 0, "", nil, ""
	}

	return status.Success, oid, key, fields, tuple
}

// applyCreateOID commits a validated OID create to the graph (spec.md
// §4.4.1 post-update). Caller must hold c.mu and must already have
// pushed/traced the request.
func (c *Core) applyCreateOID(ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, oid uint64, key, tuple string, supplied map[metadata.AttrID]codec.Value) {
	if err := c.store.Create(key); err != nil {
		c.fatal("create on freshly allocated oid collided", zap.String("key", key), zap.Error(err))
	}
	c.store.RefInsert(oid)
	c.store.RegisterOIDType(oid, ot)
	if otMeta.IsSingleton {
		c.store.MarkSingleton(ot)
	}
	for id, v := range supplied {
		if err := c.store.SetAttr(key, id, v); err != nil {
			c.fatal("set_attr during create post-update", zap.String("key", key), zap.Error(err))
		}
		for _, ref := range v.OIDRefs() {
			if ref != metadata.NullOID {
				c.store.RefInc(ref)
			}
		}
	}
	if tuple != "" {
		if err := c.store.SetKeyTuple(ot, key, tuple); err != nil {
			c.fatal("key-tuple collision survived pre-check", zap.String("key", key), zap.Error(err))
		}
	}
}

// CreateEntry validates and creates a structured-key object (route,
// neighbor, FDB, …). keyValues supplies the entry's identity in the
// order metadata.ObjectTypeMeta.EntryKey declares; any EntryFieldOID
// field names the structural parent whose reference count this entry
// bumps (spec.md §3 invariant 7, §4.4.1 post-update).
func (c *Core) CreateEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue, supplied map[metadata.AttrID]codec.Value) CreateResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		return CreateResult{Status: status.Failure}
	}
	if !otMeta.IsEntry {
		c.fatal("CreateEntry called for OID-typed object", zap.String("type", string(ot)))
	}

	code, key, fields := c.createEntryValidate(ot, otMeta, keyValues, supplied)
	if !code.OK() {
		return CreateResult{Status: code}
	}

	if err := c.transport.Push(ctx, pipeline.Message{Key: key, Op: pipeline.OpCreate, Fields: fields}); err != nil {
		c.logger.Error("push create failed", zap.String("key", key), zap.Error(err))
		return CreateResult{Status: status.Failure}
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterCreate, key, fields)
	}

	c.applyCreateEntry(key, keyValues, supplied)

	return CreateResult{Status: status.Success}
}

// CreateBulkEntry validates and creates a batch of structured-key
// objects of type ot, one result per input element, mirroring
// CreateBulkOID's single-wire-message batching (spec.md §4.5
// `"bulkcreate"`) for entry-typed objects (route/neighbor/FDB).
func (c *Core) CreateBulkEntry(ctx context.Context, ot metadata.ObjectType, keyValuesList [][]graph.EntryKeyValue, suppliedList []map[metadata.AttrID]codec.Value) []status.Code {
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
		c.fatal("CreateBulkEntry called for OID-typed object", zap.String("type", string(ot)))
	}

	type pending struct {
		key       string
		keyValues []graph.EntryKeyValue
		attrs     map[metadata.AttrID]codec.Value
	}
	var accepted []pending
	bulkFields := make(pipeline.Fields, len(keyValuesList))

	for i, keyValues := range keyValuesList {
		var supplied map[metadata.AttrID]codec.Value
		if i < len(suppliedList) {
			supplied = suppliedList[i]
		}
		code, key, fields := c.createEntryValidate(ot, otMeta, keyValues, supplied)
		results[i] = code
		if !code.OK() {
			continue
		}
		bulkFields[key] = pipeline.EncodeBulkElement(fields)
		accepted = append(accepted, pending{key: key, keyValues: keyValues, attrs: supplied})
	}

	if len(accepted) == 0 {
		return results
	}

	bulkKey := fmt.Sprintf("%s:%d", ot, len(accepted))
	if err := c.transport.Push(ctx, pipeline.Message{Key: bulkKey, Op: pipeline.OpBulkCreate, Fields: bulkFields}); err != nil {
		c.logger.Error("push bulk create failed", zap.String("type", string(ot)), zap.Int("count", len(accepted)), zap.Error(err))
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterBulkCreate, bulkKey, bulkFields)
	}

	for _, p := range accepted {
		c.applyCreateEntry(p.key, p.keyValues, p.attrs)
	}

	return results
}

// createEntryValidate runs CreateEntry's pre-send checks and wire
// encoding, shared by CreateEntry and CreateBulkEntry. Caller must hold
// c.mu. On any non-OK code the remaining return values are zero and
// must not be used.
func (c *Core) createEntryValidate(ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, keyValues []graph.EntryKeyValue, supplied map[metadata.AttrID]codec.Value) (code status.Code, key string, fields pipeline.Fields) {
	key, err := graph.EntryKey(ot, keyValues)
	if err != nil {
		c.logger.Error("render entry key failed", zap.String("type", string(ot)), zap.Error(err))
		return status.Failure, "", nil
	}
	if c.store.Exists(key) {
		return status.ItemAlreadyExists, "", nil
	}

	for _, kv := range keyValues {
		if kv.Field.Kind != metadata.EntryFieldOID {
			continue
		}
		parent := kv.Value.U
		if !c.store.RefExists(parent) {
			return status.InvalidParameter, "", nil
		}
		parentType, ok := c.store.OIDType(parent)
		if !ok || parentType != kv.Field.ParentType {
			return status.InvalidParameter, "", nil
		}
	}

	if code := c.validateSupplied(otMeta, supplied, true); !code.OK() {
		return code, "", nil
	}
	if code := checkMandatoryAndConditional(c.schema, ot, otMeta, supplied); !code.OK() {
		return code, "", nil
	}

	fields, err = pipeline.EncodeAttrs(supplied)
	if err != nil {
		c.logger.Error("encode create attrs failed", zap.String("type", string(ot)), zap.Error(err))
		return status.Failure, "", nil
	}

	return status.Success, key, fields
}

// applyCreateEntry commits a validated entry create to the graph
// (spec.md §4.4.1 post-update, §3 invariant 7). Caller must hold c.mu
// and must already have pushed/traced the request.
func (c *Core) applyCreateEntry(key string, keyValues []graph.EntryKeyValue, supplied map[metadata.AttrID]codec.Value) {
	if err := c.store.Create(key); err != nil {
		c.fatal("create on fresh entry key collided", zap.String("key", key), zap.Error(err))
	}
	for _, kv := range keyValues {
		if kv.Field.Kind == metadata.EntryFieldOID {
			c.store.RefInc(kv.Value.U)
		}
	}
	for id, v := range supplied {
		if err := c.store.SetAttr(key, id, v); err != nil {
			c.fatal("set_attr during entry create post-update", zap.String("key", key), zap.Error(err))
		}
		for _, ref := range v.OIDRefs() {
			if ref != metadata.NullOID {
				c.store.RefInc(ref)
			}
		}
	}
}
