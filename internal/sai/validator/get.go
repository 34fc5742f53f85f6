package validator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
)

// GetResult is GetOID/GetEntry's outcome.
type GetResult struct {
	Values map[metadata.AttrID]codec.Value
	Status status.Code
}

// getCommon is the shared body of GetOID and GetEntry (spec.md
// §4.4.4). Caller must hold c.mu and must already have confirmed key
// exists.
func (c *Core) getCommon(ctx context.Context, ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, key string, attrIDs []metadata.AttrID) GetResult {
	if len(attrIDs) == 0 {
		return GetResult{Status: status.InvalidParameter}
	}

	stored, _ := c.store.Attrs(key)
	fields := make(pipeline.Fields, len(attrIDs))
	for _, id := range attrIDs {
		am, ok := otMeta.AttrMeta(id)
		if !ok {
			return GetResult{Status: status.InvalidParameter}
		}
		if am.IsConditional() && !c.schema.ConditionActive(ot, am, stored) {
			return GetResult{Status: status.InvalidParameter}
		}
		fields[strconv.Itoa(int(id))] = ""
	}

	if err := c.transport.Push(ctx, pipeline.Message{Key: key, Op: pipeline.OpGet, Fields: fields}); err != nil {
		c.logger.Error("push get failed", zap.String("key", key), zap.Error(err))
		return GetResult{Status: status.Failure}
	}
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterGet, key, fields)
	}

	msg, code := c.waitForResponse(ctx)
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterGetResponse, key, msg.Fields)
	}
	if !code.OK() {
		return GetResult{Status: code}
	}

	values, err := pipeline.DecodeAttrs(msg.Fields, ot, c.schema)
	if err != nil {
		c.logger.Error("decode get response failed", zap.String("key", key), zap.Error(err))
		return GetResult{Status: status.Failure}
	}

	for id, v := range values {
		for _, ref := range v.OIDRefs() {
			if ref == metadata.NullOID {
				continue
			}
			if !c.store.RefExists(ref) {
				c.store.RefInsert(ref)
				c.logger.Info("snooped referent from get response",
					zap.Uint64("oid", ref), zap.String("from_type", string(ot)), zap.Int32("attr", int32(id)))
			}
		}
	}

	return GetResult{Values: values, Status: status.Success}
}

// GetOID fetches a set of attributes from an OID-identified object.
func (c *Core) GetOID(ctx context.Context, ot metadata.ObjectType, oid uint64, attrIDs []metadata.AttrID) GetResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		return GetResult{Status: status.Failure}
	}
	key := graph.ObjectKey(ot, oid)
	if !c.store.Exists(key) {
		return GetResult{Status: status.InvalidParameter}
	}
	return c.getCommon(ctx, ot, otMeta, key, attrIDs)
}

// GetEntry fetches a set of attributes from a structured-key object.
func (c *Core) GetEntry(ctx context.Context, ot metadata.ObjectType, keyValues []graph.EntryKeyValue, attrIDs []metadata.AttrID) GetResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok {
		return GetResult{Status: status.Failure}
	}
	key, err := graph.EntryKey(ot, keyValues)
	if err != nil {
		c.logger.Error("render entry key failed", zap.String("type", string(ot)), zap.Error(err))
		return GetResult{Status: status.Failure}
	}
	if !c.store.Exists(key) {
		return GetResult{Status: status.InvalidParameter}
	}
	return c.getCommon(ctx, ot, otMeta, key, attrIDs)
}

// statsIDsFieldKey and statsValuesFieldKey are the reserved field
// names a get_stats/clear_stats request and response carry their
// counter-id list and counter-value list under. These counters are
// not schema attributes, so they bypass the attribute codec entirely.
const statsIDsFieldKey = "ids"
const statsValuesFieldKey = "values"

func encodeStatsIDs(ids []int32) pipeline.Fields {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return pipeline.Fields{statsIDsFieldKey: strings.Join(parts, ",")}
}

func decodeStatsValues(fields pipeline.Fields, n int) ([]int64, error) {
	raw, ok := fields[statsValuesFieldKey]
	if !ok || raw == "" {
		if n == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("validator: get_stats response missing %d values", n)
	}
	parts := strings.Split(raw, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("validator: get_stats response count mismatch: got %d want %d", len(parts), n)
	}
	out := make([]int64, n)
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("validator: get_stats response value %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

// GetStatsResult is GetStats's outcome: counter values in the same
// order as the requested counter ids.
type GetStatsResult struct {
	Values []int64
	Status status.Code
}

// getStatsCommon pushes a get_stats/clear_stats-shaped request and,
// for get_stats, waits for and decodes the counter values. clear_stats
// passes wantValues=false and ignores the decoded Values.
func (c *Core) getStatsCommon(ctx context.Context, key string, op pipeline.Op, letter string, counterIDs []int32, wantValues bool) GetStatsResult {
	if !c.store.Exists(key) {
		return GetStatsResult{Status: status.InvalidParameter}
	}
	if len(counterIDs) == 0 {
		return GetStatsResult{Status: status.InvalidParameter}
	}

	fields := encodeStatsIDs(counterIDs)
	if err := c.transport.Push(ctx, pipeline.Message{Key: key, Op: op, Fields: fields}); err != nil {
		c.logger.Error("push stats request failed", zap.String("key", key), zap.String("op", string(op)), zap.Error(err))
		return GetStatsResult{Status: status.Failure}
	}
	if c.tracer != nil {
		c.tracer.Record(letter, key, fields)
	}

	msg, code := c.waitForResponse(ctx)
	if c.tracer != nil {
		c.tracer.Record(pipeline.LetterGetStatsResponse, key, msg.Fields)
	}
	if !code.OK() {
		return GetStatsResult{Status: code}
	}
	if !wantValues {
		return GetStatsResult{Status: status.Success}
	}

	values, err := decodeStatsValues(msg.Fields, len(counterIDs))
	if err != nil {
		c.logger.Error("decode stats response failed", zap.String("key", key), zap.Error(err))
		return GetStatsResult{Status: status.Failure}
	}
	return GetStatsResult{Values: values, Status: status.Success}
}

// GetStats reads a list of counters from key in request order. The
// validator forwards counterIDs unchanged, and the virtual-switch back
// end always reads them: no bit of the request switches it to writing
// counters (that is Simulator.WriteCounters, called directly).
func (c *Core) GetStats(ctx context.Context, ot metadata.ObjectType, key string, counterIDs []int32) GetStatsResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getStatsCommon(ctx, key, pipeline.OpGetStats, pipeline.LetterGetStats, counterIDs, true)
}

// ClearStats zeroes a list of counters on key.
func (c *Core) ClearStats(ctx context.Context, ot metadata.ObjectType, key string, counterIDs []int32) status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getStatsCommon(ctx, key, pipeline.OpClearStats, pipeline.LetterGetStats, counterIDs, false).Status
}
