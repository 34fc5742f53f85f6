package validator

import (
	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
)

// SnoopEntry records a structured-key object the driver learned on its
// own, without a caller ever issuing create_entry for it — the FDB
// dynamic-learning notification path (original_source/meta/sai_meta.h's
// meta_sai_on_fdb_event, supplemented per DESIGN.md). It applies exactly
// CreateEntry's post-update (graph insert, parent ref-count bump,
// attribute ref-count bumps) but skips the mandatory/conditional
// pre-checks a caller-driven create_entry enforces, since the entry
// already exists on the real switch and the driver is the authority on
// its shape. A repeat notification for an already-known key is a no-op,
// not an error — notifications can race a caller's own create_entry or
// arrive more than once.
func (c *Core) SnoopEntry(ot metadata.ObjectType, keyValues []graph.EntryKeyValue, attrs map[metadata.AttrID]codec.Value) status.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	otMeta, ok := c.schema.ObjectTypeMeta(ot)
	if !ok || !otMeta.IsEntry {
		return status.Failure
	}

	key, err := graph.EntryKey(ot, keyValues)
	if err != nil {
		c.logger.Error("snoop: render entry key failed", zap.String("type", string(ot)), zap.Error(err))
		return status.Failure
	}
	if c.store.Exists(key) {
		return status.Success
	}

	for _, kv := range keyValues {
		if kv.Field.Kind != metadata.EntryFieldOID {
			continue
		}
		if !c.store.RefExists(kv.Value.U) {
			return status.InvalidParameter
		}
	}

	if err := c.store.Create(key); err != nil {
		c.fatal("snoop create on fresh entry key collided", zap.String("key", key), zap.Error(err))
	}
	for _, kv := range keyValues {
		if kv.Field.Kind == metadata.EntryFieldOID {
			c.store.RefInc(kv.Value.U)
		}
	}
	for id, v := range attrs {
		if err := c.store.SetAttr(key, id, v); err != nil {
			c.fatal("snoop set_attr failed", zap.String("key", key), zap.Error(err))
		}
		for _, ref := range v.OIDRefs() {
			if ref != metadata.NullOID {
				c.store.RefInc(ref)
			}
		}
	}

	c.logger.Info("snooped learned entry", zap.String("key", key))
	return status.Success
}
