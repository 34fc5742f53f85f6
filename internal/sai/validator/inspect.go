package validator

import (
	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
)

// These are the read-only accessors the diagnostic surface (spec.md §4.8)
// needs and no validator operation does: a dump of one object's
// attributes, the key set for a type, and a reference count lookup. None
// of them touch the pipeline or the graph's mutating methods.

// DumpObject returns the full attribute snapshot stored under key,
// regardless of object type.
func (c *Core) DumpObject(key string) (map[metadata.AttrID]codec.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	attrs, ok := c.store.Attrs(key)
	if !ok {
		return nil, false
	}
	out := make(map[metadata.AttrID]codec.Value, len(attrs))
	for id, v := range attrs {
		out[id] = v
	}
	return out, true
}

// KeysOfType lists every canonical key currently recorded for ot.
func (c *Core) KeysOfType(ot metadata.ObjectType) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.KeysByType(ot)
}

// RefCountOf reports oid's current reference count (0 if oid is unknown
// or was never referenced).
func (c *Core) RefCountOf(oid uint64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.RefCount(oid)
}
