package graph

import (
	"fmt"
	"strings"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
)

// ObjectKey renders the canonical key string of an OID-identified
// object (spec.md §4.3: `"<type>:0x…"`).
func ObjectKey(ot metadata.ObjectType, oid uint64) string {
	return fmt.Sprintf("%s:0x%016x", ot, oid)
}

// EntryKeyValue pairs one structured-key field with its supplied value,
// in the order metadata.ObjectTypeMeta.EntryKey declares.
type EntryKeyValue struct {
	Field metadata.EntryKeyField
	Value codec.Value
}

// EntryKey renders a structured-key object's canonical key string
// (spec.md §4.3, e.g. `fdb:mac:aa:bb…;vlan:10;bv:0x…`):
// "<type>:<field>:<value>;<field>:<value>;...".
func EntryKey(ot metadata.ObjectType, values []EntryKeyValue) (string, error) {
	parts := make([]string, len(values))
	for i, kv := range values {
		s, err := codec.Serialize(kv.Value)
		if err != nil {
			return "", fmt.Errorf("render entry key field %s: %w", kv.Field.Name, err)
		}
		parts[i] = kv.Field.Name + ":" + s
	}
	return string(ot) + ":" + strings.Join(parts, ";"), nil
}

// KeyTuple assembles the KEY-tuple string used to enforce invariant 4
// (spec.md §4.4.1 pre-check 10): KEY-flagged attributes, sorted by id,
// canonically rendered and concatenated. keyAttrs is expected to come
// from metadata.ObjectTypeMeta.KeyAttrs(), already sorted.
func KeyTuple(attrs map[metadata.AttrID]codec.Value, keyAttrs []metadata.AttrID) (string, error) {
	parts := make([]string, 0, len(keyAttrs))
	for _, id := range keyAttrs {
		v, ok := attrs[id]
		if !ok {
			continue
		}
		s, err := codec.Serialize(v)
		if err != nil {
			return "", fmt.Errorf("render key attr %d: %w", id, err)
		}
		parts = append(parts, fmt.Sprintf("%d=%s", id, s))
	}
	return strings.Join(parts, ";"), nil
}
