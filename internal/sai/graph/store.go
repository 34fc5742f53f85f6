// Package graph holds the in-memory object graph: every object's
// attribute slots, OID reference counts, and the KEY-tuple index used
// to enforce uniqueness across KEY-flagged attributes (spec.md §4.3).
//
// The store performs no locking of its own. Every exported method
// assumes the caller (validator.Core) already holds the process-wide
// mutex described in spec.md §5; that is the only synchronization any
// of this needs.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
)

// ErrKeyExists is returned by Create when the key is already present.
var ErrKeyExists = errors.New("graph: key already exists")

// ErrNegativeRefCount is returned by RefDec if a decrement would drive
// a reference count below zero — spec.md §4.3 calls this "a
// programming error", so it is surfaced rather than silently clamped.
var ErrNegativeRefCount = errors.New("graph: reference count would go negative")

// ErrKeyTupleExists is returned when a KEY-tuple collides with one
// already registered for the same object type (invariant 4).
var ErrKeyTupleExists = errors.New("graph: key-tuple already exists for this object type")

// Store is the three state containers of spec.md §4.3: ObjectAttrs,
// RefCount, and KeyIndex.
type Store struct {
	// objectAttrs is ObjectAttrs: canonical key -> (attr id -> value).
	objectAttrs map[string]map[metadata.AttrID]codec.Value

	// refCount is RefCount: OID -> signed reference count.
	refCount map[uint64]int64

	// keyIndex is KeyIndex: canonical key -> KEY-tuple string.
	keyIndex map[string]string

	// tupleOwner is the reverse of keyIndex, scoped per object type, so
	// invariant 4 can be checked in O(1) instead of scanning keyIndex.
	tupleOwner map[metadata.ObjectType]map[string]string

	// oidType maps an allocated OID to its object type, supporting the
	// validator's object_type_query-equivalent lookup (spec.md §4.4.1
	// pre-check 6). Snooped OIDs (§4.4.4) are deliberately absent: the
	// executor disclosed their existence but not their type.
	oidType map[uint64]metadata.ObjectType

	// singletons tracks which singleton object types (switch, ...)
	// already have an instance (spec.md §4.4.1 pre-check 9).
	singletons map[metadata.ObjectType]bool
}

// NewStore returns an empty graph.
func NewStore() *Store {
	return &Store{
		objectAttrs: make(map[string]map[metadata.AttrID]codec.Value),
		refCount:    make(map[uint64]int64),
		keyIndex:    make(map[string]string),
		tupleOwner:  make(map[metadata.ObjectType]map[string]string),
		oidType:     make(map[uint64]metadata.ObjectType),
	}
}

// Exists reports whether key has an object record.
func (s *Store) Exists(key string) bool {
	_, ok := s.objectAttrs[key]
	return ok
}

// Create inserts key with an initially empty attribute set. Fails if
// key is already present (spec.md §4.3 `create`).
func (s *Store) Create(key string) error {
	if s.Exists(key) {
		return fmt.Errorf("%w: %s", ErrKeyExists, key)
	}
	s.objectAttrs[key] = make(map[metadata.AttrID]codec.Value)
	return nil
}

// SetAttr replaces the attribute slot, deep-copying value in (spec.md
// §4.3 `set_attr`). The object must already exist.
func (s *Store) SetAttr(key string, attr metadata.AttrID, value codec.Value) error {
	obj, ok := s.objectAttrs[key]
	if !ok {
		return fmt.Errorf("graph: set_attr on unknown key %s", key)
	}
	obj[attr] = value.Clone()
	return nil
}

// GetPreviousAttr returns the currently stored value for (key, attr),
// or (zero, false) if unset — used by the validator's set path to
// decrement the outgoing referent before incrementing the incoming one
// (spec.md §4.3 `get_previous_attr`).
func (s *Store) GetPreviousAttr(key string, attr metadata.AttrID) (codec.Value, bool) {
	obj, ok := s.objectAttrs[key]
	if !ok {
		return codec.Value{}, false
	}
	v, ok := obj[attr]
	return v, ok
}

// Attrs returns the full, live attribute map for key (nil, false if
// unknown). Callers must not retain it past the validator's critical
// section.
func (s *Store) Attrs(key string) (map[metadata.AttrID]codec.Value, bool) {
	obj, ok := s.objectAttrs[key]
	return obj, ok
}

// Remove erases every slot for key (spec.md §4.3 `remove`). The caller
// must already have decremented every referent this object held.
func (s *Store) Remove(key string) {
	delete(s.objectAttrs, key)
}

// RefInsert registers a freshly created OID with reference count 0
// (spec.md §4.4.1 post-update: "for OID types: call ref_insert(new_oid)").
func (s *Store) RefInsert(oid uint64) {
	if _, ok := s.refCount[oid]; !ok {
		s.refCount[oid] = 0
	}
}

// RefInc increments oid's reference count.
func (s *Store) RefInc(oid uint64) {
	s.refCount[oid]++
}

// RefIncList increments every OID in oids.
func (s *Store) RefIncList(oids []uint64) {
	for _, oid := range oids {
		s.RefInc(oid)
	}
}

// RefDec decrements oid's reference count, failing rather than going
// negative (spec.md §4.3: "never allowed to be negative").
func (s *Store) RefDec(oid uint64) error {
	if s.refCount[oid] <= 0 {
		return fmt.Errorf("%w: oid 0x%016x", ErrNegativeRefCount, oid)
	}
	s.refCount[oid]--
	return nil
}

// RefDecList decrements every OID in oids, stopping at the first error.
func (s *Store) RefDecList(oids []uint64) error {
	for _, oid := range oids {
		if err := s.RefDec(oid); err != nil {
			return err
		}
	}
	return nil
}

// RefCount returns oid's current reference count (0 if never
// inserted — querying an unknown OID is not itself an error here; the
// validator's OID-existence pre-check is what guards against that).
func (s *Store) RefCount(oid uint64) int64 {
	return s.refCount[oid]
}

// RefRemove drops oid's reference-count slot entirely, once the object
// itself is removed (spec.md §4.4.2 post-update).
func (s *Store) RefRemove(oid uint64) {
	delete(s.refCount, oid)
	delete(s.oidType, oid)
}

// RefExists reports whether oid has a reference-count slot — "the
// referent exists in the graph" of spec.md §4.4.1 pre-check 6. This
// holds both for normally created OIDs and for snooped ones (spec.md
// §4.4.4), which is exactly the point of the slot.
func (s *Store) RefExists(oid uint64) bool {
	_, ok := s.refCount[oid]
	return ok
}

// RegisterOIDType records oid's object type at creation time.
func (s *Store) RegisterOIDType(oid uint64, ot metadata.ObjectType) {
	s.oidType[oid] = ot
}

// OIDType returns the object type oid was created as, or (_, false)
// for a snooped OID whose type was never disclosed.
func (s *Store) OIDType(oid uint64) (metadata.ObjectType, bool) {
	ot, ok := s.oidType[oid]
	return ot, ok
}

// TupleExists reports whether tuple is already registered for ot,
// under any key — a non-mutating peek used during create's
// pre-check phase, before anything may touch the graph (invariant 4,
// spec.md §4.4.1 pre-check 10).
func (s *Store) TupleExists(ot metadata.ObjectType, tuple string) bool {
	if tuple == "" {
		return false
	}
	owners, ok := s.tupleOwner[ot]
	if !ok {
		return false
	}
	_, ok = owners[tuple]
	return ok
}

// MarkSingleton records that an instance of singleton object type ot
// now exists (spec.md §4.4.1 pre-check 9).
func (s *Store) MarkSingleton(ot metadata.ObjectType) {
	if s.singletons == nil {
		s.singletons = make(map[metadata.ObjectType]bool)
	}
	s.singletons[ot] = true
}

// HasSingleton reports whether an instance of singleton object type ot
// already exists.
func (s *Store) HasSingleton(ot metadata.ObjectType) bool {
	return s.singletons[ot]
}

// KeysByType returns every canonical key currently recorded for ot, in
// no particular order. Used by bulk filter operations (FDB flush) that
// must scan every live object of a type rather than address one by
// identity.
func (s *Store) KeysByType(ot metadata.ObjectType) []string {
	prefix := string(ot) + ":"
	var keys []string
	for k := range s.objectAttrs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// SetKeyTuple records key's KEY-tuple under ot, failing if another key
// of the same object type already owns that tuple (invariant 4).
func (s *Store) SetKeyTuple(ot metadata.ObjectType, key, tuple string) error {
	if tuple == "" {
		return nil
	}
	owners, ok := s.tupleOwner[ot]
	if !ok {
		owners = make(map[string]string)
		s.tupleOwner[ot] = owners
	}
	if existing, dup := owners[tuple]; dup && existing != key {
		return fmt.Errorf("%w: type %s tuple %q held by %s", ErrKeyTupleExists, ot, tuple, existing)
	}
	owners[tuple] = key
	s.keyIndex[key] = tuple
	return nil
}

// KeyTupleOf returns the KEY-tuple stored for key, if any.
func (s *Store) KeyTupleOf(key string) (string, bool) {
	t, ok := s.keyIndex[key]
	return t, ok
}

// RemoveKeyTuple erases key's KeyIndex entry, freeing its tuple for
// reuse by a future object of the same type (spec.md §4.4.2
// post-update: "erase the object record and any KeyIndex entry").
func (s *Store) RemoveKeyTuple(ot metadata.ObjectType, key string) {
	tuple, ok := s.keyIndex[key]
	if !ok {
		return
	}
	delete(s.keyIndex, key)
	if owners, ok := s.tupleOwner[ot]; ok {
		if owners[tuple] == key {
			delete(owners, tuple)
		}
	}
}
