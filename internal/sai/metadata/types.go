// Package metadata is the static, read-only schema catalog described in
// spec.md §4.1: per-(object-type, attribute) records describing value
// type, flags, default-value strategy, conditional predicates, allowed
// referent object types, and enum domains. It is built once at process
// start (see registry.go) and is safe to share by reference across
// goroutines — nothing here is ever mutated after init.
package metadata

import "github.com/sonic-net/sai-redis-go/internal/sai/codec"

// ObjectType identifies a SAI object type. The concrete set used by this
// shim is listed in objects.go; any value not registered there is
// unknown to the schema.
type ObjectType string

// AttrID identifies an attribute within the scope of a single
// ObjectType. IDs are only unique per object type, mirroring the real
// SAI attribute-id enums (each object type has its own).
type AttrID int32

// AttrFlag is a bitset drawn from spec.md §3's flag vocabulary.
type AttrFlag uint8

const (
	// MandatoryOnCreate: the attribute (or, if conditional, its active
	// condition) must be supplied on create.
	MandatoryOnCreate AttrFlag = 1 << iota
	// CreateOnly: settable at create time only, never via SET.
	CreateOnly
	// CreateAndSet: settable at create time and via SET.
	CreateAndSet
	// ReadOnly: never settable by caller action (escape hatch aside).
	ReadOnly
	// Key: part of the object type's uniqueness tuple (invariant 4).
	Key
)

// Has reports whether f includes x.
func (f AttrFlag) Has(x AttrFlag) bool { return f&x != 0 }

// DefaultKind enumerates the default-value strategies of spec.md §3.
type DefaultKind int

const (
	DefaultNone DefaultKind = iota
	DefaultConst
	DefaultEmptyList
	DefaultAttrValue    // points at another attribute's value
	DefaultAttrRange    // points at a range attribute
	DefaultVendorSpecific
	DefaultSwitchInternal
	DefaultInherit
)

// DefaultStrategy describes how to obtain a value for an attribute that
// was not supplied on create.
type DefaultStrategy struct {
	Kind DefaultKind

	// Const is used when Kind == DefaultConst.
	Const codec.Value

	// RefAttr is used when Kind == DefaultAttrValue or DefaultAttrRange:
	// the id of the sibling attribute whose value (or range) supplies
	// the default.
	RefAttr AttrID
}

// Condition is one disjunct of a conditional attribute's activation
// predicate (spec.md §4.1): the attribute is "active" when ANY of its
// Conditions holds against the supplied (or defaulted) sibling value.
type Condition struct {
	AttrID AttrID
	// Literal is the scalar (boolean-as-0/1 or enum integer) the
	// sibling attribute is compared against for equality.
	Literal int64
}

// OIDConstraint describes the allowed referents of an OID-valued
// (scalar or list) attribute.
type OIDConstraint struct {
	AllowedTypes []ObjectType
	AllowNull    bool
}

// AttrMeta is the per-(object-type, attribute) metadata record of
// spec.md §3.
type AttrMeta struct {
	ID    AttrID
	Name  string
	Value codec.ValueType
	Flags AttrFlag

	Default DefaultStrategy

	// OIDConstraint is non-nil iff Value.IsOIDBearing().
	OIDConstraint *OIDConstraint

	// EnumDomain names the domain in the registry's enum table, iff
	// Value.IsEnumCandidate() and the attribute is enum-typed (as
	// opposed to a plain integer).
	EnumDomain string

	// Conditions is non-empty iff this attribute is conditional. The
	// attribute is "active" when any Condition matches (disjunction).
	Conditions []Condition
}

// IsConditional reports whether the attribute's presence/required-ness
// depends on other attributes.
func (m AttrMeta) IsConditional() bool { return len(m.Conditions) > 0 }

// EnumDomain is the admissible-integer domain for an enum-valued
// attribute, with the textual name of each admissible value (used by
// the diagnostic surface and by trace-friendly error messages).
type EnumDomain struct {
	Name    string
	Members map[int64]string
}

// Contains reports whether v is an admissible member of the domain.
func (d EnumDomain) Contains(v int64) bool {
	_, ok := d.Members[v]
	return ok
}

// StatsCounter is one entry in an object type's read/clear-able counter
// enum (spec.md §4.4.5, §4.6).
type StatsCounter struct {
	ID   int32
	Name string
}

// EntryKeyFieldKind describes how one field of an entry-type's
// structured key renders and, for OID fields, which object type it
// implicitly references (and ref-counts as a parent — spec.md §4.3's
// "entry-type objects bump the ref count of their structural parent").
type EntryKeyFieldKind int

const (
	EntryFieldOID EntryKeyFieldKind = iota
	EntryFieldMAC
	EntryFieldIPAddr
	EntryFieldIPPrefix
	EntryFieldUint32
)

// EntryKeyField is one component of a structured-key (entry) object's
// identity tuple (spec.md §3's canonical key grammar, e.g.
// "fdb:mac:...;vlan:10;bv:0x...").
type EntryKeyField struct {
	Name string
	Kind EntryKeyFieldKind
	// ParentType is set when Kind == EntryFieldOID: the object type this
	// field's OID must reference, and whose ref count the entry bumps.
	ParentType ObjectType
}

// ObjectTypeMeta is the per-object-type schema record: its attribute
// table, its stats-counter enum, and lifecycle shape flags.
type ObjectTypeMeta struct {
	Type ObjectType

	// IsEntry is true for structured-key objects (FDB, neighbor, route,
	// ...) as opposed to OID-identified objects. EntryKey describes the
	// tuple; Attrs describes the remaining, non-key settable state.
	IsEntry  bool
	EntryKey []EntryKeyField

	// IsSingleton is true for object types of which only one instance
	// may ever exist — spec.md §4.4.1 pre-check 9. In Registry only
	// switch sets it; vlan and trap identities are kept unique by their
	// KEY attributes instead.
	IsSingleton bool

	// Unremovable singleton/entry identities (spec.md §4.4.2): when
	// true, remove always fails regardless of ref count.
	Unremovable bool

	Attrs map[AttrID]AttrMeta

	Stats []StatsCounter
}

// AttrMeta looks up a single attribute record, or (AttrMeta{}, false) if attr
// is not known for this object type (spec.md §4.4.1 pre-check 3).
func (m ObjectTypeMeta) AttrMeta(attr AttrID) (AttrMeta, bool) {
	a, ok := m.Attrs[attr]
	return a, ok
}

// KeyAttrs returns the ids of every KEY-flagged attribute, sorted, used
// to assemble the KEY-tuple string of spec.md §4.3's KeyIndex.
func (m ObjectTypeMeta) KeyAttrs() []AttrID {
	var ids []AttrID
	for id, a := range m.Attrs {
		if a.Flags.Has(Key) {
			ids = append(ids, id)
		}
	}
	sortAttrIDs(ids)
	return ids
}

func sortAttrIDs(ids []AttrID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
