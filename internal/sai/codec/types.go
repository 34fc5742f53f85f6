// Package codec translates between typed attribute values and the
// canonical text form used on the wire and in recording logs.
//
// Every Value owns any heap memory it introduces (a MAC array, an OID
// slice, a nested ACL/QoS structure). The store in internal/sai/graph
// keeps its own deep copy of whatever Value it is handed; nothing here
// is shared by reference across two call sites.
package codec

import "fmt"

// ValueType tags the shape of a Value. It is the same vocabulary
// spec.md §3 calls the attribute metadata's "value type".
type ValueType int

const (
	Bool ValueType = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Int64
	MACAddr
	IPv4Addr
	IPv6Addr
	IPAddr       // generic IP address, family carried in the value
	IPPrefixVal  // addr/masklen
	OIDVal
	OIDListVal
	Uint32ListVal
	Int32ListVal
	VLANListVal
	QosMapListVal
	ACLFieldVal
	ACLFieldListVal
	ACLActionVal
	RangeVal
	TunnelMapListVal
	SegmentListVal
	CharDataVal
)

func (t ValueType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Uint8:
		return "u8"
	case Int8:
		return "s8"
	case Uint16:
		return "u16"
	case Int16:
		return "s16"
	case Uint32:
		return "u32"
	case Int32:
		return "s32"
	case Uint64:
		return "u64"
	case Int64:
		return "s64"
	case MACAddr:
		return "mac"
	case IPv4Addr:
		return "ipv4"
	case IPv6Addr:
		return "ipv6"
	case IPAddr:
		return "ipaddr"
	case IPPrefixVal:
		return "ipprefix"
	case OIDVal:
		return "oid"
	case OIDListVal:
		return "oidlist"
	case Uint32ListVal:
		return "u32list"
	case Int32ListVal:
		return "s32list"
	case VLANListVal:
		return "vlanlist"
	case QosMapListVal:
		return "qosmaplist"
	case ACLFieldVal:
		return "aclfield"
	case ACLFieldListVal:
		return "aclfieldlist"
	case ACLActionVal:
		return "aclaction"
	case RangeVal:
		return "range"
	case TunnelMapListVal:
		return "tunnelmaplist"
	case SegmentListVal:
		return "segmentlist"
	case CharDataVal:
		return "chardata"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// IsList reports whether the value type is a repeated/list shape. The
// validator uses this to decide whether "count" vs "pointer" shape
// checks (spec.md §4.4.1 pre-check 5) apply.
func (t ValueType) IsList() bool {
	switch t {
	case OIDListVal, Uint32ListVal, Int32ListVal, VLANListVal, QosMapListVal,
		ACLFieldListVal, TunnelMapListVal, SegmentListVal:
		return true
	default:
		return false
	}
}

// IsOIDBearing reports whether the value type can carry one or more OIDs
// that the reference-count machinery (spec.md invariant 3) must track.
func (t ValueType) IsOIDBearing() bool {
	switch t {
	case OIDVal, OIDListVal, ACLActionVal:
		return true
	default:
		return false
	}
}

// IsEnumCandidate reports whether the value type is admissible as an
// enum-domain-checked scalar (spec.md §4.4.1 pre-check 7).
func (t ValueType) IsEnumCandidate() bool {
	switch t {
	case Int32, Uint32, Int32ListVal:
		return true
	default:
		return false
	}
}

// QosMapEntry is one element of a QoS map list: a (key, value) pair of
// small integers (e.g. DSCP -> TC, or TC -> queue).
type QosMapEntry struct {
	Key   uint32
	Value uint32
}

// ACLFieldValue is the ACL-field variant: a presence flag, a u32
// payload and a u32 mask (list variants are layered on top via
// ACLFieldListVal).
type ACLFieldValue struct {
	Enable bool
	Data   uint32
	Mask   uint32
}

// ACLActionValue is the ACL-action variant: a presence flag plus an
// action parameter that is usually (but not always) an OID.
type ACLActionValue struct {
	Enable bool
	OID    uint64
}

// TunnelMapEntry pairs a tunnel map type with the OID of the map object.
type TunnelMapEntry struct {
	MapType int32
	MapOID  uint64
}

// Value is the owning, tagged sum type every attribute slot is stored
// and passed as (spec.md §9 "attribute-value variant"). Only the fields
// relevant to Type are meaningful; callers must check Type before
// reading a field.
type Value struct {
	Type ValueType

	B bool
	I int64  // signed scalars
	U uint64 // unsigned scalars, and the single OID for OIDVal

	MAC [6]byte
	IP  [16]byte // IPv4 stored in the first 4 bytes when Type == IPv4Addr
	IsV6 bool    // meaningful for IPAddr: which family IP holds

	PrefixLen int

	OIDs []uint64
	U32s []uint32
	S32s []int32

	QosMaps    []QosMapEntry
	ACLField   *ACLFieldValue
	ACLFields  []ACLFieldValue
	ACLAction  *ACLActionValue
	RangeMin   int64
	RangeMax   int64
	TunnelMaps []TunnelMapEntry
	Segments   [][16]byte

	Str string
}

// Clone returns a deep copy, preserving the owning-value discipline
// spec.md §4.2 requires: the graph store never aliases a slice or
// pointer with the caller's copy.
func (v Value) Clone() Value {
	out := v
	if v.OIDs != nil {
		out.OIDs = append([]uint64(nil), v.OIDs...)
	}
	if v.U32s != nil {
		out.U32s = append([]uint32(nil), v.U32s...)
	}
	if v.S32s != nil {
		out.S32s = append([]int32(nil), v.S32s...)
	}
	if v.QosMaps != nil {
		out.QosMaps = append([]QosMapEntry(nil), v.QosMaps...)
	}
	if v.ACLField != nil {
		f := *v.ACLField
		out.ACLField = &f
	}
	if v.ACLFields != nil {
		out.ACLFields = append([]ACLFieldValue(nil), v.ACLFields...)
	}
	if v.ACLAction != nil {
		a := *v.ACLAction
		out.ACLAction = &a
	}
	if v.TunnelMaps != nil {
		out.TunnelMaps = append([]TunnelMapEntry(nil), v.TunnelMaps...)
	}
	if v.Segments != nil {
		out.Segments = append([][16]byte(nil), v.Segments...)
	}
	return out
}

// OIDRefs returns every OID this value references, for ref-counting.
// A null OID (0) is included; callers decide whether null is allowed.
func (v Value) OIDRefs() []uint64 {
	switch v.Type {
	case OIDVal:
		return []uint64{v.U}
	case OIDListVal:
		return v.OIDs
	case ACLActionVal:
		if v.ACLAction != nil && v.ACLAction.Enable {
			return []uint64{v.ACLAction.OID}
		}
		return nil
	default:
		return nil
	}
}
