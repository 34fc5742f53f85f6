package codec

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Deserialize parses s, which is expected to be in the canonical text
// form for t, into a Value. It is the exact inverse of Serialize:
// Deserialize(t, Serialize(v)) == v for every v admissible under t
// (spec.md §4.2 round-trip law, first direction).
func Deserialize(t ValueType, s string) (Value, error) {
	switch t {
	case Bool:
		switch s {
		case "true":
			return Value{Type: Bool, B: true}, nil
		case "false":
			return Value{Type: Bool, B: false}, nil
		}
		return Value{}, fmt.Errorf("codec: invalid bool %q", s)

	case Uint8, Uint16, Uint32, Uint64:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("codec: invalid %s %q: %w", t, s, err)
		}
		return Value{Type: t, U: u}, nil

	case Int8, Int16, Int32, Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("codec: invalid %s %q: %w", t, s, err)
		}
		return Value{Type: t, I: i}, nil

	case MACAddr:
		hw, err := net.ParseMAC(s)
		if err != nil || len(hw) != 6 {
			return Value{}, fmt.Errorf("codec: invalid mac %q", s)
		}
		var v Value
		v.Type = MACAddr
		copy(v.MAC[:], hw)
		return v, nil

	case IPv4Addr:
		ip := net.ParseIP(s)
		ip4 := ip.To4()
		if ip4 == nil {
			return Value{}, fmt.Errorf("codec: invalid ipv4 %q", s)
		}
		var v Value
		v.Type = IPv4Addr
		copy(v.IP[:4], ip4)
		return v, nil

	case IPv6Addr:
		ip := net.ParseIP(s)
		if ip == nil || ip.To4() != nil {
			return Value{}, fmt.Errorf("codec: invalid ipv6 %q", s)
		}
		var v Value
		v.Type = IPv6Addr
		copy(v.IP[:], ip.To16())
		return v, nil

	case IPAddr:
		ip := net.ParseIP(s)
		if ip == nil {
			return Value{}, fmt.Errorf("codec: invalid ip address %q", s)
		}
		var v Value
		v.Type = IPAddr
		if ip4 := ip.To4(); ip4 != nil {
			copy(v.IP[:4], ip4)
			v.IsV6 = false
		} else {
			copy(v.IP[:], ip.To16())
			v.IsV6 = true
		}
		return v, nil

	case IPPrefixVal:
		return deserializeIPPrefix(s)

	case OIDVal:
		u, err := parseOID(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: OIDVal, U: u}, nil

	case OIDListVal:
		parts, err := splitList(s)
		if err != nil {
			return Value{}, err
		}
		oids := make([]uint64, len(parts))
		for i, p := range parts {
			u, err := parseOID(p)
			if err != nil {
				return Value{}, err
			}
			oids[i] = u
		}
		return Value{Type: OIDListVal, OIDs: oids}, nil

	case Uint32ListVal, VLANListVal:
		parts, err := splitList(s)
		if err != nil {
			return Value{}, err
		}
		us := make([]uint32, len(parts))
		for i, p := range parts {
			u, err := strconv.ParseUint(p, 10, 32)
			if err != nil {
				return Value{}, fmt.Errorf("codec: invalid u32 list element %q: %w", p, err)
			}
			us[i] = uint32(u)
		}
		return Value{Type: t, U32s: us}, nil

	case Int32ListVal:
		parts, err := splitList(s)
		if err != nil {
			return Value{}, err
		}
		ss := make([]int32, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseInt(p, 10, 32)
			if err != nil {
				return Value{}, fmt.Errorf("codec: invalid s32 list element %q: %w", p, err)
			}
			ss[i] = int32(v)
		}
		return Value{Type: Int32ListVal, S32s: ss}, nil

	case QosMapListVal:
		parts, err := splitList(s)
		if err != nil {
			return Value{}, err
		}
		entries := make([]QosMapEntry, len(parts))
		for i, p := range parts {
			k, v, err := parseBraceKV(p)
			if err != nil {
				return Value{}, err
			}
			entries[i] = QosMapEntry{Key: uint32(k), Value: uint32(v)}
		}
		return Value{Type: QosMapListVal, QosMaps: entries}, nil

	case ACLFieldVal:
		f, err := deserializeACLField(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: ACLFieldVal, ACLField: &f}, nil

	case ACLFieldListVal:
		parts, err := splitList(s)
		if err != nil {
			return Value{}, err
		}
		fields := make([]ACLFieldValue, len(parts))
		for i, p := range parts {
			f, err := deserializeACLField(p)
			if err != nil {
				return Value{}, err
			}
			fields[i] = f
		}
		return Value{Type: ACLFieldListVal, ACLFields: fields}, nil

	case ACLActionVal:
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
		fields := strings.SplitN(inner, ":", 2)
		if len(fields) != 2 {
			return Value{}, fmt.Errorf("codec: invalid aclaction %q", s)
		}
		enable, err := strconv.Atoi(fields[0])
		if err != nil {
			return Value{}, fmt.Errorf("codec: invalid aclaction enable flag %q", fields[0])
		}
		oid, err := parseOID(fields[1])
		if err != nil {
			return Value{}, err
		}
		return Value{Type: ACLActionVal, ACLAction: &ACLActionValue{Enable: enable != 0, OID: oid}}, nil

	case RangeVal:
		fields := strings.SplitN(s, ":", 2)
		if len(fields) != 2 {
			return Value{}, fmt.Errorf("codec: invalid range %q", s)
		}
		min, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("codec: invalid range min %q", fields[0])
		}
		max, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("codec: invalid range max %q", fields[1])
		}
		if min > max {
			return Value{}, fmt.Errorf("codec: range min %d > max %d", min, max)
		}
		return Value{Type: RangeVal, RangeMin: min, RangeMax: max}, nil

	case TunnelMapListVal:
		parts, err := splitList(s)
		if err != nil {
			return Value{}, err
		}
		entries := make([]TunnelMapEntry, len(parts))
		for i, p := range parts {
			inner := strings.TrimSuffix(strings.TrimPrefix(p, "{"), "}")
			fields := strings.SplitN(inner, ":", 2)
			if len(fields) != 2 {
				return Value{}, fmt.Errorf("codec: invalid tunnelmap entry %q", p)
			}
			mt, err := strconv.ParseInt(fields[0], 10, 32)
			if err != nil {
				return Value{}, fmt.Errorf("codec: invalid tunnelmap type %q", fields[0])
			}
			oid, err := parseOID(fields[1])
			if err != nil {
				return Value{}, err
			}
			entries[i] = TunnelMapEntry{MapType: int32(mt), MapOID: oid}
		}
		return Value{Type: TunnelMapListVal, TunnelMaps: entries}, nil

	case SegmentListVal:
		parts, err := splitList(s)
		if err != nil {
			return Value{}, err
		}
		segs := make([][16]byte, len(parts))
		for i, p := range parts {
			ip := net.ParseIP(p)
			if ip == nil {
				return Value{}, fmt.Errorf("codec: invalid segment %q", p)
			}
			var b [16]byte
			copy(b[:], ip.To16())
			segs[i] = b
		}
		return Value{Type: SegmentListVal, Segments: segs}, nil

	case CharDataVal:
		return Value{Type: CharDataVal, Str: s}, nil

	default:
		return Value{}, fmt.Errorf("codec: deserialize: unknown value type %v", t)
	}
}

func parseOID(s string) (uint64, error) {
	if !strings.HasPrefix(s, "0x") || len(s) != 18 {
		return 0, fmt.Errorf("codec: invalid oid %q", s)
	}
	u, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("codec: invalid oid %q: %w", s, err)
	}
	return u, nil
}

// splitList parses the "<count>:v1,v2,..." grammar spec.md §4.2
// specifies for list-shaped attributes, verifying the declared count
// matches the number of elements actually present.
func splitList(s string) ([]string, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return nil, fmt.Errorf("codec: invalid list %q: missing count prefix", s)
	}
	count, err := strconv.Atoi(s[:idx])
	if err != nil {
		return nil, fmt.Errorf("codec: invalid list count %q: %w", s[:idx], err)
	}
	rest := s[idx+1:]
	if count == 0 {
		if rest != "" {
			return nil, fmt.Errorf("codec: list declares 0 elements but has body %q", rest)
		}
		return nil, nil
	}
	parts := splitTopLevel(rest)
	if len(parts) != count {
		return nil, fmt.Errorf("codec: list declares %d elements, found %d", count, len(parts))
	}
	return parts, nil
}

// splitTopLevel splits on commas that are not nested inside {...},
// since complex list elements (ACL field, tunnel map, QoS map) use
// braces that may themselves contain no commas here but are kept
// brace-aware for robustness.
func splitTopLevel(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

func parseBraceKV(s string) (int64, int64, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	fields := strings.SplitN(inner, ":", 2)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("codec: invalid brace pair %q", s)
	}
	k, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("codec: invalid key %q", fields[0])
	}
	v, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("codec: invalid value %q", fields[1])
	}
	return k, v, nil
}

func deserializeACLField(s string) (ACLFieldValue, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	fields := strings.Split(inner, ":")
	if len(fields) != 2 && len(fields) != 3 {
		return ACLFieldValue{}, fmt.Errorf("codec: invalid aclfield %q", s)
	}
	enable, err := strconv.Atoi(fields[0])
	if err != nil {
		return ACLFieldValue{}, fmt.Errorf("codec: invalid aclfield enable flag %q", fields[0])
	}
	data, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return ACLFieldValue{}, fmt.Errorf("codec: invalid aclfield data %q", fields[1])
	}
	f := ACLFieldValue{Enable: enable != 0, Data: uint32(data)}
	if len(fields) == 3 {
		mask, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return ACLFieldValue{}, fmt.Errorf("codec: invalid aclfield mask %q", fields[2])
		}
		f.Mask = uint32(mask)
	}
	return f, nil
}

func deserializeIPPrefix(s string) (Value, error) {
	idx := strings.LastIndexByte(s, '/')
	if idx < 0 {
		return Value{}, fmt.Errorf("codec: invalid ip prefix %q", s)
	}
	addrStr, lenStr := s[:idx], s[idx+1:]
	ip := net.ParseIP(addrStr)
	if ip == nil {
		return Value{}, fmt.Errorf("codec: invalid ip prefix address %q", addrStr)
	}
	declared, err := strconv.Atoi(lenStr)
	if err != nil {
		return Value{}, fmt.Errorf("codec: invalid ip prefix length %q", lenStr)
	}

	var v Value
	v.Type = IPPrefixVal
	if ip4 := ip.To4(); ip4 != nil && !strings.Contains(addrStr, ":") {
		copy(v.IP[:4], ip4)
		v.IsV6 = false
		if declared < 0 || declared > 32 {
			return Value{}, fmt.Errorf("codec: ipv4 prefix length %d out of range", declared)
		}
		v.PrefixLen = declared
		return v, nil
	}

	copy(v.IP[:], ip.To16())
	v.IsV6 = true
	if declared < 0 || declared > 128 {
		return Value{}, fmt.Errorf("codec: ipv6 prefix length %d out of range", declared)
	}
	v.PrefixLen = declared
	return v, nil
}
