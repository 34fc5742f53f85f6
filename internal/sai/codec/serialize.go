package codec

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Serialize renders v in its canonical text form. The result is stable:
// re-serializing a value deserialized from canonical text yields the
// identical string (spec.md §4.2 round-trip law, second direction).
func Serialize(v Value) (string, error) {
	switch v.Type {
	case Bool:
		if v.B {
			return "true", nil
		}
		return "false", nil

	case Uint8, Uint16, Uint32, Uint64:
		return strconv.FormatUint(v.U, 10), nil

	case Int8, Int16, Int32, Int64:
		return strconv.FormatInt(v.I, 10), nil

	case MACAddr:
		return net.HardwareAddr(v.MAC[:]).String(), nil

	case IPv4Addr:
		return net.IP(v.IP[:4]).String(), nil

	case IPv6Addr:
		return net.IP(v.IP[:16]).String(), nil

	case IPAddr:
		if v.IsV6 {
			return net.IP(v.IP[:16]).String(), nil
		}
		return net.IP(v.IP[:4]).String(), nil

	case IPPrefixVal:
		addr := serializeIPPrefixAddr(v)
		return fmt.Sprintf("%s/%d", addr, v.PrefixLen), nil

	case OIDVal:
		return formatOID(v.U), nil

	case OIDListVal:
		parts := make([]string, len(v.OIDs))
		for i, o := range v.OIDs {
			parts[i] = formatOID(o)
		}
		return listForm(len(parts), parts), nil

	case Uint32ListVal, VLANListVal:
		parts := make([]string, len(v.U32s))
		for i, u := range v.U32s {
			parts[i] = strconv.FormatUint(uint64(u), 10)
		}
		return listForm(len(parts), parts), nil

	case Int32ListVal:
		parts := make([]string, len(v.S32s))
		for i, s := range v.S32s {
			parts[i] = strconv.FormatInt(int64(s), 10)
		}
		return listForm(len(parts), parts), nil

	case QosMapListVal:
		parts := make([]string, len(v.QosMaps))
		for i, e := range v.QosMaps {
			parts[i] = fmt.Sprintf("{%d:%d}", e.Key, e.Value)
		}
		return listForm(len(parts), parts), nil

	case ACLFieldVal:
		if v.ACLField == nil {
			return "", fmt.Errorf("codec: aclfield value missing payload")
		}
		return serializeACLField(*v.ACLField), nil

	case ACLFieldListVal:
		parts := make([]string, len(v.ACLFields))
		for i, f := range v.ACLFields {
			parts[i] = serializeACLField(f)
		}
		return listForm(len(parts), parts), nil

	case ACLActionVal:
		if v.ACLAction == nil {
			return "", fmt.Errorf("codec: aclaction value missing payload")
		}
		a := v.ACLAction
		enable := 0
		if a.Enable {
			enable = 1
		}
		return fmt.Sprintf("{%d:%s}", enable, formatOID(a.OID)), nil

	case RangeVal:
		if v.RangeMin > v.RangeMax {
			return "", fmt.Errorf("codec: range min %d > max %d", v.RangeMin, v.RangeMax)
		}
		return fmt.Sprintf("%d:%d", v.RangeMin, v.RangeMax), nil

	case TunnelMapListVal:
		parts := make([]string, len(v.TunnelMaps))
		for i, e := range v.TunnelMaps {
			parts[i] = fmt.Sprintf("{%d:%s}", e.MapType, formatOID(e.MapOID))
		}
		return listForm(len(parts), parts), nil

	case SegmentListVal:
		parts := make([]string, len(v.Segments))
		for i, s := range v.Segments {
			parts[i] = net.IP(s[:]).String()
		}
		return listForm(len(parts), parts), nil

	case CharDataVal:
		return v.Str, nil

	default:
		return "", fmt.Errorf("codec: serialize: unknown value type %v", v.Type)
	}
}

func listForm(count int, parts []string) string {
	return fmt.Sprintf("%d:%s", count, strings.Join(parts, ","))
}

func formatOID(oid uint64) string {
	return fmt.Sprintf("0x%016x", oid)
}

func serializeIPPrefixAddr(v Value) string {
	if v.IsV6 {
		return net.IP(v.IP[:16]).String()
	}
	return net.IP(v.IP[:4]).String()
}

func serializeACLField(f ACLFieldValue) string {
	enable := 0
	if f.Enable {
		enable = 1
	}
	if f.Mask != 0 {
		return fmt.Sprintf("{%d:%d:%d}", enable, f.Data, f.Mask)
	}
	return fmt.Sprintf("{%d:%d}", enable, f.Data)
}
