package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
)

// StatusFieldKey is the reserved Fields key a "getresponse" message
// carries its status.Code text form under.
const StatusFieldKey = "status"

// EncodeAttrs renders a typed attribute map into wire Fields, via the
// codec (spec.md §4.5: "fields carries attribute id/value text pairs
// via the codec").
func EncodeAttrs(attrs map[metadata.AttrID]codec.Value) (Fields, error) {
	f := make(Fields, len(attrs))
	for id, v := range attrs {
		s, err := codec.Serialize(v)
		if err != nil {
			return nil, fmt.Errorf("pipeline: encode attr %d: %w", id, err)
		}
		f[strconv.Itoa(int(id))] = s
	}
	return f, nil
}

// DecodeAttrs parses wire Fields back into a typed attribute map,
// looking up each field's value type in the schema for ot.
func DecodeAttrs(fields Fields, ot metadata.ObjectType, schema *metadata.Schema) (map[metadata.AttrID]codec.Value, error) {
	out := make(map[metadata.AttrID]codec.Value, len(fields))
	for k, s := range fields {
		if k == StatusFieldKey {
			continue
		}
		idNum, err := strconv.Atoi(k)
		if err != nil {
			continue // not an attribute field
		}
		id := metadata.AttrID(idNum)
		am, ok := schema.AttrMeta(ot, id)
		if !ok {
			return nil, fmt.Errorf("pipeline: decode: unknown attr %d for %s", id, ot)
		}
		v, err := codec.Deserialize(am.Value, s)
		if err != nil {
			return nil, fmt.Errorf("pipeline: decode attr %d: %w", id, err)
		}
		out[id] = v
	}
	return out, nil
}

// EncodeBulkElement packs one bulk element's attribute fields into the
// compact "id=val|id=val" blob original_source's bulk ops pack per
// entry (sai_redis_generic_remove.cpp's `internal_redis_bulk_generic_remove`
// joins one `FieldValueTuple` per entry into a single outbound message
// rather than one message per element); an element with no attributes
// (a bulk remove's identity-only entries) encodes as the empty string.
func EncodeBulkElement(attrs Fields) string {
	if len(attrs) == 0 {
		return ""
	}
	ids := make([]string, 0, len(attrs))
	for id := range attrs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id + "=" + attrs[id]
	}
	return strings.Join(parts, "|")
}

// DecodeBulkElement parses EncodeBulkElement's blob format back into a
// Fields map suitable for DecodeAttrs.
func DecodeBulkElement(blob string) Fields {
	if blob == "" {
		return Fields{}
	}
	parts := strings.Split(blob, "|")
	out := make(Fields, len(parts))
	for _, p := range parts {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

// EncodeStatus renders c into a Fields map under StatusFieldKey,
// merging with any already-present attribute fields.
func EncodeStatus(c status.Code, attrFields Fields) Fields {
	f := make(Fields, len(attrFields)+1)
	for k, v := range attrFields {
		f[k] = v
	}
	f[StatusFieldKey] = c.Text()
	return f
}

// DecodeStatus extracts msg's status code, defaulting to Failure if
// absent or malformed (spec.md §4.5: "a missed response or a
// non-object wait outcome yields a generic failure status").
func DecodeStatus(msg Message) status.Code {
	s, ok := msg.Fields[StatusFieldKey]
	if !ok {
		return status.Failure
	}
	c, ok := status.Parse(s)
	if !ok {
		return status.Failure
	}
	return c
}
