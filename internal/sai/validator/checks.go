package validator

import (
	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
)

// maxAttrs bounds the size of a single create/set request (spec.md
// §4.4.1 pre-check 1: "a large but fixed limit").
const maxAttrs = 4096

// maxCharDataLen bounds CharDataVal length (spec.md §4.4.1 pre-check 5:
// "length > 0 and < interface-name limit").
const maxCharDataLen = 64

// validateAttrShape is pre-check 5: per-value-type shape checks. OID-list
// duplicate/type checks live in validateOIDRefs; everything
// shape-checkable from the value alone lives here.
func validateAttrShape(am metadata.AttrMeta, v codec.Value) status.Code {
	if v.Type != am.Value {
		return status.InvalidParameter
	}
	switch v.Type {
	case codec.RangeVal:
		if v.RangeMin > v.RangeMax {
			return status.InvalidParameter
		}
	case codec.CharDataVal:
		if len(v.Str) == 0 || len(v.Str) >= maxCharDataLen {
			return status.InvalidParameter
		}
		for _, r := range v.Str {
			if r < 0x20 || r > 0x7e {
				return status.InvalidParameter
			}
		}
	case codec.IPPrefixVal:
		max := 32
		if v.IsV6 {
			max = 128
		}
		if v.PrefixLen < 0 || v.PrefixLen > max {
			return status.InvalidParameter
		}
	}
	return status.Success
}

// validateOIDRefs is pre-check 6. Caller must hold c.mu: it consults
// the live graph to resolve each referenced OID's type and existence.
func validateOIDRefs(c *Core, am metadata.AttrMeta, v codec.Value) status.Code {
	if am.OIDConstraint == nil {
		return status.Success
	}
	oc := am.OIDConstraint

	switch v.Type {
	case codec.OIDVal:
		return checkOIDReferent(c, oc, v.U)
	case codec.OIDListVal:
		seen := make(map[uint64]bool, len(v.OIDs))
		var firstType metadata.ObjectType
		haveFirst := false
		for _, oid := range v.OIDs {
			if seen[oid] {
				return status.InvalidParameter
			}
			seen[oid] = true
			if code := checkOIDReferent(c, oc, oid); !code.OK() {
				return code
			}
			if oid == metadata.NullOID {
				continue
			}
			ot, _ := c.store.OIDType(oid)
			if !haveFirst {
				firstType, haveFirst = ot, true
			} else if ot != firstType {
				return status.InvalidParameter
			}
		}
		return status.Success
	case codec.ACLActionVal:
		if v.ACLAction != nil && v.ACLAction.Enable {
			return checkOIDReferent(c, oc, v.ACLAction.OID)
		}
		return status.Success
	default:
		return status.Success
	}
}

// checkOIDReferent validates a single OID against an OIDConstraint:
// null is only acceptable when AllowNull, otherwise the referent must
// currently exist in the graph and its type must be allowed.
func checkOIDReferent(c *Core, oc *metadata.OIDConstraint, oid uint64) status.Code {
	if oid == metadata.NullOID {
		if oc.AllowNull {
			return status.Success
		}
		return status.InvalidParameter
	}
	if !c.store.RefExists(oid) {
		return status.InvalidParameter
	}
	ot, ok := c.store.OIDType(oid)
	if !ok {
		// Snooped referent (spec.md §4.4.4): its type was never
		// disclosed, so it cannot satisfy an allowed-referent check.
		return status.InvalidParameter
	}
	for _, allowed := range oc.AllowedTypes {
		if ot == allowed {
			return status.Success
		}
	}
	return status.InvalidParameter
}

// validateEnum is pre-check 7.
func validateEnum(c *Core, am metadata.AttrMeta, v codec.Value) status.Code {
	if am.EnumDomain == "" {
		return status.Success
	}
	domain, ok := c.schema.EnumDomain(am.EnumDomain)
	if !ok {
		return status.Failure
	}
	if v.Type == codec.Int32ListVal {
		for _, e := range v.S32s {
			if !domain.Contains(int64(e)) {
				return status.InvalidParameter
			}
		}
		return status.Success
	}
	lit, ok := metadata.ScalarAsInt64(v)
	if !ok || !domain.Contains(lit) {
		return status.InvalidParameter
	}
	return status.Success
}

// validateSupplied runs pre-checks 3 through 7 over every attribute in
// supplied: known-to-the-type, not READ_ONLY (and, for a set, not
// CREATE_ONLY or KEY either), shape, OID referents, enum domain.
// Mandatory/conditional presence (pre-check 8) is checked separately,
// since create and set evaluate it against different sources (the
// supplied list vs. the object's stored attributes).
func (c *Core) validateSupplied(otMeta metadata.ObjectTypeMeta, supplied map[metadata.AttrID]codec.Value, forCreate bool) status.Code {
	if len(supplied) > maxAttrs {
		return status.InvalidParameter
	}
	for id, v := range supplied {
		am, ok := otMeta.AttrMeta(id)
		if !ok {
			return status.InvalidParameter
		}
		if am.Flags.Has(metadata.ReadOnly) {
			return status.InvalidParameter
		}
		if !forCreate && (am.Flags.Has(metadata.CreateOnly) || am.Flags.Has(metadata.Key)) {
			return status.InvalidParameter
		}
		if code := validateAttrShape(am, v); !code.OK() {
			return code
		}
		if code := validateOIDRefs(c, am, v); !code.OK() {
			return code
		}
		if code := validateEnum(c, am, v); !code.OK() {
			return code
		}
	}
	return status.Success
}

// checkMandatoryAndConditional is create's pre-check 8: every
// unconditional MANDATORY_ON_CREATE attribute must be present; every
// conditional attribute must be present iff its disjunctive condition
// currently holds against the supplied list (falling back to sibling
// defaults per metadata.Schema.ConditionActive).
func checkMandatoryAndConditional(schema *metadata.Schema, ot metadata.ObjectType, otMeta metadata.ObjectTypeMeta, supplied map[metadata.AttrID]codec.Value) status.Code {
	for id, am := range otMeta.Attrs {
		_, present := supplied[id]
		if am.IsConditional() {
			if schema.ConditionActive(ot, am, supplied) {
				if !present {
					return status.MandatoryAttributeMissing
				}
			} else if present {
				return status.InvalidParameter
			}
			continue
		}
		if am.Flags.Has(metadata.MandatoryOnCreate) && !present {
			return status.MandatoryAttributeMissing
		}
	}
	return status.Success
}

// checkSetConditionActive is set's conditional-attribute pre-check
// (spec.md §4.4.3): if attr is conditional, its condition must
// currently hold against the object's stored attributes (not the
// single value being set) or the set is rejected.
func checkSetConditionActive(schema *metadata.Schema, ot metadata.ObjectType, am metadata.AttrMeta, stored map[metadata.AttrID]codec.Value) status.Code {
	if !am.IsConditional() {
		return status.Success
	}
	if !schema.ConditionActive(ot, am, stored) {
		return status.InvalidParameter
	}
	return status.Success
}
