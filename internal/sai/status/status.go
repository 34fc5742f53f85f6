// Package status defines the status-code taxonomy every SAI operation
// surfaces across the driver ABI, instead of exceptions (spec.md §7).
package status

// Code is one of the six outcomes a validator or executor call can
// report.
type Code int

const (
	// Success: operation accepted and, for synchronous calls, the
	// executor confirmed it.
	Success Code = iota
	// InvalidParameter: shape/type/enum/reference violation found by a
	// validator pre-check.
	InvalidParameter
	// ItemAlreadyExists: create against an extant identity.
	ItemAlreadyExists
	// MandatoryAttributeMissing: create omits a required attribute,
	// unconditionally or conditionally.
	MandatoryAttributeMissing
	// NotImplemented: feature stubbed.
	NotImplemented
	// Failure: internal invariant violation, null metadata lookup,
	// response timeout, or codec failure on a value believed in-domain.
	Failure
)

func (c Code) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case InvalidParameter:
		return "INVALID_PARAMETER"
	case ItemAlreadyExists:
		return "ITEM_ALREADY_EXISTS"
	case MandatoryAttributeMissing:
		return "MANDATORY_ATTRIBUTE_MISSING"
	case NotImplemented:
		return "NOT_IMPLEMENTED"
	case Failure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// OK reports whether c is Success.
func (c Code) OK() bool { return c == Success }

// Parse maps a status code's canonical decimal text form (as carried
// on the wire under a "getresponse" message's "status" field,
// pipeline.StatusFieldKey; the message key does not carry it) back to
// a Code.
func Parse(s string) (Code, bool) {
	switch s {
	case "0":
		return Success, true
	case "1":
		return InvalidParameter, true
	case "2":
		return ItemAlreadyExists, true
	case "3":
		return MandatoryAttributeMissing, true
	case "4":
		return NotImplemented, true
	case "5":
		return Failure, true
	default:
		return Failure, false
	}
}

// Text renders c as its wire decimal form.
func (c Code) Text() string {
	switch c {
	case Success:
		return "0"
	case InvalidParameter:
		return "1"
	case ItemAlreadyExists:
		return "2"
	case MandatoryAttributeMissing:
		return "3"
	case NotImplemented:
		return "4"
	default:
		return "5"
	}
}
