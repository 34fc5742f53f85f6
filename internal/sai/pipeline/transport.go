// Package pipeline is the request/response message pipeline of spec.md
// §4.5: (key, fields, op) triples pushed to an outbound table, a
// synchronous response wait correlated by op tag rather than id, and a
// replayable text trace.
package pipeline

import "context"

// Op is the request/response operation tag (spec.md §4.5).
type Op string

const (
	OpCreate      Op = "create"
	OpRemove      Op = "remove"
	OpSet         Op = "set"
	OpBulkCreate  Op = "bulkcreate"
	OpBulkRemove  Op = "bulkremove"
	OpBulkSet     Op = "bulkset"
	OpGet         Op = "get"
	OpGetStats    Op = "get_stats"
	OpClearStats  Op = "clear_stats"
	OpGetResponse Op = "getresponse"
)

// Fields carries attribute id/value text pairs, keyed by decimal
// attribute id (the codec already renders the value text), plus the
// reserved "status" key carrying a status.Code's wire text form.
type Fields map[string]string

// Message is one (key, fields, op) triple (spec.md §4.5). key is
// "<type>:<identity>".
type Message struct {
	Key    string
	Op     Op
	Fields Fields
}

// Transport is the outbound key/value table plus inbound consumer
// abstraction of spec.md §6. The validator never reaches around it.
type Transport interface {
	// Push enqueues a request onto the outbound table.
	Push(ctx context.Context, msg Message) error
	// Del removes any enqueued state for key (spec.md §6: "del(key, op)").
	Del(ctx context.Context, key string, op Op) error
	// WaitResponse blocks for the next "getresponse"-tagged message,
	// discarding anything else, until ctx is canceled.
	WaitResponse(ctx context.Context) (Message, error)
}
