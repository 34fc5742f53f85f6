// Package validator is the generic validator of spec.md §4.4: the
// single component that walks the metadata registry's pre-checks
// against a request, mutates the object graph, forwards the request to
// an executor over the pipeline, and waits for its response. It knows
// nothing about what a "port" or a "route entry" is — only the schema
// record attached to whatever object type it was asked about.
package validator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
)

// DefaultResponseTimeout bounds how long a synchronous call waits for
// the executor's "getresponse" (spec.md §4.5, §6).
const DefaultResponseTimeout = 5 * time.Second

// Core is the single validator instance a process wires up: one schema,
// one graph, one transport, one OID allocator, all behind one
// process-wide mutex (spec.md §5 — "a single non-recursive mutex guards
// the validator, the object graph, the reference-count table and the
// KEY-tuple index; the metadata registry is immutable and needs none").
type Core struct {
	mu sync.Mutex

	schema    *metadata.Schema
	store     *graph.Store
	transport pipeline.Transport
	tracer    *pipeline.Tracer
	logger    *zap.Logger
	timeout   time.Duration

	// nextOID is the monotonically increasing allocator of spec.md §3:
	// "OIDs are allocated sequentially starting at 1."
	nextOID uint64

	ut unitTestState
}

// Option configures a Core at construction time.
type Option func(*Core)

// WithTracer attaches a trace sink (spec.md §6's "record trace" control).
func WithTracer(t *pipeline.Tracer) Option {
	return func(c *Core) { c.tracer = t }
}

// WithResponseTimeout overrides DefaultResponseTimeout.
func WithResponseTimeout(d time.Duration) Option {
	return func(c *Core) { c.timeout = d }
}

// NewCore wires a schema, graph store, transport and logger into a
// validator instance. schema is almost always metadata.Registry; a test
// may substitute a smaller one.
func NewCore(schema *metadata.Schema, store *graph.Store, transport pipeline.Transport, logger *zap.Logger, opts ...Option) *Core {
	c := &Core{
		schema:    schema,
		store:     store,
		transport: transport,
		logger:    logger,
		timeout:   DefaultResponseTimeout,
		nextOID:   1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// allocOID hands out the next sequential OID. Caller must hold c.mu.
func (c *Core) allocOID() uint64 {
	oid := c.nextOID
	c.nextOID++
	return oid
}

// waitForResponse blocks on the transport for the matching executor
// reply, bounded by c.timeout (spec.md §4.5, §7: a missed or failed
// wait is reported as FAILURE, never propagated as a Go error to the
// caller of a validator operation).
func (c *Core) waitForResponse(ctx context.Context) (pipeline.Message, status.Code) {
	msg, err := pipeline.WaitResponse(ctx, c.transport, c.timeout)
	if err != nil {
		c.logger.Warn("response wait failed", zap.Error(err))
		return pipeline.Message{}, status.Failure
	}
	return msg, pipeline.DecodeStatus(msg)
}

// OwningSwitchOf resolves the switch OID that owns obj: obj itself, if
// obj is a switch; otherwise the value stored under obj's SWITCH_ID
// attribute slot (spec.md §8 scenario S1, "owning_switch_of").
// Reports (0, false) if obj's type or identity is unknown.
func (c *Core) OwningSwitchOf(ot metadata.ObjectType, oid uint64) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owningSwitchOfLocked(ot, oid)
}

func (c *Core) owningSwitchOfLocked(ot metadata.ObjectType, oid uint64) (uint64, bool) {
	if ot == "switch" {
		return oid, true
	}
	key := graph.ObjectKey(ot, oid)
	attrs, ok := c.store.Attrs(key)
	if !ok {
		return 0, false
	}
	v, ok := attrs[metadata.SwitchIDAttr]
	if !ok || v.Type != codec.OIDVal {
		return 0, false
	}
	return v.U, true
}

// invariantPanic is the panic value fatal raises. It satisfies
// internal/pkg/worker.FatalPanic structurally (Error() string plus
// Unreachable()) so a worker pool task that calls into the validator
// terminates the process instead of recovering and continuing with
// state the validator itself no longer trusts — without this package
// importing internal/pkg/worker.
type invariantPanic struct {
	msg string
}

func (e invariantPanic) Error() string { return e.msg }

// Unreachable marks this panic value as worker.FatalPanic.
func (e invariantPanic) Unreachable() {}

// fatal logs msg and unwinds the goroutine via invariantPanic, the
// stand-in for spec.md's "terminates the process" post-update invariant
// violation (a state that pre-checks should have made unreachable).
func (c *Core) fatal(msg string, fields ...zap.Field) {
	c.logger.Error(msg, fields...)
	panic(invariantPanic{msg: msg})
}

