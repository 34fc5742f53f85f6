package vswitch

import (
	"context"

	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/pkg/worker"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
)

// Executor drains a pipeline.RequestConsumer and feeds each request to
// a Simulator, dispatching handlers onto a worker pool instead of a
// naked goroutine per request (internal/pkg/worker/pool.go: "naked
// goroutines are forbidden").
type Executor struct {
	consumer pipeline.RequestConsumer
	sim      *Simulator
	pool     *worker.Pool
	logger   *zap.Logger
}

// NewExecutor wires a consumer, a simulator and a worker pool into a
// runnable executor loop.
func NewExecutor(consumer pipeline.RequestConsumer, sim *Simulator, pool *worker.Pool, logger *zap.Logger) *Executor {
	return &Executor{consumer: consumer, sim: sim, pool: pool, logger: logger}
}

// Run blocks, repeatedly receiving the next request and submitting its
// handling to the pool, until ctx is canceled.
func (e *Executor) Run(ctx context.Context) error {
	for {
		msg, err := e.consumer.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Error("vswitch: recv failed", zap.Error(err))
			continue
		}

		m := msg
		if err := e.pool.Submit(ctx, func(ctx context.Context) {
			e.handle(ctx, m)
		}); err != nil {
			e.logger.Warn("vswitch: submit dropped message", zap.String("key", m.Key), zap.Error(err))
		}
	}
}

// handle dispatches msg by Op. create/remove/set are fire-and-forget
// from the validator's perspective (spec.md §5: mutating calls do not
// wait for a response) so the simulator only needs to observe them;
// get/get_stats/clear_stats are synchronous and must answer.
func (e *Executor) handle(ctx context.Context, msg pipeline.Message) {
	switch msg.Op {
	case pipeline.OpCreate:
		e.sim.observeCreate(msg)
	case pipeline.OpBulkCreate:
		for _, m := range splitBulk(msg) {
			e.sim.observeCreate(m)
		}
	case pipeline.OpSet:
		e.sim.observeSet(msg)
	case pipeline.OpBulkSet:
		for _, m := range splitBulk(msg) {
			e.sim.observeSet(m)
		}
	case pipeline.OpRemove:
		e.sim.observeRemove(msg)
	case pipeline.OpBulkRemove:
		for _, m := range splitBulk(msg) {
			e.sim.observeRemove(m)
		}
	case pipeline.OpGet:
		e.respond(ctx, e.sim.handleGet(msg))
	case pipeline.OpGetStats:
		e.respond(ctx, e.sim.handleGetStats(msg))
	case pipeline.OpClearStats:
		e.respond(ctx, e.sim.handleClearStats(msg))
	default:
		e.logger.Warn("vswitch: unrecognized op", zap.String("op", string(msg.Op)), zap.String("key", msg.Key))
	}
}

// splitBulk unpacks a combined bulk message (msg.Key is "<type>:<count>",
// msg.Fields maps each accepted element's own canonical key to its
// EncodeBulkElement blob) into one synthetic per-element message whose
// shape matches what observeCreate/observeSet/observeRemove expect from
// a single-element request, so the bulk Op cases can reuse the
// single-element observers instead of duplicating their decode logic.
func splitBulk(msg pipeline.Message) []pipeline.Message {
	out := make([]pipeline.Message, 0, len(msg.Fields))
	for key, blob := range msg.Fields {
		out = append(out, pipeline.Message{Key: key, Op: msg.Op, Fields: pipeline.DecodeBulkElement(blob)})
	}
	return out
}

func (e *Executor) respond(ctx context.Context, resp pipeline.Message) {
	if err := e.consumer.Respond(ctx, resp); err != nil {
		e.logger.Error("vswitch: respond failed", zap.String("key", resp.Key), zap.Error(err))
	}
}
