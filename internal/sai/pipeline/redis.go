package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisTransport is the canonical Redis-backed producer/consumer pair
// named in spec.md §4.5 and §6 ("the canonical one is a Redis-backed
// producer/consumer pair"), grounded directly on
// original_source/common/redisclient.cpp's shape: an RPUSH/BLPOP list
// for the outbound queue and per-key HSET/HGETALL hashes for fields,
// with DEL clearing a key's stored state.
type RedisTransport struct {
	client       *redis.Client
	outboundList string
	responseList string
}

// NewRedisTransport wires a go-redis client to the two list names the
// producer and consumer sides rendezvous on.
func NewRedisTransport(client *redis.Client, outboundList, responseList string) *RedisTransport {
	return &RedisTransport{client: client, outboundList: outboundList, responseList: responseList}
}

func fieldsKey(key string) string { return "sai:fields:" + key }

func encodeEnvelope(msg Message) string {
	return string(msg.Op) + "|" + msg.Key
}

func decodeEnvelope(s string) (Message, error) {
	op, key, ok := strings.Cut(s, "|")
	if !ok {
		return Message{}, fmt.Errorf("pipeline: malformed envelope %q", s)
	}
	return Message{Op: Op(op), Key: key}, nil
}

// Push stores msg's Fields in a per-key hash, then RPUSHes an envelope
// referencing it onto the outbound list.
func (r *RedisTransport) Push(ctx context.Context, msg Message) error {
	if len(msg.Fields) > 0 {
		hkey := fieldsKey(msg.Key)
		vals := make([]any, 0, len(msg.Fields)*2)
		for k, v := range msg.Fields {
			vals = append(vals, k, v)
		}
		if err := r.client.HSet(ctx, hkey, vals...).Err(); err != nil {
			return fmt.Errorf("pipeline: hset %s: %w", hkey, err)
		}
	}
	if err := r.client.RPush(ctx, r.outboundList, encodeEnvelope(msg)).Err(); err != nil {
		return fmt.Errorf("pipeline: rpush: %w", err)
	}
	return nil
}

// Del clears key's field hash and enqueues a matching op so the
// consumer side observes the deletion (spec.md §6: "del(key, op)").
func (r *RedisTransport) Del(ctx context.Context, key string, op Op) error {
	if err := r.client.Del(ctx, fieldsKey(key)).Err(); err != nil {
		return fmt.Errorf("pipeline: del %s: %w", key, err)
	}
	return r.Push(ctx, Message{Key: key, Op: op})
}

// WaitResponse BLPOPs the response list, discarding anything whose op
// is not "getresponse" (spec.md §4.5), and rehydrates Fields from the
// per-key hash.
func (r *RedisTransport) WaitResponse(ctx context.Context) (Message, error) {
	for {
		res, err := r.client.BLPop(ctx, 0, r.responseList).Result()
		if err != nil {
			return Message{}, fmt.Errorf("pipeline: blpop: %w", err)
		}
		if len(res) < 2 {
			continue
		}
		msg, err := decodeEnvelope(res[1])
		if err != nil {
			return Message{}, err
		}
		if msg.Op != OpGetResponse {
			continue
		}
		fields, err := r.client.HGetAll(ctx, fieldsKey(msg.Key)).Result()
		if err == nil {
			msg.Fields = Fields(fields)
		}
		return msg, nil
	}
}

// RequestConsumer is the executor side of the pipeline (spec.md §4.6):
// it dequeues whatever the validator pushed, any Op, and answers with a
// "getresponse" message — the mirror image of Transport, which only a
// validator-side caller uses.
type RequestConsumer interface {
	// Recv dequeues the next request, blocking until one is available
	// or ctx is canceled.
	Recv(ctx context.Context) (Message, error)
	// Respond answers a request's Key with msg's Fields, tagged
	// "getresponse" regardless of what msg.Op was set to.
	Respond(ctx context.Context, msg Message) error
}

// RedisRequestConsumer is RedisTransport's executor-side counterpart:
// it BLPOPs the same list RedisTransport.Push RPUSHes onto, and RPUSHes
// its replies onto the list RedisTransport.WaitResponse BLPOPs. A
// validator wired to NewRedisTransport(client, out, resp) pairs with an
// executor wired to NewRedisRequestConsumer(client, out, resp) — same
// list names, opposite ends.
type RedisRequestConsumer struct {
	client       *redis.Client
	outboundList string
	responseList string
}

// NewRedisRequestConsumer wires a go-redis client to the same two list
// names a paired RedisTransport uses.
func NewRedisRequestConsumer(client *redis.Client, outboundList, responseList string) *RedisRequestConsumer {
	return &RedisRequestConsumer{client: client, outboundList: outboundList, responseList: responseList}
}

// Recv BLPOPs the outbound list and rehydrates Fields from the per-key
// hash a Push call left behind, if any.
func (r *RedisRequestConsumer) Recv(ctx context.Context) (Message, error) {
	res, err := r.client.BLPop(ctx, 0, r.outboundList).Result()
	if err != nil {
		return Message{}, fmt.Errorf("pipeline: blpop: %w", err)
	}
	if len(res) < 2 {
		return Message{}, fmt.Errorf("pipeline: blpop: empty result")
	}
	msg, err := decodeEnvelope(res[1])
	if err != nil {
		return Message{}, err
	}
	fields, err := r.client.HGetAll(ctx, fieldsKey(msg.Key)).Result()
	if err == nil && len(fields) > 0 {
		msg.Fields = Fields(fields)
	}
	return msg, nil
}

// Respond stores msg.Fields in msg.Key's hash and RPUSHes a
// "getresponse" envelope for it onto the response list.
func (r *RedisRequestConsumer) Respond(ctx context.Context, msg Message) error {
	if len(msg.Fields) > 0 {
		hkey := fieldsKey(msg.Key)
		vals := make([]any, 0, len(msg.Fields)*2)
		for k, v := range msg.Fields {
			vals = append(vals, k, v)
		}
		if err := r.client.HSet(ctx, hkey, vals...).Err(); err != nil {
			return fmt.Errorf("pipeline: hset %s: %w", hkey, err)
		}
	}
	msg.Op = OpGetResponse
	if err := r.client.RPush(ctx, r.responseList, encodeEnvelope(msg)).Err(); err != nil {
		return fmt.Errorf("pipeline: rpush: %w", err)
	}
	return nil
}
