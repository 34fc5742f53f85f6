package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is the error WaitResponse wraps when no "getresponse"
// message arrives within the configured response timeout (spec.md
// §4.5, §6 "response timeout").
var ErrTimeout = errors.New("pipeline: response timeout")

// WaitResponse bounds a Transport's WaitResponse call to timeout,
// matching spec.md §5's "the response-timeout value bounds blocking".
// Any error from the transport, including context deadline exceeded,
// is reported uniformly as ErrTimeout: spec.md §7 treats a timeout and
// any other failed wait outcome the same way (generic FAILURE).
func WaitResponse(ctx context.Context, t Transport, timeout time.Duration) (Message, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := t.WaitResponse(cctx)
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return msg, nil
}
