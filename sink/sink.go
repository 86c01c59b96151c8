// Package sink defines pollable sinks and routing between them.
package sink

import (
	"context"
	"errors"
	"io"

	"github.com/stephaneyfx/futuristic/poll"
	"github.com/stephaneyfx/futuristic/source"
)

// Sink is a pollable consumer of values.
//
// StartSend may only be called after PollReady returned nil. Every Poll
// method returns poll.ErrPending when it cannot complete yet, after arranging
// for w to be woken. Any other error is a failure of the sink.
type Sink[T any] interface {
	PollReady(w poll.Waker) error
	StartSend(item T) error
	PollFlush(w poll.Waker) error
	PollClose(w poll.Waker) error
}

// Null accepts and discards everything sent to it.
type Null[T any] struct{}

func (Null[T]) PollReady(poll.Waker) error { return nil }
func (Null[T]) StartSend(T) error          { return nil }
func (Null[T]) PollFlush(poll.Waker) error { return nil }
func (Null[T]) PollClose(poll.Waker) error { return nil }

// Collector appends everything sent to it to Items. It is always ready.
type Collector[T any] struct {
	Items  []T
	Closed bool
}

func (c *Collector[T]) PollReady(poll.Waker) error { return nil }

func (c *Collector[T]) StartSend(item T) error {
	c.Items = append(c.Items, item)
	return nil
}

func (c *Collector[T]) PollFlush(poll.Waker) error { return nil }

func (c *Collector[T]) PollClose(poll.Waker) error {
	c.Closed = true
	return nil
}

// Forward returns a future that sends every item of src to dst, then closes dst.
// Items are flushed whenever src is not ready.
func Forward[T any](src source.Source[T], dst Sink[T]) poll.Future[struct{}] {
	var (
		buffered  T
		hasBuffer bool
		srcEnded  bool
	)
	return poll.FutureFunc[struct{}](func(w poll.Waker) (struct{}, error) {
		for {
			if hasBuffer {
				if err := dst.PollReady(w); err != nil {
					return struct{}{}, err
				}
				if err := dst.StartSend(buffered); err != nil {
					return struct{}{}, err
				}
				var zero T
				buffered, hasBuffer = zero, false
			}
			if srcEnded {
				return struct{}{}, dst.PollClose(w)
			}

			v, err := src.PollNext(w)
			switch {
			case err == nil:
				buffered, hasBuffer = v, true
			case errors.Is(err, io.EOF):
				srcEnded = true
			case poll.IsPending(err):
				if err := dst.PollFlush(w); err != nil && !poll.IsPending(err) {
					return struct{}{}, err
				}
				return struct{}{}, poll.ErrPending
			default:
				return struct{}{}, err
			}
		}
	})
}

// Drain forwards src into dst on the calling goroutine until src ends and dst is closed.
func Drain[T any](ctx context.Context, src source.Source[T], dst Sink[T]) error {
	_, err := poll.BlockOn(ctx, Forward(src, dst))
	return err
}
