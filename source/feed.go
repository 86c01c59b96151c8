package source

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/stephaneyfx/futuristic/internal/util"
	"github.com/stephaneyfx/futuristic/poll"
)

// ErrFeedClosed is returned by Feed.Send once the feed was closed.
var ErrFeedClosed = errors.New("feed closed")

// Feed is a Source fed by other goroutines through Send.
//
// It holds at most one value: Send blocks while the previous value has not
// been polled out yet. Values sent before Close are still delivered; the feed
// then ends with io.EOF, or with the error given to CloseWithError.
type Feed[T any] struct {
	mu     sync.Mutex
	value  T
	full   bool
	waker  poll.Waker
	closed bool
	err    error

	space chan struct{}
	done  chan struct{}
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{
		space: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Send hands v to the feed, waiting for the slot to free up.
func (f *Feed[T]) Send(ctx context.Context, v T) error {
	for {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return ErrFeedClosed
		}
		if !f.full {
			f.value = v
			f.full = true
			w := f.waker
			f.waker = nil
			f.mu.Unlock()
			if w != nil {
				w.Wake()
			}
			return nil
		}
		f.mu.Unlock()

		select {
		case <-f.space:
		case <-f.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close ends the feed once the pending value, if any, has been polled.
func (f *Feed[T]) Close() {
	f.CloseWithError(nil)
}

// CloseWithError ends the feed with err instead of io.EOF. A nil err means io.EOF.
// Closing an already closed feed has no effect.
func (f *Feed[T]) CloseWithError(err error) {
	if err == nil {
		err = io.EOF
	}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.err = err
	w := f.waker
	f.waker = nil
	close(f.done)
	f.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

func (f *Feed[T]) PollNext(w poll.Waker) (T, error) {
	f.mu.Lock()
	if f.full {
		v := f.value
		f.value = util.DefaultValue[T]()
		f.full = false
		f.mu.Unlock()
		select {
		case f.space <- struct{}{}:
		default:
		}
		return v, nil
	}
	if f.closed {
		err := f.err
		f.mu.Unlock()
		return util.DefaultValue[T](), err
	}
	f.waker = w
	f.mu.Unlock()
	return util.DefaultValue[T](), poll.ErrPending
}
