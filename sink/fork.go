package sink

import (
	"github.com/stephaneyfx/futuristic"
	"github.com/stephaneyfx/futuristic/poll"
)

// Fork dispatches every item to one of two sinks.
//
// It holds at most one routed item that its destination has not accepted
// yet, and is only ready once that item was handed off. Errors from either
// destination are returned as they come; nothing is retried.
type Fork[T any, L any, R any] struct {
	left  Sink[L]
	right Sink[R]
	route func(T) futuristic.Either[L, R]

	buffer    futuristic.Either[L, R]
	hasBuffer bool

	leftClosed  bool
	rightClosed bool
}

// NewFork returns a sink passing every item to route, then sending left
// values to left and right values to right.
func NewFork[T any, L any, R any](left Sink[L], right Sink[R], route func(T) futuristic.Either[L, R]) *Fork[T, L, R] {
	return &Fork[T, L, R]{
		left:  left,
		right: right,
		route: route,
	}
}

// handOff sends the buffered item, if any, to its destination.
func (f *Fork[T, L, R]) handOff(w poll.Waker) error {
	if !f.hasBuffer {
		return nil
	}
	if l, ok := f.buffer.Left(); ok {
		if err := f.left.PollReady(w); err != nil {
			return err
		}
		if err := f.left.StartSend(l); err != nil {
			return err
		}
	} else {
		r, _ := f.buffer.Right()
		if err := f.right.PollReady(w); err != nil {
			return err
		}
		if err := f.right.StartSend(r); err != nil {
			return err
		}
	}
	f.buffer = futuristic.Either[L, R]{}
	f.hasBuffer = false
	return nil
}

func (f *Fork[T, L, R]) PollReady(w poll.Waker) error {
	return f.handOff(w)
}

func (f *Fork[T, L, R]) StartSend(item T) error {
	if f.hasBuffer {
		panic("fork: StartSend called before PollReady reported ready")
	}
	f.buffer = f.route(item)
	f.hasBuffer = true
	return nil
}

// PollFlush hands off the buffered item and flushes both destinations.
func (f *Fork[T, L, R]) PollFlush(w poll.Waker) error {
	if err := f.handOff(w); err != nil {
		return err
	}
	leftErr := f.left.PollFlush(w)
	if leftErr != nil && !poll.IsPending(leftErr) {
		return leftErr
	}
	rightErr := f.right.PollFlush(w)
	if rightErr != nil && !poll.IsPending(rightErr) {
		return rightErr
	}
	if leftErr != nil || rightErr != nil {
		return poll.ErrPending
	}
	return nil
}

// PollClose hands off the buffered item, then closes both destinations.
// Each side is closed once; the fork is closed when both confirmed.
func (f *Fork[T, L, R]) PollClose(w poll.Waker) error {
	if err := f.handOff(w); err != nil {
		return err
	}
	if !f.leftClosed {
		err := f.left.PollClose(w)
		switch {
		case err == nil:
			f.leftClosed = true
		case !poll.IsPending(err):
			return err
		}
	}
	if !f.rightClosed {
		err := f.right.PollClose(w)
		switch {
		case err == nil:
			f.rightClosed = true
		case !poll.IsPending(err):
			return err
		}
	}
	if f.leftClosed && f.rightClosed {
		return nil
	}
	return poll.ErrPending
}
