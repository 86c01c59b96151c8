// Package poll holds the vocabulary shared by every pollable type in futuristic.
//
// A poll never blocks. It either completes, or returns ErrPending after making
// sure the supplied Waker will be called once polling again can make progress.
// The caller owns the decision of when to poll again; BlockOn is the simplest
// such caller.
package poll

import (
	"errors"
)

// ErrPending is returned by a poll that cannot complete yet.
// Whoever returns it must have arranged for the waker passed to the poll to be woken.
var ErrPending = errors.New("poll: not ready")

// IsPending reports whether err signals a not-ready poll.
func IsPending(err error) bool {
	return errors.Is(err, ErrPending)
}

// Waker requests that the owner of a pending poll polls again.
// Wake may be called from any goroutine, any number of times.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to a Waker.
type WakerFunc func()

func (f WakerFunc) Wake() {
	f()
}

// Noop is a Waker that ignores wake requests. Useful when polling by hand.
var Noop Waker = WakerFunc(func() {})

// Future is a single value computed by polling.
type Future[T any] interface {
	Poll(w Waker) (T, error)
}

// FutureFunc adapts a poll function to a Future.
type FutureFunc[T any] func(w Waker) (T, error)

func (f FutureFunc[T]) Poll(w Waker) (T, error) {
	return f(w)
}

// Ready returns a future that completes with v on its first poll.
func Ready[T any](v T) Future[T] {
	return FutureFunc[T](func(Waker) (T, error) {
		return v, nil
	})
}

// Race polls the futures in order and completes with the first one that completes.
// Futures are polled again on every poll of the race, so earlier futures win ties.
func Race[T any](futures ...Future[T]) Future[T] {
	return FutureFunc[T](func(w Waker) (T, error) {
		for _, f := range futures {
			v, err := f.Poll(w)
			if IsPending(err) {
				continue
			}
			return v, err
		}
		var zero T
		return zero, ErrPending
	})
}
