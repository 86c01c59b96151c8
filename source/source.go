// Package source defines pollable sources and the zip-latest combinators over them.
//
// A Source is polled with PollNext. Each poll either produces a value (nil
// error), signals the end of the source (io.EOF), or reports that nothing is
// available yet (poll.ErrPending) after arranging for the waker to be woken.
// Every combinator in this package is itself a Source, so they compose.
package source

import (
	"context"
	"errors"
	"io"

	"github.com/stephaneyfx/futuristic/internal/util"
	"github.com/stephaneyfx/futuristic/poll"
)

// Source is a pollable producer of values.
//
// PollNext must not block. It returns io.EOF once the source has ended and
// poll.ErrPending when no value is available yet; in the latter case the
// source is responsible for waking w once a value may be available.
// Sources are not safe for concurrent polling.
type Source[T any] interface {
	PollNext(w poll.Waker) (T, error)
}

// Func adapts a poll function to a Source.
type Func[T any] func(w poll.Waker) (T, error)

func (f Func[T]) PollNext(w poll.Waker) (T, error) {
	return f(w)
}

// Next returns a future resolving to the next item of src, or io.EOF once it ended.
func Next[T any](src Source[T]) poll.Future[T] {
	return poll.FutureFunc[T](src.PollNext)
}

// Consume drives src on the calling goroutine until it ends, calling f for every item.
func Consume[T any](ctx context.Context, src Source[T], f func(T)) error {
	next := Next(src)
	for {
		v, err := poll.BlockOn(ctx, next)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		f(v)
	}
}

// Collect drives src until it ends and returns every item it produced.
func Collect[T any](ctx context.Context, src Source[T]) ([]T, error) {
	var result []T
	err := Consume(ctx, src, func(v T) {
		result = append(result, v)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MustCollect is Collect without a context that panics on error.
// Intended for tests and static sources.
func MustCollect[T any](src Source[T]) []T {
	result, err := Collect(context.Background(), src)
	if err != nil {
		panic(err)
	}
	return result
}

// Map transforms every item of src with mapper.
func Map[S any, T any](src Source[S], mapper func(S) T) Source[T] {
	return Func[T](func(w poll.Waker) (T, error) {
		v, err := src.PollNext(w)
		if err != nil {
			return util.DefaultValue[T](), err
		}
		return mapper(v), nil
	})
}
