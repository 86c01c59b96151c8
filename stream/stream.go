// Package stream is the pull-based, context-driven counterpart of package source.
//
// A Stream is materialized by one of its terminal operations (Consume,
// Collect, Count...), which opens its lifecycle elements, pulls items until
// io.EOF and closes them again. FromSource and ToSource move values between
// the two models.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/stephaneyfx/futuristic"
	"github.com/stephaneyfx/futuristic/internal/util"
)

type Stream[T any] struct {
	provider            ProviderFunc[T]
	allLifecycleElement []Lifecycle
}

type ProviderFunc[T any] func(ctx context.Context) (T, error)

func NewStream[T any](provider Provider[T]) Stream[T] {
	return newStream(provider.Emit, []Lifecycle{provider})
}

func newStream[T any](provider ProviderFunc[T], allLifecycleElement []Lifecycle) Stream[T] {
	return Stream[T]{provider: provider, allLifecycleElement: allLifecycleElement}
}

// NewSimpleStream creates a stream from a provider function, with optional open and close hooks.
func NewSimpleStream[T any](provider ProviderFunc[T], openFunc func(ctx context.Context) error, closeFunc func()) Stream[T] {
	var lifecycleElements []Lifecycle
	if openFunc != nil || closeFunc != nil {
		lifecycleElements = []Lifecycle{NewLifecycle(openFunc, closeFunc)}
	}
	return newStream(provider, lifecycleElements)
}

// Consume consumes the entire stream and applies f to each element.
// For infinite streams it blocks until ctx is done or an error occurs.
func (s Stream[T]) Consume(ctx context.Context, f func(T)) error {
	return s.ConsumeWithErr(ctx, func(v T) error {
		f(v)
		return nil
	})
}

// ConsumeWithErr is Consume where f may stop the pipeline by returning an error.
func (s Stream[T]) ConsumeWithErr(ctx context.Context, f func(T) error) error {
	return s.ConsumeWithErrAndCtx(ctx, func(_ context.Context, v T) error {
		return f(v)
	})
}

// ConsumeWithErrAndCtx consumes the entire stream, passing the materialization
// context through to f so it can cancel gracefully.
func (s Stream[T]) ConsumeWithErrAndCtx(ctx context.Context, f func(ctx context.Context, value T) error) error {
	ctx, cancelFunc, err := doOpenStream(ctx, s)
	if err != nil {
		return err
	}
	defer func() {
		doCloseStream(s)
		cancelFunc()
	}()

	for {
		// Check ctx before pulling the next item
		if ctx.Err() != nil {
			return ctx.Err()
		}
		v, err := s.provider(ctx)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := f(ctx, v); err != nil {
			return err
		}
	}
}

// Collect materializes the stream into a slice.
func (s Stream[T]) Collect(ctx context.Context) ([]T, error) {
	var result []T
	err := s.Consume(ctx, func(v T) {
		result = append(result, v)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MustCollect is a convenience method that panics if the stream errors.
// Should be used for tests or static streams.
func (s Stream[T]) MustCollect() []T {
	result, err := s.Collect(context.Background())
	if err != nil {
		panic(err)
	}
	return result
}

// Count materializes the stream and counts its elements.
func (s Stream[T]) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.Consume(ctx, func(T) {
		count++
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s Stream[T]) MustCount() int {
	count, err := s.Count(context.Background())
	if err != nil {
		panic(err)
	}
	return count
}

var ErrEmptyStream = errors.New("empty stream")

// FindLast materializes the stream and returns its last element, or ErrEmptyStream.
func (s Stream[T]) FindLast(ctx context.Context) (T, error) {
	var last *T
	err := s.Consume(ctx, func(v T) {
		last = &v
	})
	if err != nil {
		return util.DefaultValue[T](), err
	}
	if last == nil {
		return util.DefaultValue[T](), fmt.Errorf("no last element: %w", ErrEmptyStream)
	}
	return *last, nil
}

func (s Stream[T]) Filter(predicate futuristic.Predicate[T]) Stream[T] {
	return s.FilterWithErrAndCtx(predicate.ToErrCtx())
}

func (s Stream[T]) FilterWithErrAndCtx(predicate futuristic.PredicateWithErrAndCtx[T]) Stream[T] {
	return newStream(func(ctx context.Context) (T, error) {
		for {
			v, err := s.provider(ctx)
			if err != nil {
				return v, err
			}
			keep, err := predicate(ctx, v)
			if err != nil {
				// Wrapped so a predicate cannot end the stream with io.EOF
				return util.DefaultValue[T](), fmt.Errorf("filter failed for stream: %w", err)
			}
			if keep {
				return v, nil
			}
		}
	}, s.allLifecycleElement)
}

// Limit ends the stream after at most limit elements.
func (s Stream[T]) Limit(limit int) Stream[T] {
	if limit <= 0 {
		return Empty[T]()
	}
	consumed := 0
	return newStream(func(ctx context.Context) (T, error) {
		if consumed >= limit {
			return util.DefaultValue[T](), io.EOF
		}
		v, err := s.provider(ctx)
		if err != nil {
			return util.DefaultValue[T](), err
		}
		consumed++
		return v, nil
	}, s.allLifecycleElement)
}

func (s Stream[T]) WithAdditionalLifecycle(l Lifecycle) Stream[T] {
	return newStream(s.provider, append(s.allLifecycleElement, l))
}

func doOpenStream[T any](ctx context.Context, s Stream[T]) (context.Context, context.CancelFunc, error) {
	ctxWithCancel, cancelFunc := context.WithCancel(ctx)
	for lcIdx, l := range s.allLifecycleElement {
		if err := l.Open(ctxWithCancel); err != nil {
			// Close only the elements that were opened
			for i := 0; i < lcIdx; i++ {
				s.allLifecycleElement[i].Close()
			}
			cancelFunc()
			return nil, nil, fmt.Errorf("failed to open stream lifecycle element %d: %w", lcIdx, err)
		}
	}
	return ctxWithCancel, cancelFunc, nil
}

func doCloseStream[T any](s Stream[T]) {
	for _, l := range s.allLifecycleElement {
		l.Close()
	}
}
