package stream

import (
	"context"
	"io"
	"slices"

	"github.com/stephaneyfx/futuristic"
	"github.com/stephaneyfx/futuristic/internal/util"
)

func Empty[T any]() Stream[T] {
	return newStream(func(context.Context) (T, error) {
		return util.DefaultValue[T](), io.EOF
	}, nil)
}

// Error returns a stream that fails to open with err.
func Error[T any](err error) Stream[T] {
	return newStream(func(context.Context) (T, error) {
		return util.DefaultValue[T](), err
	}, []Lifecycle{NewLifecycle(func(context.Context) error {
		return err
	}, nil)})
}

// Just streams the given values. Every materialization starts over.
func Just[T any](values ...T) Stream[T] {
	return NewStream(&justProvider[T]{values: values})
}

type justProvider[T any] struct {
	values    []T
	remaining []T
}

func (j *justProvider[T]) Open(context.Context) error {
	j.remaining = slices.Clone(j.values)
	return nil
}

func (j *justProvider[T]) Close() {
	j.remaining = nil
}

func (j *justProvider[T]) Emit(ctx context.Context) (T, error) {
	if ctx.Err() != nil {
		return util.DefaultValue[T](), ctx.Err()
	}
	if len(j.remaining) == 0 {
		return util.DefaultValue[T](), io.EOF
	}
	v := j.remaining[0]
	j.remaining = j.remaining[1:]
	return v, nil
}

// Map maps the source stream to a target stream using mapper.
func Map[SRC any, TGT any](src Stream[SRC], mapper futuristic.Mapper[SRC, TGT]) Stream[TGT] {
	return MapWithErrAndCtx(src, mapper.ToErrCtx())
}

func MapWithErr[SRC any, TGT any](src Stream[SRC], mapper futuristic.MapperWithErr[SRC, TGT]) Stream[TGT] {
	return MapWithErrAndCtx(src, mapper.ToErrCtx())
}

func MapWithErrAndCtx[SRC any, TGT any](src Stream[SRC], mapper futuristic.MapperWithErrAndCtx[SRC, TGT]) Stream[TGT] {
	return newStream(func(ctx context.Context) (TGT, error) {
		v, err := src.provider(ctx)
		if err != nil {
			return util.DefaultValue[TGT](), err
		}
		return mapper(ctx, v)
	}, src.allLifecycleElement)
}
