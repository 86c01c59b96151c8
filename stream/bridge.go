package stream

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/stephaneyfx/futuristic/poll"
	"github.com/stephaneyfx/futuristic/source"
	"golang.org/x/sync/errgroup"
)

// FromSource returns a stream pulling the items of src, blocking on its
// polls. The source is not reset between materializations.
func FromSource[T any](src source.Source[T]) Stream[T] {
	next := source.Next(src)
	return newStream(func(ctx context.Context) (T, error) {
		return poll.BlockOn(ctx, next)
	}, nil)
}

// ToSource materializes s on a goroutine of g and returns a source producing its items.
//
// The stream error, if any, ends the returned source and is also returned by
// g.Wait. A panic during materialization is recovered, logged and handled as
// an error.
func ToSource[T any](ctx context.Context, g *errgroup.Group, s Stream[T]) *source.Feed[T] {
	feed := source.NewFeed[T]()
	g.Go(func() (err error) {
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.Error(fmt.Sprintf("Panic recovered while feeding source: %v\n%s", rvr, debug.Stack()))
				if asErr, ok := rvr.(error); ok {
					err = fmt.Errorf("stream recovered error: %w", asErr)
				} else {
					err = fmt.Errorf("stream recovered error value: %v", rvr)
				}
			}
			feed.CloseWithError(err)
		}()
		return s.ConsumeWithErrAndCtx(ctx, func(ctx context.Context, v T) error {
			return feed.Send(ctx, v)
		})
	})
	return feed
}
