package poll

import (
	"context"
)

// parker is a Waker backed by a one-slot signal. Wakes arriving while the
// slot is full collapse into one, which is all the executor needs.
type parker struct {
	signal chan struct{}
}

func newParker() *parker {
	return &parker{signal: make(chan struct{}, 1)}
}

func (p *parker) Wake() {
	select {
	case p.signal <- struct{}{}:
	default:
	}
}

func (p *parker) park(ctx context.Context) error {
	select {
	case <-p.signal:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BlockOn drives f on the calling goroutine until it completes or ctx is done.
// Between pending polls the goroutine parks until f's waker is woken, so no
// busy waiting happens.
func BlockOn[T any](ctx context.Context, f Future[T]) (T, error) {
	p := newParker()
	for {
		if ctx.Err() != nil {
			var zero T
			return zero, ctx.Err()
		}
		v, err := f.Poll(p)
		if !IsPending(err) {
			return v, err
		}
		if err := p.park(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
}
