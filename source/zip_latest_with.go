package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/stephaneyfx/futuristic/internal/util"
	"github.com/stephaneyfx/futuristic/poll"
)

// freshness classifies the latest value known for one source.
type freshness uint8

const (
	// nothing: the source has not produced anything yet.
	nothing freshness = iota
	// fresh: produced since the last combined emission, not used yet.
	fresh
	// yielded: already part of an emission, kept as the fallback value.
	yielded
)

// latest tracks one side of a pairwise zip.
// Once ended it keeps its classification: ended with nothing poisons the zip,
// ended with a yielded value stays usable forever.
type latest[T any] struct {
	src   Source[T]
	state freshness
	value T
	ended bool
}

// refresh polls the source once if the side can take a new value.
// Only errors other than end-of-source and not-ready are returned.
func (l *latest[T]) refresh(w poll.Waker) error {
	if l.ended || l.state == fresh {
		return nil
	}
	v, err := l.src.PollNext(w)
	switch {
	case err == nil:
		l.value = v
		l.state = fresh
	case errors.Is(err, io.EOF):
		l.ended = true
		l.src = nil
	case poll.IsPending(err):
	default:
		return err
	}
	return nil
}

func (l *latest[T]) poisoned() bool {
	return l.ended && l.state == nothing
}

// Zip2 combines two sources using their latest values.
// It is built by ZipLatestWith and ZipLatest.
type Zip2[A any, B any, T any] struct {
	left       latest[A]
	right      latest[B]
	combine    func(a A, b B) T
	terminated bool
}

// ZipLatestWith zips a and b, emitting combine(latestA, latestB) every time
// at least one side produced a value that was not combined yet, the other side
// having produced at least one value so far.
//
// Values produced by both sides during the same poll are combined into a single
// emission. The zip ends when both sources ended, or as soon as one of them
// ended without ever producing a value.
//
//	---a-----------b-----------------c-------> a
//	------0--------1--------2----------------> b
//	------(a,0)----(b,1)----(b,2)----(c,2)---> ZipLatestWith(a, b, pair)
func ZipLatestWith[A any, B any, T any](a Source[A], b Source[B], combine func(a A, b B) T) *Zip2[A, B, T] {
	return &Zip2[A, B, T]{
		left:    latest[A]{src: a},
		right:   latest[B]{src: b},
		combine: combine,
	}
}

// Terminated reports whether the zip has ended. A terminated zip must not be polled again.
func (z *Zip2[A, B, T]) Terminated() bool {
	return z.terminated
}

func (z *Zip2[A, B, T]) PollNext(w poll.Waker) (T, error) {
	if z.terminated {
		panic("zip latest: polled after termination")
	}

	if err := z.left.refresh(w); err != nil {
		return z.finish(fmt.Errorf("zip latest: left source: %w", err))
	}
	if err := z.right.refresh(w); err != nil {
		return z.finish(fmt.Errorf("zip latest: right source: %w", err))
	}

	l, r := &z.left, &z.right
	switch {
	case l.state != nothing && r.state != nothing && (l.state == fresh || r.state == fresh):
		out := z.combine(l.value, r.value)
		l.state = yielded
		r.state = yielded
		return out, nil
	case l.poisoned(), r.poisoned(), l.ended && r.ended:
		return z.finish(io.EOF)
	default:
		return util.DefaultValue[T](), poll.ErrPending
	}
}

// finish terminates the zip, releasing both sources and their values.
func (z *Zip2[A, B, T]) finish(err error) (T, error) {
	z.terminated = true
	z.left = latest[A]{ended: true}
	z.right = latest[B]{ended: true}
	return util.DefaultValue[T](), err
}
