package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/stephaneyfx/futuristic/internal/pollset"
	"github.com/stephaneyfx/futuristic/internal/util"
	"github.com/stephaneyfx/futuristic/poll"
)

type zipPhase uint8

const (
	filling zipPhase = iota
	filled
	terminated
)

// fillSlot waits for the first value of one source.
type fillSlot[T any] struct {
	src   Source[T]
	value T
	done  bool
}

// ZipN combines any number of sources of the same type using their latest values.
// It is built by ZipLatestWithAll and ZipLatestAll.
type ZipN[S any, T any] struct {
	phase   zipPhase
	slots   []fillSlot[S]
	items   []S
	pending *pollset.Set[S]
	combine func(items []S) T
}

// ZipLatestWithAll zips srcs, emitting combine(items) where items[i] is the
// latest value produced by srcs[i].
//
// Nothing is emitted until every source produced a first value; the first
// emission happens as soon as the last of them did. If any source ends before
// producing a value, the zip ends without emitting anything. Afterwards a
// snapshot is emitted for every poll during which at least one source
// produced a value, however many did. Ended sources keep their last value.
// The zip ends once every source ended.
//
// combine receives the zip's own buffer: it must not retain or modify it.
func ZipLatestWithAll[S any, T any](combine func(items []S) T, srcs ...Source[S]) *ZipN[S, T] {
	slots := make([]fillSlot[S], len(srcs))
	for i, src := range srcs {
		slots[i] = fillSlot[S]{src: src}
	}
	return &ZipN[S, T]{
		phase:   filling,
		slots:   slots,
		combine: combine,
	}
}

// Terminated reports whether the zip has ended. A terminated zip must not be polled again.
func (z *ZipN[S, T]) Terminated() bool {
	return z.phase == terminated
}

func (z *ZipN[S, T]) PollNext(w poll.Waker) (T, error) {
	switch z.phase {
	case filling:
		return z.pollFill(w)
	case filled:
		return z.pollFilled(w)
	default:
		panic("zip latest all: polled after termination")
	}
}

// pollFill polls every source still missing its first value.
// Only whether a source produced a value matters, not the order in which they did.
func (z *ZipN[S, T]) pollFill(w poll.Waker) (T, error) {
	complete := true
	for i := range z.slots {
		slot := &z.slots[i]
		if slot.done {
			continue
		}
		v, err := slot.src.PollNext(w)
		switch {
		case err == nil:
			slot.value = v
			slot.done = true
		case errors.Is(err, io.EOF):
			slog.Debug(fmt.Sprintf("zip latest all: source %d ended before producing a value", i))
			return z.finish(io.EOF)
		case poll.IsPending(err):
			complete = false
		default:
			return z.finish(fmt.Errorf("zip latest all: source %d: %w", i, err))
		}
	}
	if !complete {
		return util.DefaultValue[T](), poll.ErrPending
	}

	z.items = make([]S, len(z.slots))
	z.pending = pollset.New[S]()
	for i, slot := range z.slots {
		z.items[i] = slot.value
		z.pending.Push(i, slot.src)
	}
	z.slots = nil
	z.phase = filled
	return z.combine(z.items), nil
}

// pollFilled drains every completion available right now, then emits one
// snapshot if any source advanced. Sources that advanced are only polled
// again on the next call.
func (z *ZipN[S, T]) pollFilled(w poll.Waker) (T, error) {
	var advanced []pollset.Completion[S]
	for {
		c, err := z.pending.PollNext(w)
		if err != nil {
			for _, a := range advanced {
				z.pending.Push(a.Index, a.Source)
			}
			if len(advanced) > 0 {
				return z.combine(z.items), nil
			}
			if errors.Is(err, io.EOF) {
				return z.finish(io.EOF)
			}
			return util.DefaultValue[T](), err
		}

		switch {
		case c.Err != nil:
			return z.finish(fmt.Errorf("zip latest all: source %d: %w", c.Index, c.Err))
		case c.Ended:
			// Dropped for good, items[c.Index] stays frozen.
		default:
			z.items[c.Index] = c.Value
			advanced = append(advanced, c)
		}
	}
}

func (z *ZipN[S, T]) finish(err error) (T, error) {
	z.phase = terminated
	z.slots = nil
	z.items = nil
	z.pending = nil
	return util.DefaultValue[T](), err
}
