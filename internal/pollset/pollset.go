// Package pollset multiplexes many index-keyed sources, polling only those that were woken.
package pollset

import (
	"errors"
	"io"
	"sync"

	"github.com/eapache/queue"
	"github.com/stephaneyfx/futuristic/poll"
)

// Poller is the polling side of a source.
type Poller[T any] interface {
	PollNext(w poll.Waker) (T, error)
}

// Completion is the outcome of one entry's "next value" poll.
// The entry has left the set; push Source back to wait for its next value.
type Completion[T any] struct {
	Index  int
	Value  T
	Ended  bool
	Err    error
	Source Poller[T]
}

// Set holds in-flight "next value" polls, one per pushed source.
//
// Entries are polled in the order they were woken. A freshly pushed entry
// counts as woken. The set itself is driven by a single goroutine; only the
// ready queue is shared with wakers, which may fire from anywhere.
type Set[T any] struct {
	mu    sync.Mutex
	ready *queue.Queue
	outer poll.Waker
	size  int
}

func New[T any]() *Set[T] {
	return &Set[T]{ready: queue.New()}
}

// Len returns the number of entries still in the set.
func (s *Set[T]) Len() int {
	return s.size
}

// Push adds src under index and schedules it for the next poll.
func (s *Set[T]) Push(index int, src Poller[T]) {
	e := &entry[T]{set: s, index: index, src: src}
	s.size++
	s.mu.Lock()
	e.queued = true
	s.ready.Add(e)
	s.mu.Unlock()
}

// PollNext polls woken entries until one of them completes.
//
// It returns io.EOF when the set is empty, and poll.ErrPending when no woken
// entry is left. It also gives up with poll.ErrPending, waking w, once every
// entry was polled during this call or two entries woke themselves while
// being polled, so a source that keeps yielding cannot starve the caller.
func (s *Set[T]) PollNext(w poll.Waker) (Completion[T], error) {
	s.mu.Lock()
	s.outer = w
	s.mu.Unlock()

	size := s.size
	var polled, yielded int
	for {
		e := s.dequeue()
		if e == nil {
			if s.size == 0 {
				return Completion[T]{}, io.EOF
			}
			return Completion[T]{}, poll.ErrPending
		}

		s.mu.Lock()
		e.woken = false
		s.mu.Unlock()

		v, err := e.src.PollNext(e)
		if poll.IsPending(err) {
			s.mu.Lock()
			if e.woken {
				yielded++
			}
			s.mu.Unlock()
			polled++
			if yielded >= 2 || polled == size {
				w.Wake()
				return Completion[T]{}, poll.ErrPending
			}
			continue
		}

		s.release(e)
		c := Completion[T]{Index: e.index}
		switch {
		case err == nil:
			c.Value = v
			c.Source = e.src
		case errors.Is(err, io.EOF):
			c.Ended = true
		default:
			c.Err = err
		}
		return c, nil
	}
}

func (s *Set[T]) dequeue() *entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready.Length() == 0 {
		return nil
	}
	e := s.ready.Remove().(*entry[T])
	e.queued = false
	return e
}

func (s *Set[T]) release(e *entry[T]) {
	s.size--
	s.mu.Lock()
	e.released = true
	s.mu.Unlock()
}

// entry is the waker handed to its source. Waking it queues the entry and
// forwards the wake to whoever polls the set.
type entry[T any] struct {
	set   *Set[T]
	index int
	src   Poller[T]

	// guarded by set.mu
	queued   bool
	woken    bool
	released bool
}

func (e *entry[T]) Wake() {
	s := e.set
	s.mu.Lock()
	if e.released {
		s.mu.Unlock()
		return
	}
	e.woken = true
	if !e.queued {
		e.queued = true
		s.ready.Add(e)
	}
	outer := s.outer
	s.mu.Unlock()
	if outer != nil {
		outer.Wake()
	}
}
