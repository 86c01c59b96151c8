package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stephaneyfx/futuristic"
	"github.com/stephaneyfx/futuristic/poll"
	"github.com/stephaneyfx/futuristic/source"
	"github.com/stretchr/testify/require"
)

func parity(v int) futuristic.Either[int, int] {
	if v%2 == 0 {
		return futuristic.Left[int, int](v)
	}
	return futuristic.Right[int, int](v)
}

func TestForkRoutesEvensAndOdds(t *testing.T) {
	evens, odds := &Collector[int]{}, &Collector[int]{}
	fork := NewFork[int](evens, odds, parity)

	err := Drain[int](context.Background(), source.Just(0, 1, 2, 3, 4, 5, 6, 7, 8, 9), fork)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 4, 6, 8}, evens.Items)
	require.Equal(t, []int{1, 3, 5, 7, 9}, odds.Items)
	require.True(t, evens.Closed)
	require.True(t, odds.Closed)
}

func TestForkIntoNull(t *testing.T) {
	odds := &Collector[int]{}
	fork := NewFork[int](Null[int]{}, odds, parity)
	require.NoError(t, Drain[int](context.Background(), source.Just(1, 2, 3), fork))
	require.Equal(t, []int{1, 3}, odds.Items)
}

// gated is a sink whose readiness and closure are released by hand.
type gated struct {
	Collector[int]
	open       bool
	closeReady bool
	waker      poll.Waker
	closes     int
	flushes    int
	err        error
}

func (g *gated) PollReady(w poll.Waker) error {
	if g.err != nil {
		return g.err
	}
	if !g.open {
		g.waker = w
		return poll.ErrPending
	}
	return nil
}

func (g *gated) PollFlush(poll.Waker) error {
	g.flushes++
	return nil
}

func (g *gated) PollClose(w poll.Waker) error {
	g.closes++
	if !g.closeReady {
		g.waker = w
		return poll.ErrPending
	}
	g.Closed = true
	return nil
}

func TestForkHoldsOneItemUntilHandedOff(t *testing.T) {
	left := &gated{}
	right := &Collector[int]{}
	fork := NewFork[int](left, right, parity)

	require.NoError(t, fork.PollReady(poll.Noop))
	require.NoError(t, fork.StartSend(2))

	require.ErrorIs(t, fork.PollReady(poll.Noop), poll.ErrPending)
	require.Panics(t, func() {
		_ = fork.StartSend(3)
	})
	require.Empty(t, left.Items)

	left.open = true
	require.NoError(t, fork.PollReady(poll.Noop))
	require.Equal(t, []int{2}, left.Items)

	require.NoError(t, fork.StartSend(3))
	require.NoError(t, fork.PollReady(poll.Noop))
	require.Equal(t, []int{3}, right.Items)
}

func TestForkFlushHandsOffAndFlushesBothSides(t *testing.T) {
	left, right := &gated{open: true}, &gated{open: true}
	fork := NewFork[int](left, right, parity)

	require.NoError(t, fork.StartSend(1))
	require.NoError(t, fork.PollFlush(poll.Noop))
	require.Equal(t, []int{1}, right.Items)
	require.Equal(t, 1, left.flushes)
	require.Equal(t, 1, right.flushes)
}

func TestForkCloseTracksEachSide(t *testing.T) {
	left := &gated{open: true, closeReady: true}
	right := &gated{open: true}
	fork := NewFork[int](left, right, parity)

	require.ErrorIs(t, fork.PollClose(poll.Noop), poll.ErrPending)
	require.ErrorIs(t, fork.PollClose(poll.Noop), poll.ErrPending)
	require.Equal(t, 1, left.closes, "a closed side is not closed again")
	require.Equal(t, 2, right.closes)

	right.closeReady = true
	require.NoError(t, fork.PollClose(poll.Noop))
	require.True(t, left.Closed)
	require.True(t, right.Closed)

	require.NoError(t, fork.PollClose(poll.Noop))
	require.Equal(t, 1, left.closes)
	require.Equal(t, 3, right.closes)
}

func TestForkReturnsDestinationError(t *testing.T) {
	boom := errors.New("boom")
	left := &gated{err: boom}
	fork := NewFork[int](left, &Collector[int]{}, parity)

	err := Drain[int](context.Background(), source.Just(1, 2, 3), fork)
	require.ErrorIs(t, err, boom)
}

func TestDrainWaitsForGatedSink(t *testing.T) {
	dst := &gated{}
	done := make(chan error, 1)
	feed := source.NewFeed[int]()

	wake := make(chan poll.Waker, 1)
	watcher := &readyWatcher{gated: dst, seen: wake}
	go func() {
		done <- Drain[int](context.Background(), feed, watcher)
	}()

	require.NoError(t, feed.Send(context.Background(), 4))
	w := <-wake
	dst.open = true
	dst.closeReady = true
	w.Wake()
	feed.Close()

	require.NoError(t, <-done)
	require.Equal(t, []int{4}, dst.Items)
	require.True(t, dst.Closed)
}

// readyWatcher reports the waker of the first pending PollReady.
type readyWatcher struct {
	*gated
	seen     chan poll.Waker
	reported bool
}

func (r *readyWatcher) PollReady(w poll.Waker) error {
	err := r.gated.PollReady(w)
	if poll.IsPending(err) && !r.reported {
		r.reported = true
		r.seen <- w
	}
	return err
}
