package source

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/stephaneyfx/futuristic"
	"github.com/stephaneyfx/futuristic/poll"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

// scriptA and scriptB interleave so that the two sides advance in different rounds:
// a: 0 . 1 . . 2
// b: . 10 11 12 . . 13
func scriptA() Source[int] {
	return ScriptOf(ptr(0), nil, ptr(1), nil, nil, ptr(2))
}

func scriptB() Source[int] {
	return ScriptOf[int](nil, ptr(10), ptr(11), ptr(12), nil, nil, ptr(13))
}

func TestZipLatest(t *testing.T) {
	require.Equal(
		t,
		[]futuristic.Tuple2[int, int]{
			{A: 0, B: 10},
			{A: 0, B: 11},
			{A: 1, B: 12},
			{A: 2, B: 13},
		},
		MustCollect[futuristic.Tuple2[int, int]](ZipLatest(scriptA(), scriptB())),
	)
}

func TestZipLatestWith(t *testing.T) {
	require.Equal(
		t,
		[]int{10, 11, 13, 15},
		MustCollect[int](ZipLatestWith(scriptA(), scriptB(), func(a, b int) int {
			return a + b
		})),
	)
}

func TestZipLatestMixedTypes(t *testing.T) {
	got := MustCollect[string](ZipLatestWith(
		Just(1, 2),
		Just("a"),
		func(n int, s string) string {
			return s + string(rune('0'+n))
		},
	))
	// Both sides are ready on the first poll, then only the left one advances.
	require.Equal(t, []string{"a1", "a2"}, got)
}

func TestZipLatestOfEmptyStreams(t *testing.T) {
	require.Empty(t, MustCollect[futuristic.Tuple2[struct{}, struct{}]](ZipLatest(Empty[struct{}](), Empty[struct{}]())))
}

func TestZipLatestOfEmptyAndInfinite(t *testing.T) {
	require.Empty(t, MustCollect[futuristic.Tuple2[struct{}, struct{}]](ZipLatest(Empty[struct{}](), Repeat(struct{}{}))))
	require.Empty(t, MustCollect[futuristic.Tuple2[struct{}, struct{}]](ZipLatest(Repeat(struct{}{}), Empty[struct{}]())))
}

func TestZipLatestPoisonAfterOtherSideProduced(t *testing.T) {
	// The right side ends having never produced anything: the left value is never combined.
	z := ZipLatest(Repeat(1), ScriptOf[int](nil, nil))
	require.Empty(t, MustCollect[futuristic.Tuple2[int, int]](z))
	require.True(t, z.Terminated())
}

func TestZipLatestKeepsEndedSideAsFallback(t *testing.T) {
	require.Equal(
		t,
		[]futuristic.Tuple2[string, int]{
			{A: "x", B: 1},
			{A: "x", B: 2},
			{A: "x", B: 3},
		},
		MustCollect[futuristic.Tuple2[string, int]](ZipLatest(Just("x"), ScriptOf(ptr(1), nil, ptr(2), nil, ptr(3)))),
	)
}

func TestZipLatestPendingWhileOneSideMissing(t *testing.T) {
	f := NewFeed[int]()
	z := ZipLatest(Just(7), Source[int](f))

	_, err := z.PollNext(poll.Noop)
	require.ErrorIs(t, err, poll.ErrPending)
	require.False(t, z.Terminated())

	require.NoError(t, f.Send(context.Background(), 3))
	v, err := z.PollNext(poll.Noop)
	require.NoError(t, err)
	require.Equal(t, futuristic.Tuple2[int, int]{A: 7, B: 3}, v)

	f.Close()
	_, err = z.PollNext(poll.Noop)
	require.ErrorIs(t, err, io.EOF)
	require.True(t, z.Terminated())
}

func TestZipLatestPanicsWhenPolledAfterTermination(t *testing.T) {
	z := ZipLatest(Empty[int](), Empty[int]())
	_, err := z.PollNext(poll.Noop)
	require.ErrorIs(t, err, io.EOF)
	require.Panics(t, func() {
		_, _ = z.PollNext(poll.Noop)
	})
}

func TestZipLatestSourceError(t *testing.T) {
	boom := errors.New("boom")
	failing := Func[int](func(poll.Waker) (int, error) {
		return 0, boom
	})
	z := ZipLatest(Just(1, 2), Source[int](failing))
	_, err := Collect[futuristic.Tuple2[int, int]](context.Background(), z)
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "right source")
	require.True(t, z.Terminated())
}

func TestZipLatestCombinePanicPropagates(t *testing.T) {
	z := ZipLatestWith(Just(1), Just(2), func(int, int) int {
		panic("combine failed")
	})
	require.PanicsWithValue(t, "combine failed", func() {
		_, _ = z.PollNext(poll.Noop)
	})
}

// randomScript returns a script with at least one value, and the last value it produces.
func randomScript(rnd *rand.Rand, base int) ([]Step[int], int) {
	n := 1 + rnd.Intn(8)
	var steps []Step[int]
	last := 0
	for i := 0; i < n; i++ {
		for rnd.Intn(3) == 0 {
			steps = append(steps, Stall[int]())
		}
		last = base + i
		steps = append(steps, Emit(last))
	}
	for rnd.Intn(2) == 0 {
		steps = append(steps, Stall[int]())
	}
	return steps, last
}

func TestZipLatestFinalEmissionPairsLastValues(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		stepsA, lastA := randomScript(rnd, 0)
		stepsB, lastB := randomScript(rnd, 100)

		got := MustCollect[futuristic.Tuple2[int, int]](ZipLatest(Script(stepsA...), Script(stepsB...)))
		require.NotEmpty(t, got)
		require.Equal(t, futuristic.Tuple2[int, int]{A: lastA, B: lastB}, got[len(got)-1])

		// Each side only moves forward and every emission carries something new.
		for j := 1; j < len(got); j++ {
			require.LessOrEqual(t, got[j-1].A, got[j].A)
			require.LessOrEqual(t, got[j-1].B, got[j].B)
			require.NotEqual(t, got[j-1], got[j])
		}
	}
}
