package source

import (
	"io"

	"github.com/stephaneyfx/futuristic/internal/util"
	"github.com/stephaneyfx/futuristic/poll"
)

// Empty returns a source that ends on its first poll.
func Empty[T any]() Source[T] {
	return Func[T](func(poll.Waker) (T, error) {
		return util.DefaultValue[T](), io.EOF
	})
}

// Just returns a source producing the given values, one per poll, then ending.
func Just[T any](values ...T) Source[T] {
	remaining := values
	return Func[T](func(poll.Waker) (T, error) {
		if len(remaining) == 0 {
			return util.DefaultValue[T](), io.EOF
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	})
}

// Repeat returns a source producing v forever.
func Repeat[T any](v T) Source[T] {
	return Func[T](func(poll.Waker) (T, error) {
		return v, nil
	})
}

// Step is one scripted outcome of a Script source.
type Step[T any] struct {
	value T
	stall bool
}

// Emit is a step producing v.
func Emit[T any](v T) Step[T] {
	return Step[T]{value: v}
}

// Stall is a step that is not ready: it wakes the waker right away and
// reports poll.ErrPending, like yielding to the executor once.
func Stall[T any]() Step[T] {
	return Step[T]{stall: true}
}

// Script returns a source that plays the steps, one per poll, then ends.
// It makes interleavings between several sources deterministic.
func Script[T any](steps ...Step[T]) Source[T] {
	remaining := steps
	return Func[T](func(w poll.Waker) (T, error) {
		if len(remaining) == 0 {
			return util.DefaultValue[T](), io.EOF
		}
		step := remaining[0]
		remaining = remaining[1:]
		if step.stall {
			w.Wake()
			return util.DefaultValue[T](), poll.ErrPending
		}
		return step.value, nil
	})
}

// ScriptOf builds a Script from optional values, nil standing for a stall.
func ScriptOf[T any](steps ...*T) Source[T] {
	scripted := make([]Step[T], len(steps))
	for i, s := range steps {
		if s == nil {
			scripted[i] = Stall[T]()
		} else {
			scripted[i] = Emit(*s)
		}
	}
	return Script(scripted...)
}
