package stream

import "context"

// Provider is what needs to be implemented to expose a stream: the lifecycle
// methods Open and Close, and Emit, which returns the next item.
type Provider[T any] interface {
	Lifecycle

	// Emit returns the next item in the stream, or io.EOF when the stream is done.
	// Emit is never called concurrently. The stream checks ctx between calls;
	// honoring it inside Emit is up to the provider.
	Emit(ctx context.Context) (T, error)
}

// Lifecycle hooks into the opening and closing of a stream.
type Lifecycle interface {
	Open(ctx context.Context) error
	Close()
}

type lifecycleWrapper struct {
	openFunc  func(ctx context.Context) error
	closeFunc func()
}

func NewLifecycle(openFunc func(ctx context.Context) error, closeFunc func()) Lifecycle {
	return &lifecycleWrapper{openFunc: openFunc, closeFunc: closeFunc}
}

func (l *lifecycleWrapper) Open(ctx context.Context) error {
	if l.openFunc != nil {
		return l.openFunc(ctx)
	}
	return nil
}

func (l *lifecycleWrapper) Close() {
	if l.closeFunc != nil {
		l.closeFunc()
	}
}
