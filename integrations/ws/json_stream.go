// Package ws streams JSON messages received over a WebSocket.
package ws

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stephaneyfx/futuristic/stream"
)

const closeTimeout = time.Second

// Dialer opens the connection a stream reads from.
type Dialer func(ctx context.Context) (*websocket.Conn, error)

// JSONStream returns a stream of the JSON messages read from the connection
// returned by dial. The connection is closed when the stream is closed or its
// materialization context is done; the stream ends with io.EOF when the peer
// closes normally.
func JSONStream[T any](dial Dialer) stream.Stream[T] {
	return stream.NewStream(&jsonProvider[T]{dial: dial})
}

type jsonProvider[T any] struct {
	dial Dialer
	conn *websocket.Conn
	stop context.CancelFunc
}

func (j *jsonProvider[T]) Open(ctx context.Context) error {
	conn, err := j.dial(ctx)
	if err != nil {
		return fmt.Errorf("failed dialing websocket: %w", err)
	}
	j.conn = conn

	// Unblock pending reads once the stream is done
	ctx, j.stop = context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		if closeErr := conn.Close(); closeErr != nil {
			slog.Debug(fmt.Sprintf("error closing websocket: %v", closeErr))
		}
	}()
	return nil
}

func (j *jsonProvider[T]) Close() {
	if j.stop == nil {
		return
	}
	err := j.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeTimeout),
	)
	if err != nil {
		slog.Warn(fmt.Sprintf("error sending websocket close message: %v", err))
	}
	j.stop()
	j.stop = nil
	j.conn = nil
}

func (j *jsonProvider[T]) Emit(ctx context.Context) (T, error) {
	var ret T
	if ctx.Err() != nil {
		return ret, ctx.Err()
	}
	if err := j.conn.ReadJSON(&ret); err != nil {
		if ctx.Err() != nil {
			return ret, ctx.Err()
		}
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return ret, io.EOF
		}
		return ret, fmt.Errorf("error reading from websocket: %w", err)
	}
	return ret, nil
}
