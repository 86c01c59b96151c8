// Package sql streams the rows of a database query.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/stephaneyfx/futuristic/internal/util"
	"github.com/stephaneyfx/futuristic/stream"
)

// QueryStream returns a stream of the rows of query, each converted by scan.
// The query runs when the stream is opened; rows are closed with the stream.
func QueryStream[T any](
	db *sql.DB,
	query string,
	args []any,
	scan func(*sql.Rows) (T, error),
) stream.Stream[T] {
	return stream.NewStream(&queryProvider[T]{
		db:    db,
		query: query,
		args:  args,
		scan:  scan,
	})
}

type queryProvider[T any] struct {
	db    *sql.DB
	query string
	args  []any
	scan  func(*sql.Rows) (T, error)
	rows  *sql.Rows
}

func (q *queryProvider[T]) Open(ctx context.Context) error {
	rows, err := q.db.QueryContext(ctx, q.query, q.args...)
	if err != nil {
		return fmt.Errorf("failed opening sql query stream: %w", err)
	}
	q.rows = rows
	return nil
}

func (q *queryProvider[T]) Close() {
	if q.rows == nil {
		return
	}
	if err := q.rows.Close(); err != nil {
		slog.Warn(fmt.Sprintf("error closing sql query rows: %v", err))
	}
	q.rows = nil
}

func (q *queryProvider[T]) Emit(ctx context.Context) (T, error) {
	if ctx.Err() != nil {
		return util.DefaultValue[T](), ctx.Err()
	}
	if !q.rows.Next() {
		if err := q.rows.Err(); err != nil {
			return util.DefaultValue[T](), fmt.Errorf("error reading from sql query stream: %w", err)
		}
		return util.DefaultValue[T](), io.EOF
	}
	v, err := q.scan(q.rows)
	if err != nil {
		return util.DefaultValue[T](), fmt.Errorf("failed scanning sql row: %w", err)
	}
	return v, nil
}
