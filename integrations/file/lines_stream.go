// Package file streams the lines of a file.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/stephaneyfx/futuristic/stream"
)

// LinesStream streams the lines of the file at filePath. A missing file is an empty stream.
func LinesStream(filePath string) stream.Stream[[]byte] {
	return stream.NewStream(&linesProvider{filePath: filePath})
}

// JSONLinesStream streams the file at filePath, decoding every line as a JSON value.
// Blank lines are skipped.
func JSONLinesStream[T any](filePath string) stream.Stream[T] {
	return stream.MapWithErr(
		LinesStream(filePath).Filter(func(line []byte) bool {
			return len(line) > 0
		}),
		func(line []byte) (T, error) {
			var v T
			if err := json.Unmarshal(line, &v); err != nil {
				return v, fmt.Errorf("failed decoding line of %s: %w", filePath, err)
			}
			return v, nil
		},
	)
}

type linesProvider struct {
	filePath string
	file     *os.File
	scanner  *bufio.Scanner
	missing  bool
}

func (l *linesProvider) Open(context.Context) error {
	file, err := os.Open(l.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.missing = true
			return nil
		}
		return err
	}
	l.file = file
	l.scanner = bufio.NewScanner(file)
	return nil
}

func (l *linesProvider) Close() {
	if l.file == nil {
		return
	}
	if err := l.file.Close(); err != nil {
		slog.Warn(fmt.Sprintf("error closing stream file %s: %v", l.filePath, err))
	}
	l.file = nil
	l.scanner = nil
}

func (l *linesProvider) Emit(ctx context.Context) ([]byte, error) {
	if l.scanner == nil {
		if l.missing {
			return nil, io.EOF
		}
		// Emit before Open or after Close
		return nil, os.ErrClosed
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if l.scanner.Scan() {
		// The scanner reuses its buffer
		return append([]byte(nil), l.scanner.Bytes()...), nil
	}
	if err := l.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
