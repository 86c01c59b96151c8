package source

import (
	"github.com/stephaneyfx/futuristic"
)

// ZipLatest zips a and b into pairs of their latest values. See ZipLatestWith.
func ZipLatest[A any, B any](a Source[A], b Source[B]) *Zip2[A, B, futuristic.Tuple2[A, B]] {
	return ZipLatestWith(a, b, futuristic.NewTuple2[A, B])
}

// ZipLatestAll zips srcs into slices of their latest values. See ZipLatestWithAll.
// Every emitted slice is a copy the caller owns.
func ZipLatestAll[T any](srcs ...Source[T]) *ZipN[T, []T] {
	return ZipLatestWithAll(func(items []T) []T {
		return append(make([]T, 0, len(items)), items...)
	}, srcs...)
}
