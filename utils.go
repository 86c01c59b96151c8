// Package futuristic extends pollable sources and sinks with combinators.
//
// The pollable world lives in the poll, source and sink packages; the stream
// package bridges it to blocking, context driven consumption.
package futuristic

import "context"

// Tuple2 holds two values of possibly different types.
type Tuple2[A any, B any] struct {
	A A
	B B
}

func NewTuple2[A any, B any](a A, b B) Tuple2[A, B] {
	return Tuple2[A, B]{A: a, B: b}
}

// Either holds exactly one of a left or a right value.
type Either[L any, R any] struct {
	left    L
	right   R
	isRight bool
}

func Left[L any, R any](v L) Either[L, R] {
	return Either[L, R]{left: v}
}

func Right[L any, R any](v R) Either[L, R] {
	return Either[L, R]{right: v, isRight: true}
}

func (e Either[L, R]) IsLeft() bool {
	return !e.isRight
}

func (e Either[L, R]) IsRight() bool {
	return e.isRight
}

// Left returns the left value, and false if e holds a right value.
func (e Either[L, R]) Left() (L, bool) {
	return e.left, !e.isRight
}

// Right returns the right value, and false if e holds a left value.
func (e Either[L, R]) Right() (R, bool) {
	return e.right, e.isRight
}

func (em MapperWithErr[SRC, TGT]) ToErrCtx() MapperWithErrAndCtx[SRC, TGT] {
	return func(_ context.Context, src SRC) (TGT, error) {
		return em(src)
	}
}

func (m Mapper[SRC, TGT]) ToErrCtx() MapperWithErrAndCtx[SRC, TGT] {
	return func(_ context.Context, src SRC) (TGT, error) {
		return m(src), nil
	}
}

func (p Predicate[SRC]) ToErrCtx() PredicateWithErrAndCtx[SRC] {
	return func(_ context.Context, src SRC) (bool, error) {
		return p(src), nil
	}
}

type Mapper[SRC any, TGT any] func(src SRC) TGT
type MapperWithErr[SRC any, TGT any] func(src SRC) (TGT, error)
type MapperWithErrAndCtx[SRC any, TGT any] func(context.Context, SRC) (TGT, error)

type Predicate[SRC any] Mapper[SRC, bool]
type PredicateWithErrAndCtx[SRC any] MapperWithErrAndCtx[SRC, bool]
