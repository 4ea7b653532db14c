package parser

import "github.com/gnolang/mylang/lexer"

// Result holds either a parsed value or the typed failure that stopped it.
type Result[T any] struct {
	value   T
	failure *lexer.Failure
}

func ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func fail[T any](f *lexer.Failure) Result[T] {
	return Result[T]{failure: f}
}

// failWith converts a scanner error into a failed result.
func failWith[T any](err error) Result[T] {
	return fail[T](lexer.AsFailure(err))
}

// Failed reports whether the result carries a failure instead of a value.
func (r Result[T]) Failed() bool {
	return r.failure != nil
}

// Get returns the value. It is the zero value when the result failed.
func (r Result[T]) Get() T {
	return r.value
}

// Failure returns the failure reason, or nil on success.
func (r Result[T]) Failure() *lexer.Failure {
	return r.failure
}

// propagate re-types a failed result so it can be returned by an enclosing rule.
func propagate[T, U any](r Result[U]) Result[T] {
	return fail[T](r.failure)
}
