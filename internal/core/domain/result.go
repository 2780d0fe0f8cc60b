package domain

import (
	"encoding/json"
	"errors"
)

// ErrNoResultData is the panic value raised when success data is read from a
// failed Result.
var ErrNoResultData = errors.New("result: data accessed on a failed result")

// Result is the success/failure envelope returned to API callers.
// Data is present if and only if the result succeeded.
type Result[T any] struct {
	ok   bool
	data T
	err  string
}

// Success wraps data in a successful Result.
func Success[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data}
}

// Fail builds a failed Result carrying msg.
func Fail[T any](msg string) Result[T] {
	return Result[T]{err: msg}
}

func (r Result[T]) Succeeded() bool { return r.ok }

// Error returns the failure message, empty on success.
func (r Result[T]) Error() string { return r.err }

// GuardedData returns the success data. Calling it on a failed result is a
// programming error and panics with ErrNoResultData.
func (r Result[T]) GuardedData() T {
	if !r.ok {
		panic(ErrNoResultData)
	}
	return r.data
}

// Match dispatches on the result variant.
func Match[T, R any](r Result[T], onSuccess func(T) R, onFailure func(string) R) R {
	if r.ok {
		return onSuccess(r.data)
	}
	return onFailure(r.err)
}

type resultJSON[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	out := resultJSON[T]{Success: r.ok, Error: r.err}
	if r.ok {
		data := r.data
		out.Data = &data
	}
	return json.Marshal(out)
}
