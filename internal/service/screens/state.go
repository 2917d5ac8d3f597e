package screens

import (
	"context"
	"errors"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
)

// State is what a screen renders: whether its reads are still pending, the
// error of the last read or write, and the loaded data.
type State[T any] struct {
	Loading     bool
	Err         error
	FieldErrors map[string]string
	Notice      string
	Data        T
}

// Failed reports whether the state carries an error.
func (s State[T]) Failed() bool {
	return s.Err != nil
}

// Message is the user-visible text of the error.
func (s State[T]) Message() string {
	return UserMessage(s.Err)
}

func loading[T any]() State[T] {
	return State[T]{Loading: true}
}

// resolve applies the result of a read or write to st, unless the request
// finished first, in which case the result is dropped and ErrDetached returned.
func resolve[T any](ctx context.Context, st State[T], data T, err error) (State[T], error) {
	if ctx.Err() != nil {
		return st, types.ErrDetached
	}
	st.Loading = false
	if err != nil {
		st.Err = err
		return st, nil
	}
	st.Err = nil
	st.Data = data
	return st, nil
}

type userMessager interface {
	UserMessage() string
}

// UserMessage maps an error to the text shown on a screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var um userMessager
	switch {
	case errors.Is(err, types.ErrValidation):
		return "Please correct the highlighted fields."
	case errors.Is(err, types.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, types.ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, types.ErrNotFound):
		return "The requested item was not found."
	case errors.Is(err, types.ErrBadRequest) && errors.As(err, &um):
		return um.UserMessage()
	case errors.Is(err, types.ErrBadRequest):
		return "The request was rejected. Please check your input."
	case errors.Is(err, types.ErrBackendUnavailable):
		return "The service is unreachable right now. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}
