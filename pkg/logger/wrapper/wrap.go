package wrap

import (
	"context"
	"errors"
)

// loggedError carries the LogCtx of the place the error was wrapped.
type loggedError struct {
	err    error
	logCtx LogCtx
}

func (e *loggedError) Error() string { return e.err.Error() }

func (e *loggedError) Unwrap() error { return e.err }

// Error wraps err with the LogCtx currently stored in ctx.
// Wrapping an already wrapped error refreshes the context that ErrorCtx will report.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	return &loggedError{
		err:    err,
		logCtx: FromContext(ctx),
	}
}

// ErrorCtx returns ctx enriched with the LogCtx carried by err, if any.
// Fields missing from the error's context are taken from ctx.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *loggedError
	if errors.As(err, &e) && e != nil {
		return WithLogCtx(ctx, e.logCtx)
	}
	return ctx
}
