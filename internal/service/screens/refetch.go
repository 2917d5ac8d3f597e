package screens

import (
	"context"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
)

// writeThenRefetch issues one write and, only once it succeeded, sets notice,
// notifies the tabs and re-reads the screen data. A failed write leaves Data
// and Notice empty; a failed re-read keeps the notice next to its error.
func writeThenRefetch[T any](
	ctx context.Context,
	write func(context.Context) error,
	read func(context.Context) (T, error),
	notify func(),
	notice string,
) (State[T], error) {
	st := loading[T]()

	if err := write(ctx); err != nil {
		if ctx.Err() != nil {
			return st, types.ErrDetached
		}
		st.Loading = false
		st.Err = err
		return st, nil
	}

	st.Notice = notice
	notify()

	if ctx.Err() != nil {
		return st, types.ErrDetached
	}

	data, err := read(ctx)
	return resolve(ctx, st, data, err)
}

func readOnce[T any](ctx context.Context, read func(context.Context) (T, error)) (State[T], error) {
	data, err := read(ctx)
	return resolve(ctx, loading[T](), data, err)
}
