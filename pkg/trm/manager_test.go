package trm

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

type joinedTx struct {
	pgx.Tx
	finished int
}

func (t *joinedTx) Commit(context.Context) error   { t.finished++; return nil }
func (t *joinedTx) Rollback(context.Context) error { t.finished++; return nil }

func TestManager_DoWithContextValue(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		value   any
		fnErr   error
		wantErr error
		wantRan bool
	}{
		{name: "joins the outer transaction", value: &joinedTx{}, wantRan: true},
		{name: "returns fn error without finishing the outer transaction", value: &joinedTx{}, fnErr: boom, wantErr: boom, wantRan: true},
		{name: "rejects a foreign value", value: "not a tx", wantErr: ErrInvalidTx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// a nil pool panics if Do tries to begin its own transaction
			m := New(nil)
			ctx := context.WithValue(context.Background(), TxKey, tt.value)

			var ran bool
			err := m.Do(ctx, func(inner context.Context) error {
				ran = true
				if inner.Value(TxKey) != tt.value {
					t.Error("fn must see the outer transaction")
				}
				return tt.fnErr
			})

			if !errors.Is(err, tt.wantErr) || (err == nil) != (tt.wantErr == nil) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if ran != tt.wantRan {
				t.Fatalf("ran = %v, want %v", ran, tt.wantRan)
			}
			if tx, ok := tt.value.(*joinedTx); ok && tx.finished != 0 {
				t.Fatal("a joined transaction is committed or rolled back by its owner only")
			}
		})
	}
}
