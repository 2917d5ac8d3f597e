package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	"github.com/Temutjin2k/safebike-web/pkg/trm"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// SessionStorage persists session slots in web_session_slots, one row per slot.
type SessionStorage struct {
	db  *pgxpool.Pool
	trm trm.TxManager
	ttl time.Duration
}

func NewSessionStorage(db *pgxpool.Pool, trm trm.TxManager, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		db:  db,
		trm: trm,
		ttl: ttl,
	}
}

// EnsureSchema creates the slot table when it does not exist yet.
func (r *SessionStorage) EnsureSchema(ctx context.Context) error {
	const op = "SessionStorage.EnsureSchema"
	if _, err := r.db.Exec(ctx, schema); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (r *SessionStorage) Get(ctx context.Context, key, slot string) (string, error) {
	const op = "SessionStorage.Get"
	query := `
		SELECT value
		FROM web_session_slots
		WHERE session_key = $1 AND slot = $2 AND expires_at > now()`

	var value string
	if err := TxorDB(ctx, r.db).QueryRow(ctx, query, key, slot).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", types.ErrSessionNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionSessionStorageFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return value, nil
}

func (r *SessionStorage) Set(ctx context.Context, key, slot, value string) error {
	const op = "SessionStorage.Set"
	query := `
		INSERT INTO web_session_slots (session_key, slot, value, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_key, slot) DO UPDATE
		SET value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, key, slot, value, time.Now().Add(r.ttl)); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionSessionStorageFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}

// Delete removes the given slots and any expired leftovers of the same
// session in one transaction.
func (r *SessionStorage) Delete(ctx context.Context, key string, slots ...string) error {
	const op = "SessionStorage.Delete"
	if len(slots) == 0 {
		return nil
	}

	err := r.trm.Do(ctx, func(ctx context.Context) error {
		q := TxorDB(ctx, r.db)
		if _, err := q.Exec(ctx, `DELETE FROM web_session_slots WHERE session_key = $1 AND slot = ANY($2)`, key, slots); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM web_session_slots WHERE session_key = $1 AND expires_at <= now()`, key); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}

// PurgeExpired deletes every expired slot and returns how many rows went away.
func (r *SessionStorage) PurgeExpired(ctx context.Context) (int64, error) {
	const op = "SessionStorage.PurgeExpired"

	tag, err := TxorDB(ctx, r.db).Exec(ctx, `DELETE FROM web_session_slots WHERE expires_at <= now()`)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return 0, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return tag.RowsAffected(), nil
}
