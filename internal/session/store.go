package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/hasher"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

// Store is the session of a single browser request: the authenticated
// identity and its bearer token, mirrored into Storage.
//
// A Store is hydrated at the start of every request and is not shared
// between requests.
type Store struct {
	storage Storage
	key     string
	log     logger.Logger

	identity *models.Identity
	token    string

	onRotate func(cookieValue string)
}

// Key derives the storage key from the raw cookie value.
func Key(cookieValue string) string {
	return hasher.Hash(cookieValue)
}

// Anonymous returns a store with no backing storage and no identity.
func Anonymous() *Store {
	return &Store{}
}

// Hydrate reads the persisted slots of the session identified by cookieValue.
//
// It fails closed: whenever the slots cannot be turned into a consistent,
// unexpired session the slots are cleared and an anonymous store is returned.
func Hydrate(ctx context.Context, storage Storage, cookieValue string, log logger.Logger) *Store {
	s := &Store{
		storage: storage,
		key:     Key(cookieValue),
		log:     log,
	}
	if storage == nil || cookieValue == "" {
		return s
	}

	ctx = wrap.WithSessionKey(ctx, shortKey(s.key))

	rawUser, userErr := storage.Get(ctx, s.key, SlotUser)
	token, tokenErr := storage.Get(ctx, s.key, SlotToken)

	userMissing := errors.Is(userErr, types.ErrSessionNotFound)
	tokenMissing := errors.Is(tokenErr, types.ErrSessionNotFound)

	switch {
	case userMissing && tokenMissing:
		return s
	case userErr != nil && !userMissing, tokenErr != nil && !tokenMissing:
		err := userErr
		if err == nil || userMissing {
			err = tokenErr
		}
		s.invalidate(ctx, "session storage unreadable", err)
		return s
	case userMissing || tokenMissing:
		s.invalidate(ctx, "session slot missing its counterpart", types.ErrInvalidSessionData)
		return s
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(rawUser), &identity); err != nil {
		s.invalidate(ctx, "malformed identity slot", fmt.Errorf("%w: %v", types.ErrInvalidSessionData, err))
		return s
	}
	if identity.Role == types.RoleAnonymous {
		s.invalidate(ctx, "identity without role", types.ErrInvalidSessionData)
		return s
	}
	if token == "" {
		s.invalidate(ctx, "empty token slot", types.ErrEmptyToken)
		return s
	}
	if tokenExpired(token, time.Now()) {
		s.invalidate(ctx, "bearer token expired", types.ErrUnauthorized)
		return s
	}

	s.identity = &identity
	s.token = token
	return s
}

// OnRotate registers fn to receive the new cookie value whenever the
// session moves to a fresh key.
func (s *Store) OnRotate(fn func(cookieValue string)) {
	s.onRotate = fn
}

// Login records the identity and token. Both slots are persisted under a
// fresh key and the slots of the previous key are dropped, so a cookie
// known before login never carries the signed-in session.
func (s *Store) Login(ctx context.Context, identity models.Identity, token string) error {
	const op = "Store.Login"
	if token == "" {
		return fmt.Errorf("%s: %w", op, types.ErrEmptyToken)
	}
	if identity.Role == types.RoleAnonymous {
		return fmt.Errorf("%s: identity without role: %w", op, types.ErrInvalidSessionData)
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.storage != nil {
		value := uuid.NewString()
		key := Key(value)

		ctx = wrap.WithSessionKey(ctx, shortKey(key))
		if err := s.storage.Set(ctx, key, SlotUser, string(raw)); err != nil {
			ctx = wrap.WithAction(ctx, types.ActionSessionStorageFailed)
			return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		if err := s.storage.Set(ctx, key, SlotToken, token); err != nil {
			_ = s.storage.Delete(ctx, key, SlotUser, SlotToken)
			ctx = wrap.WithAction(ctx, types.ActionSessionStorageFailed)
			return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}

		s.drop(ctx)
		s.rotate(key, value)
	}

	s.identity = &identity
	s.token = token
	return nil
}

// Logout clears the in-memory session and both persisted slots, then moves
// the browser to a fresh key. The in-memory state is cleared and the key
// rotated even when storage fails.
func (s *Store) Logout(ctx context.Context) error {
	const op = "Store.Logout"

	s.identity = nil
	s.token = ""

	if s.storage == nil {
		return nil
	}

	ctx = wrap.WithSessionKey(ctx, shortKey(s.key))
	err := s.storage.Delete(ctx, s.key, SlotUser, SlotToken)

	value := uuid.NewString()
	s.rotate(Key(value), value)

	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionSessionStorageFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// drop removes the slots of the current key.
func (s *Store) drop(ctx context.Context) {
	if err := s.storage.Delete(ctx, s.key, SlotUser, SlotToken); err != nil && s.log != nil {
		s.log.Error(wrap.WithAction(ctx, types.ActionSessionStorageFailed), "failed to drop previous session slots", err)
	}
}

func (s *Store) rotate(key, cookieValue string) {
	s.key = key
	if s.onRotate != nil {
		s.onRotate(cookieValue)
	}
}

func (s *Store) IsAuthenticated() bool {
	return s.token != ""
}

// Role is the identity's role, or anonymous without a session.
func (s *Store) Role() types.Role {
	if s.identity == nil || !s.IsAuthenticated() {
		return types.RoleAnonymous
	}
	return s.identity.Role
}

// Identity returns a copy of the identity; ok is false when anonymous.
func (s *Store) Identity() (models.Identity, bool) {
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the bearer token, empty when anonymous.
func (s *Store) Token() string {
	return s.token
}

// Key returns the hashed storage key of this session.
func (s *Store) Key() string {
	return s.key
}

func (s *Store) invalidate(ctx context.Context, reason string, cause error) {
	ctx = wrap.WithAction(ctx, types.ActionSessionInvalidated)
	if s.log != nil {
		s.log.Warn(ctx, "session invalidated on hydrate", "reason", reason, "cause", cause.Error())
	}

	s.identity = nil
	s.token = ""
	if err := s.storage.Delete(ctx, s.key, SlotUser, SlotToken); err != nil && s.log != nil {
		s.log.Error(wrap.WithAction(ctx, types.ActionSessionStorageFailed), "failed to clear session slots", err)
	}
}

// shortKey keeps log lines readable; the full key is still a hash.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

type ctxKey struct{}

// WithStore puts the request's store into ctx.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's store, or an anonymous one.
func FromContext(ctx context.Context) *Store {
	if s, ok := ctx.Value(ctxKey{}).(*Store); ok && s != nil {
		return s
	}
	return Anonymous()
}
