package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSessionStorage_UnreachableServer(t *testing.T) {
	s := NewSessionStorage(unreachableClient(t), time.Hour)
	ctx := context.Background()

	_, err := s.Get(ctx, "k", "token")
	if err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if errors.Is(err, types.ErrSessionNotFound) {
		t.Fatal("connection failure must not look like a missing slot")
	}

	if err := s.Set(ctx, "k", "token", "T1"); err == nil {
		t.Fatal("expected error from Set")
	}
	if err := s.Delete(ctx, "k", "user", "token"); err == nil {
		t.Fatal("expected error from Delete")
	}
}

func TestSessionStorage_DeleteWithoutSlots(t *testing.T) {
	s := NewSessionStorage(unreachableClient(t), time.Hour)
	if err := s.Delete(context.Background(), "k"); err != nil {
		t.Fatalf("delete of no slots must be a no-op, got %v", err)
	}
}

// fakeRedis keeps hashes in memory and implements the commands the session
// storage issues; any other command panics through the nil embedded client.
type fakeRedis struct {
	redis.Cmdable
	hashes map[string]map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		hashes: make(map[string]map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRedis) HGet(ctx context.Context, key, field string) *redis.StringCmd {
	v, ok := f.hashes[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]string)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.hashes[key][values[i].(string)] = values[i+1].(string)
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (f *fakeRedis) HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd {
	var n int64
	for _, field := range fields {
		if _, ok := f.hashes[key][field]; ok {
			delete(f.hashes[key], field)
			n++
		}
	}
	if len(f.hashes[key]) == 0 {
		delete(f.hashes, key)
		delete(f.ttls, key)
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	return nil, fn(fakePipe{r: f})
}

type fakePipe struct {
	redis.Pipeliner
	r *fakeRedis
}

func (p fakePipe) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	return p.r.HSet(ctx, key, values...)
}

func (p fakePipe) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return p.r.Expire(ctx, key, expiration)
}

func TestSessionStorage_Slots(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		ttl      time.Duration
		set      map[string]string
		del      []string
		wantSlot map[string]string
		wantTTL  time.Duration
	}{
		{
			name:     "both slots in one hash",
			ttl:      time.Hour,
			set:      map[string]string{"user": `{"id":"7"}`, "token": "T1"},
			wantSlot: map[string]string{"user": `{"id":"7"}`, "token": "T1"},
			wantTTL:  time.Hour,
		},
		{
			name:     "delete one slot keeps the other",
			ttl:      time.Hour,
			set:      map[string]string{"user": `{"id":"7"}`, "token": "T1"},
			del:      []string{"token"},
			wantSlot: map[string]string{"user": `{"id":"7"}`},
			wantTTL:  time.Hour,
		},
		{
			name: "delete both drops the hash",
			ttl:  time.Hour,
			set:  map[string]string{"user": `{"id":"7"}`, "token": "T1"},
			del:  []string{"user", "token"},
		},
		{
			name:     "no ttl leaves the hash without expiry",
			set:      map[string]string{"token": "T1"},
			wantSlot: map[string]string{"token": "T1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeRedis()
			s := NewSessionStorage(client, tt.ttl)

			for slot, v := range tt.set {
				if err := s.Set(ctx, "abc", slot, v); err != nil {
					t.Fatalf("set %s: %v", slot, err)
				}
			}
			if err := s.Delete(ctx, "abc", tt.del...); err != nil {
				t.Fatalf("delete: %v", err)
			}

			for _, slot := range []string{"user", "token"} {
				got, err := s.Get(ctx, "abc", slot)
				want, ok := tt.wantSlot[slot]
				switch {
				case ok && (err != nil || got != want):
					t.Errorf("slot %s = %q, %v; want %q", slot, got, err, want)
				case !ok && !errors.Is(err, types.ErrSessionNotFound):
					t.Errorf("slot %s: want ErrSessionNotFound, got %q, %v", slot, got, err)
				}
			}

			if len(tt.wantSlot) > 0 && client.hashes["session:abc"] == nil {
				t.Fatal("slots must live under the session: prefix")
			}
			if client.ttls["session:abc"] != tt.wantTTL {
				t.Fatalf("ttl = %v, want %v", client.ttls["session:abc"], tt.wantTTL)
			}
		})
	}
}

func TestSessionStorage_LoginRotatesKey(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	storage := NewSessionStorage(client, time.Hour)

	store := session.Hydrate(ctx, storage, "11111111-2222-3333-4444-555555555555", logger.Discard())
	var cookie string
	store.OnRotate(func(v string) { cookie = v })

	identity := models.Identity{ID: "7", Role: types.RolePassenger}
	if err := store.Login(ctx, identity, "T1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	again := session.Hydrate(ctx, storage, cookie, logger.Discard())
	if again.Token() != "T1" || again.Role() != types.RolePassenger {
		t.Fatalf("session not restored from redis: token %q role %q", again.Token(), again.Role())
	}
	if len(client.hashes) != 1 {
		t.Fatalf("want one session hash, got %d", len(client.hashes))
	}
}
