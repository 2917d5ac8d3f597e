package session

import "context"

// Slot names of the two persisted session values.
const (
	SlotUser  = "user"
	SlotToken = "token"
)

// Storage persists session slots under an opaque session key.
// Get returns types.ErrSessionNotFound when the slot is absent.
type Storage interface {
	Get(ctx context.Context, key, slot string) (string, error)
	Set(ctx context.Context, key, slot, value string) error
	Delete(ctx context.Context, key string, slots ...string) error
}
