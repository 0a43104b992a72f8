package session

import "context"

// Store keeps one value per session id.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	// Update replaces the value for id with fn's result. fn sees the current
	// value and whether it exists; no other write to id runs in between.
	Update(ctx context.Context, id string, fn func(v T, ok bool) (T, error)) (T, error)
	Delete(ctx context.Context, id string) error
	NewID() string
}
