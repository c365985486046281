// Package transient keeps short-lived values shared between requests.
package transient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyKey = errors.New("transient: empty key")

// Store is a TTL key/value store. Expired entries behave as absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetIfAbsent stores the value only when no live entry exists and
	// reports whether it did.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	// DeleteIfValue removes the entry only while it still holds value and
	// reports whether it did.
	DeleteIfValue(ctx context.Context, key string, value []byte) (bool, error)
	// Take returns the value and removes it. Concurrent callers never
	// both receive the same entry.
	Take(ctx context.Context, key string) ([]byte, bool, error)
}

// TryLock acquires key without waiting. When ok is false the lock is held
// elsewhere and release is nil. Release only frees the lock while this
// caller still owns it, so a lock that expired and was taken by someone
// else survives.
func TryLock(ctx context.Context, store Store, key string, ttl time.Duration) (release func(), ok bool, err error) {
	owner := []byte(uuid.NewString())
	ok, err = store.SetIfAbsent(ctx, key, owner, ttl)
	if err != nil || !ok {
		return nil, false, err
	}
	return func() {
		_, _ = store.DeleteIfValue(context.WithoutCancel(ctx), key, owner)
	}, true, nil
}
