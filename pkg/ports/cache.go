package ports

import "context"

// CacheStore persists serialized query responses. Implementations must be
// safe for concurrent use. A missing key is not an error: Get returns
// ok=false and a nil error.
type CacheStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
