package interfaces

import "context"

// CacheStore persists opaque cache payloads by key
type CacheStore interface {
	// Get returns the payload stored under key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Put stores data under key, replacing any previous payload
	Put(ctx context.Context, key string, data []byte) error

	// Close releases the resources held by the store
	Close() error
}
