package storage

import "context"

// KV is the byte-level port behind Adapter. Get of a missing key returns
// (nil, nil).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// BatchDeleter is implemented by stores that can drop several keys
// atomically.
type BatchDeleter interface {
	DeleteMany(ctx context.Context, keys ...string) error
}
