package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/dmitrijs2005/marketdesk/internal/logging"
)

// Adapter serializes values into a KV.
type Adapter struct {
	kv  KV
	log logging.Logger
}

func NewAdapter(kv KV, log logging.Logger) *Adapter {
	if log == nil {
		log = logging.Nop{}
	}
	return &Adapter{kv: kv, log: log}
}

// Save JSON-encodes value under key.
func (a *Adapter) Save(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return a.kv.Set(ctx, key, b)
}

// Retrieve decodes the value under key into dst, which must be a non-nil
// pointer. It reports false when the key is missing, empty, null or cannot
// be decoded; dst is left untouched in that case.
func (a *Adapter) Retrieve(ctx context.Context, key string, dst any) bool {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}

	b, err := a.kv.Get(ctx, key)
	if err != nil {
		a.log.Warn(ctx, "storage read failed", "key", key, "error", err)
		return false
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return false
	}

	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(b, fresh.Interface()); err != nil {
		a.log.Warn(ctx, "malformed storage entry ignored", "key", key, "error", err)
		return false
	}
	rv.Elem().Set(fresh.Elem())
	return true
}

// Remove deletes key. Removing a missing key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	return a.kv.Delete(ctx, key)
}

// RemoveAll deletes several keys, atomically when the KV supports it.
func (a *Adapter) RemoveAll(ctx context.Context, keys ...string) error {
	if bd, ok := a.kv.(BatchDeleter); ok {
		return bd.DeleteMany(ctx, keys...)
	}
	for _, k := range keys {
		if err := a.kv.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// SaveString stores s as-is, for plain-string preferences.
func (a *Adapter) SaveString(ctx context.Context, key, s string) error {
	return a.kv.Set(ctx, key, []byte(s))
}

// RetrieveString returns the raw string under key.
func (a *Adapter) RetrieveString(ctx context.Context, key string) (string, bool) {
	b, err := a.kv.Get(ctx, key)
	if err != nil {
		a.log.Warn(ctx, "storage read failed", "key", key, "error", err)
		return "", false
	}
	if b == nil {
		return "", false
	}
	return string(b), true
}
