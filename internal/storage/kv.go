package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// LoadJSON decodes the value stored under key into v. A missing key returns
// ErrNotFound and undecodable JSON returns ErrMalformed.
func LoadJSON(ctx context.Context, kv KVStore, key string, v any) error {
	entry, err := kv.GetEntry(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(entry.Value, v); err != nil {
		return fmt.Errorf("%w: key %s: %v", ErrMalformed, key, err)
	}
	return nil
}

// SaveJSON overwrites key with the JSON encoding of v.
func SaveJSON(ctx context.Context, kv KVStore, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.PutEntry(ctx, Entry{Key: key, Value: payload, UpdatedAt: time.Now().UTC()})
}
