package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Store is the persistence adapter behind every partition and the recipe
// catalog: a string-keyed get/set of JSON documents. A Save either fully
// lands or leaves the previous value in place.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

// CorruptError reports a stored value that could not be decoded.
// Callers treat it as absent data rather than a failure.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt value at key %q: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// IsCorrupt reports whether err came from undecodable stored content.
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}

// LoadJSON decodes the value stored at key into dst. It returns false when
// the key is absent. Undecodable content yields a *CorruptError.
func LoadJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, &CorruptError{Key: key, Err: err}
	}
	return true, nil
}

// SaveJSON encodes value and stores it at key.
func SaveJSON(ctx context.Context, s Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.Save(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
