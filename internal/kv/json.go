package kv

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt marks a stored value that exists but does not decode into its
// expected shape. Every malformed-blob case collapses into this one variant so
// callers can match with errors.Is.
var ErrCorrupt = errors.New("corrupt stored value")

// GetJSON reads and decodes the value for key into T. The second return value
// reports whether the key exists; a key that exists but fails to decode
// returns (zero, true, err) with err wrapping ErrCorrupt.
func GetJSON[T any](s Store, key string) (T, bool, error) {
	var zero T
	raw, ok, err := s.Get(key)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return zero, true, fmt.Errorf("%w: %q: %v", ErrCorrupt, key, err)
	}
	return v, true, nil
}

// SetJSON encodes v and writes it under key.
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return s.Set(key, string(data))
}
