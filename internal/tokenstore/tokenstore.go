// ABOUTME: Durable storage for the session token and user profile
// ABOUTME: Thin typed layer over a key/value backend, no session policy

package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys used for the two session fields
const (
	KeyToken = "auth_token"
	KeyUser  = "auth_user"
)

// KV is a secure key/value backend.
// Get reports ok=false for absent keys; Remove of an absent key succeeds.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// StorageFailure wraps a backend error for one key
type StorageFailure struct {
	Op  string
	Key string
	Err error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("token storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageFailure) Unwrap() error {
	return e.Err
}

// Store persists the session token and user profile
type Store struct {
	kv KV
}

// New creates a Store over the given backend
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// LoadToken returns the stored token, or ok=false if none is stored
func (s *Store) LoadToken(ctx context.Context) (string, bool, error) {
	token, ok, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return "", false, &StorageFailure{Op: "get", Key: KeyToken, Err: err}
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// SaveToken stores the token
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, KeyToken, token); err != nil {
		return &StorageFailure{Op: "set", Key: KeyToken, Err: err}
	}
	return nil
}

// LoadUser decodes the stored user profile into v.
// A corrupt entry is reported as absent.
func (s *Store) LoadUser(ctx context.Context, v interface{}) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return false, &StorageFailure{Op: "get", Key: KeyUser, Err: err}
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, nil
	}
	return true, nil
}

// SaveUser encodes v as JSON and stores it
func (s *Store) SaveUser(ctx context.Context, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StorageFailure{Op: "set", Key: KeyUser, Err: err}
	}
	if err := s.kv.Set(ctx, KeyUser, string(data)); err != nil {
		return &StorageFailure{Op: "set", Key: KeyUser, Err: err}
	}
	return nil
}

// Clear removes both entries. Each removal is attempted even if the other fails;
// the returned error joins every failure.
func (s *Store) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyToken, KeyUser} {
		if err := s.kv.Remove(ctx, key); err != nil {
			errs = append(errs, &StorageFailure{Op: "remove", Key: key, Err: err})
		}
	}
	return errors.Join(errs...)
}
