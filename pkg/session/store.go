package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/errors"
)

// Store saves sessions in a cache backend.
type Store struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewStore creates a store. A nil keyer uses cache.DefaultKeyer.
func NewStore(c cache.Cache, k cache.Keyer) *Store {
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &Store{cache: c, keyer: k}
}

// Get loads a session. Unknown and expired sessions are SESSION_NOT_FOUND
// errors; malformed ids are INVALID_INPUT errors.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, ok, err := s.cache.Get(ctx, s.keyer.SessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if sess.IsExpired() {
		_ = s.cache.Delete(ctx, s.keyer.SessionKey(id))
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s expired", id)
	}
	return &sess, nil
}

// Save stores sess until its expiry time.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if err := ValidateID(sess.ID); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if sess.ExpiresAt.IsZero() {
		ttl = DefaultTTL
	}
	if ttl <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "session %s already expired", sess.ID)
	}
	return s.cache.Set(ctx, s.keyer.SessionKey(sess.ID), data, ttl)
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.keyer.SessionKey(id))
}

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid session id %q", id)
	}
	return nil
}
