// internal/domain/draft/service.go
package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/pos-backend/internal/domain/cart"
	redisinfra "github.com/your-org/pos-backend/internal/infrastructure/database/redis"
)

// ErrDraftNotFound is returned when no draft is parked for a session
var ErrDraftNotFound = errors.New("draft not found")

// Backend is the key-value store drafts are parked in
type Backend interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, keys ...string) error
}

// Draft is a parked cart that can be resumed later
type Draft struct {
	SessionID string          `json:"session_id"`
	Mode      cart.Mode       `json:"mode"`
	CashierID uint            `json:"cashier_id"`
	Items     []cart.LineItem `json:"items"`
	SavedAt   time.Time       `json:"saved_at"`
}

// Store parks and restores drafts
type Store struct {
	backend Backend
	ttl     time.Duration
}

// NewStore creates a draft store whose entries expire after ttl
func NewStore(backend Backend, ttl time.Duration) *Store {
	return &Store{
		backend: backend,
		ttl:     ttl,
	}
}

// Save parks the draft, replacing any earlier one for the same session
func (s *Store) Save(ctx context.Context, d *Draft) error {
	if d.SessionID == "" {
		return fmt.Errorf("draft has no session id")
	}
	if d.SavedAt.IsZero() {
		d.SavedAt = time.Now().UTC()
	}
	if d.Items == nil {
		d.Items = []cart.LineItem{}
	}

	if err := s.backend.SetJSON(ctx, Key(d.SessionID), d, s.ttl); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Load returns the parked draft for sessionID
func (s *Store) Load(ctx context.Context, sessionID string) (*Draft, error) {
	var d Draft
	err := s.backend.GetJSON(ctx, Key(sessionID), &d)
	if errors.Is(err, redisinfra.ErrKeyNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return &d, nil
}

// Delete discards the parked draft for sessionID
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.backend.Del(ctx, Key(sessionID)); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Key is the redis key a session's draft lives under
func Key(sessionID string) string {
	return "pos:draft:" + sessionID
}
