// internal/domain/pos/registry.go
package pos

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/cart"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("pos session not found")
	// ErrSessionNotOwned is returned when a cashier touches another cashier's session
	ErrSessionNotOwned = errors.New("pos session belongs to another cashier")
)

// UnitSource supplies the unit catalog new carts are built with
type UnitSource interface {
	UnitCatalog(ctx context.Context) (cart.UnitCatalog, error)
}

// Registry tracks the open POS sessions of this process
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	units    UnitSource
	cfg      config.CartConfig
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewRegistry creates an empty session registry
func NewRegistry(units UnitSource, cfg config.CartConfig, logger logrus.FieldLogger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		units:    units,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Open creates a session with an empty cart bound to mode
func (r *Registry) Open(ctx context.Context, mode cart.Mode, cashierID uint) (*Session, error) {
	return r.open(ctx, uuid.NewString(), mode, cashierID)
}

// Restore recreates a session under a known id, used when resuming a parked draft
// after the original session expired
func (r *Registry) Restore(ctx context.Context, id string, mode cart.Mode, cashierID uint) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}
	if existing, err := r.Get(id, cashierID); err == nil {
		return existing, nil
	} else if errors.Is(err, ErrSessionNotOwned) {
		return nil, err
	}
	return r.open(ctx, id, mode, cashierID)
}

func (r *Registry) open(ctx context.Context, id string, mode cart.Mode, cashierID uint) (*Session, error) {
	units, err := r.units.UnitCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit catalog: %w", err)
	}

	logger := r.logger.WithFields(logrus.Fields{
		"session_id": id,
		"cashier_id": cashierID,
	})

	svc, err := cart.NewService(mode, units,
		cart.WithLogger(logger),
		cart.WithStrictUnits(r.cfg.StrictUnitFactors),
	)
	if err != nil {
		return nil, err
	}

	now := r.now()
	session := &Session{
		ID:        id,
		Mode:      mode,
		CashierID: cashierID,
		CreatedAt: now.UTC(),
		cart:      svc,
		lastUsed:  now,
	}
	session.unsubscribe = svc.Subscribe(AuditListener(logger))

	// A concurrent Restore may have registered the id while the catalog loaded
	r.mu.Lock()
	if existing, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		session.close()
		if existing.CashierID != cashierID {
			return nil, ErrSessionNotOwned
		}
		return existing, nil
	}
	r.sessions[id] = session
	r.mu.Unlock()

	logger.WithField("mode", string(mode)).Info("POS session opened")
	return session, nil
}

// Get returns the session if it exists and belongs to cashierID
func (r *Registry) Get(id string, cashierID uint) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.CashierID != cashierID {
		return nil, ErrSessionNotOwned
	}
	return session, nil
}

// Close discards a session and its cart
func (r *Registry) Close(id string, cashierID uint) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	if session.CashierID != cashierID {
		r.mu.Unlock()
		return ErrSessionNotOwned
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	session.close()
	r.logger.WithField("session_id", id).Info("POS session closed")
	return nil
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the configured TTL
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.RLock()
	var expired []*Session
	for _, session := range r.sessions {
		if session.idleSince(now) > r.cfg.SessionIdleTTL {
			expired = append(expired, session)
		}
	}
	r.mu.RUnlock()

	removed := 0
	for _, session := range expired {
		r.mu.Lock()
		current, ok := r.sessions[session.ID]
		if ok && current == session && session.idleSince(now) > r.cfg.SessionIdleTTL {
			delete(r.sessions, session.ID)
			removed++
		} else {
			ok = false
		}
		r.mu.Unlock()

		if ok {
			session.close()
		}
	}

	if removed > 0 {
		r.logger.WithField("expired", removed).Info("Expired idle POS sessions")
	}
	return removed
}

// Run sweeps idle sessions until ctx is cancelled
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
