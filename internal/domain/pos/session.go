// internal/domain/pos/session.go
package pos

import (
	"sync"
	"time"

	"github.com/your-org/pos-backend/internal/domain/cart"
)

// Session is one till's open cart. The cart engine is single-threaded, so
// every access goes through Do.
type Session struct {
	ID        string
	Mode      cart.Mode
	CashierID uint
	CreatedAt time.Time

	mu          sync.Mutex
	cart        *cart.Service
	lastUsed    time.Time
	unsubscribe func()
}

// Snapshot is a read-only view of a session for responses
type Snapshot struct {
	ID        string          `json:"id"`
	Mode      cart.Mode       `json:"mode"`
	CashierID uint            `json:"cashier_id"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []cart.LineItem `json:"items"`
	Totals    cart.Totals     `json:"totals"`
}

// Do runs fn with exclusive access to the session cart
func (s *Session) Do(fn func(c *cart.Service) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = time.Now()
	return fn(s.cart)
}

// Snapshot captures the current items and totals
func (s *Session) Snapshot() Snapshot {
	var snap Snapshot
	_ = s.Do(func(c *cart.Service) error {
		snap = Snapshot{
			ID:        s.ID,
			Mode:      s.Mode,
			CashierID: s.CashierID,
			CreatedAt: s.CreatedAt,
			Items:     c.Items(),
			Totals:    c.Totals(),
		}
		return nil
	})
	return snap
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}
