package ports

import (
	"context"
	"time"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
)

// SessionStore keeps session states keyed by ID. Implementations apply each
// Update atomically with respect to other calls for the same session.
type SessionStore interface {
	Create(ctx context.Context, s domain.SessionState) error
	Get(ctx context.Context, id string) (domain.SessionState, error)
	Update(ctx context.Context, id string, fn func(*domain.SessionState) error) (domain.SessionState, error)
	Delete(ctx context.Context, id string) error
	// Sweep removes sessions not updated since before and reports how many.
	Sweep(ctx context.Context, before time.Time) int
}
