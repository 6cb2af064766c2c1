package health

import (
	"context"
	"time"
)

// Pinger checks a backing dependency.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB      Pinger
	Timeout time.Duration
}

// NewService constructs a new health service. db may be nil in memory mode.
func NewService(db Pinger) *Service {
	return &Service{DB: db, Timeout: 2 * time.Second}
}

// Status reports overall health and the database state (up, down or memory).
func (s *Service) Status(ctx context.Context) (bool, map[string]any) {
	if s.DB == nil {
		return true, map[string]any{"ok": true, "database": "memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return false, map[string]any{"ok": false, "database": "down"}
	}
	return true, map[string]any{"ok": true, "database": "up"}
}
