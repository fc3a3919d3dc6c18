package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/metrics"
	"github.com/MrSnakeDoc/contentideas/internal/session"
)

// DefaultSweepInterval is used when no interval is configured.
const DefaultSweepInterval = 10 * time.Minute

// SessionSweeper periodically drops idle sessions and refreshes the
// active-session gauge.
type SessionSweeper struct {
	repo     session.Repository
	logger   logger.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

func NewSessionSweeper(repo session.Repository, log logger.Logger, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SessionSweeper{
		repo:     repo,
		logger:   log,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start sweeps once, then on every tick until Stop or ctx is done.
func (s *SessionSweeper) Start(ctx context.Context) error {
	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Warn("initial session sweep failed", logger.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil {
					s.logger.Error("session sweep failed", logger.Error(err))
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (s *SessionSweeper) Stop() {
	close(s.stopCh)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	removed, err := s.repo.Sweep(ctx, s.now())
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Info("idle sessions swept", logger.Int("removed", removed))
	} else {
		s.logger.Debug("no idle sessions to sweep")
	}

	if n, err := s.repo.Count(ctx); err == nil {
		metrics.ActiveSessions.Set(float64(n))
	}
	return removed, nil
}
