package session

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

// Session is the server-side record of one user's work.
type Session struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	// Context is the last business context used, stored without the lead.
	Context *domain.BusinessContext `json:"context,omitempty"`

	// LeadCaptured is set once a generation carried name and email, so
	// later generations of the same session never resend them.
	LeadCaptured bool `json:"leadCaptured"`

	// LoadingSince lets an abandoned in-flight flag expire.
	LoadingSince time.Time `json:"loadingSince,omitzero"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.State = s.State.clone()
	if s.Context != nil {
		c := *s.Context
		out.Context = &c
	}
	return &out
}

// Repository persists sessions.
type Repository interface {
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// Sweep drops sessions idle since before now minus the repository TTL
	// and reports how many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
	Ping(ctx context.Context) error
}
