package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/generation"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/website"
)

// DefaultStaleAfter bounds how long a session may stay "loading" before a
// new generation is allowed anyway.
const DefaultStaleAfter = 3 * time.Minute

// finishTimeout bounds the save that ends a generation. It runs detached from
// the request so a disconnected client cannot leave the session loading.
const finishTimeout = 5 * time.Second

// ErrNoContext is returned when "generate more" has no business context to
// work from.
var ErrNoContext = fmt.Errorf("%w: no business context for this session", domain.ErrInvalidInput)

// WebsiteExtractor fetches data about a business website.
type WebsiteExtractor interface {
	Extract(ctx context.Context, url string) (*domain.WebsiteData, error)
}

// ManagerOptions tunes a Manager.
type ManagerOptions struct {
	StaleAfter time.Duration
	Now        func() time.Time
}

// Manager runs store operations against persisted sessions.
// Each operation loads the session, applies one store operation and saves
// it back. Generations are split in two phases so the model call never runs
// under the manager lock.
type Manager struct {
	repo Repository
	gen  generation.Generator
	site WebsiteExtractor
	log  logger.Logger

	staleAfter time.Duration
	now        func() time.Time

	mu sync.Mutex
}

// NewManager wires a Manager. site may be nil.
func NewManager(repo Repository, gen generation.Generator, site WebsiteExtractor, log logger.Logger, opts ManagerOptions) *Manager {
	m := &Manager{
		repo:       repo,
		gen:        gen,
		site:       site,
		log:        log,
		staleAfter: opts.StaleAfter,
		now:        opts.Now,
	}
	if m.staleAfter <= 0 {
		m.staleAfter = DefaultStaleAfter
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Repository exposes the backing repository (readiness checks, sweeping).
func (m *Manager) Repository() Repository { return m.repo }

// Create starts an empty session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:        NewID(),
		State:     NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.repo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.log.Debug("session created", logger.String("session_id", s.ID))
	return s, nil
}

// Get loads a session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.repo.Get(ctx, id)
}

// Delete drops a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.repo.Get(ctx, id); err != nil {
		return err
	}
	return m.repo.Delete(ctx, id)
}

// update runs fn on a store built from the session and saves the result.
func (m *Manager) update(ctx context.Context, id string, fn func(s *Session, st *Store) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	st := newStore(m.gen, s.State, m.now)
	if err := fn(s, st); err != nil {
		return nil, err
	}
	s.State = st.State()
	s.UpdatedAt = m.now()

	if err := m.repo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Generate replaces the session's ideas with a fresh batch for bc.
// The returned session carries either the new ideas or State.Error.
func (m *Manager) Generate(ctx context.Context, id string, bc domain.BusinessContext) (*Session, error) {
	return m.generate(ctx, id, ModeReplace, bc, nil)
}

// GenerateMore appends ideas seeded with likedTitles. A nil bc falls back to
// the session's last context; empty likedTitles fall back to the bookmarked
// titles. With nothing liked at all it runs a fresh generation instead.
func (m *Manager) GenerateMore(ctx context.Context, id string, bc *domain.BusinessContext, likedTitles []string) (*Session, error) {
	s, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var input domain.BusinessContext
	switch {
	case bc != nil:
		input = *bc
	case s.Context != nil:
		input = *s.Context
	default:
		return nil, ErrNoContext
	}

	liked := cleanTitles(likedTitles)
	if len(liked) == 0 {
		liked = s.State.LikedTitles()
	}
	if len(liked) == 0 {
		m.log.Debug("nothing liked, running a fresh generation", logger.String("session_id", id))
		return m.generate(ctx, id, ModeReplace, input, nil)
	}
	return m.generate(ctx, id, ModeAppend, input, liked)
}

func (m *Manager) generate(ctx context.Context, id string, mode Mode, bc domain.BusinessContext, liked []string) (*Session, error) {
	var leadAllowed bool

	_, err := m.update(ctx, id, func(s *Session, st *Store) error {
		if s.State.Loading && m.now().Sub(s.LoadingSince) >= m.staleAfter {
			m.log.Warn("clearing abandoned generation", logger.String("session_id", id))
			st.Apply(mode, domain.Failed(errors.New("previous generation was abandoned")))
		}
		if st.State().Loading {
			return ErrBusy
		}
		st.Begin()
		s.LoadingSince = m.now()
		leadAllowed = !s.LeadCaptured
		return nil
	})
	if err != nil {
		return nil, err
	}

	input := bc
	if !leadAllowed || mode == ModeAppend {
		input = input.WithoutLead()
	}
	input = m.augment(ctx, input)

	var res domain.GenerationResult
	if mode == ModeAppend {
		res = m.gen.GenerateMore(ctx, input, liked)
	} else {
		res = m.gen.Generate(ctx, input)
	}

	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()

	return m.update(finishCtx, id, func(s *Session, st *Store) error {
		st.Apply(mode, res)
		s.LoadingSince = time.Time{}
		if mode == ModeReplace && input.HasLead() {
			s.LeadCaptured = true
		}
		stored := bc.WithoutLead()
		s.Context = &stored
		return nil
	})
}

// augment appends extracted website data to the audience context.
// Extraction failures are logged and the original context is used.
func (m *Manager) augment(ctx context.Context, bc domain.BusinessContext) domain.BusinessContext {
	if m.site == nil || strings.TrimSpace(bc.WebsiteURL) == "" {
		return bc
	}
	data, err := m.site.Extract(ctx, bc.WebsiteURL)
	if err != nil {
		m.log.Warn("website extraction failed", logger.String("url", bc.WebsiteURL), logger.Error(err))
		return bc
	}
	return bc.WithAdditionalContext(website.FormatForPrompt(data))
}

// ToggleBookmark flips one idea's bookmark flag.
func (m *Manager) ToggleBookmark(ctx context.Context, id, ideaID string) (*Session, error) {
	return m.update(ctx, id, func(_ *Session, st *Store) error {
		st.ToggleBookmark(ideaID)
		return nil
	})
}

// ClearBookmarks unsets every bookmark flag.
func (m *Manager) ClearBookmarks(ctx context.Context, id string) (*Session, error) {
	return m.update(ctx, id, func(_ *Session, st *Store) error {
		st.ClearAllBookmarks()
		return nil
	})
}

// CommitGroup moves the bookmarked ideas into a new group. The returned
// group is nil when nothing was bookmarked.
func (m *Manager) CommitGroup(ctx context.Context, id, name string) (*Session, *domain.BookmarkGroup, error) {
	var created *domain.BookmarkGroup
	s, err := m.update(ctx, id, func(_ *Session, st *Store) error {
		if g, ok := st.CommitBookmarkGroup(strings.TrimSpace(name)); ok {
			created = &g
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return s, created, nil
}

// DeleteGroup removes a bookmark group.
func (m *Manager) DeleteGroup(ctx context.Context, id, groupID string) (*Session, error) {
	return m.update(ctx, id, func(_ *Session, st *Store) error {
		if !st.DeleteBookmarkGroup(groupID) {
			return ErrGroupNotFound
		}
		return nil
	})
}

// Export renders the bookmarked ideas, or a group's ideas when groupID is set.
func (m *Manager) Export(ctx context.Context, id, groupID string) (Export, error) {
	s, err := m.repo.Get(ctx, id)
	if err != nil {
		return Export{}, err
	}

	ideas := s.State.Bookmarked()
	if groupID != "" {
		g, ok := s.State.Group(groupID)
		if !ok {
			return Export{}, ErrGroupNotFound
		}
		ideas = g.Ideas
	}
	return newStore(m.gen, s.State, m.now).ExportSelection(ideas), nil
}

func cleanTitles(titles []string) []string {
	var out []string
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
