package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/generation"
	"github.com/MrSnakeDoc/contentideas/internal/metrics"
)

var (
	// ErrBusy is returned by Manager when a generation is already in flight.
	ErrBusy = errors.New("a generation is already in progress")

	// ErrNotFound is returned for unknown sessions.
	ErrNotFound = errors.New("session not found")

	// ErrGroupNotFound is returned for unknown bookmark groups.
	ErrGroupNotFound = errors.New("bookmark group not found")
)

// Mode selects how a successful result is merged into the active list.
type Mode int

const (
	ModeReplace Mode = iota
	ModeAppend
)

func (m Mode) failureMessage() string {
	if m == ModeAppend {
		return "Failed to generate more ideas"
	}
	return "Failed to generate ideas"
}

// applyResult folds a generation result into s. A successful empty batch
// is not an error: replace clears the list, append leaves it unchanged.
func applyResult(s State, mode Mode, res domain.GenerationResult, now time.Time) State {
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = mode.failureMessage()
		}
		return s.FailRequest(msg)
	}

	fresh := reidentify(res.Ideas, now)
	if mode == ModeAppend {
		return s.AppendIdeas(fresh)
	}
	return s.ReplaceIdeas(fresh)
}

// Store owns one State and runs generations against a Generator.
// State reads and writes are serialized; the generator call itself runs
// without holding the lock, so bookmarks can change while a request is in
// flight.
type Store struct {
	mu    sync.Mutex
	state State
	gen   generation.Generator
	now   func() time.Time
}

// NewStore creates a store seeded with initial.
func NewStore(gen generation.Generator, initial State) *Store {
	return newStore(gen, initial, time.Now)
}

func newStore(gen generation.Generator, initial State, now func() time.Time) *Store {
	return &Store{state: initial.clone(), gen: gen, now: now}
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Begin marks a request as in flight. The store does not reject overlapping
// requests; callers that need that check Loading first (see Manager).
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.BeginRequest()
}

// Apply ends the in-flight request with res.
func (s *Store) Apply(mode Mode, res domain.GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = applyResult(s.state, mode, res, s.now())
}

// RequestGeneration replaces the active list with a fresh batch. A failed
// generation keeps the list and records the error in the state.
func (s *Store) RequestGeneration(ctx context.Context, bc domain.BusinessContext) error {
	s.Begin()
	s.Apply(ModeReplace, s.gen.Generate(ctx, bc))
	return nil
}

// RequestContinuation appends a batch seeded with likedTitles.
func (s *Store) RequestContinuation(ctx context.Context, bc domain.BusinessContext, likedTitles []string) error {
	s.Begin()
	s.Apply(ModeAppend, s.gen.GenerateMore(ctx, bc, likedTitles))
	return nil
}

// ToggleBookmark flips the bookmark flag of one idea.
func (s *Store) ToggleBookmark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ToggleBookmark(id)
}

// ClearAllBookmarks unsets every bookmark flag.
func (s *Store) ClearAllBookmarks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ClearBookmarks()
}

// CommitBookmarkGroup moves the bookmarked ideas into a new named group.
// It returns false when nothing is bookmarked.
func (s *Store) CommitBookmarkGroup(name string) (domain.BookmarkGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, group, ok := s.state.CommitGroup(NewID(), name, s.now())
	if !ok {
		return domain.BookmarkGroup{}, false
	}
	s.state = next
	metrics.BookmarkGroupsCreatedTotal.Inc()
	return group, true
}

// DeleteBookmarkGroup removes a group by id.
func (s *Store) DeleteBookmarkGroup(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.state.DeleteGroup(id)
	s.state = next
	return ok
}

// LikedTitles returns the titles of the currently bookmarked ideas.
func (s *Store) LikedTitles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LikedTitles()
}

// ExportSelection renders ideas as a dated plain-text artifact.
func (s *Store) ExportSelection(ideas []domain.Idea) Export {
	metrics.ExportsTotal.Inc()
	return ExportSelection(ideas, s.now())
}
