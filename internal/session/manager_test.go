package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
)

type stubExtractor struct {
	data *domain.WebsiteData
	err  error
	urls []string
}

func (e *stubExtractor) Extract(_ context.Context, url string) (*domain.WebsiteData, error) {
	e.urls = append(e.urls, url)
	return e.data, e.err
}

func newTestManager(gen *stubGenerator, site WebsiteExtractor) *Manager {
	return NewManager(NewMemoryRepository(time.Hour), gen, site, logger.NewNop(), ManagerOptions{})
}

func leadContext() domain.BusinessContext {
	bc := testContext()
	bc.UserName = "Jane Doe"
	bc.UserEmail = "jane@example.com"
	return bc
}

func TestManagerGenerateAndUnknownSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(&stubGenerator{}, nil)

	if _, err := m.Generate(ctx, "missing", testContext()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Generate(missing) error = %v, want ErrNotFound", err)
	}

	s, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	s, err = m.Generate(ctx, s.ID, testContext())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(s.State.Ideas) != domain.InitialIdeaCount || s.State.Loading {
		t.Errorf("state = %d ideas, loading %v", len(s.State.Ideas), s.State.Loading)
	}
	if s.Context == nil || s.Context.BusinessName != "Acme" {
		t.Errorf("context not stored: %+v", s.Context)
	}
}

func TestManagerSendsLeadOnlyOnce(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{}
	m := newTestManager(gen, nil)
	s, _ := m.Create(ctx)

	if _, err := m.Generate(ctx, s.ID, leadContext()); err != nil {
		t.Fatal(err)
	}
	s, err := m.Generate(ctx, s.ID, leadContext())
	if err != nil {
		t.Fatal(err)
	}

	calls := gen.Calls()
	if len(calls) != 2 {
		t.Fatalf("generator called %d times, want 2", len(calls))
	}
	if !calls[0].bc.HasLead() {
		t.Error("first generation should carry the lead")
	}
	if calls[1].bc.HasLead() {
		t.Error("second generation must not carry the lead")
	}
	if !s.LeadCaptured {
		t.Error("LeadCaptured not set")
	}
	if s.Context.HasLead() {
		t.Error("stored context should not keep the lead")
	}
}

func TestManagerRejectsConcurrentGeneration(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{block: make(chan struct{}), started: make(chan struct{}, 1)}
	m := newTestManager(gen, nil)
	s, _ := m.Create(ctx)

	done := make(chan error, 1)
	go func() {
		_, err := m.Generate(ctx, s.ID, testContext())
		done <- err
	}()

	select {
	case <-gen.started:
	case <-time.After(2 * time.Second):
		t.Fatal("generation never started")
	}

	if _, err := m.Generate(ctx, s.ID, testContext()); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Generate() error = %v, want ErrBusy", err)
	}

	// bookmark operations stay available while loading
	if _, err := m.ToggleBookmark(ctx, s.ID, "whatever"); err != nil {
		t.Errorf("ToggleBookmark() during generation error = %v", err)
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
}

func TestManagerClearsAbandonedLoading(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository(time.Hour)
	m := NewManager(repo, &stubGenerator{}, nil, logger.NewNop(), ManagerOptions{
		StaleAfter: time.Minute,
		Now:        func() time.Time { return now },
	})

	_ = repo.Save(ctx, &Session{
		ID:           "s1",
		State:        NewState().BeginRequest(),
		LoadingSince: now.Add(-5 * time.Minute),
		UpdatedAt:    now,
	})

	s, err := m.Generate(ctx, "s1", testContext())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(s.State.Ideas) != domain.InitialIdeaCount {
		t.Errorf("len(ideas) = %d", len(s.State.Ideas))
	}
}

func TestManagerGenerateMore(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{}
	m := newTestManager(gen, nil)
	s, _ := m.Create(ctx)

	s, _ = m.Generate(ctx, s.ID, leadContext())
	s, _ = m.ToggleBookmark(ctx, s.ID, s.State.Ideas[2].ID)

	s, err := m.GenerateMore(ctx, s.ID, nil, nil)
	if err != nil {
		t.Fatalf("GenerateMore() error = %v", err)
	}
	if len(s.State.Ideas) != domain.InitialIdeaCount+domain.ContinuationIdeaCount {
		t.Errorf("len(ideas) = %d", len(s.State.Ideas))
	}

	last := gen.Calls()[1]
	if !last.more {
		t.Fatal("expected a continuation call")
	}
	if len(last.liked) != 1 || last.liked[0] != "Idea 3" {
		t.Errorf("liked = %v, want [Idea 3]", last.liked)
	}
	if last.bc.BusinessName != "Acme" || last.bc.HasLead() {
		t.Errorf("continuation context = %+v", last.bc)
	}
}

func TestManagerGenerateMoreWithoutLikesStartsOver(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{}
	m := newTestManager(gen, nil)
	s, _ := m.Create(ctx)
	_, _ = m.Generate(ctx, s.ID, testContext())

	s, err := m.GenerateMore(ctx, s.ID, nil, []string{"  "})
	if err != nil {
		t.Fatalf("GenerateMore() error = %v", err)
	}
	if gen.Calls()[1].more {
		t.Error("expected a fresh generation")
	}
	if len(s.State.Ideas) != domain.InitialIdeaCount {
		t.Errorf("len(ideas) = %d, want %d", len(s.State.Ideas), domain.InitialIdeaCount)
	}
}

func TestManagerGenerateMoreNeedsContext(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(&stubGenerator{}, nil)
	s, _ := m.Create(ctx)

	_, err := m.GenerateMore(ctx, s.ID, nil, []string{"x"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("GenerateMore() error = %v, want ErrInvalidInput", err)
	}
}

func TestManagerWebsiteAugmentation(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		gen := &stubGenerator{}
		site := &stubExtractor{data: &domain.WebsiteData{Title: "Acme Coaching"}}
		m := newTestManager(gen, site)
		s, _ := m.Create(ctx)

		bc := testContext()
		bc.WebsiteURL = "acme.test"
		bc.AdditionalContext = "base"
		s, _ = m.Generate(ctx, s.ID, bc)

		sent := gen.Calls()[0].bc.AdditionalContext
		if !strings.HasPrefix(sent, "base\n\nExtracted Website Data:") || !strings.Contains(sent, "Acme Coaching") {
			t.Errorf("AdditionalContext = %q", sent)
		}
		if s.Context.AdditionalContext != "base" {
			t.Errorf("stored context was augmented: %q", s.Context.AdditionalContext)
		}
	})

	t.Run("failure keeps context", func(t *testing.T) {
		gen := &stubGenerator{}
		site := &stubExtractor{err: errors.New("down")}
		m := newTestManager(gen, site)
		s, _ := m.Create(ctx)

		bc := testContext()
		bc.WebsiteURL = "acme.test"
		s, err := m.Generate(ctx, s.ID, bc)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if gen.Calls()[0].bc.AdditionalContext != "" {
			t.Error("context changed despite extraction failure")
		}
		if len(s.State.Ideas) != domain.InitialIdeaCount {
			t.Error("generation did not run")
		}
	})
}

func TestManagerGroupsAndExport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	m := NewManager(NewMemoryRepository(time.Hour), &stubGenerator{}, nil, logger.NewNop(), ManagerOptions{
		Now: func() time.Time { return now },
	})
	s, _ := m.Create(ctx)
	s, _ = m.Generate(ctx, s.ID, testContext())

	s, g, err := m.CommitGroup(ctx, s.ID, "empty")
	if err != nil || g != nil {
		t.Fatalf("CommitGroup() with no bookmarks = %v, %v", g, err)
	}

	s, _ = m.ToggleBookmark(ctx, s.ID, s.State.Ideas[0].ID)
	s, _ = m.ToggleBookmark(ctx, s.ID, s.State.Ideas[1].ID)

	exp, err := m.Export(ctx, s.ID, "")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if exp.Filename != "content-ideas-2025-02-03.txt" {
		t.Errorf("Filename = %q", exp.Filename)
	}
	if !strings.HasPrefix(exp.Content, "1. Idea 1\n   Category: General\n\n2. Idea 2") {
		t.Errorf("Content = %q", exp.Content)
	}

	s, g, err = m.CommitGroup(ctx, s.ID, "  Q3 Blog Posts ")
	if err != nil || g == nil {
		t.Fatalf("CommitGroup() = %v, %v", g, err)
	}
	if g.Name != "Q3 Blog Posts" || len(g.Ideas) != 2 {
		t.Errorf("group = %+v", g)
	}
	if len(s.State.Bookmarked()) != 0 {
		t.Error("bookmarks not cleared")
	}

	exp, err = m.Export(ctx, s.ID, g.ID)
	if err != nil || !strings.HasPrefix(exp.Content, "1. Idea 1") {
		t.Errorf("group Export() = %q, %v", exp.Content, err)
	}
	if _, err := m.Export(ctx, s.ID, "nope"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("Export(nope) error = %v", err)
	}

	if _, err := m.DeleteGroup(ctx, s.ID, g.ID); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}
	if _, err := m.DeleteGroup(ctx, s.ID, g.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("second DeleteGroup() error = %v", err)
	}

	s, err = m.ClearBookmarks(ctx, s.ID)
	if err != nil || len(s.State.Bookmarked()) != 0 {
		t.Errorf("ClearBookmarks() = %v", err)
	}

	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
}

// ctxRepository fails like a network-backed store once ctx is done.
type ctxRepository struct {
	*MemoryRepository
}

func (r ctxRepository) Get(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.MemoryRepository.Get(ctx, id)
}

func (r ctxRepository) Save(ctx context.Context, s *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.MemoryRepository.Save(ctx, s)
}

// cancelingGenerator cancels the request context while the model call runs.
type cancelingGenerator struct {
	stubGenerator
	cancel context.CancelFunc
}

func (g *cancelingGenerator) Generate(ctx context.Context, bc domain.BusinessContext) domain.GenerationResult {
	g.cancel()
	return domain.Failed(ctx.Err())
}

func TestManagerClearsLoadingWhenRequestIsCancelled(t *testing.T) {
	repo := ctxRepository{NewMemoryRepository(time.Hour)}
	gen := &cancelingGenerator{}
	m := NewManager(repo, gen, nil, logger.NewNop(), ManagerOptions{})

	s, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	gen.cancel = cancel
	if _, err := m.Generate(ctx, s.ID, testContext()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := m.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.State.Loading {
		t.Error("Loading still set after a cancelled request")
	}
	if got.State.Error == "" {
		t.Error("cancelled generation should record an error")
	}

	gen.cancel = func() {}
	if _, err := m.Generate(context.Background(), s.ID, testContext()); errors.Is(err, ErrBusy) {
		t.Error("retry rejected as busy")
	}
}
