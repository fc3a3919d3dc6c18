package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/session"
)

type mixRecorder struct {
	mu   sync.Mutex
	mixs []domain.ContentMix
}

func (m *mixRecorder) SetMix(c domain.ContentMix) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mixs = append(m.mixs, c)
}

func (m *mixRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mixs)
}

const validMix = `categories:
  - label: Only
    description: everything
    range: "15"
`

func TestSessionSweeper_Sweep(t *testing.T) {
	log := logger.New("error", false)
	repo := session.NewMemoryRepository(time.Hour)
	ctx := context.Background()

	now := time.Now()
	_ = repo.Save(ctx, &session.Session{ID: "active", UpdatedAt: now})
	_ = repo.Save(ctx, &session.Session{ID: "idle", UpdatedAt: now.Add(-3 * time.Hour)})

	sw := NewSessionSweeper(repo, log, time.Hour)
	removed, err := sw.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := repo.Get(ctx, "active"); err != nil {
		t.Error("Active session was incorrectly removed")
	}
}

func TestMixReloader_Reload(t *testing.T) {
	log := logger.New("error", false)
	path := filepath.Join(t.TempDir(), "mix.yaml")
	if err := os.WriteFile(path, []byte(validMix), 0o644); err != nil {
		t.Fatal(err)
	}

	target := &mixRecorder{}
	r := NewMixReloader(path, target, log, 0, nil)

	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if target.count() != 1 || target.mixs[0].Categories[0].Label != "Only" {
		t.Fatalf("target received %+v", target.mixs)
	}

	// a broken file keeps the previous mix and reports the error
	if err := os.WriteFile(path, []byte("categories: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(context.Background()); err == nil {
		t.Error("Reload of broken file should fail")
	}
	if target.count() != 1 {
		t.Error("broken file should not replace the mix")
	}
	if _, lastErr := r.Status(); lastErr == nil {
		t.Error("Status() should report the last error")
	}
}

func TestMixReloader_WithoutFile(t *testing.T) {
	target := &mixRecorder{}
	r := NewMixReloader("", target, logger.NewNop(), time.Minute, nil)

	if r.Enabled() {
		t.Fatal("Enabled() = true without a file")
	}
	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload without file failed: %v", err)
	}
	if target.count() != 0 {
		t.Error("no mix should be pushed without a file")
	}
}

func TestMixReloader_ManualTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.yaml")
	if err := os.WriteFile(path, []byte(validMix), 0o644); err != nil {
		t.Fatal(err)
	}

	trigger := make(chan struct{}, 1)
	target := &mixRecorder{}
	r := NewMixReloader(path, target, logger.NewNop(), time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer r.Stop()

	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for target.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("manual trigger not handled, %d loads", target.count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMixReloader_StartFailsOnBadFile(t *testing.T) {
	r := NewMixReloader("/nonexistent/mix.yaml", &mixRecorder{}, logger.NewNop(), time.Hour, nil)
	if err := r.Start(context.Background()); err == nil {
		t.Error("Start should fail when the configured file is missing")
	}
}
