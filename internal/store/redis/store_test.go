package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/session"
)

// newTestStore connects to IDEAS_TEST_REDIS_ADDR, skipping when unset.
func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	addr := os.Getenv("IDEAS_TEST_REDIS_ADDR")
	if addr == "" || testing.Short() {
		t.Skip("IDEAS_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	return NewStore(client, ttl)
}

func TestStoreSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, time.Minute)

	sess := &session.Session{
		ID:        "s1",
		State:     session.NewState().ReplaceIdeas([]domain.Idea{{ID: "1", Title: "T", Category: "General"}}),
		Context:   &domain.BusinessContext{BusinessName: "Acme"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := st.Save(ctx, sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := st.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.State.Ideas[0].Title != "T" || got.Context.BusinessName != "Acme" {
		t.Errorf("session = %+v", got)
	}

	if n, _ := st.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
	if err := st.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := st.Get(ctx, "s1"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStoreSweepPrunesExpiredIDs(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, time.Minute)

	_ = st.Save(ctx, &session.Session{ID: "alive"})
	_ = st.Save(ctx, &session.Session{ID: "gone"})
	if err := st.client.Del(ctx, SessionKey("gone")).Err(); err != nil {
		t.Fatal(err)
	}

	removed, err := st.Sweep(ctx, time.Now())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if n, _ := st.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}
