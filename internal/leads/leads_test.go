package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
)

func TestDataCenter(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"abc123-us21", "us21"},
		{"abc123", "us10"},
		{"abc123-", "us10"},
		{"", "us10"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := DataCenter(tt.key); got != tt.want {
				t.Errorf("DataCenter(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		wantFirst string
		wantLast  string
	}{
		{"Jane", "Jane", ""},
		{"Jane Doe", "Jane", "Doe"},
		{"  Mary Ann Smith ", "Mary", "Ann Smith"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.name)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tt.name, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestMailchimpSubscribe(t *testing.T) {
	var got member
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lists/list-1/members" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key-us5" {
			t.Errorf("Authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	m := NewMailchimp(MailchimpOptions{APIKey: "key-us5", ListID: "list-1", BaseURL: ts.URL})
	if err := m.Subscribe(context.Background(), "Jane Doe", "jane@example.com"); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if got.EmailAddress != "jane@example.com" || got.Status != "subscribed" {
		t.Errorf("member = %+v", got)
	}
	if got.MergeFields["FNAME"] != "Jane" || got.MergeFields["LNAME"] != "Doe" {
		t.Errorf("merge fields = %+v", got.MergeFields)
	}
	if len(got.Tags) != 1 || got.Tags[0] != DefaultTag {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestMailchimpErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"member exists", http.StatusBadRequest, `{"title":"Member Exists","detail":"already a list member"}`, false},
		{"invalid resource", http.StatusBadRequest, `{"title":"Invalid Resource","detail":"bad email"}`, true},
		{"server error", http.StatusInternalServerError, `not json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			m := NewMailchimp(MailchimpOptions{APIKey: "k", ListID: "l", BaseURL: ts.URL})
			err := m.Subscribe(context.Background(), "Jane", "jane@example.com")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Subscribe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrSideEffect) {
				t.Errorf("error %v should wrap ErrSideEffect", err)
			}
		})
	}
}

func TestMailchimpUnconfiguredIsNoop(t *testing.T) {
	m := NewMailchimp(MailchimpOptions{APIKey: "k"})
	if m.Enabled() {
		t.Fatal("Enabled() = true without a list id")
	}
	if err := m.Subscribe(context.Background(), "Jane", "jane@example.com"); err != nil {
		t.Errorf("Subscribe() error = %v, want nil", err)
	}
}

func TestWebhookPost(t *testing.T) {
	var got Record
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	bc := domain.BusinessContext{
		BusinessName:         "Acme",
		WebsiteURL:           "https://acme.test",
		ICA:                  "founders",
		Services:             "coaching",
		KeyTransformation:    "a to b",
		TopPerformingContent: "Top post",
		AdditionalContext:    "extra",
		UserName:             "Jane",
		UserEmail:            "jane@example.com",
	}
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := NewWebhook(ts.URL, nil).Post(context.Background(), NewRecord(bc, at)); err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	want := Record{
		Timestamp:                 "2025-01-02T03:04:05.000Z",
		Name:                      "Jane",
		Email:                     "jane@example.com",
		BusinessName:              "Acme",
		WebsiteURL:                "https://acme.test",
		ICA:                       "founders",
		Services:                  "coaching",
		KeyTransformation:         "a to b",
		AudienceContext:           "extra",
		TopPerformingContentTitle: "Top post",
	}
	if got != want {
		t.Errorf("record = %+v, want %+v", got, want)
	}
}

func TestWebhookNon2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	err := NewWebhook(ts.URL, nil).Post(context.Background(), Record{})
	if !errors.Is(err, domain.ErrSideEffect) {
		t.Fatalf("Post() error = %v, want ErrSideEffect", err)
	}
}

func TestCapturerFiresBothTargets(t *testing.T) {
	var mailchimpHits, webhookHits atomic.Int32

	mc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mailchimpHits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer mc.Close()
	wh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookHits.Add(1)
	}))
	defer wh.Close()

	c := NewCapturer(
		NewMailchimp(MailchimpOptions{APIKey: "k", ListID: "l", BaseURL: mc.URL}),
		NewWebhook(wh.URL, nil),
		logger.NewNop(),
		time.Second,
	)

	c.Capture(domain.BusinessContext{UserName: "Jane", UserEmail: "jane@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if mailchimpHits.Load() != 1 || webhookHits.Load() != 1 {
		t.Errorf("hits = mailchimp %d, webhook %d, want 1 each", mailchimpHits.Load(), webhookHits.Load())
	}
}

func TestCapturerIgnoresIncompleteLead(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()

	c := NewCapturer(nil, NewWebhook(ts.URL, nil), logger.NewNop(), time.Second)
	c.Capture(domain.BusinessContext{UserEmail: "jane@example.com"})

	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("webhook hit %d times, want 0", hits.Load())
	}
}

func TestCapturerDoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer once.Do(func() { close(release) })

	c := NewCapturer(nil, NewWebhook(ts.URL, nil), logger.NewNop(), 5*time.Second)

	start := time.Now()
	c.Capture(domain.BusinessContext{UserName: "Jane", UserEmail: "jane@example.com"})
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("Capture() blocked the caller")
	}

	once.Do(func() { close(release) })
	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}
