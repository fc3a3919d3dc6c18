package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/utils"
)

// Record is the flat row posted to the lead-logging webhook.
type Record struct {
	Timestamp                 string `json:"timestamp"`
	Name                      string `json:"name"`
	Email                     string `json:"email"`
	BusinessName              string `json:"businessName"`
	WebsiteURL                string `json:"websiteUrl"`
	ICA                       string `json:"ica"`
	Services                  string `json:"services"`
	KeyTransformation         string `json:"keyTransformation"`
	AudienceContext           string `json:"audienceContext"`
	TopPerformingContentTitle string `json:"topPerformingContentTitle"`
}

// NewRecord flattens a business context into a webhook row.
func NewRecord(c domain.BusinessContext, at time.Time) Record {
	return Record{
		Timestamp:                 at.UTC().Format("2006-01-02T15:04:05.000Z"),
		Name:                      c.UserName,
		Email:                     c.UserEmail,
		BusinessName:              c.BusinessName,
		WebsiteURL:                c.WebsiteURL,
		ICA:                       c.ICA,
		Services:                  c.Services,
		KeyTransformation:         c.KeyTransformation,
		AudienceContext:           c.AdditionalContext,
		TopPerformingContentTitle: c.TopPerformingContent,
	}
}

// Webhook posts lead records to a URL (e.g. a spreadsheet script).
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Webhook{url: url, client: client}
}

// Enabled reports whether a URL is configured.
func (w *Webhook) Enabled() bool {
	return w != nil && w.url != ""
}

// Post sends rec. Non-2xx responses are errors. Unconfigured hooks do nothing.
func (w *Webhook) Post(ctx context.Context, rec Record) error {
	if !w.Enabled() {
		return nil
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: webhook encode: %v", domain.ErrSideEffect, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: webhook request: %v", domain.ErrSideEffect, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: webhook: %v", domain.ErrSideEffect, err)
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: webhook status %d", domain.ErrSideEffect, resp.StatusCode)
	}
	return nil
}
