package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/utils"
)

const (
	defaultDataCenter = "us10"
	DefaultTag        = "Content Ideas Generator"
	memberExists      = "Member Exists"
)

// MailchimpOptions configures the mailing-list client.
type MailchimpOptions struct {
	APIKey string
	ListID string
	Tag    string
	// BaseURL overrides https://<dc>.api.mailchimp.com/3.0 (tests).
	BaseURL    string
	HTTPClient *http.Client
}

// Mailchimp subscribes leads to a Mailchimp audience.
type Mailchimp struct {
	apiKey  string
	listID  string
	tag     string
	baseURL string
	client  *http.Client
}

func NewMailchimp(opts MailchimpOptions) *Mailchimp {
	m := &Mailchimp{
		apiKey:  opts.APIKey,
		listID:  opts.ListID,
		tag:     opts.Tag,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  opts.HTTPClient,
	}
	if m.tag == "" {
		m.tag = DefaultTag
	}
	if m.baseURL == "" {
		m.baseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", DataCenter(opts.APIKey))
	}
	if m.client == nil {
		m.client = &http.Client{Timeout: 10 * time.Second}
	}
	return m
}

// Enabled reports whether both an API key and a list ID are configured.
func (m *Mailchimp) Enabled() bool {
	return m != nil && m.apiKey != "" && m.listID != ""
}

// DataCenter extracts the data center from an API key of the form "xxxx-us10".
func DataCenter(apiKey string) string {
	parts := strings.Split(apiKey, "-")
	if len(parts) > 1 && parts[1] != "" {
		return parts[1]
	}
	return defaultDataCenter
}

// SplitName splits a full name on the first space.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	first, last, _ = strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

type member struct {
	EmailAddress string            `json:"email_address"`
	Status       string            `json:"status"`
	MergeFields  map[string]string `json:"merge_fields"`
	Tags         []string          `json:"tags"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Subscribe adds email to the list. An already-subscribed member counts as
// success. Unconfigured clients do nothing.
func (m *Mailchimp) Subscribe(ctx context.Context, name, email string) error {
	if !m.Enabled() {
		return nil
	}

	first, last := SplitName(name)
	body, err := json.Marshal(member{
		EmailAddress: email,
		Status:       "subscribed",
		MergeFields:  map[string]string{"FNAME": first, "LNAME": last},
		Tags:         []string{m.tag},
	})
	if err != nil {
		return fmt.Errorf("%w: mailchimp encode: %v", domain.ErrSideEffect, err)
	}

	url := fmt.Sprintf("%s/lists/%s/members", m.baseURL, m.listID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: mailchimp request: %v", domain.ErrSideEffect, err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: mailchimp: %v", domain.ErrSideEffect, err)
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var apiErr apiError
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Title == memberExists {
		return nil
	}
	return fmt.Errorf("%w: mailchimp status %d: %s", domain.ErrSideEffect, resp.StatusCode, strings.TrimSpace(apiErr.Detail))
}
