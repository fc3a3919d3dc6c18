package website

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/utils"
)

const (
	DefaultMetadataURL = "https://api.microlink.io/data"
	DefaultReaderURL   = "https://r.jina.ai/"

	// MaxExcerptChars caps the page text injected into prompts.
	MaxExcerptChars = 2000

	maxReaderBytes = 2 << 20
)

var (
	ErrInvalidURL = errors.New("invalid URL provided")
	ErrNoData     = errors.New("no data received from website")

	schemeRe = regexp.MustCompile(`(?i)^https?://`)
)

// Options configures an Extractor.
type Options struct {
	MetadataURL string
	ReaderURL   string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Extractor pulls metadata and plain text for a website.
type Extractor struct {
	metadataURL string
	readerURL   string
	client      *http.Client
	log         logger.Logger
}

func NewExtractor(opts Options, log logger.Logger) *Extractor {
	e := &Extractor{
		metadataURL: opts.MetadataURL,
		readerURL:   opts.ReaderURL,
		client:      opts.HTTPClient,
		log:         log,
	}
	if e.metadataURL == "" {
		e.metadataURL = DefaultMetadataURL
	}
	if e.readerURL == "" {
		e.readerURL = DefaultReaderURL
	}
	if !strings.HasSuffix(e.readerURL, "/") {
		e.readerURL += "/"
	}
	if e.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		e.client = &http.Client{Timeout: timeout}
	}
	return e
}

// NormalizeURL prefixes https:// when no scheme is present.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || schemeRe.MatchString(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

// IsValidURL accepts URLs with or without a scheme.
func IsValidURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil {
		return false
	}
	return u.Host != "" && !strings.ContainsAny(u.Host, " \t")
}

type microlinkResponse struct {
	Status string `json:"status"`
	Data   *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Author      string `json:"author"`
		Publisher   string `json:"publisher"`
		Date        string `json:"date"`
		Lang        string `json:"lang"`
		URL         string `json:"url"`
		Image       *struct {
			URL string `json:"url"`
		} `json:"image"`
		Logo *struct {
			URL string `json:"url"`
		} `json:"logo"`
	} `json:"data"`
}

// Extract fetches metadata and page text concurrently. Only a metadata
// failure is an error; missing page text is tolerated.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.WebsiteData, error) {
	if !IsValidURL(rawURL) {
		return nil, ErrInvalidURL
	}
	target := NormalizeURL(rawURL)

	var (
		data *domain.WebsiteData
		text string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := e.metadata(gctx, target)
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	g.Go(func() error {
		t, err := e.readText(gctx, target)
		if err != nil {
			e.log.Warn("website reader failed", logger.String("url", target), logger.Error(err))
			return nil
		}
		text = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.ContentText = text
	e.log.Debug("website extracted",
		logger.String("url", target),
		logger.String("title", data.Title),
		logger.Int("text_len", len(text)),
	)
	return data, nil
}

func (e *Extractor) metadata(ctx context.Context, target string) (*domain.WebsiteData, error) {
	endpoint := e.metadataURL + "?url=" + url.QueryEscape(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch website data: %w", err)
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch website data: %d", resp.StatusCode)
	}

	var body microlinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode website data: %w", err)
	}
	if body.Data == nil {
		return nil, ErrNoData
	}

	d := body.Data
	out := &domain.WebsiteData{
		Title:       d.Title,
		Description: d.Description,
		Author:      d.Author,
		Publisher:   d.Publisher,
		Date:        d.Date,
		Lang:        d.Lang,
		URL:         d.URL,
	}
	if d.Image != nil {
		out.Image = d.Image.URL
	}
	if d.Logo != nil {
		out.Logo = d.Logo.URL
	}
	if out.URL == "" {
		out.URL = target
	}
	return out, nil
}

func (e *Extractor) readText(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.readerURL+target, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("reader status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxReaderBytes))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// FormatForPrompt renders d as an "Extracted Website Data" block to append
// to the audience context. Empty data renders as "".
func FormatForPrompt(d *domain.WebsiteData) string {
	if d == nil {
		return ""
	}

	var sections []string
	add := func(label, v string) {
		if v != "" {
			sections = append(sections, label+": "+v)
		}
	}
	add("Website Title", d.Title)
	add("Website Description", d.Description)
	add("Publisher/Brand", d.Publisher)
	add("Author", d.Author)
	add("Language", d.Lang)

	if d.ContentText != "" {
		sections = append(sections, "Website Text Excerpt:\n"+excerpt(d.ContentText, MaxExcerptChars))
	}

	if len(sections) == 0 {
		return ""
	}
	return "\n\nExtracted Website Data:\n" + strings.Join(sections, "\n")
}

func excerpt(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
