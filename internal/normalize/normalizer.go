package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

// MaxFallbackIdeas caps the number of ideas recovered from free text.
const MaxFallbackIdeas = domain.InitialIdeaCount

// Path tells which strategy produced a normalized list.
type Path string

const (
	PathStructured Path = "structured"
	PathFallback   Path = "fallback"
)

var (
	enumerationRe = regexp.MustCompile(`^\d+\.(\s+|$)`)
	bulletRe      = regexp.MustCompile(`^[-*•]\s*`)
)

// Result is a normalized list tagged with the path that produced it.
type Result struct {
	Ideas []domain.Idea
	Path  Path
}

// Normalizer maps raw model output to ideas. Safe for concurrent use.
type Normalizer struct {
	now func() time.Time
	seq atomic.Uint64
}

// New creates a normalizer using the wall clock.
func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewWithClock creates a normalizer with a custom clock (tests).
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize never fails: it always returns a list, possibly empty.
func (n *Normalizer) Normalize(raw string) []domain.Idea {
	return n.NormalizeTagged(raw).Ideas
}

// NormalizeTagged is Normalize plus the path taken.
func (n *Normalizer) NormalizeTagged(raw string) Result {
	if elems, ok := parseArray(stripFences(raw)); ok {
		return Result{Ideas: n.fromElements(elems), Path: PathStructured}
	}
	return Result{Ideas: n.fromLines(raw), Path: PathFallback}
}

func (n *Normalizer) fromElements(elems []any) []domain.Idea {
	ideas := make([]domain.Idea, 0, len(elems))
	used := make(map[string]bool, len(elems))
	batch := n.seq.Add(1)
	ts := n.now().UnixMilli()

	for i, el := range elems {
		obj, _ := el.(map[string]any)

		id, _ := field(obj, "id")
		if id == "" || used[id] {
			id = synthID(ts, batch, i)
		}
		used[id] = true

		title, _ := field(obj, "title")
		if title == "" {
			title = stringify(el)
		}

		description, _ := field(obj, "description")

		category, _ := field(obj, "category")
		if category == "" {
			category = domain.DefaultCategory
		}

		ideas = append(ideas, domain.Idea{
			ID:          id,
			Title:       title,
			Description: description,
			Category:    category,
		})
	}
	return ideas
}

func (n *Normalizer) fromLines(raw string) []domain.Idea {
	ideas := make([]domain.Idea, 0)
	batch := n.seq.Add(1)
	ts := n.now().UnixMilli()

	for i, line := range strings.Split(raw, "\n") {
		if len(ideas) >= MaxFallbackIdeas {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") {
			continue
		}
		title := enumerationRe.ReplaceAllString(line, "")
		title = strings.TrimSpace(bulletRe.ReplaceAllString(title, ""))
		if title == "" {
			continue
		}
		ideas = append(ideas, domain.Idea{
			ID:       synthID(ts, batch, i),
			Title:    title,
			Category: domain.DefaultCategory,
		})
	}
	return ideas
}

// parseArray reports whether s is exactly one JSON array.
func parseArray(s string) ([]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// trailing data is a parse failure
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, false
	}

	arr, ok := v.([]any)
	return arr, ok
}

// stripFences removes a surrounding ```json ... ``` block.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// field returns obj[key] as a string; numbers and booleans are formatted.
func field(obj map[string]any, key string) (string, bool) {
	if obj == nil {
		return "", false
	}
	v, ok := obj[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case bool:
		return fmt.Sprintf("%t", t), true
	default:
		return "", false
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSpace(buf.String())
}

func synthID(ts int64, batch uint64, index int) string {
	return fmt.Sprintf("idea_%d_%d_%d", ts, batch, index)
}
