package domain

import (
	"encoding/json"
	"time"
)

// DefaultCategory is assigned to ideas whose category could not be recovered
// from the model output.
const DefaultCategory = "General"

// Idea is one generated content suggestion.
//
// Ideas are created only by the normalizer (from model output) and are never
// mutated afterwards except for the bookmark flag.
type Idea struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is unique within the active idea list of a session.
	// Model output may omit or repeat identifiers, so it is always
	// (re)assigned locally.
	ID string `json:"id"`

	// ─────────────────────────────
	// Content (immutable)
	// ─────────────────────────────

	// Title is the scroll-stopping hook. Never empty.
	Title string `json:"title"`

	// Description explains why the idea resonates. May be empty.
	Description string `json:"description,omitempty"`

	// Category is a short free-form label, "General" when unknown.
	Category string `json:"category,omitempty"`

	// ─────────────────────────────
	// User state
	// ─────────────────────────────

	// IsBookmarked is the only mutable field.
	IsBookmarked bool `json:"isBookmarked"`
}

// BookmarkGroup is a named, immutable snapshot of bookmarked ideas.
// Ideas are value copies taken when the group was committed.
type BookmarkGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Ideas     []Idea    `json:"ideas"`
	CreatedAt time.Time `json:"createdAt"`
}

// GenerationResult is the uniform envelope returned for every generation
// request. Ideas is set on success, Error on failure.
type GenerationResult struct {
	Success bool   `json:"success"`
	Ideas   []Idea `json:"ideas,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MarshalJSON always writes an ideas array on success, even an empty one,
// and never writes it on failure.
func (r GenerationResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error,omitempty"`
		}{false, r.Error})
	}
	ideas := r.Ideas
	if ideas == nil {
		ideas = []Idea{}
	}
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Ideas   []Idea `json:"ideas"`
	}{true, ideas})
}

// Succeeded builds a success envelope.
func Succeeded(ideas []Idea) GenerationResult {
	if ideas == nil {
		ideas = []Idea{}
	}
	return GenerationResult{Success: true, Ideas: ideas}
}

// Failed builds a failure envelope from err.
func Failed(err error) GenerationResult {
	msg := "An unknown error occurred"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return GenerationResult{Success: false, Error: msg}
}

// CloneIdeas returns a value copy of ideas.
func CloneIdeas(ideas []Idea) []Idea {
	if ideas == nil {
		return nil
	}
	out := make([]Idea, len(ideas))
	copy(out, ideas)
	return out
}
