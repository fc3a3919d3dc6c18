package domain

import (
	"fmt"
	"strings"
)

// InitialIdeaCount is the number of ideas requested by a fresh generation.
const InitialIdeaCount = 15

// ContinuationIdeaCount is the number of ideas requested by "generate more".
const ContinuationIdeaCount = 10

// MixCategory is one idea type with its target count range.
type MixCategory struct {
	Label       string // e.g. "Story+Lesson"; the value the model puts in "category"
	Description string // e.g. "Personal story + lesson (vulnerability builds trust)"
	Min         int
	Max         int
}

// ContentMix is the ordered set of categories the model must mix across.
type ContentMix struct {
	Categories []MixCategory
}

// DefaultContentMix returns the built-in six-category mix.
func DefaultContentMix() ContentMix {
	return ContentMix{Categories: []MixCategory{
		{Label: "Story+Lesson", Description: "Personal story + lesson (vulnerability builds trust)", Min: 3, Max: 4},
		{Label: "Framework", Description: "Framework or process breakdowns (demonstrates systematic thinking)", Min: 3, Max: 4},
		{Label: "Myth-Busting", Description: "Myth-busting or contrarian takes (positions as thought leader)", Min: 2, Max: 3},
		{Label: "Client Story", Description: "Client transformation stories (social proof)", Min: 2, Max: 3},
		{Label: "Behind-the-Scenes", Description: "Behind-the-scenes or day-in-the-life (humanizes the brand)", Min: 1, Max: 2},
		{Label: "Pattern Recognition", Description: `"Mistakes I made" or "what I'd do differently" (relatable authority)`, Min: 1, Max: 2},
	}}
}

// Labels returns the category labels in order.
func (m ContentMix) Labels() []string {
	labels := make([]string, 0, len(m.Categories))
	for _, c := range m.Categories {
		labels = append(labels, c.Label)
	}
	return labels
}

// LabelSet renders labels as "A | B | C".
func (m ContentMix) LabelSet() string {
	return strings.Join(m.Labels(), " | ")
}

// Validate checks that the ranges can add up to total.
func (m ContentMix) Validate(total int) error {
	if len(m.Categories) == 0 {
		return fmt.Errorf("content mix has no categories")
	}
	minSum, maxSum := 0, 0
	seen := make(map[string]bool, len(m.Categories))
	for _, c := range m.Categories {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			return fmt.Errorf("content mix category has empty label")
		}
		if seen[label] {
			return fmt.Errorf("content mix category %q is duplicated", label)
		}
		seen[label] = true
		if c.Min < 0 || c.Max < c.Min {
			return fmt.Errorf("content mix category %q has invalid range %d-%d", label, c.Min, c.Max)
		}
		minSum += c.Min
		maxSum += c.Max
	}
	if minSum > total || maxSum < total {
		return fmt.Errorf("content mix ranges (%d-%d) cannot sum to %d", minSum, maxSum, total)
	}
	return nil
}
