package mix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

// ToContentMix converts a parsed file into a validated domain.ContentMix.
func ToContentMix(f File) (domain.ContentMix, error) {
	if f.Total != 0 && f.Total != domain.InitialIdeaCount {
		return domain.ContentMix{}, fmt.Errorf("total must be %d, got %d", domain.InitialIdeaCount, f.Total)
	}

	mix := domain.ContentMix{Categories: make([]domain.MixCategory, 0, len(f.Categories))}
	for i, c := range f.Categories {
		lo, hi, err := bounds(c)
		if err != nil {
			return domain.ContentMix{}, fmt.Errorf("category %d (%q): %w", i+1, c.Label, err)
		}
		mix.Categories = append(mix.Categories, domain.MixCategory{
			Label:       strings.TrimSpace(c.Label),
			Description: strings.TrimSpace(c.Description),
			Min:         lo,
			Max:         hi,
		})
	}

	if err := mix.Validate(domain.InitialIdeaCount); err != nil {
		return domain.ContentMix{}, err
	}
	return mix, nil
}

func bounds(c Category) (int, int, error) {
	if c.Range != "" {
		if c.Min != nil || c.Max != nil {
			return 0, 0, fmt.Errorf("use either range or min/max")
		}
		return parseRange(c.Range)
	}
	switch {
	case c.Min == nil && c.Max == nil:
		return 0, 0, fmt.Errorf("missing range")
	case c.Min == nil:
		return *c.Max, *c.Max, nil
	case c.Max == nil:
		return *c.Min, *c.Min, nil
	default:
		return *c.Min, *c.Max, nil
	}
}

// parseRange accepts "n" or "lo-hi".
func parseRange(s string) (int, int, error) {
	loStr, hiStr, found := strings.Cut(strings.TrimSpace(s), "-")
	lo, err := strconv.Atoi(strings.TrimSpace(loStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q", s)
	}
	if !found {
		return lo, lo, nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(hiStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q", s)
	}
	return lo, hi, nil
}
