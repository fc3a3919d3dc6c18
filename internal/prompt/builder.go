package prompt

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

// Builder turns a BusinessContext into model instructions.
// It is safe for concurrent use; the content mix can be swapped at runtime.
type Builder struct {
	mix atomic.Pointer[domain.ContentMix]
}

// NewBuilder creates a builder using the default content mix.
func NewBuilder() *Builder {
	b := &Builder{}
	b.SetMix(domain.DefaultContentMix())
	return b
}

// SetMix replaces the content mix used by subsequent prompts.
func (b *Builder) SetMix(mix domain.ContentMix) {
	m := mix
	b.mix.Store(&m)
}

// Mix returns the current content mix.
func (b *Builder) Mix() domain.ContentMix {
	return *b.mix.Load()
}

// Initial builds the prompt for a fresh generation of 15 ideas.
func (b *Builder) Initial(c domain.BusinessContext) string {
	mix := b.Mix()
	n := domain.InitialIdeaCount

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate exactly %d exceptional content ideas that will resonate deeply with this specific audience.\n\n", n)

	sb.WriteString("Business Context:\n")
	writeField(&sb, "Business Name", c.BusinessName)
	writeField(&sb, "Target Audience", c.ICA)
	writeField(&sb, "Services/Products", c.Services)
	writeField(&sb, "Key Transformation", c.KeyTransformation)
	writeField(&sb, "Top Performing Content", c.TopPerformingContent)
	writeField(&sb, "Audience Context", c.AdditionalContext)

	sb.WriteString(`
## Analysis Process

Before generating ideas, consider:
1. What transformation does this business offer?
2. What specific problems does their target audience face daily?
3. What makes their approach unique or different?
4. What patterns exist in their top-performing content?
5. What gaps exist that haven't been covered yet?

## Content Mix

Mix idea types across these categories (the counts must add up to `)
	fmt.Fprintf(&sb, "%d):\n", n)
	for _, cat := range mix.Categories {
		fmt.Fprintf(&sb, "- **%s** - %s: %s ideas\n", cat.Label, cat.Description, countRange(cat.Min, cat.Max))
	}

	fmt.Fprintf(&sb, "\n## Your Task\n\nCreate exactly %d content ideas. Each idea needs:\n", n)
	sb.WriteString("- \"id\": a unique identifier\n")
	sb.WriteString("- \"title\": the compelling hook/title that stops the scroll\n")
	sb.WriteString("- \"description\": 2-3 sentences explaining (1) what the content covers, (2) why it resonates with the target audience, (3) what makes this angle unique or valuable\n")
	fmt.Fprintf(&sb, "- \"category\": exactly one of %s\n", mix.LabelSet())

	writeFormat(&sb, "The compelling hook/title that stops the scroll",
		"2-3 sentences explaining what it covers, why it resonates and what makes it unique.",
		mix.LabelSet())
	return sb.String()
}

// Continuation builds the prompt for "generate more", seeded with the titles
// the user liked.
func (b *Builder) Continuation(c domain.BusinessContext, likedTitles []string) string {
	mix := b.Mix()
	n := domain.ContinuationIdeaCount

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate exactly %d more strategic content ideas based on what resonated with the user.\n\n", n)

	sb.WriteString("IDEAS THEY LOVED:\n")
	for _, t := range likedTitles {
		sb.WriteString(t)
		sb.WriteString("\n")
	}

	sb.WriteString("\nOriginal Context:\n")
	writeField(&sb, "Target Audience", c.ICA)
	writeField(&sb, "Key Transformation", c.KeyTransformation)
	writeField(&sb, "Services/Products", c.Services)

	sb.WriteString(`
## Your Task

Analyze what made those selected ideas resonate:
- What themes or topics did they gravitate toward?
- What style or angle (story, framework, contrarian, etc.) did they prefer?
- What level of specificity or boldness worked for them?
- What pain points or transformations were they most interested in?

`)
	fmt.Fprintf(&sb, "Now create exactly %d NEW ideas that:\n", n)
	sb.WriteString("1. **Double down on what worked** - stay thematically related to the ideas they loved\n")
	sb.WriteString("2. **Stay distinct** - never repeat or lightly reword a title listed above\n")
	sb.WriteString("3. **Maintain the same tone and specificity** - match the voice and detail level of their selections\n")
	fmt.Fprintf(&sb, "4. **Stay laser-focused** - keep all ideas relevant to %s and %s\n", c.Services, c.ICA)
	fmt.Fprintf(&sb, "5. **Use the same fields** - \"id\", \"title\", \"description\", \"category\" (one of %s)\n", mix.LabelSet())

	writeFormat(&sb, "Even more provocative headline based on their preferences",
		"Why this works: connects to what they liked and why it's bold.",
		mix.LabelSet())
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(sb, "- %s: %s\n", label, value)
}

func writeFormat(sb *strings.Builder, title, description, labels string) {
	sb.WriteString("\n## Format Requirements\n\n")
	sb.WriteString("Respond with ONLY a JSON array of flat objects with exactly these four string fields, no other text:\n")
	sb.WriteString("[\n  {\n")
	sb.WriteString("    \"id\": \"unique_id\",\n")
	fmt.Fprintf(sb, "    \"title\": %q,\n", title)
	fmt.Fprintf(sb, "    \"description\": %q,\n", description)
	fmt.Fprintf(sb, "    \"category\": %q\n", labels)
	sb.WriteString("  }\n]")
}

func countRange(lo, hi int) string {
	if lo == hi {
		return fmt.Sprintf("%d", lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}
