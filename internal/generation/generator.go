package generation

import (
	"context"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

// Generator produces ideas. Implementations never return Go errors: every
// failure is folded into the result envelope.
type Generator interface {
	Generate(ctx context.Context, bc domain.BusinessContext) domain.GenerationResult
	GenerateMore(ctx context.Context, bc domain.BusinessContext, likedTitles []string) domain.GenerationResult
}

// Request is the wire body of the generation endpoint: the business context
// plus, for continuation calls, the titles the user liked.
type Request struct {
	domain.BusinessContext
	SelectedIdeas []string `json:"selectedIdeas,omitempty"`
}

// IsContinuation reports whether the request asks for "generate more".
func (r Request) IsContinuation() bool {
	return len(r.SelectedIdeas) > 0
}

// Dispatch routes r to the matching Generator method.
func Dispatch(ctx context.Context, g Generator, r Request) domain.GenerationResult {
	if r.IsContinuation() {
		return g.GenerateMore(ctx, r.BusinessContext, r.SelectedIdeas)
	}
	return g.Generate(ctx, r.BusinessContext)
}
