package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
)

// stubGenerator returns canned batches and records what it was asked.
type stubGenerator struct {
	mu sync.Mutex

	fail     string
	block    chan struct{}
	started  chan struct{}
	batch    int
	calls    []stubCall
	sequence int
}

type stubCall struct {
	more  bool
	bc    domain.BusinessContext
	liked []string
}

func (g *stubGenerator) ideas(n int) []domain.Idea {
	out := make([]domain.Idea, n)
	for i := range out {
		g.sequence++
		out[i] = domain.Idea{
			ID:       "model-id", // deliberately repeated
			Title:    fmt.Sprintf("Idea %d", g.sequence),
			Category: domain.DefaultCategory,
		}
	}
	return out
}

func (g *stubGenerator) result(n int) domain.GenerationResult {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != "" {
		return domain.Failed(fmt.Errorf("%s", g.fail))
	}
	if g.batch > 0 {
		n = g.batch
	}
	return domain.Succeeded(g.ideas(n))
}

func (g *stubGenerator) Generate(_ context.Context, bc domain.BusinessContext) domain.GenerationResult {
	g.mu.Lock()
	g.calls = append(g.calls, stubCall{bc: bc})
	g.mu.Unlock()
	return g.result(domain.InitialIdeaCount)
}

func (g *stubGenerator) GenerateMore(_ context.Context, bc domain.BusinessContext, liked []string) domain.GenerationResult {
	g.mu.Lock()
	g.calls = append(g.calls, stubCall{more: true, bc: bc, liked: liked})
	g.mu.Unlock()
	return g.result(domain.ContinuationIdeaCount)
}

func (g *stubGenerator) Calls() []stubCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]stubCall(nil), g.calls...)
}

func sampleIdeas(n int) []domain.Idea {
	out := make([]domain.Idea, n)
	for i := range out {
		out[i] = domain.Idea{
			ID:       fmt.Sprintf("id-%d", i),
			Title:    fmt.Sprintf("Title %d", i),
			Category: "Framework",
		}
	}
	return out
}
