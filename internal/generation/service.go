package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/llm"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/metrics"
	"github.com/MrSnakeDoc/contentideas/internal/normalize"
	"github.com/MrSnakeDoc/contentideas/internal/prompt"
)

const (
	modeInitial      = "initial"
	modeContinuation = "continuation"
)

// LeadCapturer records a lead without blocking the caller.
type LeadCapturer interface {
	Capture(bc domain.BusinessContext)
}

// Service generates ideas with a chat-completion model.
type Service struct {
	model      llm.Completer
	prompts    *prompt.Builder
	normalizer *normalize.Normalizer
	leads      LeadCapturer
	log        logger.Logger
}

// NewService wires a Service. leads may be nil.
func NewService(model llm.Completer, prompts *prompt.Builder, normalizer *normalize.Normalizer, leads LeadCapturer, log logger.Logger) *Service {
	return &Service{
		model:      model,
		prompts:    prompts,
		normalizer: normalizer,
		leads:      leads,
		log:        log,
	}
}

// Generate asks for a fresh batch of ideas. When the context carries a
// complete lead it is captured in the background before the model call.
func (s *Service) Generate(ctx context.Context, bc domain.BusinessContext) domain.GenerationResult {
	if s.leads != nil && bc.HasLead() {
		s.leads.Capture(bc)
	}
	return s.complete(ctx, modeInitial, s.prompts.Initial(bc))
}

// GenerateMore asks for ideas related to likedTitles. Leads are never
// captured here.
func (s *Service) GenerateMore(ctx context.Context, bc domain.BusinessContext, likedTitles []string) domain.GenerationResult {
	return s.complete(ctx, modeContinuation, s.prompts.Continuation(bc, likedTitles))
}

func (s *Service) complete(ctx context.Context, mode, userPrompt string) (res domain.GenerationResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("generation panicked", logger.String("mode", mode), logger.Any("panic", r))
			metrics.GenerationsTotal.WithLabelValues(mode, "panic").Inc()
			res = domain.Failed(fmt.Errorf("%v", r))
		}
	}()

	raw, err := s.model.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: prompt.SystemInstruction()},
			{Role: "user", Content: userPrompt},
		},
	})
	metrics.GenerationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	if err != nil {
		s.log.Error("generation failed",
			logger.String("mode", mode),
			logger.Bool("model_unavailable", domain.IsModelUnavailable(err)),
			logger.Duration("duration", time.Since(start)),
			logger.Error(err),
		)
		metrics.GenerationsTotal.WithLabelValues(mode, outcome(err)).Inc()
		return domain.Failed(err)
	}

	out := s.normalizer.NormalizeTagged(raw)
	metrics.GenerationsTotal.WithLabelValues(mode, metrics.OutcomeSuccess).Inc()
	metrics.NormalizedIdeasTotal.WithLabelValues(string(out.Path)).Add(float64(len(out.Ideas)))

	s.log.Info("ideas generated",
		logger.String("mode", mode),
		logger.String("path", string(out.Path)),
		logger.Int("count", len(out.Ideas)),
		logger.Duration("duration", time.Since(start)),
	)
	return domain.Succeeded(out.Ideas)
}

func outcome(err error) string {
	switch {
	case domain.IsModelUnavailable(err):
		return "unavailable"
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	default:
		return metrics.OutcomeError
	}
}
