package leads

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/metrics"
)

// Capturer fans a lead out to the mailing list and the webhook.
// Both run detached from the caller; failures are logged and swallowed.
type Capturer struct {
	mailchimp *Mailchimp
	webhook   *Webhook
	log       logger.Logger
	timeout   time.Duration
	now       func() time.Time

	wg sync.WaitGroup
}

func NewCapturer(m *Mailchimp, w *Webhook, log logger.Logger, timeout time.Duration) *Capturer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Capturer{
		mailchimp: m,
		webhook:   w,
		log:       log,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Capture returns immediately. Contexts without a complete lead are ignored.
func (c *Capturer) Capture(bc domain.BusinessContext) {
	if !bc.HasLead() {
		return
	}

	c.wg.Add(2)
	go c.run("mailchimp", c.mailchimp.Enabled(), func(ctx context.Context) error {
		return c.mailchimp.Subscribe(ctx, bc.UserName, bc.UserEmail)
	})
	go c.run("webhook", c.webhook.Enabled(), func(ctx context.Context) error {
		return c.webhook.Post(ctx, NewRecord(bc, c.now()))
	})
}

func (c *Capturer) run(target string, enabled bool, fn func(ctx context.Context) error) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("lead capture panicked", logger.String("target", target), logger.Any("panic", r))
			metrics.LeadSideEffectsTotal.WithLabelValues(target, metrics.OutcomeError).Inc()
		}
	}()

	if !enabled {
		c.log.Debug("lead capture target not configured", logger.String("target", target))
		metrics.LeadSideEffectsTotal.WithLabelValues(target, metrics.OutcomeSkipped).Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		c.log.Warn("lead capture failed", logger.String("target", target), logger.Error(err))
		metrics.LeadSideEffectsTotal.WithLabelValues(target, metrics.OutcomeError).Inc()
		return
	}
	c.log.Info("lead captured", logger.String("target", target))
	metrics.LeadSideEffectsTotal.WithLabelValues(target, metrics.OutcomeSuccess).Inc()
}

// Wait blocks until every in-flight capture has finished or ctx is done.
func (c *Capturer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
