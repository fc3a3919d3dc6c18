package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/metrics"
	"github.com/MrSnakeDoc/contentideas/internal/sources/mix"
)

// MixTarget receives reloaded content mixes (the prompt builder).
type MixTarget interface {
	SetMix(domain.ContentMix)
}

// MixReloader reloads the content-mix file on a ticker and on demand.
// Without a file it only keeps the built-in mix.
type MixReloader struct {
	loader        *mix.Loader
	target        MixTarget
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}

	mu         sync.RWMutex
	lastReload time.Time
	lastErr    error
}

func NewMixReloader(
	mixFile string,
	target MixTarget,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *MixReloader {
	var loader *mix.Loader
	if mixFile != "" {
		loader = mix.NewLoader(mixFile)
	}
	return &MixReloader{
		loader:        loader,
		target:        target,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Enabled reports whether a mix file is configured.
func (r *MixReloader) Enabled() bool { return r.loader != nil }

// Start loads the file once (failing fast on a bad file), then reloads on
// every tick and manual trigger.
func (r *MixReloader) Start(ctx context.Context) error {
	if err := r.Reload(ctx); err != nil {
		return fmt.Errorf("initial content mix load failed: %w", err)
	}

	var tick <-chan time.Time
	if r.Enabled() && r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		tick = ticker.C
		go func() {
			<-r.stopCh
			ticker.Stop()
		}()
	}

	go func() {
		for {
			select {
			case <-tick:
				if err := r.Reload(ctx); err != nil {
					r.logger.Error("failed to reload content mix", logger.Error(err))
				}
			case <-r.manualTrigger:
				r.logger.Info("manual content mix reload triggered")
				if err := r.Reload(ctx); err != nil {
					r.logger.Error("failed to reload content mix", logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (r *MixReloader) Stop() {
	close(r.stopCh)
}

// Reload reads the file and swaps the mix. On error the previous mix stays.
func (r *MixReloader) Reload(_ context.Context) error {
	if !r.Enabled() {
		r.record(nil)
		metrics.MixReloadsTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil
	}

	file, err := r.loader.Load()
	if err == nil {
		var m domain.ContentMix
		if m, err = mix.ToContentMix(file); err == nil {
			r.target.SetMix(m)
			r.logger.Info("content mix loaded",
				logger.String("file", r.loader.Path()),
				logger.Int("categories", len(m.Categories)))
		}
	}

	r.record(err)
	if err != nil {
		metrics.MixReloadsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}
	metrics.MixReloadsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

func (r *MixReloader) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastReload = time.Now()
	r.lastErr = err
}

// Status returns the time and error of the last reload attempt.
func (r *MixReloader) Status() (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastReload, r.lastErr
}
