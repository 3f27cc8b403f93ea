package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Warmer runs a refresh job on a cron schedule
type Warmer struct {
	cron    *cron.Cron
	name    string
	timeout time.Duration
	job     func(ctx context.Context) error
}

// NewWarmer schedules job. Standard five-field specs and descriptors such
// as "@every 5m" are accepted. Overlapping runs are skipped.
func NewWarmer(name, schedule string, timeout time.Duration, job func(ctx context.Context) error) (*Warmer, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))

	w := &Warmer{cron: c, name: name, timeout: timeout, job: job}

	_, err := c.AddFunc(schedule, w.RunNow)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q for %s: %w", schedule, name, err)
	}

	return w, nil
}

// Start begins running the schedule in the background
func (w *Warmer) Start() {
	logger.Info("Cache warmer started", zap.String("name", w.name))
	w.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish or ctx to expire
func (w *Warmer) Stop(ctx context.Context) {
	done := w.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("Cache warmer did not stop in time", zap.String("name", w.name))
	}
}

// RunNow executes the job once, synchronously
func (w *Warmer) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.job(ctx); err != nil {
		logger.Error("Cache warm-up failed",
			zap.String("name", w.name),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	logger.Debug("Cache warm-up finished",
		zap.String("name", w.name),
		zap.Duration("duration", time.Since(start)))
}
