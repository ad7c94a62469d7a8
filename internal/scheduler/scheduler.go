// Package scheduler runs the periodic maintenance jobs: state flushes,
// catalog reloads and stale state purges.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/meshur/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Job is one named unit of periodic work.
type Job struct {
	Name    string
	Spec    string // cron spec, e.g. "@every 2s" or "0 4 * * *"
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

// New returns a scheduler whose jobs never overlap with their own previous run.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Add registers job. An empty spec disables it.
func (s *Scheduler) Add(job Job) error {
	if job.Spec == "" {
		logger.Info("Scheduled job disabled", map[string]interface{}{
			"job": job.Name,
		})
		return nil
	}

	_, err := s.cron.AddFunc(job.Spec, func() { s.run(job) })
	if err != nil {
		logger.Error("Failed to add cron job", err, map[string]interface{}{
			"job":  job.Name,
			"spec": job.Spec,
		})
		return fmt.Errorf("invalid schedule %q for %s: %w", job.Spec, job.Name, err)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx := context.Background()
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.Error("Scheduled job failed", err, map[string]interface{}{
			"job": job.Name,
		})
		return
	}
	logger.Debug("Scheduled job finished", map[string]interface{}{
		"job":         job.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name+" ("+job.Spec+")")
	}
	logger.Info("Scheduler started", map[string]interface{}{
		"jobs": names,
	})
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	logger.Info("Stopping scheduler...", nil)
	select {
	case <-s.cron.Stop().Done():
		logger.Info("Scheduler stopped", nil)
	case <-ctx.Done():
		logger.Warn("Scheduler stop timed out with jobs still running", nil)
	}
}
