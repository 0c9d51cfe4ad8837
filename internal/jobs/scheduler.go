package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
)

// Job is one unit of background work; the returned count is only logged.
type Job func(ctx context.Context) (int, error)

// Scheduler runs jobs on cron specs. A job never overlaps with itself.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

func NewScheduler(logger *slog.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		logger:  logger,
		timeout: timeout,
	}
}

func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	return err
}

func (s *Scheduler) run(name string, job Job) {
	logger := s.logger.With("job", name)
	ctx, cancel := context.WithTimeout(logging.ContextWithLogger(context.Background(), logger), s.timeout)
	defer cancel()

	started := time.Now()
	n, err := job(ctx)
	if err != nil {
		logger.Error("job failed", "error", err, "elapsed", time.Since(started))
		return
	}
	logger.Debug("job done", "affected", n, "elapsed", time.Since(started))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
