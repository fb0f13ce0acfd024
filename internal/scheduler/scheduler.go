package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrRunInProgress is returned when a run is requested while another one has
// not finished yet.
var ErrRunInProgress = errors.New("scrape run already in progress")

type Runner interface {
	Run(ctx context.Context) (int, error)
}

// Scheduler triggers the runner once on start and then daily on the cron
// spec. Runs never overlap, whether they come from the schedule or from
// TryRun.
type Scheduler struct {
	runner Runner
	logger *slog.Logger
	cron   *cron.Cron
	chain  cron.Chain

	running sync.Mutex
	startup sync.WaitGroup
	ctx     context.Context
}

func New(runner Runner, spec string, location *time.Location, logger *slog.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New("runner is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	if location == nil {
		location = time.UTC
	}

	cronLog := cronLogger{logger: logger}
	s := &Scheduler{
		runner: runner,
		logger: logger,
		chain:  cron.NewChain(cron.Recover(cronLog)),
		ctx:    context.Background(),
	}
	s.cron = cron.New(
		cron.WithLocation(location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)

	if _, err := s.cron.AddFunc(spec, func() { s.runScheduled("schedule") }); err != nil {
		return nil, fmt.Errorf("add cron job %q: %w", spec, err)
	}

	return s, nil
}

// Start runs the runner once in the background and starts the schedule.
// ctx is passed to every scheduled run.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}

	s.ctx = ctx
	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		s.chain.Then(cron.FuncJob(func() { s.runScheduled("startup") })).Run()
	}()

	s.cron.Start()
	s.logger.Info("scheduler started", "next_run", s.NextRun())
}

// Stop stops the schedule and waits for a run in progress to return.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}

	<-s.cron.Stop().Done()
	s.startup.Wait()
	s.logger.Info("scheduler stopped")
}

// NextRun returns the time of the next scheduled run, or the zero time when
// the scheduler is not running.
func (s *Scheduler) NextRun() time.Time {
	if s == nil {
		return time.Time{}
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// TryRun runs the runner now unless a run is already in progress, in which
// case it returns ErrRunInProgress without waiting.
func (s *Scheduler) TryRun(ctx context.Context) (int, error) {
	if s == nil {
		return 0, errors.New("scheduler is nil")
	}
	if !s.running.TryLock() {
		return 0, ErrRunInProgress
	}
	defer s.running.Unlock()

	return s.runner.Run(ctx)
}

func (s *Scheduler) runScheduled(trigger string) {
	added, err := s.TryRun(s.ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.logger.Warn("scrape run skipped, previous run still in progress", "trigger", trigger)
	case err != nil:
		s.logger.Error("scrape run failed", "trigger", trigger, "reason", err)
	default:
		s.logger.Info("scrape run finished", "trigger", trigger, "records_added", added)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"reason", err}, keysAndValues...)...)
}
