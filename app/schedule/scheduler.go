package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/selvaganesh19/mailform/core/logger"
)

// onceAt fires exactly once at the stored instant. Returning the zero time
// after that point makes the cron runner drop the entry from its schedule.
type onceAt struct {
	at time.Time
}

func (o onceAt) Next(now time.Time) time.Time {
	if now.Before(o.at) {
		return o.at
	}
	return time.Time{}
}

// Scheduler queues one-shot jobs on a shared cron runner. Jobs live in
// memory only; a restart drops anything not yet fired.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New starts an empty scheduler.
func New() *Scheduler {
	c := cron.New()
	c.Start()
	return &Scheduler{
		cron:    c,
		entries: make(map[string]cron.EntryID),
	}
}

// At registers fn to run once at t. Times already in the past run
// immediately. The name identifies the job in logs.
func (s *Scheduler) At(t time.Time, name string, fn func()) error {
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(logger.Background(), "schedule", "job.panic",
					slog.String("job", name),
					slog.Any("err", r),
				)
			}
		}()
		start := time.Now()
		logger.Info(logger.Background(), "schedule", "job.start", slog.String("job", name))
		fn()
		logger.Info(logger.Background(), "schedule", "job.done",
			slog.String("job", name),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
	}

	if !t.After(time.Now()) {
		go run()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.cron.Schedule(onceAt{at: t}, cron.FuncJob(func() {
		run()
		s.remove(name)
	}))
	s.entries[name] = id

	logger.Info(logger.Background(), "schedule", "job.queued",
		slog.String("job", name),
		slog.Time("fire_at", t),
	)
	return nil
}

func (s *Scheduler) remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}
}

// Pending reports how many jobs are still queued.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stop halts the runner and returns a context that closes once in-flight
// jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
