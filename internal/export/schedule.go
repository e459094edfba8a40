package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs an export job on a cron expression.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	expr     string
}

// NewScheduler validates expr (standard five-field syntax or a descriptor
// such as "@hourly") and registers job. Call Start to begin running it.
func NewScheduler(expr string, job func(context.Context) error) (*Scheduler, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}

	c := cron.New()
	c.Schedule(sched, cron.FuncJob(func() {
		log.Printf("[EXPORT] cron %q: running export", expr)
		if err := job(context.Background()); err != nil {
			log.Printf("[EXPORT] cron %q: export failed: %v", expr, err)
		}
	}))
	return &Scheduler{cron: c, schedule: sched, expr: expr}, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("[EXPORT] cron %q: next run %s", s.expr, s.Next(time.Now()).Format(time.RFC3339))
}

// Stop halts the scheduler and waits for a running export to finish or
// ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Next returns the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}
