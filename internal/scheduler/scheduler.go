// Package scheduler runs the weekly report dispatch on a cron
// schedule in the configured time zone.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"quillie/internal/log"
)

// Dispatcher is the batch the scheduler triggers.
type Dispatcher interface {
	Run(ctx context.Context) (sent, failed int)
}

type Scheduler struct {
	cron       *cron.Cron
	dispatcher Dispatcher
	logger     *log.Logger
}

// New builds a scheduler that fires at the given hour on the given
// weekday (cron numbering, 0 = Sunday) in loc.
func New(dispatcher Dispatcher, loc *time.Location, hour, weekday int, logger *log.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		dispatcher: dispatcher,
		logger:     logger.WithComponent(log.ComponentScheduler),
	}

	spec := fmt.Sprintf("0 %d * * %d", hour, weekday)
	if _, err := s.cron.AddFunc(spec, s.dispatch); err != nil {
		return nil, fmt.Errorf("register cron entry %q: %w", spec, err)
	}

	s.logger.Info("weekly dispatch scheduled",
		"spec", spec,
		"timezone", loc.String())
	return s, nil
}

func (s *Scheduler) dispatch() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sent, failed := s.dispatcher.Run(ctx)
	s.logger.InfoContext(ctx, "scheduled dispatch complete",
		log.FieldSent, sent,
		log.FieldFailed, failed)
}

// Start begins firing on schedule. It returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running dispatch to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
