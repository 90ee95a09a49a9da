package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"quillie/internal/core"
	"quillie/internal/events"
	applog "quillie/internal/log"
)

// Dispatcher fans the weekly report out to every opted-in user. Each
// user is an independent unit of work: one failed send is logged and
// counted, never allowed to stop or roll back the rest of the batch.
type Dispatcher struct {
	store   Store
	sender  Sender
	service *Service
	events  *events.Publisher // nil-safe, optional
	workers int
	logger  *applog.Logger
}

func NewDispatcher(store Store, sender Sender, service *Service, publisher *events.Publisher, workers int, logger *applog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		store:   store,
		sender:  sender,
		service: service,
		events:  publisher,
		workers: workers,
		logger:  logger.WithComponent(applog.ComponentDispatcher),
	}
}

// Run performs one dispatch: fetch the opted-in users and send each
// an individually computed report over a bounded worker pool. It
// returns the per-batch outcome counts.
func (d *Dispatcher) Run(ctx context.Context) (sent, failed int) {
	start := time.Now()

	users, err := d.store.ListWeeklyReportUsers(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to list weekly report users", applog.FieldError, err)
		return 0, 0
	}
	d.logger.InfoContext(ctx, "weekly dispatch started", applog.FieldUsers, len(users))

	results := make([]bool, len(users))
	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			if err := d.sendOne(ctx, user); err != nil {
				d.logger.ErrorContext(ctx, "weekly report failed",
					applog.FieldUserID, user.ID,
					applog.FieldTelegramID, user.TelegramUserID,
					applog.FieldError, err)
				return nil // isolate: never abort the batch
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for _, ok := range results {
		if ok {
			sent++
		} else {
			failed++
		}
	}
	d.logger.InfoContext(ctx, "weekly dispatch finished",
		applog.FieldUsers, len(users),
		applog.FieldSent, sent,
		applog.FieldFailed, failed,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return sent, failed
}

// SendTo is the on-demand variant: recompute and resend the weekly
// report for a single user, sharing the scheduled path's logic.
func (d *Dispatcher) SendTo(ctx context.Context, telegramUserID int64) error {
	user, err := d.store.FindUserByTelegramID(ctx, telegramUserID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	return d.sendOne(ctx, user)
}

func (d *Dispatcher) sendOne(ctx context.Context, user core.User) error {
	ws, err := d.service.WeeklySummaryFor(ctx, user)
	if err != nil {
		return fmt.Errorf("compute weekly summary: %w", err)
	}

	if err := d.sender.SendText(ctx, user.TelegramUserID, FormatWeekly(ws)); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	if err := d.events.PublishReportSent(ctx, events.ReportSent{
		UserID:     user.ID,
		TotalCents: ws.Summary.Total.Cents,
		WeekStart:  ws.Window.Start.Format(time.DateOnly),
	}); err != nil {
		// Event stream is best effort.
		d.logger.WarnContext(ctx, "failed to publish report event",
			applog.FieldUserID, user.ID,
			applog.FieldError, err)
	}
	return nil
}
