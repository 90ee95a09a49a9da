// Package telegram is the bot transport: command routing, the guided
// expense-entry conversation and inline keyboards. All spending logic
// lives below it, in services and reports.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"quillie/internal/core"
	"quillie/internal/log"
	"quillie/internal/reports"
	"quillie/internal/services"
	"quillie/internal/session"
)

// Store is the slice of the repository the bot needs.
type Store interface {
	FindUserByTelegramID(ctx context.Context, telegramUserID int64) (core.User, error)
	UpsertUser(ctx context.Context, telegramUserID int64, username, firstName, lastName string) (core.User, error)
	SetWeeklyOptIn(ctx context.Context, userID int64, enabled bool) error
	SetMonthlyBudget(ctx context.Context, userID int64, budget *core.Money) error
	ListCategories(ctx context.Context, userID int64) ([]string, error)
}

type Bot struct {
	api      *bot.Bot
	store    Store
	sessions *session.Manager
	expenses *services.ExpenseService
	reports  *reports.Service
	now      func() time.Time
	logger   *log.Logger
}

type Config struct {
	Token string
	Debug bool
}

// New creates the bot and registers all handlers. The clock is
// injectable so expense dates are reproducible in tests.
func New(cfg Config, store Store, sessions *session.Manager, expenseSvc *services.ExpenseService, reportSvc *reports.Service, now func() time.Time, logger *log.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is required")
	}
	if now == nil {
		now = time.Now
	}

	b := &Bot{
		store:    store,
		sessions: sessions,
		expenses: expenseSvc,
		reports:  reportSvc,
		now:      now,
		logger:   logger.WithComponent(log.ComponentBot),
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(b.handleUnknown),
	}
	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}

	api, err := bot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	b.api = api
	b.registerHandlers()

	return b, nil
}

// Start runs long polling until the context is canceled.
func (b *Bot) Start(ctx context.Context) error {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("get bot info: %w", err)
	}
	b.logger.InfoContext(ctx, "telegram bot started", "username", me.Username)
	b.api.Start(ctx)
	return nil
}

// SendText implements reports.Sender so the weekly dispatcher can
// deliver through the same connection.
func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := b.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}

func (b *Bot) registerHandlers() {
	// Exact commands first; the bare-prefix text handler below must
	// stay last so it only sees what nothing else claimed.
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, b.handleStart)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, b.handleHelp)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, b.handleCancel)

	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/tambah", bot.MatchTypePrefix, b.handleTambah)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/laporan", bot.MatchTypePrefix, b.handleLaporan)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/kategori", bot.MatchTypePrefix, b.handleKategori)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/set_budget", bot.MatchTypePrefix, b.handleSetBudget)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/budget", bot.MatchTypePrefix, b.handleBudget)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/weekly", bot.MatchTypePrefix, b.handleWeekly)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypePrefix, b.handleExport)

	b.api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, b.handleCallback)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, b.handleMessage)
}

func (b *Bot) handleUnknown(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.reply(ctx, update.Message.Chat.ID,
		"Perintah tidak dikenal. Gunakan /help untuk daftar perintah.")
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.SendText(ctx, chatID, text); err != nil {
		b.logger.ErrorContext(ctx, "failed to send message",
			log.FieldChatID, chatID,
			log.FieldError, err)
	}
}

func (b *Bot) replyMarkup(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to send message",
			log.FieldChatID, chatID,
			log.FieldError, err)
	}
}
