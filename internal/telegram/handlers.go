package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"quillie/internal/config"
	"quillie/internal/core"
	"quillie/internal/log"
	"quillie/internal/reports"
	"quillie/internal/session"
	"quillie/internal/storage"
)

const (
	promptAmount      = "💰 Masukkan jumlah pengeluaran (contoh: 50000):"
	promptDescription = "📝 Ketik deskripsi, atau \"skip\" untuk lewati:"
	msgCanceled       = "❌ Entri dibatalkan."
	msgNeedStart      = "Gunakan /start dulu untuk mendaftar."
	msgInternalError  = "Terjadi kesalahan. Coba lagi nanti."

	tambahUsage = "Format: /tambah <jumlah> <kategori> [deskripsi]\n" +
		"Atau kirim /tambah tanpa argumen untuk entri terpandu."
	laporanUsage = "Format: /laporan [hari|minggu|bulan|tahun]\n" +
		"Atau: /laporan YYYY-MM-DD YYYY-MM-DD"
	setBudgetUsage = "Format: /set_budget <jumlah>\n" +
		"Gunakan /set_budget hapus untuk menghapus budget."
	weeklyUsage = "Format: /weekly on|off"
)

// periodAliases maps the Indonesian command keywords onto the period
// tokens the resolver understands. English tokens pass through.
var periodAliases = map[string]string{
	"hari":   core.PeriodToday,
	"minggu": core.PeriodWeek,
	"bulan":  core.PeriodMonth,
	"tahun":  core.PeriodYear,
}

// commandArgs splits a command message into its arguments, dropping
// the command itself.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

func mapPeriodArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		token := strings.ToLower(arg)
		if mapped, ok := periodAliases[token]; ok {
			token = mapped
		}
		out[i] = token
	}
	return out
}

// requireUser resolves the sender to a registered user, prompting for
// /start when unknown.
func (b *Bot) requireUser(ctx context.Context, chatID, telegramUserID int64) (core.User, bool) {
	user, err := b.store.FindUserByTelegramID(ctx, telegramUserID)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(ctx, chatID, msgNeedStart)
		return core.User{}, false
	}
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to look up user",
			log.FieldTelegramID, telegramUserID,
			log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
		return core.User{}, false
	}
	return user, true
}

// abandonSession drops any guided entry in flight. Every command
// handler calls it first: a command mid-conversation cancels the
// conversation.
func (b *Bot) abandonSession(telegramUserID int64) {
	b.sessions.Clear(telegramUserID)
}

func (b *Bot) handleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	b.abandonSession(from.ID)

	user, err := b.store.UpsertUser(ctx, from.ID, from.Username, from.FirstName, from.LastName)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to register user",
			log.FieldTelegramID, from.ID,
			log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
		return
	}

	b.logger.InfoContext(ctx, "user registered",
		log.FieldUserID, user.ID,
		log.FieldTelegramID, from.ID)

	b.reply(ctx, chatID, fmt.Sprintf(
		"👋 Halo, %s!\n\n"+
			"Aku Quillie, pencatat pengeluaran pribadimu.\n\n"+
			"Perintah:\n"+
			"/tambah - catat pengeluaran\n"+
			"/laporan - laporan pengeluaran\n"+
			"/kategori - daftar kategori\n"+
			"/set_budget - atur budget bulanan\n"+
			"/budget - status budget\n"+
			"/weekly on|off - laporan mingguan otomatis\n"+
			"/export - ekspor CSV\n"+
			"/cancel - batalkan entri\n\n"+
			"Kategori bawaan: %s",
		from.FirstName, strings.Join(config.DefaultCategories, ", ")))
}

func (b *Bot) handleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	b.abandonSession(update.Message.From.ID)
	b.reply(ctx, update.Message.Chat.ID,
		"📚 Perintah yang tersedia:\n\n"+
			"/tambah - catat pengeluaran, terpandu langkah demi langkah\n"+
			"/tambah <jumlah> <kategori> [deskripsi] - catat langsung\n"+
			"/laporan [hari|minggu|bulan|tahun] - laporan periode\n"+
			"/laporan YYYY-MM-DD YYYY-MM-DD - laporan rentang tanggal\n"+
			"/kategori - daftar kategori\n"+
			"/set_budget <jumlah> - atur budget bulanan\n"+
			"/budget - status budget bulan ini\n"+
			"/weekly on|off - laporan mingguan otomatis\n"+
			"/export [periode] - ekspor pengeluaran sebagai CSV\n"+
			"/cancel - batalkan entri yang sedang berjalan")
}

func (b *Bot) handleCancel(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !b.sessions.Active(userID) {
		b.reply(ctx, chatID, "Tidak ada entri yang sedang berjalan.")
		return
	}
	b.sessions.Clear(userID)
	b.reply(ctx, chatID, msgCanceled)
}

// handleTambah starts the guided entry, or records directly when the
// amount and category ride along on the command.
func (b *Bot) handleTambah(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	b.abandonSession(from.ID)

	user, ok := b.requireUser(ctx, chatID, from.ID)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	switch {
	case len(args) == 0:
		b.sessions.Start(from.ID)
		b.reply(ctx, chatID, promptAmount)
	case len(args) == 1:
		b.reply(ctx, chatID, tambahUsage)
	default:
		b.recordDirect(ctx, chatID, user, args)
	}
}

// recordDirect is the one-message entry path: amount, category and an
// optional trailing description.
func (b *Bot) recordDirect(ctx context.Context, chatID int64, user core.User, args []string) {
	amount, err := core.ParseAmount(args[0])
	if err != nil {
		b.reply(ctx, chatID, "❌ Jumlah tidak valid. Contoh: /tambah 50000 Makan")
		return
	}

	expense := core.Expense{
		UserID:      user.ID,
		Amount:      amount,
		Category:    strings.TrimSpace(args[1]),
		Description: strings.Join(args[2:], " "),
		Date:        core.DateOnly(b.now()),
	}
	saved, err := b.expenses.RecordExpense(ctx, expense)
	if err != nil {
		b.replyExpenseError(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, reports.FormatExpenseSaved(saved))
}

func (b *Bot) replyExpenseError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		b.reply(ctx, chatID, "❌ Jumlah tidak valid.")
	case errors.Is(err, core.ErrInvalidCategory):
		b.reply(ctx, chatID, fmt.Sprintf("❌ Kategori tidak valid (1-%d karakter).", core.MaxCategoryLen))
	case errors.Is(err, core.ErrLongDescription):
		b.reply(ctx, chatID, fmt.Sprintf("❌ Deskripsi terlalu panjang (maksimal %d karakter).", core.MaxDescriptionLen))
	default:
		b.logger.ErrorContext(ctx, "failed to record expense", log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
	}
}

func (b *Bot) handleLaporan(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	b.abandonSession(from.ID)

	user, ok := b.requireUser(ctx, chatID, from.ID)
	if !ok {
		return
	}

	args := mapPeriodArgs(commandArgs(update.Message.Text))
	report, err := b.reports.PeriodReport(ctx, user, args)
	if errors.Is(err, core.ErrInvalidPeriod) {
		b.reply(ctx, chatID, laporanUsage)
		return
	}
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to build report",
			log.FieldUserID, user.ID,
			log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
		return
	}
	b.reply(ctx, chatID, report)
}

func (b *Bot) handleKategori(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	b.abandonSession(from.ID)

	user, ok := b.requireUser(ctx, chatID, from.ID)
	if !ok {
		return
	}

	names, err := b.store.ListCategories(ctx, user.ID)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to list categories",
			log.FieldUserID, user.ID,
			log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
		return
	}
	b.reply(ctx, chatID, reports.FormatCategories(names))
}

func (b *Bot) handleSetBudget(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	b.abandonSession(from.ID)

	user, ok := b.requireUser(ctx, chatID, from.ID)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		b.reply(ctx, chatID, setBudgetUsage)
		return
	}

	if strings.EqualFold(args[0], "hapus") {
		if err := b.store.SetMonthlyBudget(ctx, user.ID, nil); err != nil {
			b.logger.ErrorContext(ctx, "failed to clear budget",
				log.FieldUserID, user.ID,
				log.FieldError, err)
			b.reply(ctx, chatID, msgInternalError)
			return
		}
		b.reply(ctx, chatID, "✅ Budget bulanan dihapus.")
		return
	}

	amount, err := core.ParseAmount(args[0])
	if err != nil {
		b.reply(ctx, chatID, setBudgetUsage)
		return
	}
	if err := b.store.SetMonthlyBudget(ctx, user.ID, &amount); err != nil {
		b.logger.ErrorContext(ctx, "failed to set budget",
			log.FieldUserID, user.ID,
			log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("✅ Budget bulanan diatur: %s", reports.FormatCurrency(amount)))
}

func (b *Bot) handleBudget(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	b.abandonSession(from.ID)

	user, ok := b.requireUser(ctx, chatID, from.ID)
	if !ok {
		return
	}

	report, err := b.reports.BudgetReport(ctx, user)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to build budget report",
			log.FieldUserID, user.ID,
			log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
		return
	}
	b.reply(ctx, chatID, report)
}

func (b *Bot) handleWeekly(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	b.abandonSession(from.ID)

	user, ok := b.requireUser(ctx, chatID, from.ID)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		b.reply(ctx, chatID, weeklyUsage)
		return
	}

	var enabled bool
	switch strings.ToLower(args[0]) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		b.reply(ctx, chatID, weeklyUsage)
		return
	}

	if err := b.store.SetWeeklyOptIn(ctx, user.ID, enabled); err != nil {
		b.logger.ErrorContext(ctx, "failed to toggle weekly reports",
			log.FieldUserID, user.ID,
			log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
		return
	}
	if enabled {
		b.reply(ctx, chatID, "✅ Laporan mingguan diaktifkan. Laporan dikirim setiap Senin pagi.")
	} else {
		b.reply(ctx, chatID, "✅ Laporan mingguan dimatikan.")
	}
}

func (b *Bot) handleExport(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	b.abandonSession(from.ID)

	user, ok := b.requireUser(ctx, chatID, from.ID)
	if !ok {
		return
	}

	args := mapPeriodArgs(commandArgs(update.Message.Text))
	csvText, err := b.reports.ExportCSV(ctx, user, args)
	if errors.Is(err, core.ErrInvalidPeriod) {
		b.reply(ctx, chatID, laporanUsage)
		return
	}
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to export expenses",
			log.FieldUserID, user.ID,
			log.FieldError, err)
		b.reply(ctx, chatID, msgInternalError)
		return
	}
	b.reply(ctx, chatID, "📄 Ekspor CSV:\n\n"+csvText)
}

// handleMessage is the catch-all text handler: with a guided entry in
// flight the text feeds the session, otherwise it is an unknown
// message.
func (b *Bot) handleMessage(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	if !b.sessions.Active(from.ID) {
		b.reply(ctx, chatID, "Aku tidak mengerti. Gunakan /help untuk daftar perintah.")
		return
	}

	// A slash message only reaches the catch-all when no command
	// handler claimed it. It is still a command, not step input: it
	// cancels the entry instead of becoming, say, a category name.
	if isCommand(text) {
		b.sessions.Clear(from.ID)
		b.reply(ctx, chatID, msgCanceled+"\nPerintah tidak dikenal. Gunakan /help untuk daftar perintah.")
		return
	}

	user, ok := b.requireUser(ctx, chatID, from.ID)
	if !ok {
		return
	}
	b.advanceSession(ctx, chatID, user, from.ID, text)
}

// isCommand reports whether a message is a bot command rather than
// conversational input.
func isCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// advanceSession feeds one input to the guided entry and sends the
// next prompt, a validation retry, or the commit outcome.
func (b *Bot) advanceSession(ctx context.Context, chatID int64, user core.User, telegramUserID int64, input string) {
	result, ok := b.sessions.Advance(telegramUserID, input)
	if !ok {
		return
	}

	b.logger.DebugContext(ctx, "session advanced",
		log.FieldTelegramID, telegramUserID,
		log.FieldStep, result.Step.String())

	switch result.Action {
	case session.ActionRetry:
		b.replyRetry(ctx, chatID, result)
	case session.ActionNext:
		b.promptStep(ctx, chatID, user, result.Step)
	case session.ActionCommit:
		b.commitDraft(ctx, chatID, user, telegramUserID)
	case session.ActionCancel:
		b.sessions.Clear(telegramUserID)
		b.reply(ctx, chatID, msgCanceled)
	}
}

func (b *Bot) replyRetry(ctx context.Context, chatID int64, result session.Result) {
	switch {
	case errors.Is(result.Reason, core.ErrInvalidAmount):
		b.reply(ctx, chatID, "❌ Jumlah tidak valid. Masukkan angka, contoh: 50000")
	case errors.Is(result.Reason, core.ErrInvalidCategory):
		b.reply(ctx, chatID, fmt.Sprintf("❌ Kategori tidak valid (1-%d karakter). Coba lagi:", core.MaxCategoryLen))
	case errors.Is(result.Reason, core.ErrLongDescription):
		b.reply(ctx, chatID, fmt.Sprintf("❌ Deskripsi terlalu panjang (maksimal %d karakter). Coba lagi:", core.MaxDescriptionLen))
	case errors.Is(result.Reason, session.ErrNotConfirmation):
		b.reply(ctx, chatID, "Pilih ✅ Simpan atau ❌ Batal.")
	default:
		b.reply(ctx, chatID, "❌ Masukan tidak valid. Coba lagi:")
	}
}

func (b *Bot) promptStep(ctx context.Context, chatID int64, user core.User, step session.Step) {
	switch step {
	case session.StepCategory:
		names, err := b.store.ListCategories(ctx, user.ID)
		if err != nil {
			b.logger.ErrorContext(ctx, "failed to list categories",
				log.FieldUserID, user.ID,
				log.FieldError, err)
			b.reply(ctx, chatID, "🏷️ Ketik nama kategori:")
			return
		}
		b.replyMarkup(ctx, chatID, "🏷️ Pilih kategori:", categoryKeyboard(names))
	case session.StepDescription:
		b.reply(ctx, chatID, promptDescription)
	case session.StepConfirm:
		draft, ok := b.sessions.Draft(user.TelegramUserID)
		if !ok {
			return
		}
		text := fmt.Sprintf("Simpan pengeluaran ini?\n\n💰 %s\n🏷️ %s",
			reports.FormatCurrency(draft.Amount), draft.Category)
		if draft.Description != "" {
			text += "\n📝 " + draft.Description
		}
		b.replyMarkup(ctx, chatID, text, confirmKeyboard())
	}
}

// commitDraft turns the confirmed draft into a stored expense.
func (b *Bot) commitDraft(ctx context.Context, chatID int64, user core.User, telegramUserID int64) {
	draft, ok := b.sessions.Draft(telegramUserID)
	if !ok {
		return
	}
	b.sessions.Clear(telegramUserID)

	expense := core.Expense{
		UserID:      user.ID,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Description: draft.Description,
		Date:        core.DateOnly(b.now()),
	}
	saved, err := b.expenses.RecordExpense(ctx, expense)
	if err != nil {
		b.replyExpenseError(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, reports.FormatExpenseSaved(saved))
}

// handleCallback routes inline keyboard presses: category picks and
// the final confirmation both feed the session as if typed.
func (b *Bot) handleCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	callback := update.CallbackQuery
	telegramUserID := callback.From.ID

	var chatID int64
	if msg := callback.Message.Message; msg != nil {
		chatID = msg.Chat.ID
	} else {
		b.ackCallback(ctx, callback.ID)
		return
	}

	defer b.ackCallback(ctx, callback.ID)

	if !b.sessions.Active(telegramUserID) {
		return
	}
	user, ok := b.requireUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	data := callback.Data
	switch {
	case data == callbackNewCategory:
		b.reply(ctx, chatID, "🏷️ Ketik nama kategori baru:")
	case strings.HasPrefix(data, callbackCategory):
		// The button carries an index into the sorted category list;
		// resolve it against a fresh listing.
		names, err := b.store.ListCategories(ctx, user.ID)
		if err != nil {
			b.logger.ErrorContext(ctx, "failed to list categories",
				log.FieldUserID, user.ID,
				log.FieldError, err)
			b.reply(ctx, chatID, msgInternalError)
			return
		}
		name, ok := categoryFromCallback(strings.TrimPrefix(data, callbackCategory), names)
		if !ok {
			b.reply(ctx, chatID, "🏷️ Pilihan tidak dikenal. Ketik nama kategori:")
			return
		}
		b.advanceSession(ctx, chatID, user, telegramUserID, name)
	case strings.HasPrefix(data, callbackConfirm):
		b.advanceSession(ctx, chatID, user, telegramUserID, strings.TrimPrefix(data, callbackConfirm))
	}
}

func (b *Bot) ackCallback(ctx context.Context, callbackID string) {
	_, err := b.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	})
	if err != nil {
		b.logger.WarnContext(ctx, "failed to answer callback", log.FieldError, err)
	}
}
