package telegram

import (
	"strconv"

	"github.com/go-telegram/bot/models"
)

// Callback data prefixes. Category buttons carry the list index, not
// the name: Telegram caps callback data at 64 bytes and a 50-rune
// multibyte label would not fit.
const (
	callbackCategory    = "cat:"
	callbackNewCategory = "newcat"
	callbackConfirm     = "confirm:"
)

// categoryKeyboard lays the selectable categories out two per row,
// with a final button to type a new one.
func categoryKeyboard(names []string) models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for i, name := range names {
		row = append(row, models.InlineKeyboardButton{
			Text:         name,
			CallbackData: callbackCategory + strconv.Itoa(i),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "➕ Kategori baru", CallbackData: callbackNewCategory},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// categoryFromCallback resolves an index-carrying callback back to
// the category name, against the same sorted list the keyboard was
// built from.
func categoryFromCallback(data string, names []string) (string, bool) {
	idx, err := strconv.Atoi(data)
	if err != nil || idx < 0 || idx >= len(names) {
		return "", false
	}
	return names[idx], true
}

// confirmKeyboard is the final yes/no of the guided entry.
func confirmKeyboard() models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Simpan", CallbackData: callbackConfirm + "yes"},
				{Text: "❌ Batal", CallbackData: callbackConfirm + "no"},
			},
		},
	}
}
