package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/quote-bot/internal/dialog"
)

// Callback payloads and the message each one stands for.
var callbacks = map[string]string{
	"q:finalize": "yes",
	"q:edit":     "no",
	"q:skip":     "skip",
	"q:draft":    "show draft",
	"nav:back":   "back",
	"nav:cancel": "cancel",
}

func callbackText(data string) (string, bool) {
	text, ok := callbacks[data]
	return text, ok
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Finalize", "q:finalize"),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", "q:edit"),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}

func stepKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", "q:skip"),
			tgbotapi.NewInlineKeyboardButtonData("📄 Draft", "q:draft"),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// keyboardFor picks inline buttons from the reply hints. Casual replies and
// finalized quotations get none.
func keyboardFor(r dialog.Reply) (tgbotapi.InlineKeyboardMarkup, bool) {
	switch {
	case r.Finalized != nil:
		return tgbotapi.InlineKeyboardMarkup{}, false
	case r.Hints.ShowConfirmButtons:
		return confirmKeyboard(), true
	case r.Hints.AwaitingInput == dialog.InputEditCommand:
		return navKeyboard(true, true), true
	case r.Route == dialog.RouteChecklist || len(r.Hints.MissingFields) > 0:
		return stepKeyboard(), true
	}
	return tgbotapi.InlineKeyboardMarkup{}, false
}
