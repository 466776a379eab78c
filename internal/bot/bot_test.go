package bot

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/quote-bot/internal/dialog"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

func buttons(t *testing.T, m tgbotapi.MessageConfig) []string {
	t.Helper()
	if m.ReplyMarkup == nil {
		return nil
	}
	kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("markup type %T", m.ReplyMarkup)
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

func TestReplyKeyboards(t *testing.T) {
	final := quotation.NewDraft()
	cases := []struct {
		name  string
		reply dialog.Reply
		first string
	}{
		{"confirm", dialog.Reply{Route: dialog.RouteExtract, Hints: dialog.Hints{ShowConfirmButtons: true}}, "q:finalize"},
		{"checklist", dialog.Reply{Route: dialog.RouteChecklist}, "q:skip"},
		{"clarification", dialog.Reply{Route: dialog.RouteExtract, Hints: dialog.Hints{MissingFields: []quotation.Field{quotation.FieldCustomerName}}}, "q:skip"},
		{"edit", dialog.Reply{Route: dialog.RouteEdit, Hints: dialog.Hints{AwaitingInput: dialog.InputEditCommand, MissingFields: []quotation.Field{quotation.FieldTransport}}}, "nav:back"},
		{"casual", dialog.Reply{Route: dialog.RouteCasual}, ""},
		{"finalized", dialog.Reply{Route: dialog.RouteEdit, Finalized: &final, Hints: dialog.Hints{ShowConfirmButtons: true}}, ""},
	}
	for _, tc := range cases {
		got := buttons(t, replyMessage(1, tc.reply))
		first := ""
		if len(got) > 0 {
			first = got[0]
		}
		if first != tc.first {
			t.Fatalf("%s: buttons %v, want first %q", tc.name, got, tc.first)
		}
		for _, data := range got {
			if _, ok := callbackText(data); !ok {
				t.Fatalf("%s: button %q has no mapping", tc.name, data)
			}
		}
	}
}

func TestCallbackText(t *testing.T) {
	for data, want := range map[string]string{
		"q:finalize": "yes",
		"q:edit":     "no",
		"nav:back":   "back",
		"nav:cancel": "cancel",
	} {
		if got, ok := callbackText(data); !ok || got != want {
			t.Fatalf("callbackText(%q) = %q, %v", data, got, ok)
		}
	}
	if _, ok := callbackText("rq:send"); ok {
		t.Fatal("unknown payload accepted")
	}
}

func TestReplyMessageTruncates(t *testing.T) {
	m := replyMessage(7, dialog.Reply{Text: strings.Repeat("₹", maxMessageLen+10)})
	if n := len([]rune(m.Text)); n != maxMessageLen {
		t.Fatalf("len = %d", n)
	}
	if m.ChatID != 7 {
		t.Fatalf("chat = %d", m.ChatID)
	}
}

func TestSessionKey(t *testing.T) {
	if got := sessionKey(-100123); got != "tg:-100123" {
		t.Fatalf("sessionKey = %q", got)
	}
}
