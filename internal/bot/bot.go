package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/quote-bot/internal/dialog"
	"github.com/Spok95/quote-bot/internal/domain/materials"
)

// Sessions is the part of dialog.Manager the bot drives.
type Sessions interface {
	Handle(ctx context.Context, sessionID, text string) (dialog.Reply, error)
	Reset(ctx context.Context, sessionID string) error
	State(ctx context.Context, sessionID string) (dialog.State, error)
	SetRateOverrides(ctx context.Context, sessionID string, rates map[string]float64) error
}

// RateStore persists admin rate uploads.
type RateStore interface {
	Upsert(ctx context.Context, rates map[string]float64) error
}

type Bot struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	sessions  Sessions
	rates     materials.RateTable
	store     RateStore
	adminChat int64
}

// New wires the bot. store may be nil when rates are not persisted.
func New(api *tgbotapi.BotAPI, log *slog.Logger, sessions Sessions,
	rates materials.RateTable, store RateStore, adminChatID int64) *Bot {

	return &Bot{
		api: api, log: log, sessions: sessions,
		rates: rates, store: store, adminChat: adminChatID,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case msg.Document != nil:
		b.handleRateSheet(ctx, msg)
	default:
		b.handleText(ctx, msg.Chat.ID, msg.Text)
	}
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	_ = b.answerCallback(cb, "", false)
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	b.clearMarkup(chatID, cb.Message.MessageID)

	text, ok := callbackText(cb.Data)
	if !ok {
		b.log.Warn("unknown callback", "data", cb.Data)
		return
	}
	b.handleText(ctx, chatID, text)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.handleText(ctx, chatID, "hello")
	case "reset":
		if err := b.sessions.Reset(ctx, sessionKey(chatID)); err != nil {
			b.log.Error("reset failed", "chat", chatID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Something went wrong, please try again."))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "Session cleared. Send a product list or say \"create a quotation\" to start."))
	case "rates":
		b.exportRates(ctx, chatID)
	default:
		// help, draft, cancel, back and the rest of the meta commands
		// are understood by the conversation itself.
		b.handleText(ctx, chatID, msg.Command())
	}
}

func (b *Bot) handleText(ctx context.Context, chatID int64, text string) {
	reply, err := b.sessions.Handle(ctx, sessionKey(chatID), text)
	switch {
	case errors.Is(err, dialog.ErrDiscarded):
		return
	case err != nil:
		b.log.Error("turn failed", "chat", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Something went wrong, please try again."))
		return
	}
	b.send(replyMessage(chatID, reply))

	if reply.Finalized != nil && b.adminChat != 0 && b.adminChat != chatID {
		note := fmt.Sprintf("New quotation from chat %d\n\n%s", chatID, reply.Finalized.Summary())
		b.send(tgbotapi.NewMessage(b.adminChat, note))
	}
}

// handleRateSheet applies an uploaded rate workbook to the sender's session.
// Uploads from the admin chat are also persisted for every session.
func (b *Bot) handleRateSheet(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".xlsx") {
		b.send(tgbotapi.NewMessage(chatID, "Please send the rate sheet as an .xlsx file (use /rates to get a template)."))
		return
	}

	data, err := b.downloadTelegramFile(msg.Document.FileID)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Could not download the file from Telegram: "+err.Error()))
		return
	}
	rates, err := materials.ReadRateSheet(bytes.NewReader(data))
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Could not read the rate sheet: "+err.Error()))
		return
	}
	if err := b.sessions.SetRateOverrides(ctx, sessionKey(chatID), rates); err != nil {
		b.log.Error("apply rates failed", "chat", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Something went wrong, please try again."))
		return
	}

	text := fmt.Sprintf("Applied %d rates to this conversation.", len(rates))
	if chatID == b.adminChat && b.store != nil {
		if err := b.store.Upsert(ctx, rates); err != nil {
			b.log.Error("persist rates failed", "err", err)
			text += " Saving them for everyone failed."
		} else {
			text += " Saved as the default for new sessions after restart."
		}
	}
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) exportRates(ctx context.Context, chatID int64) {
	rt := b.rates
	if st, err := b.sessions.State(ctx, sessionKey(chatID)); err == nil {
		rt = rt.WithRates(st.RateOverrides)
	}

	buf := &bytes.Buffer{}
	if err := materials.WriteRateSheet(buf, rt); err != nil {
		b.log.Error("rate sheet export failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not build the rate sheet."))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("rates_%s.xlsx", time.Now().Format("20060102_150405")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = "Rates per kg by product family. Edit rate_per_kg and send the file back to apply it. Keyword changes apply when the file is the configured rate sheet."
	b.send(doc)
}
