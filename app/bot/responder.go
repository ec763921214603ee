package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/selvaganesh19/mailform/core/telegram/helpers"
	"github.com/selvaganesh19/mailform/core/telegram/keyboard"

	"github.com/selvaganesh19/mailform/app/assistant"
)

// responder translates machine effects into Telegram sends. It resolves the
// bot lazily because the machine can fire from scheduler goroutines after
// startup.
type responder struct {
	app *App
}

func (r *responder) telebot() (*tele.Bot, error) {
	b := r.app.bot.Load()
	if b == nil {
		return nil, fmt.Errorf("bot: not started yet")
	}
	return b, nil
}

func (r *responder) SendText(ctx context.Context, chatID int64, text string) error {
	b, err := r.telebot()
	if err != nil {
		return err
	}
	return tghelpers.SendTextTo(ctx, b, tele.ChatID(chatID), text)
}

func (r *responder) SendButtons(ctx context.Context, chatID int64, text string, buttons [][]assistant.Button) error {
	b, err := r.telebot()
	if err != nil {
		return err
	}
	rows := make([][]keyboard.InlineBtn, len(buttons))
	for i, row := range buttons {
		rows[i] = make([]keyboard.InlineBtn, len(row))
		for j, btn := range row {
			rows[i][j] = keyboard.InlineBtn{Text: btn.Label, Unique: btn.Tag}
		}
	}
	return tghelpers.SendMarkupTo(ctx, b, tele.ChatID(chatID), text, keyboard.InlineButtonsRows(rows...))
}

func (r *responder) SendPreview(ctx context.Context, chatID int64, text string) error {
	b, err := r.telebot()
	if err != nil {
		return err
	}
	return tghelpers.SendTextTo(ctx, b, tele.ChatID(chatID), text, &tele.SendOptions{
		ParseMode: tele.ModeMarkdown,
	})
}

func (r *responder) NotifyTyping(ctx context.Context, chatID int64) {
	b, err := r.telebot()
	if err != nil {
		return
	}
	tghelpers.NotifyTyping(ctx, b, tele.ChatID(chatID))
}
