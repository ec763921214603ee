package helpers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/selvaganesh19/mailform/core/logger"
	"github.com/selvaganesh19/mailform/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func enqueueOrRun(ctx context.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendTextTo sends raw text to an arbitrary recipient outside an update context.
// Used by flows that answer a chat after background work (draft generation,
// scheduled delivery confirmations).
func SendTextTo(ctx context.Context, b *tele.Bot, to tele.Recipient, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return enqueueOrRun(ctx, "send.text", "sendMessage", func() error {
		var err error
		if sendOpts != nil {
			_, err = b.Send(to, text, sendOpts)
		} else {
			_, err = b.Send(to, text)
		}
		return err
	})
}

// SendMarkupTo sends a Markdown message with an inline keyboard to an
// arbitrary recipient.
func SendMarkupTo(ctx context.Context, b *tele.Bot, to tele.Recipient, text string, rm *tele.ReplyMarkup) error {
	return SendTextTo(ctx, b, to, text, &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: rm,
	})
}

// NotifyTyping shows the "typing..." chat action to the recipient. Errors are
// logged and swallowed since the action is purely cosmetic.
func NotifyTyping(ctx context.Context, b *tele.Bot, to tele.Recipient) {
	if err := b.Notify(to, tele.Typing); err != nil {
		logger.Debug(ctx, "tg.sender", "notify.fail", slog.String("err", err.Error()))
	}
}
