package router

import (
	"time"

	tg "github.com/selvaganesh19/mailform/core/telegram"
	"github.com/selvaganesh19/mailform/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversation is the minimal interface for a chat-scoped dialog manager.
type Conversation interface {
	InProgress(chatID int64) bool
	HandleUpdate(c tele.Context) error
}

// TextOptions controls fallback behaviour for text, document and photo updates.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes builds handlers for text, document and photo routing. Updates from
// chats with an active dialog flow into the conversation manager; anything else
// falls through to registry commands and fallbacks.
func TextRoutes(conv Conversation, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if conv != nil && c.Chat() != nil && conv.InProgress(c.Chat().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				return conv.HandleUpdate(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	attachmentHandler := func(name string, fallback tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			if conv != nil && c.Chat() != nil && conv.InProgress(c.Chat().ID) {
				return handleWithSummary(c, "dialog_"+name, start, "", "", func() error {
					return conv.HandleUpdate(c)
				})
			}
			if fallback != nil {
				return handleWithSummary(c, "unexpected_"+name, start, "", "", func() error {
					return fallback(c)
				})
			}
			logHandlerSummary(c, "unexpected_"+name, start, "skip", "ok", nil)
			return nil
		}
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
		{
			Endpoint: tele.OnDocument,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(attachmentHandler("document", opts.UnknownDocument))),
		},
		{
			Endpoint: tele.OnPhoto,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(attachmentHandler("photo", nil))),
		},
	}
}
