package bot

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/selvaganesh19/mailform/core/telegram"
	"github.com/selvaganesh19/mailform/core/telegram/commands"
	tghelpers "github.com/selvaganesh19/mailform/core/telegram/helpers"

	"github.com/selvaganesh19/mailform/app/assistant"
)

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Start composing an email",
		Handler:     a.dispatchHandler(assistant.StartEvent{}),
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Description: "Cancel the current session",
		Handler:     a.dispatchHandler(assistant.CancelEvent{}),
	})
	reg.RegisterCommand("/remindme", commands.Command{
		Description: "Schedule an email reminder",
		Handler:     a.dispatchHandler(assistant.RemindEvent{}),
	})
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) {
	for _, tag := range []string{
		assistant.TagToneFormal,
		assistant.TagToneCasual,
		assistant.TagDoneUpload,
		assistant.TagConfirm,
		assistant.TagDiscard,
	} {
		tag := tag
		_ = reg.RegisterCallback(tag, a.dispatchHandler(assistant.CallbackEvent{Tag: tag}))
	}
}

func (a *App) dispatchHandler(ev assistant.Event) tele.HandlerFunc {
	return func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return nil
		}
		return a.executor.Dispatch(tghelpers.BuildContext(c), chat.ID, ev)
	}
}

// InProgress reports whether the chat has an active dialog. Part of the
// router.Conversation interface.
func (a *App) InProgress(chatID int64) bool {
	_, ok := a.store.Get(chatID)
	return ok
}

// HandleUpdate feeds a message from an active dialog into the machine. Part
// of the router.Conversation interface.
func (a *App) HandleUpdate(c tele.Context) error {
	chat := c.Chat()
	msg := c.Message()
	if chat == nil || msg == nil {
		return nil
	}

	ev := eventFromMessage(msg, c.Text())
	if ev == nil {
		return nil
	}
	return a.executor.Dispatch(tghelpers.BuildContext(c), chat.ID, ev)
}

func eventFromMessage(msg *tele.Message, text string) assistant.Event {
	switch {
	case msg.Document != nil:
		return assistant.FileEvent{
			FileID: msg.Document.FileID,
			Name:   msg.Document.FileName,
		}
	case msg.Photo != nil:
		// Photos carry no filename; stamp one so attachments stay unique.
		return assistant.FileEvent{
			FileID: msg.Photo.FileID,
			Name:   fmt.Sprintf("img_%d.jpg", time.Now().UnixMilli()),
		}
	case text != "":
		return assistant.TextEvent{Text: text}
	}
	return nil
}
