package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/selvaganesh19/mailform/core/logger"
	tghelpers "github.com/selvaganesh19/mailform/core/telegram/helpers"
)

// Machine drives per-chat dialog sessions. Handle mutates session state in
// the store and returns the effects the caller must perform; it never talks
// to Telegram, the mailer or the drafting backend itself.
//
// Telebot runs each update handler on its own goroutine, so two quick
// messages from one chat reach Handle concurrently. Events for the same chat
// are serialized on a per-chat lock; sessions are only ever touched with it
// held.
type Machine struct {
	store Store

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewMachine builds a Machine on top of the given session store.
func NewMachine(store Store) *Machine {
	return &Machine{
		store: store,
		locks: make(map[int64]*sync.Mutex),
	}
}

func (m *Machine) chatLock(chatID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[chatID] = l
	}
	return l
}

// InProgress reports whether the chat has an active session.
func (m *Machine) InProgress(chatID int64) bool {
	_, ok := m.store.Get(chatID)
	return ok
}

// Handle applies one event to the chat's session and returns resulting effects.
func (m *Machine) Handle(ctx context.Context, chatID int64, ev Event) []Effect {
	lock := m.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	switch e := ev.(type) {
	case StartEvent:
		return m.handleStart(ctx, chatID)
	case CancelEvent:
		m.store.Delete(chatID)
		logger.Info(ctx, "assistant", "session.cancelled", slog.Int64("chat_id", chatID))
		return []Effect{ReplyText{Text: msgCancelled}}
	case RemindEvent:
		m.store.Replace(chatID, newReminderSession())
		logger.Info(ctx, "assistant", "session.created",
			slog.Int64("chat_id", chatID),
			slog.String("mode", string(ModeReminder)),
		)
		return []Effect{ReplyText{Text: msgAskReminderText}}
	case TextEvent:
		return m.handleText(ctx, chatID, e.Text)
	case FileEvent:
		return m.handleFile(chatID, e)
	case CallbackEvent:
		return m.handleCallback(ctx, chatID, e.Tag)
	case draftResult:
		return m.handleDraftResult(ctx, chatID, e)
	case fileResult:
		return m.handleFileResult(ctx, chatID, e)
	default:
		return nil
	}
}

func (m *Machine) handleStart(ctx context.Context, chatID int64) []Effect {
	if err := m.store.Create(chatID, newEmailSession()); err != nil {
		return []Effect{ReplyText{Text: msgSessionExists}}
	}
	logger.Info(ctx, "assistant", "session.created",
		slog.Int64("chat_id", chatID),
		slog.String("mode", string(ModeEmail)),
	)
	return []Effect{ReplyText{Text: msgAskRole}}
}

func (m *Machine) handleText(ctx context.Context, chatID int64, text string) []Effect {
	s, ok := m.store.Get(chatID)
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)

	if s.Mode == ModeReminder {
		return m.handleReminderText(ctx, chatID, s, text)
	}

	switch s.State {
	case StateAwaitingRole:
		s.Data.Role = text
		s.State = StateAwaitingName
		return []Effect{ReplyText{Text: msgAskName}}

	case StateAwaitingName:
		s.Data.Name = text
		s.State = StateAwaitingTone
		return []Effect{ReplyButtons{
			Text: msgChooseTone,
			Buttons: [][]Button{
				{{Label: TagToneFormal, Tag: TagToneFormal}},
				{{Label: TagToneCasual, Tag: TagToneCasual}},
			},
		}}

	case StateAwaitingTopic:
		s.Data.Topic = text
		s.State = StateAwaitingSubject
		return []Effect{ReplyText{Text: msgAskSubject}}

	case StateAwaitingSubject:
		s.Data.Subject = text
		s.State = StateAwaitingRecipient
		return []Effect{ReplyText{Text: msgAskRecipient}}

	case StateAwaitingRecipient:
		s.Data.Recipient = text
		s.State = StateCollectingAttachments
		return []Effect{ReplyButtons{
			Text: msgAskAttachments,
			Buttons: [][]Button{
				{{Label: labelDoneUpload, Tag: TagDoneUpload}},
			},
		}}

	case StateAwaitingSendTime:
		s.SendTime = strings.ToLower(text)
		s.FinalSubject = ResolveSubject(s.Data.Subject, s.Data.Topic, s.Data.Tone)
		logger.Info(ctx, "assistant", "draft.requested",
			slog.Int64("chat_id", chatID),
			slog.String("subject", logger.SanitizeLimit(s.FinalSubject, 128)),
		)
		return []Effect{
			ReplyText{Text: msgGenerating},
			GenerateDraft{
				Role:    s.Data.Role,
				Tone:    s.Data.Tone,
				Topic:   s.Data.Topic,
				Subject: s.FinalSubject,
			},
		}
	}

	// Button-only and upload states ignore free text.
	return nil
}

func (m *Machine) handleReminderText(ctx context.Context, chatID int64, s *Session, text string) []Effect {
	switch s.State {
	case StateAwaitingReminderText:
		s.Data.Text = text
		s.State = StateAwaitingReminderEmail
		return []Effect{ReplyText{Text: msgAskReminderEmail}}

	case StateAwaitingReminderEmail:
		s.Data.Email = text
		s.State = StateAwaitingReminderDate
		return []Effect{ReplyText{Text: msgAskReminderDate}}

	case StateAwaitingReminderDate:
		when, ok := tghelpers.ParseFlexibleDate(text)
		if !ok {
			return []Effect{ReplyText{Text: msgInvalidDate}}
		}
		mail := Mail{
			To:      s.Data.Email,
			Subject: reminderSubject,
			Body:    s.Data.Text,
		}
		m.store.Delete(chatID)
		logger.Info(ctx, "assistant", "reminder.scheduled",
			slog.Int64("chat_id", chatID),
			slog.Time("fire_at", when),
		)
		return []Effect{
			ScheduleMail{At: when, Mail: mail},
			ReplyText{Text: fmt.Sprintf(fmtReminderSet, when.Format(scheduleTimeLayout))},
		}
	}
	return nil
}

func (m *Machine) handleFile(chatID int64, ev FileEvent) []Effect {
	s, ok := m.store.Get(chatID)
	if !ok || s.Mode != ModeEmail || s.State != StateCollectingAttachments {
		return nil
	}
	return []Effect{SaveFile{FileID: ev.FileID, Name: ev.Name}}
}

func (m *Machine) handleCallback(ctx context.Context, chatID int64, tag string) []Effect {
	s, ok := m.store.Get(chatID)
	if !ok {
		return nil
	}

	switch tag {
	case TagToneFormal, TagToneCasual:
		if s.State != StateAwaitingTone {
			return nil
		}
		s.Data.Tone = tag
		s.State = StateAwaitingTopic
		return []Effect{ReplyText{Text: fmt.Sprintf(fmtAskTopic, tag)}}

	case TagDoneUpload:
		if s.State != StateCollectingAttachments {
			return nil
		}
		s.State = StateAwaitingSendTime
		return []Effect{ReplyText{Text: msgAskSendTime}}

	case TagConfirm:
		if s.State != StateAwaitingConfirmation {
			return nil
		}
		return m.confirmSend(ctx, chatID, s)

	case TagDiscard:
		m.store.Delete(chatID)
		logger.Info(ctx, "assistant", "draft.discarded", slog.Int64("chat_id", chatID))
		return []Effect{ReplyText{Text: msgDiscarded}}
	}
	return nil
}

func (m *Machine) confirmSend(ctx context.Context, chatID int64, s *Session) []Effect {
	mail := Mail{
		To:          s.Data.Recipient,
		Subject:     s.FinalSubject,
		Body:        s.GeneratedEmail,
		Attachments: s.Attachments,
		Tone:        s.Data.Tone,
		Topic:       s.Data.Topic,
	}

	if s.SendTime == "now" {
		m.store.Delete(chatID)
		logger.Info(ctx, "assistant", "mail.confirmed",
			slog.Int64("chat_id", chatID),
			slog.String("mode", "immediate"),
		)
		return []Effect{
			SendMail{Mail: mail},
			ReplyText{Text: msgSent},
		}
	}

	when, ok := tghelpers.ParseFlexibleDate(s.SendTime)
	if !ok {
		// Keep the draft; ask for a fresh send time instead of restarting.
		s.State = StateAwaitingSendTime
		logger.Warn(ctx, "assistant", "mail.bad_send_time",
			slog.Int64("chat_id", chatID),
			slog.String("payload", logger.SanitizeLimit(s.SendTime, 64)),
		)
		return []Effect{ReplyText{Text: msgInvalidSend}}
	}

	m.store.Delete(chatID)
	logger.Info(ctx, "assistant", "mail.confirmed",
		slog.Int64("chat_id", chatID),
		slog.String("mode", "scheduled"),
		slog.Time("fire_at", when),
	)
	return []Effect{
		ScheduleMail{At: when, Mail: mail},
		ReplyText{Text: fmt.Sprintf(fmtScheduled, when.Format(scheduleTimeLayout))},
	}
}

func (m *Machine) handleDraftResult(ctx context.Context, chatID int64, res draftResult) []Effect {
	s, ok := m.store.Get(chatID)
	if !ok || s.State != StateAwaitingSendTime {
		return nil
	}

	if res.err != nil {
		logger.Error(ctx, "assistant", "draft.fail",
			slog.Int64("chat_id", chatID),
			slog.String("err", res.err.Error()),
		)
		return []Effect{ReplyText{Text: msgGenFailed}}
	}

	s.GeneratedEmail = ComposeBody(res.body, s.Data.Recipient, s.Data.Name, s.Data.Role)
	s.State = StateAwaitingConfirmation

	preview := fmt.Sprintf(fmtDraftPreview, s.FinalSubject, s.Data.Recipient, s.GeneratedEmail)
	return []Effect{
		ShowPreview{Text: preview},
		ReplyButtons{
			Text: msgConfirmSend,
			Buttons: [][]Button{
				{{Label: labelSendNow, Tag: TagConfirm}},
				{{Label: labelDiscard, Tag: TagDiscard}},
			},
		},
	}
}

func (m *Machine) handleFileResult(ctx context.Context, chatID int64, res fileResult) []Effect {
	s, ok := m.store.Get(chatID)
	if !ok || s.State != StateCollectingAttachments {
		return nil
	}

	if res.err != nil {
		logger.Error(ctx, "assistant", "attachment.fail",
			slog.Int64("chat_id", chatID),
			slog.String("file", res.name),
			slog.String("err", res.err.Error()),
		)
		return []Effect{ReplyText{Text: msgFileSaveFail}}
	}

	s.Attachments = append(s.Attachments, res.path)
	return []Effect{ReplyText{Text: fmt.Sprintf(fmtFileSaved, res.name)}}
}
