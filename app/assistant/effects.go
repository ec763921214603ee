package assistant

import "time"

// Effect is a command the machine asks the executor to perform. The machine
// only mutates session state; anything that touches the outside world is
// expressed as an effect.
type Effect interface{ isEffect() }

// Button is one inline keyboard button; Tag is the callback key it fires.
type Button struct {
	Label string
	Tag   string
}

// ReplyText sends a plain text message to the chat.
type ReplyText struct {
	Text string
}

// ReplyButtons sends a Markdown message with an inline keyboard.
type ReplyButtons struct {
	Text    string
	Buttons [][]Button
}

// ShowPreview sends a Markdown-formatted draft preview.
type ShowPreview struct {
	Text string
}

// GenerateDraft asks the drafting backend for an email body. The executor
// feeds the outcome back into the machine as an internal event.
type GenerateDraft struct {
	Role    string
	Tone    string
	Topic   string
	Subject string
}

// SaveFile downloads a Telegram file into the attachment store. The outcome
// is fed back into the machine as an internal event.
type SaveFile struct {
	FileID string
	Name   string
}

// Mail is a fully resolved outgoing message.
type Mail struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
	Tone        string
	Topic       string
}

// SendMail delivers the mail immediately.
type SendMail struct {
	Mail Mail
}

// ScheduleMail delivers the mail at the given time.
type ScheduleMail struct {
	At   time.Time
	Mail Mail
}

func (ReplyText) isEffect()     {}
func (ReplyButtons) isEffect()  {}
func (ShowPreview) isEffect()   {}
func (GenerateDraft) isEffect() {}
func (SaveFile) isEffect()      {}
func (SendMail) isEffect()      {}
func (ScheduleMail) isEffect()  {}
