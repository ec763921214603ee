package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/selvaganesh19/mailform/core/logger"
)

// Responder delivers messages to a chat.
type Responder interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, buttons [][]Button) error
	SendPreview(ctx context.Context, chatID int64, text string) error
	NotifyTyping(ctx context.Context, chatID int64)
}

// Mailer delivers outgoing mail.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// Scheduler runs a job once at the given time.
type Scheduler interface {
	At(t time.Time, name string, fn func()) error
}

// Generator produces an email body draft.
type Generator interface {
	Generate(ctx context.Context, role, tone, topic, subject string) (string, error)
}

// FileFetcher downloads a Telegram file and returns its local path.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID, name string) (string, error)
}

// Executor runs machine effects against the real collaborators and feeds
// effect outcomes back into the machine as internal events.
type Executor struct {
	machine   *Machine
	responder Responder
	mailer    Mailer
	scheduler Scheduler
	generator Generator
	files     FileFetcher
}

// NewExecutor wires a Machine to its collaborators.
func NewExecutor(m *Machine, r Responder, mailer Mailer, sch Scheduler, gen Generator, files FileFetcher) *Executor {
	return &Executor{
		machine:   m,
		responder: r,
		mailer:    mailer,
		scheduler: sch,
		generator: gen,
		files:     files,
	}
}

// Machine exposes the underlying dialog machine.
func (e *Executor) Machine() *Machine {
	return e.machine
}

// Dispatch applies an event and performs all resulting effects in order.
func (e *Executor) Dispatch(ctx context.Context, chatID int64, ev Event) error {
	effects := e.machine.Handle(ctx, chatID, ev)
	for _, eff := range effects {
		if err := e.apply(ctx, chatID, eff); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) apply(ctx context.Context, chatID int64, eff Effect) error {
	switch ef := eff.(type) {
	case ReplyText:
		return e.responder.SendText(ctx, chatID, ef.Text)

	case ReplyButtons:
		return e.responder.SendButtons(ctx, chatID, ef.Text, ef.Buttons)

	case ShowPreview:
		return e.responder.SendPreview(ctx, chatID, ef.Text)

	case GenerateDraft:
		e.responder.NotifyTyping(ctx, chatID)
		body, err := e.generator.Generate(ctx, ef.Role, ef.Tone, ef.Topic, ef.Subject)
		return e.Dispatch(ctx, chatID, draftResult{body: body, err: err})

	case SaveFile:
		path, err := e.files.Fetch(ctx, ef.FileID, ef.Name)
		return e.Dispatch(ctx, chatID, fileResult{path: path, name: ef.Name, err: err})

	case SendMail:
		// Delivery runs in the background; the user already got the
		// confirmation and failures surface only in the logs.
		bg := context.WithoutCancel(ctx)
		go func() {
			if err := e.mailer.Send(bg, ef.Mail); err != nil {
				logger.Error(bg, "mail", "send.fail",
					slog.Int64("chat_id", chatID),
					slog.String("to", logger.SanitizeLimit(ef.Mail.To, 128)),
					slog.String("err", err.Error()),
				)
			}
		}()
		return nil

	case ScheduleMail:
		mail := ef.Mail
		bg := context.WithoutCancel(ctx)
		name := fmt.Sprintf("mail:%d:%d", chatID, ef.At.Unix())
		return e.scheduler.At(ef.At, name, func() {
			if err := e.mailer.Send(bg, mail); err != nil {
				logger.Error(bg, "mail", "send.fail",
					slog.Int64("chat_id", chatID),
					slog.String("to", logger.SanitizeLimit(mail.To, 128)),
					slog.String("err", err.Error()),
				)
			}
		})
	}
	return nil
}
