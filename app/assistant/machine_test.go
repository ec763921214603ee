package assistant

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChat = int64(42)

func newTestMachine() (*Machine, *MemoryStore) {
	store := NewMemoryStore()
	return NewMachine(store), store
}

// driveToSendTime walks a fresh session up to the send-time prompt.
func driveToSendTime(t *testing.T, m *Machine, recipient string) {
	t.Helper()
	ctx := context.Background()

	m.Handle(ctx, testChat, StartEvent{})
	m.Handle(ctx, testChat, TextEvent{Text: "Developer"})
	m.Handle(ctx, testChat, TextEvent{Text: "Jane Roe"})
	m.Handle(ctx, testChat, CallbackEvent{Tag: TagToneFormal})
	m.Handle(ctx, testChat, TextEvent{Text: "Q3 report"})
	m.Handle(ctx, testChat, TextEvent{Text: "auto"})
	m.Handle(ctx, testChat, TextEvent{Text: recipient})
	m.Handle(ctx, testChat, CallbackEvent{Tag: TagDoneUpload})
}

func TestStartCreatesSessionOnce(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	effects := m.Handle(ctx, testChat, StartEvent{})
	require.Equal(t, []Effect{ReplyText{Text: msgAskRole}}, effects)

	s, ok := store.Get(testChat)
	require.True(t, ok)
	assert.Equal(t, ModeEmail, s.Mode)
	assert.Equal(t, StateAwaitingRole, s.State)

	// A second /start warns and leaves the session intact.
	effects = m.Handle(ctx, testChat, StartEvent{})
	require.Equal(t, []Effect{ReplyText{Text: msgSessionExists}}, effects)
	again, _ := store.Get(testChat)
	assert.Same(t, s, again)
}

func TestCancelAlwaysConfirms(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	// No session yet: still confirms.
	effects := m.Handle(ctx, testChat, CancelEvent{})
	require.Equal(t, []Effect{ReplyText{Text: msgCancelled}}, effects)

	m.Handle(ctx, testChat, StartEvent{})
	effects = m.Handle(ctx, testChat, CancelEvent{})
	require.Equal(t, []Effect{ReplyText{Text: msgCancelled}}, effects)
	_, ok := store.Get(testChat)
	assert.False(t, ok)
}

func TestRemindReplacesActiveSession(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	m.Handle(ctx, testChat, StartEvent{})
	effects := m.Handle(ctx, testChat, RemindEvent{})
	require.Equal(t, []Effect{ReplyText{Text: msgAskReminderText}}, effects)

	s, ok := store.Get(testChat)
	require.True(t, ok)
	assert.Equal(t, ModeReminder, s.Mode)
	assert.Equal(t, StateAwaitingReminderText, s.State)
}

func TestToneRequiresButtonPress(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	m.Handle(ctx, testChat, StartEvent{})
	m.Handle(ctx, testChat, TextEvent{Text: "Developer"})
	effects := m.Handle(ctx, testChat, TextEvent{Text: "Jane Roe"})

	require.Len(t, effects, 1)
	rb, ok := effects[0].(ReplyButtons)
	require.True(t, ok)
	assert.Equal(t, msgChooseTone, rb.Text)
	require.Len(t, rb.Buttons, 2)
	assert.Equal(t, TagToneFormal, rb.Buttons[0][0].Tag)
	assert.Equal(t, TagToneCasual, rb.Buttons[1][0].Tag)

	// Free text while waiting for the button is dropped.
	effects = m.Handle(ctx, testChat, TextEvent{Text: "formal please"})
	assert.Empty(t, effects)
	s, _ := store.Get(testChat)
	assert.Equal(t, StateAwaitingTone, s.State)
	assert.Empty(t, s.Data.Tone)

	effects = m.Handle(ctx, testChat, CallbackEvent{Tag: TagToneCasual})
	require.Equal(t, []Effect{ReplyText{Text: fmt.Sprintf(fmtAskTopic, TagToneCasual)}}, effects)
	s, _ = store.Get(testChat)
	assert.Equal(t, "Casual", s.Data.Tone)
	assert.Equal(t, StateAwaitingTopic, s.State)
}

func TestToneCallbackIgnoredOutsideTonePrompt(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	m.Handle(ctx, testChat, StartEvent{})
	effects := m.Handle(ctx, testChat, CallbackEvent{Tag: TagToneFormal})
	assert.Empty(t, effects)
	s, _ := store.Get(testChat)
	assert.Equal(t, StateAwaitingRole, s.State)
}

func TestDoneUploadOnlyWhileCollecting(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	m.Handle(ctx, testChat, StartEvent{})
	effects := m.Handle(ctx, testChat, CallbackEvent{Tag: TagDoneUpload})
	assert.Empty(t, effects)
	s, _ := store.Get(testChat)
	assert.Equal(t, StateAwaitingRole, s.State)
}

func TestAttachmentFlow(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	m.Handle(ctx, testChat, StartEvent{})
	m.Handle(ctx, testChat, TextEvent{Text: "Developer"})
	m.Handle(ctx, testChat, TextEvent{Text: "Jane Roe"})
	m.Handle(ctx, testChat, CallbackEvent{Tag: TagToneFormal})
	m.Handle(ctx, testChat, TextEvent{Text: "Q3 report"})
	m.Handle(ctx, testChat, TextEvent{Text: "auto"})
	effects := m.Handle(ctx, testChat, TextEvent{Text: "alice@example.com"})

	require.Len(t, effects, 1)
	rb := effects[0].(ReplyButtons)
	assert.Equal(t, msgAskAttachments, rb.Text)
	assert.Equal(t, TagDoneUpload, rb.Buttons[0][0].Tag)

	// Upload turns into a SaveFile effect; the download result appends.
	effects = m.Handle(ctx, testChat, FileEvent{FileID: "f1", Name: "report.pdf"})
	require.Equal(t, []Effect{SaveFile{FileID: "f1", Name: "report.pdf"}}, effects)

	effects = m.Handle(ctx, testChat, fileResult{path: "/tmp/report.pdf", name: "report.pdf"})
	require.Equal(t, []Effect{ReplyText{Text: "✅ Saved: report.pdf"}}, effects)

	effects = m.Handle(ctx, testChat, fileResult{path: "/tmp/img.jpg", name: "img.jpg"})
	require.Len(t, effects, 1)

	s, _ := store.Get(testChat)
	assert.Equal(t, []string{"/tmp/report.pdf", "/tmp/img.jpg"}, s.Attachments)

	// Failed downloads report without touching the list.
	effects = m.Handle(ctx, testChat, fileResult{name: "broken.bin", err: fmt.Errorf("boom")})
	require.Equal(t, []Effect{ReplyText{Text: msgFileSaveFail}}, effects)
	s, _ = store.Get(testChat)
	assert.Len(t, s.Attachments, 2)

	// Plain text while collecting attachments is ignored.
	effects = m.Handle(ctx, testChat, TextEvent{Text: "hello?"})
	assert.Empty(t, effects)
}

func TestFileIgnoredOutsideCollecting(t *testing.T) {
	m, _ := newTestMachine()
	ctx := context.Background()

	m.Handle(ctx, testChat, StartEvent{})
	effects := m.Handle(ctx, testChat, FileEvent{FileID: "f1", Name: "early.pdf"})
	assert.Empty(t, effects)
}

func TestSendTimeTriggersDraftWithRecommendedSubject(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	driveToSendTime(t, m, "alice@example.com")
	effects := m.Handle(ctx, testChat, TextEvent{Text: "NOW"})

	require.Len(t, effects, 2)
	assert.Equal(t, ReplyText{Text: msgGenerating}, effects[0])
	gd := effects[1].(GenerateDraft)
	assert.Equal(t, "Regarding: Q3 report", gd.Subject)
	assert.Equal(t, "Developer", gd.Role)
	assert.Equal(t, "Formal", gd.Tone)

	s, _ := store.Get(testChat)
	assert.Equal(t, "now", s.SendTime)
	assert.Equal(t, "Regarding: Q3 report", s.FinalSubject)
	assert.Equal(t, StateAwaitingSendTime, s.State)
}

func TestDraftSuccessShowsPreview(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	driveToSendTime(t, m, "alice@example.com")
	m.Handle(ctx, testChat, TextEvent{Text: "now"})
	effects := m.Handle(ctx, testChat, draftResult{body: "Attached is the report."})

	require.Len(t, effects, 2)
	preview := effects[0].(ShowPreview)
	assert.Contains(t, preview.Text, "*Subject:* Regarding: Q3 report")
	assert.Contains(t, preview.Text, "*To:* alice@example.com")
	assert.Contains(t, preview.Text, "Dear Alice,")
	assert.Contains(t, preview.Text, "Sincerely,\nJane Roe\nDeveloper")

	confirm := effects[1].(ReplyButtons)
	assert.Equal(t, msgConfirmSend, confirm.Text)
	assert.Equal(t, TagConfirm, confirm.Buttons[0][0].Tag)
	assert.Equal(t, TagDiscard, confirm.Buttons[1][0].Tag)

	s, _ := store.Get(testChat)
	assert.Equal(t, StateAwaitingConfirmation, s.State)
}

func TestDraftFailureKeepsSendTimePrompt(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	driveToSendTime(t, m, "alice@example.com")
	m.Handle(ctx, testChat, TextEvent{Text: "now"})
	effects := m.Handle(ctx, testChat, draftResult{err: fmt.Errorf("upstream down")})

	require.Equal(t, []Effect{ReplyText{Text: msgGenFailed}}, effects)
	s, ok := store.Get(testChat)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingSendTime, s.State)
}

func TestConfirmImmediateSend(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	driveToSendTime(t, m, "alice@example.com")
	m.Handle(ctx, testChat, TextEvent{Text: "now"})
	m.Handle(ctx, testChat, draftResult{body: "Body."})
	effects := m.Handle(ctx, testChat, CallbackEvent{Tag: TagConfirm})

	require.Len(t, effects, 2)
	send := effects[0].(SendMail)
	assert.Equal(t, "alice@example.com", send.Mail.To)
	assert.Equal(t, "Regarding: Q3 report", send.Mail.Subject)
	assert.Contains(t, send.Mail.Body, "Dear Alice,")
	assert.Equal(t, ReplyText{Text: msgSent}, effects[1])

	_, ok := store.Get(testChat)
	assert.False(t, ok)
}

func TestConfirmScheduledSend(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	driveToSendTime(t, m, "alice@example.com")
	m.Handle(ctx, testChat, TextEvent{Text: "2030-01-02 15:04"})
	m.Handle(ctx, testChat, draftResult{body: "Body."})
	effects := m.Handle(ctx, testChat, CallbackEvent{Tag: TagConfirm})

	require.Len(t, effects, 2)
	sched := effects[0].(ScheduleMail)
	want := time.Date(2030, 1, 2, 15, 4, 0, 0, time.Local)
	assert.True(t, sched.At.Equal(want))
	assert.Equal(t, "alice@example.com", sched.Mail.To)
	assert.Equal(t, ReplyText{Text: fmt.Sprintf(fmtScheduled, "2030-01-02 15:04")}, effects[1])

	_, ok := store.Get(testChat)
	assert.False(t, ok)
}

func TestConfirmBadSendTimeKeepsDraft(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	driveToSendTime(t, m, "alice@example.com")
	m.Handle(ctx, testChat, TextEvent{Text: "next tuesday"})
	m.Handle(ctx, testChat, draftResult{body: "Body."})
	effects := m.Handle(ctx, testChat, CallbackEvent{Tag: TagConfirm})

	require.Equal(t, []Effect{ReplyText{Text: msgInvalidSend}}, effects)

	// The draft survives and the machine asks for a send time again.
	s, ok := store.Get(testChat)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingSendTime, s.State)
	assert.NotEmpty(t, s.GeneratedEmail)
}

func TestDiscardDeletesSession(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	driveToSendTime(t, m, "alice@example.com")
	m.Handle(ctx, testChat, TextEvent{Text: "now"})
	m.Handle(ctx, testChat, draftResult{body: "Body."})
	effects := m.Handle(ctx, testChat, CallbackEvent{Tag: TagDiscard})

	require.Equal(t, []Effect{ReplyText{Text: msgDiscarded}}, effects)
	_, ok := store.Get(testChat)
	assert.False(t, ok)
}

func TestReminderFlow(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	m.Handle(ctx, testChat, RemindEvent{})
	effects := m.Handle(ctx, testChat, TextEvent{Text: "Submit the report"})
	require.Equal(t, []Effect{ReplyText{Text: msgAskReminderEmail}}, effects)

	effects = m.Handle(ctx, testChat, TextEvent{Text: "me@example.com"})
	require.Equal(t, []Effect{ReplyText{Text: msgAskReminderDate}}, effects)

	// Bad date keeps the session waiting on the same prompt.
	effects = m.Handle(ctx, testChat, TextEvent{Text: "soon"})
	require.Equal(t, []Effect{ReplyText{Text: msgInvalidDate}}, effects)
	s, ok := store.Get(testChat)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingReminderDate, s.State)

	effects = m.Handle(ctx, testChat, TextEvent{Text: "2030-06-01 09:30"})
	require.Len(t, effects, 2)
	sched := effects[0].(ScheduleMail)
	assert.Equal(t, "me@example.com", sched.Mail.To)
	assert.Equal(t, reminderSubject, sched.Mail.Subject)
	assert.Equal(t, "Submit the report", sched.Mail.Body)
	assert.Equal(t, ReplyText{Text: fmt.Sprintf(fmtReminderSet, "2030-06-01 09:30")}, effects[1])

	_, ok = store.Get(testChat)
	assert.False(t, ok)
}

func TestTextWithoutSessionIsIgnored(t *testing.T) {
	m, _ := newTestMachine()
	effects := m.Handle(context.Background(), testChat, TextEvent{Text: "hello"})
	assert.Empty(t, effects)
}

func TestConcurrentEventsForOneChatAreSerialized(t *testing.T) {
	m, store := newTestMachine()
	ctx := context.Background()

	m.Handle(ctx, testChat, StartEvent{})

	// Telebot delivers each update on its own goroutine; two quick answers
	// must both land, one state apart, without tearing the session.
	var wg sync.WaitGroup
	for _, text := range []string{"Developer", "Jane Roe"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			m.Handle(ctx, testChat, TextEvent{Text: text})
		}(text)
	}
	wg.Wait()

	s, ok := store.Get(testChat)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingTone, s.State)
	assert.NotEmpty(t, s.Data.Role)
	assert.NotEmpty(t, s.Data.Name)
	assert.NotEqual(t, s.Data.Role, s.Data.Name)
}
