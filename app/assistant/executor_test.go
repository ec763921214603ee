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

type fakeResponder struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeResponder) record(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
}

func (f *fakeResponder) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func (f *fakeResponder) SendText(_ context.Context, _ int64, text string) error {
	f.record(text)
	return nil
}

func (f *fakeResponder) SendButtons(_ context.Context, _ int64, text string, _ [][]Button) error {
	f.record(text)
	return nil
}

func (f *fakeResponder) SendPreview(_ context.Context, _ int64, text string) error {
	f.record(text)
	return nil
}

func (f *fakeResponder) NotifyTyping(context.Context, int64) {}

type fakeMailer struct {
	ch chan Mail
}

func (f *fakeMailer) Send(_ context.Context, mail Mail) error {
	f.ch <- mail
	return nil
}

type schedJob struct {
	at   time.Time
	name string
	fn   func()
}

type fakeScheduler struct {
	jobs []schedJob
}

func (f *fakeScheduler) At(t time.Time, name string, fn func()) error {
	f.jobs = append(f.jobs, schedJob{at: t, name: name, fn: fn})
	return nil
}

type fakeGenerator struct {
	body string
	err  error

	gotTone    string
	gotSubject string
}

func (f *fakeGenerator) Generate(_ context.Context, _, tone, _, subject string) (string, error) {
	f.gotTone = tone
	f.gotSubject = subject
	return f.body, f.err
}

type fakeFetcher struct {
	path string
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.path + "/" + name, nil
}

func newTestExecutor(gen *fakeGenerator) (*Executor, *fakeResponder, *fakeMailer, *fakeScheduler) {
	resp := &fakeResponder{}
	m := &fakeMailer{ch: make(chan Mail, 4)}
	sch := &fakeScheduler{}
	exec := NewExecutor(
		NewMachine(NewMemoryStore()),
		resp, m, sch, gen,
		&fakeFetcher{path: "/tmp/att"},
	)
	return exec, resp, m, sch
}

func dispatchAll(t *testing.T, exec *Executor, events ...Event) {
	t.Helper()
	ctx := context.Background()
	for _, ev := range events {
		require.NoError(t, exec.Dispatch(ctx, testChat, ev))
	}
}

func TestExecutorHappyPathImmediateSend(t *testing.T) {
	gen := &fakeGenerator{body: "Attached is the report."}
	exec, resp, mail, _ := newTestExecutor(gen)

	dispatchAll(t, exec,
		StartEvent{},
		TextEvent{Text: "Developer"},
		TextEvent{Text: "Jane Roe"},
		CallbackEvent{Tag: TagToneFormal},
		TextEvent{Text: "Q3 report"},
		TextEvent{Text: "auto"},
		TextEvent{Text: "alice@example.com"},
		FileEvent{FileID: "f1", Name: "report.pdf"},
		CallbackEvent{Tag: TagDoneUpload},
		TextEvent{Text: "now"},
		CallbackEvent{Tag: TagConfirm},
	)

	select {
	case sent := <-mail.ch:
		assert.Equal(t, "alice@example.com", sent.To)
		assert.Equal(t, "Regarding: Q3 report", sent.Subject)
		assert.Contains(t, sent.Body, "Dear Alice,")
		assert.Contains(t, sent.Body, "Attached is the report.")
		assert.Equal(t, []string{"/tmp/att/report.pdf"}, sent.Attachments)
	case <-time.After(2 * time.Second):
		t.Fatal("mail was not sent")
	}

	texts := resp.sent()
	require.NotEmpty(t, texts)
	assert.Equal(t, msgAskRole, texts[0])
	assert.Contains(t, texts, "✅ Saved: report.pdf")
	assert.Contains(t, texts, msgGenerating)
	assert.Equal(t, msgSent, texts[len(texts)-1])

	assert.Equal(t, "Formal", gen.gotTone)
	assert.Equal(t, "Regarding: Q3 report", gen.gotSubject)
	assert.False(t, exec.Machine().InProgress(testChat))
}

func TestExecutorScheduledSendFiresLater(t *testing.T) {
	gen := &fakeGenerator{body: "See you there."}
	exec, resp, mail, sch := newTestExecutor(gen)

	dispatchAll(t, exec,
		StartEvent{},
		TextEvent{Text: "Student"},
		TextEvent{Text: "Sam Lee"},
		CallbackEvent{Tag: TagToneCasual},
		TextEvent{Text: "lunch"},
		TextEvent{Text: "Quick lunch?"},
		TextEvent{Text: "bob@example.com"},
		CallbackEvent{Tag: TagDoneUpload},
		TextEvent{Text: "2030-01-02 15:04"},
		CallbackEvent{Tag: TagConfirm},
	)

	require.Len(t, sch.jobs, 1)
	job := sch.jobs[0]
	assert.True(t, job.at.Equal(time.Date(2030, 1, 2, 15, 4, 0, 0, time.Local)))

	// Nothing delivered until the job fires.
	select {
	case <-mail.ch:
		t.Fatal("mail sent before schedule fired")
	default:
	}

	job.fn()
	select {
	case sent := <-mail.ch:
		assert.Equal(t, "bob@example.com", sent.To)
		assert.Equal(t, "Quick lunch?", sent.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled mail never delivered")
	}

	assert.Contains(t, resp.sent(), fmt.Sprintf(fmtScheduled, "2030-01-02 15:04"))
}

func TestExecutorDraftFailureReportsAndRetains(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("upstream down")}
	exec, resp, _, _ := newTestExecutor(gen)

	dispatchAll(t, exec,
		StartEvent{},
		TextEvent{Text: "Developer"},
		TextEvent{Text: "Jane Roe"},
		CallbackEvent{Tag: TagToneFormal},
		TextEvent{Text: "Q3 report"},
		TextEvent{Text: "auto"},
		TextEvent{Text: "alice@example.com"},
		CallbackEvent{Tag: TagDoneUpload},
		TextEvent{Text: "now"},
	)

	texts := resp.sent()
	assert.Equal(t, msgGenFailed, texts[len(texts)-1])
	assert.True(t, exec.Machine().InProgress(testChat))
}

func TestExecutorFetchFailureReports(t *testing.T) {
	gen := &fakeGenerator{body: "ok"}
	exec, resp, _, _ := newTestExecutor(gen)
	exec.files = &fakeFetcher{err: fmt.Errorf("network")}

	dispatchAll(t, exec,
		StartEvent{},
		TextEvent{Text: "Developer"},
		TextEvent{Text: "Jane Roe"},
		CallbackEvent{Tag: TagToneFormal},
		TextEvent{Text: "Q3 report"},
		TextEvent{Text: "auto"},
		TextEvent{Text: "alice@example.com"},
		FileEvent{FileID: "f1", Name: "big.bin"},
	)

	texts := resp.sent()
	assert.Equal(t, msgFileSaveFail, texts[len(texts)-1])
}

func TestExecutorReminderUsesScheduler(t *testing.T) {
	exec, resp, mail, sch := newTestExecutor(&fakeGenerator{})

	dispatchAll(t, exec,
		RemindEvent{},
		TextEvent{Text: "Pay rent"},
		TextEvent{Text: "me@example.com"},
		TextEvent{Text: "2030-03-01 08:00"},
	)

	require.Len(t, sch.jobs, 1)
	sch.jobs[0].fn()
	select {
	case sent := <-mail.ch:
		assert.Equal(t, "me@example.com", sent.To)
		assert.Equal(t, reminderSubject, sent.Subject)
		assert.Equal(t, "Pay rent", sent.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder never delivered")
	}

	assert.Contains(t, resp.sent(), fmt.Sprintf(fmtReminderSet, "2030-03-01 08:00"))
}
