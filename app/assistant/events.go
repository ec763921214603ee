package assistant

// Event is an input to the dialog machine. External events come from Telegram
// updates; internal events report the outcome of effects the executor ran.
type Event interface{ isEvent() }

// StartEvent begins a fresh email dialog (/start).
type StartEvent struct{}

// CancelEvent abandons whatever dialog is active (/cancel).
type CancelEvent struct{}

// RemindEvent begins a reminder dialog, replacing any active session (/remindme).
type RemindEvent struct{}

// TextEvent carries a plain text answer.
type TextEvent struct {
	Text string
}

// FileEvent carries an uploaded document or photo.
type FileEvent struct {
	FileID string
	Name   string
}

// CallbackEvent carries an inline button press.
type CallbackEvent struct {
	Tag string
}

// draftResult reports a finished draft generation attempt back to the machine.
type draftResult struct {
	body string
	err  error
}

// fileResult reports a finished attachment download back to the machine.
type fileResult struct {
	path string
	name string
	err  error
}

func (StartEvent) isEvent()    {}
func (CancelEvent) isEvent()   {}
func (RemindEvent) isEvent()   {}
func (TextEvent) isEvent()     {}
func (FileEvent) isEvent()     {}
func (CallbackEvent) isEvent() {}
func (draftResult) isEvent()   {}
func (fileResult) isEvent()    {}
