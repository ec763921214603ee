package assistant

// Mode selects which dialog flow a session is driving.
type Mode string

const (
	ModeEmail    Mode = "email"
	ModeReminder Mode = "reminder"
)

// State identifies the prompt a session is currently waiting on. Every state
// accepts a specific input kind; inputs that do not match are ignored.
type State string

const (
	StateAwaitingRole          State = "awaiting_role"
	StateAwaitingName          State = "awaiting_name"
	StateAwaitingTone          State = "awaiting_tone"
	StateAwaitingTopic         State = "awaiting_topic"
	StateAwaitingSubject       State = "awaiting_subject"
	StateAwaitingRecipient     State = "awaiting_recipient"
	StateCollectingAttachments State = "collecting_attachments"
	StateAwaitingSendTime      State = "awaiting_send_time"
	StateAwaitingConfirmation  State = "awaiting_confirmation"

	StateAwaitingReminderText  State = "awaiting_reminder_text"
	StateAwaitingReminderEmail State = "awaiting_reminder_email"
	StateAwaitingReminderDate  State = "awaiting_reminder_date"
)

// FormData accumulates the answers collected across a dialog.
type FormData struct {
	Role      string
	Name      string
	Tone      string
	Topic     string
	Subject   string
	Recipient string

	// Reminder flow fields.
	Text  string
	Email string
}

// Session is the per-chat dialog state. A chat has at most one session.
type Session struct {
	Mode  Mode
	State State
	Data  FormData

	Attachments []string

	// Populated once a draft is generated and accepted for preview.
	GeneratedEmail string
	FinalSubject   string

	// Raw send-time answer, lowercased ("now" or a date string).
	SendTime string
}

func newEmailSession() *Session {
	return &Session{Mode: ModeEmail, State: StateAwaitingRole}
}

func newReminderSession() *Session {
	return &Session{Mode: ModeReminder, State: StateAwaitingReminderText}
}
