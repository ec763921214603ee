package assistant

// User-facing texts for both dialog flows.
const (
	msgSessionExists = "⚠️ You already started a session. Type /cancel to restart."
	msgAskRole       = "👋 What is your role (e.g., Developer, Student)?"
	msgCancelled     = "❌ Session cancelled. Type /start to begin again."

	msgAskName        = "👤 Please enter your full name:"
	msgChooseTone     = "✉️ Choose tone:"
	msgAskSubject     = "📌 Enter subject (or type `auto`):"
	msgAskRecipient   = "📬 Enter recipient's email address:"
	msgAskAttachments = "📎 Upload attachments (optional). Tap *Done* when finished."
	msgAskSendTime    = "📅 When should I send the email? Type `now` or a time like `2025-07-01 12:00`"
	msgGenerating     = "✍️ Generating email, please wait..."
	msgGenFailed      = "❌ Failed to generate email. Try again."
	msgConfirmSend    = "✅ Confirm sending email?"
	msgSent           = "✅ Email sent!"
	msgInvalidSend    = "❌ Invalid time format. Send a new time like `2025-07-01 12:00` or `now`."
	msgDiscarded      = "🗑️ Email discarded."
	msgFileSaveFail   = "❌ Failed to save file."

	msgAskReminderText  = "🔔 What should I remind you about?"
	msgAskReminderEmail = "📧 Enter your email address:"
	msgAskReminderDate  = "📅 When to remind? (YYYY-MM-DD HH:mm)"
	msgInvalidDate      = "❌ Invalid date format."

	fmtAskTopic     = "📝 What is the topic of the email? (Tone: %s)"
	fmtFileSaved    = "✅ Saved: %s"
	fmtScheduled    = "📤 Email scheduled for %s"
	fmtReminderSet  = "✅ Reminder set for %s"
	fmtDraftPreview = "📝 *Email Preview:*\n\n*Subject:* %s\n*To:* %s\n\n%s"
)

// Inline button labels and callback tags.
const (
	TagToneFormal = "Formal"
	TagToneCasual = "Casual"
	TagDoneUpload = "done_upload"
	TagConfirm    = "confirm_send_now"
	TagDiscard    = "discard"

	labelDoneUpload = "✅ Done Uploading"
	labelSendNow    = "📤 Send Now"
	labelDiscard    = "❌ Discard"
)

// reminderSubject is the fixed subject line for reminder mails.
const reminderSubject = "🔔 Reminder!"

// scheduleTimeLayout renders confirmation timestamps for the user.
const scheduleTimeLayout = "2006-01-02 15:04"
