package telegram

// Reply keyboard button labels. Incoming messages are matched against
// these, so they double as event tags in the dialog state machine.
const (
	btnActivate   = "🔔 Activate"
	btnSettings   = "⚙️ Settings"
	btnChangeTime = "🕘 Change notification time"
	btnDeactivate = "🔕 Deactivate"
)

const (
	welcomeNewText = "Welcome to the mood marks bot! If you want to receive mood check-ins, push the Activate button"
	welcomeText    = "Welcome!"
	chooseMoveText = "⚙️ choose the move:"

	askScheduleText = "Please input start hour, end hour, frequency and notification minute:\n\n" +
		"For example: '11 18 3 15' will notify you every day at 11:15, 14:15 and 17:15"
	invalidScheduleText = "Invalid format, try again:"
	scheduleUnsetText   = "You have no notification schedule yet."
	scheduleSetText     = "👌 we will notify you\nEnjoy your notifications"

	promptText      = "evaluate your condition"
	markSavedText   = "Mark was set"
	clinkText       = "clink"
	deactivatedText = "Notifications deactivated!"

	notificationsOffText = "🔕 notifications is off"
	genericErrorText     = "Something went wrong, please try again later."
)
