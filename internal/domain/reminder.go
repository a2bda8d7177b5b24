package domain

// ReminderType tells the notification collaborator what the reminder is for.
type ReminderType string

const (
	ReminderMeal    ReminderType = "meal"
	ReminderWorkout ReminderType = "workout"
)

// Reminder is a scheduled notification definition. Firing is done elsewhere.
type Reminder struct {
	ID      string       `json:"id"`
	Type    ReminderType `json:"type"`
	Time    string       `json:"time"` // HH:MM, 24h
	Enabled bool         `json:"enabled"`
	Title   string       `json:"title"`
	Message string       `json:"message"`
}
