package domain

import "time"

// ReminderRule is one fixed lead time before a task's due date at which a
// reminder is sent. Label is the human readable lead used in the message.
type ReminderRule struct {
	Label string
	Lead  time.Duration
}

// DefaultReminderRules returns the reminder rules in the order they are
// evaluated each cycle. A fresh slice is returned on every call.
func DefaultReminderRules() []ReminderRule {
	return []ReminderRule{
		{Label: "1 день", Lead: 24 * time.Hour},
		{Label: "6 часов", Lead: 6 * time.Hour},
		{Label: "1 час", Lead: time.Hour},
	}
}

// Window returns the closed due-date interval [now+lead-width, now+lead]
// that the rule matches for a cycle started at now.
func (r ReminderRule) Window(now time.Time, width time.Duration) (from, to time.Time) {
	to = now.Add(r.Lead)
	return to.Add(-width), to
}
