package domain

import "time"

// DueTask is the projection of an Active task joined with its assignee that
// the notification scheduler works on.
type DueTask struct {
	TaskID               int64
	Title                string
	DueDate              time.Time
	RecipientID          string
	NotificationsEnabled bool
}
