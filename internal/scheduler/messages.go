package scheduler

import (
	"fmt"
	"time"

	"github.com/phrazzld/taskplanner/internal/domain"
)

// ReminderText renders the message sent when a task enters a rule's window.
func ReminderText(title string, rule domain.ReminderRule, due time.Time) string {
	return fmt.Sprintf("⏰ Напоминание: задача '%s' должна быть выполнена через %s!\nСрок выполнения: %s",
		title, rule.Label, domain.FormatDueDate(due))
}

// OverdueText renders the alert sent after a task was marked overdue.
func OverdueText(title string, due time.Time) string {
	return fmt.Sprintf("❗ Задача '%s' просрочена!\nСрок выполнения был: %s",
		title, domain.FormatDueDate(due))
}
