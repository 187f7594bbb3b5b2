package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultReminderRules(t *testing.T) {
	t.Parallel()

	rules := DefaultReminderRules()
	require.Len(t, rules, 3)
	assert.Equal(t, ReminderRule{Label: "1 день", Lead: 24 * time.Hour}, rules[0])
	assert.Equal(t, ReminderRule{Label: "6 часов", Lead: 6 * time.Hour}, rules[1])
	assert.Equal(t, ReminderRule{Label: "1 час", Lead: time.Hour}, rules[2])

	rules[0].Lead = 0
	assert.Equal(t, 24*time.Hour, DefaultReminderRules()[0].Lead, "callers get a fresh copy")
}

func TestReminderRule_Window(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	from, to := ReminderRule{Lead: 24 * time.Hour}.Window(now, time.Minute)

	assert.Equal(t, time.Date(2024, 3, 2, 11, 59, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), to)
}
