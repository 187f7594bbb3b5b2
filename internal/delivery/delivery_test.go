package delivery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/taskplanner/internal/delivery"
	"github.com/phrazzld/taskplanner/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkFunc(t *testing.T) {
	t.Parallel()

	var gotRecipient, gotText string
	sink := delivery.SinkFunc(func(ctx context.Context, recipientID, text string) error {
		gotRecipient, gotText = recipientID, text
		return errors.New("send failed")
	})

	err := sink.Notify(context.Background(), "42", "hello")
	assert.EqualError(t, err, "send failed")
	assert.Equal(t, "42", gotRecipient)
	assert.Equal(t, "hello", gotText)
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)
	sink := delivery.NewLogSink(log)

	require.NoError(t, sink.Notify(context.Background(), "42", "⏰ Напоминание"))
	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "42", entries[0]["recipient_id"])
	assert.Equal(t, "⏰ Напоминание", entries[0]["text"])
	assert.Equal(t, "delivery", entries[0]["component"])

	assert.ErrorIs(t, sink.Notify(context.Background(), " ", "x"), delivery.ErrEmptyRecipient)
}
