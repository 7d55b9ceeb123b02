package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRaw(t *testing.T) {
	raw := string(buildRaw("Back Office <noreply@example.com>", Message{
		To:      []string{"alice@example.com", "ops@example.com"},
		Subject: "Password reset",
		Text:    "line one\nline two",
	}))

	assert.True(t, strings.HasPrefix(raw, "From: Back Office <noreply@example.com>\r\n"))
	assert.Contains(t, raw, "To: alice@example.com, ops@example.com\r\n")
	assert.Contains(t, raw, "Subject: Password reset\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nline one\r\nline two"))
}

func TestMemoryRecords(t *testing.T) {
	m := &Memory{}
	_ = m.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "hi"})

	sent := m.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, "hi", sent[0].Subject)
}

func TestSMTPRequiresRecipients(t *testing.T) {
	err := NewSMTP(SMTPConfig{Host: "localhost", Port: "2525"}).Send(context.Background(), Message{})
	assert.Error(t, err)
}

func TestBackgroundDeliversBeforeClose(t *testing.T) {
	mem := &Memory{}
	b := NewBackground(mem, 2)

	for i := 0; i < 5; i++ {
		assert.NoError(t, b.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "reset"}))
	}
	assert.NoError(t, b.Close(context.Background()))
	assert.Len(t, mem.Sent(), 5)
	assert.Error(t, b.Send(context.Background(), Message{}), "closed")
}
