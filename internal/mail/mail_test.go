package mail

import (
	"testing"

	"github.com/khanghh/unionhub/internal/config"
	"github.com/khanghh/unionhub/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	messages []*Message
}

func (s *captureSender) Send(message *Message) error {
	s.messages = append(s.messages, message)
	return nil
}

func TestNotifier(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)
	sender := &captureSender{}
	notifier := NewNotifier(sender, engine, "UnionHub", "https://union.example.org")

	number, digitalID := "MEM-2026-000001", "DID-abc"
	user := &model.User{FirstName: "Ana", LastName: "Cruz", Email: "ana@example.com", MembershipNumber: &number, DigitalID: &digitalID}
	require.NoError(t, notifier.SendApproved(user))
	require.NoError(t, notifier.SendRejected(user, "Missing employment proof"))

	require.Len(t, sender.messages, 2)
	assert.Equal(t, []string{"ana@example.com"}, sender.messages[0].To)
	assert.True(t, sender.messages[0].IsHTML)
	assert.Contains(t, sender.messages[0].Body, "MEM-2026-000001")
	assert.Contains(t, sender.messages[0].Body, "Ana Cruz")
	assert.Contains(t, sender.messages[1].Body, "Missing employment proof")
}

func TestNewMailSender(t *testing.T) {
	assert.IsType(t, NoopMailSender{}, NewMailSender(config.SMTPConfig{}))
	assert.IsType(t, &SMTPMailSender{}, NewMailSender(config.SMTPConfig{Host: "smtp.example.org", Port: 587}))
}
