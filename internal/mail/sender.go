package mail

import "log/slog"

type Message struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string
	IsHTML      bool
	Embeds      map[string]string
	Attachments []string
}

type MailSender interface {
	Send(message *Message) error
}

// NoopMailSender drops messages. It is used when no SMTP host is configured.
type NoopMailSender struct{}

func (NoopMailSender) Send(message *Message) error {
	slog.Debug("Mail delivery disabled", "to", message.To, "subject", message.Subject)
	return nil
}
