package mail

import (
	"github.com/khanghh/unionhub/internal/config"
	"gopkg.in/gomail.v2"
)

type SMTPMailSender struct {
	*gomail.Dialer
	From string
}

func (s *SMTPMailSender) Send(message *Message) error {
	msg := gomail.NewMessage()
	from := s.From
	if message.From != "" {
		from = message.From
	}
	msg.SetHeader("From", from)
	msg.SetHeader("To", message.To...)
	if len(message.Cc) > 0 {
		msg.SetHeader("Cc", message.Cc...)
	}
	if len(message.Bcc) > 0 {
		msg.SetHeader("Bcc", message.Bcc...)
	}
	msg.SetHeader("Subject", message.Subject)
	if message.IsHTML {
		msg.SetBody("text/html", message.Body)
	} else {
		msg.SetBody("text/plain", message.Body)
	}
	for cid, file := range message.Embeds {
		msg.Embed(file, gomail.SetHeader(map[string][]string{
			"Content-ID": {"<" + cid + ">"},
		}))
	}
	for _, file := range message.Attachments {
		msg.Attach(file)
	}
	return s.DialAndSend(msg)
}

func NewSMTPMailSender(dialer *gomail.Dialer, from string) MailSender {
	return &SMTPMailSender{
		Dialer: dialer,
		From:   from,
	}
}

// NewMailSender returns an SMTP sender, or a NoopMailSender when no host is set.
func NewMailSender(cfg config.SMTPConfig) MailSender {
	if cfg.Host == "" {
		return NoopMailSender{}
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewSMTPMailSender(dialer, cfg.From)
}
