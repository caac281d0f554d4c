package mail

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/khanghh/unionhub/model"
)

// Notifier renders and sends membership notices.
type Notifier struct {
	sender  MailSender
	engine  *html.Engine
	appName string
	siteURL string
}

func (n *Notifier) send(to, subject, templateName string, vars fiber.Map) error {
	vars["appName"] = n.appName
	vars["siteURL"] = n.siteURL
	body, err := renderHTML(n.engine, templateName, vars)
	if err != nil {
		return err
	}
	return n.sender.Send(&Message{
		To:      []string{to},
		Subject: subject,
		Body:    body,
		IsHTML:  true,
	})
}

func (n *Notifier) SendApproved(user *model.User) error {
	vars := fiber.Map{
		"name":             user.FullName(),
		"membershipNumber": "",
		"digitalId":        "",
	}
	if user.MembershipNumber != nil {
		vars["membershipNumber"] = *user.MembershipNumber
	}
	if user.DigitalID != nil {
		vars["digitalId"] = *user.DigitalID
	}
	return n.send(user.Email, "Your membership has been approved", "approved", vars)
}

func (n *Notifier) SendRejected(user *model.User, reason string) error {
	vars := fiber.Map{
		"name":   user.FullName(),
		"reason": reason,
	}
	return n.send(user.Email, "Update on your membership application", "rejected", vars)
}

func NewNotifier(sender MailSender, engine *html.Engine, appName, siteURL string) *Notifier {
	return &Notifier{
		sender:  sender,
		engine:  engine,
		appName: appName,
		siteURL: siteURL,
	}
}
