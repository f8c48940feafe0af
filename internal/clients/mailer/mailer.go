package mailer

import (
	"crypto/tls"
	"fmt"
	"regexp"

	"gopkg.in/gomail.v2"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/config"
)

var htmlTagRe = regexp.MustCompile("<[^>]+>")

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Client sends operational reports over SMTP.
type Client struct {
	from       string
	recipients []string
	dialer     dialer
}

func New(cfg config.Mailer) *Client {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)

	d.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	return &Client{
		from:       from,
		recipients: cfg.ReportTo,
		dialer:     d,
	}
}

// SendReport mails subject and body to every report recipient.
// HTML bodies are detected by the presence of tags.
func (c *Client) SendReport(subject, body string) error {
	if len(c.recipients) == 0 {
		return fmt.Errorf("%w: MAILER_REPORT_TO not set", entity.ErrConfig)
	}

	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	msg.SetHeader("From", c.from)
	msg.SetHeader("To", c.recipients...)
	msg.SetHeader("Subject", subject)

	if htmlTagRe.MatchString(body) {
		msg.SetBody("text/html", body)
	} else {
		msg.SetBody("text/plain", body)
	}

	err := c.dialer.DialAndSend(msg)
	if err != nil {
		return fmt.Errorf("send email %q: %w", subject, err)
	}

	return nil
}
