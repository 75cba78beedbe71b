package infra

import (
	"net"
	"net/smtp"
	"strconv"

	"korecatalog/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer delivers low-stock alert mail. It is always called through the
// circuit breaker, so a dead SMTP server degrades to fast-failing jobs
// rather than blocked workers.
type Mailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		addr: net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		from: cfg.AlertFrom,
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
	}
}

// SendAlert delivers one plain-text message.
func (m *Mailer) SendAlert(to, subject, body string) error {
	msg := email.NewEmail()
	msg.From = m.from
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)
	return msg.Send(m.addr, m.auth)
}
