package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"talentflow-api/internal/shared/metrics"
	"talentflow-api/internal/shared/telemetry"
)

// Delivery statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// DefaultRecipientName fills the {name} placeholder.
const DefaultRecipientName = "Candidate"

var ErrMissingCredentials = errors.New("Email credentials not configured. Please provide them in settings or request.")

// Dialer opens one authenticated SMTP connection.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// DialerFactory builds a Dialer for a sender account.
type DialerFactory func(sender, password string) Dialer

// SMTPDialer returns a factory for STARTTLS dialers against host:port.
func SMTPDialer(host string, port int) DialerFactory {
	return func(sender, password string) Dialer {
		d := gomail.NewDialer(host, port, sender, password)
		d.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
		return d
	}
}

// Result is the outcome for one recipient.
type Result struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Bulk is one bulk send request.
type Bulk struct {
	Recipients []string
	Subject    string
	Content    string
	Sender     string
	Password   string
}

// Mailer sends personalised HTML mail to a list of recipients.
type Mailer struct {
	Dial          DialerFactory
	DefaultSender string
	DefaultPass   string
	Delay         time.Duration
	sleep         func(context.Context, time.Duration)
}

// NewMailer constructs a Mailer with config-level fallback credentials.
func NewMailer(dial DialerFactory, sender, password string, delay time.Duration) *Mailer {
	return &Mailer{Dial: dial, DefaultSender: sender, DefaultPass: password, Delay: delay}
}

// SendBulk delivers b over a single SMTP connection. Results follow recipient order.
func (m *Mailer) SendBulk(ctx context.Context, b Bulk) ([]Result, error) {
	sender := strings.TrimSpace(b.Sender)
	password := b.Password
	if sender == "" {
		sender = m.DefaultSender
	}
	if password == "" {
		password = m.DefaultPass
	}
	if sender == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	recipients := make([]string, 0, len(b.Recipients))
	for _, addr := range b.Recipients {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	results := make([]Result, 0, len(recipients))
	if len(recipients) == 0 {
		return results, nil
	}

	body := FormatBody(b.Content)
	conn, err := m.Dial(sender, password).Dial()
	if err != nil {
		telemetry.Error("email.dial_failed", map[string]any{"error": err.Error()})
		for _, addr := range recipients {
			results = append(results, Result{Email: addr, Status: StatusFailed, Error: "Connection Error: " + err.Error()})
			metrics.IncEmail(StatusFailed)
		}
		return results, nil
	}
	defer conn.Close()

	for i, addr := range recipients {
		if i > 0 {
			m.pause(ctx, m.Delay)
		}
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Email: addr, Status: StatusFailed, Error: err.Error()})
			metrics.IncEmail(StatusFailed)
			continue
		}

		msg := gomail.NewMessage()
		msg.SetHeader("From", sender)
		msg.SetHeader("To", addr)
		msg.SetHeader("Subject", b.Subject)
		msg.SetBody("text/html", Personalize(body, DefaultRecipientName, addr))

		if err := gomail.Send(conn, msg); err != nil {
			telemetry.Warn("email.send_failed", map[string]any{"error": err.Error()})
			results = append(results, Result{Email: addr, Status: StatusFailed, Error: err.Error()})
			metrics.IncEmail(StatusFailed)
			continue
		}
		results = append(results, Result{Email: addr, Status: StatusSent})
		metrics.IncEmail(StatusSent)
	}
	telemetry.Info("email.bulk_sent", map[string]any{"recipients": len(recipients)})
	return results, nil
}

func (m *Mailer) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	if m.sleep != nil {
		m.sleep(ctx, d)
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// FormatBody wraps plain text in a styled block. Content that already
// carries markup is returned as is.
func FormatBody(content string) string {
	if strings.Contains(content, "<") && strings.Contains(content, ">") {
		return content
	}
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; font-size: 14px; color: #333; line-height: 1.6;">%s</div>`,
		strings.ReplaceAll(content, "\n", "<br>"))
}

// Personalize substitutes the {name} and {email} placeholders.
func Personalize(body, name, addr string) string {
	return strings.NewReplacer("{name}", name, "{email}", addr).Replace(body)
}
