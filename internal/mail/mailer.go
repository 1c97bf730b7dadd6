package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

// Addresses are the From headers for each kind of mail.
type Addresses struct {
	Welcome string
	Verify  string
	Reset   string
}

// Mailer renders the account emails and hands them to a Sender.
type Mailer struct {
	sender Sender
	from   Addresses
}

func NewMailer(sender Sender, from Addresses) *Mailer {
	return &Mailer{sender: sender, from: from}
}

func (m *Mailer) SendWelcome(ctx context.Context, to string) error {
	body, err := render(welcomeTmpl, map[string]any{"Email": to})
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, Message{
		From:    m.from.Welcome,
		To:      to,
		Subject: "Welcome to Remember-2-Pack",
		HTML:    body,
	})
}

func (m *Mailer) SendVerifyOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	body, err := render(otpTmpl, otpData{
		Heading: "Email Verification",
		Title:   "Verify Your Account 🔐",
		Intro:   "Please use the following code to verify your email address:",
		Code:    code,
		Color:   "#3498db",
		Expires: humanize(ttl),
		Footer:  "If you didn't request this verification, please ignore this email.",
	})
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, Message{
		From:    m.from.Verify,
		To:      to,
		Subject: "Remember-2-Pack Account Verification",
		HTML:    body,
	})
}

func (m *Mailer) SendResetOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	body, err := render(otpTmpl, otpData{
		Heading: "Password Reset",
		Title:   "Reset Your Password 🔑",
		Intro:   "Use the following code to reset your password:",
		Code:    code,
		Color:   "#e74c3c",
		Expires: humanize(ttl),
		Footer:  "If you didn't request this password reset, please ignore this email and your password will remain unchanged.",
	})
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, Message{
		From:    m.from.Reset,
		To:      to,
		Subject: "Remember-2-Pack Password Reset",
		HTML:    body,
	})
}

type otpData struct {
	Heading, Title, Intro, Code, Expires, Footer string
	Color                                        template.CSS
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// humanize formats whole hours or minutes, e.g. "24 hours", "15 minutes".
func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/time.Minute), "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
