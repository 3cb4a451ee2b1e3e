// Package mail delivers contact form submissions over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hephzaron/portfolio/internal/config"
	"github.com/hephzaron/portfolio/internal/logger"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Message is a contact form submission. The binding tags are checked both
// by gin when the form is bound and by Validate.
type Message struct {
	Name    string `form:"fullName" binding:"required,max=200,excludesall=\r\n"`
	Email   string `form:"email" binding:"required,email,max=254"`
	Message string `form:"message" binding:"required,max=5000"`
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// Validate checks the submission before it is sent. Blank fields count as
// missing.
func (m Message) Validate() error {
	trimmed := Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Message: strings.TrimSpace(m.Message),
	}
	if err := validate.Struct(trimmed); err != nil {
		return FieldError(err)
	}
	return nil
}

// FieldError turns a validation failure into text fit for the contact form.
func FieldError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return errors.New("invalid submission")
	}
	f := fields[0]
	switch {
	case f.Field() == "Email":
		return errors.New("a valid email is required")
	case f.Tag() == "excludesall":
		return errors.New("invalid characters in name")
	case f.Tag() == "max":
		return errors.Errorf("%s is too long", strings.ToLower(f.Field()))
	default:
		return errors.Errorf("%s is required", strings.ToLower(f.Field()))
	}
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends through a single SMTP relay.
type SMTPSender struct {
	cfg  config.SMTPConfig
	send sendFunc
}

// NewSMTPSender returns a sender for cfg.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, send: smtp.SendMail}
}

// Send validates and delivers m.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !s.cfg.Configured() {
		return ErrNotConfigured
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := s.send(addr, auth, s.cfg.User, []string{s.cfg.ToEmail}, s.compose(m)); err != nil {
		logger.G(ctx).WithError(err).Error("failed to send contact email")
		return errors.Wrap(err, "failed to send email")
	}

	logger.G(ctx).WithField("from", m.Email).Info("contact email sent")
	return nil
}

func (s *SMTPSender) compose(m Message) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.Name, m.Email, m.Message)

	return []byte("To: " + s.cfg.ToEmail + "\r\n" +
		"Subject: Portfolio Contact: " + m.Name + "\r\n" +
		"From: " + s.cfg.User + "\r\n" +
		"Reply-To: " + m.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
