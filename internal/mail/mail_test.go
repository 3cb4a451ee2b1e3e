package mail

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hephzaron/portfolio/internal/config"
)

var validMessage = Message{Name: "Ada", Email: "ada@example.com", Message: "Hello there"}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		ok   bool
	}{
		{"valid", validMessage, true},
		{"missing name", Message{Email: "a@b.co", Message: "x"}, false},
		{"bad email", Message{Name: "a", Email: "nope", Message: "x"}, false},
		{"empty message", Message{Name: "a", Email: "a@b.co", Message: "  "}, false},
		{"header injection", Message{Name: "a\r\nBcc: x@y.z", Email: "a@b.co", Message: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSendNotConfigured(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: "587"})
	err := s.Send(context.Background(), validMessage)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendComposesMessage(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: "587", User: "me@example.com", Pass: "pw", ToEmail: "inbox@example.com"}
	s := NewSMTPSender(cfg)

	var gotAddr string
	var gotTo []string
	var gotMsg string
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Equal(t, "me@example.com", from)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), validMessage))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"inbox@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Portfolio Contact: Ada\r\n")
	assert.Contains(t, gotMsg, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, gotMsg, "Hello there")
}

func TestSendWrapsTransportError(t *testing.T) {
	cfg := config.SMTPConfig{Host: "h", Port: "25", User: "u", Pass: "p", ToEmail: "t@example.com"}
	s := NewSMTPSender(cfg)
	boom := errors.New("connection refused")
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }

	err := s.Send(context.Background(), validMessage)
	require.Error(t, err)
	assert.Equal(t, boom, errors.Cause(err))
}

func TestFieldErrorMessages(t *testing.T) {
	tests := []struct {
		msg  Message
		want string
	}{
		{Message{Email: "a@b.co", Message: "x"}, "name is required"},
		{Message{Name: "a", Email: "nope", Message: "x"}, "a valid email is required"},
		{Message{Name: "a", Email: "a@b.co"}, "message is required"},
		{Message{Name: "a\nb", Email: "a@b.co", Message: "x"}, "invalid characters in name"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := tt.msg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	assert.EqualError(t, FieldError(errors.New("boom")), "invalid submission")
}
