package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dreamsaver/internal/config"
)

type fakeMailSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeMailSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		FromEmail:  "no-reply@dreamsaver.app",
		FromName:   "DreamSaver",
		AppBaseURL: "https://dreamsaver.app/",
	}
}

func TestMailService_ResetPasswordIncludesCode(t *testing.T) {
	sender := &fakeMailSender{status: 202}
	svc := newMailService(testMailConfig(), sender, zap.NewNop())

	require.NoError(t, svc.SendMailToResetPassword(context.Background(), "dreamer@example.com", "123456"))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "Reset your password", msg.Subject)
	assert.Equal(t, "no-reply@dreamsaver.app", msg.From.Address)
	require.Len(t, msg.Content, 2)
	assert.Contains(t, msg.Content[0].Value, "Code: 123456")
	assert.Contains(t, msg.Content[1].Value, "123456")
	assert.Contains(t, msg.Content[1].Value, "https://dreamsaver.app/reset-password?email=dreamer%40example.com")
}

func TestMailService_WelcomeLinksDashboard(t *testing.T) {
	sender := &fakeMailSender{status: 202}
	svc := newMailService(testMailConfig(), sender, zap.NewNop())

	require.NoError(t, svc.SendWelcome(context.Background(), "dreamer@example.com"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Welcome to DreamSaver", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Content[0].Value, "https://dreamsaver.app/dashboard")
}

func TestMailService_Errors(t *testing.T) {
	svc := newMailService(testMailConfig(), &fakeMailSender{err: errors.New("dial tcp: timeout")}, zap.NewNop())
	assert.Error(t, svc.SendWelcome(context.Background(), "a@b.c"))

	svc = newMailService(testMailConfig(), &fakeMailSender{status: 401}, zap.NewNop())
	assert.Error(t, svc.SendWelcome(context.Background(), "a@b.c"))
}

func TestMailService_DisabledWithoutKey(t *testing.T) {
	svc := NewSendGridMailService(testMailConfig(), zap.NewNop())
	assert.NoError(t, svc.SendWelcome(context.Background(), "a@b.c"))
}
