package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Mailer interface {
	SendTeamInvite(ctx context.Context, email, name, ownerName, inviteURL string) error
	SendNotification(ctx context.Context, email, subject, html string) error
}

type resendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *resendMailer) SendTeamInvite(ctx context.Context, email, name, ownerName, inviteURL string) error {
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	inviter := "A FlowPost user"
	if ownerName != "" {
		inviter = ownerName
	}

	html := fmt.Sprintf(
		`<p>%s,</p><p>%s invited you to their FlowPost workspace.</p><p><a href="%s">Accept the invite</a></p>`,
		greeting, inviter, inviteURL,
	)

	return m.send(ctx, email, "You've been invited to FlowPost", html)
}

func (m *resendMailer) SendNotification(ctx context.Context, email, subject, html string) error {
	return m.send(ctx, email, subject, html)
}

func (m *resendMailer) send(ctx context.Context, email, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: subject,
		Html:    html,
	}

	_, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
