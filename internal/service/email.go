package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caddieai/caddie/internal/markdown"
	"github.com/caddieai/caddie/internal/model"
	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	markdown  *markdown.Renderer
	fromEmail string
	isDev     bool
	appName   string
}

// NewEmailService logs instead of sending in development.
func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		markdown:  markdown.NewRenderer(),
		fromEmail: fromEmail,
		isDev:     isDev,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(email, name string) error {
	subject, body := welcomeEmailTemplate(name, s.appName)
	return s.send("welcome", email, subject, body)
}

func (s *EmailService) SendPasswordChangedEmail(email, name string) error {
	subject, body := passwordChangedEmailTemplate(name, s.appName)
	return s.send("password_changed", email, subject, body)
}

func (s *EmailService) SendAccountDeletedEmail(email, name string) error {
	subject, body := accountDeletedEmailTemplate(name, s.appName)
	return s.send("account_deleted", email, subject, body)
}

// SendRoundSummaryEmail mails the scorecard totals after a round is completed.
func (s *EmailService) SendRoundSummaryEmail(email, name string, round *model.Round, courseName string, stats *model.RoundStats) error {
	subject, body := roundSummaryEmailTemplate(name, courseName, round, stats, s.appName)
	return s.send("round_summary", email, subject, body)
}

func (s *EmailService) send(kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	html, err := s.markdown.HTML(body)
	if err != nil {
		slog.Warn("failed to render email html, sending text only", "error", err, "type", kind)
	} else {
		params.Html = html
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
