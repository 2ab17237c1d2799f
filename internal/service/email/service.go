package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"notify-hub/internal/config"
)

// Service sends the offline alert for notifications that could not be
// pushed live. Call sites are nil-safe; a missing API key disables it.
type Service interface {
	SendOfflineNotification(ctx context.Context, toEmail, userID, message string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

var offlineTmpl = template.Must(template.New("offline").Parse(`
<div style="font-family: sans-serif">
	<h2>You have a new notification</h2>
	<p>Hi {{.UserID}}, a notification arrived while you were offline:</p>
	<blockquote>{{.Message}}</blockquote>
	<p>Connect to see it.</p>
</div>`))

func NewService(cfg *config.Config) Service {
	if cfg.ResendAPIKey == "" {
		return nil
	}
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

func (s *service) SendOfflineNotification(ctx context.Context, toEmail, userID, message string) error {
	var body bytes.Buffer
	data := struct {
		UserID  string
		Message string
	}{UserID: userID, Message: message}
	if err := offlineTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render offline email: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Notify Hub <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: "New notification while you were away",
	}

	_, err := s.client.Emails.Send(params)
	return err
}
