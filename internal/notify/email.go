package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"gopkg.in/mail.v2"
)

// Sender delivers composed messages. *mail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// EmailService sends share invitations via SMTP.
type EmailService struct {
	fromEmail    string
	shareBaseURL string
	sender       Sender
	logger       zerolog.Logger
}

// EmailConfig holds SMTP configuration.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	// ShareBaseURL is the frontend route that opens a shared quiz, e.g. https://app.example/share.
	ShareBaseURL string
	// Sender overrides the SMTP dialer.
	Sender Sender
}

// NewEmailService creates an email service. Without a host and port (or an
// explicit Sender) the service reports itself unconfigured.
func NewEmailService(cfg EmailConfig, logger zerolog.Logger) *EmailService {
	sender := cfg.Sender
	if sender == nil && cfg.SMTPHost != "" && cfg.SMTPPort != 0 {
		sender = mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return &EmailService{
		fromEmail:    cfg.FromEmail,
		shareBaseURL: strings.TrimSuffix(cfg.ShareBaseURL, "/"),
		sender:       sender,
		logger:       logger.With().Str("component", "email").Logger(),
	}
}

// Configured reports whether invitations can be delivered.
func (e *EmailService) Configured() bool {
	return e != nil && e.sender != nil
}

var invitationTemplate = template.Must(template.New("invite").Parse(`Szia!

Valaki megosztotta veled a(z) "{{.Title}}" kvízt.

A kitöltéshez nyisd meg az alábbi linket:
{{.Link}}

Jó játékot!
`))

// SendShareInvitation emails a share link to a recipient.
func (e *EmailService) SendShareInvitation(ctx context.Context, toEmail, quizTitle, token string) error {
	if !e.Configured() {
		return fmt.Errorf("email service not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := invitationTemplate.Execute(&body, map[string]string{
		"Title": quizTitle,
		"Link":  fmt.Sprintf("%s/%s", e.shareBaseURL, token),
	}); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	m := mail.NewMessage()
	m.SetHeader("From", e.fromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Megosztott kvíz: "+quizTitle)
	m.SetBody("text/plain", body.String())

	if err := e.sender.DialAndSend(m); err != nil {
		e.logger.Error().Err(err).Str("to", toEmail).Msg("failed to send share invitation")
		return fmt.Errorf("send email: %w", err)
	}

	e.logger.Info().Str("to", toEmail).Msg("share invitation sent")
	return nil
}
