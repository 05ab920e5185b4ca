package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService sends the transactional mails of the review service
type EmailService interface {
	SendInvitationEmail(inv Invitation) error
	SendWelcomeEmail(toEmail, toName string) error
}

// Invitation is the data rendered into an invitation mail
type Invitation struct {
	ToEmail    string
	FromName   string
	PanelID    string
	PanelTitle string
	Message    string
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string
}

// Configured reports whether mail can actually be delivered
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger.With().Str("component", "email").Logger(),
	}
}

var invitationTemplate = template.Must(template.New("invitation").Parse(`
<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #1b5e20;">You're invited to review ESG indicators</h2>
		<p>{{.FromName}} invited you to join the <strong>{{.PanelTitle}}</strong> panel on ESG Champions.</p>
		{{if .Message}}<blockquote style="border-left: 3px solid #ccc; padding-left: 12px;">{{.Message}}</blockquote>{{end}}
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.URL}}" style="background-color: #2e7d32; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Open Panel</a>
		</div>
		<p>Best regards,<br>The ESG Champions Team</p>
	</div>
</body>
</html>
`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #1b5e20;">Welcome to ESG Champions!</h2>
		<p>Hello {{.Name}},</p>
		<p>Your champion account is active. You can now review indicators and follow the rankings.</p>
		<p>Best regards,<br>The ESG Champions Team</p>
	</div>
</body>
</html>
`))

// PanelURL is the link an invitation points to
func (s *EmailServiceImpl) PanelURL(panelID string) string {
	return fmt.Sprintf("%s/panels/%s", s.config.BaseURL, panelID)
}

// SendInvitationEmail mails a panel invitation
func (s *EmailServiceImpl) SendInvitationEmail(inv Invitation) error {
	url := s.PanelURL(inv.PanelID)
	if !s.config.Configured() {
		s.logger.Warn().
			Str("toEmail", inv.ToEmail).
			Str("panelID", inv.PanelID).
			Str("url", url).
			Msg("SMTP not configured - invitation email not sent")
		return nil
	}

	var body bytes.Buffer
	err := invitationTemplate.Execute(&body, struct {
		Invitation
		URL string
	}{inv, url})
	if err != nil {
		return fmt.Errorf("render invitation email: %w", err)
	}

	subject := fmt.Sprintf("%s invited you to the %s panel", inv.FromName, inv.PanelTitle)
	return s.sendHTMLEmail(inv.ToEmail, subject, body.String())
}

// SendWelcomeEmail greets a newly registered champion
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if !s.config.Configured() {
		s.logger.Debug().Str("toEmail", toEmail).Msg("SMTP not configured - welcome email not sent")
		return nil
	}

	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, struct{ Name string }{toName}); err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}
	return s.sendHTMLEmail(toEmail, "Welcome to ESG Champions", body.String())
}

// buildMessage assembles headers and body in a stable order
func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit() //nolint:errcheck

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	return w.Close()
}
