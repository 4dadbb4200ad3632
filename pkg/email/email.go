package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/thinksaga/recruitkart-sub003/config"
)

// EmailService sends transactional mail via SMTP.
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPUsername,
	}
}

type decisionEmailData struct {
	Approved bool
	Notes    string
}

const decisionEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Account Verification Update</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .approved { border-left: 4px solid #2e7d32; padding: 15px; background: white; }
        .rejected { border-left: 4px solid #c62828; padding: 15px; background: white; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h2>Account Verification Update</h2></div>
        <div class="content">
            {{if .Approved}}
            <div class="approved">
                <p>Your account has been verified. You now have full access to the platform.</p>
            </div>
            {{else}}
            <div class="rejected">
                <p>Your verification request was not approved.</p>
                {{if .Notes}}<p>Reviewer notes: {{.Notes}}</p>{{end}}
                <p>You can update your details and submit again.</p>
            </div>
            {{end}}
        </div>
        <div class="footer"><p>This is an automated message; replies are not monitored.</p></div>
    </div>
</body>
</html>`

// SendVerificationDecision emails the review outcome to the applicant.
func (s *EmailService) SendVerificationDecision(toEmail string, approved bool, notes string) error {
	if !s.IsConfigured() {
		return nil // mail is optional in development
	}

	tmpl, err := template.New("decision").Parse(decisionEmailTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, decisionEmailData{Approved: approved, Notes: notes}); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	subject := "Your account has been verified"
	if !approved {
		subject = "Update on your verification request"
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		toEmail,
		subject,
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
