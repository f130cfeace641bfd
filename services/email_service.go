package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// EmailConfig holds SMTP settings for the email service
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppURL   string
}

// EmailService sends account lifecycle emails via SMTP. All sends are
// fire-and-forget from the caller's point of view.
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service instance
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.config.Username != "" && e.config.Password != ""
}

// SendVerificationEmail sends the email-verification link to a new user
func (e *EmailService) SendVerificationEmail(toEmail, firstName, token string) error {
	if !e.IsConfigured() {
		// Development convenience: surface the token in logs instead.
		log.Printf("SMTP not configured. Verification token for %s: %s", toEmail, token)
		return fmt.Errorf("SMTP not configured")
	}

	verifyLink := fmt.Sprintf("%s/verify-email?token=%s", e.config.AppURL, token)

	subject := "Verify Your Email - Smart Meeting Assistant"
	body := e.buildVerificationBody(firstName, verifyLink)

	return e.send(toEmail, subject, body)
}

// SendWelcomeEmail greets a user after their email is verified
func (e *EmailService) SendWelcomeEmail(toEmail, firstName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Skipping welcome email for %s", toEmail)
		return fmt.Errorf("SMTP not configured")
	}

	subject := "Welcome to Smart Meeting Assistant"
	body := e.buildWelcomeBody(firstName)

	return e.send(toEmail, subject, body)
}

func (e *EmailService) buildVerificationBody(firstName, verifyLink string) string {
	if firstName == "" {
		firstName = "there"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Verify your email</h2>
    <p>Hi %s,</p>
    <p>Thanks for signing up for Smart Meeting Assistant. Click the button below to verify your email address. The link is valid for 24 hours.</p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="display: inline-block; background-color: #1a56db; color: #ffffff; padding: 14px 28px; border-radius: 6px; text-decoration: none;">Verify Email</a>
    </p>
    <p>If the button doesn't work, copy this link into your browser:</p>
    <p style="word-break: break-all; color: #1a56db;">%s</p>
    <p style="color: #666; font-size: 13px;">If you didn't create an account, you can safely ignore this email.</p>
</body>
</html>`, firstName, verifyLink, verifyLink)
}

func (e *EmailService) buildWelcomeBody(firstName string) string {
	if firstName == "" {
		firstName = "there"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Welcome aboard!</h2>
    <p>Hi %s,</p>
    <p>Your email is verified and your account is ready. Schedule your first meeting, invite your team, and let the assistant handle the summaries and action items.</p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="display: inline-block; background-color: #1a56db; color: #ffffff; padding: 14px 28px; border-radius: 6px; text-decoration: none;">Open Dashboard</a>
    </p>
</body>
</html>`, firstName, e.config.AppURL)
}

func (e *EmailService) send(toEmail, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", e.config.Host, e.config.Port)
	auth := smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)

	headers := []string{
		fmt.Sprintf("From: %s", e.config.From),
		fmt.Sprintf("To: %s", toEmail),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	if err := smtp.SendMail(addr, auth, e.config.From, []string{toEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent to %s: %s", toEmail, subject)
	return nil
}
