package service

import (
	"fmt"

	"fintrack/config"

	"gopkg.in/gomail.v2"
)

// EmailService sends alert mail over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled reports whether mail delivery is configured.
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// SendBudgetAlertEmail notifies a user that a category budget went over its
// limit.
func (s *EmailService) SendBudgetAlertEmail(toEmail, username, category string, spent, limit float64) error {
	if !s.Enabled() {
		return fmt.Errorf("email service disabled, set email.enabled=true")
	}

	subject := fmt.Sprintf("[Fintrack] Budget exceeded: %s", category)
	body := s.generateBudgetAlertBody(username, category, spent, limit)

	return s.sendEmail(toEmail, subject, body)
}

// generateBudgetAlertBody renders the alert mail HTML.
func (s *EmailService) generateBudgetAlertBody(username, category string, spent, limit float64) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #dc2626, #b91c1c); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .figures { background: #fef2f2; border-left: 4px solid #dc2626; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .figures p { margin: 0; color: #7f1d1d; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Budget Alert</h1>
        </div>
        <div class="content">
            <p>Hi <strong>%s</strong>,</p>
            <p>Your <strong>%s</strong> budget has gone over its limit.</p>
            <div class="figures">
                <p>Spent: <strong>%.2f</strong></p>
                <p>Limit: <strong>%.2f</strong></p>
            </div>
            <p>Review your recent transactions if this looks unexpected.</p>
        </div>
        <div class="footer">
            <p>This mail was sent automatically, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, username, category, spent, limit)
}

// sendEmail delivers one HTML mail via the configured SMTP host.
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
