// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aetflow/aet-backend/internal/config"
	"github.com/aetflow/aet-backend/internal/models"
	"github.com/aetflow/aet-backend/internal/states"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	data := map[string]interface{}{
		"Name":     user.Name,
		"LoginURL": fmt.Sprintf("%s/login", s.config.Frontend.BaseURL),
	}

	tmpl := s.getEmailTemplate("welcome")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

// SendStateStatusNotification mails the requester when one state of a
// license request reaches a terminal status.
func (s *NotificationService) SendStateStatusNotification(license *models.LicenseRequest, state string, status states.Status, comments string) error {
	var user models.User
	if err := s.db.First(&user, license.CreatedByID).Error; err != nil {
		return fmt.Errorf("requester not found: %w", err)
	}

	data := map[string]interface{}{
		"Name":          user.Name,
		"RequestNumber": license.RequestNumber,
		"State":         state,
		"Comments":      comments,
		"LicenseURL":    fmt.Sprintf("%s/licenses/%d", s.config.Frontend.BaseURL, license.ID),
	}

	var tmpl EmailTemplate
	switch status {
	case states.StatusApproved:
		rec := states.Decode(license.StateStatuses, state)
		data["ValidUntil"] = rec.ValidUntil
		data["AETNumber"] = rec.AETNumber
		tmpl = s.getEmailTemplate("state_approved")
	case states.StatusRejected:
		tmpl = s.getEmailTemplate("state_rejected")
	case states.StatusCanceled:
		tmpl = s.getEmailTemplate("state_canceled")
	default:
		return nil
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("%s - %s (%s)", tmpl.Subject, license.RequestNumber, state)
	return s.sendEmail(user.Email, subject, body)
}

// SendExpiryWarning mails the requester about an approved state whose
// validity ends soon.
func (s *NotificationService) SendExpiryWarning(license *models.LicenseRequest, state string, validUntil time.Time) error {
	var user models.User
	if err := s.db.First(&user, license.CreatedByID).Error; err != nil {
		return fmt.Errorf("requester not found: %w", err)
	}

	data := map[string]interface{}{
		"Name":          user.Name,
		"RequestNumber": license.RequestNumber,
		"State":         state,
		"ValidUntil":    validUntil.Format("02/01/2006"),
		"RenewURL":      fmt.Sprintf("%s/licenses/%d/renew?state=%s", s.config.Frontend.BaseURL, license.ID, state),
	}

	tmpl := s.getEmailTemplate("expiry_warning")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("%s - %s (%s)", tmpl.Subject, license.RequestNumber, state)
	return s.sendEmail(user.Email, subject, body)
}

// notifyAsync runs a mail send for fire-and-forget call sites: the
// request path moves on, a failure still gets a log line.
func notifyAsync(fields logrus.Fields, fn func() error) {
	if err := fn(); err != nil {
		logrus.WithFields(fields).WithError(err).Error("failed to send notification")
	}
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email skipped, SMTP not configured")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Bem-vindo ao AETFlow",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Bem-vindo, {{.Name}}!</h2>
	<p>Sua conta foi criada. Acesse a plataforma para cadastrar veículos e solicitar AETs.</p>
	<a href="{{.LoginURL}}">Acessar</a>
	<p>Equipe AETFlow</p>
</body>
</html>`,
		},
		"state_approved": {
			Subject: "AET liberada",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>AET liberada</h2>
	<p>Olá {{.Name}},</p>
	<p>A AET da solicitação {{.RequestNumber}} foi liberada para o estado {{.State}}.</p>
	<p>Número da AET: {{.AETNumber}}<br>Válida até: {{.ValidUntil}}</p>
	<a href="{{.LicenseURL}}">Ver solicitação</a>
	<p>Equipe AETFlow</p>
</body>
</html>`,
		},
		"state_rejected": {
			Subject: "Solicitação de AET indeferida",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Solicitação indeferida</h2>
	<p>Olá {{.Name}},</p>
	<p>A solicitação {{.RequestNumber}} foi indeferida pelo estado {{.State}}.</p>
	{{if .Comments}}<p>Motivo: {{.Comments}}</p>{{end}}
	<a href="{{.LicenseURL}}">Ver solicitação</a>
	<p>Equipe AETFlow</p>
</body>
</html>`,
		},
		"state_canceled": {
			Subject: "Solicitação de AET cancelada",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Solicitação cancelada</h2>
	<p>Olá {{.Name}},</p>
	<p>A solicitação {{.RequestNumber}} foi cancelada para o estado {{.State}}.</p>
	{{if .Comments}}<p>Motivo: {{.Comments}}</p>{{end}}
	<p>Equipe AETFlow</p>
</body>
</html>`,
		},
		"expiry_warning": {
			Subject: "AET próxima do vencimento",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>AET próxima do vencimento</h2>
	<p>Olá {{.Name}},</p>
	<p>A AET da solicitação {{.RequestNumber}} para o estado {{.State}} vence em {{.ValidUntil}}.</p>
	<a href="{{.RenewURL}}">Renovar agora</a>
	<p>Equipe AETFlow</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notificação",
		Body:    "<p>{{.Message}}</p>",
	}
}
