// internal/services/notification_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetflow/aet-backend/internal/config"
)

func TestStateApprovedTemplateRenders(t *testing.T) {
	s := NewNotificationService(nil, &config.Config{})

	tmpl := s.getEmailTemplate("state_approved")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"Name":          "Maria",
		"RequestNumber": "AET-2026-000042",
		"State":         "SP",
		"AETNumber":     "AET-SP-9912",
		"ValidUntil":    "2026-12-31",
		"LicenseURL":    "https://app.example.com/licenses/42",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Maria")
	assert.Contains(t, body, "AET-2026-000042")
	assert.Contains(t, body, "AET-SP-9912")
	assert.Contains(t, body, "2026-12-31")
}

func TestRejectionTemplateOmitsEmptyComments(t *testing.T) {
	s := NewNotificationService(nil, &config.Config{})

	tmpl := s.getEmailTemplate("state_rejected")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{
		"Name":          "Maria",
		"RequestNumber": "AET-2026-000042",
		"State":         "MG",
		"Comments":      "",
		"LicenseURL":    "https://app.example.com/licenses/42",
	})
	require.NoError(t, err)

	assert.NotContains(t, body, "Motivo")
}

func TestNotifyAsyncLogsFailures(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	notifyAsync(logrus.Fields{"license_id": uint(7), "state": "SP"}, func() error {
		return errors.New("smtp: connection refused")
	})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, uint(7), entry.Data["license_id"])
	assert.Equal(t, "SP", entry.Data["state"])
}

func TestNotifyAsyncStaysQuietOnSuccess(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	notifyAsync(logrus.Fields{"user_id": uint(1)}, func() error { return nil })

	assert.Empty(t, hook.Entries)
}

func TestUnknownTemplateFallsBack(t *testing.T) {
	s := NewNotificationService(nil, &config.Config{})

	tmpl := s.getEmailTemplate("does_not_exist")
	assert.Equal(t, "Notificação", tmpl.Subject)
}
