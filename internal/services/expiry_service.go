// internal/services/expiry_service.go
package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aetflow/aet-backend/internal/models"
	"github.com/aetflow/aet-backend/internal/states"
)

// Warnings go out when an approved state is exactly this many days from
// its validity end, so each license gets one mail per threshold.
var expiryWarningDays = []int{30, 7, 1}

type ExpiryService struct {
	db                  *gorm.DB
	notificationService *NotificationService
	cron                *cron.Cron
}

func NewExpiryService(db *gorm.DB, notificationService *NotificationService) *ExpiryService {
	return &ExpiryService{
		db:                  db,
		notificationService: notificationService,
		cron:                cron.New(),
	}
}

// Start schedules the daily sweep. The first run happens on schedule,
// not at startup, so restarts never double-send.
func (s *ExpiryService) Start() error {
	if _, err := s.cron.AddFunc("0 8 * * *", s.Sweep); err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}
	s.cron.Start()
	return nil
}

func (s *ExpiryService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep walks every submitted request with at least one approved state
// and mails the requester for validity ends hitting a warning threshold.
func (s *ExpiryService) Sweep() {
	var licenses []models.LicenseRequest
	err := s.db.
		Where("is_draft = ?", false).
		Where("EXISTS (SELECT 1 FROM unnest(state_statuses) AS entry WHERE split_part(entry, ':', 2) IN ('approved', 'released'))").
		Find(&licenses).Error
	if err != nil {
		logrus.WithError(err).Error("expiry sweep query failed")
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	warned := 0

	for i := range licenses {
		license := &licenses[i]
		for _, rec := range states.DecodeAll(license.StateStatuses, license.States) {
			if rec.Status != states.StatusApproved || rec.ValidUntil == "" {
				continue
			}

			validUntil, err := time.Parse("2006-01-02", rec.ValidUntil)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"license_id": license.ID,
					"state":      rec.State,
					"value":      rec.ValidUntil,
				}).Warn("unparseable validity date in packed entry")
				continue
			}

			daysLeft := int(validUntil.Sub(today).Hours() / 24)
			for _, threshold := range expiryWarningDays {
				if daysLeft == threshold {
					if err := s.notificationService.SendExpiryWarning(license, rec.State, validUntil); err != nil {
						logrus.WithError(err).WithField("license_id", license.ID).Error("failed to send expiry warning")
					} else {
						warned++
					}
					break
				}
			}
		}
	}

	logrus.WithFields(logrus.Fields{"licenses": len(licenses), "warnings": warned}).Info("expiry sweep finished")
}
