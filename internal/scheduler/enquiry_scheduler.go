package scheduler

import (
	"github.com/mstavrou/epresent-backend/config"
	"github.com/mstavrou/epresent-backend/internal/app/service"
	"github.com/mstavrou/epresent-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// EnquiryScheduler purges archived enquiries past the retention window.
type EnquiryScheduler struct {
	cron           *cron.Cron
	enquiryService service.EnquiryService
	cfg            *config.EnquiryConfig
}

// NewEnquiryScheduler creates the retention scheduler.
func NewEnquiryScheduler(enquiryService service.EnquiryService, cfg *config.EnquiryConfig) *EnquiryScheduler {
	return &EnquiryScheduler{
		cron:           cron.New(),
		enquiryService: enquiryService,
		cfg:            cfg,
	}
}

// Start registers the purge job and starts the cron loop.
func (s *EnquiryScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.PurgeSchedule, func() {
		logger.Info("Starting scheduled enquiry retention purge", map[string]interface{}{
			"retention_days": s.cfg.RetentionDays,
		})

		purged, err := s.enquiryService.PurgeArchived(s.cfg.RetentionDays)
		if err != nil {
			logger.Error("Failed to purge archived enquiries", err)
			return
		}

		logger.Info("Enquiry retention purge completed", map[string]interface{}{
			"purged": purged,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for enquiry retention", err)
		return err
	}

	s.cron.Start()
	logger.Info("Enquiry retention scheduler started", map[string]interface{}{
		"schedule": s.cfg.PurgeSchedule,
	})

	return nil
}

// Stop halts the cron loop.
func (s *EnquiryScheduler) Stop() {
	logger.Info("Stopping enquiry retention scheduler...", nil)
	s.cron.Stop()
	logger.Info("Enquiry retention scheduler stopped", nil)
}
