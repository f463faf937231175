// Package scheduler runs the periodic activity digest.
package scheduler

import (
	"context"
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/careconnect/server/internal/config"
	"github.com/careconnect/server/internal/store"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	db     *sql.DB
	cfg    config.ReportingConfig
	logger *zap.Logger
}

// New creates a scheduler instance.
func New(cfg config.ReportingConfig, db *sql.DB, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the daily summary job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.logDailySummary); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) logDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	date := time.Now().Format("2006-01-02")
	summary, err := store.DailySummary(ctx, s.db, date)
	if err != nil {
		s.logger.Error("failed to compute daily summary", zap.Error(err))
		return
	}

	s.logger.Info("daily summary",
		zap.String("date", summary.Date),
		zap.Int("slot_bookings", summary.SlotBookings),
		zap.Int("donation_bookings", summary.DonationBookings))
}
