// Package jobs runs the scheduled background work: a nightly digest of
// the next day's appointments per doctor. Actual reminder delivery is
// handled elsewhere; this job stops at the structured log line.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/models"
)

// Runner owns the cron scheduler.
type Runner struct {
	cron *cron.Cron
	db   *gorm.DB
	log  zerolog.Logger
}

// NewRunner creates a Runner on an already-open store handle.
func NewRunner(db *gorm.DB, log zerolog.Logger) *Runner {
	return &Runner{
		cron: cron.New(),
		db:   db,
		log:  log,
	}
}

// Start registers the jobs and starts the cron loop.
func (r *Runner) Start() error {
	// 18:00 daily: digest of tomorrow's schedule
	if _, err := r.cron.AddFunc("0 18 * * *", r.upcomingAppointmentsDigest); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop stops the cron loop, waiting for running jobs.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

type doctorDigest struct {
	DoctorID string
	Count    int64
}

func (r *Runner) upcomingAppointmentsDigest() {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var digests []doctorDigest
	err := r.db.Model(&models.Appointment{}).
		Select("doctor_id, count(*) as count").
		Where("appointment_date = ? AND status <> ?", tomorrow, models.StatusCancelled).
		Group("doctor_id").
		Scan(&digests).Error
	if err != nil {
		r.log.Error().Err(err).Msg("appointment digest query failed")
		return
	}

	for _, d := range digests {
		r.log.Info().
			Str("doctorId", d.DoctorID).
			Str("date", tomorrow).
			Int64("appointments", d.Count).
			Msg("upcoming appointments reminder")
	}
}
