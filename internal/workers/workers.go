package workers

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"clientflow/internal/engine/reports"
	"clientflow/internal/platform/config"
	"clientflow/internal/platform/models"
	"clientflow/internal/platform/repositories"
)

// Runner schedules the background jobs: morning meeting reminders and the
// stale report draft sweep.
type Runner struct {
	cron          *cron.Cron
	cfg           config.WorkersConfig
	db            *sql.DB
	reportRepo    *reports.Repository
	notifications *repositories.NotificationRepository
}

func NewRunner(cfg config.WorkersConfig, db *sql.DB, reportRepo *reports.Repository, notifications *repositories.NotificationRepository) *Runner {
	return &Runner{
		cron:          cron.New(),
		cfg:           cfg,
		db:            db,
		reportRepo:    reportRepo,
		notifications: notifications,
	}
}

func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc(r.cfg.MeetingReminderSpec, r.sendMeetingReminders); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc(r.cfg.StaleDraftSpec, r.sweepStaleDrafts); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// sendMeetingReminders notifies every employee assigned to a client whose
// weekly meeting falls on the current weekday.
func (r *Runner) sendMeetingReminders() {
	weekday := strings.ToLower(time.Now().Weekday().String())

	rows, err := r.db.Query(`
		SELECT DISTINCT ca.employee_id, c.name, c.meeting_time
		FROM clients c
		JOIN client_assignments ca ON ca.client_id = c.id
		WHERE c.status = 'active' AND LOWER(c.weekly_meeting_day) = ?`, weekday)
	if err != nil {
		log.Error().Err(err).Msg("meeting reminder query failed")
		return
	}
	defer rows.Close()

	sent := 0
	for rows.Next() {
		var employeeID, clientName, meetingTime string
		if err := rows.Scan(&employeeID, &clientName, &meetingTime); err != nil {
			log.Error().Err(err).Msg("meeting reminder scan failed")
			return
		}

		body := "Weekly meeting with " + clientName + " today"
		if meetingTime != "" {
			body += " at " + meetingTime
		}
		notif := &models.Notification{
			ID:        "ntf_" + uuid.NewString(),
			UserID:    employeeID,
			Kind:      "meeting_reminder",
			Body:      body + ".",
			CreatedAt: time.Now().Unix(),
		}
		if err := r.notifications.Create(notif); err != nil {
			log.Error().Err(err).Str("employee_id", employeeID).Msg("meeting reminder insert failed")
			continue
		}
		sent++
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("meeting reminder iteration failed")
		return
	}

	log.Info().Int("sent", sent).Str("weekday", weekday).Msg("meeting reminders delivered")
}

// sweepStaleDrafts drops report drafts that have sat untouched past the
// configured age.
func (r *Runner) sweepStaleDrafts() {
	cutoff := time.Now().Add(-r.cfg.StaleDraftAge).Unix()

	removed, err := r.reportRepo.DeleteStaleDrafts(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("stale draft sweep failed")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("stale report drafts removed")
	}
}
