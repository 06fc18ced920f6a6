package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"

	"gorm.io/gorm"
)

const defaultMaxReminders = 5

// ReminderJob nudges state admins about proposals stuck in SUBMITTED. At
// most maxReminders are sent per proposal; counts live in the file-backed
// store.
type ReminderJob struct {
	db           *gorm.DB
	notify       *NotificationService
	store        *ReminderStore
	maxReminders int
	minAge       time.Duration
}

func NewReminderJob(db *gorm.DB, store *ReminderStore) *ReminderJob {
	if db == nil {
		db = config.DB
	}
	return &ReminderJob{
		db:           db,
		notify:       NewNotificationService(db),
		store:        store,
		maxReminders: defaultMaxReminders,
		minAge:       48 * time.Hour,
	}
}

// Run polls on the given interval until ctx is cancelled. The first pass
// runs immediately.
func (j *ReminderJob) Run(ctx context.Context, interval time.Duration) {
	if n, err := j.RunOnce(); err != nil {
		log.Printf("proposal reminders: %v", err)
	} else {
		log.Printf("proposal reminders: %d sent", n)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := j.RunOnce(); err != nil {
				log.Printf("proposal reminders: %v", err)
			} else {
				log.Printf("proposal reminders: %d sent", n)
			}
		}
	}
}

// RunOnce sends one reminder for every stuck proposal still under the bound
// and returns how many were sent.
func (j *ReminderJob) RunOnce() (int, error) {
	cutoff := time.Now().Add(-j.minAge)

	var stuck []models.Proposal
	if err := j.db.Preload("District").
		Where("status = ? AND created_at < ?", models.ProposalSubmitted, cutoff).
		Find(&stuck).Error; err != nil {
		return 0, err
	}

	sent := 0
	for i := range stuck {
		proposal := &stuck[i]

		count := j.store.Count(proposal.ProposalID)
		if count >= j.maxReminders {
			continue
		}

		err := j.notify.NotifyStateAdmins(nil, proposal.District.StateID, NotificationInput{
			Title:      "Proposal Awaiting Review",
			Message:    fmt.Sprintf("Proposal '%s' from %s district has been awaiting review since %s (reminder %d of %d)", proposal.ProjectName, proposal.District.Name, proposal.CreatedAt.Format("02/01/2006"), count+1, j.maxReminders),
			Type:       "warning",
			ProposalID: &proposal.ProposalID,
		})
		if err != nil {
			log.Printf("proposal reminders: proposal %d: %v", proposal.ProposalID, err)
			continue
		}

		if err := j.store.Increment(proposal.ProposalID); err != nil {
			return sent, err
		}
		sent++
	}

	return sent, nil
}
