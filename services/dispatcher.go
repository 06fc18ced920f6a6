package services

import (
	"context"
	"log"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"

	"gorm.io/gorm"
)

// Dispatcher drains the notification outbox. Delivery failures are logged
// and retried up to maxAttempts; they never reach the request handler that
// enqueued the row.
type Dispatcher struct {
	db          *gorm.DB
	interval    time.Duration
	batchSize   int
	maxAttempts int

	// delivery hooks, replaceable in tests
	sendWhatsApp func(phone, title, message string) error
	sendPush     func(token, title, message string) error
	sendEmail    func(to []string, subject, html string) error
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	if db == nil {
		db = config.DB
	}
	whatsapp := NewWhatsAppClientFromEnv()
	push := NewPushClientFromEnv()
	return &Dispatcher{
		db:           db,
		interval:     15 * time.Second,
		batchSize:    20,
		maxAttempts:  3,
		sendWhatsApp: whatsapp.Send,
		sendPush:     push.Send,
		sendEmail:    config.SendMail,
	}
}

// Start runs the polling loop until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.DispatchPending()
			}
		}
	}()
}

// DispatchPending delivers one batch of pending rows and returns how many
// were attempted.
func (d *Dispatcher) DispatchPending() int {
	var pending []models.Notification
	if err := d.db.Where("delivery_status = ? AND attempts < ?", models.DeliveryPending, d.maxAttempts).
		Order("created_at ASC").
		Limit(d.batchSize).
		Find(&pending).Error; err != nil {
		log.Printf("notification dispatch: fetch failed: %v", err)
		return 0
	}

	for i := range pending {
		n := &pending[i]
		err := d.deliver(n)

		n.Attempts++
		now := time.Now()
		updates := map[string]interface{}{
			"attempts": n.Attempts,
		}
		if err != nil {
			msg := err.Error()
			updates["last_error"] = msg
			if n.Attempts >= d.maxAttempts {
				updates["delivery_status"] = models.DeliveryFailed
			}
			log.Printf("notification %d via %s failed (attempt %d): %v",
				n.NotificationID, n.Channel, n.Attempts, err)
		} else {
			updates["delivery_status"] = models.DeliverySent
			updates["sent_at"] = now
		}

		if dbErr := d.db.Model(&models.Notification{}).
			Where("notification_id = ?", n.NotificationID).
			Updates(updates).Error; dbErr != nil {
			log.Printf("notification %d: status update failed: %v", n.NotificationID, dbErr)
		}
	}

	return len(pending)
}

func (d *Dispatcher) deliver(n *models.Notification) error {
	switch n.Channel {
	case models.ChannelWhatsApp:
		return d.sendWhatsApp(n.Recipient, n.Title, n.Message)
	case models.ChannelPush:
		return d.sendPush(n.Recipient, n.Title, n.Message)
	case models.ChannelEmail:
		return d.sendEmail([]string{n.Recipient}, n.Title, "<p>"+n.Message+"</p>")
	default:
		// in-app rows have no external delivery step
		return nil
	}
}
