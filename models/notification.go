package models

import "time"

// Delivery channels. An in-app row has no external delivery step and is
// marked sent by the dispatcher without calling out.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelPush     = "push"
	ChannelEmail    = "email"
	ChannelInApp    = "inapp"
)

// Outbox delivery states.
const (
	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
)

// Notification is an outbox row: enqueued in the same transaction as the
// business write that caused it, delivered later by the dispatcher. It
// doubles as the in-app notification list for the addressed user.
type Notification struct {
	NotificationID    uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID            *uint      `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Channel           string     `gorm:"column:channel" json:"channel"`
	Recipient         string     `gorm:"column:recipient" json:"-"`
	Title             string     `gorm:"column:title" json:"title"`
	Message           string     `gorm:"column:message" json:"message"`
	Type              string     `gorm:"column:type" json:"type"` // info|success|warning|error
	RelatedProposalID *uint      `gorm:"column:related_proposal_id" json:"related_proposal_id,omitempty"`
	RelatedReleaseID  *uint      `gorm:"column:related_release_id" json:"related_release_id,omitempty"`
	RelatedUCID       *uint      `gorm:"column:related_uc_id" json:"related_uc_id,omitempty"`
	DeliveryStatus    string     `gorm:"column:delivery_status;index;default:pending" json:"delivery_status"`
	Attempts          int        `gorm:"column:attempts" json:"attempts"`
	LastError         *string    `gorm:"column:last_error" json:"last_error,omitempty"`
	SentAt            *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	IsRead            bool       `gorm:"column:is_read" json:"is_read"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
