package models

import "time"

// Support ticket states.
const (
	TicketOpen   = "open"
	TicketClosed = "closed"
)

type SupportTicket struct {
	TicketID    uint       `gorm:"primaryKey;column:ticket_id" json:"ticket_id"`
	UserID      uint       `gorm:"column:user_id;index" json:"user_id"`
	Subject     string     `gorm:"column:subject" json:"subject"`
	Message     string     `gorm:"column:message" json:"message"`
	Status      string     `gorm:"column:status;default:open" json:"status"`
	Response    *string    `gorm:"column:response" json:"response,omitempty"`
	RespondedBy *uint      `gorm:"column:responded_by" json:"responded_by,omitempty"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (SupportTicket) TableName() string { return "support_tickets" }
