package models

import "time"

// Agency kinds and activation states. Activation is one-way: Pending
// agencies become Active and there is no deactivation path.
const (
	AgencyImplementing = "Implementing"
	AgencyExecuting    = "Executing"

	AgencyStatusPending = "Pending"
	AgencyStatusActive  = "Active"
)

// ImplementingAgency covers both implementing and executing agencies,
// discriminated by agency_type.
type ImplementingAgency struct {
	AgencyID     uint       `gorm:"primaryKey;column:agency_id" json:"agency_id"`
	Name         string     `gorm:"column:name" json:"name"`
	AgencyType   string     `gorm:"column:agency_type" json:"agency_type"`
	ContactName  string     `gorm:"column:contact_name" json:"contact_name"`
	ContactEmail string     `gorm:"column:contact_email;unique" json:"contact_email"`
	ContactPhone *string    `gorm:"column:contact_phone" json:"contact_phone,omitempty"`
	StateID      uint       `gorm:"column:state_id;index" json:"state_id"`
	DistrictID   *uint      `gorm:"column:district_id" json:"district_id,omitempty"`
	UserID       *uint      `gorm:"column:user_id" json:"user_id,omitempty"`
	Status       string     `gorm:"column:status" json:"status"`
	ActivatedBy  *uint      `gorm:"column:activated_by" json:"activated_by,omitempty"`
	ActivatedAt  *time.Time `gorm:"column:activated_at" json:"activated_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	State State `gorm:"foreignKey:StateID" json:"state,omitempty"`
}

// TableName overrides
func (ImplementingAgency) TableName() string {
	return "implementing_agencies"
}
