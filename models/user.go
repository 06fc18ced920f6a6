package models

import (
	"time"
)

// Role IDs used across route guards and scoping queries.
const (
	RoleMinistry = 1
	RoleState    = 2
	RoleDistrict = 3
	RoleAgency   = 4
)

type User struct {
	UserID     uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	FullName   string     `gorm:"column:full_name" json:"full_name"`
	Email      string     `gorm:"column:email;unique" json:"email"`
	Password   string     `gorm:"column:password" json:"-"`
	Phone      *string    `gorm:"column:phone" json:"phone,omitempty"`
	PushToken  *string    `gorm:"column:push_token" json:"push_token,omitempty"`
	RoleID     int        `gorm:"column:role_id" json:"role_id"`
	StateID    *uint      `gorm:"column:state_id" json:"state_id,omitempty"`
	DistrictID *uint      `gorm:"column:district_id" json:"district_id,omitempty"`
	AgencyID   *uint      `gorm:"column:agency_id" json:"agency_id,omitempty"`
	IsActive   bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt  *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID    int       `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role      string    `gorm:"column:role" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (User) TableName() string {
	return "profiles"
}

func (Role) TableName() string {
	return "roles"
}
