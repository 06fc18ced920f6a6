package models

import "time"

type State struct {
	StateID   uint      `gorm:"primaryKey;column:state_id" json:"state_id"`
	Name      string    `gorm:"column:name;unique" json:"name"`
	Code      string    `gorm:"column:code" json:"code"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

type District struct {
	DistrictID uint      `gorm:"primaryKey;column:district_id" json:"district_id"`
	StateID    uint      `gorm:"column:state_id" json:"state_id"`
	Name       string    `gorm:"column:name" json:"name"`
	Code       string    `gorm:"column:code" json:"code"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	State State `gorm:"foreignKey:StateID" json:"state,omitempty"`
}

// TableName overrides
func (State) TableName() string {
	return "states"
}

func (District) TableName() string {
	return "districts"
}
