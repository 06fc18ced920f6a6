package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// FundAllocation is one Ministry-sanctioned funding tranche for a state.
// Tranche rows are immutable; the released total for a state is computed
// over its fund_releases inside the release transaction, never stored here.
type FundAllocation struct {
	AllocationID   uint            `gorm:"primaryKey;column:allocation_id" json:"allocation_id"`
	StateID        uint            `gorm:"column:state_id;index" json:"state_id"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Components     string          `gorm:"column:components" json:"-"`
	AllocationDate time.Time       `gorm:"column:allocation_date" json:"allocation_date"`
	SanctionOrder  string          `gorm:"column:sanction_order" json:"sanction_order"`
	OfficerName    string          `gorm:"column:officer_name" json:"officer_name"`
	OfficerRole    string          `gorm:"column:officer_role" json:"officer_role"`
	OfficerPhone   *string         `gorm:"column:officer_phone" json:"officer_phone,omitempty"`
	CreatedBy      uint            `gorm:"column:created_by" json:"created_by"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`

	// Relations
	State State `gorm:"foreignKey:StateID" json:"state,omitempty"`
}

// TableName overrides
func (FundAllocation) TableName() string {
	return "fund_allocations"
}

// ComponentList decodes the scheme components stored as a JSON array.
func (a *FundAllocation) ComponentList() []string {
	if a.Components == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(a.Components), &out); err != nil {
		return []string{}
	}
	return out
}

// EncodeComponents stores the scheme components as a JSON array.
func (a *FundAllocation) EncodeComponents(components []string) {
	if len(components) == 0 {
		a.Components = "[]"
		return
	}
	raw, err := json.Marshal(components)
	if err != nil {
		a.Components = "[]"
		return
	}
	a.Components = string(raw)
}
