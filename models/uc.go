package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UC verification states. Verified and Rejected are terminal.
const (
	UCPending  = "Pending Verification"
	UCVerified = "Verified"
	UCRejected = "Rejected"
)

// UCSubmission is one utilization certificate filed by a district for a
// financial year.
type UCSubmission struct {
	UCID          uint            `gorm:"primaryKey;column:uc_id" json:"uc_id"`
	DistrictID    uint            `gorm:"column:district_id;index" json:"district_id"`
	FinancialYear string          `gorm:"column:financial_year" json:"financial_year"`
	FundReleased  decimal.Decimal `gorm:"column:fund_released;type:decimal(18,2)" json:"fund_released"`
	FundUtilized  decimal.Decimal `gorm:"column:fund_utilized;type:decimal(18,2)" json:"fund_utilized"`
	DocumentURL   string          `gorm:"column:document_url" json:"document_url"`
	Status        string          `gorm:"column:status;index" json:"status"`
	VerifiedBy    *uint           `gorm:"column:verified_by" json:"verified_by,omitempty"`
	VerifiedAt    *time.Time      `gorm:"column:verified_at" json:"verified_at,omitempty"`
	Remarks       *string         `gorm:"column:remarks" json:"remarks,omitempty"`
	CreatedBy     uint            `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	District District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

// TableName overrides
func (UCSubmission) TableName() string {
	return "uc_submissions"
}

// UtilizationPercent returns fund_utilized as a percentage of fund_released,
// rounded to two places. Zero released reports zero.
func (u *UCSubmission) UtilizationPercent() decimal.Decimal {
	if u.FundReleased.IsZero() {
		return decimal.Zero
	}
	return u.FundUtilized.Div(u.FundReleased).Mul(decimal.NewFromInt(100)).Round(2)
}
