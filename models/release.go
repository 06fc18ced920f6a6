package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Release kinds for the ministry→state hop. A state release is validated
// against the state's allocation ledger; a project release is validated
// against the linked proposal's allocated amount instead.
const (
	ReleaseTypeState   = "state"
	ReleaseTypeProject = "project"
)

// FundRelease records one ministry→state transfer. Release rows are
// immutable: corrections are compensating entries, there is no update path.
type FundRelease struct {
	ReleaseID     uint            `gorm:"primaryKey;column:release_id" json:"release_id"`
	StateID       uint            `gorm:"column:state_id;index" json:"state_id"`
	ReleaseType   string          `gorm:"column:release_type" json:"release_type"`
	ProposalID    *uint           `gorm:"column:proposal_id" json:"proposal_id,omitempty"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	SanctionOrder string          `gorm:"column:sanction_order" json:"sanction_order"`
	ReleaseDate   time.Time       `gorm:"column:release_date" json:"release_date"`
	BankAccount   *string         `gorm:"column:bank_account" json:"bank_account,omitempty"`
	Remarks       *string         `gorm:"column:remarks" json:"remarks,omitempty"`
	CreatedBy     uint            `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`

	// Relations
	State State `gorm:"foreignKey:StateID" json:"state,omitempty"`
}

// StateFundRelease records one state→district transfer.
type StateFundRelease struct {
	ReleaseID     uint            `gorm:"primaryKey;column:release_id" json:"release_id"`
	StateID       uint            `gorm:"column:state_id;index" json:"state_id"`
	DistrictID    uint            `gorm:"column:district_id;index" json:"district_id"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	SanctionOrder string          `gorm:"column:sanction_order" json:"sanction_order"`
	ReleaseDate   time.Time       `gorm:"column:release_date" json:"release_date"`
	Remarks       *string         `gorm:"column:remarks" json:"remarks,omitempty"`
	CreatedBy     uint            `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`

	// Relations
	District District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

// AgencyFundRelease records one district→agency transfer.
type AgencyFundRelease struct {
	ReleaseID     uint            `gorm:"primaryKey;column:release_id" json:"release_id"`
	DistrictID    uint            `gorm:"column:district_id;index" json:"district_id"`
	AgencyID      uint            `gorm:"column:agency_id;index" json:"agency_id"`
	ProposalID    *uint           `gorm:"column:proposal_id" json:"proposal_id,omitempty"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	SanctionOrder string          `gorm:"column:sanction_order" json:"sanction_order"`
	ReleaseDate   time.Time       `gorm:"column:release_date" json:"release_date"`
	Remarks       *string         `gorm:"column:remarks" json:"remarks,omitempty"`
	CreatedBy     uint            `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`

	// Relations
	Agency ImplementingAgency `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`
}

// VillageFundRelease records one district→village transfer. Villages are
// identified by census code, there is no village registry table.
type VillageFundRelease struct {
	ReleaseID     uint            `gorm:"primaryKey;column:release_id" json:"release_id"`
	DistrictID    uint            `gorm:"column:district_id;index" json:"district_id"`
	VillageCode   string          `gorm:"column:village_code" json:"village_code"`
	VillageName   string          `gorm:"column:village_name" json:"village_name"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	SanctionOrder string          `gorm:"column:sanction_order" json:"sanction_order"`
	ReleaseDate   time.Time       `gorm:"column:release_date" json:"release_date"`
	Remarks       *string         `gorm:"column:remarks" json:"remarks,omitempty"`
	CreatedBy     uint            `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (FundRelease) TableName() string {
	return "fund_releases"
}

func (StateFundRelease) TableName() string {
	return "state_fund_releases"
}

func (AgencyFundRelease) TableName() string {
	return "agency_fund_releases"
}

func (VillageFundRelease) TableName() string {
	return "village_fund_releases"
}
