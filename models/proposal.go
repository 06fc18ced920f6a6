package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Proposal workflow states. Transitions outside ProposalTransitions are
// rejected at the service boundary.
const (
	ProposalSubmitted          = "SUBMITTED"
	ProposalApprovedByState    = "APPROVED_BY_STATE"
	ProposalRejectedByState    = "REJECTED_BY_STATE"
	ProposalApprovedByMinistry = "APPROVED_BY_MINISTRY"
	ProposalRejectedByMinistry = "REJECTED_BY_MINISTRY"
	ProposalCompleted          = "COMPLETED"
)

// ProposalTransitions is the closed transition table for proposal statuses.
// Rejected and completed states are terminal.
var ProposalTransitions = map[string][]string{
	ProposalSubmitted:          {ProposalApprovedByState, ProposalRejectedByState},
	ProposalApprovedByState:    {ProposalApprovedByMinistry, ProposalRejectedByMinistry},
	ProposalApprovedByMinistry: {ProposalCompleted},
	ProposalRejectedByState:    {},
	ProposalRejectedByMinistry: {},
	ProposalCompleted:          {},
}

// IsValidProposalStatus reports whether s is a known workflow state.
func IsValidProposalStatus(s string) bool {
	_, ok := ProposalTransitions[s]
	return ok
}

// CanTransition reports whether the from→to edge exists in the table.
func CanTransition(from, to string) bool {
	for _, next := range ProposalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsRejection reports whether s is one of the rejection states, which
// require a reason.
func IsRejection(s string) bool {
	return s == ProposalRejectedByState || s == ProposalRejectedByMinistry
}

// ProposalDocument is one uploaded attachment, embedded in the proposal row
// as a JSON array.
type ProposalDocument struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type Proposal struct {
	ProposalID      uint            `gorm:"primaryKey;column:proposal_id" json:"proposal_id"`
	DistrictID      uint            `gorm:"column:district_id;index" json:"district_id"`
	ProjectName     string          `gorm:"column:project_name" json:"project_name"`
	Component       string          `gorm:"column:component" json:"component"`
	EstimatedCost   decimal.Decimal `gorm:"column:estimated_cost;type:decimal(18,2)" json:"estimated_cost"`
	AllocatedAmount decimal.Decimal `gorm:"column:allocated_amount;type:decimal(18,2)" json:"allocated_amount"`
	ReleasedAmount  decimal.Decimal `gorm:"column:released_amount;type:decimal(18,2)" json:"released_amount"`
	RemainingFund   decimal.Decimal `gorm:"column:remaining_fund;type:decimal(18,2)" json:"remaining_fund"`
	Status          string          `gorm:"column:status;index" json:"status"`
	RejectReason    *string         `gorm:"column:reject_reason" json:"reject_reason,omitempty"`
	ApprovedBy      *uint           `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `gorm:"column:approved_at" json:"approved_at,omitempty"`
	AgencyID        *uint           `gorm:"column:agency_id" json:"agency_id,omitempty"`
	Documents       string          `gorm:"column:documents" json:"-"`
	CreatedBy       uint            `gorm:"column:created_by" json:"created_by"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	District District            `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
	Agency   *ImplementingAgency `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`
}

// ProposalHistory is the audit trail for proposal workflow actions.
type ProposalHistory struct {
	HistoryID  uint      `gorm:"primaryKey;column:history_id" json:"history_id"`
	ProposalID uint      `gorm:"column:proposal_id;index" json:"proposal_id"`
	OldStatus  *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus  string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy  uint      `gorm:"column:changed_by" json:"changed_by"`
	Remarks    *string   `gorm:"column:remarks" json:"remarks,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Proposal) TableName() string {
	return "district_proposals"
}

func (ProposalHistory) TableName() string {
	return "proposal_history"
}

// DocumentList decodes the attachments stored on the row.
func (p *Proposal) DocumentList() []ProposalDocument {
	if p.Documents == "" {
		return []ProposalDocument{}
	}
	var out []ProposalDocument
	if err := json.Unmarshal([]byte(p.Documents), &out); err != nil {
		return []ProposalDocument{}
	}
	return out
}

// EncodeDocuments stores the attachments as a JSON array.
func (p *Proposal) EncodeDocuments(docs []ProposalDocument) {
	if len(docs) == 0 {
		p.Documents = "[]"
		return
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		p.Documents = "[]"
		return
	}
	p.Documents = string(raw)
}
