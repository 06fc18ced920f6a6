package services

import (
	"errors"
	"fmt"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrInvalidStatus        = errors.New("unknown proposal status")
	ErrInvalidTransition    = errors.New("illegal status transition")
	ErrReasonRequired       = errors.New("a reason is required to reject a proposal")
	ErrAgencyNotEligible    = errors.New("agency is not eligible for this proposal")
	ErrEstimatedCostInvalid = errors.New("estimated cost must be greater than zero")
)

// ProposalService drives the proposal workflow: district submission, the
// state/ministry decision chain, agency assignment, and the audit trail.
type ProposalService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewProposalService(db *gorm.DB) *ProposalService {
	if db == nil {
		db = config.DB
	}
	return &ProposalService{
		db:     db,
		notify: NewNotificationService(db),
	}
}

type SubmitProposalInput struct {
	DistrictID    uint
	ProjectName   string
	Component     string
	EstimatedCost decimal.Decimal
	Documents     []models.ProposalDocument
	CreatedBy     uint
}

// Submit creates a proposal in SUBMITTED, writes the first history row and
// notifies the owning state's admins.
func (s *ProposalService) Submit(input SubmitProposalInput) (*models.Proposal, error) {
	if !input.EstimatedCost.IsPositive() {
		return nil, ErrEstimatedCostInvalid
	}

	var created *models.Proposal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var district models.District
		if err := tx.First(&district, "district_id = ?", input.DistrictID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDistrictNotFound
			}
			return err
		}

		proposal := models.Proposal{
			DistrictID:      district.DistrictID,
			ProjectName:     input.ProjectName,
			Component:       input.Component,
			EstimatedCost:   input.EstimatedCost,
			AllocatedAmount: decimal.Zero,
			ReleasedAmount:  decimal.Zero,
			RemainingFund:   decimal.Zero,
			Status:          models.ProposalSubmitted,
			CreatedBy:       input.CreatedBy,
		}
		proposal.EncodeDocuments(input.Documents)

		if err := tx.Create(&proposal).Error; err != nil {
			return err
		}
		created = &proposal

		history := models.ProposalHistory{
			ProposalID: proposal.ProposalID,
			NewStatus:  models.ProposalSubmitted,
			ChangedBy:  input.CreatedBy,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		return s.notify.NotifyStateAdmins(tx, district.StateID, NotificationInput{
			Title:      "New Proposal Submitted",
			Message:    fmt.Sprintf("%s district submitted proposal '%s' (%s estimated) for review", district.Name, proposal.ProjectName, utils.FormatINR(proposal.EstimatedCost)),
			Type:       "info",
			ProposalID: &proposal.ProposalID,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type TransitionInput struct {
	ProposalID     uint
	NewStatus      string
	ActorID        uint
	Reason         string
	ApprovedAmount *decimal.Decimal
}

// Transition moves a proposal along the closed transition table, appends a
// history row and fans out notifications: the district hears about every
// decision, the ministry only when the state approves.
func (s *ProposalService) Transition(input TransitionInput) (*models.Proposal, error) {
	if !models.IsValidProposalStatus(input.NewStatus) {
		return nil, ErrInvalidStatus
	}
	if models.IsRejection(input.NewStatus) && input.Reason == "" {
		return nil, ErrReasonRequired
	}

	var updated *models.Proposal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := lockForUpdate(tx).Preload("District").
			First(&proposal, "proposal_id = ?", input.ProposalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProposalNotFound
			}
			return err
		}

		if !models.CanTransition(proposal.Status, input.NewStatus) {
			return ErrInvalidTransition
		}

		oldStatus := proposal.Status
		now := time.Now()
		proposal.Status = input.NewStatus

		switch input.NewStatus {
		case models.ProposalApprovedByState, models.ProposalApprovedByMinistry:
			if input.ApprovedAmount != nil {
				if !input.ApprovedAmount.IsPositive() {
					return ErrInvalidAmount
				}
				proposal.AllocatedAmount = *input.ApprovedAmount
				proposal.RemainingFund = input.ApprovedAmount.Sub(proposal.ReleasedAmount)
			}
			if input.NewStatus == models.ProposalApprovedByMinistry {
				proposal.ApprovedBy = &input.ActorID
				proposal.ApprovedAt = &now
			}
		case models.ProposalRejectedByState, models.ProposalRejectedByMinistry:
			reason := input.Reason
			proposal.RejectReason = &reason
		}

		if err := tx.Save(&proposal).Error; err != nil {
			return err
		}
		updated = &proposal

		history := models.ProposalHistory{
			ProposalID: proposal.ProposalID,
			OldStatus:  &oldStatus,
			NewStatus:  input.NewStatus,
			ChangedBy:  input.ActorID,
		}
		if input.Reason != "" {
			reason := input.Reason
			history.Remarks = &reason
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		return s.fanOut(tx, &proposal, input.NewStatus, input.Reason)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ProposalService) fanOut(tx *gorm.DB, proposal *models.Proposal, newStatus, reason string) error {
	district := NotificationInput{
		Title:      "Proposal " + statusLabel(newStatus),
		Message:    fmt.Sprintf("Proposal '%s' is now %s", proposal.ProjectName, statusLabel(newStatus)),
		Type:       "info",
		ProposalID: &proposal.ProposalID,
	}
	if models.IsRejection(newStatus) {
		district.Type = "error"
		district.Message = fmt.Sprintf("Proposal '%s' was rejected: %s", proposal.ProjectName, reason)
	}
	if err := s.notify.NotifyDistrictAdmins(tx, proposal.DistrictID, district); err != nil {
		return err
	}

	if newStatus == models.ProposalApprovedByState {
		return s.notify.NotifyMinistryAdmins(tx, NotificationInput{
			Title:      "Proposal Awaiting Ministry Review",
			Message:    fmt.Sprintf("Proposal '%s' from %s was approved by the state and awaits ministry review", proposal.ProjectName, proposal.District.Name),
			Type:       "info",
			ProposalID: &proposal.ProposalID,
		})
	}
	return nil
}

func statusLabel(status string) string {
	switch status {
	case models.ProposalApprovedByState:
		return "Approved by State"
	case models.ProposalRejectedByState:
		return "Rejected by State"
	case models.ProposalApprovedByMinistry:
		return "Approved by Ministry"
	case models.ProposalRejectedByMinistry:
		return "Rejected by Ministry"
	case models.ProposalCompleted:
		return "Completed"
	default:
		return status
	}
}

// AssignAgency links an active agency to a ministry-approved proposal,
// making it eligible for agency-hop fund releases.
func (s *ProposalService) AssignAgency(proposalID, agencyID, actorID uint) (*models.Proposal, error) {
	var updated *models.Proposal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := lockForUpdate(tx).First(&proposal, "proposal_id = ?", proposalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProposalNotFound
			}
			return err
		}
		if proposal.Status != models.ProposalApprovedByMinistry {
			return ErrProposalNotApproved
		}

		var agency models.ImplementingAgency
		if err := tx.First(&agency, "agency_id = ?", agencyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAgencyNotFound
			}
			return err
		}
		if agency.Status != models.AgencyStatusActive {
			return ErrAgencyNotActive
		}
		if agency.DistrictID != nil && *agency.DistrictID != proposal.DistrictID {
			return ErrAgencyNotEligible
		}

		proposal.AgencyID = &agency.AgencyID
		if err := tx.Save(&proposal).Error; err != nil {
			return err
		}
		updated = &proposal

		remarks := fmt.Sprintf("assigned to agency %s", agency.Name)
		history := models.ProposalHistory{
			ProposalID: proposal.ProposalID,
			OldStatus:  &proposal.Status,
			NewStatus:  proposal.Status,
			ChangedBy:  actorID,
			Remarks:    &remarks,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if agency.UserID != nil {
			return s.notify.NotifyUser(tx, *agency.UserID, NotificationInput{
				Title:      "Project Assigned",
				Message:    fmt.Sprintf("Your agency was assigned project '%s'", proposal.ProjectName),
				Type:       "success",
				ProposalID: &proposal.ProposalID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
