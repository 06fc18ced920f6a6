package services

import (
	"testing"

	"pmajay-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitProposal(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	state := seedState(t, db, "Madhya Pradesh")
	district := seedDistrict(t, db, state.StateID, "Bhopal")
	stateAdmin := seedStateAdmin(t, db, state.StateID)

	proposal, err := svc.Submit(SubmitProposalInput{
		DistrictID:    district.DistrictID,
		ProjectName:   "Community Hall",
		Component:     "Adarsh Gram",
		EstimatedCost: dec("2500000"),
		Documents: []models.ProposalDocument{
			{Name: "dpr.pdf", URL: "/uploads/districts/1/proposals/a.pdf", Type: ".pdf", Size: 1024},
		},
		CreatedBy: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalSubmitted, proposal.Status)

	docs := proposal.DocumentList()
	require.Len(t, docs, 1)
	assert.Equal(t, "dpr.pdf", docs[0].Name)

	var history []models.ProposalHistory
	require.NoError(t, db.Where("proposal_id = ?", proposal.ProposalID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].OldStatus)
	assert.Equal(t, models.ProposalSubmitted, history[0].NewStatus)

	rows := notificationsFor(t, db, stateAdmin.UserID)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Message, "Community Hall")
}

func TestSubmitProposalValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)

	_, err := svc.Submit(SubmitProposalInput{DistrictID: 99, ProjectName: "X", EstimatedCost: dec("0")})
	assert.ErrorIs(t, err, ErrEstimatedCostInvalid)

	_, err = svc.Submit(SubmitProposalInput{DistrictID: 99, ProjectName: "X", EstimatedCost: dec("10")})
	assert.ErrorIs(t, err, ErrDistrictNotFound)
}

func TestProposalLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	state := seedState(t, db, "Karnataka")
	district := seedDistrict(t, db, state.StateID, "Mysuru")
	districtAdmin := seedDistrictAdmin(t, db, state.StateID, district.DistrictID)
	ministryAdmin := seedUser(t, db, models.RoleMinistry, nil)

	proposal, err := svc.Submit(SubmitProposalInput{
		DistrictID:    district.DistrictID,
		ProjectName:   "Anganwadi Upgrade",
		Component:     "Adarsh Gram",
		EstimatedCost: dec("4000000"),
		CreatedBy:     districtAdmin.UserID,
	})
	require.NoError(t, err)

	amount := dec("3500000")
	proposal, err = svc.Transition(TransitionInput{
		ProposalID:     proposal.ProposalID,
		NewStatus:      models.ProposalApprovedByState,
		ActorID:        1,
		ApprovedAmount: &amount,
	})
	require.NoError(t, err)
	assert.True(t, proposal.AllocatedAmount.Equal(amount))

	// state approval pings both the district and the ministry
	assert.Len(t, notificationsFor(t, db, districtAdmin.UserID), 1)
	require.Len(t, notificationsFor(t, db, ministryAdmin.UserID), 1)
	assert.Contains(t, notificationsFor(t, db, ministryAdmin.UserID)[0].Message, "awaits ministry review")

	proposal, err = svc.Transition(TransitionInput{
		ProposalID: proposal.ProposalID,
		NewStatus:  models.ProposalApprovedByMinistry,
		ActorID:    2,
	})
	require.NoError(t, err)
	require.NotNil(t, proposal.ApprovedBy)
	assert.EqualValues(t, 2, *proposal.ApprovedBy)
	assert.NotNil(t, proposal.ApprovedAt)

	// ministry approval only goes back down to the district
	assert.Len(t, notificationsFor(t, db, districtAdmin.UserID), 2)
	assert.Len(t, notificationsFor(t, db, ministryAdmin.UserID), 1)

	proposal, err = svc.Transition(TransitionInput{
		ProposalID: proposal.ProposalID,
		NewStatus:  models.ProposalCompleted,
		ActorID:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalCompleted, proposal.Status)

	var history []models.ProposalHistory
	require.NoError(t, db.Where("proposal_id = ?", proposal.ProposalID).Order("history_id ASC").Find(&history).Error)
	assert.Len(t, history, 4)
}

func TestProposalRejectionRequiresReason(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)

	_, err := svc.Transition(TransitionInput{ProposalID: 1, NewStatus: models.ProposalRejectedByState})
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestProposalRejectionIsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	state := seedState(t, db, "Chhattisgarh")
	district := seedDistrict(t, db, state.StateID, "Raipur")
	districtAdmin := seedDistrictAdmin(t, db, state.StateID, district.DistrictID)

	proposal, err := svc.Submit(SubmitProposalInput{
		DistrictID:    district.DistrictID,
		ProjectName:   "Road Repair",
		Component:     "Adarsh Gram",
		EstimatedCost: dec("100000"),
	})
	require.NoError(t, err)

	proposal, err = svc.Transition(TransitionInput{
		ProposalID: proposal.ProposalID,
		NewStatus:  models.ProposalRejectedByState,
		ActorID:    1,
		Reason:     "Incomplete DPR",
	})
	require.NoError(t, err)
	require.NotNil(t, proposal.RejectReason)
	assert.Equal(t, "Incomplete DPR", *proposal.RejectReason)

	rows := notificationsFor(t, db, districtAdmin.UserID)
	require.Len(t, rows, 1)
	assert.Equal(t, "error", rows[0].Type)
	assert.Contains(t, rows[0].Message, "Incomplete DPR")

	// terminal: no way out of a rejection
	_, err = svc.Transition(TransitionInput{
		ProposalID: proposal.ProposalID,
		NewStatus:  models.ProposalApprovedByState,
		ActorID:    1,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProposalIllegalTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	state := seedState(t, db, "Goa")
	district := seedDistrict(t, db, state.StateID, "North Goa")

	proposal, err := svc.Submit(SubmitProposalInput{
		DistrictID:    district.DistrictID,
		ProjectName:   "Library",
		Component:     "Hostel",
		EstimatedCost: dec("100"),
	})
	require.NoError(t, err)

	// cannot skip the state hop
	_, err = svc.Transition(TransitionInput{
		ProposalID: proposal.ProposalID,
		NewStatus:  models.ProposalApprovedByMinistry,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(TransitionInput{
		ProposalID: proposal.ProposalID,
		NewStatus:  "ON_HOLD",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Transition(TransitionInput{ProposalID: 9999, NewStatus: models.ProposalApprovedByState})
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestAssignAgency(t *testing.T) {
	db := newTestDB(t)
	svc := NewProposalService(db)
	state := seedState(t, db, "Andhra Pradesh")
	district := seedDistrict(t, db, state.StateID, "Guntur")
	other := seedDistrict(t, db, state.StateID, "Krishna")

	agency := seedAgency(t, db, state.StateID, &district.DistrictID, models.AgencyStatusActive)
	agencyUser := seedUser(t, db, models.RoleAgency, func(u *models.User) {
		u.AgencyID = &agency.AgencyID
	})
	require.NoError(t, db.Model(&models.ImplementingAgency{}).
		Where("agency_id = ?", agency.AgencyID).
		Update("user_id", agencyUser.UserID).Error)

	outsider := seedAgency(t, db, state.StateID, &other.DistrictID, models.AgencyStatusActive)
	inactive := seedAgency(t, db, state.StateID, &district.DistrictID, models.AgencyStatusPending)

	proposal, err := svc.Submit(SubmitProposalInput{
		DistrictID:    district.DistrictID,
		ProjectName:   "Water Supply",
		Component:     "Adarsh Gram",
		EstimatedCost: dec("100000"),
	})
	require.NoError(t, err)

	// not yet approved by ministry
	_, err = svc.AssignAgency(proposal.ProposalID, agency.AgencyID, 1)
	assert.ErrorIs(t, err, ErrProposalNotApproved)

	_, err = svc.Transition(TransitionInput{ProposalID: proposal.ProposalID, NewStatus: models.ProposalApprovedByState, ActorID: 1})
	require.NoError(t, err)
	_, err = svc.Transition(TransitionInput{ProposalID: proposal.ProposalID, NewStatus: models.ProposalApprovedByMinistry, ActorID: 1})
	require.NoError(t, err)

	_, err = svc.AssignAgency(proposal.ProposalID, outsider.AgencyID, 1)
	assert.ErrorIs(t, err, ErrAgencyNotEligible)

	_, err = svc.AssignAgency(proposal.ProposalID, inactive.AgencyID, 1)
	assert.ErrorIs(t, err, ErrAgencyNotActive)

	updated, err := svc.AssignAgency(proposal.ProposalID, agency.AgencyID, 1)
	require.NoError(t, err)
	require.NotNil(t, updated.AgencyID)
	assert.Equal(t, agency.AgencyID, *updated.AgencyID)

	rows := notificationsFor(t, db, agencyUser.UserID)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Message, "Water Supply")
}
