package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pmajay-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *ReminderStore {
	t.Helper()
	store, err := LoadReminderStore(filepath.Join(t.TempDir(), "reminder-state.json"))
	require.NoError(t, err)
	return store
}

func agedProposal(t *testing.T, db *gorm.DB, districtID uint, age time.Duration) models.Proposal {
	t.Helper()
	proposal := models.Proposal{
		DistrictID:    districtID,
		ProjectName:   fmt.Sprintf("Stuck Project %d", time.Now().UnixNano()),
		Component:     "Adarsh Gram",
		EstimatedCost: dec("100000"),
		Status:        models.ProposalSubmitted,
	}
	require.NoError(t, db.Create(&proposal).Error)
	require.NoError(t, db.Model(&models.Proposal{}).
		Where("proposal_id = ?", proposal.ProposalID).
		Update("created_at", time.Now().Add(-age)).Error)
	return proposal
}

func TestReminderJobSkipsFreshProposals(t *testing.T) {
	db := newTestDB(t)
	state := seedState(t, db, "Ladakh")
	district := seedDistrict(t, db, state.StateID, "Leh")
	seedStateAdmin(t, db, state.StateID)

	agedProposal(t, db, district.DistrictID, time.Hour)

	job := NewReminderJob(db, newTestStore(t))
	sent, err := job.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestReminderJobNotifiesStateAdmins(t *testing.T) {
	db := newTestDB(t)
	state := seedState(t, db, "Puducherry")
	district := seedDistrict(t, db, state.StateID, "Karaikal")
	admin := seedStateAdmin(t, db, state.StateID)

	proposal := agedProposal(t, db, district.DistrictID, 72*time.Hour)

	store := newTestStore(t)
	job := NewReminderJob(db, store)

	sent, err := job.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, store.Count(proposal.ProposalID))

	rows := notificationsFor(t, db, admin.UserID)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Message, proposal.ProjectName)
	assert.Contains(t, rows[0].Message, "reminder 1 of 5")
	assert.Equal(t, "warning", rows[0].Type)
}

func TestReminderJobBoundsReminders(t *testing.T) {
	db := newTestDB(t)
	state := seedState(t, db, "Delhi")
	district := seedDistrict(t, db, state.StateID, "New Delhi")
	admin := seedStateAdmin(t, db, state.StateID)

	agedProposal(t, db, district.DistrictID, 72*time.Hour)

	job := NewReminderJob(db, newTestStore(t))
	for i := 0; i < 10; i++ {
		_, err := job.RunOnce()
		require.NoError(t, err)
	}

	rows := notificationsFor(t, db, admin.UserID)
	assert.Len(t, rows, defaultMaxReminders)
	assert.Contains(t, rows[len(rows)-1].Message, "reminder 5 of 5")
}

func TestReminderJobIgnoresDecidedProposals(t *testing.T) {
	db := newTestDB(t)
	state := seedState(t, db, "Chandigarh")
	district := seedDistrict(t, db, state.StateID, "Chandigarh")
	seedStateAdmin(t, db, state.StateID)

	proposal := agedProposal(t, db, district.DistrictID, 72*time.Hour)
	require.NoError(t, db.Model(&models.Proposal{}).
		Where("proposal_id = ?", proposal.ProposalID).
		Update("status", models.ProposalApprovedByState).Error)

	sent, err := NewReminderJob(db, newTestStore(t)).RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestReminderStorePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := LoadReminderStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Increment(42))
	require.NoError(t, store.Increment(42))
	require.NoError(t, store.Increment(7))

	reloaded, err := LoadReminderStore(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Count(42))
	assert.Equal(t, 1, reloaded.Count(7))
	assert.Equal(t, 0, reloaded.Count(999))

	require.NoError(t, reloaded.Forget(42))
	final, err := LoadReminderStore(path)
	require.NoError(t, err)
	assert.Equal(t, 0, final.Count(42))
	assert.Equal(t, 1, final.Count(7))
}
