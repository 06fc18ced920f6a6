package services

import (
	"testing"

	"pmajay-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitUC(t *testing.T) {
	db := newTestDB(t)
	svc := NewUCService(db)
	state := seedState(t, db, "West Bengal")
	district := seedDistrict(t, db, state.StateID, "Howrah")
	stateAdmin := seedStateAdmin(t, db, state.StateID)

	uc, err := svc.Submit(SubmitUCInput{
		DistrictID:    district.DistrictID,
		FinancialYear: "2025-26",
		FundReleased:  dec("10000000"),
		FundUtilized:  dec("8000000"),
		DocumentURL:   "/uploads/uc/2025-26.pdf",
		CreatedBy:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, models.UCPending, uc.Status)
	assert.True(t, uc.UtilizationPercent().Equal(dec("80")))

	rows := notificationsFor(t, db, stateAdmin.UserID)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Message, "80% utilization")
	assert.Contains(t, rows[0].Message, "₹80,00,000")
}

func TestSubmitUCValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUCService(db)
	state := seedState(t, db, "Sikkim")
	district := seedDistrict(t, db, state.StateID, "Gangtok")

	_, err := svc.Submit(SubmitUCInput{DistrictID: district.DistrictID, FinancialYear: "2025"})
	assert.ErrorIs(t, err, ErrInvalidFinancialYear)

	_, err = svc.Submit(SubmitUCInput{DistrictID: district.DistrictID, FinancialYear: "25-26"})
	assert.ErrorIs(t, err, ErrInvalidFinancialYear)

	_, err = svc.Submit(SubmitUCInput{
		DistrictID:    district.DistrictID,
		FinancialYear: "2025-26",
		FundReleased:  dec("-1"),
	})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = svc.Submit(SubmitUCInput{DistrictID: 999, FinancialYear: "2025-26"})
	assert.ErrorIs(t, err, ErrDistrictNotFound)
}

func TestSubmitUCDuplicateYear(t *testing.T) {
	db := newTestDB(t)
	svc := NewUCService(db)
	state := seedState(t, db, "Tripura")
	district := seedDistrict(t, db, state.StateID, "West Tripura")

	_, err := svc.Submit(SubmitUCInput{
		DistrictID:    district.DistrictID,
		FinancialYear: "2024-25",
		FundReleased:  dec("100"),
		FundUtilized:  dec("50"),
	})
	require.NoError(t, err)

	_, err = svc.Submit(SubmitUCInput{
		DistrictID:    district.DistrictID,
		FinancialYear: "2024-25",
		FundReleased:  dec("200"),
	})
	assert.ErrorIs(t, err, ErrDuplicateUC)

	// another year is fine
	_, err = svc.Submit(SubmitUCInput{
		DistrictID:    district.DistrictID,
		FinancialYear: "2025-26",
		FundReleased:  dec("200"),
	})
	assert.NoError(t, err)
}

func TestUCOverUtilizationIsAccepted(t *testing.T) {
	db := newTestDB(t)
	svc := NewUCService(db)
	state := seedState(t, db, "Nagaland")
	district := seedDistrict(t, db, state.StateID, "Kohima")

	// utilizing more than released is a data point for the verifier, not an
	// input error
	uc, err := svc.Submit(SubmitUCInput{
		DistrictID:    district.DistrictID,
		FinancialYear: "2025-26",
		FundReleased:  dec("100"),
		FundUtilized:  dec("150"),
	})
	require.NoError(t, err)
	assert.True(t, uc.UtilizationPercent().Equal(dec("150")))
}

func TestVerifyUC(t *testing.T) {
	db := newTestDB(t)
	svc := NewUCService(db)
	state := seedState(t, db, "Mizoram")
	district := seedDistrict(t, db, state.StateID, "Aizawl")
	districtAdmin := seedDistrictAdmin(t, db, state.StateID, district.DistrictID)

	uc, err := svc.Submit(SubmitUCInput{
		DistrictID:    district.DistrictID,
		FinancialYear: "2025-26",
		FundReleased:  dec("1000"),
		FundUtilized:  dec("900"),
	})
	require.NoError(t, err)

	_, err = svc.Verify(uc.UCID, "In Review", "", 5)
	assert.ErrorIs(t, err, ErrInvalidUCStatus)

	verified, err := svc.Verify(uc.UCID, models.UCVerified, "figures match", 5)
	require.NoError(t, err)
	assert.Equal(t, models.UCVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.EqualValues(t, 5, *verified.VerifiedBy)
	assert.NotNil(t, verified.VerifiedAt)

	rows := notificationsFor(t, db, districtAdmin.UserID)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Message, "verified")

	// verification is one-shot
	_, err = svc.Verify(uc.UCID, models.UCRejected, "", 5)
	assert.ErrorIs(t, err, ErrUCAlreadyProcessed)
}

func TestRejectUCIsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewUCService(db)
	state := seedState(t, db, "Manipur")
	district := seedDistrict(t, db, state.StateID, "Imphal West")
	districtAdmin := seedDistrictAdmin(t, db, state.StateID, district.DistrictID)

	uc, err := svc.Submit(SubmitUCInput{
		DistrictID:    district.DistrictID,
		FinancialYear: "2025-26",
		FundReleased:  dec("1000"),
		FundUtilized:  dec("100"),
	})
	require.NoError(t, err)

	rejected, err := svc.Verify(uc.UCID, models.UCRejected, "utilization too low", 5)
	require.NoError(t, err)
	assert.Equal(t, models.UCRejected, rejected.Status)

	rows := notificationsFor(t, db, districtAdmin.UserID)
	require.Len(t, rows, 1)
	assert.Equal(t, "error", rows[0].Type)
	assert.Contains(t, rows[0].Message, "utilization too low")

	_, err = svc.Verify(uc.UCID, models.UCVerified, "", 5)
	assert.ErrorIs(t, err, ErrUCAlreadyProcessed)

	_, err = svc.Verify(9999, models.UCVerified, "", 5)
	assert.ErrorIs(t, err, ErrUCNotFound)
}
