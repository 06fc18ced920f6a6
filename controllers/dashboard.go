package controllers

import (
	"net/http"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/services"
	"pmajay-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetDashboardStats returns headline figures scoped by the caller's role:
// ministry sees the whole cascade, state admins their state, district
// admins their district.
func GetDashboardStats(c *gin.Context) {
	switch currentRoleID(c) {
	case models.RoleState:
		stateID, ok := currentStateID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No state scope on account"})
			return
		}
		stateDashboard(c, stateID)
	case models.RoleDistrict:
		districtID, ok := currentDistrictID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No district scope on account"})
			return
		}
		districtDashboard(c, districtID)
	default:
		ministryDashboard(c)
	}
}

func ministryDashboard(c *gin.Context) {
	var stateCount, proposalCount, pendingUCs, pendingAgencies int64
	config.DB.Model(&models.State{}).Count(&stateCount)
	config.DB.Model(&models.Proposal{}).Count(&proposalCount)
	config.DB.Model(&models.UCSubmission{}).Where("status = ?", models.UCPending).Count(&pendingUCs)
	config.DB.Model(&models.ImplementingAgency{}).Where("status = ?", models.AgencyStatusPending).Count(&pendingAgencies)

	var awaitingMinistry int64
	config.DB.Model(&models.Proposal{}).
		Where("status = ?", models.ProposalApprovedByState).Count(&awaitingMinistry)

	allocated := sumColumn(&models.FundAllocation{}, "")
	released := sumColumn(&models.FundRelease{}, "")

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"states":                  stateCount,
		"total_allocated":         allocated,
		"total_allocated_display": utils.FormatINR(allocated),
		"total_released":          released,
		"total_released_display":  utils.FormatINR(released),
		"proposals":               proposalCount,
		"proposals_awaiting":      awaitingMinistry,
		"pending_ucs":             pendingUCs,
		"pending_agencies":        pendingAgencies,
	}})
}

func stateDashboard(c *gin.Context, stateID uint) {
	balance, err := services.NewFundService(nil).StateBalance(stateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var districtCount, pendingProposals, pendingUCs int64
	config.DB.Model(&models.District{}).Where("state_id = ?", stateID).Count(&districtCount)
	config.DB.Model(&models.Proposal{}).
		Joins("JOIN districts ON districts.district_id = district_proposals.district_id").
		Where("districts.state_id = ? AND district_proposals.status = ?", stateID, models.ProposalSubmitted).
		Count(&pendingProposals)
	config.DB.Model(&models.UCSubmission{}).
		Joins("JOIN districts ON districts.district_id = uc_submissions.district_id").
		Where("districts.state_id = ? AND uc_submissions.status = ?", stateID, models.UCPending).
		Count(&pendingUCs)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"balance":           balance,
		"districts":         districtCount,
		"pending_proposals": pendingProposals,
		"pending_ucs":       pendingUCs,
	}})
}

func districtDashboard(c *gin.Context, districtID uint) {
	balance, err := services.NewFundService(nil).DistrictBalance(districtID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var proposalCount, approvedCount, ucCount int64
	config.DB.Model(&models.Proposal{}).Where("district_id = ?", districtID).Count(&proposalCount)
	config.DB.Model(&models.Proposal{}).
		Where("district_id = ? AND status = ?", districtID, models.ProposalApprovedByMinistry).
		Count(&approvedCount)
	config.DB.Model(&models.UCSubmission{}).Where("district_id = ?", districtID).Count(&ucCount)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"balance":            balance,
		"proposals":          proposalCount,
		"proposals_approved": approvedCount,
		"uc_submissions":     ucCount,
	}})
}

// sumColumn totals the amount column of a ledger table in application code,
// keeping decimal arithmetic off the database.
func sumColumn(model interface{}, where string, args ...interface{}) decimal.Decimal {
	total := decimal.Zero
	query := config.DB.Model(model)
	if where != "" {
		query = query.Where(where, args...)
	}

	var amounts []decimal.Decimal
	if err := query.Pluck("amount", &amounts).Error; err != nil {
		return total
	}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
