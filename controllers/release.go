package controllers

import (
	"net/http"
	"strconv"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type releaseRequest struct {
	// ministry→state when state_id/state_name is set, state→district when
	// district_id is set
	StateID       uint             `json:"state_id"`
	StateName     string           `json:"state_name"`
	DistrictID    uint             `json:"district_id"`
	ReleaseType   string           `json:"release_type"`
	ProposalID    *uint            `json:"proposal_id"`
	Amount        *decimal.Decimal `json:"amount"`
	AmountCr      *decimal.Decimal `json:"amount_cr"`
	SanctionOrder string           `json:"sanction_order"`
	Date          string           `json:"date"`
	BankAccount   *string          `json:"bank_account"`
	Remarks       *string          `json:"remarks"`
}

// ReleaseFunds records a ministry→state or state→district release depending
// on the body
func ReleaseFunds(c *gin.Context) {
	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	amount, ok := resolveAmount(req.Amount, req.AmountCr)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount or amount_cr is required"})
		return
	}

	svc := services.NewFundService(nil)

	if req.DistrictID != 0 {
		// state→district hop
		if currentRoleID(c) == models.RoleState {
			if !districtBelongsToState(c, req.DistrictID) {
				c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "District is outside your state"})
				return
			}
		}

		release, err := svc.ReleaseToDistrict(services.DistrictReleaseInput{
			DistrictID:    req.DistrictID,
			Amount:        amount,
			SanctionOrder: req.SanctionOrder,
			ReleaseDate:   parseDate(req.Date),
			Remarks:       req.Remarks,
			CreatedBy:     currentUserID(c),
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": release})
		return
	}

	// ministry→state hop
	if currentRoleID(c) != models.RoleMinistry {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only ministry can release to states"})
		return
	}

	release, err := svc.ReleaseToState(services.StateReleaseInput{
		StateID:       req.StateID,
		StateName:     req.StateName,
		ReleaseType:   req.ReleaseType,
		ProposalID:    req.ProposalID,
		Amount:        amount,
		SanctionOrder: req.SanctionOrder,
		ReleaseDate:   parseDate(req.Date),
		BankAccount:   req.BankAccount,
		Remarks:       req.Remarks,
		CreatedBy:     currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": release})
}

// ReleaseToAgency records a district→agency release
func ReleaseToAgency(c *gin.Context) {
	type agencyReleaseRequest struct {
		DistrictID    uint             `json:"district_id"`
		AgencyID      uint             `json:"agency_id" binding:"required"`
		ProposalID    *uint            `json:"proposal_id"`
		Amount        *decimal.Decimal `json:"amount"`
		AmountCr      *decimal.Decimal `json:"amount_cr"`
		SanctionOrder string           `json:"sanction_order"`
		Date          string           `json:"date"`
		Remarks       *string          `json:"remarks"`
	}

	var req agencyReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	districtID, ok := scopedDistrictID(c, req.DistrictID)
	if !ok {
		return
	}
	amount, ok := resolveAmount(req.Amount, req.AmountCr)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount or amount_cr is required"})
		return
	}

	release, err := services.NewFundService(nil).ReleaseToAgency(services.AgencyReleaseInput{
		DistrictID:    districtID,
		AgencyID:      req.AgencyID,
		ProposalID:    req.ProposalID,
		Amount:        amount,
		SanctionOrder: req.SanctionOrder,
		ReleaseDate:   parseDate(req.Date),
		Remarks:       req.Remarks,
		CreatedBy:     currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": release})
}

// ReleaseToVillage records a district→village release
func ReleaseToVillage(c *gin.Context) {
	type villageReleaseRequest struct {
		DistrictID    uint             `json:"district_id"`
		VillageCode   string           `json:"village_code" binding:"required"`
		VillageName   string           `json:"village_name"`
		Amount        *decimal.Decimal `json:"amount"`
		AmountCr      *decimal.Decimal `json:"amount_cr"`
		SanctionOrder string           `json:"sanction_order"`
		Date          string           `json:"date"`
		Remarks       *string          `json:"remarks"`
	}

	var req villageReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	districtID, ok := scopedDistrictID(c, req.DistrictID)
	if !ok {
		return
	}
	amount, ok := resolveAmount(req.Amount, req.AmountCr)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount or amount_cr is required"})
		return
	}

	release, err := services.NewFundService(nil).ReleaseToVillage(services.VillageReleaseInput{
		DistrictID:    districtID,
		VillageCode:   req.VillageCode,
		VillageName:   req.VillageName,
		Amount:        amount,
		SanctionOrder: req.SanctionOrder,
		ReleaseDate:   parseDate(req.Date),
		Remarks:       req.Remarks,
		CreatedBy:     currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": release})
}

// GetDistrictBalance returns the district's cascade balance
func GetDistrictBalance(c *gin.Context) {
	districtID, err := strconv.ParseUint(c.Param("district_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid district id"})
		return
	}

	balance, err2 := services.NewFundService(nil).DistrictBalance(uint(districtID))
	if err2 != nil {
		respondServiceError(c, err2)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": balance})
}

// ListReleases returns release records for one hop (default ministry→state)
func ListReleases(c *gin.Context) {
	hop := c.DefaultQuery("hop", "state")

	switch hop {
	case "state":
		var releases []models.FundRelease
		query := config.DB.Preload("State").Order("release_date DESC")
		if stateID := c.Query("state_id"); stateID != "" {
			query = query.Where("state_id = ?", stateID)
		}
		if err := query.Find(&releases).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch releases"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": releases, "total": len(releases)})

	case "district":
		var releases []models.StateFundRelease
		query := config.DB.Preload("District").Order("release_date DESC")
		if districtID := c.Query("district_id"); districtID != "" {
			query = query.Where("district_id = ?", districtID)
		}
		if err := query.Find(&releases).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch releases"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": releases, "total": len(releases)})

	case "agency":
		var releases []models.AgencyFundRelease
		query := config.DB.Preload("Agency").Order("release_date DESC")
		if districtID := c.Query("district_id"); districtID != "" {
			query = query.Where("district_id = ?", districtID)
		}
		if err := query.Find(&releases).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch releases"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": releases, "total": len(releases)})

	case "village":
		var releases []models.VillageFundRelease
		query := config.DB.Order("release_date DESC")
		if districtID := c.Query("district_id"); districtID != "" {
			query = query.Where("district_id = ?", districtID)
		}
		if err := query.Find(&releases).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch releases"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": releases, "total": len(releases)})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "hop must be state, district, agency or village"})
	}
}

// scopedDistrictID resolves the acting district: district admins always act
// as their own district, others must name one.
func scopedDistrictID(c *gin.Context, requested uint) (uint, bool) {
	if currentRoleID(c) == models.RoleDistrict {
		if districtID, ok := currentDistrictID(c); ok {
			return districtID, true
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No district scope on account"})
		return 0, false
	}
	if requested == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "district_id is required"})
		return 0, false
	}
	return requested, true
}

func districtBelongsToState(c *gin.Context, districtID uint) bool {
	stateID, ok := currentStateID(c)
	if !ok {
		return false
	}
	var district models.District
	if err := config.DB.First(&district, "district_id = ?", districtID).Error; err != nil {
		return true // existence is re-checked by the service for a proper 404
	}
	return district.StateID == stateID
}
