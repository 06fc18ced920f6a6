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

// SubmitUC files a utilization certificate for the caller's district
func SubmitUC(c *gin.Context) {
	var req struct {
		DistrictID    uint            `json:"district_id"`
		FinancialYear string          `json:"financial_year" binding:"required"`
		FundReleased  decimal.Decimal `json:"fund_released"`
		FundUtilized  decimal.Decimal `json:"fund_utilized"`
		DocumentURL   string          `json:"document_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	districtID, ok := scopedDistrictID(c, req.DistrictID)
	if !ok {
		return
	}

	uc, err := services.NewUCService(nil).Submit(services.SubmitUCInput{
		DistrictID:    districtID,
		FinancialYear: req.FinancialYear,
		FundReleased:  req.FundReleased,
		FundUtilized:  req.FundUtilized,
		DocumentURL:   req.DocumentURL,
		CreatedBy:     currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": uc})
}

// VerifyUC records the state's verification decision on a pending certificate
func VerifyUC(c *gin.Context) {
	ucID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid certificate id"})
		return
	}

	var req struct {
		Status  string `json:"status" binding:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	uc, err := services.NewUCService(nil).Verify(uint(ucID), req.Status, req.Remarks, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": uc})
}

// ListUCs returns certificates visible to the caller's scope
func ListUCs(c *gin.Context) {
	query := config.DB.Preload("District").Preload("District.State").Order("created_at DESC")

	switch currentRoleID(c) {
	case models.RoleState:
		stateID, ok := currentStateID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No state scope on account"})
			return
		}
		query = query.Joins("JOIN districts ON districts.district_id = uc_submissions.district_id").
			Where("districts.state_id = ?", stateID)
	case models.RoleDistrict:
		districtID, ok := currentDistrictID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No district scope on account"})
			return
		}
		query = query.Where("uc_submissions.district_id = ?", districtID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("uc_submissions.status = ?", status)
	}
	if fy := c.Query("financial_year"); fy != "" {
		query = query.Where("uc_submissions.financial_year = ?", fy)
	}

	var ucs []models.UCSubmission
	if err := query.Find(&ucs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch certificates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": ucs, "total": len(ucs)})
}
