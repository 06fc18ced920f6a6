package controllers

import (
	"net/http"
	"strconv"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/services"
	"pmajay-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// crore converts the optional amount_cr convenience field to rupees.
var crore = decimal.NewFromInt(10000000)

// AllocateFunds records a Ministry→State allocation tranche
func AllocateFunds(c *gin.Context) {
	type AllocateRequest struct {
		StateID       uint     `json:"state_id"`
		StateName     string   `json:"state_name"`
		Amount        *decimal.Decimal `json:"amount"`
		AmountCr      *decimal.Decimal `json:"amount_cr"`
		Components    []string `json:"components"`
		Date          string   `json:"date"`
		SanctionOrder string   `json:"sanction_order"`
		AllocatorName string   `json:"allocator_name" binding:"required"`
		AllocatorRole string   `json:"allocator_role"`
		AllocatorPhone string  `json:"allocator_phone"`
	}

	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.StateID == 0 && req.StateName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "state_id or state_name is required"})
		return
	}

	amount, ok := resolveAmount(req.Amount, req.AmountCr)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount or amount_cr is required"})
		return
	}

	var phone *string
	if req.AllocatorPhone != "" {
		if !utils.ValidatePhone(req.AllocatorPhone) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid allocator phone number"})
			return
		}
		phone = &req.AllocatorPhone
	}

	input := services.AllocateInput{
		StateID:        req.StateID,
		StateName:      req.StateName,
		Amount:         amount,
		Components:     req.Components,
		AllocationDate: parseDate(req.Date),
		SanctionOrder:  req.SanctionOrder,
		OfficerName:    utils.SanitizeInput(req.AllocatorName),
		OfficerRole:    utils.SanitizeInput(req.AllocatorRole),
		OfficerPhone:   phone,
		CreatedBy:      currentUserID(c),
	}

	allocation, err := services.NewFundService(nil).Allocate(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": allocation})
}

// GetStateBalance returns the allocation ledger summary for a state
func GetStateBalance(c *gin.Context) {
	stateID, err := strconv.ParseUint(c.Param("state_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid state id"})
		return
	}

	balance, err := services.NewFundService(nil).StateBalance(uint(stateID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": balance})
}

// ListAllocations returns allocation tranches, optionally per state
func ListAllocations(c *gin.Context) {
	var allocations []models.FundAllocation
	query := config.DB.Preload("State").Order("allocation_date DESC")

	if stateID := c.Query("state_id"); stateID != "" {
		query = query.Where("state_id = ?", stateID)
	}
	if currentRoleID(c) == models.RoleState {
		if stateID, ok := currentStateID(c); ok {
			query = query.Where("state_id = ?", stateID)
		}
	}

	if err := query.Find(&allocations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch allocations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": allocations, "total": len(allocations)})
}

func resolveAmount(amount, amountCr *decimal.Decimal) (decimal.Decimal, bool) {
	if amount != nil && !amount.IsZero() {
		return *amount, true
	}
	if amountCr != nil && !amountCr.IsZero() {
		return amountCr.Mul(crore), true
	}
	return decimal.Zero, false
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
