package controllers

import (
	"errors"
	"net/http"

	"pmajay-api/services"

	"github.com/gin-gonic/gin"
)

func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func currentRoleID(c *gin.Context) int {
	if v, ok := c.Get("roleID"); ok {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

func currentStateID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("stateID"); ok {
		if id, ok := v.(uint); ok {
			return id, true
		}
	}
	return 0, false
}

func currentDistrictID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("districtID"); ok {
		if id, ok := v.(uint); ok {
			return id, true
		}
	}
	return 0, false
}

// respondServiceError maps service errors onto the uniform error envelope.
// Insufficient-balance rejections carry the computed remaining so callers
// can show it.
func respondServiceError(c *gin.Context, err error) {
	var insufficient *services.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     insufficient.Error(),
			"remaining": insufficient.Remaining,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrStateNotFound),
		errors.Is(err, services.ErrDistrictNotFound),
		errors.Is(err, services.ErrAgencyNotFound),
		errors.Is(err, services.ErrProposalNotFound),
		errors.Is(err, services.ErrUCNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})

	case errors.Is(err, services.ErrDuplicateUC):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})

	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidReleaseType),
		errors.Is(err, services.ErrProposalRequired),
		errors.Is(err, services.ErrVillageCodeRequired),
		errors.Is(err, services.ErrProposalNotApproved),
		errors.Is(err, services.ErrAgencyNotActive),
		errors.Is(err, services.ErrAgencyNotEligible),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrEstimatedCostInvalid),
		errors.Is(err, services.ErrInvalidUCStatus),
		errors.Is(err, services.ErrInvalidFinancialYear),
		errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrUCAlreadyProcessed):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
