package controllers

import (
	"net/http"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/utils"

	"github.com/gin-gonic/gin"
)

// GetStates returns all states
func GetStates(c *gin.Context) {
	var states []models.State
	if err := config.DB.Order("name ASC").Find(&states).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch states"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": states, "total": len(states)})
}

// CreateState registers a state (ministry only)
func CreateState(c *gin.Context) {
	type CreateStateRequest struct {
		Name string `json:"name" binding:"required"`
		Code string `json:"code"`
	}

	var req CreateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	state := models.State{
		Name: utils.SanitizeInput(req.Name),
		Code: utils.SanitizeInput(req.Code),
	}
	if err := config.DB.Create(&state).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "State already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": state})
}

// GetDistricts returns districts, optionally filtered by state
func GetDistricts(c *gin.Context) {
	var districts []models.District
	query := config.DB.Preload("State").Order("name ASC")

	if stateID := c.Query("state_id"); stateID != "" {
		query = query.Where("state_id = ?", stateID)
	}
	// state admins only see their own districts
	if currentRoleID(c) == models.RoleState {
		if stateID, ok := currentStateID(c); ok {
			query = query.Where("state_id = ?", stateID)
		}
	}

	if err := query.Find(&districts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch districts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": districts, "total": len(districts)})
}

// CreateDistrict registers a district under a state
func CreateDistrict(c *gin.Context) {
	type CreateDistrictRequest struct {
		StateID uint   `json:"state_id"`
		Name    string `json:"name" binding:"required"`
		Code    string `json:"code"`
	}

	var req CreateDistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// state admins create districts in their own state only
	if currentRoleID(c) == models.RoleState {
		stateID, ok := currentStateID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No state scope on account"})
			return
		}
		req.StateID = stateID
	}

	var state models.State
	if err := config.DB.First(&state, "state_id = ?", req.StateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "State not found"})
		return
	}

	district := models.District{
		StateID: state.StateID,
		Name:    utils.SanitizeInput(req.Name),
		Code:    utils.SanitizeInput(req.Code),
	}
	if err := config.DB.Create(&district).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create district"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": district})
}
