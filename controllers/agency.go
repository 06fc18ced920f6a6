package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/services"
	"pmajay-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type agencyRequest struct {
	Name         string  `json:"name" binding:"required"`
	AgencyType   string  `json:"agency_type" binding:"required"`
	ContactName  string  `json:"contact_name" binding:"required"`
	ContactEmail string  `json:"contact_email" binding:"required"`
	ContactPhone *string `json:"contact_phone"`
	StateID      uint    `json:"state_id" binding:"required"`
	DistrictID   *uint   `json:"district_id"`
}

func (r *agencyRequest) validate() string {
	if r.AgencyType != models.AgencyImplementing && r.AgencyType != models.AgencyExecuting {
		return "agency_type must be Implementing or Executing"
	}
	if !utils.ValidateEmail(r.ContactEmail) {
		return "Invalid contact email"
	}
	if r.ContactPhone != nil && !utils.ValidatePhone(*r.ContactPhone) {
		return "Invalid contact phone"
	}
	return ""
}

// CreateAgency registers an agency on behalf of an admin. Admin-created
// agencies start Active, skipping the self-registration review.
func CreateAgency(c *gin.Context) {
	var req agencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}

	userID := currentUserID(c)
	now := time.Now()
	agency := models.ImplementingAgency{
		Name:         strings.TrimSpace(req.Name),
		AgencyType:   req.AgencyType,
		ContactName:  req.ContactName,
		ContactEmail: strings.ToLower(req.ContactEmail),
		ContactPhone: req.ContactPhone,
		StateID:      req.StateID,
		DistrictID:   req.DistrictID,
		Status:       models.AgencyStatusActive,
		ActivatedBy:  &userID,
		ActivatedAt:  &now,
	}
	if err := config.DB.Create(&agency).Error; err != nil {
		if isDuplicateErr(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "An agency with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create agency"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": agency})
}

// RegisterAgency is the public self-registration endpoint. The agency lands
// in Pending and gets a linked agency-role login in one transaction.
func RegisterAgency(c *gin.Context) {
	var req struct {
		agencyRequest
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Password must be at least 8 characters"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process password"})
		return
	}

	var agency models.ImplementingAgency
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		agency = models.ImplementingAgency{
			Name:         strings.TrimSpace(req.Name),
			AgencyType:   req.AgencyType,
			ContactName:  req.ContactName,
			ContactEmail: strings.ToLower(req.ContactEmail),
			ContactPhone: req.ContactPhone,
			StateID:      req.StateID,
			DistrictID:   req.DistrictID,
			Status:       models.AgencyStatusPending,
		}
		if err := tx.Create(&agency).Error; err != nil {
			return err
		}

		user := models.User{
			FullName:   req.ContactName,
			Email:      strings.ToLower(req.ContactEmail),
			Password:   hashed,
			Phone:      req.ContactPhone,
			RoleID:     models.RoleAgency,
			StateID:    &agency.StateID,
			DistrictID: agency.DistrictID,
			AgencyID:   &agency.AgencyID,
			IsActive:   true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		agency.UserID = &user.UserID
		return tx.Model(&models.ImplementingAgency{}).
			Where("agency_id = ?", agency.AgencyID).
			Update("user_id", user.UserID).Error
	})
	if err != nil {
		if isDuplicateErr(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "An agency with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register agency"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration received. The agency will be usable once an admin activates it.",
		"data":    agency,
	})
}

// ActivateAgency flips a pending agency to Active. Activation is one-way.
func ActivateAgency(c *gin.Context) {
	agencyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid agency id"})
		return
	}

	var agency models.ImplementingAgency
	if err := config.DB.First(&agency, "agency_id = ?", agencyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Agency not found"})
		return
	}
	if agency.Status == models.AgencyStatusActive {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": agency, "message": "Agency is already active"})
		return
	}

	userID := currentUserID(c)
	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.AgencyStatusActive,
		"activated_by": userID,
		"activated_at": now,
	}
	if err := config.DB.Model(&agency).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to activate agency"})
		return
	}

	if agency.UserID != nil {
		services.NewNotificationService(nil).NotifyUser(config.DB, *agency.UserID, services.NotificationInput{
			Title:   "Agency Activated",
			Message: "Your agency '" + agency.Name + "' has been activated and can now receive fund releases",
			Type:    "success",
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": agency})
}

// ListAgencies returns agencies, optionally filtered by state, district,
// type or status
func ListAgencies(c *gin.Context) {
	query := config.DB.Preload("State").Order("name ASC")

	if stateID := c.Query("state_id"); stateID != "" {
		query = query.Where("state_id = ?", stateID)
	}
	if districtID := c.Query("district_id"); districtID != "" {
		query = query.Where("district_id = ?", districtID)
	}
	if agencyType := c.Query("agency_type"); agencyType != "" {
		query = query.Where("agency_type = ?", agencyType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var agencies []models.ImplementingAgency
	if err := query.Find(&agencies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch agencies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": agencies, "total": len(agencies)})
}

// GetAgency returns one agency
func GetAgency(c *gin.Context) {
	var agency models.ImplementingAgency
	if err := config.DB.Preload("State").
		First(&agency, "agency_id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Agency not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": agency})
}

func isDuplicateErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
