package controllers

import (
	"net/http"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"

	"github.com/gin-gonic/gin"
)

// CreateTicket opens a support ticket for the caller
func CreateTicket(c *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ticket := models.SupportTicket{
		UserID:  currentUserID(c),
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.TicketOpen,
	}
	if err := config.DB.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create ticket"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": ticket})
}

// ListTickets returns the caller's tickets; ministry admins see all of them
func ListTickets(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if currentRoleID(c) != models.RoleMinistry {
		query = query.Where("user_id = ?", currentUserID(c))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []models.SupportTicket
	if err := query.Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tickets, "total": len(tickets)})
}

// RespondTicket records a ministry response and closes the ticket
func RespondTicket(c *gin.Context) {
	var req struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var ticket models.SupportTicket
	if err := config.DB.First(&ticket, "ticket_id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Ticket not found"})
		return
	}

	userID := currentUserID(c)
	now := time.Now()
	updates := map[string]interface{}{
		"response":     req.Response,
		"responded_by": userID,
		"responded_at": now,
		"status":       models.TicketClosed,
	}
	if err := config.DB.Model(&ticket).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update ticket"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": ticket})
}
