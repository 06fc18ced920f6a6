package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxProposalDocs    = 5
	maxProposalDocSize = 10 << 20 // 10 MB per file
)

var allowedDocExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// CreateProposal accepts a multipart form with proposal fields plus up to
// five supporting documents
func CreateProposal(c *gin.Context) {
	districtID, ok := currentDistrictID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No district scope on account"})
		return
	}

	projectName := strings.TrimSpace(c.PostForm("project_name"))
	component := strings.TrimSpace(c.PostForm("component"))
	if projectName == "" || component == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "project_name and component are required"})
		return
	}

	cost, err := decimal.NewFromString(c.PostForm("estimated_cost"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid estimated_cost"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid multipart form"})
		return
	}
	files := form.File["documents"]
	if len(files) > maxProposalDocs {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("At most %d documents allowed", maxProposalDocs)})
		return
	}

	uploadRoot := os.Getenv("UPLOAD_PATH")
	if uploadRoot == "" {
		uploadRoot = "./uploads"
	}
	docDir := filepath.Join(uploadRoot, "districts", fmt.Sprintf("%d", districtID), "proposals")

	var documents []models.ProposalDocument
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedDocExts[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("File type %s is not allowed", ext)})
			return
		}
		if file.Size > maxProposalDocSize {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("%s exceeds the 10MB limit", file.Filename)})
			return
		}

		if err := os.MkdirAll(docDir, 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to prepare upload directory"})
			return
		}
		stored := uuid.New().String() + "_" + filepath.Base(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(docDir, stored)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store document"})
			return
		}

		documents = append(documents, models.ProposalDocument{
			Name: file.Filename,
			URL:  fmt.Sprintf("/uploads/districts/%d/proposals/%s", districtID, stored),
			Type: ext,
			Size: file.Size,
		})
	}

	proposal, err := services.NewProposalService(nil).Submit(services.SubmitProposalInput{
		DistrictID:    districtID,
		ProjectName:   projectName,
		Component:     component,
		EstimatedCost: cost,
		Documents:     documents,
		CreatedBy:     currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": proposal})
}

// ListProposals returns proposals visible to the caller's scope
func ListProposals(c *gin.Context) {
	query := config.DB.Preload("District").Preload("District.State").Order("created_at DESC")

	switch currentRoleID(c) {
	case models.RoleState:
		stateID, ok := currentStateID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No state scope on account"})
			return
		}
		query = query.Joins("JOIN districts ON districts.district_id = district_proposals.district_id").
			Where("districts.state_id = ?", stateID)
	case models.RoleDistrict:
		districtID, ok := currentDistrictID(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No district scope on account"})
			return
		}
		query = query.Where("district_proposals.district_id = ?", districtID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("district_proposals.status = ?", status)
	}

	var proposals []models.Proposal
	if err := query.Find(&proposals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch proposals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": proposals, "total": len(proposals)})
}

// GetProposal returns one proposal with documents decoded
func GetProposal(c *gin.Context) {
	var proposal models.Proposal
	if err := config.DB.Preload("District").Preload("District.State").
		First(&proposal, "proposal_id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Proposal not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": proposal, "documents": proposal.DocumentList()})
}

// GetProposalHistory returns the status trail for one proposal
func GetProposalHistory(c *gin.Context) {
	var history []models.ProposalHistory
	if err := config.DB.Where("proposal_id = ?", c.Param("id")).
		Order("created_at ASC").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": history, "total": len(history)})
}

// stateDecisions and ministryDecisions gate which role may set which status
var stateDecisions = map[string]bool{
	models.ProposalApprovedByState: true,
	models.ProposalRejectedByState: true,
}

var ministryDecisions = map[string]bool{
	models.ProposalApprovedByMinistry: true,
	models.ProposalRejectedByMinistry: true,
	models.ProposalCompleted:          true,
}

// UpdateProposalStatus moves a proposal to a new status. State admins may
// only record state decisions, ministry admins ministry decisions.
func UpdateProposalStatus(c *gin.Context) {
	proposalID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid proposal id"})
		return
	}

	var req struct {
		Status         string           `json:"status" binding:"required"`
		Reason         string           `json:"reason"`
		ApprovedAmount *decimal.Decimal `json:"approved_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	role := currentRoleID(c)
	if stateDecisions[req.Status] && role != models.RoleState {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only state admins can record this decision"})
		return
	}
	if ministryDecisions[req.Status] && role != models.RoleMinistry {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Only ministry admins can record this decision"})
		return
	}

	proposal, err := services.NewProposalService(nil).Transition(services.TransitionInput{
		ProposalID:     uint(proposalID),
		NewStatus:      req.Status,
		ActorID:        currentUserID(c),
		Reason:         req.Reason,
		ApprovedAmount: req.ApprovedAmount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": proposal})
}

// AssignAgency links an active implementing agency to a ministry-approved
// proposal
func AssignAgency(c *gin.Context) {
	proposalID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid proposal id"})
		return
	}

	var req struct {
		AgencyID uint `json:"agency_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	proposal, err := services.NewProposalService(nil).AssignAgency(uint(proposalID), req.AgencyID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": proposal})
}
