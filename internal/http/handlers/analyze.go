package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicresolve/backend/internal/ai"
	"github.com/civicresolve/backend/internal/models"
)

type AnalyzeRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Location    string `json:"location"`
}

type AnalyzeResponse struct {
	Success  bool              `json:"success"`
	Analysis models.AIAnalysis `json:"analysis"`
}

// @Summary Analyze a complaint draft
// @Description Provider failures fall back to the rule-based analysis.
// @Tags analysis
// @Accept json
// @Produce json
// @Param body body AnalyzeRequest true "Complaint draft"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if !h.bindJSON(c, &req, false) {
		return
	}
	analysis, err := h.Complaints.Analyze(c.Request.Context(), ai.AnalysisRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Location:    req.Location,
	})
	if err != nil {
		h.writeServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{Success: true, Analysis: analysis})
}
