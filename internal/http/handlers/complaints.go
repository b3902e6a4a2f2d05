package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/civicresolve/backend/internal/blob"
	"github.com/civicresolve/backend/internal/geocode"
	"github.com/civicresolve/backend/internal/models"
	"github.com/civicresolve/backend/internal/service"
)

const voterHeader = "X-Voter-Id"

type CreateComplaintRequest struct {
	Title       string `form:"title" json:"title" validate:"max=200"`
	Description string `form:"description" json:"description" validate:"max=5000"`
	Category    string `form:"category" json:"category" validate:"max=64"`
	Priority    string `form:"priority" json:"priority"`
	Lat         string `form:"lat" json:"lat"`
	Lng         string `form:"lng" json:"lng"`
	Address     string `form:"address" json:"address" validate:"max=500"`
	State       string `form:"state" json:"state"`
	District    string `form:"district" json:"district"`
	City        string `form:"city" json:"city"`
	Landmark    string `form:"landmark" json:"landmark"`
}

type ComplaintResponse struct {
	Success   bool             `json:"success"`
	Complaint models.Complaint `json:"complaint"`
}

type CreateComplaintResponse struct {
	Success    bool             `json:"success"`
	Complaint  models.Complaint `json:"complaint"`
	TrackingID string           `json:"trackingId"`
}

type ComplaintListResponse struct {
	Success    bool               `json:"success"`
	Complaints []models.Complaint `json:"complaints"`
	Total      int                `json:"total"`
}

type StatusRequest struct {
	Status               string `json:"status" validate:"required"`
	Note                 string `json:"note" validate:"max=1000"`
	Department           string `json:"department"`
	ContractorID         string `json:"contractorId"`
	EvaluatingDepartment string `json:"evaluatingDepartment"`
}

type EvaluateRequest struct {
	Points   int    `json:"points"`
	Feedback string `json:"feedback" validate:"max=1000"`
}

type EvaluateResponse struct {
	Success           bool               `json:"success"`
	Complaint         models.Complaint   `json:"complaint"`
	ContractorUpdated bool               `json:"contractorUpdated"`
	Contractor        *models.Contractor `json:"contractor,omitempty"`
}

type ReopenRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type AttachAnalysisRequest struct {
	Analysis *models.AIAnalysis `json:"analysis" validate:"required"`
}

// @Summary Register a complaint
// @Tags complaints
// @Accept multipart/form-data
// @Produce json
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param category formData string false "Category"
// @Param priority formData string false "low, medium or high"
// @Param lat formData number false "Latitude"
// @Param lng formData number false "Longitude"
// @Param address formData string false "Address"
// @Param photo formData file false "Photo"
// @Success 201 {object} CreateComplaintResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/complaints [post]
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	var photo *string
	if fh, err := c.FormFile("photo"); err == nil {
		if h.Uploads == nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Photo uploads are disabled", nil)
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable photo", err.Error())
			return
		}
		url, err := h.Uploads.Put(c.Request.Context(), fh.Filename, f)
		f.Close()
		if err != nil {
			if errors.Is(err, blob.ErrUnsupportedType) {
				writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported photo type", err.Error())
				return
			}
			h.Logger.Error().Err(err).Msg("photo upload failed")
			writeError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to store photo", nil)
			return
		}
		photo = &url
	}

	complaint, err := h.Complaints.Create(c.Request.Context(), service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Location: models.Location{
			Lat:      parseCoord(req.Lat),
			Lng:      parseCoord(req.Lng),
			Address:  req.Address,
			State:    req.State,
			District: req.District,
			City:     req.City,
			Landmark: req.Landmark,
		},
		Photo: photo,
	})
	if err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusCreated, CreateComplaintResponse{Success: true, Complaint: complaint, TrackingID: complaint.TrackingID})
}

// @Summary List complaints
// @Tags complaints
// @Produce json
// @Param category query string false "Category or all"
// @Param status query string false "Status or all"
// @Param priority query string false "Priority or all"
// @Param search query string false "Case-insensitive search"
// @Param sort query string false "votes, priority or newest"
// @Param lat query number false "Center latitude"
// @Param lng query number false "Center longitude"
// @Param radiusKm query number false "Radius around the center"
// @Success 200 {object} ComplaintListResponse
// @Router /api/complaints [get]
func (h *Handler) ListComplaints(c *gin.Context) {
	filter := service.ListFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}
	if c.Query("lat") != "" && c.Query("lng") != "" {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		radius, errRadius := strconv.ParseFloat(c.DefaultQuery("radiusKm", "5"), 64)
		if errLat != nil || errLng != nil || errRadius != nil || !finite(lat, lng, radius) || radius <= 0 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat, lng and radiusKm must be numbers", nil)
			return
		}
		filter.Near = &geocode.Result{Lat: lat, Lng: lng}
		filter.RadiusKm = radius
	}

	items, err := h.Complaints.List(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, ComplaintListResponse{Success: true, Complaints: items, Total: len(items)})
}

// @Summary Track a complaint
// @Tags complaints
// @Produce json
// @Param trackingId path string true "Tracking ID"
// @Success 200 {object} ComplaintResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/complaints/track/{trackingId} [get]
func (h *Handler) TrackComplaint(c *gin.Context) {
	complaint, err := h.Complaints.Track(c.Request.Context(), c.Param("trackingId"))
	if err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, ComplaintResponse{Success: true, Complaint: complaint})
}

// @Summary Complaint statistics
// @Tags complaints
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/complaints/analytics/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.Complaints.Stats(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// @Summary Vote on a complaint
// @Tags complaints
// @Produce json
// @Param id path string true "Complaint ID"
// @Param X-Voter-Id header string false "Stable voter identifier"
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/complaints/{id}/vote [put]
func (h *Handler) Vote(c *gin.Context) {
	votes, err := h.Complaints.Vote(c.Request.Context(), c.Param("id"), strings.TrimSpace(c.GetHeader(voterHeader)))
	if err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "votes": votes})
}

// @Summary Update complaint status
// @Tags admin
// @Security AdminKey
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param body body StatusRequest true "Status update"
// @Success 200 {object} ComplaintResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/complaints/{id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if !h.bindJSON(c, &req, false) {
		return
	}
	complaint, err := h.Complaints.UpdateStatus(c.Request.Context(), c.Param("id"), service.StatusUpdate{
		Status:               req.Status,
		Note:                 req.Note,
		Department:           req.Department,
		ContractorID:         req.ContractorID,
		EvaluatingDepartment: req.EvaluatingDepartment,
	})
	if err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, ComplaintResponse{Success: true, Complaint: complaint})
}

// @Summary Evaluate the assigned contractor
// @Tags admin
// @Security AdminKey
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param body body EvaluateRequest true "Evaluation"
// @Success 200 {object} EvaluateResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/complaints/{id}/evaluate [post]
func (h *Handler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if !h.bindJSON(c, &req, false) {
		return
	}
	res, err := h.Complaints.Evaluate(c.Request.Context(), c.Param("id"), service.Evaluation{
		Points:   req.Points,
		Feedback: req.Feedback,
	})
	if err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, EvaluateResponse{
		Success:           true,
		Complaint:         res.Complaint,
		ContractorUpdated: res.ContractorUpdated,
		Contractor:        res.Contractor,
	})
}

// @Summary Reopen a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param body body ReopenRequest false "Reason"
// @Success 200 {object} ComplaintResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/complaints/{id}/reopen [put]
func (h *Handler) Reopen(c *gin.Context) {
	var req ReopenRequest
	if !h.bindJSON(c, &req, true) {
		return
	}
	complaint, err := h.Complaints.Reopen(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, ComplaintResponse{Success: true, Complaint: complaint})
}

// @Summary Attach an analysis
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param body body AttachAnalysisRequest true "Analysis"
// @Success 200 {object} ComplaintResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/complaints/{id}/analysis [put]
func (h *Handler) AttachAnalysis(c *gin.Context) {
	var req AttachAnalysisRequest
	if !h.bindJSON(c, &req, false) {
		return
	}
	complaint, err := h.Complaints.AttachAnalysis(c.Request.Context(), c.Param("id"), req.Analysis)
	if err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, ComplaintResponse{Success: true, Complaint: complaint})
}

// @Summary Analyze a stored complaint and attach the result
// @Tags complaints
// @Produce json
// @Param id path string true "Complaint ID"
// @Success 200 {object} ComplaintResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/complaints/{id}/analyze [post]
func (h *Handler) AnalyzeComplaint(c *gin.Context) {
	complaint, err := h.Complaints.AnalyzeAndAttach(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, ComplaintResponse{Success: true, Complaint: complaint})
}

// @Summary Delete a complaint
// @Tags admin
// @Security AdminKey
// @Produce json
// @Param id path string true "Complaint ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /api/complaints/{id} [delete]
func (h *Handler) DeleteComplaint(c *gin.Context) {
	if err := h.Complaints.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Delete the newest complaint
// @Tags admin
// @Security AdminKey
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} ErrorResponse
// @Router /api/complaints/latest [delete]
func (h *Handler) DeleteLatest(c *gin.Context) {
	removed, err := h.Complaints.DeleteLatest(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, "No complaints")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// parseCoord treats blank, malformed or non-finite input as the unset 0 coordinate.
func parseCoord(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !finite(v) {
		return 0
	}
	return v
}
