package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/civicresolve/backend/internal/service"
)

// Uploader stores complaint photos and returns their public URL.
type Uploader interface {
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Complaints  *service.ComplaintService
	Contractors *service.ContractorService
	Wallets     *service.WalletService
	Roads       *service.RoadService
	Uploads     Uploader
	DB          Pinger
	Validator   *validator.Validate
	Logger      zerolog.Logger
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	Error errorBody `json:"error"`
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} ErrorResponse
// @Router /api/health [get]
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, ErrorResponse{Error: errorBody{Code: code, Message: message, Details: details}})
}

// writeServiceError maps service and store errors onto the HTTP error envelope.
func (h *Handler) writeServiceError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", notFound, nil)
	case errors.Is(err, service.ErrValidation):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	case errors.Is(err, service.ErrInvalidState):
		writeError(c, http.StatusConflict, "INVALID_STATE", err.Error(), nil)
	case errors.Is(err, service.ErrDuplicateVote):
		writeError(c, http.StatusConflict, "DUPLICATE_VOTE", "Already voted on this complaint", nil)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out", nil)
	default:
		h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Internal storage error", nil)
	}
}

// bindJSON decodes and validates a JSON body. An empty body is accepted when
// optional is set.
func (h *Handler) bindJSON(c *gin.Context, dst any, optional bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
			return false
		}
	}
	if err := h.Validator.Struct(dst); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return false
	}
	return true
}
