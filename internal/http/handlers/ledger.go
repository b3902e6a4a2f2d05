package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicresolve/backend/internal/models"
)

type ContractorListResponse struct {
	Success     bool                `json:"success"`
	Contractors []models.Contractor `json:"contractors"`
}

type WalletResponse struct {
	Success bool `json:"success"`
	Wallet  struct {
		Points int `json:"points"`
	} `json:"wallet"`
}

type WalletAddRequest struct {
	UserID string `json:"userId" validate:"required"`
	Points int    `json:"points"`
}

// @Summary Contractors ranked by points
// @Tags contractors
// @Produce json
// @Success 200 {object} ContractorListResponse
// @Router /api/contractors [get]
func (h *Handler) ListContractors(c *gin.Context) {
	items, err := h.Contractors.Ranked(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, ContractorListResponse{Success: true, Contractors: items})
}

// @Summary Road projects
// @Tags complaints
// @Produce json
// @Param status query string false "Project status or all"
// @Success 200 {object} map[string]any
// @Router /api/complaints/roads/list [get]
func (h *Handler) ListRoads(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "roads": h.Roads.List(c.Query("status"))})
}

// @Summary Wallet balance
// @Tags user
// @Produce json
// @Param userId query string true "User ID"
// @Success 200 {object} WalletResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/user/wallet [get]
func (h *Handler) GetWallet(c *gin.Context) {
	points, err := h.Wallets.Points(c.Request.Context(), c.Query("userId"))
	if err != nil {
		h.writeServiceError(c, err, "")
		return
	}
	resp := WalletResponse{Success: true}
	resp.Wallet.Points = points
	c.JSON(http.StatusOK, resp)
}

// @Summary Add wallet points
// @Tags user
// @Accept json
// @Produce json
// @Param body body WalletAddRequest true "Points to add"
// @Success 200 {object} WalletResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/user/wallet/add [post]
func (h *Handler) AddWalletPoints(c *gin.Context) {
	var req WalletAddRequest
	if !h.bindJSON(c, &req, false) {
		return
	}
	points, err := h.Wallets.Add(c.Request.Context(), req.UserID, req.Points)
	if err != nil {
		h.writeServiceError(c, err, "")
		return
	}
	resp := WalletResponse{Success: true}
	resp.Wallet.Points = points
	c.JSON(http.StatusOK, resp)
}
