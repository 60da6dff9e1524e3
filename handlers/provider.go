package handlers

import (
	"net/http"

	"fundilink/models"
	"fundilink/services/matching"
	"fundilink/services/provider"
	"fundilink/utils"

	"github.com/gin-gonic/gin"
)

// ProviderHandler exposes fundi account management and public search.
type ProviderHandler struct {
	ProviderService provider.ProviderService
	MatchingService matching.MatchingService
}

// RegisterProviderHandler handles POST /api/fundis/register.
func (h *ProviderHandler) RegisterProviderHandler(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid fundi payload", err.Error())
		return
	}

	created, token, err := h.ProviderService.Register(&p)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "registration failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"fundi": created, "token": token})
}

// LoginProviderHandler handles POST /api/fundis/login.
func (h *ProviderHandler) LoginProviderHandler(c *gin.Context) {
	var creds struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid credentials payload", err.Error())
		return
	}

	p, token, err := h.ProviderService.Login(creds.Email, creds.Password)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "login failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"fundi": p, "token": token})
}

// GetProviderHandler handles GET /api/fundis/:id.
func (h *ProviderHandler) GetProviderHandler(c *gin.Context) {
	p, err := h.ProviderService.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "fundi not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, p)
}

// SearchProvidersHandler handles GET /api/fundis/search?service=...&location=...
// It returns the same ranked shortlist the conversational flow offers.
func (h *ProviderHandler) SearchProvidersHandler(c *gin.Context) {
	service := c.Query("service")
	if service == "" {
		utils.JSONError(c, http.StatusBadRequest, "service query parameter is required", "")
		return
	}

	ranked, err := h.MatchingService.MatchFundis(service, c.Query("location"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "search failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"fundis": ranked, "count": len(ranked)})
}

// UpdateFCMTokenHandler handles PUT /api/fundis/:id/fcm-token.
func (h *ProviderHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var body struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if err := h.ProviderService.UpdateFCMToken(c.Param("id"), body.Token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
