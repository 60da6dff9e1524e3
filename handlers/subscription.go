package handlers

import (
	"net/http"

	"fundilink/models"
	"fundilink/services/subscription"
	"fundilink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscriptionHandler exposes plan listing, checkout and the payment gateway
// callbacks.
type SubscriptionHandler struct {
	SubscriptionService subscription.SubscriptionService
}

// GetPlansHandler handles GET /api/subscriptions/plans.
func (h *SubscriptionHandler) GetPlansHandler(c *gin.Context) {
	plans, err := h.SubscriptionService.GetPlans()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list plans", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// MpesaCheckoutHandler handles POST /api/subscriptions/checkout/mpesa.
func (h *SubscriptionHandler) MpesaCheckoutHandler(c *gin.Context) {
	var req struct {
		ProviderID string `json:"providerId" binding:"required"`
		PlanID     string `json:"planId" binding:"required"`
		Phone      string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid checkout payload", err.Error())
		return
	}

	result, err := h.SubscriptionService.InitiateMpesaCheckout(c.Request.Context(), req.ProviderID, req.PlanID, req.Phone)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "checkout failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// StripeCheckoutHandler handles POST /api/subscriptions/checkout/card.
func (h *SubscriptionHandler) StripeCheckoutHandler(c *gin.Context) {
	var req struct {
		ProviderID string `json:"providerId" binding:"required"`
		PlanID     string `json:"planId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid checkout payload", err.Error())
		return
	}

	clientSecret, err := h.SubscriptionService.CreateStripeIntent(c.Request.Context(), req.ProviderID, req.PlanID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "checkout failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
}

// MpesaCallbackHandler handles POST /api/subscriptions/callback/mpesa: the
// Daraja confirmation. Always acknowledged so the gateway does not retry.
func (h *SubscriptionHandler) MpesaCallbackHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var cb models.MpesaCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		logger.Warn("unparsable mpesa callback ignored", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}

	if err := h.SubscriptionService.HandleMpesaCallback(c.Request.Context(), cb); err != nil {
		logger.Error("mpesa callback processing failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// SubscriptionStatusHandler handles GET /api/subscriptions/status/:providerId.
func (h *SubscriptionHandler) SubscriptionStatusHandler(c *gin.Context) {
	monetized, info, err := h.SubscriptionService.Status(c.Param("providerId"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "fundi not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"monetized": monetized, "subscription": info})
}
