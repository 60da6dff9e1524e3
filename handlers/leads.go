package handlers

import (
	"net/http"
	"strconv"

	"fundilink/models"
	"fundilink/services/leads"
	"fundilink/utils"

	"github.com/gin-gonic/gin"
)

// LeadHandler exposes lead recording and listing.
type LeadHandler struct {
	LeadService leads.LeadService
}

// CreateLeadHandler handles POST /api/leads.
func (h *LeadHandler) CreateLeadHandler(c *gin.Context) {
	var req models.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid lead payload", err.Error())
		return
	}

	lead, err := h.LeadService.RecordLead(req)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to record lead", err.Error())
		return
	}
	c.JSON(http.StatusOK, lead)
}

// ListFundiLeadsHandler handles GET /api/leads/fundi/:id.
func (h *LeadHandler) ListFundiLeadsHandler(c *gin.Context) {
	fundiID := c.Param("id")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	result, err := h.LeadService.ListByFundi(fundiID, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list leads", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": result, "count": len(result)})
}
