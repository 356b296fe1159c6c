package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/compliancewatch/internal/middleware"
	"github.com/huangang/compliancewatch/internal/services"
	"github.com/huangang/compliancewatch/pkg/response"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, overview)
}

func (h *DashboardHandler) Alerts(c *gin.Context) {
	alerts, err := h.service.Alerts(c.Request.Context(), c.Query("severity"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, alerts)
}

func (h *DashboardHandler) Risks(c *gin.Context) {
	cells, err := h.service.RiskHeatMap(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, cells)
}

func (h *DashboardHandler) RegulatoryUpdates(c *gin.Context) {
	updates, err := h.service.RegulatoryUpdates(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, updates)
}

func (h *DashboardHandler) ComplianceTrend(c *gin.Context) {
	points, err := h.service.ComplianceTrend(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, points)
}

func (h *DashboardHandler) Policies(c *gin.Context) {
	policies, err := h.service.Policies(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, policies)
}

func (h *DashboardHandler) CreatePolicy(c *gin.Context) {
	var in services.PolicyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	policy, err := h.service.CreatePolicy(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, policy)
}
