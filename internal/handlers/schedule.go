package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/internal/middleware"
	"github.com/huangang/compliancewatch/internal/services"
	"github.com/huangang/compliancewatch/pkg/response"
)

type ScheduleHandler struct {
	service *services.ScheduleService
}

func NewScheduleHandler(service *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

func (h *ScheduleHandler) List(c *gin.Context) {
	response.Success(c, h.service.List())
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	sched, ok := h.service.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "schedule not found")
		return
	}
	response.Success(c, sched)
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var in report.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sched, err := h.service.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, sched)
}

// Delete removes a schedule. The caller must pass confirm=true; an unknown
// id is not an error.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if c.Query("confirm") != "true" {
		response.BadRequest(c, "deletion must be confirmed with confirm=true")
		return
	}

	deleted := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	response.Success(c, gin.H{"deleted": deleted})
}
