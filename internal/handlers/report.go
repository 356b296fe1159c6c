package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/internal/middleware"
	"github.com/huangang/compliancewatch/internal/services"
	"github.com/huangang/compliancewatch/pkg/response"
)

const (
	DeliveryDownload = "download"
	DeliveryDataURI  = "data_uri"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Types(c *gin.Context) {
	response.Success(c, gin.H{
		"types":       report.Types(),
		"formats":     []report.Format{report.FormatPDF, report.FormatCSV, report.FormatJSON},
		"date_ranges": services.DateRanges,
	})
}

func (h *ReportHandler) Status(c *gin.Context) {
	response.Success(c, gin.H{"generating": h.service.IsGenerating()})
}

func (h *ReportHandler) History(c *gin.Context) {
	response.Success(c, h.service.History())
}

func (h *ReportHandler) Preview(c *gin.Context) {
	reportType := c.Query("report_type")
	if reportType == "" {
		response.BadRequest(c, "report_type is required")
		return
	}

	tab, err := h.service.Preview(c.Request.Context(), reportType)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, tab)
}

// Generate exports a report. The file is streamed as an attachment unless
// delivery=data_uri asks for a JSON body carrying a data URI.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "report_type is required")
		return
	}

	switch req.Delivery {
	case "", DeliveryDownload:
		_, err := h.service.Generate(c.Request.Context(), middleware.Actor(c), req, downloadEmitter{c: c})
		if err != nil {
			fail(c, err)
		}
	case DeliveryDataURI:
		var uri string
		capture := report.EmitterFunc(func(_ context.Context, a *report.Artifact) error {
			uri = report.DataURI(a)
			return nil
		})
		result, err := h.service.Generate(c.Request.Context(), middleware.Actor(c), req, capture)
		if err != nil {
			fail(c, err)
			return
		}
		response.Success(c, gin.H{
			"filename":      result.Entry.Filename,
			"data_uri":      uri,
			"history_entry": result.Entry,
		})
	default:
		response.BadRequest(c, fmt.Sprintf("unknown delivery %q", req.Delivery))
	}
}

// downloadEmitter writes the artifact as an http attachment.
type downloadEmitter struct {
	c *gin.Context
}

func (e downloadEmitter) Emit(_ context.Context, a *report.Artifact) error {
	e.c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.Filename))
	e.c.Data(http.StatusOK, a.ContentType, a.Body)
	return nil
}
