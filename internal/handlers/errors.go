package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huangang/compliancewatch/internal/report"
	"github.com/huangang/compliancewatch/internal/services"
	"github.com/huangang/compliancewatch/pkg/response"
)

// toAppError maps domain errors onto HTTP statuses.
func toAppError(err error) *response.AppError {
	var verr *report.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.Wrap(http.StatusBadRequest, verr.Message, err)
	case errors.Is(err, report.ErrUnknownReportType),
		errors.Is(err, report.ErrUnsupportedFormat):
		return response.Wrap(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, services.ErrGenerationInProgress):
		return response.Wrap(http.StatusConflict, err.Error(), err)
	default:
		return response.Wrap(http.StatusInternalServerError, err.Error(), err)
	}
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	response.Error(c, toAppError(err))
}
