package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dhnam02/crm-api/internal/usecase"
)

type ReportHandler struct {
	report *usecase.GenerateReport
}

func NewReportHandler(report *usecase.GenerateReport) *ReportHandler {
	return &ReportHandler{report: report}
}

// GET /v1/report
func (h *ReportHandler) Report(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	sum, err := h.report.Execute(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customers": sum.Customers,
		"orders":    sum.Orders,
		"revenue":   sum.Revenue.StringFixed(2),
	})
}
