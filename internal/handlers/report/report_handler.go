// internal/handlers/report/report_handler.go
package report

import (
	"net/http"

	"greenwell-service/internal/pkg/response"
	reportsvc "greenwell-service/internal/service/report"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *reportsvc.ReportService
}

func NewReportHandler(service *reportsvc.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// DashboardSummary handles GET /reports/dashboard
func (h *ReportHandler) DashboardSummary(c *gin.Context) {
	summary, err := h.service.DashboardSummary(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to build dashboard summary")
		return
	}

	response.OK(c, http.StatusOK, summary)
}
