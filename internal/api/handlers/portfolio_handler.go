package handlers

import (
	"net/http"

	"github.com/atlas-pm/portfolio-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Portfolio Handler
// ============================================

type PortfolioHandler struct {
	reportService service.ReportService
}

func NewPortfolioHandler(reportService service.ReportService) *PortfolioHandler {
	return &PortfolioHandler{
		reportService: reportService,
	}
}

// Report - Portfolio-wide aggregates
// GET /api/portfolio/report
func (h *PortfolioHandler) Report(c *gin.Context) {
	report, err := h.reportService.Build(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
