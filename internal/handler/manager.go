package handler

import (
	"net/http"
	"strconv"
	"time"

	"bizbooks/internal/invoice"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the dashboard figures computed over sales invoices.
type ReportHandler struct {
	invoices *invoice.Service
}

func NewReportHandler(invoices *invoice.Service) *ReportHandler {
	return &ReportHandler{invoices: invoices}
}

func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.invoices.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetMonthlyRevenue defaults to the current month when year or month is omitted.
func (h *ReportHandler) GetMonthlyRevenue(c *gin.Context) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		month = v
	}

	revenue, err := h.invoices.MonthlyRevenue(c.Request.Context(), year, time.Month(month))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, revenue)
}
