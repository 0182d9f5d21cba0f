package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/service/reporting"
)

// ReportHandler exposes the aggregation views over HTTP.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewReportHandler constructs the HTTP adapter for the reporting service.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger, now: time.Now}
}

// Dashboard returns the headline metrics for the requested period.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}

	scopePending := c.Query("scope_pending") == "true"
	dash, err := h.svc.Dashboard(c.Request.Context(), period, scopePending)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Daily returns per-date summaries.
func (h *ReportHandler) Daily(c *gin.Context) {
	h.summary(c, h.svc.DailySummary)
}

// Weekly returns per-ISO-week summaries.
func (h *ReportHandler) Weekly(c *gin.Context) {
	h.summary(c, h.svc.WeeklySummary)
}

// Monthly returns per-month summaries.
func (h *ReportHandler) Monthly(c *gin.Context) {
	h.summary(c, h.svc.MonthlySummary)
}

// Customers returns the per-customer rollup.
func (h *ReportHandler) Customers(c *gin.Context) {
	h.rollup(c, h.svc.ByCustomer)
}

// Villages returns the per-village rollup.
func (h *ReportHandler) Villages(c *gin.Context) {
	h.rollup(c, h.svc.ByVillage)
}

// Products returns the per-product rollup.
func (h *ReportHandler) Products(c *gin.Context) {
	h.rollup(c, h.svc.ByProduct)
}

// Pending returns outstanding balances, optionally for one village.
func (h *ReportHandler) Pending(c *gin.Context) {
	report, err := h.svc.Pending(c.Request.Context(), c.Query("village"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export renders any report view as flat spreadsheet rows.
func (h *ReportHandler) Export(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}

	rows, err := h.svc.ExportRows(c.Request.Context(), c.Query("view"), period)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *ReportHandler) summary(c *gin.Context, fn func(context.Context, reporting.Period) ([]models.BucketSummary, error)) {
	period, ok := h.period(c)
	if !ok {
		return
	}

	summaries, err := fn(c.Request.Context(), period)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

func (h *ReportHandler) rollup(c *gin.Context, fn func(context.Context, reporting.Period) ([]models.Rollup, error)) {
	period, ok := h.period(c)
	if !ok {
		return
	}

	rollups, err := fn(c.Request.Context(), period)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rollups": rollups})
}

func (h *ReportHandler) period(c *gin.Context) (reporting.Period, bool) {
	period, err := reporting.ParsePeriod(c.Query("period"), h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return reporting.Period{}, false
	}
	return period, true
}
