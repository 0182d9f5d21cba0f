package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/service/reporting"
	"github.com/smahadik/goldtea/internal/service/sales"
)

// SalesHandler exposes the sale record lifecycle over HTTP.
type SalesHandler struct {
	svc    *sales.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewSalesHandler constructs the HTTP adapter for the sales service.
func NewSalesHandler(svc *sales.Service, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{svc: svc, logger: logger, now: time.Now}
}

type createSaleRequest struct {
	Date          string   `json:"date"`
	Day           string   `json:"day"`
	Village       string   `json:"village"`
	CustomerName  string   `json:"customer_name" binding:"required"`
	Brand         string   `json:"brand"`
	TeaType       string   `json:"tea_type" binding:"required"`
	Packaging     string   `json:"packaging" binding:"required"`
	Rate          *float64 `json:"rate"`
	Quantity      int      `json:"quantity" binding:"required,gt=0"`
	PaymentStatus string   `json:"payment_status" binding:"required"`
	AmountPaid    *float64 `json:"amount_paid"`
}

type updateSaleRequest struct {
	Date          *string  `json:"date"`
	Day           *string  `json:"day"`
	Village       *string  `json:"village"`
	CustomerName  *string  `json:"customer_name"`
	Brand         *string  `json:"brand"`
	TeaType       *string  `json:"tea_type"`
	Packaging     *string  `json:"packaging"`
	Rate          *float64 `json:"rate"`
	Quantity      *int     `json:"quantity"`
	PaymentStatus *string  `json:"payment_status"`
	AmountPaid    *float64 `json:"amount_paid"`
}

// Create records a new sale.
func (h *SalesHandler) Create(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input := sales.RecordInput{
		Day:           req.Day,
		Village:       req.Village,
		CustomerName:  req.CustomerName,
		Brand:         req.Brand,
		TeaType:       models.TeaType(req.TeaType),
		Packaging:     models.Packaging(req.Packaging),
		Rate:          req.Rate,
		Quantity:      req.Quantity,
		PaymentStatus: models.PaymentStatus(req.PaymentStatus),
		AmountPaid:    req.AmountPaid,
	}
	if req.Date != "" {
		date, err := time.Parse(models.DateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as " + models.DateLayout})
			return
		}
		input.Date = date
	}

	record, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// List returns records, optionally restricted to one village and period.
func (h *SalesHandler) List(c *gin.Context) {
	period, err := reporting.ParsePeriod(c.Query("period"), h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	records, err := h.svc.List(c.Request.Context(), c.Query("village"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if period.Kind != reporting.PeriodAllTime {
		filtered := records[:0]
		for _, record := range records {
			if period.Contains(record.Date) {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}
	c.JSON(http.StatusOK, gin.H{"sales": records, "count": len(records)})
}

// Get returns one record by ID.
func (h *SalesHandler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Update applies a partial revision to a record.
func (h *SalesHandler) Update(c *gin.Context) {
	var req updateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid revision payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	changes := sales.Changes{
		Day:          req.Day,
		Village:      req.Village,
		CustomerName: req.CustomerName,
		Brand:        req.Brand,
		Rate:         req.Rate,
		Quantity:     req.Quantity,
		AmountPaid:   req.AmountPaid,
	}
	if req.Date != nil {
		date, err := time.Parse(models.DateLayout, *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as " + models.DateLayout})
			return
		}
		changes.Date = &date
	}
	if req.TeaType != nil {
		teaType := models.TeaType(*req.TeaType)
		changes.TeaType = &teaType
	}
	if req.Packaging != nil {
		packaging := models.Packaging(*req.Packaging)
		changes.Packaging = &packaging
	}
	if req.PaymentStatus != nil {
		status := models.PaymentStatus(*req.PaymentStatus)
		changes.PaymentStatus = &status
	}

	record, err := h.svc.Revise(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete removes a record.
func (h *SalesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
