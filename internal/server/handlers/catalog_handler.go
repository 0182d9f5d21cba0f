package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/service/catalog"
)

// CatalogHandler exposes the customer registry and pricing table over HTTP.
type CatalogHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP adapter for the catalog service.
func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

type addCustomerRequest struct {
	Village string `json:"village" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

type setRateRequest struct {
	Rate *float64 `json:"rate" binding:"required"`
}

// ListCustomers returns registry entries, optionally for one village.
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	customers, err := h.svc.Customers(c.Request.Context(), c.Query("village"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
}

// AddCustomer registers a new (village, name) pair.
func (h *CatalogHandler) AddCustomer(c *gin.Context) {
	var req addCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid customer payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	customer, err := h.svc.AddCustomer(c.Request.Context(), req.Village, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// DeleteCustomer removes a registry entry by query parameters.
func (h *CatalogHandler) DeleteCustomer(c *gin.Context) {
	village := c.Query("village")
	name := c.Query("name")
	if village == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "village and name query parameters are required"})
		return
	}

	if err := h.svc.DeleteCustomer(c.Request.Context(), village, name); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPricing returns the current price table.
func (h *CatalogHandler) ListPricing(c *gin.Context) {
	entries, err := h.svc.Pricing(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricing": entries})
}

// SetRate updates the price for one packet size.
func (h *CatalogHandler) SetRate(c *gin.Context) {
	var req setRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid rate payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.svc.SetRate(c.Request.Context(), models.Packaging(c.Param("package")), *req.Rate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
