package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	portssvc "github.com/vendorbridge/currency_engine_app/internal/core/ports/services"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
	"github.com/vendorbridge/currency_engine_app/internal/middleware"
)

// pricingHandler handles HTTP requests for price normalization and vendor
// comparison.
type pricingHandler struct {
	pricingService portssvc.PriceComparisonSvc
}

func newPricingHandler(ps portssvc.PriceComparisonSvc) *pricingHandler {
	return &pricingHandler{pricingService: ps}
}

// registerPricingRoutes registers pricing routes.
func registerPricingRoutes(rg *gin.RouterGroup, pricingService portssvc.PriceComparisonSvc) {
	h := newPricingHandler(pricingService)

	pricing := rg.Group("/pricing")
	{
		pricing.POST("/comparisons", h.createComparison)
	}
}

func (h *pricingHandler) createComparison(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PriceComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	comparisons, err := h.pricingService.CreatePriceComparison(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create price comparison", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create price comparison"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"comparisons": comparisons})
}
