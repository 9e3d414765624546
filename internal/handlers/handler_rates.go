package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vendorbridge/currency_engine_app/internal/apperrors"
	portssvc "github.com/vendorbridge/currency_engine_app/internal/core/ports/services"
	"github.com/vendorbridge/currency_engine_app/internal/dto"
	"github.com/vendorbridge/currency_engine_app/internal/middleware"
)

// rateHandler handles HTTP requests for rate resolution, rate history,
// currency reference data and per-pair alert thresholds.
type rateHandler struct {
	rateService       portssvc.RateSvcFacade
	automationService portssvc.AutomationSvc
}

func newRateHandler(rs portssvc.RateSvcFacade, as portssvc.AutomationSvc) *rateHandler {
	return &rateHandler{rateService: rs, automationService: as}
}

// registerRateRoutes registers rate and currency routes.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, automationService portssvc.AutomationSvc) {
	h := newRateHandler(rateService, automationService)

	rates := rg.Group("/rates")
	{
		rates.GET("/resolve", h.resolveRate)
		rates.GET("/history", h.getRateHistory)
		rates.PUT("/thresholds", h.setRateThreshold)
	}

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrency)
	}
}

func (h *rateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Query("from")
	toCode := c.Query("to")

	rate, err := h.rateService.ResolveRate(c.Request.Context(), fromCode, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
		} else {
			logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

func (h *rateHandler) getRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Query("from")
	toCode := c.Query("to")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	history, err := h.rateService.GetRateHistory(c.Request.Context(), fromCode, toCode, days)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get rate history", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate history"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *rateHandler) setRateThreshold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetRateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	err := h.automationService.SetRateChangeThreshold(c.Request.Context(), req.FromCurrency, req.ToCurrency, req.Threshold)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to set rate threshold", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set rate threshold"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "threshold updated"})
}

func (h *rateHandler) getCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	currency, err := h.rateService.GetCurrencyByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else {
			logger.Error("Failed to get currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

func (h *rateHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencies, err := h.rateService.ListCurrencies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currencies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": dto.ToListCurrencyResponse(currencies)})
}
