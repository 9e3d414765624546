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

// conversionHandler handles HTTP requests for conversions and their
// retained history.
type conversionHandler struct {
	conversionService portssvc.ConversionSvc
}

func newConversionHandler(cs portssvc.ConversionSvc) *conversionHandler {
	return &conversionHandler{conversionService: cs}
}

// registerConversionRoutes registers conversion routes.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvc) {
	h := newConversionHandler(conversionService)

	conversions := rg.Group("/conversions")
	{
		conversions.POST("", h.convert)
		conversions.POST("/batch", h.convertBatch)
		conversions.GET("/history", h.getHistory)
		conversions.GET("/stats", h.getStatistics)
	}
}

func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	conversion, err := h.conversionService.Convert(c.Request.Context(), req.Amount, req.FromCurrency, req.ToCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No exchange rate available for the pair"})
		} else {
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToConversionResponse(conversion))
}

func (h *conversionHandler) convertBatch(c *gin.Context) {
	var req dto.BatchConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	results := h.conversionService.ConvertBatch(c.Request.Context(), req.ToConversionRequests())
	c.JSON(http.StatusOK, gin.H{"results": dto.ToBatchConvertResults(results)})
}

func (h *conversionHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Query("from")
	toCode := c.Query("to")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	conversions, err := h.conversionService.GetConversionHistory(c.Request.Context(), fromCode, toCode, limit)
	if err != nil {
		logger.Error("Failed to get conversion history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversion history"})
		return
	}

	responses := make([]dto.ConversionResponse, len(conversions))
	for i := range conversions {
		responses[i] = dto.ToConversionResponse(&conversions[i])
	}
	c.JSON(http.StatusOK, gin.H{"conversions": responses})
}

func (h *conversionHandler) getStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pair := c.Query("pair")

	stats, err := h.conversionService.GetConversionStatistics(c.Request.Context(), pair)
	if err != nil {
		logger.Error("Failed to get conversion statistics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversion statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
