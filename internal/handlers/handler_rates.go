package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	"github.com/fintra-app/fintra_backend/internal/core/domain"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/fintra-app/fintra_backend/internal/dto"
	"github.com/fintra-app/fintra_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to exchange-rate resolution.
type rateHandler struct {
	rateResolver portssvc.RateResolverSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(resolver portssvc.RateResolverSvcFacade) *rateHandler {
	return &rateHandler{rateResolver: resolver}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, resolver portssvc.RateResolverSvcFacade) {
	h := newRateHandler(resolver)

	rates := rg.Group("/rates")
	{
		rates.GET("/:from/:to", h.resolveRate)
		rates.POST("/warm", h.warmDay)
	}
}

// resolveRate resolves the exchange rate for a currency pair on a calendar
// day (query parameter "date", defaulting to today).
func (h *rateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Param("from")
	to := c.Param("to")

	day := domain.Today()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := domain.ParseDay(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	rate, err := h.rateResolver.Resolve(c.Request.Context(), from, to, day)
	if err != nil {
		if apperrors.IsRateUnavailable(err) {
			logger.Warn("Rate unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ResolveRateResponse{
		From: from,
		To:   to,
		Date: day.String(),
		Rate: rate,
	})
}

// warmDay pre-fetches and caches all remote rates for a base currency on a
// calendar day.
func (h *rateHandler) warmDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.WarmDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for WarmDay", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	day, err := domain.ParseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := h.rateResolver.WarmDay(c.Request.Context(), req.Base, day)
	if err != nil {
		logger.Error("Failed to warm rate cache", slog.String("base", req.Base), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch rates from remote service"})
		return
	}

	c.JSON(http.StatusOK, dto.WarmDayResponse{Base: req.Base, Date: day.String(), Stored: stored})
}
