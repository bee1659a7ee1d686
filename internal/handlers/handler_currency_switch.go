package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fintra-app/fintra_backend/internal/apperrors"
	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/fintra-app/fintra_backend/internal/dto"
	"github.com/fintra-app/fintra_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencySwitchHandler exposes the default-currency change workflow. The
// workflow state is returned on every call so clients can render per-pair
// progress and enable confirmation only when every rate resolved.
type currencySwitchHandler struct {
	switchService portssvc.CurrencySwitchSvcFacade
}

// newCurrencySwitchHandler creates a new currencySwitchHandler.
func newCurrencySwitchHandler(ss portssvc.CurrencySwitchSvcFacade) *currencySwitchHandler {
	return &currencySwitchHandler{switchService: ss}
}

// registerCurrencySwitchRoutes registers the currency-switch workflow routes.
func registerCurrencySwitchRoutes(rg *gin.RouterGroup, ss portssvc.CurrencySwitchSvcFacade) {
	h := newCurrencySwitchHandler(ss)

	sw := rg.Group("/currency-switch")
	{
		sw.POST("", h.begin)
		sw.GET("", h.status)
		sw.POST("/retry", h.retryFailed)
		sw.POST("/confirm", h.confirm)
		sw.POST("/cancel", h.cancel)
	}
}

func (h *currencySwitchHandler) begin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BeginSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BeginSwitch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	status, err := h.switchService.BeginChange(c.Request.Context(), req.TargetCurrency)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSwitchStatusResponse(status))
}

func (h *currencySwitchHandler) status(c *gin.Context) {
	status := h.switchService.Status(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToSwitchStatusResponse(status))
}

func (h *currencySwitchHandler) retryFailed(c *gin.Context) {
	status, err := h.switchService.RetryFailed(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSwitchStatusResponse(status))
}

func (h *currencySwitchHandler) confirm(c *gin.Context) {
	status, err := h.switchService.ConfirmConversion(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSwitchStatusResponse(status))
}

func (h *currencySwitchHandler) cancel(c *gin.Context) {
	status := h.switchService.Cancel(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToSwitchStatusResponse(status))
}

func (h *currencySwitchHandler) writeError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Currency switch operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Currency switch operation failed"})
	}
}
