package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/fintra-app/fintra_backend/internal/core/ports/services"
	"github.com/fintra-app/fintra_backend/internal/dto"
	"github.com/fintra-app/fintra_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconcileHandler triggers the pending-conversion sweep. The surrounding
// app's lifecycle hooks (foreground, launch) call this; it is also safe to
// invoke manually at any time.
type reconcileHandler struct {
	reconcileService portssvc.ReconcileSvcFacade
}

// newReconcileHandler creates a new reconcileHandler.
func newReconcileHandler(rs portssvc.ReconcileSvcFacade) *reconcileHandler {
	return &reconcileHandler{reconcileService: rs}
}

// registerReconcileRoutes registers the sweep trigger route.
func registerReconcileRoutes(rg *gin.RouterGroup, rs portssvc.ReconcileSvcFacade) {
	h := newReconcileHandler(rs)
	rg.POST("/reconcile", h.reconcile)
}

func (h *reconcileHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	count, err := h.reconcileService.ReconcilePending(c.Request.Context())
	if err != nil {
		logger.Error("Pending-conversion sweep failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run reconciliation"})
		return
	}

	c.JSON(http.StatusOK, dto.ReconcileResponse{UpdatedCount: count})
}
