package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/job"
	"github.com/labstack/echo/v4"
)

type Sweeper interface {
	RunExclusive(ctx context.Context, now time.Time) (job.Report, error)
}

// ReconciliationHandler runs the scheduled sweep on demand.
type ReconciliationHandler struct {
	sweep Sweeper
	clock func() time.Time
}

func NewReconciliationHandler(sweep Sweeper, clock func() time.Time) *ReconciliationHandler {
	if clock == nil {
		clock = time.Now
	}
	return &ReconciliationHandler{sweep: sweep, clock: clock}
}

func (h *ReconciliationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/reconciliation/run", h.Run)
}

func (h *ReconciliationHandler) Run(c echo.Context) error {
	report, err := h.sweep.RunExclusive(c.Request().Context(), h.clock())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, report)
}
