package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KelvinKitheka/stocker/internal/middleware"
	"github.com/KelvinKitheka/stocker/internal/service"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Get serves the full dashboard payload for the authenticated user,
// aggregated relative to the current UTC date.
func (h *DashboardHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
