package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KelvinKitheka/stocker/internal/apierror"
	"github.com/KelvinKitheka/stocker/internal/dto"
	"github.com/KelvinKitheka/stocker/internal/middleware"
	"github.com/KelvinKitheka/stocker/internal/service"
)

type BatchesHandler struct{ svc service.LedgerService }

func NewBatchesHandler(svc service.LedgerService) *BatchesHandler {
	return &BatchesHandler{svc: svc}
}

func (h *BatchesHandler) Create(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBatch(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BatchesHandler) List(c *gin.Context) {
	var filter dto.BatchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListBatches(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetBatch(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateBatch(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteBatch(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkDepleted handles POST /batches/:id/mark_depleted — the single entry
// point for both full and partial depletion.
func (h *BatchesHandler) MarkDepleted(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.MarkDepletedRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarkDepleted(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) Active(c *gin.Context) {
	resp, err := h.svc.ListActive(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) DepletedToday(c *gin.Context) {
	resp, err := h.svc.DepletedTodayCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) ListDepletions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListDepletions(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
