package handler

import (
	"net/http"

	"wiremon/internal/apierror"
	"wiremon/internal/dto"
	"wiremon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BatchesHandler struct{ svc service.BatchService }

func NewBatchesHandler(svc service.BatchService) *BatchesHandler { return &BatchesHandler{svc: svc} }

// CreateBatch godoc
// @Summary      Create a traceable batch
// @Description  Registers a batch of material at its starting stage and opens its journey log.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateBatchRequest true "Batch details"
// @Success      201 {object} dto.BatchResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/batches [post]
func (h *BatchesHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateBatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListBatches godoc
// @Summary      List batches
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "ACTIVE|ON_HOLD|CONSUMED|REJECTED"
// @Param        stage  query string false "Current stage"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 50)"
// @Success      200 {object} dto.BatchListResponse
// @Router       /v1/batches [get]
func (h *BatchesHandler) ListBatches(c *gin.Context) {
	var filter dto.BatchFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListBatches(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBatch godoc
// @Summary      Batch detail with full journey
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Batch UUID"
// @Success      200 {object} dto.BatchDetailResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/batches/{id} [get]
func (h *BatchesHandler) GetBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid batch ID"))
		return
	}
	resp, err := h.svc.GetBatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MoveBatch godoc
// @Summary      Move a batch to its next stage
// @Description  Records the stage transition with output quantity and appends a journey event. Skipping stages is rejected.
// @Tags         batches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Batch UUID"
// @Param        body body dto.MoveBatchRequest true "Transition details"
// @Success      200 {object} dto.BatchMoveResult
// @Failure      400 {object} apierror.APIError
// @Router       /v1/batches/{id}/move [post]
func (h *BatchesHandler) MoveBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid batch ID"))
		return
	}
	var req dto.MoveBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MoveBatch(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HoldBatch godoc
// @Summary      Put a batch on hold
// @Tags         batches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Batch UUID"
// @Param        body body dto.HoldBatchRequest true "Hold reason"
// @Success      200 {object} dto.BatchResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/batches/{id}/hold [post]
func (h *BatchesHandler) HoldBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid batch ID"))
		return
	}
	var req dto.HoldBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.HoldBatch(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumeBatch godoc
// @Summary      Resume a held batch
// @Tags         batches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Batch UUID"
// @Param        body body dto.ResumeBatchRequest true "Resume note"
// @Success      200 {object} dto.BatchResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/batches/{id}/resume [post]
func (h *BatchesHandler) ResumeBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid batch ID"))
		return
	}
	var req dto.ResumeBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ResumeBatch(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
