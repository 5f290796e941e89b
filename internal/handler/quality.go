package handler

import (
	"net/http"

	"wiremon/internal/apierror"
	"wiremon/internal/dto"
	"wiremon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QualityHandler struct{ svc service.QualityService }

func NewQualityHandler(svc service.QualityService) *QualityHandler {
	return &QualityHandler{svc: svc}
}

// RecordInspection godoc
// @Summary      Record a quality inspection for a batch
// @Description  Files the inspection result. A PASSED verdict moves the batch into the quality check stage.
// @Tags         quality
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Batch UUID"
// @Param        body body dto.QualityCheckRequest true "Inspection result"
// @Success      201 {object} dto.InspectionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/batches/{id}/quality-check [post]
func (h *QualityHandler) RecordInspection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid batch ID"))
		return
	}
	var req dto.QualityCheckRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordInspection(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListInspections godoc
// @Summary      List quality inspections
// @Tags         quality
// @Produce      json
// @Security     BearerAuth
// @Param        batch_id query string false "Batch UUID"
// @Param        order_id query string false "Order UUID"
// @Param        status   query string false "PASSED|FAILED|PENDING"
// @Success      200 {array} dto.InspectionResponse
// @Router       /v1/quality/inspections [get]
func (h *QualityHandler) ListInspections(c *gin.Context) {
	var filter dto.InspectionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListInspections(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordDispatch godoc
// @Summary      Dispatch an order
// @Description  Creates the dispatch record in transit and marks the order DISPATCHED.
// @Tags         quality
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Order UUID"
// @Param        body body dto.DispatchRequest true "Transport details"
// @Success      201 {object} dto.DispatchResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id}/dispatch [post]
func (h *QualityHandler) RecordDispatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid order ID"))
		return
	}
	var req dto.DispatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordDispatch(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListDispatches godoc
// @Summary      List dispatch records
// @Tags         quality
// @Produce      json
// @Security     BearerAuth
// @Param        order_id query string false "Order UUID"
// @Param        status   query string false "PENDING|IN_TRANSIT|DELIVERED"
// @Success      200 {array} dto.DispatchResponse
// @Router       /v1/dispatches [get]
func (h *QualityHandler) ListDispatches(c *gin.Context) {
	var filter dto.DispatchFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListDispatches(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateDeliveryStatus godoc
// @Summary      Update delivery status
// @Description  Moves a dispatch through its delivery states. DELIVERED also closes out the order.
// @Tags         quality
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Dispatch UUID"
// @Param        body body dto.DeliveryStatusUpdateRequest true "New delivery status"
// @Success      200 {object} dto.DispatchResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/dispatches/{id}/delivery-status [patch]
func (h *QualityHandler) UpdateDeliveryStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid dispatch ID"))
		return
	}
	var req dto.DeliveryStatusUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDeliveryStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
