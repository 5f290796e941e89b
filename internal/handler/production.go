package handler

import (
	"net/http"

	"wiremon/internal/apierror"
	"wiremon/internal/dto"
	"wiremon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductionHandler struct{ svc service.ProductionService }

func NewProductionHandler(svc service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// CreateRecord godoc
// @Summary      Register a production record
// @Description  Records input/output/scrap for one stage and shift. Efficiency and loss are derived server-side.
// @Tags         production
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductionRecordRequest true "Record details"
// @Success      201  {object} dto.ProductionRecordResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/production/records [post]
func (h *ProductionHandler) CreateRecord(c *gin.Context) {
	var req dto.CreateProductionRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateRecord(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateEntry godoc
// @Summary      Guided production entry
// @Description  Shop-floor flow: writes the record, credits the stage's stock with the output and advances any linked order, all in one transaction.
// @Tags         production
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductionEntryRequest true "Entry details"
// @Success      201  {object} dto.ProductionEntryResult
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/production/entry [post]
func (h *ProductionHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateProductionEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateEntry(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListRecords godoc
// @Summary      List production records
// @Tags         production
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Param        stage      query string false "Stage name"
// @Param        shift      query string false "Morning|Afternoon|Night"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Page size (default 50)"
// @Success      200 {object} dto.ProductionListResponse
// @Router       /v1/production/records [get]
func (h *ProductionHandler) ListRecords(c *gin.Context) {
	var filter dto.ProductionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListRecords(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecord godoc
// @Summary      Get one production record
// @Tags         production
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Record UUID"
// @Success      200 {object} dto.ProductionRecordResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/production/records/{id} [get]
func (h *ProductionHandler) GetRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid record ID"))
		return
	}
	resp, err := h.svc.GetRecord(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateRecord godoc
// @Summary      Amend a production record's remark
// @Description  Records are immutable once written; only the operator name and free-text notes can change.
// @Tags         production
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Record UUID"
// @Param        body body dto.UpdateProductionRecordRequest true "Fields to change"
// @Success      200 {object} dto.ProductionRecordResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/production/records/{id} [put]
func (h *ProductionHandler) UpdateRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid record ID"))
		return
	}
	var req dto.UpdateProductionRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateRecord(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuickStats godoc
// @Summary      Today's headline numbers
// @Description  Record count, total output and average efficiency for the current date.
// @Tags         production
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.QuickStats
// @Router       /v1/production/quick-stats [get]
func (h *ProductionHandler) QuickStats(c *gin.Context) {
	resp, err := h.svc.QuickStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
