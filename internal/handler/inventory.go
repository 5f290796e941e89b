package handler

import (
	"net/http"
	"strconv"
	"time"

	"wiremon/internal/apierror"
	"wiremon/internal/dto"
	"wiremon/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// limitQuery reads ?limit with a default and an upper bound.
func limitQuery(c *gin.Context, def, max int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Summary godoc
// @Summary      Inventory summary
// @Description  Per-stage utilization plus totals and the current stock alerts.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.InventorySummary
// @Router       /v1/inventory/summary [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListStocks godoc
// @Summary      List stock per stage
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StageInventoryResponse
// @Router       /v1/inventory [get]
func (h *InventoryHandler) ListStocks(c *gin.Context) {
	resp, err := h.svc.ListStocks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetStock godoc
// @Summary      Stock for one stage
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        stage path string true "Stage name"
// @Success      200 {object} dto.StageInventoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/inventory/{stage} [get]
func (h *InventoryHandler) GetStock(c *gin.Context) {
	resp, err := h.svc.GetStock(c.Request.Context(), c.Param("stage"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateInventory godoc
// @Summary      Manual stock adjustment
// @Description  Adds or removes quantity at a stage and writes the matching ledger transaction.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.InventoryUpdateRequest true "Adjustment"
// @Success      200 {object} dto.InventoryUpdateResult
// @Failure      409 {object} apierror.APIError
// @Router       /v1/inventory/update [post]
func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	var req dto.InventoryUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateInventory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordMovement godoc
// @Summary      Record a material movement
// @Description  Moves quantity between stages, debiting the source and crediting the destination atomically.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MaterialMovementRequest true "Movement"
// @Success      201 {object} dto.MaterialMovementResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/inventory/movement [post]
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req dto.MaterialMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordMovement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateStockLevels godoc
// @Summary      Set min/max stock levels
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        stage path string true "Stage name"
// @Param        body  body dto.UpdateStockLevelsRequest true "Levels"
// @Success      200 {object} dto.StageInventoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/inventory/{stage}/levels [put]
func (h *InventoryHandler) UpdateStockLevels(c *gin.Context) {
	var req dto.UpdateStockLevelsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStockLevels(c.Request.Context(), c.Param("stage"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts godoc
// @Summary      Stock alerts
// @Description  Stages below minimum or above maximum stock.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StockAlert
// @Router       /v1/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *gin.Context) {
	resp, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transactions godoc
// @Summary      Inventory transactions for a stage
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        stage path  string true  "Stage name"
// @Param        limit query int    false "Max rows (default 50)"
// @Success      200 {array} dto.InventoryTransactionResponse
// @Router       /v1/inventory/{stage}/transactions [get]
func (h *InventoryHandler) Transactions(c *gin.Context) {
	resp, err := h.svc.Transactions(c.Request.Context(), c.Param("stage"), limitQuery(c, 50, 200))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      Recent material movements
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max rows (default 50)"
// @Success      200 {array} dto.MaterialMovementResponse
// @Router       /v1/inventory/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	resp, err := h.svc.Movements(c.Request.Context(), limitQuery(c, 50, 200))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sync godoc
// @Summary      Rebuild stock from the production ledger
// @Description  Recomputes every stage's stock from recorded production, optionally only from records on or after a cutoff date. Admin only.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        since_date query string false "Replay cutoff YYYY-MM-DD"
// @Success      200 {object} dto.SyncResult
// @Router       /v1/inventory/sync [post]
func (h *InventoryHandler) Sync(c *gin.Context) {
	var filter dto.SyncFilter
	if !bindQuery(c, &filter) {
		return
	}
	var since *time.Time
	if filter.SinceDate != "" {
		t, err := time.Parse("2006-01-02", filter.SinceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid since_date: "+filter.SinceDate))
			return
		}
		since = &t
	}
	resp, err := h.svc.SyncFromProduction(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
