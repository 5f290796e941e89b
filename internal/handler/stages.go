package handler

import (
	"net/http"

	"wiremon/internal/dto"
	"wiremon/internal/service"

	"github.com/gin-gonic/gin"
)

type StageConfigHandler struct{ svc service.StageCatalogService }

func NewStageConfigHandler(svc service.StageCatalogService) *StageConfigHandler {
	return &StageConfigHandler{svc: svc}
}

// ListConfigs godoc
// @Summary      List stage configurations
// @Description  All stages in sequence order with wire sizes, thresholds and active flags.
// @Tags         stages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StageConfigResponse
// @Router       /v1/stages/config [get]
func (h *StageConfigHandler) ListConfigs(c *gin.Context) {
	resp, err := h.svc.ListConfigs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateConfig godoc
// @Summary      Update a stage configuration
// @Description  Adjust thresholds, expected wire sizes or the active flag for one stage. Admin only.
// @Tags         stages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        stage path string true "Stage name"
// @Param        body  body dto.UpdateStageConfigRequest true "Fields to change"
// @Success      200 {object} dto.StageConfigResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stages/config/{stage} [put]
func (h *StageConfigHandler) UpdateConfig(c *gin.Context) {
	var req dto.UpdateStageConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateConfig(c.Request.Context(), c.Param("stage"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
