package handler

import (
	"net/http"
	"time"

	"wiremon/internal/apierror"
	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct{ svc service.AnalyticsService }

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// optionalDate turns an already format-validated query value into a pointer.
func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// DashboardSummary godoc
// @Summary      Dashboard summary
// @Description  Terminal output, scrap, end-to-end efficiency, bottleneck stage and active alert and order counts over the window (default last 30 days).
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.DashboardSummary
// @Router       /v1/analytics/summary [get]
func (h *AnalyticsHandler) DashboardSummary(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.DashboardSummary(c.Request.Context(), optionalDate(filter.StartDate), optionalDate(filter.EndDate))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProcessFlow godoc
// @Summary      End-to-end process flow
// @Description  One node per configured stage with totals, efficiency status and the WIP buffered toward the next stage.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.ProcessFlowResponse
// @Router       /v1/analytics/process-flow [get]
func (h *AnalyticsHandler) ProcessFlow(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ProcessFlow(c.Request.Context(), optionalDate(filter.StartDate), optionalDate(filter.EndDate))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StageDetail godoc
// @Summary      Drill-down for one stage
// @Description  Aggregate stats, the 50 most recent records and a daily trend for the named stage.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        stage      path  string true  "Stage name"
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Param        shift      query string false "Morning|Afternoon|Night"
// @Success      200 {object} dto.StageDetail
// @Failure      400 {object} apierror.APIError
// @Router       /v1/analytics/stages/{stage} [get]
func (h *AnalyticsHandler) StageDetail(c *gin.Context) {
	stage := model.Stage(c.Param("stage"))
	if !stage.Valid() {
		c.JSON(http.StatusBadRequest, apierror.New("Unknown stage: "+c.Param("stage")))
		return
	}
	var filter dto.StageDetailFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.StageDetail(c.Request.Context(), stage, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Timeline godoc
// @Summary      Daily production timeline
// @Description  Output and mean efficiency per day per stage, optionally filtered to one stage.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Param        stage      query string false "Stage name"
// @Param        days       query int    false "Window size when no dates given (default 30)"
// @Success      200 {array} dto.TimelineDataPoint
// @Router       /v1/analytics/timeline [get]
func (h *AnalyticsHandler) Timeline(c *gin.Context) {
	var filter dto.TimelineFilter
	if !bindQuery(c, &filter) {
		return
	}
	var stage *model.Stage
	if filter.Stage != "" {
		s := model.Stage(filter.Stage)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, apierror.New("Unknown stage: "+filter.Stage))
			return
		}
		stage = &s
	}
	start := optionalDate(filter.StartDate)
	end := optionalDate(filter.EndDate)
	if start == nil && end == nil && filter.Days > 0 {
		e := time.Now().Truncate(24 * time.Hour)
		s := e.AddDate(0, 0, -filter.Days)
		start, end = &s, &e
	}
	resp, err := h.svc.Timeline(c.Request.Context(), start, end, stage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts godoc
// @Summary      Production alerts
// @Description  Threshold breaches (low efficiency, high loss) over recent records plus a bottleneck warning, most critical first.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {array} dto.Alert
// @Router       /v1/analytics/alerts [get]
func (h *AnalyticsHandler) Alerts(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Alerts(c.Request.Context(), optionalDate(filter.StartDate), optionalDate(filter.EndDate))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WIP godoc
// @Summary      Work-in-progress between stages
// @Description  Material produced by each stage but not yet consumed by the next, as of the cutoff date (default today).
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Cutoff date YYYY-MM-DD"
// @Success      200 {object} dto.WIPAnalysis
// @Router       /v1/analytics/wip [get]
func (h *AnalyticsHandler) WIP(c *gin.Context) {
	var filter dto.WIPFilter
	if !bindQuery(c, &filter) {
		return
	}
	target := time.Now().Truncate(24 * time.Hour)
	if d := optionalDate(filter.Date); d != nil {
		target = *d
	}
	resp, err := h.svc.WIP(c.Request.Context(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OverallMetrics godoc
// @Summary      Overall production metrics
// @Description  Initial input, terminal output, scrap and the end-to-end efficiency ratio over the window.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.OverallMetrics
// @Router       /v1/analytics/metrics [get]
func (h *AnalyticsHandler) OverallMetrics(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.OverallMetrics(c.Request.Context(), optionalDate(filter.StartDate), optionalDate(filter.EndDate))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EfficiencyStats godoc
// @Summary      Daily efficiency statistics
// @Description  Mean efficiency and output per day, zero-efficiency rows excluded (default last 30 days).
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.EfficiencyStats
// @Router       /v1/analytics/efficiency [get]
func (h *AnalyticsHandler) EfficiencyStats(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.EfficiencyStats(c.Request.Context(), optionalDate(filter.StartDate), optionalDate(filter.EndDate))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ScrapAnalysis godoc
// @Summary      Scrap breakdown by stage
// @Description  Scrap totals and percentages for stages that produced scrap in the window (default last 30 days).
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200 {object} dto.ScrapAnalysis
// @Router       /v1/analytics/scrap [get]
func (h *AnalyticsHandler) ScrapAnalysis(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ScrapAnalysis(c.Request.Context(), optionalDate(filter.StartDate), optionalDate(filter.EndDate))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
