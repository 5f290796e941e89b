package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wiremon/internal/dto"
	"wiremon/internal/model"
	"wiremon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProductionService lets each test pin the handler's downstream behavior.
type stubProductionService struct {
	createErr error
	getErr    error
	record    dto.ProductionRecordResponse
}

func (s *stubProductionService) CreateRecord(_ context.Context, req dto.CreateProductionRecordRequest) (*dto.ProductionRecordResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	r := s.record
	r.Stage = req.Stage
	return &r, nil
}

func (s *stubProductionService) CreateEntry(_ context.Context, _ dto.CreateProductionEntryRequest) (*dto.ProductionEntryResult, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.ProductionEntryResult{Record: s.record}, nil
}

func (s *stubProductionService) GetRecord(_ context.Context, _ uuid.UUID) (*dto.ProductionRecordResponse, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	r := s.record
	return &r, nil
}

func (s *stubProductionService) ListRecords(_ context.Context, filter dto.ProductionFilter) (*dto.ProductionListResponse, error) {
	return &dto.ProductionListResponse{Data: []dto.ProductionRecordResponse{s.record}, Total: 1, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stubProductionService) UpdateRecord(_ context.Context, _ uuid.UUID, _ dto.UpdateProductionRecordRequest) (*dto.ProductionRecordResponse, error) {
	r := s.record
	return &r, nil
}

func (s *stubProductionService) QuickStats(_ context.Context) (*dto.QuickStats, error) {
	return &dto.QuickStats{}, nil
}

func productionRouter(svc service.ProductionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewProductionHandler(svc)
	r.POST("/v1/production/records", h.CreateRecord)
	r.GET("/v1/production/records", h.ListRecords)
	r.GET("/v1/production/records/:id", h.GetRecord)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRecordReturns201(t *testing.T) {
	r := productionRouter(&stubProductionService{record: dto.ProductionRecordResponse{ID: uuid.NewString()}})

	w := doJSON(t, r, http.MethodPost, "/v1/production/records",
		`{"date":"2026-01-15","shift":"Morning","stage":"RBD","input_qty":1000,"output_qty":950,"scrap_qty":50}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "RBD")
}

func TestCreateRecordMalformedJSON(t *testing.T) {
	r := productionRouter(&stubProductionService{})

	w := doJSON(t, r, http.MethodPost, "/v1/production/records", `{"date":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid JSON")
}

func TestCreateRecordMissingFieldsFailsValidation(t *testing.T) {
	r := productionRouter(&stubProductionService{})

	w := doJSON(t, r, http.MethodPost, "/v1/production/records", `{"shift":"Morning"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateRecordDomainValidationMapsTo400(t *testing.T) {
	r := productionRouter(&stubProductionService{
		createErr: service.NewValidationError("unknown stage: Extrusion"),
	})

	w := doJSON(t, r, http.MethodPost, "/v1/production/records",
		`{"date":"2026-01-15","shift":"Morning","stage":"Extrusion","input_qty":10,"output_qty":9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown stage")
}

func TestCreateEntryInsufficientStockMapsTo409(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewProductionHandler(&stubProductionService{
		createErr: &service.InsufficientStockError{
			Stage:     model.StageRBD,
			Available: decimal.NewFromInt(5),
			Required:  decimal.NewFromInt(10),
		},
	})
	r.POST("/v1/production/entry", h.CreateEntry)

	w := doJSON(t, r, http.MethodPost, "/v1/production/entry",
		`{"date":"2026-01-15","shift":"Morning","stage":"RBD","input_qty":10,"output_qty":10}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")
}

func TestGetRecordRejectsBadUUID(t *testing.T) {
	r := productionRouter(&stubProductionService{})

	w := doJSON(t, r, http.MethodGet, "/v1/production/records/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid record ID")
}

func TestGetRecordNotFoundMapsTo404(t *testing.T) {
	r := productionRouter(&stubProductionService{
		getErr: service.NewNotFoundError("production record not found"),
	})

	w := doJSON(t, r, http.MethodGet, "/v1/production/records/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecordsInvalidShiftFilter(t *testing.T) {
	r := productionRouter(&stubProductionService{})

	w := doJSON(t, r, http.MethodGet, "/v1/production/records?shift=Dawn", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
