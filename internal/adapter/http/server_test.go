package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/voltgrid/station-inference-service/internal/adapter/http"
	"github.com/voltgrid/station-inference-service/internal/domain"
)

// mockService stubs the engine for handler tests.
type mockService struct {
	result    domain.PredictionResult
	models    []string
	modelsErr error
	readyErr  error

	gotModelPath string
	gotRecord    domain.InputRecord
}

func (m *mockService) Predict(_ context.Context, modelPath string, record domain.InputRecord) domain.PredictionResult {
	m.gotModelPath = modelPath
	m.gotRecord = record
	return m.result
}

func (m *mockService) Models() ([]string, error) { return m.models, m.modelsErr }

func (m *mockService) CheckReadiness(_ context.Context) error { return m.readyErr }

func newTestServer(svc *mockService) *httpadapter.Server {
	return httpadapter.NewServer(":0", svc, slog.Default())
}

func TestPredictEndpoint(t *testing.T) {
	t.Run("routes body to the engine", func(t *testing.T) {
		svc := &mockService{result: domain.PredictionResult{Prediction: 7.0, Fallback: true}}
		srv := newTestServer(svc)

		body := `{"model_path":"models/xgb_queue.pkl","input_data":{"current_queue":7}}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "models/xgb_queue.pkl", svc.gotModelPath)
		assert.Equal(t, 7.0, svc.gotRecord["current_queue"])

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 7.0, got["prediction"])
		assert.Equal(t, true, got["fallback"])
	})

	t.Run("missing input_data defaults to empty record", func(t *testing.T) {
		svc := &mockService{}
		srv := newTestServer(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"model_path":"m.pkl"}`))

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, svc.gotRecord)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		srv := newTestServer(&mockService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{not json`))

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing model_path is 400", func(t *testing.T) {
		srv := newTestServer(&mockService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"input_data":{}}`))

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestModelsEndpoint(t *testing.T) {
	t.Run("lists artifacts", func(t *testing.T) {
		srv := newTestServer(&mockService{models: []string{"a.pkl", "b.json"}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/models", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string][]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []string{"a.pkl", "b.json"}, body["models"])
	})

	t.Run("empty directory yields empty list", func(t *testing.T) {
		srv := newTestServer(&mockService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/models", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"models":[]}`, rec.Body.String())
	})

	t.Run("store failure is 500", func(t *testing.T) {
		srv := newTestServer(&mockService{modelsErr: errors.New("boom")})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/models", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(&mockService{})
	for _, path := range []string{"/health", "/healthz"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
	}
}

func TestReadyzEndpoint(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(&mockService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newTestServer(&mockService{readyErr: errors.New("models dir missing")})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not ready", body["status"])
		assert.Equal(t, "models dir missing", body["error"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockService{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
