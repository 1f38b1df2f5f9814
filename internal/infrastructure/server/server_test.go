package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/config"
	"github.com/GriffinCanCode/terminus-math/internal/infrastructure/logging"
	"github.com/GriffinCanCode/terminus-math/internal/middleware"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	s, err := NewServer(cfg, logging.NewNop())
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	w, body := do(t, s, "GET", "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.0.8", body["version"])
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w, body = do(t, s, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := body["service_registry"].(map[string]interface{})
	assert.Equal(t, 8.0, stats["total_services"])
}

func TestListServices(t *testing.T) {
	s := newTestServer(t)

	_, body := do(t, s, "GET", "/services", nil)
	assert.Len(t, body["services"], 8)

	_, body = do(t, s, "GET", "/services?category=math", nil)
	assert.Len(t, body["services"], 4)

	w, _ := do(t, s, "GET", "/services?category=Math!", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiscoverServices(t *testing.T) {
	s := newTestServer(t)

	w, body := do(t, s, "POST", "/services/discover", map[string]interface{}{"message": "quaternion slerp"})
	require.Equal(t, http.StatusOK, w.Code)
	services := body["services"].([]interface{})
	require.NotEmpty(t, services)
	assert.Equal(t, "quaternion", services[0].(map[string]interface{})["id"])

	w, _ = do(t, s, "POST", "/services/discover", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExecuteService(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		body        map[string]interface{}
		wantStatus  int
		wantSuccess interface{}
	}{
		{
			name: "determinant",
			body: map[string]interface{}{
				"tool_id": "matrix.determinant",
				"params":  map[string]interface{}{"a": [][]float64{{1, 2}, {3, 4}}},
			},
			wantStatus:  http.StatusOK,
			wantSuccess: true,
		},
		{
			name: "tool failure",
			body: map[string]interface{}{
				"tool_id": "matrix.inverse",
				"params":  map[string]interface{}{"a": [][]float64{{1, 2}, {2, 4}}},
			},
			wantStatus:  http.StatusOK,
			wantSuccess: false,
		},
		{
			name:       "unknown service",
			body:       map[string]interface{}{"tool_id": "tensor.contract", "params": map[string]interface{}{}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed tool id",
			body:       map[string]interface{}{"tool_id": "determinant", "params": map[string]interface{}{}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing tool id",
			body:       map[string]interface{}{"params": map[string]interface{}{}},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, s, "POST", "/services/execute", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantSuccess != nil {
				assert.Equal(t, tt.wantSuccess, body["success"])
			}
		})
	}

	_, body := do(t, s, "POST", "/services/execute", tests[0].body)
	data := body["data"].(map[string]interface{})
	assert.InDelta(t, -2.0, data["result"], 1e-12)
}

func TestPackageEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, body := do(t, s, "GET", "/package", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "terminus_math/0.0.8", body["reference"])

	cfg := map[string]interface{}{
		"options":  map[string]interface{}{"shared": true},
		"settings": map[string]interface{}{"os": "Linux", "compiler": "gcc", "build_type": "Release", "arch": "x86_64"},
	}
	w, body = do(t, s, "POST", "/package/id", cfg)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, body["package_id"])

	w, body = do(t, s, "POST", "/package/toolchain", cfg)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, body["content"], "BUILD_SHARED_LIBS")

	w, _ = do(t, s, "POST", "/package/toolchain", map[string]interface{}{
		"options":  map[string]interface{}{"turbo": true},
		"settings": cfg["settings"],
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, s, "POST", "/package/id", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, s, "GET", "/package/lock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["requires"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	do(t, s, "POST", "/services/execute", map[string]interface{}{
		"tool_id": "coordinate.datum",
		"params":  map[string]interface{}{"datum": "wgs84"},
	})
	do(t, s, "POST", "/services/execute", map[string]interface{}{
		"tool_id": "optimize.fit",
		"params": map[string]interface{}{
			"model": "linear",
			"x":     []float64{0, 1, 2},
			"y":     []float64{1, 3, 5},
		},
	})

	w, _ := do(t, s, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	metrics := w.Body.String()
	assert.Contains(t, metrics, `terminus_service_calls_total{service="coordinate",status="success",tool="coordinate.datum"} 1`)
	assert.Contains(t, metrics, `terminus_datum_cache_lookups_total{result="miss"} 1`)
	assert.Contains(t, metrics, `terminus_lm_solves_total{model="linear"`)
	assert.Contains(t, metrics, `terminus_http_requests_total{method="POST",path="/services/execute",status="200"} 2`)
}

func TestUnknownToolsShareMetricSeries(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 50; i++ {
		do(t, s, "POST", "/services/execute", map[string]interface{}{
			"tool_id": fmt.Sprintf("bogus%d.tool%d", i, i),
		})
		do(t, s, "POST", "/services/execute", map[string]interface{}{
			"tool_id": fmt.Sprintf("math.nope%d", i),
		})
	}

	// one series per (service, tool, status) for the two unknown shapes
	assert.Equal(t, 2, testutil.CollectAndCount(s.metrics.ServiceCalls))
	assert.Equal(t, 2, testutil.CollectAndCount(s.metrics.ServiceErrors))

	w, _ := do(t, s, "GET", "/metrics", nil)
	metrics := w.Body.String()
	assert.Contains(t, metrics, `terminus_service_calls_total{service="unknown",status="error",tool="unknown"} 50`)
	assert.Contains(t, metrics, `terminus_service_calls_total{service="math",status="failure",tool="unknown"} 50`)
	assert.NotContains(t, metrics, "bogus7")
}

func TestGlobalRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit.GlobalRequestsPerSecond = 1
	cfg.RateLimit.GlobalBurst = 1
	s, err := NewServer(cfg, logging.NewNop())
	require.NoError(t, err)

	w, _ := do(t, s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// a second client still shares the global budget
	req := httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestBadRecipePath(t *testing.T) {
	cfg := config.Default()
	cfg.Recipe.Path = t.TempDir() + "/missing.yaml"
	_, err := NewServer(cfg, logging.NewNop())
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Recipe.Version = "9.9.9"
	_, err = NewServer(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	s, err := NewServer(cfg, logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.NoError(t, s.Close())
}
