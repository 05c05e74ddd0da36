package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Staphlerr/eshop-adpro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTPServer.Port = 8080
	cfg.HTTPServer.Timeout.Read = time.Second
	cfg.HTTPServer.Timeout.Write = time.Second
	cfg.HTTPServer.Timeout.Idle = time.Second
	cfg.HTTPServer.Timeout.ReadHeader = time.Second
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetupHttpHandler_SequentialIDs(t *testing.T) {
	// given
	cfg := testConfig()
	cfg.Store.IDGenerator = config.IDGeneratorSequential
	handler := SetupHttpHandler(SetupDependencies(cfg, nil, discardLogger()))

	// when
	var bodies []string
	for range 2 {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"Sampo Cap Bambang","quantity":100}`))
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)
		bodies = append(bodies, rr.Body.String())
	}

	// then
	assert.JSONEq(t, `{"id":"0","name":"Sampo Cap Bambang","quantity":100}`, bodies[0])
	assert.JSONEq(t, `{"id":"1","name":"Sampo Cap Bambang","quantity":100}`, bodies[1])
}

func TestSetupHttpHandler_Metrics(t *testing.T) {
	testCases := []struct {
		name         string
		enabled      bool
		expectedCode int
	}{
		{name: "enabled", enabled: true, expectedCode: http.StatusOK},
		{name: "disabled", enabled: false, expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			cfg := testConfig()
			cfg.Metrics.Enabled = tc.enabled
			handler := SetupHttpHandler(SetupDependencies(cfg, nil, discardLogger()))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product/list", nil))

			// when
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.enabled {
				assert.Contains(t, rr.Body.String(), `http_requests_total{method="GET",path="/product/list",service="eshop",status="200"} 1`)
			}
		})
	}
}

func TestSetupHttpHandler_TracingSpanNames(t *testing.T) {
	// given
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tracesdk.NewTracerProvider(tracesdk.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	cfg := testConfig()
	cfg.Telemetry.Enabled = true
	handler := SetupHttpHandler(SetupDependencies(cfg, nil, discardLogger()))

	// when
	for _, id := range []string{"1", "2", "eb558e9f-1c39-460e-8860-71af6af63bd6"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product/edit/"+id, nil))
	}

	// then
	spans := recorder.Ended()
	require.Len(t, spans, 3)
	for _, span := range spans {
		assert.Equal(t, "GET /product/edit/{id}", span.Name())
	}
}

func TestSetupHttpServer(t *testing.T) {
	cfg := testConfig()

	srv := SetupHttpServer(SetupDependencies(cfg, nil, discardLogger()), cfg)

	assert.Equal(t, ":8080", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
