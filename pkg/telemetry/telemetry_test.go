package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// installRecorder makes a recording tracer provider global for the duration of the test.
func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := tracesdk.NewTracerProvider(tracesdk.WithSpanProcessor(recorder))
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return recorder
}

func Test_Middleware_RecordsServerSpan(t *testing.T) {
	// given
	recorder := installRecorder(t)
	var sawSpan bool
	handler := Middleware("eshop")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSpan = trace.SpanFromContext(r.Context()).SpanContext().IsValid()
		w.WriteHeader(http.StatusNoContent)
	}))

	// when
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product/list", nil))

	// then
	assert.True(t, sawSpan, "handler should run inside a span")
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
}

func Test_RouteSpanName(t *testing.T) {
	testCases := []struct {
		name         string
		target       string
		expectedSpan string
	}{
		{name: "route with id", target: "/product/edit/eb558e9f-1c39-460e-8860-71af6af63bd6", expectedSpan: "GET /product/edit/{id}"},
		{name: "another id shares the name", target: "/product/edit/2", expectedSpan: "GET /product/edit/{id}"},
		{name: "static route", target: "/product/list", expectedSpan: "GET /product/list"},
		{name: "no route", target: "/nope", expectedSpan: "GET unmatched"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			recorder := installRecorder(t)
			mux := chi.NewRouter()
			mux.Use(RouteSpanName)
			ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
			mux.Get("/product/edit/{id}", ok)
			mux.Get("/product/list", ok)
			handler := Middleware("eshop")(mux)

			// when
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.target, nil))

			// then
			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedSpan, spans[0].Name())
		})
	}
}
