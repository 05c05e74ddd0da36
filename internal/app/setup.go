// Package app wires the eshop service together.
package app

import (
	"log/slog"
	"net/http"

	"github.com/Staphlerr/eshop-adpro/internal/config"
	"github.com/Staphlerr/eshop-adpro/internal/product/service"
	"github.com/Staphlerr/eshop-adpro/internal/product/store"
	"github.com/Staphlerr/eshop-adpro/internal/product/transport/rest"
	"github.com/Staphlerr/eshop-adpro/internal/product/transport/web"
	"github.com/Staphlerr/eshop-adpro/pkg/messaging"
	"github.com/Staphlerr/eshop-adpro/pkg/metrics"
	"github.com/Staphlerr/eshop-adpro/pkg/server"
	"github.com/Staphlerr/eshop-adpro/pkg/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const serviceName = "eshop"

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	// Metrics is nil when metrics are disabled.
	Metrics     *metrics.Metrics
	MetricsPath string
	Tracing     bool
}

// SetupDependencies builds the product store and service. A nil publisher disables events.
func SetupDependencies(cfg *config.Config, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	productStore := store.NewInMemoryStore(store.WithIDGenerator(idGenerator(cfg.Store.IDGenerator)))
	deps := &Dependencies{
		ProductService: service.NewService(productStore, publisher),
		Logger:         logger,
		Tracing:        cfg.Telemetry.Enabled,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New(prometheus.NewRegistry())
		deps.MetricsPath = cfg.Metrics.Path
		if deps.MetricsPath == "" {
			deps.MetricsPath = "/metrics"
		}
	}
	return deps
}

func idGenerator(name string) store.IDGenerator {
	if name == config.IDGeneratorSequential {
		return store.NewSequentialGenerator(0)
	}
	return store.NewUUIDGenerator()
}

// SetupHttpHandler initializes the routes and middleware of the eshop service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	var extra []func(http.Handler) http.Handler
	if deps.Metrics != nil {
		extra = append(extra, deps.Metrics.Middleware(serviceName))
	}
	if deps.Tracing {
		extra = append(extra, telemetry.RouteSpanName)
	}
	mux := server.NewChiRouter(deps.Logger, extra...)
	wireRoutes(mux, deps)

	if deps.Tracing {
		return telemetry.Middleware(serviceName)(mux)
	}
	return mux
}

// wireRoutes sets up the page, JSON API and metrics routes.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	web.NewHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	rest.NewHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, deps.MetricsPath, deps.Metrics.Handler())
	}
}

// SetupHttpServer creates and configures an HTTP server for the eshop service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
