package httpserver

import (
	"net/http"

	"github.com/yndnr/snapkv/internal/core/service"
	"github.com/yndnr/snapkv/internal/server/httpserver/handler"
	"github.com/yndnr/snapkv/internal/telemetry/logger"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	// DB is the database served by the admin API.
	DB *service.Database

	// Metrics serves GET /metrics. Nil disables the endpoint.
	Metrics http.Handler

	// Logger is the base request logger.
	Logger logger.Logger
}

// Router is the top-level HTTP handler.
type Router struct {
	http.Handler
	api *handler.Handler
}

// SetReady toggles the /ready probe.
func (rt *Router) SetReady(ready bool) {
	rt.api.SetReady(ready)
}

// NewRouter builds the mux and wraps it in the middleware chain.
func NewRouter(cfg RouterConfig) *Router {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "http")

	api := handler.New(cfg.DB)

	mux := http.NewServeMux()
	mux.Handle("GET /health", api)
	mux.Handle("GET /ready", api)
	mux.Handle("/admin/", api)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return &Router{
		Handler: Chain(mux, Recover(log), RequestID(log), AccessLog()),
		api:     api,
	}
}
