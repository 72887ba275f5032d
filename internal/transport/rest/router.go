package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/wordgraph/internal/config"
	"github.com/heartmarshall/wordgraph/internal/transport/middleware"
)

// RouterDeps holds everything NewRouter wires into the mux.
type RouterDeps struct {
	Search  *SearchHandler
	Health  *HealthHandler
	Limiter *middleware.RateLimiter
	Config  config.ServerConfig
	Logger  *slog.Logger
}

// NewRouter builds the HTTP handler: probes and /metrics are served bare,
// the search API runs behind the full middleware chain.
func NewRouter(d RouterDeps) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/graph", d.Search.Graph)
	api.HandleFunc("GET /api/v1/words/{word}", d.Search.Word)
	api.HandleFunc("GET /api/v1/path", d.Search.Path)
	api.HandleFunc("GET /api/v1/paths", d.Search.Paths)
	api.HandleFunc("GET /api/v1/similarity", d.Search.Similarity)
	api.HandleFunc("GET /api/v1/similar", d.Search.Similar)
	api.HandleFunc("GET /api/v1/neighborhood", d.Search.Neighborhood)
	api.HandleFunc("GET /api/v1/neighborhood.dot", d.Search.NeighborhoodDOT)

	var limit middleware.Middleware
	if d.Limiter != nil {
		limit = d.Limiter.Limit(d.Config.RateLimitPerMinute)
	}
	chain := middleware.Chain(
		middleware.Recovery(d.Logger),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Metrics(),
		middleware.CORS(d.Config.CORS),
		limit,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", d.Health.Live)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /health", d.Health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/api/", chain(api))
	return mux
}
