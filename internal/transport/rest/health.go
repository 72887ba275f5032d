package rest

import (
	"context"
	"net/http"
	"time"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// graphSizer reports the size of the served graph.
type graphSizer interface {
	NodeCount() int
	EdgeCount() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	graph   graphSizer
	db      dbPinger
	version string
}

// NewHealthHandler creates a HealthHandler. db may be nil when no snapshot
// store is configured.
func NewHealthHandler(g graphSizer, db dbPinger, version string) *HealthHandler {
	return &HealthHandler{graph: g, db: db, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Nodes   *int   `json:"nodes,omitempty"`
	Edges   *int   `json:"edges,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 once a non-empty graph is loaded and
// the snapshot store, if any, answers a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	resp := HealthResponse{Status: "ok", Timestamp: time.Now()}
	if h.graphStatus().Status != "ok" || h.dbStatus(r.Context()).Status == "down" {
		status = http.StatusServiceUnavailable
		resp.Status = "down"
	}
	writeJSON(w, status, resp)
}

// Health is the full health check: graph size, DB latency and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := map[string]CompStatus{"graph": h.graphStatus()}
	if h.db != nil {
		components["database"] = h.dbStatus(r.Context())
	}

	overallStatus := "ok"
	for _, c := range components {
		if c.Status != "ok" {
			overallStatus = "down"
		}
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) graphStatus() CompStatus {
	if h.graph == nil {
		return CompStatus{Status: "down"}
	}
	nodes, edges := h.graph.NodeCount(), h.graph.EdgeCount()
	st := CompStatus{Status: "ok", Nodes: &nodes, Edges: &edges}
	if nodes == 0 {
		st.Status = "empty"
	}
	return st
}

func (h *HealthHandler) dbStatus(ctx context.Context) CompStatus {
	if h.db == nil {
		return CompStatus{Status: "disabled"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return CompStatus{Status: "down"}
	}
	return CompStatus{Status: "ok", Latency: time.Since(start).String()}
}
