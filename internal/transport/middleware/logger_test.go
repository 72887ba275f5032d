package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordgraph/pkg/ctxutil"
)

// serveLogged runs h behind Logger and returns the single decoded log line.
func serveLogged(t *testing.T, h http.Handler, req *http.Request) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Logger(logger)(h).ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "log output: %s", buf.String())
	return line
}

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusTooManyRequests, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			line := serveLogged(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}), httptest.NewRequest(http.MethodGet, "/api/v1/path", nil))

			assert.Equal(t, "http.request", line["msg"])
			assert.Equal(t, tt.level, line["level"])
			assert.EqualValues(t, tt.status, line["status"])
			assert.Equal(t, "GET", line["method"])
			assert.Equal(t, "/api/v1/path", line["path"])
			assert.Contains(t, line, "duration")
		})
	}
}

func TestLogger_ImplicitOKAndBytes(t *testing.T) {
	t.Parallel()

	line := serveLogged(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("digraph {}\n"))
	}), httptest.NewRequest(http.MethodGet, "/api/v1/neighborhood.dot", nil))

	assert.EqualValues(t, http.StatusOK, line["status"])
	assert.EqualValues(t, len("digraph {}\n"), line["bytes"])
}

func TestLogger_RequestIDAndRoute(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/words/{word}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/words/ease", nil)
	req = req.WithContext(ctxutil.WithRequestID(req.Context(), "req-123"))
	line := serveLogged(t, mux, req)

	assert.Equal(t, "req-123", line["request_id"])
	assert.Equal(t, "GET /api/v1/words/{word}", line["route"])
}

func TestLogger_UnmatchedRouteOmitted(t *testing.T) {
	t.Parallel()

	line := serveLogged(t, http.NotFoundHandler(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.NotContains(t, line, "route")
}
