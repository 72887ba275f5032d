package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tracing(name string, trace *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name+">")
			next.ServeHTTP(w, r)
			*trace = append(*trace, "<"+name)
		})
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(trace *[]string) Middleware
		want  []string
	}{
		{
			name:  "empty",
			build: func(*[]string) Middleware { return Chain() },
			want:  []string{"handler"},
		},
		{
			name: "first is outermost",
			build: func(tr *[]string) Middleware {
				return Chain(tracing("recovery", tr), tracing("request_id", tr))
			},
			want: []string{"recovery>", "request_id>", "handler", "<request_id", "<recovery"},
		},
		{
			name: "nil entries skipped",
			build: func(tr *[]string) Middleware {
				return Chain(nil, tracing("cors", tr), nil)
			},
			want: []string{"cors>", "handler", "<cors"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var trace []string
			h := tt.build(&trace)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				trace = append(trace, "handler")
				w.WriteHeader(http.StatusNoContent)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/graph", nil))

			assert.Equal(t, tt.want, trace)
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}
}
