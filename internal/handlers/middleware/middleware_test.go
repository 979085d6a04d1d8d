package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvasilev/stockroom-be/internal/handlers/middleware"
	"github.com/pvasilev/stockroom-be/internal/pkg/logger"
	"github.com/pvasilev/stockroom-be/test/helpers"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	var seenID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = r.Context().Value(logger.ContextKeyRequestID).(string)
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.RequestID(inner)

	t.Run("generates_an_id_when_absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		id := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seenID)
	})

	t.Run("keeps_an_id_set_by_a_proxy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("X-Request-ID", "lb-handed-over-id")
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, "lb-handed-over-id", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "lb-handed-over-id", seenID)
	})
}

func TestLogger(t *testing.T) {
	l := logger.NewLogger(&logger.LogConfig{Level: "error", Format: "json"})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	})
	wrapped := middleware.Logger(l)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=0&pageSize=10", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[]`, rec.Body.String())
	// without RequestID in front, Logger mints its own ID
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	slogger := helpers.TestLogger()

	t.Run("turns_a_panic_into_a_500", func(t *testing.T) {
		panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})
		wrapped := middleware.Recovery(slogger)(panicking)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req = req.WithContext(context.WithValue(req.Context(), logger.ContextKeyRequestID, "req-7"))
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Internal Server Error")
		assert.Contains(t, rec.Body.String(), "req-7")
	})

	t.Run("leaves_normal_responses_alone", func(t *testing.T) {
		wrapped := middleware.Recovery(slogger)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	wrapped := middleware.RateLimit(3, time.Second)(okHandler())

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:4000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:4000"))

	// a different client has its own budget
	assert.Equal(t, http.StatusOK, send("10.0.0.2:4000"))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{
			name:       "wildcard_echoes_the_origin",
			allowed:    []string{"*"},
			origin:     "https://shop.example.com",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantOrigin: "https://shop.example.com",
		},
		{
			name:       "listed_origin_is_allowed",
			allowed:    []string{"https://shop.example.com", "https://admin.example.com"},
			origin:     "https://admin.example.com",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantOrigin: "https://admin.example.com",
		},
		{
			name:       "preflight_short_circuits",
			allowed:    []string{"*"},
			origin:     "https://shop.example.com",
			method:     http.MethodOptions,
			wantStatus: http.StatusNoContent,
			wantOrigin: "https://shop.example.com",
		},
		{
			name:       "unknown_origin_gets_no_headers",
			allowed:    []string{"https://shop.example.com"},
			origin:     "https://evil.example.com",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.CORS(tt.allowed)(okHandler())

			req := httptest.NewRequest(tt.method, "/api/v1/products", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			wrapped.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestSecureHeaders(t *testing.T) {
	wrapped := middleware.SecureHeaders(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
}
