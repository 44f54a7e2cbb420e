package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func hit(h http.Handler, remote, forwarded string) int {
	req := httptest.NewRequest(http.MethodGet, "/product_list", nil)
	req.RemoteAddr = remote
	if forwarded != "" {
		req.Header.Set("X-Forwarded-For", forwarded)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	h := middleware.RateLimit(2, time.Minute)(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "203.0.113.7:5000", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(h, "203.0.113.7:5001", "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "203.0.113.7:5002", "10.0.0.3"),
		"a forged X-Forwarded-For must not reset the limit")

	assert.Equal(t, http.StatusOK, hit(h, "198.51.100.4:5000", ""))
}

func TestRateLimitBehindRealIP(t *testing.T) {
	h := chimw.RealIP(middleware.RateLimit(1, time.Minute)(okHandler))

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.9:5000", "203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.9:5001", "203.0.113.7"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.9:5002", "198.51.100.4"))
}
