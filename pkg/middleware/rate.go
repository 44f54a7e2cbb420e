// Package middleware provides the HTTP middleware stack of the catalog API.
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/response"
)

// window tracks a fixed-window request count for one client.
type window struct {
	count   int
	resetAt time.Time
}

// Limiter allows max requests per client IP in each period.
type Limiter struct {
	max    int
	period time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*window
	nextSweep time.Time
}

func NewLimiter(max int, period time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		period:  period,
		now:     time.Now,
		clients: make(map[string]*window),
	}
}

// Allow records one request from key and reports whether it is within the
// limit, plus the time the current window resets.
func (l *Limiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		for k, w := range l.clients {
			if now.After(w.resetAt) {
				delete(l.clients, k)
			}
		}
		l.nextSweep = now.Add(l.period)
	}

	w, ok := l.clients[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.clients[key] = w
	}
	w.count++
	return w.count <= l.max, w.resetAt
}

// RateLimit limits each client IP to max requests per period. A max of zero
// or less disables limiting.
//
//	r.Use(middleware.RateLimit(200, time.Minute))
func RateLimit(max int, period time.Duration) func(http.Handler) http.Handler {
	if max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := NewLimiter(max, period)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, resetAt := l.Allow(clientIP(r))
			if !ok {
				retry := int(time.Until(resetAt).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the connection address without its port. Forwarding headers
// are ignored here; behind a trusted proxy the kernel mounts chi's RealIP,
// which rewrites RemoteAddr before this runs.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
