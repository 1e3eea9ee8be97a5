package rate_limiter

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute
	visitorIdleTTL  = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per client IP.
type Limiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*clientLimiter
}

func New(rps float64, burst int) *Limiter {
	return &Limiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*clientLimiter),
	}
}

func (l *Limiter) GetVisitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(l.rps, l.burst)
		l.visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// StartVisitorCleanupLoop forgets idle visitors until ctx is done, then
// drops the rest.
func (l *Limiter) StartVisitorCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.CleanupAllVisitors()
			return
		case <-ticker.C:
			l.cleanup(visitorIdleTTL)
		}
	}
}

func (l *Limiter) cleanup(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(l.visitors, ip)
		}
	}
}

func (l *Limiter) CleanupAllVisitors() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitors = make(map[string]*clientLimiter)
}

// Middleware rejects requests over the client's rate with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.GetVisitor(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
