package server

import (
	"container/list"
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SecurityHeadersMiddleware adds security headers to all responses.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// The kiosk front-end loads everything from this server and
			// connect-src 'self' covers its same-origin WebSocket.
			w.Header().Set("Content-Security-Policy",
				"default-src 'self'; "+
					"script-src 'self'; "+
					"style-src 'self'; "+
					"img-src 'self' data:; "+
					"connect-src 'self'; "+
					"frame-ancestors 'none'")

			next.ServeHTTP(w, r)
		})
	}
}

// evictionLogInterval is the minimum time between eviction log messages.
const evictionLogInterval = 30 * time.Second

// ipLimiter tracks a per-IP token bucket and its position in the LRU list.
type ipLimiter struct {
	ip       string
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipTracker hands out one token bucket per client IP, evicting the
// least recently seen IP once capacity is reached.
type ipTracker struct {
	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front = most recent, back = oldest
	max   int

	rps   float64
	burst int

	// Eviction logging state (always accessed under mu)
	lastEvictLog time.Time
	evicted      int
}

func newIPTracker(rps float64, burst, max int) *ipTracker {
	if max <= 0 {
		max = 10000
	}
	return &ipTracker{
		items: make(map[string]*list.Element),
		order: list.New(),
		max:   max,
		rps:   rps,
		burst: burst,
	}
}

func (t *ipTracker) allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if elem, ok := t.items[ip]; ok {
		t.order.MoveToFront(elem)
		lim := elem.Value.(*ipLimiter)
		lim.lastSeen = time.Now()
		return lim.limiter.Allow()
	}

	if t.order.Len() >= t.max {
		t.evictOldest()
	}

	lim := &ipLimiter{
		ip:       ip,
		limiter:  rate.NewLimiter(rate.Limit(t.rps), t.burst),
		lastSeen: time.Now(),
	}
	t.items[ip] = t.order.PushFront(lim)
	return lim.limiter.Allow()
}

// evictOldest drops the least recently seen IP. Called with mu held.
func (t *ipTracker) evictOldest() {
	back := t.order.Back()
	if back == nil {
		return
	}

	dropped := back.Value.(*ipLimiter)
	t.order.Remove(back)
	delete(t.items, dropped.ip)

	t.evicted++
	if time.Since(t.lastEvictLog) >= evictionLogInterval {
		log.Printf("[RateLimit] Evicted %d least-recent IP(s) (at capacity: %d IPs)", t.evicted, t.max)
		t.lastEvictLog = time.Now()
		t.evicted = 0
	}
}

// sweep removes entries that have not been seen for olderThan. Stale
// entries can sit anywhere in the list because order tracks access
// recency, not lastSeen age, so every element gets visited.
func (t *ipTracker) sweep(olderThan time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for e := t.order.Back(); e != nil; {
		lim := e.Value.(*ipLimiter)
		prev := e.Prev()
		if now.Sub(lim.lastSeen) > olderThan {
			t.order.Remove(e)
			delete(t.items, lim.ip)
		}
		e = prev
	}
}

// RateLimitMiddleware limits requests using a token bucket per client
// IP. rps is the refill rate, burst the bucket size, and maxIPs caps
// how many IPs are tracked (LRU eviction when full; 0 means default).
//
// The sweep goroutine starts immediately and exits when ctx is
// cancelled; the returned channel closes once it has stopped.
func RateLimitMiddleware(ctx context.Context, rps float64, burst, maxIPs int) (func(http.Handler) http.Handler, <-chan struct{}) {
	tracker := newIPTracker(rps, burst, maxIPs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tracker.sweep(10 * time.Minute)
			case <-ctx.Done():
				return
			}
		}
	}()

	middleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tracker.allow(getClientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	return middleware, done
}

// getClientIP extracts the client IP from the request. It only trusts
// X-Forwarded-For / X-Real-IP when the immediate peer is a loopback or
// private address (i.e., behind a reverse proxy).
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peerIP := net.ParseIP(host)
	trustedProxy := peerIP != nil && (peerIP.IsLoopback() || peerIP.IsPrivate())

	if trustedProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if parts := strings.SplitN(xff, ",", 2); len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	if peerIP != nil {
		return peerIP.String()
	}
	return host
}
