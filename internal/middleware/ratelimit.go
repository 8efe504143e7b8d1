package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for the rate limiter middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate (tokens added per second).
	RequestsPerSecond float64
	// Burst is the maximum number of requests allowed at once.
	Burst int
}

// clientLimiter pairs a per-client token bucket with its last activity.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterPool hands out one token bucket per client IP and evicts buckets
// that have been idle long enough to refill anyway.
type limiterPool struct {
	cfg     RateLimitConfig
	clients sync.Map // map[string]*clientLimiter
	janitor sync.Once
}

func (p *limiterPool) get(ip string) *rate.Limiter {
	p.janitor.Do(func() { go p.sweep() })

	if v, ok := p.clients.Load(ip); ok {
		cl := v.(*clientLimiter)
		cl.lastSeen = time.Now()
		return cl.limiter
	}
	limiter := rate.NewLimiter(rate.Limit(p.cfg.RequestsPerSecond), p.cfg.Burst)
	p.clients.Store(ip, &clientLimiter{limiter: limiter, lastSeen: time.Now()})
	return limiter
}

func (p *limiterPool) sweep() {
	for {
		time.Sleep(5 * time.Minute)
		p.clients.Range(func(key, value any) bool {
			cl := value.(*clientLimiter)
			if time.Since(cl.lastSeen) > 10*time.Minute {
				p.clients.Delete(key)
			}
			return true
		})
	}
}

// RateLimiter enforces a per-client token-bucket rate limit. Exceeding the
// limit yields 429 Too Many Requests with standard rate-limit headers.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	pool := &limiterPool{cfg: cfg}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := pool.get(clientIP(r))

			reservation := limiter.Reserve()
			if !reservation.OK() {
				// Cannot be granted even with infinite wait.
				writeTooManyRequests(w, 0)
				return
			}
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				writeTooManyRequests(w, int(delay.Seconds())+1)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. X-Forwarded-For is untrusted and
// ignored so spoofed headers cannot dodge the limit.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeTooManyRequests(w http.ResponseWriter, retryAfterSecs int) {
	if retryAfterSecs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    429,
		"message": "rate limit exceeded",
	})
}
