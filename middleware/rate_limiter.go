package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"agendapro/config"
	"agendapro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerMin = 100
	limiterIdleTTL        = 3 * time.Minute
	limiterSweepInterval  = time.Minute
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// rateLimiterStore holds one limiter per client IP. Idle clients are swept.
type rateLimiterStore struct {
	mu      sync.Mutex
	clients map[string]*client
	perMin  int
	now     func() time.Time
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = defaultRequestsPerMin
	}
	return &rateLimiterStore{
		clients: make(map[string]*client),
		perMin:  perMin,
		now:     time.Now,
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[ip]; ok {
		c.seen = s.now()
		return c.lim
	}
	// perMin requests per minute, all of them available as a burst.
	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
	s.clients[ip] = &client{lim: lim, seen: s.now()}
	return lim
}

// evictIdle drops clients not seen for longer than ttl and reports how many went.
func (s *rateLimiterStore) evictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	evicted := 0
	for ip, c := range s.clients {
		if c.seen.Before(cutoff) {
			delete(s.clients, ip)
			evicted++
		}
	}
	return evicted
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// sweep evicts idle clients every interval until ctx is done.
func (s *rateLimiterStore) sweep(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictIdle(ttl); n > 0 {
				utils.GetLogger().Debug("Evicted idle rate limiters", zap.Int("count", n))
			}
		}
	}
}

// RateLimitMiddleware limits requests per client IP to MAX_REQUESTS_PER_MIN.
// The client IP comes from gin, so forwarded headers count only when the
// peer is one of the router's trusted proxies. Idle entries are swept until
// ctx is cancelled.
func RateLimitMiddleware(ctx context.Context) gin.HandlerFunc {
	store := newRateLimiterStore(config.AppConfig.MaxRequestsPerMin)
	go store.sweep(ctx, limiterSweepInterval, limiterIdleTTL)
	return rateLimit(store)
}

func rateLimit(store *rateLimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.ErrorResponse{
				Error:   "rate_limited",
				Message: "Rate limit exceeded. Try again later.",
			})
			return
		}
		c.Next()
	}
}
