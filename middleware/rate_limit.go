package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/teampulse/dailybot/config"
	"github.com/teampulse/dailybot/utils"
)

// Per-client limiter entries expire after a quiet period so the map does not
// grow with every address that ever hit the API.
const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

var (
	limiters   = map[string]*clientLimiter{}
	limitersMu sync.Mutex
)

// RateLimit applies a per-IP token bucket sized from RateLimitPerMinute. The
// operator API is small, so one bucket per client address is enough.
func RateLimit() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := cfg.RateLimitPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	r := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute/2 + 1

	return func(ctx *gin.Context) {
		if !getLimiter(ctx.ClientIP(), r, burst).Allow() {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func getLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	now := time.Now()
	for k, cl := range limiters {
		if now.After(cl.expires) {
			delete(limiters, k)
		}
	}

	cl, ok := limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(limit, burst)}
		limiters[key] = cl
	}
	cl.expires = now.Add(limiterIdleTTL)
	return cl.limiter
}
