package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"drive-service/internal/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"

	keyPrefixOwner = "owner:"
	keyPrefixIP    = "ip:"

	jsonKeyError         = "error"
	msgRateLimitExceeded = "rate limit exceeded"
)

// RateLimiter implements token bucket rate limiting per identity
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// getLimiter gets or creates a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	limiter, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an Echo middleware function for rate limiting. Requests are keyed
// by the authenticated owner when a session is present, otherwise by client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(limiterKey(c))

			if !limiter.Allow() {
				c.Response().Header().Set(headerRateLimitLimit, strconv.Itoa(rl.burst))
				c.Response().Header().Set(headerRateLimitRemaining, "0")
				c.Response().Header().Set(headerRetryAfter, "1")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					jsonKeyError: msgRateLimitExceeded,
				})
			}

			c.Response().Header().Set(headerRateLimitLimit, strconv.Itoa(rl.burst))
			c.Response().Header().Set(headerRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))

			return next(c)
		}
	}
}

func limiterKey(c echo.Context) string {
	if ownerID := auth.GetOwnerID(c); ownerID != uuid.Nil {
		return keyPrefixOwner + ownerID.String()
	}
	return keyPrefixIP + c.RealIP()
}

// UploadRateLimiter bounds how often one owner can post upload batches.
type UploadRateLimiter struct {
	*RateLimiter
}

func NewUploadRateLimiter() *UploadRateLimiter {
	return &UploadRateLimiter{
		RateLimiter: NewRateLimiter(2, 10), // 2 batches/sec, burst of 10
	}
}

// GlobalRateLimiter is a lenient rate limiter for general API usage
type GlobalRateLimiter struct {
	*RateLimiter
}

// NewGlobalRateLimiter creates a global rate limiter
func NewGlobalRateLimiter() *GlobalRateLimiter {
	return &GlobalRateLimiter{
		RateLimiter: NewRateLimiter(100, 200), // 100 req/sec, burst of 200
	}
}
