package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type rateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type roleLimit struct {
	max     int64
	message string
}

func limitFor(role models.UserRole) roleLimit {
	switch role {
	case models.RoleAdmin:
		return roleLimit{20, "Admin request limit exceeded (20 per minute). Slow down!"}
	case models.RoleTeacher, models.RoleStudent:
		return roleLimit{10, "User request limit exceeded (10 per minute). Please wait."}
	default:
		return roleLimit{5, "Guest request limit exceeded (5 per minute). Please sign up for higher limits."}
	}
}

// RateLimit applies a fixed window limit per caller. Signed-in callers are
// keyed by user id and limited by role; anonymous callers are guests keyed by
// IP. A nil counter or a counter error lets the request through.
func RateLimit(counter rateCounter, window time.Duration, metrics *service.MetricsService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if counter == nil || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		role := models.RoleGuest
		identity := "ip:" + c.ClientIP()
		if claims, ok := Session(c); ok {
			role = claims.Role
			identity = "user:" + claims.UserID
		}
		limit := limitFor(role)

		count, ttl, err := counter.Hit(c.Request.Context(), "ratelimit:"+identity, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		remaining := limit.max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit.max, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > limit.max {
			metrics.RecordRateLimited(string(role))
			c.Header("Retry-After", strconv.Itoa(int((ttl+time.Second-1)/time.Second)))
			response.Error(c, appErrors.Clone(appErrors.ErrTooManyRequests, limit.message))
			c.Abort()
			return
		}
		c.Next()
	}
}
