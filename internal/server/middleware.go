package server

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	"github.com/smallbiznis/quill/internal/auth"
	"github.com/smallbiznis/quill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quill/internal/observability/metrics"
	"go.uber.org/zap"
)

const (
	contextAccountIDKey = "account_id"
	bearerPrefix        = "bearer "
)

// AuthRequired resolves the bearer token to a live account.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		accountID, err := s.tokens.Parse(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := c.Request.Context()
		if _, err := s.accountSvc.Get(ctx, accountID); err != nil {
			if errors.Is(err, accountdomain.ErrAccountNotFound) {
				AbortWithError(c, ErrUnauthorized)
				return
			}
			AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(auth.WithAccountID(ctx, accountID))
		c.Set(contextAccountIDKey, accountID.String())
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

func accountIDFrom(c *gin.Context) (snowflake.ID, bool) {
	return auth.AccountIDFromContext(c.Request.Context())
}

// AssistRateLimit caps assistant calls per account. It must run after
// AuthRequired.
func (s *Server) AssistRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.assistLimiter.Enabled() {
			c.Next()
			return
		}

		accountID, ok := accountIDFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := c.Request.Context()
		endpoint := normalizeRateLimitEndpoint(c)
		result, err := s.assistLimiter.Allow(ctx, accountID.String())
		if err != nil {
			logger.FromContext(ctx).Warn("assist rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			logger.FromContext(ctx).Warn("assist rate limit exceeded", zap.String("endpoint", endpoint))
			recordRateLimitDenied(ctx, endpoint, s.obsMetrics)
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(result.RetryAfter.Seconds())))
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}

func recordRateLimitDenied(ctx context.Context, endpoint string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint)
}

func retryAfterSeconds(seconds float64) int {
	if seconds <= 1 {
		return 1
	}
	return int(math.Ceil(seconds))
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
