package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/quill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyAssistAccount = "assist:account:%s"

// AssistLimiter throttles AI assistant calls per account. It sits in front
// of the monthly quota and only smooths bursts.
type AssistLimiter struct {
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
}

func NewAssistLimiter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*AssistLimiter, error) {
	limitCfg := cfg.RateLimit
	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if !limitCfg.Enabled || addr == "" {
		log.Named("ratelimit").Info("assist rate limiting disabled")
		return &AssistLimiter{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	limiter, err := newAssistLimiter(client, limitCfg.AssistRate, limitCfg.AssistBurst)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return limiter, nil
}

func newAssistLimiter(client redis.Scripter, rate float64, burst int) (*AssistLimiter, error) {
	if rate <= 0 || burst <= 0 {
		return nil, errors.New("assist rate limit must be positive")
	}
	return &AssistLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    rate,
		burst:   burst,
	}, nil
}

func (l *AssistLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *AssistLimiter) Allow(ctx context.Context, accountID string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyAssistAccount, strings.TrimSpace(accountID)), l.rate, l.burst)
}
