// Package domain defines monthly usage quotas and their read model.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"gorm.io/gorm"
)

// Resource is a quota-limited kind of consumption.
type Resource string

const (
	ResourceAIRequest Resource = "ai_request"
	ResourceDocument  Resource = "document"
)

var (
	ErrLimitReached    = errors.New("limit_reached")
	ErrUnknownResource = errors.New("unknown_resource")
)

// LimitError describes a denied consumption. It matches ErrLimitReached.
type LimitError struct {
	Resource Resource
	Tier     subscriptiondomain.TierName
	Limit    int
}

func (e *LimitError) Error() string {
	switch e.Resource {
	case ResourceAIRequest:
		return fmt.Sprintf("monthly AI request limit of %d reached on the %s plan", e.Limit, e.Tier)
	case ResourceDocument:
		return fmt.Sprintf("monthly document limit of %d reached on the %s plan", e.Limit, e.Tier)
	default:
		return ErrLimitReached.Error()
	}
}

func (e *LimitError) Unwrap() error { return ErrLimitReached }

// DocumentCounter counts documents an account created since a given
// instant.
type DocumentCounter interface {
	CountCreatedSince(ctx context.Context, db *gorm.DB, accountID snowflake.ID, since time.Time) (int64, error)
}

// Usage is the per-account quota snapshot shown to the user.
type Usage struct {
	AIRequestsUsed   int                         `json:"ai_requests_used"`
	AIRequestsTotal  int                         `json:"ai_requests_total"`
	DocumentsUsed    int64                       `json:"documents_used"`
	DocumentsTotal   int                         `json:"documents_total"`
	CurrentPlan      subscriptiondomain.TierName `json:"current_plan"`
	Model            string                      `json:"model"`
	DaysLeftInPeriod int                         `json:"days_left_in_period"`
	Subscription     *SubscriptionSummary        `json:"subscription"`
}

type SubscriptionSummary struct {
	Status            subscriptiondomain.Status `json:"status"`
	IsTrialing        bool                      `json:"is_trialing"`
	CancelAtPeriodEnd bool                      `json:"cancel_at_period_end"`
	CurrentPeriodEnd  *time.Time                `json:"current_period_end"`
}

//go:generate mockgen -source=quota.go -destination=./mocks/mock_tracker.go -package=mocks
type Tracker interface {
	// CanConsume reports whether one more unit of kind fits the account's
	// tier this month. Storage failures deny.
	CanConsume(ctx context.Context, accountID snowflake.ID, kind Resource) (bool, error)
	// RecordConsumption counts one AI request. Failures are only logged.
	RecordConsumption(ctx context.Context, accountID snowflake.ID)
	// Require is CanConsume returning a *LimitError on denial.
	Require(ctx context.Context, accountID snowflake.ID, kind Resource) error
	// TryConsume checks and counts one AI request in a single conditional
	// write.
	TryConsume(ctx context.Context, accountID snowflake.ID) (bool, error)
	Usage(ctx context.Context, accountID snowflake.ID) (Usage, error)
}
