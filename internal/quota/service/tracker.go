package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	"github.com/smallbiznis/quill/internal/clock"
	obsmetrics "github.com/smallbiznis/quill/internal/observability/metrics"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultDaysLeft = 30

const (
	reasonAllowed      = "allowed"
	reasonLimitReached = "limit_reached"
	reasonRollover     = "rollover"
	reasonStoreError   = "store_error"
)

type Tracker struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	accounts  accountdomain.Repository
	documents quotadomain.DocumentCounter
	projector subscriptiondomain.Projector
	metrics   *obsmetrics.Metrics
}

type TrackerParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Accounts  accountdomain.Repository
	Documents quotadomain.DocumentCounter
	Projector subscriptiondomain.Projector
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

func NewTracker(p TrackerParam) quotadomain.Tracker {
	return &Tracker{
		db:        p.DB,
		log:       p.Log.Named("quota.tracker"),
		clock:     p.Clock,
		accounts:  p.Accounts,
		documents: p.Documents,
		projector: p.Projector,
		metrics:   p.Metrics,
	}
}

func (t *Tracker) CanConsume(ctx context.Context, accountID snowflake.ID, kind quotadomain.Resource) (bool, error) {
	ok, _, err := t.check(ctx, accountID, kind)
	return ok, err
}

func (t *Tracker) Require(ctx context.Context, accountID snowflake.ID, kind quotadomain.Resource) error {
	ok, tier, err := t.check(ctx, accountID, kind)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	limit := tier.MaxAIRequests
	if kind == quotadomain.ResourceDocument {
		limit = tier.MaxDocumentsPerMonth
	}
	return &quotadomain.LimitError{Resource: kind, Tier: tier.Name, Limit: limit}
}

func (t *Tracker) check(ctx context.Context, accountID snowflake.ID, kind quotadomain.Resource) (bool, subscriptiondomain.LimitTier, error) {
	switch kind {
	case quotadomain.ResourceAIRequest, quotadomain.ResourceDocument:
	default:
		return false, subscriptiondomain.LimitTier{}, quotadomain.ErrUnknownResource
	}

	log := t.log.With(zap.String("account_id", accountID.String()), zap.String("resource", string(kind)))

	account, err := t.accounts.FindByID(ctx, t.db, accountID)
	if err != nil {
		log.Warn("account lookup failed, denying", zap.Error(err))
		t.metrics.RecordQuotaDecision(ctx, string(kind), reasonStoreError)
		return false, subscriptiondomain.LimitTier{}, nil
	}
	if account == nil {
		return false, subscriptiondomain.LimitTier{}, accountdomain.ErrAccountNotFound
	}

	tier := t.projector.CurrentTier(ctx, accountID)
	now := t.clock.Now()

	if kind == quotadomain.ResourceDocument {
		created, err := t.documents.CountCreatedSince(ctx, t.db, accountID, clock.StartOfMonth(now))
		if err != nil {
			log.Warn("document count failed, denying", zap.Error(err))
			t.metrics.RecordQuotaDecision(ctx, string(kind), reasonStoreError)
			return false, tier, nil
		}
		return t.decide(ctx, kind, created < int64(tier.MaxDocumentsPerMonth)), tier, nil
	}

	if !clock.SameMonth(account.CycleAnchor, now) {
		if err := t.accounts.ResetCycle(ctx, t.db, accountID, now); err != nil {
			log.Warn("cycle reset failed, denying", zap.Error(err))
			t.metrics.RecordQuotaDecision(ctx, string(kind), reasonStoreError)
			return false, tier, nil
		}
		log.Info("usage cycle rolled over",
			zap.Time("previous_anchor", account.CycleAnchor),
			zap.Int("previous_used", account.AIRequestsUsed),
		)
		t.metrics.RecordQuotaDecision(ctx, string(kind), reasonRollover)
		return true, tier, nil
	}

	return t.decide(ctx, kind, account.AIRequestsUsed < tier.MaxAIRequests), tier, nil
}

func (t *Tracker) decide(ctx context.Context, kind quotadomain.Resource, allowed bool) bool {
	reason := reasonAllowed
	if !allowed {
		reason = reasonLimitReached
	}
	t.metrics.RecordQuotaDecision(ctx, string(kind), reason)
	return allowed
}

func (t *Tracker) RecordConsumption(ctx context.Context, accountID snowflake.ID) {
	if err := t.accounts.IncrementAIRequests(ctx, t.db, accountID); err != nil {
		t.log.Error("failed to record AI request",
			zap.String("account_id", accountID.String()),
			zap.Error(err),
		)
	}
}

// TryConsume rolls the cycle over when needed, then increments only while
// the counter is below the tier limit.
func (t *Tracker) TryConsume(ctx context.Context, accountID snowflake.ID) (bool, error) {
	account, err := t.accounts.FindByID(ctx, t.db, accountID)
	if err != nil {
		t.log.Warn("account lookup failed, denying", zap.String("account_id", accountID.String()), zap.Error(err))
		return false, nil
	}
	if account == nil {
		return false, accountdomain.ErrAccountNotFound
	}

	tier := t.projector.CurrentTier(ctx, accountID)
	now := t.clock.Now()
	if !clock.SameMonth(account.CycleAnchor, now) {
		if err := t.accounts.ResetCycle(ctx, t.db, accountID, now); err != nil {
			t.log.Warn("cycle reset failed, denying", zap.String("account_id", accountID.String()), zap.Error(err))
			return false, nil
		}
	}

	ok, err := t.accounts.IncrementAIRequestsBelow(ctx, t.db, accountID, tier.MaxAIRequests)
	if err != nil {
		t.log.Warn("conditional increment failed, denying", zap.String("account_id", accountID.String()), zap.Error(err))
		return false, nil
	}
	return t.decide(ctx, quotadomain.ResourceAIRequest, ok), nil
}

func (t *Tracker) Usage(ctx context.Context, accountID snowflake.ID) (quotadomain.Usage, error) {
	account, err := t.accounts.FindByID(ctx, t.db, accountID)
	if err != nil {
		return quotadomain.Usage{}, err
	}
	if account == nil {
		return quotadomain.Usage{}, accountdomain.ErrAccountNotFound
	}

	now := t.clock.Now()
	tier := t.projector.CurrentTier(ctx, accountID)

	documents, err := t.documents.CountCreatedSince(ctx, t.db, accountID, clock.StartOfMonth(now))
	if err != nil {
		return quotadomain.Usage{}, err
	}

	used := account.AIRequestsUsed
	if !clock.SameMonth(account.CycleAnchor, now) {
		used = 0
	}

	usage := quotadomain.Usage{
		AIRequestsUsed:   used,
		AIRequestsTotal:  tier.MaxAIRequests,
		DocumentsUsed:    documents,
		DocumentsTotal:   tier.MaxDocumentsPerMonth,
		CurrentPlan:      tier.Name,
		Model:            tier.Model,
		DaysLeftInPeriod: defaultDaysLeft,
	}

	p, err := t.projector.Current(ctx, accountID)
	switch {
	case err == nil:
		usage.Subscription = &quotadomain.SubscriptionSummary{
			Status:            p.Status,
			IsTrialing:        p.IsTrialing,
			CancelAtPeriodEnd: p.CancelAtPeriodEnd,
			CurrentPeriodEnd:  p.CurrentPeriodEnd,
		}
		if p.CurrentPeriodEnd != nil {
			usage.DaysLeftInPeriod = clock.DaysUntil(now, *p.CurrentPeriodEnd)
		}
	case errors.Is(err, subscriptiondomain.ErrProjectionNotFound):
	default:
		return quotadomain.Usage{}, err
	}

	return usage, nil
}
