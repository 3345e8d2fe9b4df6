package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/internal/config"
	obsmetrics "github.com/smallbiznis/quill/internal/observability/metrics"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Projector struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     subscriptiondomain.Repository
	plans    *config.PlanConfigHolder
	notifier subscriptiondomain.TrialNotifier
	metrics  *obsmetrics.Metrics
}

type ProjectorParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  subscriptiondomain.Repository
	Plans *config.PlanConfigHolder

	Notifier subscriptiondomain.TrialNotifier `optional:"true"`
	Metrics  *obsmetrics.Metrics              `optional:"true"`
}

func NewProjector(p ProjectorParam) *Projector {
	return &Projector{
		db:       p.DB,
		log:      p.Log.Named("subscription.projector"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		plans:    p.Plans,
		notifier: p.Notifier,
		metrics:  p.Metrics,
	}
}

func (s *Projector) Apply(ctx context.Context, event subscriptiondomain.Event) error {
	if event == nil {
		return subscriptiondomain.ErrInvalidEvent
	}
	externalID := strings.TrimSpace(event.SubscriptionID())
	if externalID == "" {
		return subscriptiondomain.ErrInvalidEvent
	}
	log := s.log.With(
		zap.String("event_type", string(event.Type())),
		zap.String("external_subscription_id", externalID),
	)

	var err error
	switch e := event.(type) {
	case subscriptiondomain.CheckoutCompleted:
		err = s.applyCheckoutCompleted(ctx, log, externalID, e)
	case subscriptiondomain.SubscriptionUpdated:
		err = s.applyUpdated(ctx, log, externalID, e)
	case subscriptiondomain.SubscriptionDeleted:
		err = s.applyDeleted(ctx, log, externalID)
	case subscriptiondomain.TrialWillEnd:
		err = s.applyTrialWillEnd(ctx, log, externalID)
	default:
		return subscriptiondomain.ErrInvalidEvent
	}

	if errors.Is(err, subscriptiondomain.ErrProjectionNotFound) {
		log.Warn("no projection for subscription event, dropping")
		return nil
	}
	if err != nil {
		return err
	}
	s.metrics.RecordBillingEvent(ctx, string(event.Type()))
	return nil
}

func (s *Projector) applyCheckoutCompleted(ctx context.Context, log *zap.Logger, externalID string, e subscriptiondomain.CheckoutCompleted) error {
	if e.AccountID == 0 {
		return subscriptiondomain.ErrInvalidEvent
	}

	now := s.clock.Now()
	start, end := e.PeriodStart.UTC(), e.PeriodEnd.UTC()
	created, err := s.repo.InsertIfAbsent(ctx, s.db, &subscriptiondomain.Projection{
		ID:                     s.genID.Generate(),
		AccountID:              e.AccountID,
		ExternalSubscriptionID: externalID,
		Status:                 subscriptiondomain.StatusActive,
		IsTrialing:             e.Trialing,
		CurrentPeriodStart:     &start,
		CurrentPeriodEnd:       &end,
		CreatedAt:              now,
		UpdatedAt:              now,
	})
	if err != nil {
		return err
	}
	if !created {
		log.Info("projection already exists, checkout replay ignored")
		return nil
	}
	log.Info("projection created",
		zap.String("account_id", e.AccountID.String()),
		zap.Bool("trialing", e.Trialing),
	)
	return nil
}

func (s *Projector) applyUpdated(ctx context.Context, log *zap.Logger, externalID string, e subscriptiondomain.SubscriptionUpdated) error {
	status, trialing := subscriptiondomain.NormalizeStatus(e.Status)
	state := subscriptiondomain.State{
		Status:      status,
		IsTrialing:  trialing || (e.Trialing && status == subscriptiondomain.StatusActive),
		PeriodStart: e.PeriodStart.UTC(),
		PeriodEnd:   e.PeriodEnd.UTC(),
	}
	ok, err := s.repo.UpdateState(ctx, s.db, externalID, state, s.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return subscriptiondomain.ErrProjectionNotFound
	}
	log.Info("projection updated",
		zap.String("status", string(state.Status)),
		zap.Bool("trialing", state.IsTrialing),
	)
	return nil
}

func (s *Projector) applyDeleted(ctx context.Context, log *zap.Logger, externalID string) error {
	ok, err := s.repo.MarkInactive(ctx, s.db, externalID, s.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return subscriptiondomain.ErrProjectionNotFound
	}
	log.Info("projection retired")
	return nil
}

func (s *Projector) applyTrialWillEnd(ctx context.Context, log *zap.Logger, externalID string) error {
	p, err := s.repo.FindByExternalID(ctx, s.db, externalID)
	if err != nil {
		return err
	}
	if p == nil {
		return subscriptiondomain.ErrProjectionNotFound
	}
	if s.notifier == nil {
		log.Info("trial ending, no notifier configured")
		return nil
	}
	if err := s.notifier.NotifyTrialWillEnd(ctx, *p); err != nil {
		log.Warn("trial ending notification failed", zap.Error(err))
	}
	return nil
}

func (s *Projector) CurrentTier(ctx context.Context, accountID snowflake.ID) subscriptiondomain.LimitTier {
	plans := s.plans.Get()
	p, err := s.repo.FindCurrentByAccount(ctx, s.db, accountID)
	if err != nil {
		s.log.Warn("projection lookup failed, falling back to restricted tier",
			zap.String("account_id", accountID.String()),
			zap.Error(err),
		)
		return subscriptiondomain.RestrictedTier(plans)
	}
	return subscriptiondomain.TierFor(p, plans)
}

func (s *Projector) Current(ctx context.Context, accountID snowflake.ID) (*subscriptiondomain.Projection, error) {
	p, err := s.repo.FindCurrentByAccount(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, subscriptiondomain.ErrProjectionNotFound
	}
	return p, nil
}

func (s *Projector) MarkCancelAtPeriodEnd(ctx context.Context, externalID string) error {
	ok, err := s.repo.SetCancelAtPeriodEnd(ctx, s.db, strings.TrimSpace(externalID), true, s.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return subscriptiondomain.ErrProjectionNotFound
	}
	return nil
}

// PurgeAccount retires every projection of an account that is being
// deleted. Rows stay for audit against processor records.
func (s *Projector) PurgeAccount(ctx context.Context, tx *gorm.DB, accountID snowflake.ID) error {
	return s.repo.RetireForAccount(ctx, tx, accountID, s.clock.Now())
}
