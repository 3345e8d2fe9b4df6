package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/internal/config"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const providerStripe = "stripe"

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	cfg       config.Config
	repo      billingdomain.Repository
	gateway   billingdomain.Gateway
	accounts  accountdomain.Repository
	projector subscriptiondomain.Projector
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Config    config.Config
	Repo      billingdomain.Repository
	Gateway   billingdomain.Gateway
	Accounts  accountdomain.Repository
	Projector subscriptiondomain.Projector
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("billing.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		cfg:       p.Config,
		repo:      p.Repo,
		gateway:   p.Gateway,
		accounts:  p.Accounts,
		projector: p.Projector,
	}
}

func (s *Service) CreateCheckoutSession(ctx context.Context, accountID snowflake.ID) (*billingdomain.CheckoutSession, error) {
	priceID := strings.TrimSpace(s.cfg.Stripe.PremiumPriceID)
	if priceID == "" {
		return nil, billingdomain.ErrNotConfigured
	}

	account, err := s.accounts.FindByID(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrAccountNotFound
	}

	customerID, err := s.ensureCustomer(ctx, account)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(s.cfg.FrontendURL, "/")
	session, err := s.gateway.CreateCheckoutSession(ctx, billingdomain.CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		AccountID:  account.ID.String(),
		TrialDays:  s.cfg.Stripe.TrialDays,
		SuccessURL: base + "/dashboard/subscription/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  base + "/dashboard/subscription",
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("checkout session created",
		zap.String("account_id", account.ID.String()),
		zap.String("session_id", session.ID),
	)
	return session, nil
}

func (s *Service) ensureCustomer(ctx context.Context, account *accountdomain.Account) (string, error) {
	if account.StripeCustomerID != nil && strings.TrimSpace(*account.StripeCustomerID) != "" {
		return *account.StripeCustomerID, nil
	}

	customerID, err := s.gateway.CreateCustomer(ctx, billingdomain.CustomerParams{
		Email:     account.Email,
		Name:      account.DisplayName(),
		AccountID: account.ID.String(),
	})
	if err != nil {
		return "", err
	}
	if err := s.accounts.SetStripeCustomerID(ctx, s.db, account.ID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}

func (s *Service) CancelSubscription(ctx context.Context, accountID snowflake.ID, externalID string) error {
	externalID = strings.TrimSpace(externalID)

	current, err := s.projector.Current(ctx, accountID)
	if errors.Is(err, subscriptiondomain.ErrProjectionNotFound) {
		return billingdomain.ErrSubscriptionNotFound
	}
	if err != nil {
		return err
	}
	if externalID == "" {
		externalID = current.ExternalSubscriptionID
	}
	if externalID != current.ExternalSubscriptionID {
		return billingdomain.ErrSubscriptionNotFound
	}

	if err := s.gateway.CancelAtPeriodEnd(ctx, externalID); err != nil {
		return err
	}
	if err := s.projector.MarkCancelAtPeriodEnd(ctx, externalID); err != nil {
		return err
	}

	s.log.Info("subscription set to cancel at period end",
		zap.String("account_id", accountID.String()),
		zap.String("external_subscription_id", externalID),
	)
	return nil
}

func (s *Service) CreatePortalSession(ctx context.Context, accountID snowflake.ID) (*billingdomain.PortalSession, error) {
	account, err := s.accounts.FindByID(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrAccountNotFound
	}
	if account.StripeCustomerID == nil || strings.TrimSpace(*account.StripeCustomerID) == "" {
		return nil, billingdomain.ErrNoCustomer
	}

	returnURL := strings.TrimRight(s.cfg.FrontendURL, "/") + "/dashboard/subscription"
	return s.gateway.CreatePortalSession(ctx, *account.StripeCustomerID, returnURL)
}

// PurgeAccount drops the webhook audit rows attributed to an account.
func (s *Service) PurgeAccount(ctx context.Context, tx *gorm.DB, accountID snowflake.ID) error {
	return s.repo.DeleteByAccount(ctx, tx, accountID)
}
