// Package notification tells account owners about billing changes that
// need their attention.
package notification

import (
	"context"
	"strings"

	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	"github.com/smallbiznis/quill/internal/config"
	"github.com/smallbiznis/quill/internal/providers/email"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const trialTemplate = "trial_will_end"

type TrialNotifier struct {
	db          *gorm.DB
	log         *zap.Logger
	accounts    accountdomain.Repository
	email       email.Provider
	frontendURL string
}

type TrialNotifierParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	Accounts accountdomain.Repository
	Email    email.Provider
}

func NewTrialNotifier(p TrialNotifierParam) *TrialNotifier {
	return &TrialNotifier{
		db:          p.DB,
		log:         p.Log.Named("notification.trial"),
		accounts:    p.Accounts,
		email:       p.Email,
		frontendURL: strings.TrimRight(p.Config.FrontendURL, "/"),
	}
}

func (n *TrialNotifier) NotifyTrialWillEnd(ctx context.Context, p subscriptiondomain.Projection) error {
	account, err := n.accounts.FindByID(ctx, n.db, p.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return accountdomain.ErrAccountNotFound
	}

	trialEnd := "the end of the current period"
	if p.CurrentPeriodEnd != nil {
		trialEnd = p.CurrentPeriodEnd.UTC().Format("January 2, 2006")
	}

	err = n.email.SendTemplate(ctx, []string{account.Email}, trialTemplate, email.TemplateData{
		Fields: map[string]any{
			"name":       account.DisplayName(),
			"trial_end":  trialEnd,
			"manage_url": n.frontendURL + "/dashboard/subscription",
		},
	})
	if err != nil {
		return err
	}
	n.log.Info("trial ending notice sent",
		zap.String("account_id", account.ID.String()),
		zap.String("external_subscription_id", p.ExternalSubscriptionID),
	)
	return nil
}

var Module = fx.Module("notification",
	fx.Provide(NewTrialNotifier),
	fx.Provide(func(n *TrialNotifier) subscriptiondomain.TrialNotifier { return n }),
)
