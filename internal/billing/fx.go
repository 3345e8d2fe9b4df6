package billing

import (
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"github.com/smallbiznis/quill/internal/billing/repository"
	"github.com/smallbiznis/quill/internal/billing/service"
	"github.com/smallbiznis/quill/internal/billing/stripe"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideGateway(cfg config.Config, clk clock.Clock, log *zap.Logger) billingdomain.Gateway {
	return stripe.NewClient(cfg.Stripe, clk, log)
}

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(provideGateway),
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) billingdomain.Service { return s }),
	fx.Provide(fx.Annotate(
		func(s *service.Service) accountdomain.DataPurger { return s },
		fx.ResultTags(`group:"account_purgers"`),
	)),
)
