package subscription

import (
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"github.com/smallbiznis/quill/internal/subscription/repository"
	"github.com/smallbiznis/quill/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewProjector),
	fx.Provide(func(p *service.Projector) subscriptiondomain.Projector { return p }),
	fx.Provide(fx.Annotate(
		func(p *service.Projector) accountdomain.DataPurger { return p },
		fx.ResultTags(`group:"account_purgers"`),
	)),
)
