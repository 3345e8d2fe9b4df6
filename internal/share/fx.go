package share

import (
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	sharedomain "github.com/smallbiznis/quill/internal/share/domain"
	"github.com/smallbiznis/quill/internal/share/repository"
	"github.com/smallbiznis/quill/internal/share/service"
	"go.uber.org/fx"
)

var Module = fx.Module("share.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) sharedomain.Service { return s }),
	fx.Provide(fx.Annotate(
		func(s *service.Service) accountdomain.DataPurger { return s },
		fx.ResultTags(`group:"account_purgers"`),
	)),
)
