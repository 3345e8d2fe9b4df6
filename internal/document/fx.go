package document

import (
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	"github.com/smallbiznis/quill/internal/document/repository"
	"github.com/smallbiznis/quill/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) documentdomain.Service { return s }),
	fx.Provide(fx.Annotate(
		func(s *service.Service) accountdomain.DataPurger { return s },
		fx.ResultTags(`group:"account_purgers"`),
	)),
)
