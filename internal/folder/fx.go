package folder

import (
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	folderdomain "github.com/smallbiznis/quill/internal/folder/domain"
	"github.com/smallbiznis/quill/internal/folder/service"
	"github.com/smallbiznis/quill/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("folder.service",
	fx.Provide(repository.ProvideStore[folderdomain.Folder]),
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) folderdomain.Service { return s }),
	fx.Provide(fx.Annotate(
		func(s *service.Service) accountdomain.DataPurger { return s },
		fx.ResultTags(`group:"account_purgers"`),
	)),
)
