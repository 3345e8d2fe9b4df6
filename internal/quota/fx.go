package quota

import (
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	"github.com/smallbiznis/quill/internal/quota/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quota.service",
	fx.Provide(func(r documentdomain.Repository) quotadomain.DocumentCounter { return r }),
	fx.Provide(service.NewTracker),
)
