package assistant

import (
	"github.com/smallbiznis/quill/internal/assistant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assistant.service",
	fx.Provide(service.NewService),
)
