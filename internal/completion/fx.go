package completion

import (
	"github.com/smallbiznis/quill/internal/config"
	obsmetrics "github.com/smallbiznis/quill/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ProviderParam struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewProvider(p ProviderParam) Provider {
	return NewBreakerProvider(providerOpenAI, NewOpenAIClient(p.Config.OpenAI, p.Log), p.Log, p.Metrics)
}

var Module = fx.Module("completion",
	fx.Provide(NewProvider),
)
