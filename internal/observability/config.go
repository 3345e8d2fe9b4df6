package observability

import (
	"strings"

	"github.com/smallbiznis/quill/internal/config"
)

// Config is the telemetry view of the service configuration.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	ExportEnabled bool
	Endpoint      string
	Protocol      string
	SampleRatio   float64
}

// LoadConfig derives telemetry settings. Export is off without an OTLP
// endpoint, and development environments keep every trace.
func LoadConfig(cfg config.Config) Config {
	t := cfg.Telemetry
	out := Config{
		ServiceName:   strings.TrimSpace(cfg.AppName),
		Environment:   strings.TrimSpace(cfg.Environment),
		Version:       strings.TrimSpace(cfg.AppVersion),
		LogLevel:      strings.ToLower(strings.TrimSpace(t.LogLevel)),
		LogFormat:     strings.ToLower(strings.TrimSpace(t.LogFormat)),
		Endpoint:      strings.TrimSpace(t.OTLPEndpoint),
		Protocol:      normalizeProtocol(t.OTLPProtocol),
		SampleRatio:   clampRatio(t.TraceSampleRatio),
		ExportEnabled: t.ExportEnabled,
	}
	if out.ServiceName == "" {
		out.ServiceName = "quill"
	}
	if out.Endpoint == "" {
		out.ExportEnabled = false
	}
	if isDevEnv(out.Environment) {
		out.SampleRatio = 1
	}
	return out
}

func (c Config) Debug() bool {
	return c.LogLevel == "debug" || isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func normalizeProtocol(protocol string) string {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		return "http"
	default:
		return "grpc"
	}
}

func clampRatio(ratio float64) float64 {
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}
