package observability

import (
	"testing"

	"github.com/smallbiznis/quill/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("export needs an endpoint", func(t *testing.T) {
		cfg := LoadConfig(config.Config{
			Environment: "production",
			Telemetry:   config.TelemetryConfig{ExportEnabled: true, TraceSampleRatio: 0.25},
		})
		assert.False(t, cfg.ExportEnabled)
		assert.Equal(t, "quill", cfg.ServiceName)
		assert.Equal(t, "grpc", cfg.Protocol)
		assert.Equal(t, 0.25, cfg.SampleRatio)
		assert.False(t, cfg.Debug())
	})

	t.Run("development samples everything", func(t *testing.T) {
		cfg := LoadConfig(config.Config{
			AppName:     "quill-api",
			Environment: "development",
			Telemetry: config.TelemetryConfig{
				ExportEnabled:    true,
				OTLPEndpoint:     "collector:4318",
				OTLPProtocol:     "HTTP/protobuf",
				TraceSampleRatio: 0.1,
			},
		})
		assert.True(t, cfg.ExportEnabled)
		assert.Equal(t, "quill-api", cfg.ServiceName)
		assert.Equal(t, "http", cfg.Protocol)
		assert.Equal(t, 1.0, cfg.SampleRatio)
		assert.True(t, cfg.Debug())
	})

	t.Run("ratio is clamped", func(t *testing.T) {
		cfg := LoadConfig(config.Config{
			Environment: "staging",
			Telemetry:   config.TelemetryConfig{TraceSampleRatio: 3, LogLevel: "DEBUG"},
		})
		assert.Equal(t, 1.0, cfg.SampleRatio)
		assert.True(t, cfg.Debug())
	})
}
