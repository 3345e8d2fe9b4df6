package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PlanLimits are the numeric limits and completion model of one tier.
type PlanLimits struct {
	MaxAIRequests        int    `mapstructure:"maxAIRequests"`
	MaxDocumentsPerMonth int    `mapstructure:"maxDocumentsPerMonth"`
	Model                string `mapstructure:"model"`
}

type PlanConfig struct {
	Premium    PlanLimits `mapstructure:"premium"`
	Restricted PlanLimits `mapstructure:"restricted"`
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		Premium: PlanLimits{
			MaxAIRequests:        500,
			MaxDocumentsPerMonth: 100,
			Model:                "gpt-4",
		},
		Restricted: PlanLimits{
			MaxAIRequests:        20,
			MaxDocumentsPerMonth: 5,
			Model:                "gpt-3.5-turbo",
		},
	}
}

var defaultPlanPaths = []string{
	"/etc/quill",
	".",
}

// PlanConfigHolder keeps the current plan limits and swaps them when
// plans.yml changes on disk.
type PlanConfigHolder struct {
	current atomic.Value // holds PlanConfig
}

func NewPlanConfigHolder(log *zap.Logger) (*PlanConfigHolder, error) {
	return LoadPlanConfig(log, defaultPlanPaths...)
}

// LoadPlanConfig reads plans.yml from the first matching search path.
func LoadPlanConfig(log *zap.Logger, paths ...string) (*PlanConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.plans")

	v := viper.New()
	v.SetConfigName("plans")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("QUILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPlanConfig()
	setPlanDefaults(v, "plans.premium", defaults.Premium)
	setPlanDefaults(v, "plans.restricted", defaults.Restricted)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := unmarshalPlans(v)
	if err != nil {
		return nil, err
	}

	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)

	if !fileLoaded {
		log.Info("plans.yml not found, using defaults")
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := unmarshalPlans(v)
		if err != nil {
			log.Warn("plan config reload rejected", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("plan config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

// NewStaticPlanConfigHolder returns a holder that never reloads.
func NewStaticPlanConfigHolder(cfg PlanConfig) *PlanConfigHolder {
	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PlanConfigHolder) Get() PlanConfig {
	return h.current.Load().(PlanConfig)
}

func setPlanDefaults(v *viper.Viper, prefix string, limits PlanLimits) {
	v.SetDefault(prefix+".maxAIRequests", limits.MaxAIRequests)
	v.SetDefault(prefix+".maxDocumentsPerMonth", limits.MaxDocumentsPerMonth)
	v.SetDefault(prefix+".model", limits.Model)
}

func unmarshalPlans(v *viper.Viper) (PlanConfig, error) {
	// Unmarshal walks every key so nested defaults survive partial files.
	var root struct {
		Plans PlanConfig `mapstructure:"plans"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return PlanConfig{}, err
	}
	if err := validatePlanConfig(root.Plans); err != nil {
		return PlanConfig{}, err
	}
	return root.Plans, nil
}

func validatePlanConfig(cfg PlanConfig) error {
	for name, limits := range map[string]PlanLimits{
		"premium":    cfg.Premium,
		"restricted": cfg.Restricted,
	} {
		if limits.MaxAIRequests < 0 || limits.MaxDocumentsPerMonth < 0 {
			return fmt.Errorf("plans.%s: limits must not be negative", name)
		}
		if strings.TrimSpace(limits.Model) == "" {
			return fmt.Errorf("plans.%s.model is required", name)
		}
	}
	return nil
}
