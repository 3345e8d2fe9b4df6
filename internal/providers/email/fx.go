package email

import (
	"github.com/smallbiznis/quill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

// NewFromConfig picks SMTP when a relay host is set and otherwise drops mail.
func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	mail := cfg.Email
	if !mail.Enabled() {
		log.Named("providers.email").Info("no SMTP relay configured, outgoing mail is discarded")
		return &NoOpProvider{}
	}
	return NewSMTP(Config{
		Host:     mail.SMTPHost,
		Port:     mail.SMTPPort,
		Username: mail.SMTPUsername,
		Password: mail.SMTPPassword,
		From:     mail.SMTPFrom,
	})
}
