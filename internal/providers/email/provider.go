package email

import "context"

type Provider interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string) error
	SendTemplate(ctx context.Context, to []string, templateName string, data TemplateData) error
}

// TemplateData feeds the embedded templates. Subject overrides the
// template default when set.
type TemplateData struct {
	Subject string
	Fields  map[string]any
}

// NoOpProvider is used when no SMTP relay is configured.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}

func (p *NoOpProvider) SendTemplate(ctx context.Context, to []string, templateName string, data TemplateData) error {
	return nil
}
