package domain

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// CreateCheckoutSession creates the processor customer on first use.
	CreateCheckoutSession(ctx context.Context, accountID snowflake.ID) (*CheckoutSession, error)
	// CancelSubscription schedules cancellation at period end for a
	// subscription the account owns.
	CancelSubscription(ctx context.Context, accountID snowflake.ID, externalID string) error
	CreatePortalSession(ctx context.Context, accountID snowflake.ID) (*PortalSession, error)
	// HandleWebhook verifies, records and applies one processor webhook.
	// Unrelated event types are acknowledged without effect.
	HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error
}
