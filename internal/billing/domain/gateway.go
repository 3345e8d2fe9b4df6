package domain

import (
	"context"
	"net/http"
	"time"
)

// Processor webhook types the service acts on.
const (
	WebhookCheckoutCompleted   = "checkout.session.completed"
	WebhookSubscriptionUpdated = "customer.subscription.updated"
	WebhookSubscriptionDeleted = "customer.subscription.deleted"
	WebhookTrialWillEnd        = "customer.subscription.trial_will_end"
)

type CustomerParams struct {
	Email     string
	Name      string
	AccountID string
}

type CheckoutParams struct {
	CustomerID string
	PriceID    string
	AccountID  string
	TrialDays  int
	SuccessURL string
	CancelURL  string
}

// ProcessorSubscription is the processor's view of a subscription.
type ProcessorSubscription struct {
	ID          string
	CustomerID  string
	Status      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	TrialEnd    *time.Time
	Metadata    map[string]string
}

type CompletedCheckout struct {
	SessionID      string
	CustomerID     string
	SubscriptionID string
	Metadata       map[string]string
}

// WebhookEvent is a verified processor notification. Checkout is set for
// completed checkouts, Subscription for the subscription lifecycle types.
// Both are nil for types the service does not handle.
type WebhookEvent struct {
	ID           string
	Type         string
	CreatedAt    time.Time
	Checkout     *CompletedCheckout
	Subscription *ProcessorSubscription
}

//go:generate mockgen -source=gateway.go -destination=./mocks/mock_gateway.go -package=mocks
type Gateway interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetSubscription(ctx context.Context, id string) (*ProcessorSubscription, error)
	CancelAtPeriodEnd(ctx context.Context, id string) error
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (*PortalSession, error)

	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*WebhookEvent, error)
}
