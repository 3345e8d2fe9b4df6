package domain

import "errors"

var (
	ErrNotConfigured        = errors.New("billing_not_configured")
	ErrInvalidSignature     = errors.New("invalid_signature")
	ErrInvalidPayload       = errors.New("invalid_payload")
	ErrInvalidEvent         = errors.New("invalid_event")
	ErrEventIgnored         = errors.New("event_ignored")
	ErrAccountNotResolved   = errors.New("account_not_resolved")
	ErrNoCustomer           = errors.New("no_billing_customer")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
	ErrProcessorUnavailable = errors.New("payment_processor_unavailable")
)
