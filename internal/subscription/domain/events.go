package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout_completed"
	EventSubscriptionUpdated EventType = "subscription_updated"
	EventSubscriptionDeleted EventType = "subscription_deleted"
	EventTrialWillEnd        EventType = "trial_will_end"
)

// Event is one of the processor notifications the projector understands.
// The set is closed: only the types in this file implement it.
type Event interface {
	Type() EventType
	SubscriptionID() string
	sealed()
}

type CheckoutCompleted struct {
	AccountID              snowflake.ID
	ExternalSubscriptionID string
	PeriodStart            time.Time
	PeriodEnd              time.Time
	Trialing               bool
}

type SubscriptionUpdated struct {
	ExternalSubscriptionID string
	PeriodStart            time.Time
	PeriodEnd              time.Time
	// Status is the raw processor status, see NormalizeStatus.
	Status   string
	Trialing bool
}

type SubscriptionDeleted struct {
	ExternalSubscriptionID string
}

type TrialWillEnd struct {
	ExternalSubscriptionID string
}

func (CheckoutCompleted) Type() EventType   { return EventCheckoutCompleted }
func (SubscriptionUpdated) Type() EventType { return EventSubscriptionUpdated }
func (SubscriptionDeleted) Type() EventType { return EventSubscriptionDeleted }
func (TrialWillEnd) Type() EventType        { return EventTrialWillEnd }

func (e CheckoutCompleted) SubscriptionID() string   { return e.ExternalSubscriptionID }
func (e SubscriptionUpdated) SubscriptionID() string { return e.ExternalSubscriptionID }
func (e SubscriptionDeleted) SubscriptionID() string { return e.ExternalSubscriptionID }
func (e TrialWillEnd) SubscriptionID() string        { return e.ExternalSubscriptionID }

func (CheckoutCompleted) sealed()   {}
func (SubscriptionUpdated) sealed() {}
func (SubscriptionDeleted) sealed() {}
func (TrialWillEnd) sealed()        {}
