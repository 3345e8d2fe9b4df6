// Package domain holds the local projection of payment-processor
// subscriptions and the limit tiers derived from it.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the locally persisted subscription state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Projection mirrors one subscription at the payment processor. Rows are
// never hard-deleted while the account exists; they are retired by moving
// to StatusInactive.
type Projection struct {
	ID                     snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID              snowflake.ID `gorm:"not null;index" json:"account_id"`
	ExternalSubscriptionID string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"external_subscription_id"`
	Status                 Status       `gorm:"type:varchar(32);not null" json:"status"`
	IsTrialing             bool         `gorm:"not null;default:false" json:"is_trialing"`
	CurrentPeriodStart     *time.Time   `json:"current_period_start"`
	CurrentPeriodEnd       *time.Time   `json:"current_period_end"`
	CancelAtPeriodEnd      bool         `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CreatedAt              time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time    `gorm:"not null" json:"updated_at"`
}

func (Projection) TableName() string { return "subscription_projections" }

// Premium reports whether the projection grants the premium tier.
func (p Projection) Premium() bool {
	return p.Status == StatusActive || p.IsTrialing
}

// State is the mutable part of a projection written by processor updates.
type State struct {
	Status      Status
	IsTrialing  bool
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// NormalizeStatus maps a payment-processor status onto the local status.
// Only active and trialing subscriptions count as active.
func NormalizeStatus(processorStatus string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(processorStatus)) {
	case "active":
		return StatusActive, false
	case "trialing":
		return StatusActive, true
	default:
		return StatusInactive, false
	}
}
