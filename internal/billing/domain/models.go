package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type EventStatus string

const (
	EventReceived  EventStatus = "received"
	EventProcessed EventStatus = "processed"
	EventIgnored   EventStatus = "ignored"
	EventFailed    EventStatus = "failed"
)

// EventRecord is the audit trail of processor webhooks. It is never read
// back to decide anything; the projection is the source of truth.
type EventRecord struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	Provider        string         `gorm:"type:varchar(32);not null" json:"provider"`
	ProviderEventID string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"provider_event_id"`
	EventType       string         `gorm:"type:varchar(128);not null" json:"event_type"`
	CorrelationID   string         `gorm:"type:varchar(26);not null;index" json:"correlation_id"`
	AccountID       *snowflake.ID  `gorm:"index" json:"account_id"`
	SubscriptionID  string         `gorm:"type:varchar(255)" json:"subscription_id"`
	Status          EventStatus    `gorm:"type:varchar(16);not null" json:"status"`
	Error           string         `gorm:"type:text" json:"error,omitempty"`
	Payload         datatypes.JSON `json:"payload"`
	ReceivedAt      time.Time      `gorm:"not null" json:"received_at"`
	ProcessedAt     *time.Time     `json:"processed_at"`
}

func (EventRecord) TableName() string { return "billing_events" }

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type PortalSession struct {
	URL string `json:"url"`
}
