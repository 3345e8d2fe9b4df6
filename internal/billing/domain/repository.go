package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertEvent reports false when the provider event id was already
	// recorded.
	InsertEvent(ctx context.Context, db *gorm.DB, record *EventRecord) (bool, error)
	FindEvent(ctx context.Context, db *gorm.DB, provider, providerEventID string) (*EventRecord, error)
	MarkEvent(ctx context.Context, db *gorm.DB, id snowflake.ID, status EventStatus, errMsg string, accountID *snowflake.ID, at time.Time) error
	DeleteByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) error
}
