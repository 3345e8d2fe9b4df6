package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertIfAbsent creates p unless a row with the same external id
	// exists, and reports whether a row was written.
	InsertIfAbsent(ctx context.Context, db *gorm.DB, p *Projection) (bool, error)
	FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*Projection, error)
	// FindCurrentByAccount prefers a premium-granting row, then the most
	// recently updated one.
	FindCurrentByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (*Projection, error)

	// The update methods report false when no row matched externalID.
	UpdateState(ctx context.Context, db *gorm.DB, externalID string, state State, at time.Time) (bool, error)
	MarkInactive(ctx context.Context, db *gorm.DB, externalID string, at time.Time) (bool, error)
	SetCancelAtPeriodEnd(ctx context.Context, db *gorm.DB, externalID string, cancel bool, at time.Time) (bool, error)

	RetireForAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID, at time.Time) error
}
