package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, account *Account) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Account, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Account, error)
	FindByStripeCustomerID(ctx context.Context, db *gorm.DB, customerID string) (*Account, error)
	SetStripeCustomerID(ctx context.Context, db *gorm.DB, id snowflake.ID, customerID string) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// ResetCycle zeroes the AI request counter and moves the anchor.
	ResetCycle(ctx context.Context, db *gorm.DB, id snowflake.ID, anchor time.Time) error
	// IncrementAIRequests adds one without any bounds check. It returns
	// ErrAccountNotFound when no row matched.
	IncrementAIRequests(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// IncrementAIRequestsBelow adds one only while the counter is under limit
	// and reports whether a row changed.
	IncrementAIRequestsBelow(ctx context.Context, db *gorm.DB, id snowflake.ID, limit int) (bool, error)
}

// DataPurger removes rows a domain owns for an account being deleted.
// Implementations run inside the deletion transaction.
type DataPurger interface {
	PurgeAccount(ctx context.Context, tx *gorm.DB, accountID snowflake.ID) error
}
