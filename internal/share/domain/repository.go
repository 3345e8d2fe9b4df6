package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, link *Link) error
	// FindActiveByToken ignores links that expired at or before now.
	FindActiveByToken(ctx context.Context, db *gorm.DB, token string, now time.Time) (*Link, error)
	ListActive(ctx context.Context, db *gorm.DB, accountID, documentID snowflake.ID, now time.Time) ([]*Link, error)
	RecordAccess(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	Delete(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID) (bool, error)
	DeleteByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) error
}
