package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, doc *Document) error
	FindByID(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID) (*Document, error)
	// FindByIDUnscoped loads a document regardless of owner. Share links use
	// it after resolving their own token.
	FindByIDUnscoped(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Document, error)
	List(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]*Document, error)
	ListSummaries(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]Summary, error)
	Update(ctx context.Context, db *gorm.DB, doc *Document) error
	UpdateContent(ctx context.Context, db *gorm.DB, id snowflake.ID, title *string, content string, at time.Time) error
	SetFolder(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID, folderID *snowflake.ID) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID) (bool, error)
	DeleteByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) error

	CountCreatedSince(ctx context.Context, db *gorm.DB, accountID snowflake.ID, since time.Time) (int64, error)
	CountInFolder(ctx context.Context, db *gorm.DB, accountID, folderID snowflake.ID) (int64, error)
}
