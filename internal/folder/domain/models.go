package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
)

// Folder is a node in an account's document tree. A nil ParentID is a
// root folder.
type Folder struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	AccountID snowflake.ID  `gorm:"not null;index" json:"account_id"`
	ParentID  *snowflake.ID `gorm:"index" json:"parent_id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name"`
	Position  int           `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

func (Folder) TableName() string { return "folders" }

type ItemType string

const (
	ItemFolder   ItemType = "folder"
	ItemDocument ItemType = "document"
)

type CreateRequest struct {
	Name     string        `json:"name"`
	ParentID *snowflake.ID `json:"parent_id"`
}

// MoveRequest moves a folder or a document. A nil TargetFolderID moves the
// item to the root.
type MoveRequest struct {
	ItemID         snowflake.ID  `json:"item_id"`
	ItemType       ItemType      `json:"item_type"`
	TargetFolderID *snowflake.ID `json:"target_folder_id"`
}

type Structure struct {
	Folders   []*Folder                `json:"folders"`
	Documents []documentdomain.Summary `json:"documents"`
}

var (
	ErrNotFound          = errors.New("folder_not_found")
	ErrParentNotFound    = errors.New("parent_folder_not_found")
	ErrTargetNotFound    = errors.New("target_folder_not_found")
	ErrItemNotFound      = errors.New("item_not_found")
	ErrInvalidName       = errors.New("invalid_folder_name")
	ErrInvalidItemType   = errors.New("invalid_item_type")
	ErrMoveIntoSelf      = errors.New("folder_move_into_self")
	ErrFolderNotEmpty    = errors.New("folder_not_empty")
	ErrFolderHasChildren = errors.New("folder_has_children")
)

type Service interface {
	Create(ctx context.Context, accountID snowflake.ID, req CreateRequest) (*Folder, error)
	Structure(ctx context.Context, accountID snowflake.ID) (*Structure, error)
	Move(ctx context.Context, accountID snowflake.ID, req MoveRequest) error
	Rename(ctx context.Context, accountID, id snowflake.ID, name string) (*Folder, error)
	// Delete refuses folders that still hold documents or sub-folders.
	Delete(ctx context.Context, accountID, id snowflake.ID) error
}
