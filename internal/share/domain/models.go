package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Permission string

const (
	PermissionRead Permission = "read"
	PermissionEdit Permission = "edit"
)

// ParsePermission returns PermissionRead for an empty value.
func ParsePermission(s string) (Permission, bool) {
	switch p := Permission(s); p {
	case "":
		return PermissionRead, true
	case PermissionRead, PermissionEdit:
		return p, true
	default:
		return "", false
	}
}

const (
	DefaultExpiryDays = 7
	MaxExpiryDays     = 365
)

type Link struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	DocumentID     snowflake.ID `gorm:"not null;index" json:"document_id"`
	AccountID      snowflake.ID `gorm:"not null;index" json:"created_by"`
	Token          string       `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`
	Permission     Permission   `gorm:"type:varchar(8);not null" json:"permission"`
	ExpiresAt      time.Time    `gorm:"not null" json:"expires_at"`
	LastAccessedAt *time.Time   `json:"last_accessed_at"`
	AccessCount    int          `gorm:"not null;default:0" json:"access_count"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updated_at"`

	ShareURL string `gorm:"-" json:"share_url"`
}

func (Link) TableName() string { return "share_links" }

type CreateRequest struct {
	Permission    string `json:"permission"`
	ExpiresInDays int    `json:"expires_in"`
}

type UpdateSharedRequest struct {
	Title   *string `json:"title"`
	Content string  `json:"content"`
}

// SharedDocument is what a link holder sees.
type SharedDocument struct {
	Document   DocumentView `json:"document"`
	Permission Permission   `json:"permission"`
}

type DocumentView struct {
	ID      snowflake.ID `json:"id"`
	Title   string       `json:"title"`
	Content string       `json:"content"`
}
