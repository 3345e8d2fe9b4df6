package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Type string

const (
	TypeArticle            Type = "article"
	TypeEssay              Type = "essay"
	TypeReport             Type = "report"
	TypeThesis             Type = "thesis"
	TypeMemoir             Type = "memoir"
	TypeInternshipReport   Type = "internship_report"
	TypePhilosophicalEssay Type = "philosophical_essay"
)

// ParseType returns TypeArticle for an empty value.
func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case "":
		return TypeArticle, true
	case TypeArticle, TypeEssay, TypeReport, TypeThesis, TypeMemoir, TypeInternshipReport, TypePhilosophicalEssay:
		return t, true
	default:
		return "", false
	}
}

// Academic reports whether documents of this type carry a citation style.
func (t Type) Academic() bool {
	switch t {
	case TypeThesis, TypeMemoir, TypeInternshipReport, TypePhilosophicalEssay:
		return true
	}
	return false
}

type CitationStyle string

const (
	CitationAPA     CitationStyle = "apa"
	CitationMLA     CitationStyle = "mla"
	CitationChicago CitationStyle = "chicago"
)

func (c CitationStyle) Valid() bool {
	return c == CitationAPA || c == CitationMLA || c == CitationChicago
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

type Reference struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors,omitempty"`
	Year        int      `json:"year,omitempty"`
	URL         string   `json:"url,omitempty"`
	Type        string   `json:"type,omitempty"`
	CitationKey string   `json:"citation_key,omitempty"`
}

type AcademicInfo struct {
	CitationStyle CitationStyle `json:"citation_style"`
	References    []Reference   `json:"references"`
}

type Document struct {
	ID           snowflake.ID                     `gorm:"primaryKey" json:"id"`
	AccountID    snowflake.ID                     `gorm:"not null;index" json:"account_id"`
	FolderID     *snowflake.ID                    `gorm:"index" json:"folder_id"`
	Title        string                           `gorm:"type:varchar(512);not null" json:"title"`
	Content      string                           `gorm:"type:text;not null" json:"content"`
	Type         Type                             `gorm:"type:varchar(32);not null" json:"type"`
	Status       Status                           `gorm:"type:varchar(16);not null" json:"status"`
	AcademicInfo datatypes.JSONType[AcademicInfo] `json:"academic_info"`
	AIAssisted   bool                             `gorm:"column:ai_assisted;not null;default:false" json:"ai_assisted"`
	Version      int                              `gorm:"not null;default:1" json:"version"`
	LastEditedAt time.Time                        `gorm:"not null" json:"last_edited_at"`
	CreatedAt    time.Time                        `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time                        `gorm:"not null" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

// Summary is the listing projection used by the folder tree.
type Summary struct {
	ID        snowflake.ID  `json:"id"`
	Title     string        `json:"title"`
	FolderID  *snowflake.ID `json:"folder_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CreateRequest struct {
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Type         string        `json:"type"`
	AcademicInfo *AcademicInfo `json:"academic_info"`
}

// UpdateRequest leaves nil fields untouched.
type UpdateRequest struct {
	Title        *string       `json:"title"`
	Content      *string       `json:"content"`
	AcademicInfo *AcademicInfo `json:"academic_info"`
}

// Export is a rendered document ready for download.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}
