package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() documentdomain.Repository {
	return &repo{}
}

const documentColumns = `id, account_id, folder_id, title, content, type, status, academic_info,
	ai_assisted, version, last_edited_at, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, doc *documentdomain.Document) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID,
		doc.AccountID,
		doc.FolderID,
		doc.Title,
		doc.Content,
		doc.Type,
		doc.Status,
		doc.AcademicInfo,
		doc.AIAssisted,
		doc.Version,
		doc.LastEditedAt,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID) (*documentdomain.Document, error) {
	var doc documentdomain.Document
	err := db.WithContext(ctx).Raw(
		`SELECT `+documentColumns+` FROM documents WHERE account_id = ? AND id = ? LIMIT 1`,
		accountID, id,
	).Scan(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, nil
	}
	return &doc, nil
}

func (r *repo) FindByIDUnscoped(ctx context.Context, db *gorm.DB, id snowflake.ID) (*documentdomain.Document, error) {
	var doc documentdomain.Document
	err := db.WithContext(ctx).Raw(
		`SELECT `+documentColumns+` FROM documents WHERE id = ? LIMIT 1`,
		id,
	).Scan(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, nil
	}
	return &doc, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]*documentdomain.Document, error) {
	var items []*documentdomain.Document
	err := db.WithContext(ctx).Raw(
		`SELECT `+documentColumns+` FROM documents WHERE account_id = ? ORDER BY last_edited_at DESC, id DESC`,
		accountID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListSummaries(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]documentdomain.Summary, error) {
	var items []documentdomain.Summary
	err := db.WithContext(ctx).Raw(
		`SELECT id, title, folder_id, created_at, updated_at
		FROM documents WHERE account_id = ? ORDER BY updated_at DESC, id DESC`,
		accountID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, doc *documentdomain.Document) error {
	return db.WithContext(ctx).Exec(
		`UPDATE documents SET title = ?, content = ?, academic_info = ?, ai_assisted = ?,
		version = ?, last_edited_at = ?, updated_at = ?
		WHERE account_id = ? AND id = ?`,
		doc.Title,
		doc.Content,
		doc.AcademicInfo,
		doc.AIAssisted,
		doc.Version,
		doc.LastEditedAt,
		doc.UpdatedAt,
		doc.AccountID,
		doc.ID,
	).Error
}

func (r *repo) UpdateContent(ctx context.Context, db *gorm.DB, id snowflake.ID, title *string, content string, at time.Time) error {
	if title != nil {
		return db.WithContext(ctx).Exec(
			`UPDATE documents SET title = ?, content = ?, version = version + 1, last_edited_at = ?, updated_at = ? WHERE id = ?`,
			*title, content, at, at, id,
		).Error
	}
	return db.WithContext(ctx).Exec(
		`UPDATE documents SET content = ?, version = version + 1, last_edited_at = ?, updated_at = ? WHERE id = ?`,
		content, at, at, id,
	).Error
}

func (r *repo) SetFolder(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID, folderID *snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE documents SET folder_id = ?, updated_at = ? WHERE account_id = ? AND id = ?`,
		folderID, time.Now().UTC(), accountID, id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM documents WHERE account_id = ? AND id = ?`,
		accountID, id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) DeleteByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM documents WHERE account_id = ?`, accountID).Error
}

func (r *repo) CountCreatedSince(ctx context.Context, db *gorm.DB, accountID snowflake.ID, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM documents WHERE account_id = ? AND created_at >= ?`,
		accountID, since,
	).Scan(&count).Error
	return count, err
}

func (r *repo) CountInFolder(ctx context.Context, db *gorm.DB, accountID, folderID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM documents WHERE account_id = ? AND folder_id = ?`,
		accountID, folderID,
	).Scan(&count).Error
	return count, err
}
