package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	sharedomain "github.com/smallbiznis/quill/internal/share/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() sharedomain.Repository {
	return &repo{}
}

const linkColumns = `id, document_id, account_id, token, permission, expires_at,
	last_accessed_at, access_count, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, link *sharedomain.Link) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO share_links (`+linkColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		link.ID,
		link.DocumentID,
		link.AccountID,
		link.Token,
		link.Permission,
		link.ExpiresAt,
		link.LastAccessedAt,
		link.AccessCount,
		link.CreatedAt,
		link.UpdatedAt,
	).Error
}

func (r *repo) FindActiveByToken(ctx context.Context, db *gorm.DB, token string, now time.Time) (*sharedomain.Link, error) {
	var link sharedomain.Link
	err := db.WithContext(ctx).Raw(
		`SELECT `+linkColumns+` FROM share_links WHERE token = ? AND expires_at > ? LIMIT 1`,
		token, now,
	).Scan(&link).Error
	if err != nil {
		return nil, err
	}
	if link.ID == 0 {
		return nil, nil
	}
	return &link, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, accountID, documentID snowflake.ID, now time.Time) ([]*sharedomain.Link, error) {
	var items []*sharedomain.Link
	err := db.WithContext(ctx).Raw(
		`SELECT `+linkColumns+` FROM share_links
		WHERE account_id = ? AND document_id = ? AND expires_at > ?
		ORDER BY created_at DESC, id DESC`,
		accountID, documentID, now,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) RecordAccess(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE share_links SET access_count = access_count + 1, last_accessed_at = ?, updated_at = ? WHERE id = ?`,
		at, at, id,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, accountID, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM share_links WHERE account_id = ? AND id = ?`, accountID, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) DeleteByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM share_links WHERE account_id = ?`, accountID).Error
}
