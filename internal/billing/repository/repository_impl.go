package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

func (r *repo) InsertEvent(ctx context.Context, db *gorm.DB, record *billingdomain.EventRecord) (bool, error) {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_event_id"}},
			DoNothing: true,
		}).
		Create(record)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) FindEvent(ctx context.Context, db *gorm.DB, provider, providerEventID string) (*billingdomain.EventRecord, error) {
	var record billingdomain.EventRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, provider, provider_event_id, event_type, correlation_id, account_id,
			subscription_id, status, error, payload, received_at, processed_at
		FROM billing_events
		WHERE provider = ? AND provider_event_id = ?
		LIMIT 1`,
		provider,
		providerEventID,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) MarkEvent(ctx context.Context, db *gorm.DB, id snowflake.ID, status billingdomain.EventStatus, errMsg string, accountID *snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE billing_events
		SET status = ?, error = ?, account_id = COALESCE(?, account_id), processed_at = ?
		WHERE id = ?`,
		status,
		errMsg,
		accountID,
		at,
		id,
	).Error
}

func (r *repo) DeleteByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM billing_events WHERE account_id = ?`,
		accountID,
	).Error
}
