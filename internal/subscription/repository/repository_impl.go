package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

const projectionColumns = `id, account_id, external_subscription_id, status, is_trialing,
	current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at`

func (r *repo) InsertIfAbsent(ctx context.Context, db *gorm.DB, p *subscriptiondomain.Projection) (bool, error) {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_subscription_id"}},
			DoNothing: true,
		}).
		Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*subscriptiondomain.Projection, error) {
	var p subscriptiondomain.Projection
	err := db.WithContext(ctx).Raw(
		`SELECT `+projectionColumns+` FROM subscription_projections
		WHERE external_subscription_id = ?
		LIMIT 1`,
		externalID,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindCurrentByAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (*subscriptiondomain.Projection, error) {
	var p subscriptiondomain.Projection
	err := db.WithContext(ctx).Raw(
		`SELECT `+projectionColumns+` FROM subscription_projections
		WHERE account_id = ?
		ORDER BY CASE WHEN status = ? OR is_trialing = ? THEN 0 ELSE 1 END, updated_at DESC, id DESC
		LIMIT 1`,
		accountID,
		subscriptiondomain.StatusActive,
		true,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) UpdateState(ctx context.Context, db *gorm.DB, externalID string, state subscriptiondomain.State, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE subscription_projections
		SET status = ?, is_trialing = ?, current_period_start = ?, current_period_end = ?, updated_at = ?
		WHERE external_subscription_id = ?`,
		state.Status,
		state.IsTrialing,
		state.PeriodStart,
		state.PeriodEnd,
		at,
		externalID,
	)
	return res.RowsAffected > 0, res.Error
}

func (r *repo) MarkInactive(ctx context.Context, db *gorm.DB, externalID string, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE subscription_projections
		SET status = ?, is_trialing = ?, cancel_at_period_end = ?, updated_at = ?
		WHERE external_subscription_id = ?`,
		subscriptiondomain.StatusInactive,
		false,
		false,
		at,
		externalID,
	)
	return res.RowsAffected > 0, res.Error
}

func (r *repo) SetCancelAtPeriodEnd(ctx context.Context, db *gorm.DB, externalID string, cancel bool, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE subscription_projections SET cancel_at_period_end = ?, updated_at = ?
		WHERE external_subscription_id = ?`,
		cancel, at, externalID,
	)
	return res.RowsAffected > 0, res.Error
}

func (r *repo) RetireForAccount(ctx context.Context, db *gorm.DB, accountID snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscription_projections
		SET status = ?, is_trialing = ?, cancel_at_period_end = ?, updated_at = ?
		WHERE account_id = ?`,
		subscriptiondomain.StatusInactive, false, false, at, accountID,
	).Error
}
