package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() accountdomain.Repository {
	return &repo{}
}

const accountColumns = `id, email, first_name, last_name, password_hash, stripe_customer_id,
	ai_requests_used, cycle_anchor, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, account *accountdomain.Account) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Email,
		account.FirstName,
		account.LastName,
		account.PasswordHash,
		account.StripeCustomerID,
		account.AIRequestsUsed,
		account.CycleAnchor,
		account.CreatedAt,
		account.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*accountdomain.Account, error) {
	return r.findOne(ctx, db, `id = ?`, id)
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*accountdomain.Account, error) {
	return r.findOne(ctx, db, `email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *repo) FindByStripeCustomerID(ctx context.Context, db *gorm.DB, customerID string) (*accountdomain.Account, error) {
	return r.findOne(ctx, db, `stripe_customer_id = ?`, customerID)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, where string, arg any) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT `+accountColumns+` FROM accounts WHERE `+where+` LIMIT 1`,
		arg,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repo) SetStripeCustomerID(ctx context.Context, db *gorm.DB, id snowflake.ID, customerID string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE accounts SET stripe_customer_id = ?, updated_at = ? WHERE id = ?`,
		customerID, time.Now().UTC(), id,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM accounts WHERE id = ?`, id).Error
}

func (r *repo) ResetCycle(ctx context.Context, db *gorm.DB, id snowflake.ID, anchor time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE accounts SET ai_requests_used = 0, cycle_anchor = ?, updated_at = ? WHERE id = ?`,
		anchor, anchor, id,
	).Error
}

func (r *repo) IncrementAIRequests(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE accounts SET ai_requests_used = ai_requests_used + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return accountdomain.ErrAccountNotFound
	}
	return nil
}

func (r *repo) IncrementAIRequestsBelow(ctx context.Context, db *gorm.DB, id snowflake.ID, limit int) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE accounts SET ai_requests_used = ai_requests_used + 1, updated_at = ?
		WHERE id = ? AND ai_requests_used < ?`,
		time.Now().UTC(), id, limit,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
