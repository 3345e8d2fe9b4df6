package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	"github.com/smallbiznis/quill/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&accountdomain.Account{}))
	return conn
}

func seedAccount(t *testing.T, conn *gorm.DB, r accountdomain.Repository, id snowflake.ID, used int) {
	t.Helper()
	now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(context.Background(), conn, &accountdomain.Account{
		ID:             id,
		Email:          id.String() + "@example.com",
		PasswordHash:   "x",
		AIRequestsUsed: used,
		CycleAnchor:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}))
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	conn := setupTestDB(t)
	got, err := Provide().FindByID(context.Background(), conn, snowflake.ID(404))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIncrementAndReset(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	r := Provide()
	seedAccount(t, conn, r, 1, 19)

	require.NoError(t, r.IncrementAIRequests(ctx, conn, 1))
	got, err := r.FindByID(ctx, conn, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, got.AIRequestsUsed)

	anchor := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, r.ResetCycle(ctx, conn, 1, anchor))
	got, err = r.FindByID(ctx, conn, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AIRequestsUsed)
	assert.True(t, anchor.Equal(got.CycleAnchor))

	assert.ErrorIs(t, r.IncrementAIRequests(ctx, conn, 2), accountdomain.ErrAccountNotFound)
}

func TestIncrementAIRequestsBelow(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	r := Provide()
	seedAccount(t, conn, r, 1, 19)

	ok, err := r.IncrementAIRequestsBelow(ctx, conn, 1, 20)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IncrementAIRequestsBelow(ctx, conn, 1, 20)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := r.FindByID(ctx, conn, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, got.AIRequestsUsed)
}

func TestFindByEmailNormalizes(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	r := Provide()
	seedAccount(t, conn, r, 7, 0)

	got, err := r.FindByEmail(ctx, conn, "  7@EXAMPLE.com ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snowflake.ID(7), got.ID)

	require.NoError(t, r.SetStripeCustomerID(ctx, conn, 7, "cus_123"))
	got, err = r.FindByStripeCustomerID(ctx, conn, "cus_123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snowflake.ID(7), got.ID)
}
