package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/quill/pkg/repository/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type note struct {
	ID        int64 `gorm:"primaryKey"`
	OwnerID   int64
	Title     string
	CreatedAt time.Time
}

func setupStore(t *testing.T) Repository[note] {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&note{}))
	return ProvideStore[note](db)
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"a", "b", "c"} {
		require.NoError(t, s.Create(ctx, &note{ID: int64(i + 1), OwnerID: 7, Title: title, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	require.NoError(t, s.Create(ctx, &note{ID: 9, OwnerID: 8, Title: "other", CreatedAt: base}))

	found, err := s.Find(ctx, &note{OwnerID: 7}, option.OrderBy("created_at DESC"), option.Limit(2))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "c", found[0].Title)

	missing, err := s.FindOne(ctx, &note{ID: 42})
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.Update(ctx, int64(1), map[string]any{"title": "renamed"}))
	one, err := s.FindOne(ctx, &note{ID: 1})
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "renamed", one.Title)

	count, err := s.Count(ctx, &note{OwnerID: 7}, option.Where("created_at >= ?", base.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, s.Delete(ctx, int64(2)))
	require.NoError(t, s.DeleteWhere(ctx, "owner_id = ?", 8))
	count, err = s.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
