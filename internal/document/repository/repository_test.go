package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	"github.com/smallbiznis/quill/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&documentdomain.Document{}))
	return conn
}

func newDocument(id, accountID snowflake.ID, title string, created time.Time) *documentdomain.Document {
	return &documentdomain.Document{
		ID:        id,
		AccountID: accountID,
		Title:     title,
		Type:      documentdomain.TypeThesis,
		Status:    documentdomain.StatusDraft,
		AcademicInfo: datatypes.NewJSONType(documentdomain.AcademicInfo{
			CitationStyle: documentdomain.CitationMLA,
			References:    []documentdomain.Reference{{Title: "Being and Time", Year: 1927}},
		}),
		Version:      1,
		LastEditedAt: created,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestInsertAndFindScopedByAccount(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	r := Provide()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, conn, newDocument(1, 10, "Thesis", now)))

	got, err := r.FindByID(ctx, conn, 10, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Thesis", got.Title)
	assert.Nil(t, got.FolderID)
	assert.Equal(t, documentdomain.CitationMLA, got.AcademicInfo.Data().CitationStyle)
	assert.Len(t, got.AcademicInfo.Data().References, 1)

	other, err := r.FindByID(ctx, conn, 11, 1)
	require.NoError(t, err)
	assert.Nil(t, other)

	unscoped, err := r.FindByIDUnscoped(ctx, conn, 1)
	require.NoError(t, err)
	require.NotNil(t, unscoped)
	assert.Equal(t, snowflake.ID(10), unscoped.AccountID)
}

func TestCountCreatedSince(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	r := Provide()
	require.NoError(t, r.Insert(ctx, conn, newDocument(1, 10, "old", time.Date(2024, 2, 28, 23, 59, 0, 0, time.UTC))))
	require.NoError(t, r.Insert(ctx, conn, newDocument(2, 10, "new", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, r.Insert(ctx, conn, newDocument(3, 10, "newer", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, r.Insert(ctx, conn, newDocument(4, 11, "someone else", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))))

	count, err := r.CountCreatedSince(ctx, conn, 10, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListOrdersByLastEdited(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	r := Provide()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, conn, newDocument(1, 10, "a", base)))
	require.NoError(t, r.Insert(ctx, conn, newDocument(2, 10, "b", base.Add(time.Hour))))

	doc, err := r.FindByID(ctx, conn, 10, 1)
	require.NoError(t, err)
	doc.Title = "a2"
	doc.Version++
	doc.LastEditedAt = base.Add(2 * time.Hour)
	doc.UpdatedAt = doc.LastEditedAt
	require.NoError(t, r.Update(ctx, conn, doc))

	items, err := r.List(ctx, conn, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a2", items[0].Title)
	assert.Equal(t, 2, items[0].Version)
	assert.Equal(t, "b", items[1].Title)
}

func TestFolderAssignmentAndDelete(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	r := Provide()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, conn, newDocument(1, 10, "a", now)))

	folderID := snowflake.ID(77)
	ok, err := r.SetFolder(ctx, conn, 10, 1, &folderID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.SetFolder(ctx, conn, 11, 1, nil)
	require.NoError(t, err)
	assert.False(t, ok, "other accounts cannot move the document")

	count, err := r.CountInFolder(ctx, conn, 10, folderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	summaries, err := r.ListSummaries(ctx, conn, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.NotNil(t, summaries[0].FolderID)
	assert.Equal(t, folderID, *summaries[0].FolderID)

	deleted, err := r.Delete(ctx, conn, 11, 1)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, r.DeleteByAccount(ctx, conn, 10))
	got, err := r.FindByID(ctx, conn, 10, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateContentBumpsVersion(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	r := Provide()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, conn, newDocument(1, 10, "a", now)))

	require.NoError(t, r.UpdateContent(ctx, conn, 1, nil, "shared edit", now.Add(time.Minute)))

	got, err := r.FindByIDUnscoped(ctx, conn, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, "shared edit", got.Content)
	assert.Equal(t, 2, got.Version)
}
