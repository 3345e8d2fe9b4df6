package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quill/internal/clock"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	documentrepo "github.com/smallbiznis/quill/internal/document/repository"
	folderdomain "github.com/smallbiznis/quill/internal/folder/domain"
	"github.com/smallbiznis/quill/pkg/db"
	"github.com/smallbiznis/quill/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const owner = snowflake.ID(7)

type fixture struct {
	svc  *Service
	db   *gorm.DB
	docs documentdomain.Repository
}

func setup(t *testing.T) fixture {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&folderdomain.Folder{}, &documentdomain.Document{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	docs := documentrepo.Provide()
	svc := NewService(ServiceParam{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clock.NewFakeClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		Folders:   repository.ProvideStore[folderdomain.Folder](conn),
		Documents: docs,
	})
	return fixture{svc: svc, db: conn, docs: docs}
}

func (f fixture) mkdir(t *testing.T, name string, parent *snowflake.ID) *folderdomain.Folder {
	t.Helper()
	folder, err := f.svc.Create(context.Background(), owner, folderdomain.CreateRequest{Name: name, ParentID: parent})
	require.NoError(t, err)
	return folder
}

func (f fixture) addDocument(t *testing.T, id snowflake.ID) {
	t.Helper()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.docs.Insert(context.Background(), f.db, &documentdomain.Document{
		ID:           id,
		AccountID:    owner,
		Title:        "doc",
		Type:         documentdomain.TypeArticle,
		Status:       documentdomain.StatusDraft,
		Version:      1,
		LastEditedAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func TestCreateRequiresOwnedParent(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Create(context.Background(), owner, folderdomain.CreateRequest{Name: " "})
	assert.ErrorIs(t, err, folderdomain.ErrInvalidName)

	missing := snowflake.ID(999)
	_, err = f.svc.Create(context.Background(), owner, folderdomain.CreateRequest{Name: "x", ParentID: &missing})
	assert.ErrorIs(t, err, folderdomain.ErrParentNotFound)

	root := f.mkdir(t, "root", nil)
	_, err = f.svc.Create(context.Background(), owner+1, folderdomain.CreateRequest{Name: "x", ParentID: &root.ID})
	assert.ErrorIs(t, err, folderdomain.ErrParentNotFound)
}

func TestMoveRejectsCycles(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.mkdir(t, "a", nil)
	b := f.mkdir(t, "b", &a.ID)
	c := f.mkdir(t, "c", &b.ID)

	err := f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: a.ID, ItemType: folderdomain.ItemFolder, TargetFolderID: &a.ID})
	assert.ErrorIs(t, err, folderdomain.ErrMoveIntoSelf)

	err = f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: a.ID, ItemType: folderdomain.ItemFolder, TargetFolderID: &c.ID})
	assert.ErrorIs(t, err, folderdomain.ErrMoveIntoSelf)

	require.NoError(t, f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: c.ID, ItemType: folderdomain.ItemFolder}))
	require.NoError(t, f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: a.ID, ItemType: folderdomain.ItemFolder, TargetFolderID: &c.ID}))

	tree, err := f.svc.Structure(ctx, owner)
	require.NoError(t, err)
	parents := map[snowflake.ID]*snowflake.ID{}
	for _, folder := range tree.Folders {
		parents[folder.ID] = folder.ParentID
	}
	assert.Nil(t, parents[c.ID])
	require.NotNil(t, parents[a.ID])
	assert.Equal(t, c.ID, *parents[a.ID])
}

func TestMoveDocument(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	folder := f.mkdir(t, "drafts", nil)
	f.addDocument(t, 100)

	require.NoError(t, f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: 100, ItemType: folderdomain.ItemDocument, TargetFolderID: &folder.ID}))

	tree, err := f.svc.Structure(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tree.Documents, 1)
	require.NotNil(t, tree.Documents[0].FolderID)
	assert.Equal(t, folder.ID, *tree.Documents[0].FolderID)

	err = f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: 101, ItemType: folderdomain.ItemDocument})
	assert.ErrorIs(t, err, folderdomain.ErrItemNotFound)

	err = f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: 100, ItemType: "tag"})
	assert.ErrorIs(t, err, folderdomain.ErrInvalidItemType)
}

func TestDeleteRefusesNonEmpty(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	parent := f.mkdir(t, "parent", nil)
	child := f.mkdir(t, "child", &parent.ID)

	assert.ErrorIs(t, f.svc.Delete(ctx, owner, parent.ID), folderdomain.ErrFolderHasChildren)

	f.addDocument(t, 100)
	require.NoError(t, f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: 100, ItemType: folderdomain.ItemDocument, TargetFolderID: &child.ID}))
	assert.ErrorIs(t, f.svc.Delete(ctx, owner, child.ID), folderdomain.ErrFolderNotEmpty)

	require.NoError(t, f.svc.Move(ctx, owner, folderdomain.MoveRequest{ItemID: 100, ItemType: folderdomain.ItemDocument}))
	require.NoError(t, f.svc.Delete(ctx, owner, child.ID))
	require.NoError(t, f.svc.Delete(ctx, owner, parent.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, owner, parent.ID), folderdomain.ErrNotFound)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	folder := f.mkdir(t, "old", nil)

	renamed, err := f.svc.Rename(ctx, owner, folder.ID, "  new ")
	require.NoError(t, err)
	assert.Equal(t, "new", renamed.Name)

	_, err = f.svc.Rename(ctx, owner+1, folder.ID, "stolen")
	assert.ErrorIs(t, err, folderdomain.ErrNotFound)
}

func TestPurgeAccount(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.mkdir(t, "a", nil)

	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.svc.PurgeAccount(ctx, tx, owner)
	}))
	tree, err := f.svc.Structure(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, tree.Folders)
}
