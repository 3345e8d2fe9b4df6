package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quill/internal/clock"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	folderdomain "github.com/smallbiznis/quill/internal/folder/domain"
	"github.com/smallbiznis/quill/pkg/repository"
	"github.com/smallbiznis/quill/pkg/repository/option"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	folders   repository.Repository[folderdomain.Folder]
	documents documentdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Folders   repository.Repository[folderdomain.Folder]
	Documents documentdomain.Repository
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("folder.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		folders:   p.Folders,
		documents: p.Documents,
	}
}

func (s *Service) Create(ctx context.Context, accountID snowflake.ID, req folderdomain.CreateRequest) (*folderdomain.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, folderdomain.ErrInvalidName
	}

	if req.ParentID != nil {
		parent, err := s.find(ctx, accountID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, folderdomain.ErrParentNotFound
		}
	}

	now := s.clock.Now()
	folder := &folderdomain.Folder{
		ID:        s.genID.Generate(),
		AccountID: accountID,
		ParentID:  req.ParentID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *Service) Structure(ctx context.Context, accountID snowflake.ID) (*folderdomain.Structure, error) {
	folders, err := s.folders.Find(ctx,
		&folderdomain.Folder{AccountID: accountID},
		option.OrderBy("position ASC, name ASC"),
	)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListSummaries(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}

	out := &folderdomain.Structure{Folders: folders, Documents: docs}
	if out.Folders == nil {
		out.Folders = []*folderdomain.Folder{}
	}
	if out.Documents == nil {
		out.Documents = []documentdomain.Summary{}
	}
	return out, nil
}

func (s *Service) Move(ctx context.Context, accountID snowflake.ID, req folderdomain.MoveRequest) error {
	if req.TargetFolderID != nil {
		target, err := s.find(ctx, accountID, *req.TargetFolderID)
		if err != nil {
			return err
		}
		if target == nil {
			return folderdomain.ErrTargetNotFound
		}
	}

	switch req.ItemType {
	case folderdomain.ItemDocument:
		moved, err := s.documents.SetFolder(ctx, s.db, accountID, req.ItemID, req.TargetFolderID)
		if err != nil {
			return err
		}
		if !moved {
			return folderdomain.ErrItemNotFound
		}
		return nil
	case folderdomain.ItemFolder:
		return s.moveFolder(ctx, accountID, req.ItemID, req.TargetFolderID)
	default:
		return folderdomain.ErrInvalidItemType
	}
}

func (s *Service) moveFolder(ctx context.Context, accountID, id snowflake.ID, target *snowflake.ID) error {
	folders, err := s.folders.Find(ctx, &folderdomain.Folder{AccountID: accountID})
	if err != nil {
		return err
	}
	parents := make(map[snowflake.ID]*snowflake.ID, len(folders))
	for _, f := range folders {
		parents[f.ID] = f.ParentID
	}
	if _, ok := parents[id]; !ok {
		return folderdomain.ErrItemNotFound
	}

	// Walk up from the target; reaching the moved folder means the target
	// is the folder itself or one of its descendants.
	for cur, steps := target, 0; cur != nil && steps <= len(parents); cur, steps = parents[*cur], steps+1 {
		if *cur == id {
			return folderdomain.ErrMoveIntoSelf
		}
	}

	return s.folders.Update(ctx, id, map[string]any{
		"parent_id":  nullableID(target),
		"updated_at": s.clock.Now(),
	})
}

func (s *Service) Rename(ctx context.Context, accountID, id snowflake.ID, name string) (*folderdomain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, folderdomain.ErrInvalidName
	}

	folder, err := s.find(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, folderdomain.ErrNotFound
	}

	now := s.clock.Now()
	if err := s.folders.Update(ctx, id, map[string]any{"name": name, "updated_at": now}); err != nil {
		return nil, err
	}
	folder.Name = name
	folder.UpdatedAt = now
	return folder, nil
}

func (s *Service) Delete(ctx context.Context, accountID, id snowflake.ID) error {
	folder, err := s.find(ctx, accountID, id)
	if err != nil {
		return err
	}
	if folder == nil {
		return folderdomain.ErrNotFound
	}

	docs, err := s.documents.CountInFolder(ctx, s.db, accountID, id)
	if err != nil {
		return err
	}
	if docs > 0 {
		return folderdomain.ErrFolderNotEmpty
	}

	children, err := s.folders.Count(ctx,
		&folderdomain.Folder{AccountID: accountID},
		option.Where("parent_id = ?", id),
	)
	if err != nil {
		return err
	}
	if children > 0 {
		return folderdomain.ErrFolderHasChildren
	}

	return s.folders.Delete(ctx, id)
}

// PurgeAccount removes every folder of an account being deleted.
func (s *Service) PurgeAccount(ctx context.Context, tx *gorm.DB, accountID snowflake.ID) error {
	return s.folders.WithTrx(tx).DeleteWhere(ctx, "account_id = ?", accountID)
}

func (s *Service) find(ctx context.Context, accountID, id snowflake.ID) (*folderdomain.Folder, error) {
	return s.folders.FindOne(ctx, &folderdomain.Folder{ID: id, AccountID: accountID})
}

func nullableID(id *snowflake.ID) any {
	if id == nil {
		return nil
	}
	return *id
}
