package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/internal/config"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	sharedomain "github.com/smallbiznis/quill/internal/share/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenBytes = 32

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        sharedomain.Repository
	documents   documentdomain.Repository
	frontendURL string
}

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Config    config.Config
	Repo      sharedomain.Repository
	Documents documentdomain.Repository
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("share.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		documents:   p.Documents,
		frontendURL: strings.TrimRight(p.Config.FrontendURL, "/"),
	}
}

func (s *Service) Create(ctx context.Context, accountID, documentID snowflake.ID, req sharedomain.CreateRequest) (*sharedomain.Link, error) {
	permission, ok := sharedomain.ParsePermission(strings.ToLower(strings.TrimSpace(req.Permission)))
	if !ok {
		return nil, sharedomain.ErrInvalidPermission
	}
	days := req.ExpiresInDays
	if days == 0 {
		days = sharedomain.DefaultExpiryDays
	}
	if days < 0 || days > sharedomain.MaxExpiryDays {
		return nil, sharedomain.ErrInvalidExpiry
	}

	doc, err := s.documents.FindByID(ctx, s.db, accountID, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, sharedomain.ErrDocumentNotFound
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	link := &sharedomain.Link{
		ID:         s.genID.Generate(),
		DocumentID: documentID,
		AccountID:  accountID,
		Token:      token,
		Permission: permission,
		ExpiresAt:  now.Add(time.Duration(days) * 24 * time.Hour),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, link); err != nil {
		return nil, err
	}

	s.log.Info("share link created",
		zap.String("account_id", accountID.String()),
		zap.String("document_id", documentID.String()),
		zap.String("permission", string(permission)),
		zap.Time("expires_at", link.ExpiresAt),
	)
	return s.withURL(link), nil
}

func (s *Service) Resolve(ctx context.Context, token string) (*sharedomain.SharedDocument, error) {
	link, doc, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RecordAccess(ctx, s.db, link.ID, s.clock.Now()); err != nil {
		return nil, err
	}
	return shared(link, doc.Title, doc.Content), nil
}

func (s *Service) List(ctx context.Context, accountID, documentID snowflake.ID) ([]*sharedomain.Link, error) {
	items, err := s.repo.ListActive(ctx, s.db, accountID, documentID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	out := make([]*sharedomain.Link, 0, len(items))
	for _, link := range items {
		out = append(out, s.withURL(link))
	}
	return out, nil
}

func (s *Service) Revoke(ctx context.Context, accountID, linkID snowflake.ID) error {
	deleted, err := s.repo.Delete(ctx, s.db, accountID, linkID)
	if err != nil {
		return err
	}
	if !deleted {
		return sharedomain.ErrNotFound
	}
	return nil
}

func (s *Service) UpdateShared(ctx context.Context, token string, req sharedomain.UpdateSharedRequest) (*sharedomain.SharedDocument, error) {
	link, doc, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if link.Permission != sharedomain.PermissionEdit {
		return nil, sharedomain.ErrReadOnly
	}

	title := doc.Title
	var titlePatch *string
	if req.Title != nil {
		if t := strings.TrimSpace(*req.Title); t != "" {
			title = t
			titlePatch = &t
		}
	}

	if err := s.documents.UpdateContent(ctx, s.db, doc.ID, titlePatch, req.Content, s.clock.Now()); err != nil {
		return nil, err
	}
	return shared(link, title, req.Content), nil
}

// PurgeAccount removes links created by an account being deleted.
func (s *Service) PurgeAccount(ctx context.Context, tx *gorm.DB, accountID snowflake.ID) error {
	return s.repo.DeleteByAccount(ctx, tx, accountID)
}

func (s *Service) resolve(ctx context.Context, token string) (*sharedomain.Link, *documentdomain.Document, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, sharedomain.ErrNotFound
	}
	link, err := s.repo.FindActiveByToken(ctx, s.db, token, s.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	if link == nil {
		return nil, nil, sharedomain.ErrNotFound
	}
	doc, err := s.documents.FindByIDUnscoped(ctx, s.db, link.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, sharedomain.ErrNotFound
	}
	return link, doc, nil
}

func (s *Service) withURL(link *sharedomain.Link) *sharedomain.Link {
	link.ShareURL = fmt.Sprintf("%s/shared/%s", s.frontendURL, link.Token)
	return link
}

func shared(link *sharedomain.Link, title, content string) *sharedomain.SharedDocument {
	return &sharedomain.SharedDocument{
		Document: sharedomain.DocumentView{
			ID:      link.DocumentID,
			Title:   title,
			Content: content,
		},
		Permission: link.Permission,
	}
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
