package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quill/internal/clock"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	"github.com/smallbiznis/quill/internal/providers/pdf"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  documentdomain.Repository
	quota quotadomain.Tracker
	pdf   pdf.Provider
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  documentdomain.Repository
	Quota quotadomain.Tracker
	PDF   pdf.Provider
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("document.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		quota: p.Quota,
		pdf:   p.PDF,
	}
}

func (s *Service) Create(ctx context.Context, accountID snowflake.ID, req documentdomain.CreateRequest) (*documentdomain.Document, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, documentdomain.ErrInvalidTitle
	}
	docType, ok := documentdomain.ParseType(strings.TrimSpace(req.Type))
	if !ok {
		return nil, documentdomain.ErrInvalidType
	}
	info, err := academicInfoFor(docType, req.AcademicInfo)
	if err != nil {
		return nil, err
	}

	if err := s.quota.Require(ctx, accountID, quotadomain.ResourceDocument); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	doc := &documentdomain.Document{
		ID:           s.genID.Generate(),
		AccountID:    accountID,
		Title:        title,
		Content:      req.Content,
		Type:         docType,
		Status:       documentdomain.StatusDraft,
		AcademicInfo: datatypes.NewJSONType(info),
		Version:      1,
		LastEditedAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, doc); err != nil {
		return nil, err
	}

	s.log.Info("document created",
		zap.String("account_id", accountID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("type", string(docType)),
	)
	return doc, nil
}

// academicInfoFor validates the citation style. Academic types must name
// one; other types fall back to APA.
func academicInfoFor(docType documentdomain.Type, in *documentdomain.AcademicInfo) (documentdomain.AcademicInfo, error) {
	info := documentdomain.AcademicInfo{CitationStyle: documentdomain.CitationAPA, References: []documentdomain.Reference{}}
	if in != nil {
		if in.CitationStyle != "" {
			info.CitationStyle = documentdomain.CitationStyle(strings.ToLower(string(in.CitationStyle)))
		}
		if in.References != nil {
			info.References = in.References
		}
	}
	if docType.Academic() && (in == nil || in.CitationStyle == "") {
		return info, documentdomain.ErrCitationStyleRequired
	}
	if !info.CitationStyle.Valid() {
		return info, documentdomain.ErrInvalidCitationStyle
	}
	return info, nil
}

func (s *Service) List(ctx context.Context, accountID snowflake.ID) ([]*documentdomain.Document, error) {
	items, err := s.repo.List(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*documentdomain.Document{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, accountID, id snowflake.ID) (*documentdomain.Document, error) {
	doc, err := s.repo.FindByID(ctx, s.db, accountID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentdomain.ErrNotFound
	}
	return doc, nil
}

func (s *Service) Update(ctx context.Context, accountID, id snowflake.ID, req documentdomain.UpdateRequest) (*documentdomain.Document, error) {
	doc, err := s.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, documentdomain.ErrInvalidTitle
		}
		doc.Title = title
	}
	if req.Content != nil {
		doc.Content = *req.Content
	}
	if doc.Type.Academic() && req.AcademicInfo != nil {
		merged := doc.AcademicInfo.Data()
		if req.AcademicInfo.CitationStyle != "" {
			style := documentdomain.CitationStyle(strings.ToLower(string(req.AcademicInfo.CitationStyle)))
			if !style.Valid() {
				return nil, documentdomain.ErrInvalidCitationStyle
			}
			merged.CitationStyle = style
		}
		if req.AcademicInfo.References != nil {
			merged.References = req.AcademicInfo.References
		}
		doc.AcademicInfo = datatypes.NewJSONType(merged)
	}

	now := s.clock.Now()
	doc.Version++
	doc.LastEditedAt = now
	doc.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Delete(ctx context.Context, accountID, id snowflake.ID) error {
	deleted, err := s.repo.Delete(ctx, s.db, accountID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return documentdomain.ErrNotFound
	}
	return nil
}

// PurgeAccount removes every document of an account being deleted.
func (s *Service) PurgeAccount(ctx context.Context, tx *gorm.DB, accountID snowflake.ID) error {
	return s.repo.DeleteByAccount(ctx, tx, accountID)
}
