package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	"github.com/smallbiznis/quill/internal/auth"
	"github.com/smallbiznis/quill/internal/auth/password"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    accountdomain.Repository
	tokens  *auth.TokenManager
	purgers []accountdomain.DataPurger
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   accountdomain.Repository
	Tokens *auth.TokenManager

	Purgers []accountdomain.DataPurger `group:"account_purgers"`
}

func NewService(p ServiceParam) accountdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("account.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		tokens:  p.Tokens,
		purgers: p.Purgers,
	}
}

func (s *Service) Register(ctx context.Context, req accountdomain.RegisterRequest) (*accountdomain.AuthResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, accountdomain.ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		return nil, accountdomain.ErrPasswordTooShort
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, accountdomain.ErrEmailTaken
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &accountdomain.Account{
		ID:           s.genID.Generate(),
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hashed,
		CycleAnchor:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, accountdomain.ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("account registered", zap.String("account_id", account.ID.String()))
	return s.issue(*account)
}

func (s *Service) Login(ctx context.Context, req accountdomain.LoginRequest) (*accountdomain.AuthResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil || req.Password == "" {
		return nil, accountdomain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if account == nil || !password.Verify(req.Password, account.PasswordHash) {
		return nil, accountdomain.ErrInvalidCredentials
	}

	return s.issue(*account)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*accountdomain.Account, error) {
	account, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrAccountNotFound
	}
	return account, nil
}

// Delete removes the account and everything other domains hold for it in a
// single transaction.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return accountdomain.ErrAccountNotFound
		}
		for _, purger := range s.purgers {
			if err := purger.PurgeAccount(ctx, tx, id); err != nil {
				return err
			}
		}
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		s.log.Info("account deleted", zap.String("account_id", id.String()))
		return nil
	})
}

func (s *Service) issue(account accountdomain.Account) (*accountdomain.AuthResult, error) {
	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return nil, err
	}
	return &accountdomain.AuthResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Account:   accountdomain.ToProfile(account),
	}, nil
}

func normalizeEmail(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return "", err
	}
	if addr.Address != value {
		return "", accountdomain.ErrInvalidEmail
	}
	return value, nil
}
