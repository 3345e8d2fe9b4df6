package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Get(ctx context.Context, id snowflake.ID) (*Account, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
