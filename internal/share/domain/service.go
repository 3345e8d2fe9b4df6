package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, accountID, documentID snowflake.ID, req CreateRequest) (*Link, error)
	// Resolve counts one access against the link.
	Resolve(ctx context.Context, token string) (*SharedDocument, error)
	List(ctx context.Context, accountID, documentID snowflake.ID) ([]*Link, error)
	Revoke(ctx context.Context, accountID, linkID snowflake.ID) error
	UpdateShared(ctx context.Context, token string, req UpdateSharedRequest) (*SharedDocument, error)
}
