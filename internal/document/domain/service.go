package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create is refused with a quota LimitError once the monthly document
	// allowance is used up.
	Create(ctx context.Context, accountID snowflake.ID, req CreateRequest) (*Document, error)
	List(ctx context.Context, accountID snowflake.ID) ([]*Document, error)
	Get(ctx context.Context, accountID, id snowflake.ID) (*Document, error)
	Update(ctx context.Context, accountID, id snowflake.ID, req UpdateRequest) (*Document, error)
	Delete(ctx context.Context, accountID, id snowflake.ID) error
	ExportPDF(ctx context.Context, accountID, id snowflake.ID) (*Export, error)
}
