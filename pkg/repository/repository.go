package repository

import (
	"context"

	"github.com/smallbiznis/quill/pkg/repository/option"
	"gorm.io/gorm"
)

// Repository is a generic CRUD store over a single GORM model. Zero-valued
// fields of the query struct are ignored when filtering.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID any, fields map[string]any) error
	Delete(ctx context.Context, resourceID any) error
	DeleteWhere(ctx context.Context, query string, args ...any) error
	Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)
}
