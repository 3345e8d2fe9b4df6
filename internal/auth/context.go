package auth

import (
	"context"

	"github.com/bwmarrin/snowflake"
	obscontext "github.com/smallbiznis/quill/internal/observability/context"
)

type accountKey struct{}

// WithAccountID stores the authenticated account in ctx and mirrors it into
// the observability context for log correlation.
func WithAccountID(ctx context.Context, accountID snowflake.ID) context.Context {
	ctx = context.WithValue(ctx, accountKey{}, accountID)
	return obscontext.WithAccountID(ctx, accountID.String())
}

func AccountIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(accountKey{}).(snowflake.ID)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
