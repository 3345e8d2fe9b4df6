package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks
type Projector interface {
	// Apply folds one processor event into the local projection. Replays
	// are harmless. Updates for unknown subscriptions are dropped.
	Apply(ctx context.Context, event Event) error
	// CurrentTier never fails: missing or unreadable state is restricted.
	CurrentTier(ctx context.Context, accountID snowflake.ID) LimitTier
	Current(ctx context.Context, accountID snowflake.ID) (*Projection, error)
	MarkCancelAtPeriodEnd(ctx context.Context, externalID string) error
}

// TrialNotifier is told when a trial is about to end.
type TrialNotifier interface {
	NotifyTrialWillEnd(ctx context.Context, p Projection) error
}

var (
	ErrProjectionNotFound = errors.New("projection_not_found")
	ErrInvalidEvent       = errors.New("invalid_event")
)
