package handlers

import (
	"context"
	"time"

	apperrors "github.com/austcse/carnival-backend/errors"
	"github.com/austcse/carnival-backend/types"
)

// ContactServiceInterface defines the contact pipeline methods needed by handlers
type ContactServiceInterface interface {
	Admit(ctx context.Context, clientID string) error
	Reject(fields []apperrors.FieldError) error
	Deliver(ctx context.Context, req types.ContactRequest, clientID string) error
	Rules() types.ContactRules
}

// SegmentCatalog defines the catalog lookups needed by handlers
type SegmentCatalog interface {
	All() []types.EventSegment
	ByID(id string) (types.EventSegment, bool)
	Find(f types.SegmentFilter) []types.EventSegment
	Upcoming(now time.Time) []types.EventSegment
	Related(id string) ([]types.EventSegment, bool)
	Categories() []string
}

// HealthServiceInterface defines the health checks needed by handlers
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) types.HealthCheck
	IsReady() bool
}
