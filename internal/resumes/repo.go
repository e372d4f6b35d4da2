package resumes

import (
	"context"
	"time"
)

// Repo defines persistence operations for resume analyses.
type Repo interface {
	Create(ctx context.Context, a Analysis) error
	// CreateWithCooldown inserts a unless the user already has an analysis
	// created within cooldown before a.CreatedAt, in which case it returns a
	// *CooldownError. The check and the insert are atomic per user.
	CreateWithCooldown(ctx context.Context, a Analysis, cooldown time.Duration) error
	GetByID(ctx context.Context, id string) (Analysis, error)
	// LatestByUser returns the user's newest analysis or ErrNotFound.
	LatestByUser(ctx context.Context, userID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
	Delete(ctx context.Context, id string) error
}
