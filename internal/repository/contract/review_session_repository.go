package contract

import (
	"context"
	"time"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ReviewSessionRepository interface {
	// Create persists a session together with its rows.
	Create(ctx context.Context, session *entity.ReviewSession) error

	// FindByID loads a session with its rows ordered by row_idx, or nil if
	// the id is unknown.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewSession, error)

	// FindAll lists session headers without their rows.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReviewSession, error)

	// MarkCommitted flips open -> committed. It must be conditional on the
	// current status being 'open' so a concurrent double-commit loses;
	// returns false when no open session matched.
	MarkCommitted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type ReviewRowRepository interface {
	CreateBulk(ctx context.Context, rows []*entity.ReviewRow) error

	// Update persists the full mutable state of one row.
	Update(ctx context.Context, row *entity.ReviewRow) error
}
