package contract

import (
	"context"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/repository/specification"

	"github.com/google/uuid"
)

// TrainingRecordRepository is append-only: records are never updated or
// deleted by the core, so reviewer decisions stay reconstructable.
type TrainingRecordRepository interface {
	CreateBulk(ctx context.Context, records []*entity.TrainingRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrainingRecord, error)
	CountBySession(ctx context.Context, sessionId uuid.UUID) (int64, error)
}
