package unitofwork

import (
	"context"

	"fsnb-matcher-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CatalogItemRepository() contract.CatalogItemRepository
	CatalogEmbeddingRepository() contract.CatalogEmbeddingRepository
	ReviewSessionRepository() contract.ReviewSessionRepository
	ReviewRowRepository() contract.ReviewRowRepository
	TrainingRecordRepository() contract.TrainingRecordRepository
}
