package unitofwork

import (
	"context"
	"fmt"

	"fsnb-matcher-be/internal/repository/contract"
	"fsnb-matcher-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) CatalogItemRepository() contract.CatalogItemRepository {
	return implementation.NewCatalogItemRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CatalogEmbeddingRepository() contract.CatalogEmbeddingRepository {
	return implementation.NewCatalogEmbeddingRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ReviewSessionRepository() contract.ReviewSessionRepository {
	return implementation.NewReviewSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ReviewRowRepository() contract.ReviewRowRepository {
	return implementation.NewReviewRowRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TrainingRecordRepository() contract.TrainingRecordRepository {
	return implementation.NewTrainingRecordRepository(u.getDB())
}
