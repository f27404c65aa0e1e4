package implementation

import (
	"context"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/mapper"
	"fsnb-matcher-be/internal/model"
	"fsnb-matcher-be/internal/repository/contract"
	"fsnb-matcher-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrainingRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TrainingRecordMapper
}

func NewTrainingRecordRepository(db *gorm.DB) contract.TrainingRecordRepository {
	return &TrainingRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewTrainingRecordMapper(),
	}
}

func (r *TrainingRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TrainingRecordRepositoryImpl) CreateBulk(ctx context.Context, records []*entity.TrainingRecord) error {
	models := make([]*model.TrainingRecord, len(records))
	for i, rec := range records {
		models[i] = r.mapper.ToModel(rec)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 500).Error
}

func (r *TrainingRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TrainingRecord, error) {
	var models []*model.TrainingRecord
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TrainingRecord{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TrainingRecordRepositoryImpl) CountBySession(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	var count int64
	err := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.TrainingRecord{}),
		specification.BySessionID{SessionID: sessionId},
	).Count(&count).Error
	return count, err
}
