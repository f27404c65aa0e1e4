package service

import (
	"context"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/pkg/apperror"
	"fsnb-matcher-be/internal/pkg/logger"
	"fsnb-matcher-be/internal/repository/specification"
	"fsnb-matcher-be/internal/repository/unitofwork"
)

type ITrainingService interface {
	// ExportNoneMatch lists committed rows labeled none_match across all
	// sessions, oldest first. These are the catalog-gap candidates the
	// pricing team reviews for new FSNB entries.
	ExportNoneMatch(ctx context.Context, limit, offset int) ([]*entity.TrainingRecord, error)
}

type trainingService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewTrainingService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ITrainingService {
	return &trainingService{
		uowFactory: uowFactory,
		log:        log,
	}
}

const defaultExportLimit = 500

func (s *trainingService) ExportNoneMatch(ctx context.Context, limit, offset int) ([]*entity.TrainingRecord, error) {
	if limit <= 0 {
		limit = defaultExportLimit
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.TrainingRecordRepository().FindAll(ctx,
		specification.ByLabel{Label: string(entity.LabelNoneMatch)},
		specification.OrderBy{Field: "created_at"},
		specification.OrderBy{Field: "row_idx"},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "training export failed", err)
	}
	return records, nil
}
