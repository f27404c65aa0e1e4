package implementation

import (
	"context"
	"errors"
	"time"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/mapper"
	"fsnb-matcher-be/internal/model"
	"fsnb-matcher-be/internal/repository/contract"
	"fsnb-matcher-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewSessionRepositoryImpl struct {
	db        *gorm.DB
	mapper    *mapper.ReviewSessionMapper
	rowMapper *mapper.ReviewRowMapper
}

func NewReviewSessionRepository(db *gorm.DB) contract.ReviewSessionRepository {
	return &ReviewSessionRepositoryImpl{
		db:        db,
		mapper:    mapper.NewReviewSessionMapper(),
		rowMapper: mapper.NewReviewRowMapper(),
	}
}

func (r *ReviewSessionRepositoryImpl) Create(ctx context.Context, session *entity.ReviewSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	if len(session.Rows) > 0 {
		rows := r.rowMapper.ToModels(session.Rows)
		if err := r.db.WithContext(ctx).CreateInBatches(rows, 500).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ReviewSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReviewSessionRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewSession, error) {
	var m model.ReviewSession
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var rows []*model.ReviewRow
	if err := r.applySpecifications(
		r.db.WithContext(ctx),
		specification.BySessionID{SessionID: id},
		specification.OrderBy{Field: "row_idx"},
	).Find(&rows).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntity(&m, rows), nil
}

// FindAll returns session headers only; rows are loaded per session via FindByID.
func (r *ReviewSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReviewSession, error) {
	var models []*model.ReviewSession
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ReviewSession{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.ReviewSession, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.ToEntity(m, nil)
	}
	return sessions, nil
}

// MarkCommitted is a conditional update: only an 'open' session transitions.
// RowsAffected == 0 means the session was already committed (or unknown).
func (r *ReviewSessionRepositoryImpl) MarkCommitted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ReviewSession{}).
		Where("id = ? AND status = ?", id, string(entity.SessionOpen)).
		Updates(map[string]interface{}{
			"status":       string(entity.SessionCommitted),
			"committed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type ReviewRowRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReviewRowMapper
}

func NewReviewRowRepository(db *gorm.DB) contract.ReviewRowRepository {
	return &ReviewRowRepositoryImpl{
		db:     db,
		mapper: mapper.NewReviewRowMapper(),
	}
}

func (r *ReviewRowRepositoryImpl) CreateBulk(ctx context.Context, rows []*entity.ReviewRow) error {
	models := r.mapper.ToModels(rows)
	return r.db.WithContext(ctx).CreateInBatches(models, 500).Error
}

func (r *ReviewRowRepositoryImpl) Update(ctx context.Context, row *entity.ReviewRow) error {
	m := r.mapper.ToModel(row)
	return r.db.WithContext(ctx).Save(m).Error
}
