package implementation

import (
	"context"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/mapper"
	"fsnb-matcher-be/internal/model"
	"fsnb-matcher-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogItemMapper
}

func NewCatalogItemRepository(db *gorm.DB) contract.CatalogItemRepository {
	return &CatalogItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogItemMapper(),
	}
}

func (r *CatalogItemRepositoryImpl) Create(ctx context.Context, item *entity.CatalogItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *CatalogItemRepositoryImpl) CreateBulk(ctx context.Context, items []*entity.CatalogItem) error {
	models := make([]*model.CatalogItem, len(items))
	for i, it := range items {
		models[i] = r.mapper.ToModel(it)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 1000).Error; err != nil {
		return err
	}
	for i, m := range models {
		*items[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CatalogItemRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CatalogItem{}).Count(&count).Error
	return count, err
}

func (r *CatalogItemRepositoryImpl) FindByIDs(ctx context.Context, ids []int64) (map[int64]*entity.CatalogItem, error) {
	result := make(map[int64]*entity.CatalogItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []*model.CatalogItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}

	for _, m := range models {
		result[m.Id] = r.mapper.ToEntity(m)
	}
	return result, nil
}

func (r *CatalogItemRepositoryImpl) FindExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var found []int64
	if err := r.db.WithContext(ctx).
		Model(&model.CatalogItem{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

func (r *CatalogItemRepositoryImpl) LexicalSearch(ctx context.Context, query string, limit int) ([]*entity.CatalogItem, error) {
	if limit <= 0 {
		limit = 20
	}

	like := "%" + query + "%"
	var models []*model.CatalogItem

	// Code matches sort above name-only matches, then stable by code, id.
	// gorm drops Order(gorm.Expr(...)); bound ORDER BY needs clause.OrderBy.
	err := r.db.WithContext(ctx).
		Where("code ILIKE ? OR name ILIKE ?", like, like).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN code ILIKE ? THEN 0 ELSE 1 END, code ASC, id ASC",
			Vars: []interface{}{like},
		}}).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
