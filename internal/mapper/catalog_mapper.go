package mapper

import (
	"time"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CatalogItemMapper struct{}

func NewCatalogItemMapper() *CatalogItemMapper {
	return &CatalogItemMapper{}
}

func (m *CatalogItemMapper) ToEntity(e *model.CatalogItem) *entity.CatalogItem {
	if e == nil {
		return nil
	}
	return &entity.CatalogItem{
		Id:   e.Id,
		Code: e.Code,
		Name: e.Name,
		Unit: e.Unit,
		Type: e.Type,
	}
}

func (m *CatalogItemMapper) ToModel(e *entity.CatalogItem) *model.CatalogItem {
	if e == nil {
		return nil
	}
	return &model.CatalogItem{
		Id:   e.Id,
		Code: e.Code,
		Name: e.Name,
		Unit: e.Unit,
		Type: e.Type,
	}
}

func (m *CatalogItemMapper) ToEntities(items []*model.CatalogItem) []*entity.CatalogItem {
	entities := make([]*entity.CatalogItem, len(items))
	for i, it := range items {
		entities[i] = m.ToEntity(it)
	}
	return entities
}

type CatalogEmbeddingMapper struct{}

func NewCatalogEmbeddingMapper() *CatalogEmbeddingMapper {
	return &CatalogEmbeddingMapper{}
}

func (m *CatalogEmbeddingMapper) ToEntity(e *model.CatalogEmbedding) *entity.CatalogEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.CatalogEmbedding{
		Id:             e.Id,
		ItemId:         e.ItemId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ModelVersion:   e.ModelVersion,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *CatalogEmbeddingMapper) ToModel(e *entity.CatalogEmbedding) *model.CatalogEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.CatalogEmbedding{
		Id:             e.Id,
		ItemId:         e.ItemId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ModelVersion:   e.ModelVersion,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}
