package implementation

import (
	"context"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/mapper"
	"fsnb-matcher-be/internal/model"
	"fsnb-matcher-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogEmbeddingMapper
}

func NewCatalogEmbeddingRepository(db *gorm.DB) contract.CatalogEmbeddingRepository {
	return &CatalogEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogEmbeddingMapper(),
	}
}

func (r *CatalogEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.CatalogEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *CatalogEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.CatalogEmbedding) error {
	models := make([]*model.CatalogEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, 500).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CatalogEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CatalogEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilar returns item ids ordered by cosine similarity descending,
// ties broken by ascending item id for deterministic candidate ranking.
// pgvector cosine distance is 1 - cosine_similarity.
func (r *CatalogEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredCatalogItem, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		ItemId     int64
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// gorm drops Order(gorm.Expr(...)); bound ORDER BY needs clause.OrderBy.
	// Ordering on the operator itself keeps the HNSW index usable.
	err := r.db.WithContext(ctx).
		Table("catalog_embeddings").
		Select("item_id, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("deleted_at IS NULL").
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding_value <=> ?, item_id ASC",
			Vars: []interface{}{queryVector},
		}}).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredCatalogItem, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredCatalogItem{
			ItemId:     res.ItemId,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
