package contract

import (
	"context"

	"fsnb-matcher-be/internal/entity"
)

// ScoredCatalogItem pairs a catalog item id with its similarity score.
type ScoredCatalogItem struct {
	ItemId     int64
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type CatalogEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.CatalogEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.CatalogEmbedding) error
	Count(ctx context.Context) (int64, error)

	// SearchSimilar returns the top-K nearest catalog items by cosine
	// similarity, highest first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredCatalogItem, error)
}
