package contract

import (
	"context"

	"fsnb-matcher-be/internal/entity"
)

// CatalogItemRepository is the read-side of the priced FSNB catalog. The
// review core only ever reads; Create/CreateBulk exist for ingestion tooling
// and tests.
type CatalogItemRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	CreateBulk(ctx context.Context, items []*entity.CatalogItem) error
	Count(ctx context.Context) (int64, error)

	// FindByIDs fetches item metadata batched, keyed by item id. Missing ids
	// are simply absent from the map.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*entity.CatalogItem, error)

	// FindExistingIDs reports which of the given ids currently exist,
	// serving the commit-time existence check.
	FindExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)

	// LexicalSearch is a free-text ILIKE search over code/name for the
	// reviewer's ad-hoc candidate lookup. Code matches rank first, then
	// stable order by code, id.
	LexicalSearch(ctx context.Context, query string, limit int) ([]*entity.CatalogItem, error)
}
