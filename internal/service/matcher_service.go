package service

import (
	"context"
	"sort"
	"strings"

	"fsnb-matcher-be/internal/config"
	"fsnb-matcher-be/internal/dto"
	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/pkg/apperror"
	"fsnb-matcher-be/internal/pkg/logger"
	"fsnb-matcher-be/internal/repository/unitofwork"
	"fsnb-matcher-be/pkg/embedding"
)

// MatchedRow is one input row with its retrieval result. AutoSelectedItemId
// is set only when the top candidate clears the confidence threshold.
type MatchedRow struct {
	Caption            string
	Units              *string
	Qty                *string
	Candidates         []entity.Candidate
	AutoSelectedItemId *int64
}

type IMatcherService interface {
	// Match embeds a caption and returns the top-K catalog candidates,
	// ordered by score descending (ties by ascending item id), plus the
	// auto-selection if the confidence policy is met.
	Match(ctx context.Context, caption string) ([]entity.Candidate, *int64, error)

	// MatchRows runs Match for every uploaded row. Rows are independent;
	// one failing row fails the batch before any state is created.
	MatchRows(ctx context.Context, rows []dto.SourceRowRequest) ([]*MatchedRow, error)
}

type matcherService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	cfg               config.MatcherConfig
	log               logger.ILogger
}

func NewMatcherService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	cfg config.MatcherConfig,
	log logger.ILogger,
) IMatcherService {
	return &matcherService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		cfg:               cfg,
		log:               log,
	}
}

func (s *matcherService) Match(ctx context.Context, caption string) ([]entity.Candidate, *int64, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, nil, apperror.New(apperror.CodeInvalidInput, "caption must not be empty")
	}

	vector, err := s.embeddingProvider.Embed(ctx, caption)
	if err != nil {
		return nil, nil, apperror.Wrap(apperror.CodeIndexUnavailable, "embedding service unavailable", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.CatalogEmbeddingRepository().SearchSimilar(ctx, vector, s.cfg.TopK)
	if err != nil {
		return nil, nil, apperror.Wrap(apperror.CodeIndexUnavailable, "catalog index unavailable", err)
	}

	// Deterministic ranking regardless of index plan: score desc, id asc.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].ItemId < scored[j].ItemId
	})

	ids := make([]int64, 0, len(scored))
	for _, sc := range scored {
		ids = append(ids, sc.ItemId)
	}

	meta, err := uow.CatalogItemRepository().FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, apperror.Wrap(apperror.CodeIndexUnavailable, "catalog lookup failed", err)
	}

	candidates := make([]entity.Candidate, 0, len(scored))
	for _, sc := range scored {
		item, ok := meta[sc.ItemId]
		if !ok {
			// Embedding survived its catalog item (ingest race); skip it.
			continue
		}
		candidates = append(candidates, entity.Candidate{
			ItemId: item.Id,
			Code:   item.Code,
			Name:   item.Name,
			Unit:   item.Unit,
			Type:   item.Type,
			Score:  sc.Similarity,
			Rank:   len(candidates) + 1,
		})
	}

	var autoSelected *int64
	if len(candidates) > 0 && candidates[0].Score >= s.cfg.ConfidenceThreshold {
		id := candidates[0].ItemId
		autoSelected = &id
	}

	return candidates, autoSelected, nil
}

func (s *matcherService) MatchRows(ctx context.Context, rows []dto.SourceRowRequest) ([]*MatchedRow, error) {
	if len(rows) == 0 {
		return nil, apperror.New(apperror.CodeEmptyBatch, "batch contains no rows")
	}

	s.log.Info("matcher", "starting match", map[string]interface{}{
		"rows":  len(rows),
		"top_k": s.cfg.TopK,
	})

	matched := make([]*MatchedRow, 0, len(rows))
	for _, row := range rows {
		candidates, autoSelected, err := s.Match(ctx, row.Caption)
		if err != nil {
			return nil, err
		}
		matched = append(matched, &MatchedRow{
			Caption:            strings.TrimSpace(row.Caption),
			Units:              row.Units,
			Qty:                row.Qty,
			Candidates:         candidates,
			AutoSelectedItemId: autoSelected,
		})
	}

	s.log.Info("matcher", "match completed", map[string]interface{}{"rows": len(matched)})
	return matched, nil
}
