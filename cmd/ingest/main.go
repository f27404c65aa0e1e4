package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"fsnb-matcher-be/internal/config"
	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/repository/unitofwork"
	"fsnb-matcher-be/pkg/database"
	"fsnb-matcher-be/pkg/embedding"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// catalogRow mirrors the FSNB export format: one priced entry per element.
type catalogRow struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Unit *string `json:"unit"`
	Type string  `json:"type"`
}

const embedBatchSize = 100

func main() {
	if len(os.Args) < 2 {
		color.Red("Usage: ingest <catalog.json>")
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var provider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
	} else {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Error: Failed to read catalog file: %v", err)
	}

	var rows []catalogRow
	if err := json.Unmarshal(data, &rows); err != nil {
		log.Fatalf("Error: Failed to parse catalog file: %v", err)
	}
	color.Cyan("Ingesting %d catalog entries (model %s)...", len(rows), provider.ModelVersion())

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	items := make([]*entity.CatalogItem, len(rows))
	for i, row := range rows {
		items[i] = &entity.CatalogItem{
			Code: row.Code,
			Name: row.Name,
			Unit: row.Unit,
			Type: row.Type,
		}
	}
	if err := uow.CatalogItemRepository().CreateBulk(ctx, items); err != nil {
		log.Fatalf("Error: Failed to insert catalog items: %v", err)
	}

	// Embed in batches so one flaky call doesn't discard an hour of work.
	embeddings := make([]*entity.CatalogEmbedding, 0, embedBatchSize)
	flush := func() {
		if len(embeddings) == 0 {
			return
		}
		if err := uow.CatalogEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
			log.Fatalf("Error: Failed to insert embeddings: %v", err)
		}
		embeddings = embeddings[:0]
	}

	start := time.Now()
	for i, item := range items {
		doc := item.Name
		if item.Unit != nil && *item.Unit != "" {
			doc = doc + ", " + *item.Unit
		}

		vector, err := provider.Embed(ctx, doc)
		if err != nil {
			log.Fatalf("Error: Failed to embed item %s: %v", item.Code, err)
		}

		embeddings = append(embeddings, &entity.CatalogEmbedding{
			Id:             uuid.New(),
			ItemId:         item.Id,
			Document:       doc,
			EmbeddingValue: vector,
			ModelVersion:   provider.ModelVersion(),
		})
		if len(embeddings) >= embedBatchSize {
			flush()
			color.Cyan("  %d/%d embedded (%s elapsed)", i+1, len(items), time.Since(start).Round(time.Second))
		}
	}
	flush()

	total, _ := uow.CatalogEmbeddingRepository().Count(ctx)
	color.Green("✅ Ingest completed: %d items, %d embeddings total", len(items), total)
}
