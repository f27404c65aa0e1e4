package entity

import (
	"time"

	"github.com/google/uuid"
)

type CatalogItem struct {
	Id   int64
	Code string
	Name string
	Unit *string
	Type string
}

type CatalogEmbedding struct {
	Id             uuid.UUID
	ItemId         int64
	Document       string
	EmbeddingValue []float32
	ModelVersion   string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

// Candidate is one proposed catalog match for an input row. Candidates are
// recomputed per retrieval; they live inside the owning ReviewRow only.
type Candidate struct {
	ItemId int64   `json:"item_id"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Unit   *string `json:"unit"`
	Type   string  `json:"type"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"` // 1-based position within the top-K
}
