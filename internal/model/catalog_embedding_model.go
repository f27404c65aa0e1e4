package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type CatalogEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemId         int64           `gorm:"not null;uniqueIndex"`
	Document       string          `gorm:"type:text"` // the text that was embedded (name + unit)
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	ModelVersion   string          `gorm:"type:text;index"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (CatalogEmbedding) TableName() string {
	return "catalog_embeddings"
}
