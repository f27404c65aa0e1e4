package model

import "time"

// CatalogItem is a priced FSNB reference entry. The review core never
// mutates rows in this table; writes happen in ingestion tooling only.
type CatalogItem struct {
	Id        int64     `gorm:"primaryKey;autoIncrement"`
	Code      string    `gorm:"type:text;uniqueIndex"`
	Name      string    `gorm:"type:text;not null;index"`
	Unit      *string   `gorm:"type:text"`
	Type      string    `gorm:"type:text;not null"` // 'work' | 'resource'
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}
