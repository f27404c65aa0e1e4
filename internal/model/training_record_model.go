package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TrainingRecord is an immutable snapshot of one reviewed row, written once
// at commit time. No update or delete path exists in the core; corrections
// arrive as new records in later sessions.
type TrainingRecord struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	SessionSourceName string         `gorm:"type:text;not null"`
	RowIdx            int            `gorm:"not null"`
	Caption           string         `gorm:"type:text;not null"`
	Units             *string        `gorm:"type:text"`
	Qty               *string        `gorm:"type:text"`
	Label             string         `gorm:"type:text;not null;index"`
	SelectedItemId    *int64         `gorm:"index"`
	Negatives         datatypes.JSON `gorm:"type:jsonb"`
	Note              *string        `gorm:"type:text"`
	CreatedBy         string         `gorm:"type:text"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index"`
}

func (TrainingRecord) TableName() string {
	return "training_records"
}
