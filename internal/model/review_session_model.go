package model

import (
	"time"

	"github.com/google/uuid"
)

type ReviewSession struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SourceName  string     `gorm:"type:text;not null"`
	CreatedBy   string     `gorm:"type:text"`
	Status      string     `gorm:"type:text;not null;index"` // 'open' | 'committed'
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
	CommittedAt *time.Time `gorm:""`
}

func (ReviewSession) TableName() string {
	return "review_sessions"
}
