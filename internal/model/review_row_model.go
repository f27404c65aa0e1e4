package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReviewRow struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index:idx_review_rows_session_row,unique"`
	RowIdx    int       `gorm:"not null;index:idx_review_rows_session_row,unique"`

	Caption string  `gorm:"type:text;not null"`
	Units   *string `gorm:"type:text"`
	Qty     *string `gorm:"type:text"`

	// Candidates holds the most recent retrieval as a JSON array; it is
	// replaced wholesale on re-match, never merged.
	Candidates         datatypes.JSON `gorm:"type:jsonb"`
	AutoSelectedItemId *int64         `gorm:""`
	SelectedItemId     *int64         `gorm:""`
	Label              string         `gorm:"type:text;not null"` // 'gold' | 'negative' | 'none_match'
	Negatives          datatypes.JSON `gorm:"type:jsonb"`
	Note               *string        `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ReviewRow) TableName() string {
	return "review_rows"
}
