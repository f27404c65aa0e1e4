package dto

import (
	"time"

	"github.com/google/uuid"
)

type NoneMatchRowResponse struct {
	SessionId  uuid.UUID `json:"session_id"`
	SourceName string    `json:"source_name"`
	RowIdx     int       `json:"row_idx"`
	Caption    string    `json:"caption"`
	Units      *string   `json:"units"`
	Qty        *string   `json:"qty"`
	Note       *string   `json:"note"`
	LabeledBy  string    `json:"labeled_by"`
	LabeledAt  time.Time `json:"labeled_at"`
}

type NoneMatchExportResponse struct {
	Items []NoneMatchRowResponse `json:"items"`
}
