package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateReviewSessionRequest struct {
	SourceName string             `json:"source_name" validate:"required"`
	Items      []SourceRowRequest `json:"items" validate:"required,min=1,dive"`
}

type ReviewRowResponse struct {
	RowIdx             int                 `json:"row_idx"`
	Caption            string              `json:"caption"`
	Units              *string             `json:"units"`
	Qty                *string             `json:"qty"`
	Candidates         []CandidateResponse `json:"candidates"`
	AutoSelectedItemId *int64              `json:"auto_selected_item_id"`
	SelectedItemId     *int64              `json:"selected_item_id"`
	Label              string              `json:"label"`
	Negatives          []int64             `json:"negatives"`
	Note               *string             `json:"note"`
}

type ReviewSessionResponse struct {
	Id          uuid.UUID           `json:"id"`
	SourceName  string              `json:"source_name"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	CommittedAt *time.Time          `json:"committed_at"`
	Rows        []ReviewRowResponse `json:"rows"`
}

type ReviewSessionSummaryResponse struct {
	Id          uuid.UUID  `json:"id"`
	SourceName  string     `json:"source_name"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	CommittedAt *time.Time `json:"committed_at"`
}

type ListReviewSessionsResponse struct {
	Items []ReviewSessionSummaryResponse `json:"items"`
}

// SelectRowRequest carries the reviewer's pick. A null item_id clears the
// selection ("no match").
type SelectRowRequest struct {
	ItemId *int64 `json:"item_id"`
}

type SetLabelRequest struct {
	Label string `json:"label" validate:"required"`
}

type SetNoteRequest struct {
	Note *string `json:"note"`
}

type SearchCandidatesResponse struct {
	Items []CatalogItemResponse `json:"items"`
}

type RematchRowResponse struct {
	RowIdx     int                 `json:"row_idx"`
	Candidates []CandidateResponse `json:"candidates"`
}
