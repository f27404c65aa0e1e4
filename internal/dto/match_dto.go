package dto

// SourceRowRequest is one raw estimator line as uploaded. Qty is passed
// through untouched; the core does not validate it numerically.
type SourceRowRequest struct {
	Caption string  `json:"caption" validate:"required"`
	Units   *string `json:"units"`
	Qty     *string `json:"qty"`
}

type MatchBatchRequest struct {
	SourceName string             `json:"source_name"`
	Items      []SourceRowRequest `json:"items" validate:"required,min=1,dive"`
}

type CandidateResponse struct {
	ItemId int64   `json:"item_id"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Unit   *string `json:"unit"`
	Type   string  `json:"type"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
}

type MatchRowResponse struct {
	Caption            string              `json:"caption"`
	Units              *string             `json:"units"`
	Qty                *string             `json:"qty"`
	Candidates         []CandidateResponse `json:"candidates"`
	AutoSelectedItemId *int64              `json:"auto_selected_item_id"`
}

type MatchBatchResponse struct {
	Items []MatchRowResponse `json:"items"`
}

type CatalogItemResponse struct {
	Id   int64   `json:"id"`
	Code string  `json:"code"`
	Name string  `json:"name"`
	Unit *string `json:"unit"`
	Type string  `json:"type"`
}
