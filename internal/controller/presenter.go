package controller

import (
	"fsnb-matcher-be/internal/dto"
	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/service"
)

func toCandidateResponses(candidates []entity.Candidate) []dto.CandidateResponse {
	out := make([]dto.CandidateResponse, len(candidates))
	for i, c := range candidates {
		out[i] = dto.CandidateResponse{
			ItemId: c.ItemId,
			Code:   c.Code,
			Name:   c.Name,
			Unit:   c.Unit,
			Type:   c.Type,
			Score:  c.Score,
			Rank:   c.Rank,
		}
	}
	return out
}

func toMatchRowResponse(row *service.MatchedRow) dto.MatchRowResponse {
	return dto.MatchRowResponse{
		Caption:            row.Caption,
		Units:              row.Units,
		Qty:                row.Qty,
		Candidates:         toCandidateResponses(row.Candidates),
		AutoSelectedItemId: row.AutoSelectedItemId,
	}
}

func toReviewRowResponse(row *entity.ReviewRow) dto.ReviewRowResponse {
	negatives := row.Negatives
	if negatives == nil {
		negatives = []int64{}
	}
	return dto.ReviewRowResponse{
		RowIdx:             row.RowIdx,
		Caption:            row.Caption,
		Units:              row.Units,
		Qty:                row.Qty,
		Candidates:         toCandidateResponses(row.Candidates),
		AutoSelectedItemId: row.AutoSelectedItemId,
		SelectedItemId:     row.SelectedItemId,
		Label:              string(row.Label),
		Negatives:          negatives,
		Note:               row.Note,
	}
}

func toSessionResponse(session *entity.ReviewSession) dto.ReviewSessionResponse {
	rows := make([]dto.ReviewRowResponse, len(session.Rows))
	for i, r := range session.Rows {
		rows[i] = toReviewRowResponse(r)
	}
	return dto.ReviewSessionResponse{
		Id:          session.Id,
		SourceName:  session.SourceName,
		Status:      string(session.Status),
		CreatedAt:   session.CreatedAt,
		CommittedAt: session.CommittedAt,
		Rows:        rows,
	}
}

func toSessionSummaryResponses(sessions []*entity.ReviewSession) []dto.ReviewSessionSummaryResponse {
	out := make([]dto.ReviewSessionSummaryResponse, len(sessions))
	for i, s := range sessions {
		out[i] = dto.ReviewSessionSummaryResponse{
			Id:          s.Id,
			SourceName:  s.SourceName,
			Status:      string(s.Status),
			CreatedBy:   s.CreatedBy,
			CreatedAt:   s.CreatedAt,
			CommittedAt: s.CommittedAt,
		}
	}
	return out
}

func toCatalogItemResponses(items []*entity.CatalogItem) []dto.CatalogItemResponse {
	out := make([]dto.CatalogItemResponse, len(items))
	for i, item := range items {
		out[i] = dto.CatalogItemResponse{
			Id:   item.Id,
			Code: item.Code,
			Name: item.Name,
			Unit: item.Unit,
			Type: item.Type,
		}
	}
	return out
}

func toNoneMatchResponses(records []*entity.TrainingRecord) []dto.NoneMatchRowResponse {
	out := make([]dto.NoneMatchRowResponse, len(records))
	for i, rec := range records {
		out[i] = dto.NoneMatchRowResponse{
			SessionId:  rec.SessionId,
			SourceName: rec.SessionSourceName,
			RowIdx:     rec.RowIdx,
			Caption:    rec.Caption,
			Units:      rec.Units,
			Qty:        rec.Qty,
			Note:       rec.Note,
			LabeledBy:  rec.CreatedBy,
			LabeledAt:  rec.CreatedAt,
		}
	}
	return out
}
