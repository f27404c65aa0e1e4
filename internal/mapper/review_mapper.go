package mapper

import (
	"encoding/json"
	"time"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/model"

	"gorm.io/datatypes"
)

type ReviewSessionMapper struct{}

func NewReviewSessionMapper() *ReviewSessionMapper {
	return &ReviewSessionMapper{}
}

func (m *ReviewSessionMapper) ToEntity(e *model.ReviewSession, rows []*model.ReviewRow) *entity.ReviewSession {
	if e == nil {
		return nil
	}

	rowMapper := NewReviewRowMapper()
	rowEntities := make([]*entity.ReviewRow, len(rows))
	for i, r := range rows {
		rowEntities[i] = rowMapper.ToEntity(r)
	}

	return &entity.ReviewSession{
		Id:          e.Id,
		SourceName:  e.SourceName,
		CreatedBy:   e.CreatedBy,
		Status:      entity.SessionStatus(e.Status),
		Rows:        rowEntities,
		CreatedAt:   e.CreatedAt,
		CommittedAt: e.CommittedAt,
	}
}

func (m *ReviewSessionMapper) ToModel(e *entity.ReviewSession) *model.ReviewSession {
	if e == nil {
		return nil
	}
	return &model.ReviewSession{
		Id:          e.Id,
		SourceName:  e.SourceName,
		CreatedBy:   e.CreatedBy,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		CommittedAt: e.CommittedAt,
	}
}

type ReviewRowMapper struct{}

func NewReviewRowMapper() *ReviewRowMapper {
	return &ReviewRowMapper{}
}

func (m *ReviewRowMapper) ToEntity(e *model.ReviewRow) *entity.ReviewRow {
	if e == nil {
		return nil
	}

	var candidates []entity.Candidate
	if len(e.Candidates) > 0 {
		// A corrupt JSON column would zero the candidate list; selection
		// state is not affected, so that is the safer failure.
		_ = json.Unmarshal(e.Candidates, &candidates)
	}

	var negatives []int64
	if len(e.Negatives) > 0 {
		_ = json.Unmarshal(e.Negatives, &negatives)
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ReviewRow{
		Id:                 e.Id,
		SessionId:          e.SessionId,
		RowIdx:             e.RowIdx,
		Caption:            e.Caption,
		Units:              e.Units,
		Qty:                e.Qty,
		Candidates:         candidates,
		AutoSelectedItemId: e.AutoSelectedItemId,
		SelectedItemId:     e.SelectedItemId,
		Label:              entity.Label(e.Label),
		Negatives:          negatives,
		Note:               e.Note,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *ReviewRowMapper) ToModel(e *entity.ReviewRow) *model.ReviewRow {
	if e == nil {
		return nil
	}

	candidates, _ := json.Marshal(e.Candidates)
	negatives := e.Negatives
	if negatives == nil {
		negatives = []int64{}
	}
	negativesJson, _ := json.Marshal(negatives)

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ReviewRow{
		Id:                 e.Id,
		SessionId:          e.SessionId,
		RowIdx:             e.RowIdx,
		Caption:            e.Caption,
		Units:              e.Units,
		Qty:                e.Qty,
		Candidates:         datatypes.JSON(candidates),
		AutoSelectedItemId: e.AutoSelectedItemId,
		SelectedItemId:     e.SelectedItemId,
		Label:              string(e.Label),
		Negatives:          datatypes.JSON(negativesJson),
		Note:               e.Note,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *ReviewRowMapper) ToModels(rows []*entity.ReviewRow) []*model.ReviewRow {
	models := make([]*model.ReviewRow, len(rows))
	for i, r := range rows {
		models[i] = m.ToModel(r)
	}
	return models
}
