package mapper

import (
	"encoding/json"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/model"

	"gorm.io/datatypes"
)

type TrainingRecordMapper struct{}

func NewTrainingRecordMapper() *TrainingRecordMapper {
	return &TrainingRecordMapper{}
}

func (m *TrainingRecordMapper) ToEntity(e *model.TrainingRecord) *entity.TrainingRecord {
	if e == nil {
		return nil
	}

	var negatives []int64
	if len(e.Negatives) > 0 {
		_ = json.Unmarshal(e.Negatives, &negatives)
	}

	return &entity.TrainingRecord{
		Id:                e.Id,
		SessionId:         e.SessionId,
		SessionSourceName: e.SessionSourceName,
		RowIdx:            e.RowIdx,
		Caption:           e.Caption,
		Units:             e.Units,
		Qty:               e.Qty,
		Label:             entity.Label(e.Label),
		SelectedItemId:    e.SelectedItemId,
		Negatives:         negatives,
		Note:              e.Note,
		CreatedBy:         e.CreatedBy,
		CreatedAt:         e.CreatedAt,
	}
}

func (m *TrainingRecordMapper) ToModel(e *entity.TrainingRecord) *model.TrainingRecord {
	if e == nil {
		return nil
	}

	negatives := e.Negatives
	if negatives == nil {
		negatives = []int64{}
	}
	negativesJson, _ := json.Marshal(negatives)

	return &model.TrainingRecord{
		Id:                e.Id,
		SessionId:         e.SessionId,
		SessionSourceName: e.SessionSourceName,
		RowIdx:            e.RowIdx,
		Caption:           e.Caption,
		Units:             e.Units,
		Qty:               e.Qty,
		Label:             string(e.Label),
		SelectedItemId:    e.SelectedItemId,
		Negatives:         datatypes.JSON(negativesJson),
		Note:              e.Note,
		CreatedBy:         e.CreatedBy,
		CreatedAt:         e.CreatedAt,
	}
}

func (m *TrainingRecordMapper) ToEntities(records []*model.TrainingRecord) []*entity.TrainingRecord {
	entities := make([]*entity.TrainingRecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
