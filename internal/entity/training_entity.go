package entity

import (
	"time"

	"github.com/google/uuid"
)

// TrainingRecord is the immutable committed outcome of one reviewed row.
type TrainingRecord struct {
	Id                uuid.UUID
	SessionId         uuid.UUID
	SessionSourceName string
	RowIdx            int
	Caption           string
	Units             *string
	Qty               *string
	Label             Label
	SelectedItemId    *int64
	Negatives         []int64
	Note              *string
	CreatedBy         string
	CreatedAt         time.Time
}

// NewTrainingRecord snapshots a reviewed row at commit time.
func NewTrainingRecord(session *ReviewSession, row *ReviewRow, createdBy string) *TrainingRecord {
	negatives := make([]int64, len(row.Negatives))
	copy(negatives, row.Negatives)

	return &TrainingRecord{
		Id:                uuid.New(),
		SessionId:         session.Id,
		SessionSourceName: session.SourceName,
		RowIdx:            row.RowIdx,
		Caption:           row.Caption,
		Units:             row.Units,
		Qty:               row.Qty,
		Label:             row.Label,
		SelectedItemId:    row.SelectedItemId,
		Negatives:         negatives,
		Note:              row.Note,
		CreatedBy:         createdBy,
	}
}
