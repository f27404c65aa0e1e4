package service

import (
	"bytes"
	"testing"
	"time"

	"fsnb-matcher-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func reportFixtureSession() (*entity.ReviewSession, map[int64]*entity.CatalogItem) {
	meta := map[int64]*entity.CatalogItem{
		1: catalogItem(1, "01-01-001", "Разработка грунта", "м3"),
	}

	session := &entity.ReviewSession{
		Id:         uuid.New(),
		SourceName: "smeta_2024.xlsx",
		Status:     entity.SessionCommitted,
		Rows: []*entity.ReviewRow{
			{
				RowIdx:         0,
				Caption:        "Разработка грунта",
				Units:          strPtr("м3"),
				Qty:            strPtr("100"),
				SelectedItemId: idPtr(1),
				Label:          entity.LabelGold,
			},
			{
				RowIdx:  1,
				Caption: "Прочие работы",
				Qty:     strPtr("1"),
				Label:   entity.LabelNoneMatch,
			},
		},
	}
	return session, meta
}

func cellValue(t *testing.T, data []byte, sheet, cell string) string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func TestBuildSessionReport(t *testing.T) {
	svc := NewReportService()
	session, meta := reportFixtureSession()

	data, err := svc.BuildSessionReport(session, meta)
	require.NoError(t, err)

	t.Run("header row", func(t *testing.T) {
		assert.Equal(t, "Caption", cellValue(t, data, "VOR", "A1"))
		assert.Equal(t, "FSNB Name", cellValue(t, data, "VOR", "B1"))
		assert.Equal(t, "FSNB code", cellValue(t, data, "VOR", "C1"))
		assert.Equal(t, "Units", cellValue(t, data, "VOR", "D1"))
		assert.Equal(t, "FSNB Units", cellValue(t, data, "VOR", "E1"))
		assert.Equal(t, "Quantity", cellValue(t, data, "VOR", "F1"))
		assert.Equal(t, "Label", cellValue(t, data, "VOR", "G1"))
	})

	t.Run("matched row carries catalog fields", func(t *testing.T) {
		assert.Equal(t, "Разработка грунта", cellValue(t, data, "VOR", "A2"))
		assert.Equal(t, "Разработка грунта", cellValue(t, data, "VOR", "B2"))
		assert.Equal(t, "01-01-001", cellValue(t, data, "VOR", "C2"))
		assert.Equal(t, "м3", cellValue(t, data, "VOR", "E2"))
		assert.Equal(t, "100", cellValue(t, data, "VOR", "F2"))
		assert.Equal(t, "gold", cellValue(t, data, "VOR", "G2"))
	})

	t.Run("none_match row leaves catalog columns blank", func(t *testing.T) {
		assert.Equal(t, "Прочие работы", cellValue(t, data, "VOR", "A3"))
		assert.Equal(t, "", cellValue(t, data, "VOR", "B3"))
		assert.Equal(t, "", cellValue(t, data, "VOR", "C3"))
		assert.Equal(t, "", cellValue(t, data, "VOR", "E3"))
		assert.Equal(t, "none_match", cellValue(t, data, "VOR", "G3"))
	})

	t.Run("rendering is byte-deterministic", func(t *testing.T) {
		time.Sleep(1100 * time.Millisecond) // cross a timestamp second boundary
		again, err := svc.BuildSessionReport(session, meta)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, again), "identical input must render identical bytes")
	})
}

func TestBuildMatchReport(t *testing.T) {
	svc := NewReportService()

	rows := []*MatchedRow{
		{
			Caption: "Разработка грунта",
			Units:   strPtr("м3"),
			Qty:     strPtr("100"),
			Candidates: []entity.Candidate{
				{ItemId: 1, Code: "01-01-001", Name: "Разработка грунта", Unit: strPtr("м3"), Score: 0.91, Rank: 1},
			},
			AutoSelectedItemId: idPtr(1),
		},
		{
			Caption: "Прочие работы",
			Candidates: []entity.Candidate{
				{ItemId: 3, Code: "02-01-001", Name: "Устройство бетонной подготовки", Score: 0.41, Rank: 1},
			},
		},
	}

	data, err := svc.BuildMatchReport(rows)
	require.NoError(t, err)

	assert.Equal(t, "conf", cellValue(t, data, "Match", "G1"))

	// Confident row: catalog columns filled, score shown.
	assert.Equal(t, "01-01-001", cellValue(t, data, "Match", "C2"))
	assert.Equal(t, "0.9100", cellValue(t, data, "Match", "G2"))

	// Below threshold: columns blank, top score still visible.
	assert.Equal(t, "", cellValue(t, data, "Match", "C3"))
	assert.Equal(t, "0.4100", cellValue(t, data, "Match", "G3"))
}
