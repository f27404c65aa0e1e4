package service

import (
	"fmt"

	"fsnb-matcher-be/internal/entity"
	"fsnb-matcher-be/internal/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

// Report column layout mirrors the estimator's expected VOR shape: source
// columns first, resolved FSNB columns next to them.
var reviewReportHeaders = []string{
	"Caption", "FSNB Name", "FSNB code", "Units", "FSNB Units", "Quantity", "Label",
}

var matchReportHeaders = []string{
	"Caption", "FSNB Name", "FSNB code", "Units", "FSNB Units", "Quantity", "conf",
}

type IReportService interface {
	// BuildSessionReport renders a committed session, one output row per
	// review row in row_idx order. Byte-deterministic for identical input.
	BuildSessionReport(session *entity.ReviewSession, meta map[int64]*entity.CatalogItem) ([]byte, error)

	// BuildMatchReport renders the one-shot match result: the auto-selection
	// (if any) is taken as final, with its confidence score.
	BuildMatchReport(rows []*MatchedRow) ([]byte, error)
}

type reportService struct{}

func NewReportService() IReportService {
	return &reportService{}
}

// pinDocProps fixes the workbook properties so two renders of the same
// content are byte-identical (golden-file friendly).
func pinDocProps(f *excelize.File) error {
	return f.SetDocProps(&excelize.DocProperties{
		Creator:        "fsnb-matcher",
		Created:        "2006-01-02T15:04:05Z",
		Modified:       "2006-01-02T15:04:05Z",
		LastModifiedBy: "fsnb-matcher",
	})
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func (s *reportService) BuildSessionReport(session *entity.ReviewSession, meta map[int64]*entity.CatalogItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := pinDocProps(f); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "report properties", err)
	}

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "VOR"); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "report sheet", err)
	}
	sheet = "VOR"

	writeHeaderRow(f, sheet, reviewReportHeaders)

	for i, row := range session.Rows {
		r := i + 2
		set := func(col int, value interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		var fsnbName, fsnbCode, fsnbUnit string
		if row.SelectedItemId != nil {
			if item, ok := meta[*row.SelectedItemId]; ok {
				fsnbName = item.Name
				fsnbCode = item.Code
				fsnbUnit = derefString(item.Unit)
			}
		}

		set(1, row.Caption)
		set(2, fsnbName)
		set(3, fsnbCode)
		set(4, derefString(row.Units))
		set(5, fsnbUnit)
		set(6, derefString(row.Qty))
		set(7, string(row.Label))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "report rendering failed", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) BuildMatchReport(rows []*MatchedRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := pinDocProps(f); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "report properties", err)
	}

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "Match"); err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "report sheet", err)
	}
	sheet = "Match"

	writeHeaderRow(f, sheet, matchReportHeaders)

	for i, row := range rows {
		r := i + 2
		set := func(col int, value interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		var fsnbName, fsnbCode, fsnbUnit string
		var conf float64
		if row.AutoSelectedItemId != nil {
			// Auto-selection always comes from the candidate list.
			for _, c := range row.Candidates {
				if c.ItemId == *row.AutoSelectedItemId {
					fsnbName = c.Name
					fsnbCode = c.Code
					fsnbUnit = derefString(c.Unit)
					conf = c.Score
					break
				}
			}
		} else if len(row.Candidates) > 0 {
			// Below threshold: leave match columns blank, keep the score
			// visible so the estimator sees why nothing was picked.
			conf = row.Candidates[0].Score
		}

		set(1, row.Caption)
		set(2, fsnbName)
		set(3, fsnbCode)
		set(4, derefString(row.Units))
		set(5, fsnbUnit)
		set(6, derefString(row.Qty))
		set(7, fmt.Sprintf("%.4f", conf))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "report rendering failed", err)
	}
	return buf.Bytes(), nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
