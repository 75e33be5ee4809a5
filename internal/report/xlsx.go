// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ozgen/wopi-validator/internal/model"
)

const (
	xlsxSheetNameFormat = "Run_%s"
	xlsxTimeFormat      = "2006-01-02_15-04-05"
	xlsxMinColumn       = 'A'
	xlsxMaxColumn       = 'F'
	xlsxColumnWidth     = 24

	xlsxFailFill    = "FF5900"
	xlsxSkippedFill = "FFEB9C"
)

var xlsxHeaders = []string{"Group", "Case", "Category", "Status", "Duration(ms)", "Detail"}

// ExportXLSX writes one worksheet per invocation to path, grounded on
// tianhaocui-Epi/internal/reporter's "sheet per run, styled failure
// rows" idiom: a new timestamped sheet is appended to path if it
// already exists, so successive runs accumulate history in one
// workbook. Skipped rows get an amber fill alongside the red Fail
// fill.
func ExportXLSX(path string, results []model.CaseResult, runID string, now time.Time) error {
	f := openOrCreate(path)
	defer f.Close()

	sheetName := fmt.Sprintf(xlsxSheetNameFormat, now.Format(xlsxTimeFormat))
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("report: create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col := xlsxMinColumn; col <= xlsxMaxColumn; col++ {
		colName := string(col)
		f.SetColWidth(sheetName, colName, colName, xlsxColumnWidth)
	}

	for i, header := range xlsxHeaders {
		cell := fmt.Sprintf("%c1", xlsxMinColumn+rune(i))
		f.SetCellValue(sheetName, cell, header)
	}

	failStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{xlsxFailFill}},
	})
	if err != nil {
		return fmt.Errorf("report: build fail style: %w", err)
	}
	skippedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{xlsxSkippedFill}},
	})
	if err != nil {
		return fmt.Errorf("report: build skipped style: %w", err)
	}

	for i, r := range results {
		row := i + 2
		writeCaseRow(f, sheetName, row, r, failStyle, skippedStyle)
	}

	writeSummaryFooter(f, sheetName, len(results)+3, Aggregate(results), runID)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save xlsx: %w", err)
	}
	return nil
}

func openOrCreate(path string) *excelize.File {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f
	}
	return excelize.NewFile()
}

func writeCaseRow(f *excelize.File, sheet string, row int, r model.CaseResult, failStyle, skippedStyle int) {
	cells := []any{
		r.GroupName,
		r.CaseName,
		string(r.Category),
		string(r.Status),
		float64(r.Duration().Microseconds()) / 1000,
		r.FinalFailMessage,
	}

	for i, v := range cells {
		cellName := fmt.Sprintf("%c%d", xlsxMinColumn+rune(i), row)
		f.SetCellValue(sheet, cellName, v)

		switch r.Status {
		case model.StatusFail:
			f.SetCellStyle(sheet, cellName, cellName, failStyle)
		case model.StatusSkipped:
			f.SetCellStyle(sheet, cellName, cellName, skippedStyle)
		}
	}
}

func writeSummaryFooter(f *excelize.File, sheet string, startRow int, summary Summary, runID string) {
	f.SetCellValue(sheet, fmt.Sprintf("A%d", startRow), "Run "+runID)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", startRow+1), fmt.Sprintf("Pass: %d", summary.Overall.Pass))
	f.SetCellValue(sheet, fmt.Sprintf("A%d", startRow+2), fmt.Sprintf("Fail: %d", summary.Overall.Fail))
	f.SetCellValue(sheet, fmt.Sprintf("A%d", startRow+3), fmt.Sprintf("Skipped: %d", summary.Overall.Skipped))
}
