// Package export renders leaderboards as spreadsheet workbooks.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/domain/types"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// ErrWrite wraps any failure while building or writing a workbook.
var ErrWrite = errors.New("export workbook")

// Header is the first row of every exported sheet.
var Header = []string{"Rank", "Student", "Score", "Tier", "Next tier", "Progress %", "To next"}

var colWidths = []float64{8, 24, 10, 28, 28, 12, 10}

// Filename returns the suggested download name for a track export.
func Filename(track tier.Track) string {
	return fmt.Sprintf("classrank-%s.xlsx", track)
}

// Leaderboard writes standings as a single-sheet workbook named after the
// track. Rows keep the order of standings.
func Leaderboard(w io.Writer, track tier.Track, standings []types.Standing) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(track)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("%w: new sheet: %w", ErrWrite, err)
	}
	if sheet != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	if idx, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := writeHeader(f, sheet); err != nil {
		return err
	}
	for i, s := range standings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		if err := f.SetSheetRow(sheet, cell, row(s)); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrWrite, i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string) error {
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%w: header: %w", ErrWrite, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: style: %w", ErrWrite, err)
	}
	last, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("%w: style: %w", ErrWrite, err)
	}
	for i, width := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("%w: width: %w", ErrWrite, err)
		}
	}
	return nil
}

func row(s types.Standing) *[]any {
	next := ""
	if s.Next != nil {
		next = s.Next.Name
	}
	r := []any{s.Rank, s.StudentID, s.Score, s.Current.Name, next, s.ProgressPercent, s.AmountToNext}
	return &r
}
