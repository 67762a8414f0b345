// Package export writes extraction results to JSON or XLSX files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/extract"
)

const sheet = "Pages"

// excel rejects cells longer than this
const maxCellChars = 32767

// WriteJSON encodes r as indented JSON.
func WriteJSON(w io.Writer, r extract.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// XLSX returns a workbook (as bytes) with one row per page.
func XLSX(r extract.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	_ = f.DeleteSheet("Sheet1")
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Page No", "Text", "Characters"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, p := range r.Pages {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, p.PageNo)
		write(2, truncate(p.Text, maxCellChars))
		write(3, utf8.RuneCountInString(p.Text))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", "B", 100)
	_ = f.SetColWidth(sheet, "C", "C", 12)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile picks the format from path's extension (.json or .xlsx).
func WriteFile(path string, r extract.Result) error {
	switch constants.NormalizeExt(filepath.Ext(path)) {
	case "json":
		var buf bytes.Buffer
		if err := WriteJSON(&buf, r); err != nil {
			return err
		}
		return os.WriteFile(path, buf.Bytes(), 0o644)
	case "xlsx":
		b, err := XLSX(r)
		if err != nil {
			return err
		}
		return os.WriteFile(path, b, 0o644)
	default:
		return fmt.Errorf("unsupported export format %q (use .json or .xlsx)", filepath.Ext(path))
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
