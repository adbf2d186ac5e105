package sheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// PageName is the worksheet name of zero-based page i.
func PageName(i int) string {
	return fmt.Sprintf("Page %d", i+1)
}

// FileName derives the export file name, e.g. "Mid-Term_CSE_sem3.xlsx".
func FileName(gen *model.GeneratedSheets) string {
	parts := []string{gen.ExamName}
	if len(gen.Pages) > 0 {
		p := gen.Pages[0]
		parts = append(parts, p.Branch)
		if p.Semester > 0 {
			parts = append(parts, "sem"+p.Semester.String())
		}
	}
	name := unsafeName.ReplaceAllString(strings.Join(parts, "_"), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "attendance"
	}
	return name + ".xlsx"
}

// Build lays out one worksheet per page: a title block, then Sl, Name,
// Roll No, Reg No and Signature columns. Serial numbers continue across pages.
func Build(gen *model.GeneratedSheets) (*excelize.File, error) {
	if gen == nil || len(gen.Pages) == 0 {
		return nil, fmt.Errorf("no sheet pages to export")
	}

	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, page := range gen.Pages {
		name := PageName(i)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add %s: %w", name, err)
		}
		if err := writePage(f, name, gen.ExamName, page, gen.FirstSerial(i), bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writePage(f *excelize.File, name, exam string, page model.SheetPage, first, bold int) error {
	total := page.TotalSheets
	if total == 0 {
		total = 1
	}
	header := [][]interface{}{
		{"Attendance Sheet", exam},
		{"Branch", page.Branch, "Semester", page.Semester.String(), "Sheet", fmt.Sprintf("%d of %d", page.PageIndex+1, total)},
		{},
		{"Sl", "Name", "Roll No", "Reg No", "Signature"},
	}
	for r, row := range header {
		cell, _ := excelize.CoordinatesToCellName(1, r+1)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(name, "A4", "E4", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", "A1", bold); err != nil {
		return err
	}

	for i, s := range page.Students {
		cell, _ := excelize.CoordinatesToCellName(1, len(header)+i+1)
		row := []interface{}{first + i, s.Name, s.RollNumber, s.RegistrationNumber, ""}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(name, "B", "B", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(name, "C", "D", 18); err != nil {
		return err
	}
	return f.SetColWidth(name, "E", "E", 24)
}

// Write streams the workbook for gen to w.
func Write(w io.Writer, gen *model.GeneratedSheets) error {
	f, err := Build(gen)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// Export saves the workbook under dir and returns its path.
func Export(dir string, gen *model.GeneratedSheets) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	f, err := Build(gen)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(dir, FileName(gen))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}
