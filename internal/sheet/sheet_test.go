package sheet

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/xuri/excelize/v2"
)

func sampleSheets() *model.GeneratedSheets {
	return &model.GeneratedSheets{
		ExamName: "Mid-Term",
		Pages: []model.SheetPage{
			{Students: []model.Student{{Name: "Asha", RollNumber: "1", RegistrationNumber: "R1"}}, Branch: "CSE", Semester: 3, PageIndex: 0, TotalSheets: 2},
			{Students: []model.Student{{Name: "Bilal", RollNumber: "2", RegistrationNumber: "R2"}}, Branch: "CSE", Semester: 3, PageIndex: 1, TotalSheets: 2},
		},
	}
}

func TestWriteOneWorksheetPerPage(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleSheets()); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Page 1" || sheets[1] != "Page 2" {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows("Page 2")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 4 header rows + 1 student, got %d: %v", len(rows), rows)
	}
	if rows[1][5] != "2 of 2" {
		t.Errorf("page marker = %q", rows[1][5])
	}
	if got := rows[4]; got[0] != "2" || got[1] != "Bilal" || got[3] != "R2" {
		t.Errorf("student row = %v", got)
	}
}

func TestWriteSerialsFollowPageSizes(t *testing.T) {
	long := make([]model.Student, 30)
	for i := range long {
		long[i] = model.Student{Name: fmt.Sprintf("S%d", i+1), RollNumber: strconv.Itoa(i + 1)}
	}
	gen := &model.GeneratedSheets{
		ExamName: "Finals",
		Pages: []model.SheetPage{
			{Students: long, Branch: "ME", PageIndex: 0, TotalSheets: 2},
			{Students: []model.Student{{Name: "S31", RollNumber: "31"}}, Branch: "ME", PageIndex: 1, TotalSheets: 2},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, gen); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	first, _ := f.GetRows("Page 1")
	if last := first[len(first)-1][0]; last != "30" {
		t.Errorf("page 1 last serial = %s, want 30", last)
	}
	second, _ := f.GetRows("Page 2")
	if got := second[4][0]; got != "31" {
		t.Errorf("page 2 first serial = %s, want 31", got)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	path, err := Export(filepath.Join(dir, "out"), sampleSheets())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != "Mid-Term_CSE_sem3.xlsx" {
		t.Errorf("file name = %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat: %v", err)
	}

	if _, err := Export(dir, &model.GeneratedSheets{ExamName: "x"}); err == nil {
		t.Error("no pages should fail")
	}
}

func TestReadRoster(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Name", "Roll No", "Registration Number"},
		{"Asha", 1, "R1"},
		{"", "", ""},
		{"Bilal", 2, "R2"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	students, err := ReadRoster(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("students = %+v", students)
	}
	if students[1].Name != "Bilal" || students[1].RollNumber != "2" || students[1].RegistrationNumber != "R2" {
		t.Errorf("student = %+v", students[1])
	}

	if _, err := ReadRoster(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Error("garbage should fail")
	}
}
