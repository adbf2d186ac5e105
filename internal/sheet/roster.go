package sheet

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/xuri/excelize/v2"
)

var (
	nameHeaders = []string{"name", "student name", "full name"}
	rollHeaders = []string{"roll_number", "roll number", "roll no", "roll"}
	regHeaders  = []string{"registration_number", "registration number", "reg no", "reg_no", "registration"}
)

// ReadRoster parses the first worksheet of an XLSX roster. The first row is
// a header naming the name, roll number and registration number columns.
// Rows without a registration number are skipped.
func ReadRoster(r io.Reader) ([]model.Student, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a valid xlsx file: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet is empty")
	}

	nameIdx := findColumn(rows[0], nameHeaders)
	rollIdx := findColumn(rows[0], rollHeaders)
	regIdx := findColumn(rows[0], regHeaders)
	if regIdx < 0 {
		return nil, fmt.Errorf("missing registration number column")
	}

	students := make([]model.Student, 0, len(rows)-1)
	for _, row := range rows[1:] {
		reg := cellValue(row, regIdx)
		if reg == "" {
			continue
		}
		students = append(students, model.Student{
			Name:               cellValue(row, nameIdx),
			RollNumber:         cellValue(row, rollIdx),
			RegistrationNumber: reg,
		})
	}
	return students, nil
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = normalizeHeader(h)
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
