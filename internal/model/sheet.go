package model

import "encoding/json"

// SheetPageSize is the number of students printed on one attendance sheet.
const SheetPageSize = 20

// SheetPage is one printable attendance page held for preview.
type SheetPage struct {
	Students    []Student `json:"students"`
	Branch      string    `json:"branch"`
	Semester    Term      `json:"semester"`
	PageIndex   int       `json:"page_index"`
	TotalSheets int       `json:"total_sheets"`
}

// GeneratedSheets is the generate-sheets payload. Raw keeps the server's bytes
// so the save call re-submits exactly what was previewed.
type GeneratedSheets struct {
	ExamName string
	Pages    []SheetPage
	Raw      json.RawMessage
}

// FirstSerial is the serial number of the first student on page i. Numbering
// continues across pages in the order the server returned them.
func (g *GeneratedSheets) FirstSerial(i int) int {
	n := 1
	for _, p := range g.Pages[:i] {
		n += len(p.Students)
	}
	return n
}

// GenerateSheetsRequest asks for the pages of one roster.
type GenerateSheetsRequest struct {
	ExamID int `json:"exam_id" binding:"required"`
	FileID int `json:"file_id" binding:"required"`
}

// SaveSheetsRequest persists previewed pages.
type SaveSheetsRequest struct {
	ExamID int             `json:"exam_id" binding:"required"`
	FileID int             `json:"file_id" binding:"required"`
	Sheets json.RawMessage `json:"sheets" binding:"required"`
}

// SheetRecord is one saved batch of attendance sheets.
type SheetRecord struct {
	ExamName     string `json:"exam_name"`
	FileName     string `json:"file_name"`
	GeneratedAt  string `json:"generated_at"`
	StudentCount int    `json:"student_count"`
	SheetCount   int    `json:"sheet_count"`
}
