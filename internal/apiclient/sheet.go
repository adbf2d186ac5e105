package apiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// GenerateSheets asks the server to paginate a roster into attendance
// sheets. Pages carry the roster's department and semester; Raw holds the
// server's sheets array for SaveSheets.
func (c *Client) GenerateSheets(ctx context.Context, examID int, file model.UploadedFile) (*model.GeneratedSheets, error) {
	const op = "generate sheets"

	var out struct {
		Sheets   json.RawMessage `json:"sheets"`
		ExamName string          `json:"exam_name"`
	}
	req := model.GenerateSheetsRequest{ExamID: examID, FileID: file.ID}
	if err := c.postJSON(ctx, op, "/generate-sheets/", req, &out); err != nil {
		return nil, err
	}

	var pages [][]model.Student
	if len(out.Sheets) > 0 && string(out.Sheets) != "null" {
		if err := json.Unmarshal(out.Sheets, &pages); err != nil {
			return nil, response.Transport(op, fmt.Errorf("decode sheets: %w", err))
		}
	} else {
		out.Sheets = json.RawMessage("[]")
	}

	gen := &model.GeneratedSheets{ExamName: out.ExamName, Raw: out.Sheets}
	for i, students := range pages {
		gen.Pages = append(gen.Pages, model.SheetPage{
			Students:    students,
			Branch:      file.Department,
			Semester:    file.Semester,
			PageIndex:   i,
			TotalSheets: len(pages),
		})
	}
	return gen, nil
}

// SaveSheets persists previewed sheets byte-for-byte as generated.
func (c *Client) SaveSheets(ctx context.Context, examID, fileID int, sheets *model.GeneratedSheets) error {
	if sheets == nil {
		return response.Precondition("save sheets", response.ErrNoStudents, "")
	}
	req := model.SaveSheetsRequest{ExamID: examID, FileID: fileID, Sheets: sheets.Raw}
	return c.postJSON(ctx, "save sheets", "/save-generated-sheets/", req, nil)
}

// GeneratedSheets lists saved attendance sheet batches.
func (c *Client) GeneratedSheets(ctx context.Context) ([]model.SheetRecord, error) {
	var out struct {
		Sheets []model.SheetRecord `json:"sheets"`
	}
	if err := c.getJSON(ctx, "list generated sheets", "/get-generated-sheets/", nil, &out); err != nil {
		return nil, err
	}
	return out.Sheets, nil
}
