package apiclient

import (
	"context"

	"github.com/stemsi/seatdesk/internal/model"
)

// InitDraft creates a temporary exam and returns its id.
func (c *Client) InitDraft(ctx context.Context) (int, error) {
	var out struct {
		ExamID int `json:"exam_id"`
	}
	if err := c.getJSON(ctx, "init draft", "/init-temp-exam/", nil, &out); err != nil {
		return 0, err
	}
	return out.ExamID, nil
}

// UpdateDraft renames a temporary exam.
func (c *Client) UpdateDraft(ctx context.Context, examID int, name string) error {
	return c.postJSON(ctx, "update draft", "/update-temp-exam/", model.UpdateDraftRequest{ExamID: examID, Name: name}, nil)
}

// DeleteDraft removes a temporary exam. The server treats an unknown id as
// already deleted.
func (c *Client) DeleteDraft(ctx context.Context, examID int) error {
	return c.postJSON(ctx, "delete draft", "/delete-temp-exam/", model.ExamIDRequest{ExamID: examID}, nil)
}

// CompleteDraft turns a temporary exam into a permanent one.
func (c *Client) CompleteDraft(ctx context.Context, examID int) (*model.CompleteResult, error) {
	var out model.CompleteResult
	if err := c.postJSON(ctx, "complete draft", "/complete-exam-setup/", model.ExamIDRequest{ExamID: examID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
