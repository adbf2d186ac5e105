package wizard

import (
	"strings"
	"time"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// ExamDetails is the first page of exam setup.
type ExamDetails struct {
	Name      string
	StartDate string
	EndDate   string
}

// Ready requires a name and a start date on or before the end date.
func (d ExamDetails) Ready() error {
	const op = "exam details"
	if strings.TrimSpace(d.Name) == "" {
		return response.Precondition(op, response.ErrIncompleteFields, "Enter the exam name.")
	}
	start, err := time.Parse(model.DateLayout, d.StartDate)
	if err != nil {
		return response.Precondition(op, response.ErrIncompleteFields, "Enter the start date as YYYY-MM-DD.")
	}
	end, err := time.Parse(model.DateLayout, d.EndDate)
	if err != nil {
		return response.Precondition(op, response.ErrIncompleteFields, "Enter the end date as YYYY-MM-DD.")
	}
	if start.After(end) {
		return response.Precondition(op, response.ErrInvalidDateRange, "")
	}
	return nil
}

// Request builds the create_exam payload for draft examID.
func (d ExamDetails) Request(examID int) model.CreateExamRequest {
	return model.CreateExamRequest{
		ExamID:    examID,
		Name:      strings.TrimSpace(d.Name),
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
	}
}
