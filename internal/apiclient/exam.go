package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// SaveExamDetails stores the name and date window of a draft.
func (c *Client) SaveExamDetails(ctx context.Context, req model.CreateExamRequest) error {
	return c.postJSON(ctx, "save exam details", "/create_exam/", req, nil)
}

// AddDepartments stores the department papers of a draft in one batch.
func (c *Client) AddDepartments(ctx context.Context, req model.AddDepartmentsRequest) error {
	return c.postJSON(ctx, "add departments", "/add_departments/", req, nil)
}

// AddRooms stores the room list of a draft.
func (c *Client) AddRooms(ctx context.Context, req model.AddRoomsRequest) error {
	return c.postJSON(ctx, "add rooms", "/add_rooms/", req, nil)
}

// DeleteRoom removes a stored room together with its allocations.
func (c *Client) DeleteRoom(ctx context.Context, roomID int) error {
	return c.postJSON(ctx, "delete room", "/delete_room/", model.RoomIDRequest{RoomID: roomID}, nil)
}

// SaveSelectedFiles attaches rosters to a draft.
func (c *Client) SaveSelectedFiles(ctx context.Context, req model.SaveSelectedFilesRequest) (*model.SelectedFilesResult, error) {
	var out model.SelectedFilesResult
	if err := c.postJSON(ctx, "save selected files", "/save_selected_files/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SeatingResult is a generated plan plus the server's exact rooms array,
// which is what lock_seating must receive back.
type SeatingResult struct {
	Plan     model.SeatingPlan
	RawRooms json.RawMessage
}

// GenerateSeating asks the server for a seating plan.
func (c *Client) GenerateSeating(ctx context.Context, examID int) (*SeatingResult, error) {
	const op = "generate seating"

	var out struct {
		Rooms json.RawMessage `json:"rooms"`
		model.SeatingPlan
	}
	if err := c.postJSON(ctx, op, "/generate_seating/", model.ExamIDRequest{ExamID: examID}, &out); err != nil {
		return nil, err
	}

	res := &SeatingResult{Plan: out.SeatingPlan, RawRooms: out.Rooms}
	if len(out.Rooms) == 0 || string(out.Rooms) == "null" {
		res.RawRooms = json.RawMessage("[]")
		return res, nil
	}
	if err := json.Unmarshal(out.Rooms, &res.Plan.Rooms); err != nil {
		return nil, response.Transport(op, fmt.Errorf("decode rooms: %w", err))
	}
	return res, nil
}

// LockSeating persists a generated plan exactly as the server produced it.
func (c *Client) LockSeating(ctx context.Context, examID int, seating *SeatingResult) (string, error) {
	if seating == nil {
		return "", response.Precondition("lock seating", response.ErrSeatingMissing, "")
	}
	var out struct {
		Message string `json:"message"`
	}
	req := model.LockSeatingRequest{ExamID: examID, SeatingData: seating.RawRooms}
	if err := c.postJSON(ctx, "lock seating", "/lock_seating/", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ExamSummary loads everything recorded for an exam.
func (c *Client) ExamSummary(ctx context.Context, examID int) (*model.ExamSummary, error) {
	var out model.ExamSummary
	q := url.Values{"exam_id": {strconv.Itoa(examID)}}
	if err := c.getJSON(ctx, "exam summary", "/get_exam_summary/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListExams returns all permanent exams.
func (c *Client) ListExams(ctx context.Context) ([]model.ExamListItem, error) {
	var out struct {
		Exams []model.ExamListItem `json:"exams"`
	}
	if err := c.getJSON(ctx, "list exams", "/get_all_exams/", nil, &out); err != nil {
		return nil, err
	}
	return out.Exams, nil
}

// DeleteExam removes a permanent exam.
func (c *Client) DeleteExam(ctx context.Context, examID int) error {
	return c.postJSON(ctx, "delete exam", "/delete_exam/", model.ExamIDRequest{ExamID: examID}, nil)
}
