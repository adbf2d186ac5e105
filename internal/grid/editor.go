package grid

import (
	"context"
	"strings"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/validator"
	"github.com/stemsi/seatdesk/internal/wizard"
)

// SeatMutator submits one seat change.
type SeatMutator interface {
	MutateSeat(ctx context.Context, m model.SeatMutation) (*model.SeatMutationResult, error)
}

// SeatForm is what the operator edits for one seat. An empty Registration
// clears the seat.
type SeatForm struct {
	Registration string
	Department   string
	ExamName     string
	ExamDate     string
	Session      string
	StartTime    string
	EndTime      string
	Semester     string
	Year         string
}

// Editor edits a single cell of a room.
type Editor struct {
	roomID   int
	cell     Cell
	siblings []model.Allocation
}

// NewEditor opens cell code of g for editing. allocs is the room's full
// allocation list and supplies the exam metadata of each department.
func NewEditor(roomID int, g Grid, code string, allocs []model.Allocation) (*Editor, error) {
	cell, ok := g.LookupCode(code)
	if !ok {
		return nil, response.Precondition("edit seat", response.ErrNotFound, "Seat "+code+" is not in this room.")
	}
	return &Editor{roomID: roomID, cell: cell, siblings: allocs}, nil
}

// Cell returns the cell being edited.
func (e *Editor) Cell() Cell { return e.cell }

// Prefill returns the form for the current occupant, or for an empty seat the
// exam metadata of the first allocation in dept.
func (e *Editor) Prefill(dept string) SeatForm {
	if a := e.cell.Allocation; a != nil {
		return formFrom(*a, a.RegistrationNumber)
	}
	for _, a := range e.siblings {
		if dept != "" && strings.EqualFold(a.Department, dept) {
			f := formFrom(a, "")
			f.Department = dept
			return f
		}
	}
	return SeatForm{Department: dept}
}

func formFrom(a model.Allocation, reg string) SeatForm {
	return SeatForm{
		Registration: reg,
		Department:   a.Department,
		ExamName:     a.ExamName,
		ExamDate:     a.ExamDate,
		Session:      a.Session,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
	}
}

// Mutation builds the seat upsert, or the removal when Registration is empty.
// Exam name and date are required for an upsert.
func (e *Editor) Mutation(f SeatForm) (model.SeatMutation, error) {
	const op = "edit seat"
	m := model.SeatMutation{
		RoomID:       e.roomID,
		Seat:         e.cell.Code,
		Row:          e.cell.Row,
		Column:       e.cell.Column,
		Registration: strings.TrimSpace(f.Registration),
	}
	if m.Registration == "" {
		if e.cell.Empty() {
			return m, response.Precondition(op, response.ErrIncompleteFields, "Seat "+e.cell.Code+" is already empty.")
		}
		return m, nil
	}

	start, err := wizard.Normalize24(f.StartTime)
	if err != nil {
		return m, response.Precondition(op, response.ErrIncompleteFields, "Start time: "+err.Error())
	}
	end, err := wizard.Normalize24(f.EndTime)
	if err != nil {
		return m, response.Precondition(op, response.ErrIncompleteFields, "End time: "+err.Error())
	}

	m.Department = strings.TrimSpace(f.Department)
	m.ExamName = strings.TrimSpace(f.ExamName)
	m.ExamDate = strings.TrimSpace(f.ExamDate)
	m.Session = strings.TrimSpace(f.Session)
	m.StartTime = start
	m.EndTime = end
	m.Semester = strings.TrimSpace(f.Semester)
	m.Year = strings.TrimSpace(f.Year)

	if fields := validator.Struct(m); fields != nil {
		return m, response.Precondition(op, response.ErrIncompleteFields, validator.Summary(fields))
	}
	return m, nil
}

// Save validates f and submits it. The caller reloads the whole view on
// success.
func (e *Editor) Save(ctx context.Context, api SeatMutator, f SeatForm) (*model.SeatMutationResult, error) {
	m, err := e.Mutation(f)
	if err != nil {
		return nil, err
	}
	return api.MutateSeat(ctx, m)
}
