package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/stemsi/seatdesk/internal/grid"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// ViewExamPage shows a permanent exam and edits its seats. Every mutation is
// followed by a full reload of the summary.
type ViewExamPage struct {
	Deps

	examID  int
	summary *model.ExamSummary
}

// NewViewExamPage creates the page for examID.
func NewViewExamPage(d Deps, examID int) *ViewExamPage {
	return &ViewExamPage{Deps: d, examID: examID}
}

// Summary returns the last loaded summary.
func (p *ViewExamPage) Summary() *model.ExamSummary { return p.summary }

// Reload fetches and renders the summary. A failure leaves the previous
// summary in place.
func (p *ViewExamPage) Reload(ctx context.Context) error {
	s, err := p.API.ExamSummary(ctx, p.examID)
	if err != nil {
		return err
	}
	p.summary = s
	p.renderSummary(s)
	return nil
}

// Editor opens seat code of roomID with the room's current allocations.
func (p *ViewExamPage) Editor(ctx context.Context, roomID int, code string) (*grid.Editor, error) {
	details, err := p.API.RoomDetails(ctx, roomID)
	if err != nil {
		return nil, err
	}
	g := grid.Layout(details.Room.Capacity, details.Allocations)
	return grid.NewEditor(roomID, g, strings.ToUpper(code), details.Allocations)
}

// SaveSeat submits f through ed and reloads the view.
func (p *ViewExamPage) SaveSeat(ctx context.Context, ed *grid.Editor, f grid.SeatForm) (*model.SeatMutationResult, error) {
	res, err := ed.Save(ctx, p.API, f)
	if err != nil {
		return nil, err
	}
	p.Log.Info().Str("seat", ed.Cell().Code).Str("action", string(res.Action)).Msg("Seat changed")
	return res, p.Reload(ctx)
}

// ClearSeat removes the occupant of code in roomID.
func (p *ViewExamPage) ClearSeat(ctx context.Context, roomID int, code string) (*model.SeatMutationResult, error) {
	ed, err := p.Editor(ctx, roomID, code)
	if err != nil {
		return nil, err
	}
	return p.SaveSeat(ctx, ed, grid.SeatForm{})
}

// DeleteRoom removes roomID after confirmation and reloads the view.
func (p *ViewExamPage) DeleteRoom(ctx context.Context, roomID int) error {
	if !p.Prompt.Confirm(fmt.Sprintf("Delete room %d and all of its seats?", roomID)) {
		return response.Precondition("delete room", response.ErrNotConfirmed, "")
	}
	if err := p.API.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	return p.Reload(ctx)
}

// Run loads the exam and handles seat commands until quit or end of input.
func (p *ViewExamPage) Run(ctx context.Context) error {
	if err := p.Reload(ctx); err != nil {
		return err
	}
	p.help()
	return p.loop(ctx, "exam> ", func(ctx context.Context, c command) (bool, error) {
		switch c.verb {
		case "seat", "clear":
			roomID, err := c.intArg(0)
			if err != nil {
				return false, err
			}
			if c.verb == "clear" {
				res, err := p.ClearSeat(ctx, roomID, c.arg(1))
				if err == nil {
					p.printf("Seat %s %s\n", res.Seat, res.Action)
				}
				return false, err
			}
			return false, p.promptSeat(ctx, roomID, c.arg(1))
		case "delroom":
			roomID, err := c.intArg(0)
			if err != nil {
				return false, err
			}
			return false, p.DeleteRoom(ctx, roomID)
		case "reload":
			return false, p.Reload(ctx)
		case "quit", "back":
			return true, nil
		}
		p.help()
		return false, nil
	})
}

func (p *ViewExamPage) promptSeat(ctx context.Context, roomID int, code string) error {
	ed, err := p.Editor(ctx, roomID, code)
	if err != nil {
		return err
	}

	dept := ""
	if a := ed.Cell().Allocation; a != nil {
		dept = a.Department
	} else if dept, err = p.askField("Department", p.Catalog.Departments); err != nil {
		return err
	}
	f := ed.Prefill(strings.ToUpper(dept))

	fields := []struct {
		label string
		dst   *string
	}{
		{"Registration number (empty clears the seat)", &f.Registration},
		{"Exam name", &f.ExamName},
		{"Exam date (YYYY-MM-DD)", &f.ExamDate},
		{"Session", &f.Session},
		{"Start time", &f.StartTime},
		{"End time", &f.EndTime},
		{"Semester", &f.Semester},
		{"Year", &f.Year},
	}
	for i, fd := range fields {
		label := fd.label
		if *fd.dst != "" {
			label += " [" + *fd.dst + "]"
		}
		v, err := p.Prompt.Ask(label + ": ")
		if err != nil {
			return err
		}
		switch {
		case v == "-":
			*fd.dst = ""
		case v != "":
			*fd.dst = v
		}
		if i == 0 && f.Registration == "" {
			break
		}
	}

	res, err := p.SaveSeat(ctx, ed, f)
	if err != nil {
		return err
	}
	p.printf("Seat %s %s\n", res.Seat, res.Action)
	return nil
}

func (p *ViewExamPage) help() {
	p.printf("Commands: seat <room id> <seat>, clear <room id> <seat>, delroom <room id>, reload, back\n")
}
