package grid

import (
	"context"
	"testing"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

type fakeMutator struct {
	got []model.SeatMutation
}

func (f *fakeMutator) MutateSeat(ctx context.Context, m model.SeatMutation) (*model.SeatMutationResult, error) {
	f.got = append(f.got, m)
	action := model.SeatUpdated
	if m.Registration == "" {
		action = model.SeatRemoved
	}
	return &model.SeatMutationResult{Action: action, Seat: m.Seat}, nil
}

var roomAllocs = []model.Allocation{
	{RegistrationNumber: "R1", Department: "CSE", Row: "A", Column: 1, ExamName: "Maths", ExamDate: "2025-03-03", Session: "1st Half", StartTime: "09:00", EndTime: "12:00"},
	{RegistrationNumber: "R2", Department: "ECE", Row: "A", Column: 2, ExamName: "Circuits", ExamDate: "2025-03-04", Session: "2nd Half", StartTime: "14:00", EndTime: "17:00"},
}

func TestPrefillFromSibling(t *testing.T) {
	g := Layout(10, roomAllocs)
	e, err := NewEditor(3, g, "B1", roomAllocs)
	if err != nil {
		t.Fatalf("editor: %v", err)
	}

	f := e.Prefill("ece")
	if f.ExamName != "Circuits" || f.ExamDate != "2025-03-04" || f.Registration != "" {
		t.Errorf("prefill = %+v", f)
	}
	if f := e.Prefill("MECH"); f.ExamName != "" || f.Department != "MECH" {
		t.Errorf("no sibling should give a blank form, got %+v", f)
	}

	occupied, _ := NewEditor(3, g, "A1", roomAllocs)
	if f := occupied.Prefill("ECE"); f.Registration != "R1" || f.ExamName != "Maths" {
		t.Errorf("occupied seat keeps its own data, got %+v", f)
	}
}

func TestEditorMutation(t *testing.T) {
	g := Layout(10, roomAllocs)
	api := &fakeMutator{}
	ctx := context.Background()

	t.Run("Upsert", func(t *testing.T) {
		e, _ := NewEditor(3, g, "B1", roomAllocs)
		f := e.Prefill("CSE")
		f.Registration = " R7 "
		f.StartTime = "9:00 AM"
		res, err := e.Save(ctx, api, f)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		m := api.got[len(api.got)-1]
		if m.RoomID != 3 || m.Seat != "B1" || m.Row != "B" || m.Column != 1 || m.Registration != "R7" || m.StartTime != "09:00" {
			t.Errorf("mutation = %+v", m)
		}
		if res.Action != model.SeatUpdated {
			t.Errorf("action = %s", res.Action)
		}
	})

	t.Run("MissingExamName", func(t *testing.T) {
		e, _ := NewEditor(3, g, "B2", roomAllocs)
		calls := len(api.got)
		_, err := e.Save(ctx, api, SeatForm{Registration: "R8", ExamDate: "2025-03-03"})
		if response.CodeOf(err) != response.ErrIncompleteFields {
			t.Fatalf("expected incomplete fields, got %v", err)
		}
		if len(api.got) != calls {
			t.Error("invalid form must not reach the server")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		e, _ := NewEditor(3, g, "A2", roomAllocs)
		res, err := e.Save(ctx, api, SeatForm{})
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		m := api.got[len(api.got)-1]
		if m.Registration != "" || m.ExamName != "" || m.Seat != "A2" {
			t.Errorf("removal = %+v", m)
		}
		if res.Action != model.SeatRemoved {
			t.Errorf("action = %s", res.Action)
		}
	})

	t.Run("RemoveEmptySeat", func(t *testing.T) {
		e, _ := NewEditor(3, g, "B3", roomAllocs)
		if _, err := e.Mutation(SeatForm{}); !response.IsPrecondition(err) {
			t.Errorf("expected precondition, got %v", err)
		}
	})

	t.Run("OutsideRoom", func(t *testing.T) {
		if _, err := NewEditor(3, g, "B5", roomAllocs); err != nil {
			t.Fatalf("B5 exists: %v", err)
		}
		if _, err := NewEditor(3, g, "C1", roomAllocs); err == nil {
			t.Error("C1 is outside a 10-seat room")
		}
	})
}
