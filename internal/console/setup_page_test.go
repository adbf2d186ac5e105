package console

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

const seatingRooms = `[{"id":3,"building":"Main","room_number":"101","capacity":7,"departments":["CSE","ECE"],"seats":[
	{"seat":"A1","row":"A","column":1,"registration":"R1","department":"CSE","exam_name":"Maths","exam_date":"2025-03-03","session":"1st Half","start_time":"09:00","end_time":"12:00"},
	{"seat":"A2","row":"A","column":2,"registration":"E1","department":"ECE","exam_name":"Circuits","exam_date":"2025-03-04","session":"2nd Half","start_time":"14:00","end_time":"17:00"}]}]`

func setupMux(locked *box[json.RawMessage]) *http.ServeMux {
	mux := http.NewServeMux()
	draftRoutes(mux, 7, 8)
	for _, path := range []string{"/create_exam/", "/add_departments/", "/add_rooms/"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) { reply(w, nil) })
	}
	mux.HandleFunc("/get_uploaded_files/", func(w http.ResponseWriter, r *http.Request) {
		replyRaw(w, `{"status":"success","files":[
			{"id":1,"file_name":"cse.xlsx","year":2,"semester":3,"department":"CSE","student_count":1},
			{"id":2,"file_name":"ece.xlsx","year":2,"semester":3,"department":"ECE","student_count":1}]}`)
	})
	mux.HandleFunc("/save_selected_files/", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]interface{}{"files": []interface{}{}, "total_students": 2})
	})
	mux.HandleFunc("/generate_seating/", func(w http.ResponseWriter, r *http.Request) {
		replyRaw(w, `{"status":"success","rooms":`+seatingRooms+`,"total_students":2,"total_seats_allocated":2,"total_rooms":1}`)
	})
	mux.HandleFunc("/lock_seating/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SeatingData json.RawMessage `json:"seating_data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		locked.Set(body.SeatingData)
		reply(w, map[string]interface{}{"message": "Seating locked"})
	})
	mux.HandleFunc("/get_exam_summary/", func(w http.ResponseWriter, r *http.Request) {
		replyRaw(w, `{"status":"success","exam":{"id":7,"name":"Mid-Term","start_date":"2025-03-01","end_date":"2025-03-10"},
			"departments":[{"department":"CSE","exam_name":"Maths","paper_code":"MA1","exam_date":"2025-03-03","session":"1st Half","start_time":"09:00","end_time":"12:00"}],
			"rooms":[{"id":3,"building":"Main","room_number":"101","capacity":7}],
			"student_files":[{"id":1,"file_name":"cse.xlsx","year":2,"semester":3,"department":"CSE","student_count":1}],
			"seating":[{"registration_number":"R1","department":"CSE","seat_code":"A1","room_building":"Main","room_number":"101","exam_date":"2025-03-03","exam_session":"1st Half","exam_name":"Maths"}],
			"total_students":2,"total_seats_allocated":2}`)
	})
	return mux
}

func paperFor(name, date string) model.DepartmentExam {
	return model.DepartmentExam{Name: name, Code: "P-" + name, Date: date, Session: "1st Half", StartTime: "09:00", EndTime: "12:00"}
}

func TestSetupDuplicateRoomIsLocal(t *testing.T) {
	var locked box[json.RawMessage]
	h := newHarness(t, setupMux(&locked))

	p := NewSetupPage(h.deps)
	if err := p.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(p.Drafts().Close)
	before := len(h.rec.Calls())

	if err := p.AddRoom(model.Room{Building: "Main", RoomNumber: "101", Capacity: 40}); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := p.AddRoom(model.Room{Building: "Main", RoomNumber: "101", Capacity: 30})
	if response.CodeOf(err) != response.ErrDuplicateRoom {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if rooms := p.Session().Rooms.Rooms(); len(rooms) != 1 || rooms[0].Capacity != 40 {
		t.Errorf("rooms = %+v", rooms)
	}
	if len(h.rec.Calls()) != before {
		t.Errorf("room checks must not touch the network: %v", h.rec.Calls())
	}
}

func TestSetupFullFlow(t *testing.T) {
	var locked box[json.RawMessage]
	h := newHarness(t, setupMux(&locked))
	ctx := context.Background()

	p := NewSetupPage(h.deps)
	if err := p.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(p.Drafts().Close)

	// Details
	p.SetDetails("Mid-Term", "2025-03-10", "2025-03-01")
	if response.CodeOf(p.Wizard().Blocker()) != response.ErrInvalidDateRange {
		t.Fatalf("reversed dates should block: %v", p.Wizard().Blocker())
	}
	p.SetDetails("Mid-Term", "2025-03-01", "2025-03-10")
	if err := p.Next(ctx); err != nil {
		t.Fatalf("details: %v", err)
	}

	// Departments
	d := p.Session().Departments
	d.Select("CSE")
	d.Select("ECE")
	_ = d.SetEntry("CSE", 0, paperFor("Maths", "2025-03-03"))
	_ = d.SetEntry("ECE", 0, paperFor("Circuits", "2025-03-20"))
	calls := h.rec.count("POST /add_departments/")
	if err := p.Next(ctx); response.CodeOf(err) != response.ErrDateOutOfRange {
		t.Fatalf("expected date out of range, got %v", err)
	}
	if h.rec.count("POST /add_departments/") != calls || p.Wizard().Current() != 1 {
		t.Fatal("date check must run before the request and keep the step")
	}
	_ = d.SetEntry("ECE", 0, paperFor("Circuits", "2025-03-04"))
	if err := p.Next(ctx); err != nil {
		t.Fatalf("departments: %v", err)
	}

	// Rooms
	if p.Wizard().CanAdvance() {
		t.Fatal("no rooms yet")
	}
	_ = p.AddRoom(model.Room{Building: "Main", RoomNumber: "101", Capacity: 7})
	if err := p.Next(ctx); err != nil {
		t.Fatalf("rooms: %v", err)
	}
	if len(p.Files().Items()) != 2 {
		t.Fatalf("files not loaded: %v", h.rec.Calls())
	}

	// Student data
	_ = p.ToggleFile(1)
	if err := p.Next(ctx); response.CodeOf(err) != response.ErrMissingStudentData {
		t.Fatalf("ECE has no file, got %v", err)
	}
	_ = p.ToggleFile(2)
	if err := p.Next(ctx); err != nil {
		t.Fatalf("students: %v", err)
	}
	if h.rec.count("POST /generate_seating/") != 1 || p.Session().Seating == nil {
		t.Fatal("seating should be generated after saving files")
	}
	if !strings.Contains(h.out.String(), "A1 R1 (CSE)") {
		t.Errorf("grid not rendered:\n%s", h.out.String())
	}

	// Seating review
	if err := p.Regenerate(ctx); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if n := h.rec.count("POST /generate_seating/"); n != 2 {
		t.Errorf("generated = %d", n)
	}
	if err := p.Next(ctx); err != nil {
		t.Fatalf("lock: %v", err)
	}
	var want, got bytes.Buffer
	_ = json.Compact(&want, []byte(seatingRooms))
	_ = json.Compact(&got, locked.Get())
	if want.String() != got.String() {
		t.Errorf("lock must resubmit the server's rooms unchanged:\n%s\n%s", want.String(), got.String())
	}
	if p.Session().Summary == nil || p.Session().Summary.Exam.Name != "Mid-Term" {
		t.Fatal("summary not loaded")
	}
	if !strings.Contains(h.out.String(), "/student-portal/") {
		t.Error("portal link missing")
	}

	// Summary
	if err := p.Next(ctx); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !p.Wizard().Done() || p.Result().DashboardURL != "/dashboard/" {
		t.Errorf("result = %+v", p.Result())
	}
	if len(h.prompt.questions) != 2 {
		t.Errorf("regenerate and completion are both confirmed: %v", h.prompt.questions)
	}
}

func TestSetupRegenerateOutsideReview(t *testing.T) {
	var locked box[json.RawMessage]
	h := newHarness(t, setupMux(&locked))

	p := NewSetupPage(h.deps)
	if err := p.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(p.Drafts().Close)

	if err := p.Regenerate(context.Background()); !response.IsPrecondition(err) {
		t.Errorf("expected precondition, got %v", err)
	}
	if h.rec.count("POST /generate_seating/") != 0 {
		t.Error("no request expected")
	}
}

func TestSetupRunScript(t *testing.T) {
	var locked box[json.RawMessage]
	h := newHarness(t, setupMux(&locked))
	h.prompt.answers = []string{
		"details 2025-03-01 2025-03-10 Mid Term",
		"next",
		"paper cse", "Maths", "MA1", "2025-03-03", "1st Half", "9:00 AM", "12:00 PM",
		"next",
		"room Main 101 7",
		"room Main 101 9",
		"quit",
	}

	p := NewSetupPage(h.deps)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	p.Drafts().Wait()

	if p.Session().Details.Name != "Mid Term" {
		t.Errorf("name = %q", p.Session().Details.Name)
	}
	entries := p.Session().Departments.Entries("CSE")
	if len(entries) != 1 || entries[0].StartTime != "09:00" || entries[0].EndTime != "12:00" {
		t.Errorf("entries = %+v", entries)
	}
	if p.Session().Rooms.Len() != 1 {
		t.Errorf("rooms = %d", p.Session().Rooms.Len())
	}
	if !strings.Contains(h.out.String(), response.GetMessage(response.ErrDuplicateRoom)) && !strings.Contains(h.out.String(), "already exists") {
		t.Errorf("duplicate room not reported:\n%s", h.out.String())
	}
	if h.rec.count("POST /delete-temp-exam/") != 1 {
		t.Errorf("quitting should abandon the draft: %v", h.rec.Calls())
	}
}

func TestSetupPaperEditAndRemove(t *testing.T) {
	var locked box[json.RawMessage]
	h := newHarness(t, setupMux(&locked))
	h.prompt.answers = []string{
		"paper cse", "Maths", "MA1", "2025-03-03", "1st Half", "9:00 AM", "12:00 PM",
		"paper cse", "Physics", "PH1", "2025-03-04", "2nd Half", "2:00 PM", "5:00 PM",
		"paper cse 1", "Algebra", "AL1", "2025-03-05", "1st Half", "10:00 AM", "1:00 PM",
		"paper cse 9",
		"unpaper cse 2",
		"quit",
	}

	p := NewSetupPage(h.deps)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	p.Drafts().Wait()

	entries := p.Session().Departments.Entries("CSE")
	if len(entries) != 1 {
		t.Fatalf("entries = %+v", entries)
	}
	if e := entries[0]; e.Name != "Algebra" || e.Code != "AL1" || e.StartTime != "10:00" || e.EndTime != "13:00" {
		t.Errorf("edited entry = %+v", e)
	}
	if !strings.Contains(h.out.String(), "CSE has no paper 9.") {
		t.Errorf("missing entry not reported:\n%s", h.out.String())
	}
}
