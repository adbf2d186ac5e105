package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/config"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerURL:      srv.URL,
		CSRFCookieName: "csrftoken",
		CSRFHeaderName: "X-CSRFToken",
		RequestTimeout: 5 * time.Second,
	}
	c, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCSRFCookieIsEchoed(t *testing.T) {
	var gotHeader, gotRequestID string
	mux := http.NewServeMux()
	mux.HandleFunc("/init-temp-exam/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-123", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "exam_id": 42})
	})
	mux.HandleFunc("/update-temp-exam/", func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-CSRFToken")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	id, err := c.InitDraft(ctx)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if id != 42 {
		t.Fatalf("exam_id = %d, want 42", id)
	}
	if err := c.UpdateDraft(ctx, id, "Mid-Term"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotHeader != "tok-123" {
		t.Errorf("X-CSRFToken = %q, want tok-123", gotHeader)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID missing")
	}
}

func TestApplicationErrorIsVerbatim(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "Room Main-101 already exists"})
	}))

	err := c.AddRooms(context.Background(), model.AddRoomsRequest{ExamID: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !response.IsApplication(err) {
		t.Fatalf("expected application error, got %v", err)
	}
	if got := response.DisplayOf(err); got != "Room Main-101 already exists" {
		t.Errorf("display = %q", got)
	}
}

func TestNonSuccessStatusIsFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "pending"})
	}))
	if _, err := c.InitDraft(context.Background()); !response.IsApplication(err) {
		t.Errorf("expected application error for unknown status, got %v", err)
	}
}

func TestTransportErrors(t *testing.T) {
	t.Run("HTMLErrorPage", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, "<h1>CSRF verification failed</h1>")
		}))
		_, err := c.InitDraft(context.Background())
		if !response.IsTransport(err) {
			t.Fatalf("expected transport error, got %v", err)
		}
		if !strings.Contains(err.Error(), "403") {
			t.Errorf("error should mention status: %v", err)
		}
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := New(&config.Config{ServerURL: url, CSRFCookieName: "csrftoken", CSRFHeaderName: "X-CSRFToken"}, zerolog.Nop())
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if _, err := c.UploadedFiles(context.Background()); !response.IsTransport(err) {
			t.Errorf("expected transport error, got %v", err)
		}
	})
}

func TestMissingArrayMeansEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") == "" {
			t.Error("GET without cache buster")
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}))

	files, err := c.UploadedFiles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty list, got %d", len(files))
	}
}

func TestLockSeatingResubmitsServerRooms(t *testing.T) {
	roomsJSON := `[{"id":3,"building":"Main","room_number":"101","capacity":7,"departments":["CSE"],"seats":[{"seat":"A1","row":"A","column":1,"registration":"R1","department":"CSE","exam_name":"Maths","exam_date":"2025-03-01","session":"1st Half","start_time":"09:00","end_time":"12:00","extra":"kept"}]}]`

	var locked json.RawMessage
	mux := http.NewServeMux()
	mux.HandleFunc("/generate_seating/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"success","rooms":`+roomsJSON+`,"total_students":1,"total_seats_allocated":1,"total_rooms":1}`)
	})
	mux.HandleFunc("/lock_seating/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SeatingData json.RawMessage `json:"seating_data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		locked = body.SeatingData
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Seating locked"})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	res, err := c.GenerateSeating(ctx, 9)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Plan.TotalRooms != 1 || len(res.Plan.Rooms) != 1 || res.Plan.Rooms[0].Seats[0].Seat != "A1" {
		t.Fatalf("unexpected plan: %+v", res.Plan)
	}

	msg, err := c.LockSeating(ctx, 9, res)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if msg != "Seating locked" {
		t.Errorf("message = %q", msg)
	}

	var want, got bytes.Buffer
	_ = json.Compact(&want, []byte(roomsJSON))
	_ = json.Compact(&got, locked)
	if want.String() != got.String() {
		t.Errorf("seating_data changed:\nwant %s\ngot  %s", want.String(), got.String())
	}
}

func TestLockSeatingWithoutPlan(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	if _, err := c.LockSeating(context.Background(), 1, nil); !response.IsPrecondition(err) {
		t.Errorf("expected precondition error, got %v", err)
	}
}

func TestGenerateSheetsAnnotatesPages(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"success","exam_name":"Mid-Term","sheets":[[{"name":"A","roll_number":"1","registration_number":"R1"}],[{"name":"B","roll_number":"2","registration_number":"R2"}]]}`)
	}))

	file := model.UploadedFile{ID: 5, Department: "CSE", Semester: 3}
	gen, err := c.GenerateSheets(context.Background(), 42, file)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gen.ExamName != "Mid-Term" || len(gen.Pages) != 2 {
		t.Fatalf("unexpected result: %+v", gen)
	}
	p := gen.Pages[1]
	if p.Branch != "CSE" || p.Semester != 3 || p.PageIndex != 1 || p.TotalSheets != 2 {
		t.Errorf("page metadata = %+v", p)
	}
}

func TestUploadStudentFile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("department") != "ECE" || r.FormValue("semester") != "2" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"file":   map[string]interface{}{"id": 11, "file_name": hdr.Filename, "department": "ECE", "year": 1, "semester": 2, "student_count": len(data)},
		})
	}))

	got, err := c.UploadStudentFile(context.Background(), "/tmp/ece.xlsx", strings.NewReader("abc"), model.UploadMeta{Year: 1, Semester: 2, Department: "ECE"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got.ID != 11 || got.FileName != "ece.xlsx" || got.StudentCount != 3 {
		t.Errorf("file = %+v", got)
	}
}
