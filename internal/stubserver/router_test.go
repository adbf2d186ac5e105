package stubserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/apiclient"
	"github.com/stemsi/seatdesk/internal/config"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/validator"
	"github.com/xuri/excelize/v2"
)

func testConfig() *config.Config {
	return &config.Config{
		CSRFCookieName: "csrftoken",
		CSRFHeaderName: "X-CSRFToken",
		RequestTimeout: 5 * time.Second,
		GinMode:        gin.TestMode,
		AdminUsername:  "admin",
		AdminPassword:  "secret",
		SessionSecret:  "test-secret",
		SessionExpiry:  time.Hour,
		BcryptCost:     4,
		MaxUploadBytes: 1 << 20,
	}
}

// newStub starts the stub server and returns a client that is not logged in.
func newStub(t *testing.T) (*httptest.Server, *apiclient.Client) {
	t.Helper()
	validator.Setup()

	cfg := testConfig()
	auth, err := NewAuth(cfg)
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	store := NewStore()
	srv := httptest.NewServer(SetupRouter(auth, NewHandlers(cfg, store, auth, zerolog.Nop()), cfg, zerolog.Nop()))
	t.Cleanup(srv.Close)

	clientCfg := *cfg
	clientCfg.ServerURL = srv.URL
	c, err := apiclient.New(&clientCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return srv, c
}

func loggedIn(t *testing.T) (*httptest.Server, *apiclient.Client) {
	t.Helper()
	srv, c := newStub(t)
	if err := c.Login(context.Background(), "admin", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return srv, c
}

func rosterXLSX(t *testing.T, regs ...string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	header := []interface{}{"Name", "Roll No", "Registration Number"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatalf("header: %v", err)
	}
	for i, reg := range regs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{"Student " + reg, i + 1, reg}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("row: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	return &buf
}

func TestSessionRequired(t *testing.T) {
	_, c := newStub(t)
	ctx := context.Background()

	_, err := c.InitDraft(ctx)
	if !response.IsApplication(err) || response.CodeOf(err) != response.ErrLoginRequired {
		t.Fatalf("init without login = %v", err)
	}

	err = c.Login(ctx, "admin", "wrong")
	if response.CodeOf(err) != response.ErrInvalidCredentials {
		t.Fatalf("bad password = %v", err)
	}

	if err := c.Login(ctx, "admin", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.InitDraft(ctx); err != nil {
		t.Fatalf("init after login: %v", err)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := c.InitDraft(ctx); response.CodeOf(err) != response.ErrLoginRequired {
		t.Errorf("init after logout = %v", err)
	}
}

func TestCSRFHeaderRequired(t *testing.T) {
	srv, _ := newStub(t)

	resp, err := http.Post(srv.URL+"/admin-login/", "application/json", strings.NewReader(`{"username":"admin","password":"secret"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	var env response.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.OK() || env.Code != response.ErrCSRFFailed {
		t.Errorf("envelope = %+v", env)
	}

	var issued bool
	for _, ck := range resp.Cookies() {
		if ck.Name == "csrftoken" && ck.Value != "" {
			issued = true
		}
	}
	if !issued {
		t.Error("rejected request should still receive a csrf cookie")
	}
}

func TestExamSetupRoundTrip(t *testing.T) {
	_, c := loggedIn(t)
	ctx := context.Background()

	id, err := c.InitDraft(ctx)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := c.UpdateDraft(ctx, id, "Mid-Term"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := c.SaveExamDetails(ctx, model.CreateExamRequest{ExamID: id, Name: "Mid-Term", StartDate: "2025-03-01", EndDate: "2025-03-05"}); err != nil {
		t.Fatalf("details: %v", err)
	}

	paper := model.DepartmentExam{Name: "Maths", Code: "MA101", Date: "2025-03-02", Session: "1st Half", StartTime: "09:00", EndTime: "12:00"}
	err = c.AddDepartments(ctx, model.AddDepartmentsRequest{ExamID: id, Departments: []model.DepartmentBatch{{Department: "CSE", Exams: []model.DepartmentExam{paper}}}})
	if err != nil {
		t.Fatalf("departments: %v", err)
	}

	late := paper
	late.Date = "2025-04-01"
	err = c.AddDepartments(ctx, model.AddDepartmentsRequest{ExamID: id, Departments: []model.DepartmentBatch{{Department: "CSE", Exams: []model.DepartmentExam{late}}}})
	if response.CodeOf(err) != response.ErrDateOutOfRange {
		t.Errorf("paper outside exam dates = %v", err)
	}

	err = c.AddRooms(ctx, model.AddRoomsRequest{ExamID: id, Rooms: []model.Room{{Building: "Main", RoomNumber: "Main", Capacity: 10}}})
	if response.CodeOf(err) != response.ErrValidation {
		t.Errorf("room named after building = %v", err)
	}
	if err := c.AddRooms(ctx, model.AddRoomsRequest{ExamID: id, Rooms: []model.Room{{Building: "Main", RoomNumber: "101", Capacity: 10}}}); err != nil {
		t.Fatalf("rooms: %v", err)
	}

	file, err := c.UploadStudentFile(ctx, "cse.xlsx", rosterXLSX(t, "R1", "R2", "R3"), model.UploadMeta{Year: 2, Semester: 3, Department: "cse"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if file.StudentCount != 3 || file.Department != "CSE" {
		t.Fatalf("file = %+v", file)
	}
	files, err := c.UploadedFiles(ctx)
	if err != nil || len(files) != 1 {
		t.Fatalf("files = %+v, %v", files, err)
	}

	sel, err := c.SaveSelectedFiles(ctx, model.SaveSelectedFilesRequest{ExamID: id, SelectedFiles: []model.FileSelection{{ID: file.ID, Department: "CSE"}}})
	if err != nil || sel.TotalStudents != 3 {
		t.Fatalf("select = %+v, %v", sel, err)
	}

	seating, err := c.GenerateSeating(ctx, id)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if seating.Plan.TotalSeatsAllocated != 3 || seating.Plan.Rooms[0].Seats[0].ExamName != "Maths" {
		t.Fatalf("plan = %+v", seating.Plan)
	}
	if _, err := c.LockSeating(ctx, id, seating); err != nil {
		t.Fatalf("lock: %v", err)
	}

	summary, err := c.ExamSummary(ctx, id)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Exam.Name != "Mid-Term" || len(summary.Seating) != 3 || summary.TotalStudents != 3 || len(summary.Departments) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Seating[0].Semester != 3 {
		t.Errorf("seat semester = %d", summary.Seating[0].Semester)
	}

	done, err := c.CompleteDraft(ctx, id)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.DashboardURL == "" || !strings.Contains(done.Message, "Mid-Term") {
		t.Errorf("complete = %+v", done)
	}

	exams, err := c.ListExams(ctx)
	if err != nil || len(exams) != 1 || exams[0].StudentCount != 3 {
		t.Fatalf("exams = %+v, %v", exams, err)
	}

	roomID := summary.Rooms[0].ID
	res, err := c.MutateSeat(ctx, model.SeatMutation{RoomID: roomID, Seat: "A1"})
	if err != nil || res.Action != model.SeatRemoved {
		t.Fatalf("clear seat = %+v, %v", res, err)
	}
	details, err := c.RoomDetails(ctx, roomID)
	if err != nil || len(details.Allocations) != 2 || len(details.ExamStudents) != 3 {
		t.Fatalf("room details = %+v, %v", details, err)
	}

	if err := c.DeleteRoom(ctx, roomID); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	if _, err := c.RoomDetails(ctx, roomID); response.CodeOf(err) != response.ErrNotFound {
		t.Errorf("deleted room = %v", err)
	}

	if err := c.DeleteExam(ctx, id); err != nil {
		t.Fatalf("delete exam: %v", err)
	}
	if exams, _ := c.ListExams(ctx); len(exams) != 0 {
		t.Errorf("exams after delete = %+v", exams)
	}
}

func TestAttendanceSheetsRoundTrip(t *testing.T) {
	_, c := loggedIn(t)
	ctx := context.Background()

	regs := make([]string, 25)
	for i := range regs {
		regs[i] = "R" + string(rune('A'+i))
	}
	file, err := c.UploadStudentFile(ctx, "it.xlsx", rosterXLSX(t, regs...), model.UploadMeta{Year: 1, Semester: 2, Department: "IT"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	id, err := c.InitDraft(ctx)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := c.UpdateDraft(ctx, id, "Finals"); err != nil {
		t.Fatalf("update: %v", err)
	}

	gen, err := c.GenerateSheets(ctx, id, *file)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gen.ExamName != "Finals" || len(gen.Pages) != 2 || len(gen.Pages[1].Students) != 5 {
		t.Fatalf("sheets = %+v", gen)
	}
	if err := c.SaveSheets(ctx, id, file.ID, gen); err != nil {
		t.Fatalf("save: %v", err)
	}

	recs, err := c.GeneratedSheets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 || recs[0].SheetCount != 2 || recs[0].StudentCount != 25 || recs[0].FileName != "it.xlsx" {
		t.Errorf("records = %+v", recs)
	}
}

func TestUploadRejections(t *testing.T) {
	_, c := loggedIn(t)
	ctx := context.Background()
	meta := model.UploadMeta{Year: 1, Semester: 1, Department: "CSE"}

	tests := []struct {
		name    string
		file    string
		content *bytes.Buffer
		meta    model.UploadMeta
		code    response.ErrCode
	}{
		{"csv file", "cse.csv", bytes.NewBufferString("a,b"), meta, response.ErrUnsupportedFile},
		{"not a workbook", "cse.xlsx", bytes.NewBufferString("garbage"), meta, response.ErrInvalidPayload},
		{"semester out of range", "cse.xlsx", rosterXLSX(t, "R1"), model.UploadMeta{Year: 1, Semester: 9, Department: "CSE"}, response.ErrValidation},
		{"no rows", "cse.xlsx", rosterXLSX(t), meta, response.ErrNoStudents},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.UploadStudentFile(ctx, tt.file, tt.content, tt.meta)
			if response.CodeOf(err) != tt.code {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}
