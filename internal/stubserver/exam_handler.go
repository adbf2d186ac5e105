package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/validator"
)

// ExamHandler serves draft lifecycle, exam setup and exam views.
type ExamHandler struct {
	store        *Store
	dashboardURL string
	log          zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(store *Store, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{store: store, dashboardURL: "/dashboard/", log: log}
}

// ─── Drafts ────────────────────────────────────────────────────────────

// InitDraft godoc
// GET /init-temp-exam/
func (h *ExamHandler) InitDraft(c *gin.Context) {
	id := h.store.InitDraft()
	h.log.Debug().Int("exam_id", id).Msg("Draft created")
	response.Success(c, http.StatusOK, gin.H{"exam_id": id})
}

// UpdateDraft godoc
// POST /update-temp-exam/
func (h *ExamHandler) UpdateDraft(c *gin.Context) {
	var req model.UpdateDraftRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if err := h.store.UpdateDraft(req.ExamID, req.Name); err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Draft updated"})
}

// DeleteDraft godoc
// POST /delete-temp-exam/
func (h *ExamHandler) DeleteDraft(c *gin.Context) {
	var req model.ExamIDRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.store.DeleteDraft(req.ExamID)
	response.Success(c, http.StatusOK, gin.H{"message": "Draft deleted"})
}

// CompleteDraft godoc
// POST /complete-exam-setup/
func (h *ExamHandler) CompleteDraft(c *gin.Context) {
	var req model.ExamIDRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	name, err := h.store.CompleteDraft(req.ExamID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Exam %q saved successfully", name),
		"dashboard_url": h.dashboardURL,
	})
}

// ─── Setup ─────────────────────────────────────────────────────────────

// CreateExam godoc
// POST /create_exam/
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if err := h.store.SaveDetails(req); err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Exam details saved"})
}

// AddDepartments godoc
// POST /add_departments/
func (h *ExamHandler) AddDepartments(c *gin.Context) {
	var req model.AddDepartmentsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	papers, err := h.store.AddDepartments(req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": fmt.Sprintf("%d exams added", papers)})
}

// AddRooms godoc
// POST /add_rooms/
func (h *ExamHandler) AddRooms(c *gin.Context) {
	var req model.AddRoomsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	rooms, err := h.store.AddRooms(req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": fmt.Sprintf("%d rooms added", len(rooms)), "rooms": rooms})
}

// DeleteRoom godoc
// POST /delete_room/
func (h *ExamHandler) DeleteRoom(c *gin.Context) {
	var req model.RoomIDRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if err := h.store.DeleteRoom(req.RoomID); err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Room deleted"})
}

// SaveSelectedFiles godoc
// POST /save_selected_files/
func (h *ExamHandler) SaveSelectedFiles(c *gin.Context) {
	var req model.SaveSelectedFilesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	res, err := h.store.SelectFiles(req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"files": res.Files, "total_students": res.TotalStudents})
}

// ─── Seating ───────────────────────────────────────────────────────────

// GenerateSeating godoc
// POST /generate_seating/
func (h *ExamHandler) GenerateSeating(c *gin.Context) {
	var req model.ExamIDRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	plan, err := h.store.GenerateSeating(req.ExamID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"rooms":                 plan.Rooms,
		"total_students":        plan.TotalStudents,
		"total_seats_allocated": plan.TotalSeatsAllocated,
		"total_rooms":           plan.TotalRooms,
	})
}

// LockSeating godoc
// POST /lock_seating/
func (h *ExamHandler) LockSeating(c *gin.Context) {
	var req model.LockSeatingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	var rooms []model.SeatingRoom
	if err := json.Unmarshal(req.SeatingData, &rooms); err != nil {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, "seating_data must be the generated rooms array")
		return
	}
	seats, err := h.store.LockSeating(req.ExamID, rooms)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": fmt.Sprintf("Seating locked: %d seats allocated", seats)})
}

// ─── Views ─────────────────────────────────────────────────────────────

// ExamSummary godoc
// GET /get_exam_summary/?exam_id=
func (h *ExamHandler) ExamSummary(c *gin.Context) {
	id, ok := queryID(c, "exam_id")
	if !ok {
		return
	}
	s, err := h.store.Summary(id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"exam":                  s.Exam,
		"departments":           s.Departments,
		"rooms":                 s.Rooms,
		"student_files":         s.StudentFiles,
		"seating":               s.Seating,
		"total_students":        s.TotalStudents,
		"total_seats_allocated": s.TotalSeatsAllocated,
	})
}

// RoomDetails godoc
// GET /get_room_details/?room_id=
func (h *ExamHandler) RoomDetails(c *gin.Context) {
	id, ok := queryID(c, "room_id")
	if !ok {
		return
	}
	d, err := h.store.RoomDetails(id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": d.Room, "allocations": d.Allocations, "exam_students": d.ExamStudents})
}

// MutateSeat godoc
// POST /add_student_to_seat/
func (h *ExamHandler) MutateSeat(c *gin.Context) {
	var req model.SeatMutation
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	action, err := h.store.MutateSeat(req)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"action":  action,
		"seat":    req.Seat,
		"message": fmt.Sprintf("Seat %s %s", req.Seat, action),
	})
}

// ListExams godoc
// GET /get_all_exams/
func (h *ExamHandler) ListExams(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"exams": h.store.ListExams()})
}

// DeleteExam godoc
// POST /delete_exam/
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	var req model.ExamIDRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if err := h.store.DeleteExam(req.ExamID); err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Exam deleted"})
}
