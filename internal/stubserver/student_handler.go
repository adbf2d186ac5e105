package stubserver

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/sheet"
	"github.com/stemsi/seatdesk/internal/validator"
)

// StudentHandler serves roster uploads and listings.
type StudentHandler struct {
	store    *Store
	maxBytes int64
	log      zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(store *Store, maxBytes int64, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{store: store, maxBytes: maxBytes, log: log}
}

// UploadedFiles godoc
// GET /get_uploaded_files/
func (h *StudentHandler) UploadedFiles(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"files": h.store.Files()})
}

// Upload godoc
// POST /upload_student_data/ (multipart: file, year, semester, department)
func (h *StudentHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrUnsupportedFile, "Only .xlsx rosters are accepted")
		return
	}

	year, _ := strconv.Atoi(c.PostForm("year"))
	semester, _ := strconv.Atoi(c.PostForm("semester"))
	meta := model.UploadMeta{Year: year, Semester: semester, Department: strings.TrimSpace(c.PostForm("department"))}
	if fields := validator.Struct(meta); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(c, h.log, err)
		return
	}
	defer f.Close()

	students, err := sheet.ReadRoster(f)
	if err != nil {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, fmt.Sprintf("%s: %v", header.Filename, err))
		return
	}
	if len(students) == 0 {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrNoStudents, fmt.Sprintf("%s has no student rows", header.Filename))
		return
	}

	file := h.store.AddFile(filepath.Base(header.Filename), meta, students)
	h.log.Info().Int("file_id", file.ID).Int("students", file.StudentCount).Msg("Roster uploaded")
	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d students imported", file.StudentCount),
		"file":    file,
	})
}
