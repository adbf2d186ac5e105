package stubserver

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/validator"
)

// SheetHandler serves attendance sheet generation and history.
type SheetHandler struct {
	store *Store
	log   zerolog.Logger
}

// NewSheetHandler creates a new SheetHandler.
func NewSheetHandler(store *Store, log zerolog.Logger) *SheetHandler {
	return &SheetHandler{store: store, log: log}
}

// Generate godoc
// POST /generate-sheets/
func (h *SheetHandler) Generate(c *gin.Context) {
	var req model.GenerateSheetsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	name, pages, err := h.store.GenerateSheets(req.ExamID, req.FileID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam_name": name, "sheets": pages})
}

// Save godoc
// POST /save-generated-sheets/
func (h *SheetHandler) Save(c *gin.Context) {
	var req model.SaveSheetsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	var pages [][]model.Student
	if err := json.Unmarshal(req.Sheets, &pages); err != nil {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, "sheets must be the generated pages array")
		return
	}
	if err := h.store.SaveSheets(req.ExamID, req.FileID, pages); err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Attendance sheets saved"})
}

// List godoc
// GET /get-generated-sheets/
func (h *SheetHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"sheets": h.store.SheetRecords()})
}
