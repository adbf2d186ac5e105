package wizard

import (
	"fmt"
	"strings"

	"github.com/stemsi/seatdesk/internal/apiclient"
	"github.com/stemsi/seatdesk/internal/collection"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// ExamSession is everything the exam setup page has entered or received.
// The page controller owns it and passes it by reference to each step.
type ExamSession struct {
	ExamID      int
	Details     ExamDetails
	Departments *DepartmentSet
	Rooms       *RoomList
	Files       *collection.Selection[int]
	Students    *model.SelectedFilesResult
	Seating     *apiclient.SeatingResult
	Summary     *model.ExamSummary
	Locked      bool
}

// NewExamSession returns an empty session for draft examID.
func NewExamSession(examID int) *ExamSession {
	return &ExamSession{
		ExamID:      examID,
		Departments: NewDepartmentSet(),
		Rooms:       &RoomList{},
		Files:       collection.NewSelection[int](collection.AtLeastOne),
	}
}

// FileSelections maps the selected roster ids, in pick order, to their
// departments. Ids missing from files are skipped.
func (s *ExamSession) FileSelections(files []model.UploadedFile) []model.FileSelection {
	byID := make(map[int]model.UploadedFile, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}

	out := make([]model.FileSelection, 0, s.Files.Len())
	for _, id := range s.Files.Keys() {
		if f, ok := byID[id]; ok {
			out = append(out, model.FileSelection{ID: f.ID, Department: f.Department})
		}
	}
	return out
}

// CheckStudentData requires a selected roster for every selected department.
func (s *ExamSession) CheckStudentData(files []model.UploadedFile) error {
	if err := s.Files.Valid(); err != nil {
		return err
	}

	selected := s.FileSelections(files)
	var missing []string
	for _, dept := range s.Departments.Selected() {
		found := false
		for _, f := range selected {
			if strings.EqualFold(f.Department, dept) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, dept)
		}
	}

	if len(missing) > 0 {
		return response.Precondition("student data", response.ErrMissingStudentData,
			fmt.Sprintf("No student data selected for: %s.", strings.Join(missing, ", ")))
	}
	return nil
}

// AttendanceSession is everything the attendance sheet page has entered or
// received.
type AttendanceSession struct {
	ExamID int
	Name   string
	Files  *collection.Selection[int]
	File   model.UploadedFile
	Sheets *model.GeneratedSheets
	// Saved is set once the previewed pages are on the server, so a retried
	// completion does not store them twice.
	Saved bool
}

// NewAttendanceSession returns an empty session for draft examID.
func NewAttendanceSession(examID int) *AttendanceSession {
	return &AttendanceSession{
		ExamID: examID,
		Files:  collection.NewSelection[int](collection.ExactlyOne),
	}
}

// NameReady requires a sheet batch name.
func (s *AttendanceSession) NameReady() error {
	if strings.TrimSpace(s.Name) == "" {
		return response.Precondition("attendance name", response.ErrIncompleteFields, "Enter the exam name.")
	}
	return nil
}
