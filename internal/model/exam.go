package model

// ExamStatus is derived by the server from today's date against the exam window.
type ExamStatus string

const (
	ExamStatusUpcoming   ExamStatus = "upcoming"
	ExamStatusOngoing    ExamStatus = "ongoing"
	ExamStatusExpired    ExamStatus = "expired"
	ExamStatusIncomplete ExamStatus = "incomplete"
)

// DateLayout is the wire format of every calendar date.
const DateLayout = "2006-01-02"

// Exam is the header of an exam, draft or permanent.
type Exam struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ExamListItem is one row of the permanent exams table.
type ExamListItem struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Departments  []string   `json:"departments"`
	StudentCount int        `json:"student_count"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	DurationDays *int       `json:"duration_days"`
	Status       ExamStatus `json:"status"`
}

// ExamIDRequest is the body of every call that only names a draft.
type ExamIDRequest struct {
	ExamID int `json:"exam_id" binding:"required"`
}

// UpdateDraftRequest renames a draft.
type UpdateDraftRequest struct {
	ExamID int    `json:"exam_id" binding:"required"`
	Name   string `json:"name" binding:"required,max=255"`
}

// CreateExamRequest is the payload of the exam details step.
type CreateExamRequest struct {
	ExamID    int    `json:"exam_id" binding:"required"`
	Name      string `json:"name" binding:"required,max=255"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// CompleteResult is returned when a draft is made permanent.
type CompleteResult struct {
	Message      string `json:"message"`
	DashboardURL string `json:"dashboard_url"`
}
