package model

// UploadedFile is a student roster previously uploaded to the server.
type UploadedFile struct {
	ID           int    `json:"id"`
	FileName     string `json:"file_name"`
	Year         Term   `json:"year"`
	Semester     Term   `json:"semester"`
	Department   string `json:"department"`
	StudentCount int    `json:"student_count,omitempty"`
	UploadedAt   string `json:"uploaded_at,omitempty"`
}

// UploadMeta describes a roster being uploaded.
type UploadMeta struct {
	Year       int    `json:"year" binding:"required,min=1,max=4"`
	Semester   int    `json:"semester" binding:"required,min=1,max=8"`
	Department string `json:"department" binding:"required"`
}

// FileSelection assigns one roster to a department of the draft.
type FileSelection struct {
	ID         int    `json:"id" binding:"required"`
	Department string `json:"department" binding:"required"`
}

// SaveSelectedFilesRequest attaches rosters to a draft.
type SaveSelectedFilesRequest struct {
	ExamID        int             `json:"exam_id" binding:"required"`
	SelectedFiles []FileSelection `json:"selected_files" binding:"required,min=1,dive"`
}

// SelectedFilesResult echoes the attached rosters.
type SelectedFilesResult struct {
	Files         []UploadedFile `json:"files"`
	TotalStudents int            `json:"total_students"`
}

// Student is a roster row.
type Student struct {
	Name               string `json:"name"`
	RollNumber         string `json:"roll_number"`
	RegistrationNumber string `json:"registration_number"`
}

// ExamStudent is a student enrolled in an exam, offered by the seat editor.
type ExamStudent struct {
	ID                 int    `json:"id"`
	RegistrationNumber string `json:"registration_number"`
	Name               string `json:"name"`
	Department         string `json:"department"`
}
