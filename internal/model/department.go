package model

import "strings"

// DepartmentExam is one paper sat by a department.
type DepartmentExam struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Session   string `json:"session" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// Complete reports whether every field of the entry is filled in.
func (e DepartmentExam) Complete() bool {
	for _, v := range []string{e.Name, e.Code, e.Date, e.Session, e.StartTime, e.EndTime} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// DepartmentBatch groups the papers of one department.
type DepartmentBatch struct {
	Department string           `json:"department" binding:"required"`
	Exams      []DepartmentExam `json:"exams" binding:"required,min=1,dive"`
}

// AddDepartmentsRequest submits every selected department at once.
type AddDepartmentsRequest struct {
	ExamID      int               `json:"exam_id" binding:"required"`
	Departments []DepartmentBatch `json:"departments" binding:"required,min=1,dive"`
}

// DepartmentSummary is a department paper as reported by the exam summary.
type DepartmentSummary struct {
	Department string `json:"department"`
	ExamName   string `json:"exam_name"`
	PaperCode  string `json:"paper_code"`
	ExamDate   string `json:"exam_date"`
	Session    string `json:"session"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}
