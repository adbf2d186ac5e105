package model

import "encoding/json"

// SummarySeat is a locked allocation as listed by the exam summary.
type SummarySeat struct {
	RegistrationNumber string `json:"registration_number"`
	Department         string `json:"department"`
	SeatCode           string `json:"seat_code"`
	RoomBuilding       string `json:"room_building"`
	RoomNumber         string `json:"room_number"`
	ExamDate           string `json:"exam_date"`
	Session            string `json:"exam_session"`
	ExamName           string `json:"exam_name"`
	Semester           Term   `json:"semester"`
	Year               Term   `json:"year"`
}

// Allocation converts the summary row into the grid's seat record.
func (s SummarySeat) Allocation() Allocation {
	row, col := SplitSeatCode(s.SeatCode)
	return Allocation{
		RegistrationNumber: s.RegistrationNumber,
		Department:         s.Department,
		SeatCode:           s.SeatCode,
		Row:                row,
		Column:             col,
		ExamDate:           s.ExamDate,
		Session:            s.Session,
		ExamName:           s.ExamName,
	}
}

// ExamSummary is the get_exam_summary payload.
type ExamSummary struct {
	Exam                Exam                `json:"exam"`
	Departments         []DepartmentSummary `json:"departments"`
	Rooms               []Room              `json:"rooms"`
	StudentFiles        []UploadedFile      `json:"student_files"`
	Seating             []SummarySeat       `json:"seating"`
	TotalStudents       int                 `json:"total_students"`
	TotalSeatsAllocated int                 `json:"total_seats_allocated"`
}

// RoomSeats returns the seating rows that belong to room.
func (s *ExamSummary) RoomSeats(room Room) []Allocation {
	var out []Allocation
	for _, seat := range s.Seating {
		if seat.RoomBuilding == room.Building && seat.RoomNumber == room.RoomNumber {
			out = append(out, seat.Allocation())
		}
	}
	return out
}

// LockSeatingRequest locks the plan exactly as generated.
type LockSeatingRequest struct {
	ExamID      int             `json:"exam_id" binding:"required"`
	SeatingData json.RawMessage `json:"seating_data" binding:"required"`
}
