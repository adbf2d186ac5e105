package model

// GeneratedSeat is a seat assignment proposed by seating generation.
type GeneratedSeat struct {
	Seat         string `json:"seat"`
	Row          string `json:"row"`
	Column       int    `json:"column"`
	Registration string `json:"registration"`
	Department   string `json:"department"`
	ExamName     string `json:"exam_name"`
	ExamDate     string `json:"exam_date"`
	Session      string `json:"session"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// Allocation converts the proposal into the grid's seat record.
func (s GeneratedSeat) Allocation() Allocation {
	return Allocation{
		SeatCode:           s.Seat,
		Row:                s.Row,
		Column:             s.Column,
		RegistrationNumber: s.Registration,
		Department:         s.Department,
		ExamName:           s.ExamName,
		ExamDate:           s.ExamDate,
		Session:            s.Session,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
	}
}

// SeatingRoom is one room of a generated seating plan.
type SeatingRoom struct {
	ID          int             `json:"id"`
	Building    string          `json:"building"`
	RoomNumber  string          `json:"room_number"`
	Capacity    int             `json:"capacity"`
	Departments []string        `json:"departments"`
	Seats       []GeneratedSeat `json:"seats"`
}

// Allocations returns the room's seats in server order.
func (r SeatingRoom) Allocations() []Allocation {
	out := make([]Allocation, 0, len(r.Seats))
	for _, s := range r.Seats {
		out = append(out, s.Allocation())
	}
	return out
}

// SeatingPlan is the generate_seating payload.
type SeatingPlan struct {
	Rooms               []SeatingRoom `json:"rooms"`
	TotalStudents       int           `json:"total_students"`
	TotalSeatsAllocated int           `json:"total_seats_allocated"`
	TotalRooms          int           `json:"total_rooms"`
}

// Allocation is a stored seat assignment inside a room.
type Allocation struct {
	RegistrationNumber string `json:"registration_number"`
	Department         string `json:"department"`
	SeatCode           string `json:"seat_code"`
	Row                string `json:"row"`
	Column             int    `json:"column"`
	ExamDate           string `json:"exam_date"`
	Session            string `json:"exam_session"`
	ExamName           string `json:"exam_name"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
}

// RoomDetails is the get_room_details payload.
type RoomDetails struct {
	Room         Room          `json:"room"`
	Allocations  []Allocation  `json:"allocations"`
	ExamStudents []ExamStudent `json:"exam_students"`
}

// SeatAction is what the server did with a seat mutation.
type SeatAction string

const (
	SeatCreated SeatAction = "created"
	SeatUpdated SeatAction = "updated"
	SeatRemoved SeatAction = "removed"
)

// SeatMutation upserts a seat, or clears it when Registration is empty.
type SeatMutation struct {
	RoomID       int    `json:"room_id" binding:"required"`
	Seat         string `json:"seat" binding:"required"`
	Registration string `json:"registration"`
	Department   string `json:"department"`
	ExamName     string `json:"exam_name" binding:"required_with=Registration"`
	ExamDate     string `json:"exam_date" binding:"required_with=Registration"`
	Session      string `json:"exam_session"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Semester     string `json:"semester"`
	Year         string `json:"year"`
	Row          string `json:"row"`
	Column       int    `json:"column"`
}

// SeatMutationResult reports the applied action.
type SeatMutationResult struct {
	Action  SeatAction `json:"action"`
	Seat    string     `json:"seat"`
	Message string     `json:"message"`
}
