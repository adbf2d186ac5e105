package stubserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

const timestampLayout = "2006-01-02 15:04"

type examRecord struct {
	model.Exam
	Temporary   bool
	Departments []model.DepartmentBatch
	Rooms       []model.Room
	Files       []model.FileSelection
	// Seats maps room id → seat code → allocation.
	Seats     map[int]map[string]model.Allocation
	CreatedAt time.Time
}

type fileRecord struct {
	model.UploadedFile
	Students []model.Student
}

// Store keeps every record in memory. All methods are safe for concurrent
// use.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	exams     map[int]*examRecord
	files     map[int]*fileRecord
	fileOrder []int
	sheets    []model.SheetRecord

	nextExam int
	nextRoom int
	nextFile int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		exams:    make(map[int]*examRecord),
		files:    make(map[int]*fileRecord),
		nextExam: 1,
		nextRoom: 1,
		nextFile: 1,
	}
}

// ─── Drafts ────────────────────────────────────────────────────────────

// InitDraft creates a temporary exam and returns its id.
func (s *Store) InitDraft() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextExam
	s.nextExam++
	s.exams[id] = &examRecord{
		Exam:      model.Exam{ID: id},
		Temporary: true,
		Seats:     make(map[int]map[string]model.Allocation),
		CreatedAt: s.now(),
	}
	return id
}

// UpdateDraft renames a temporary exam.
func (s *Store) UpdateDraft(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.draft(id)
	if err != nil {
		return err
	}
	e.Name = strings.TrimSpace(name)
	return nil
}

// DeleteDraft removes a temporary exam. Unknown ids count as already
// deleted and completed exams are left alone.
func (s *Store) DeleteDraft(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.exams[id]; ok && e.Temporary {
		delete(s.exams, id)
	}
}

// CompleteDraft makes a temporary exam permanent.
func (s *Store) CompleteDraft(id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.draft(id)
	if err != nil {
		return "", err
	}
	if e.Name == "" {
		e.Name = "Untitled exam"
	}
	e.Temporary = false
	return e.Name, nil
}

func (s *Store) draft(id int) (*examRecord, error) {
	e, ok := s.exams[id]
	if !ok || !e.Temporary {
		return nil, notFound("Temporary exam %d not found", id)
	}
	return e, nil
}

func (s *Store) exam(id int) (*examRecord, error) {
	e, ok := s.exams[id]
	if !ok {
		return nil, notFound("Exam %d not found", id)
	}
	return e, nil
}

// ─── Exam setup ────────────────────────────────────────────────────────

// SaveDetails stores the name and date range.
func (s *Store) SaveDetails(req model.CreateExamRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.exam(req.ExamID)
	if err != nil {
		return err
	}
	if req.StartDate > req.EndDate {
		return invalid(response.ErrInvalidDateRange, "Start date must be on or before the end date")
	}
	e.Name = strings.TrimSpace(req.Name)
	e.StartDate = req.StartDate
	e.EndDate = req.EndDate
	return nil
}

// AddDepartments replaces the department papers of an exam.
func (s *Store) AddDepartments(req model.AddDepartmentsRequest) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.exam(req.ExamID)
	if err != nil {
		return 0, err
	}
	papers := 0
	for _, d := range req.Departments {
		for _, p := range d.Exams {
			if e.StartDate != "" && (p.Date < e.StartDate || p.Date > e.EndDate) {
				return 0, invalid(response.ErrDateOutOfRange, "%s (%s) on %s is outside the exam dates", p.Name, d.Department, p.Date)
			}
			papers++
		}
	}
	e.Departments = req.Departments
	return papers, nil
}

// AddRooms replaces the rooms of an exam and assigns them ids.
func (s *Store) AddRooms(req model.AddRoomsRequest) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.exam(req.ExamID)
	if err != nil {
		return nil, err
	}
	for i, r := range req.Rooms {
		for _, other := range req.Rooms[:i] {
			if r.SameSlot(other) {
				return nil, conflict("Room %s in %s is listed twice", r.RoomNumber, r.Building)
			}
		}
	}

	rooms := make([]model.Room, len(req.Rooms))
	for i, r := range req.Rooms {
		r.ID = s.nextRoom
		s.nextRoom++
		rooms[i] = r
	}
	e.Rooms = rooms
	e.Seats = make(map[int]map[string]model.Allocation)
	return append([]model.Room(nil), rooms...), nil
}

// DeleteRoom removes a room and its seats from whichever exam holds it.
func (s *Store) DeleteRoom(roomID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, idx, err := s.room(roomID)
	if err != nil {
		return err
	}
	e.Rooms = append(e.Rooms[:idx], e.Rooms[idx+1:]...)
	delete(e.Seats, roomID)
	return nil
}

func (s *Store) room(roomID int) (*examRecord, int, error) {
	for _, e := range s.exams {
		for i, r := range e.Rooms {
			if r.ID == roomID {
				return e, i, nil
			}
		}
	}
	return nil, 0, notFound("Room %d not found", roomID)
}

// ─── Student data ──────────────────────────────────────────────────────

// AddFile stores an uploaded roster.
func (s *Store) AddFile(name string, meta model.UploadMeta, students []model.Student) model.UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &fileRecord{
		UploadedFile: model.UploadedFile{
			ID:           s.nextFile,
			FileName:     name,
			Year:         model.Term(meta.Year),
			Semester:     model.Term(meta.Semester),
			Department:   strings.ToUpper(strings.TrimSpace(meta.Department)),
			StudentCount: len(students),
			UploadedAt:   s.now().Format(timestampLayout),
		},
		Students: students,
	}
	s.nextFile++
	s.files[f.ID] = f
	s.fileOrder = append(s.fileOrder, f.ID)
	return f.UploadedFile
}

// Files lists uploaded rosters, newest first.
func (s *Store) Files() []model.UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.UploadedFile, 0, len(s.fileOrder))
	for i := len(s.fileOrder) - 1; i >= 0; i-- {
		out = append(out, s.files[s.fileOrder[i]].UploadedFile)
	}
	return out
}

// SelectFiles attaches rosters to an exam.
func (s *Store) SelectFiles(req model.SaveSelectedFilesRequest) (model.SelectedFilesResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res model.SelectedFilesResult
	e, err := s.exam(req.ExamID)
	if err != nil {
		return res, err
	}
	for _, sel := range req.SelectedFiles {
		f, ok := s.files[sel.ID]
		if !ok {
			return res, notFound("File %d not found", sel.ID)
		}
		if !strings.EqualFold(f.Department, sel.Department) {
			return res, invalid(response.ErrValidation, "%s belongs to %s, not %s", f.FileName, f.Department, sel.Department)
		}
		res.Files = append(res.Files, f.UploadedFile)
		res.TotalStudents += f.StudentCount
	}
	e.Files = req.SelectedFiles
	return res, nil
}

// ─── Seating ───────────────────────────────────────────────────────────

type seatQueue struct {
	dept     string
	paper    model.DepartmentExam
	students []model.Student
}

// GenerateSeating proposes a plan without storing it. Each column of a room
// takes one department, rotating through departments that still have
// students, and is filled front to back. Students that do not fit stay
// unseated.
func (s *Store) GenerateSeating(examID int) (model.SeatingPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var plan model.SeatingPlan
	e, err := s.exam(examID)
	if err != nil {
		return plan, err
	}
	if len(e.Rooms) == 0 {
		return plan, invalid(response.ErrValidation, "Add rooms before generating seating")
	}
	queues := s.queues(e)
	if len(queues) == 0 {
		return plan, invalid(response.ErrNoStudents, "No students selected for this exam")
	}
	for _, q := range queues {
		plan.TotalStudents += len(q.students)
	}

	next := 0
	for _, room := range e.Rooms {
		sr := model.SeatingRoom{ID: room.ID, Building: room.Building, RoomNumber: room.RoomNumber, Capacity: room.Capacity, Seats: []model.GeneratedSeat{}}
		rows := (room.Capacity + 4) / 5
		for col := 1; col <= 5; col++ {
			q := pickQueue(queues, &next)
			if q == nil {
				break
			}
			for r := 0; r < rows && len(q.students) > 0; r++ {
				if r*5+col > room.Capacity {
					break
				}
				st := q.students[0]
				q.students = q.students[1:]
				row := model.RowLetter(r)
				sr.Seats = append(sr.Seats, model.GeneratedSeat{
					Seat:         model.SeatCode(row, col),
					Row:          row,
					Column:       col,
					Registration: st.RegistrationNumber,
					Department:   q.dept,
					ExamName:     q.paper.Name,
					ExamDate:     q.paper.Date,
					Session:      q.paper.Session,
					StartTime:    q.paper.StartTime,
					EndTime:      q.paper.EndTime,
				})
			}
			if !contains(sr.Departments, q.dept) {
				sr.Departments = append(sr.Departments, q.dept)
			}
		}
		sort.SliceStable(sr.Seats, func(i, j int) bool { return seatLess(sr.Seats[i].Seat, sr.Seats[j].Seat) })
		plan.TotalSeatsAllocated += len(sr.Seats)
		plan.Rooms = append(plan.Rooms, sr)
	}
	plan.TotalRooms = len(plan.Rooms)
	return plan, nil
}

func (s *Store) queues(e *examRecord) []*seatQueue {
	var out []*seatQueue
	byDept := make(map[string]*seatQueue)
	for _, sel := range e.Files {
		f, ok := s.files[sel.ID]
		if !ok || len(f.Students) == 0 {
			continue
		}
		q, ok := byDept[f.Department]
		if !ok {
			q = &seatQueue{dept: f.Department, paper: firstPaper(e.Departments, f.Department)}
			byDept[f.Department] = q
			out = append(out, q)
		}
		q.students = append(q.students, f.Students...)
	}
	return out
}

func pickQueue(queues []*seatQueue, next *int) *seatQueue {
	for range queues {
		q := queues[*next%len(queues)]
		*next++
		if len(q.students) > 0 {
			return q
		}
	}
	return nil
}

func firstPaper(batches []model.DepartmentBatch, dept string) model.DepartmentExam {
	for _, b := range batches {
		if strings.EqualFold(b.Department, dept) && len(b.Exams) > 0 {
			return b.Exams[0]
		}
	}
	return model.DepartmentExam{}
}

// LockSeating stores a plan as submitted and returns the number of seats.
func (s *Store) LockSeating(examID int, rooms []model.SeatingRoom) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.exam(examID)
	if err != nil {
		return 0, err
	}
	known := make(map[int]bool, len(e.Rooms))
	for _, r := range e.Rooms {
		known[r.ID] = true
	}

	seats := make(map[int]map[string]model.Allocation, len(rooms))
	total := 0
	for _, r := range rooms {
		if !known[r.ID] {
			return 0, notFound("Room %d is not part of this exam", r.ID)
		}
		m := make(map[string]model.Allocation, len(r.Seats))
		for _, seat := range r.Seats {
			m[seat.Seat] = seat.Allocation()
		}
		seats[r.ID] = m
		total += len(m)
	}
	e.Seats = seats
	return total, nil
}

// ─── Views ─────────────────────────────────────────────────────────────

// Summary assembles the exam summary.
func (s *Store) Summary(examID int) (model.ExamSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out model.ExamSummary
	e, err := s.exam(examID)
	if err != nil {
		return out, err
	}

	out.Exam = e.Exam
	out.Rooms = append([]model.Room{}, e.Rooms...)
	out.Departments = []model.DepartmentSummary{}
	for _, b := range e.Departments {
		for _, p := range b.Exams {
			out.Departments = append(out.Departments, model.DepartmentSummary{
				Department: b.Department, ExamName: p.Name, PaperCode: p.Code,
				ExamDate: p.Date, Session: p.Session, StartTime: p.StartTime, EndTime: p.EndTime,
			})
		}
	}

	reg := make(map[string]*fileRecord)
	out.StudentFiles = []model.UploadedFile{}
	for _, sel := range e.Files {
		if f, ok := s.files[sel.ID]; ok {
			out.StudentFiles = append(out.StudentFiles, f.UploadedFile)
			out.TotalStudents += f.StudentCount
			for _, st := range f.Students {
				reg[st.RegistrationNumber] = f
			}
		}
	}

	out.Seating = []model.SummarySeat{}
	for _, room := range e.Rooms {
		for _, a := range sortedAllocations(e.Seats[room.ID]) {
			seat := model.SummarySeat{
				RegistrationNumber: a.RegistrationNumber, Department: a.Department, SeatCode: a.SeatCode,
				RoomBuilding: room.Building, RoomNumber: room.RoomNumber,
				ExamDate: a.ExamDate, Session: a.Session, ExamName: a.ExamName,
			}
			if f, ok := reg[a.RegistrationNumber]; ok {
				seat.Semester, seat.Year = f.Semester, f.Year
			}
			out.Seating = append(out.Seating, seat)
		}
	}
	out.TotalSeatsAllocated = len(out.Seating)
	return out, nil
}

// RoomDetails returns a room, its seats and the exam's students.
func (s *Store) RoomDetails(roomID int) (model.RoomDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out model.RoomDetails
	e, idx, err := s.room(roomID)
	if err != nil {
		return out, err
	}
	out.Room = e.Rooms[idx]
	out.Allocations = sortedAllocations(e.Seats[roomID])
	out.ExamStudents = []model.ExamStudent{}
	for _, sel := range e.Files {
		f, ok := s.files[sel.ID]
		if !ok {
			continue
		}
		for i, st := range f.Students {
			out.ExamStudents = append(out.ExamStudents, model.ExamStudent{
				ID: f.ID*100000 + i + 1, RegistrationNumber: st.RegistrationNumber, Name: st.Name, Department: f.Department,
			})
		}
	}
	return out, nil
}

// MutateSeat upserts one seat, or clears it when the registration is empty.
func (s *Store) MutateSeat(m model.SeatMutation) (model.SeatAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, idx, err := s.room(m.RoomID)
	if err != nil {
		return "", err
	}
	room := e.Rooms[idx]
	row, col := model.SplitSeatCode(m.Seat)
	if row == "" || col < 1 || col > 5 || seatIndex(row, col) >= room.Capacity {
		return "", invalid(response.ErrValidation, "Seat %s is not in room %s %s", m.Seat, room.Building, room.RoomNumber)
	}

	seats := e.Seats[room.ID]
	if seats == nil {
		seats = make(map[string]model.Allocation)
		e.Seats[room.ID] = seats
	}

	if strings.TrimSpace(m.Registration) == "" {
		if _, ok := seats[m.Seat]; !ok {
			return "", notFound("Seat %s is already empty", m.Seat)
		}
		delete(seats, m.Seat)
		return model.SeatRemoved, nil
	}

	for code, a := range seats {
		if code != m.Seat && a.RegistrationNumber == m.Registration {
			return "", conflict("%s is already seated at %s", m.Registration, code)
		}
	}

	_, exists := seats[m.Seat]
	seats[m.Seat] = model.Allocation{
		RegistrationNumber: m.Registration, Department: m.Department, SeatCode: m.Seat,
		Row: row, Column: col, ExamDate: m.ExamDate, Session: m.Session, ExamName: m.ExamName,
		StartTime: m.StartTime, EndTime: m.EndTime,
	}
	if exists {
		return model.SeatUpdated, nil
	}
	return model.SeatCreated, nil
}

// ListExams returns permanent exams, newest first.
func (s *Store) ListExams() []model.ExamListItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now().Format(model.DateLayout)
	out := []model.ExamListItem{}
	for _, e := range s.exams {
		if e.Temporary {
			continue
		}
		item := model.ExamListItem{
			ID: e.ID, Name: e.Name, StartDate: e.StartDate, EndDate: e.EndDate,
			Departments: []string{}, Status: examStatus(e.StartDate, e.EndDate, today),
		}
		for _, b := range e.Departments {
			item.Departments = append(item.Departments, b.Department)
		}
		for _, sel := range e.Files {
			if f, ok := s.files[sel.ID]; ok {
				item.StudentCount += f.StudentCount
			}
		}
		if days, ok := durationDays(e.StartDate, e.EndDate); ok {
			item.DurationDays = &days
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// DeleteExam removes a permanent exam.
func (s *Store) DeleteExam(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.exam(id)
	if err != nil {
		return err
	}
	if e.Temporary {
		return notFound("Exam %d not found", id)
	}
	delete(s.exams, id)
	return nil
}

// ─── Attendance sheets ─────────────────────────────────────────────────

// GenerateSheets splits a roster into pages of model.SheetPageSize.
func (s *Store) GenerateSheets(examID, fileID int) (string, [][]model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.exam(examID)
	if err != nil {
		return "", nil, err
	}
	f, ok := s.files[fileID]
	if !ok {
		return "", nil, notFound("File %d not found", fileID)
	}
	if len(f.Students) == 0 {
		return "", nil, invalid(response.ErrNoStudents, "%s has no students", f.FileName)
	}

	var pages [][]model.Student
	for i := 0; i < len(f.Students); i += model.SheetPageSize {
		end := i + model.SheetPageSize
		if end > len(f.Students) {
			end = len(f.Students)
		}
		pages = append(pages, append([]model.Student(nil), f.Students[i:end]...))
	}
	return e.Name, pages, nil
}

// SaveSheets records a generated batch.
func (s *Store) SaveSheets(examID, fileID int, pages [][]model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.exam(examID)
	if err != nil {
		return err
	}
	f, ok := s.files[fileID]
	if !ok {
		return notFound("File %d not found", fileID)
	}
	students := 0
	for _, p := range pages {
		students += len(p)
	}
	s.sheets = append(s.sheets, model.SheetRecord{
		ExamName:     e.Name,
		FileName:     f.FileName,
		GeneratedAt:  s.now().Format(timestampLayout),
		StudentCount: students,
		SheetCount:   len(pages),
	})
	return nil
}

// SheetRecords lists saved batches, newest first.
func (s *Store) SheetRecords() []model.SheetRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.SheetRecord, len(s.sheets))
	for i, r := range s.sheets {
		out[len(s.sheets)-1-i] = r
	}
	return out
}

// ─── Helpers ───────────────────────────────────────────────────────────

func sortedAllocations(seats map[string]model.Allocation) []model.Allocation {
	out := make([]model.Allocation, 0, len(seats))
	for _, a := range seats {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return seatLess(out[i].SeatCode, out[j].SeatCode) })
	return out
}

// seatLess orders seat codes row by row, then by column.
func seatLess(a, b string) bool {
	ra, ca := model.SplitSeatCode(a)
	rb, cb := model.SplitSeatCode(b)
	if len(ra) != len(rb) {
		return len(ra) < len(rb)
	}
	if ra != rb {
		return ra < rb
	}
	return ca < cb
}

// seatIndex is the zero-based position of a seat in a five-column grid.
func seatIndex(row string, col int) int {
	r := 0
	for _, ch := range row {
		r = r*26 + int(ch-'A'+1)
	}
	return (r-1)*5 + col - 1
}

func examStatus(start, end, today string) model.ExamStatus {
	switch {
	case start == "" || end == "":
		return model.ExamStatusIncomplete
	case today < start:
		return model.ExamStatusUpcoming
	case today > end:
		return model.ExamStatusExpired
	default:
		return model.ExamStatusOngoing
	}
}

func durationDays(start, end string) (int, bool) {
	from, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return 0, false
	}
	to, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return 0, false
	}
	return int(to.Sub(from).Hours()/24) + 1, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
