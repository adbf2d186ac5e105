package stubserver

import (
	"fmt"
	"io"
	"os"

	"github.com/stemsi/seatdesk/internal/model"
	"gopkg.in/yaml.v3"
)

// Fixtures seed the store at startup.
type Fixtures struct {
	Files []FileFixture `yaml:"files"`
	Exams []ExamFixture `yaml:"exams"`
}

// FileFixture is an already uploaded roster.
type FileFixture struct {
	FileName   string           `yaml:"file_name"`
	Department string           `yaml:"department"`
	Year       int              `yaml:"year"`
	Semester   int              `yaml:"semester"`
	Students   []StudentFixture `yaml:"students"`
}

// StudentFixture is one roster row.
type StudentFixture struct {
	Name         string `yaml:"name"`
	Roll         string `yaml:"roll"`
	Registration string `yaml:"registration"`
}

// ExamFixture is a completed exam without seating.
type ExamFixture struct {
	Name        string        `yaml:"name"`
	StartDate   string        `yaml:"start_date"`
	EndDate     string        `yaml:"end_date"`
	Departments []string      `yaml:"departments"`
	Rooms       []RoomFixture `yaml:"rooms"`
}

// RoomFixture is one exam hall.
type RoomFixture struct {
	Building   string `yaml:"building"`
	RoomNumber string `yaml:"room_number"`
	Capacity   int    `yaml:"capacity"`
}

// LoadFixtures reads fixtures from a YAML file.
func LoadFixtures(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeFixtures(f)
}

// DecodeFixtures reads fixtures from r. Unknown keys are rejected.
func DecodeFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fx, nil
}

// Seed loads fixtures into the store.
func (s *Store) Seed(fx *Fixtures) error {
	for _, f := range fx.Files {
		students := make([]model.Student, 0, len(f.Students))
		for _, st := range f.Students {
			students = append(students, model.Student{Name: st.Name, RollNumber: st.Roll, RegistrationNumber: st.Registration})
		}
		s.AddFile(f.FileName, model.UploadMeta{Year: f.Year, Semester: f.Semester, Department: f.Department}, students)
	}

	for _, e := range fx.Exams {
		id := s.InitDraft()
		if err := s.SaveDetails(model.CreateExamRequest{ExamID: id, Name: e.Name, StartDate: e.StartDate, EndDate: e.EndDate}); err != nil {
			return fmt.Errorf("exam %q: %w", e.Name, err)
		}
		var batches []model.DepartmentBatch
		for _, d := range e.Departments {
			batches = append(batches, model.DepartmentBatch{Department: d})
		}
		if _, err := s.AddDepartments(model.AddDepartmentsRequest{ExamID: id, Departments: batches}); err != nil {
			return fmt.Errorf("exam %q: %w", e.Name, err)
		}
		if len(e.Rooms) > 0 {
			rooms := make([]model.Room, 0, len(e.Rooms))
			for _, r := range e.Rooms {
				rooms = append(rooms, model.Room{Building: r.Building, RoomNumber: r.RoomNumber, Capacity: r.Capacity})
			}
			if _, err := s.AddRooms(model.AddRoomsRequest{ExamID: id, Rooms: rooms}); err != nil {
				return fmt.Errorf("exam %q: %w", e.Name, err)
			}
		}
		if _, err := s.CompleteDraft(id); err != nil {
			return fmt.Errorf("exam %q: %w", e.Name, err)
		}
	}
	return nil
}
