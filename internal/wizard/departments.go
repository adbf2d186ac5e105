package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// DepartmentSet holds the papers of each selected department, in selection
// order. Entries are edited in place and submitted as one batch.
type DepartmentSet struct {
	order []string
	exams map[string][]model.DepartmentExam
}

// NewDepartmentSet returns an empty set.
func NewDepartmentSet() *DepartmentSet {
	return &DepartmentSet{exams: make(map[string][]model.DepartmentExam)}
}

// Select adds a department with one blank entry. Reselecting keeps entries.
func (d *DepartmentSet) Select(dept string) {
	dept = strings.TrimSpace(dept)
	if dept == "" {
		return
	}
	if _, ok := d.exams[dept]; ok {
		return
	}
	d.order = append(d.order, dept)
	d.exams[dept] = []model.DepartmentExam{{}}
}

// Deselect drops a department and its entries.
func (d *DepartmentSet) Deselect(dept string) {
	if _, ok := d.exams[dept]; !ok {
		return
	}
	delete(d.exams, dept)
	for i, name := range d.order {
		if name == dept {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Selected returns the selected departments in selection order.
func (d *DepartmentSet) Selected() []string {
	return append([]string(nil), d.order...)
}

// IsSelected reports whether dept is selected.
func (d *DepartmentSet) IsSelected(dept string) bool {
	_, ok := d.exams[dept]
	return ok
}

// Entries returns a copy of dept's entries.
func (d *DepartmentSet) Entries(dept string) []model.DepartmentExam {
	return append([]model.DepartmentExam(nil), d.exams[dept]...)
}

// AddEntry appends a blank entry and returns its index.
func (d *DepartmentSet) AddEntry(dept string) (int, error) {
	entries, ok := d.exams[dept]
	if !ok {
		return 0, fmt.Errorf("department %q is not selected", dept)
	}
	d.exams[dept] = append(entries, model.DepartmentExam{})
	return len(entries), nil
}

// SetEntry replaces entry idx of dept.
func (d *DepartmentSet) SetEntry(dept string, idx int, e model.DepartmentExam) error {
	entries, ok := d.exams[dept]
	if !ok {
		return fmt.Errorf("department %q is not selected", dept)
	}
	if idx < 0 || idx >= len(entries) {
		return fmt.Errorf("department %q has no entry %d", dept, idx+1)
	}
	entries[idx] = e
	return nil
}

// RemoveEntry deletes entry idx of dept.
func (d *DepartmentSet) RemoveEntry(dept string, idx int) error {
	entries, ok := d.exams[dept]
	if !ok {
		return fmt.Errorf("department %q is not selected", dept)
	}
	if idx < 0 || idx >= len(entries) {
		return fmt.Errorf("department %q has no entry %d", dept, idx+1)
	}
	d.exams[dept] = append(entries[:idx], entries[idx+1:]...)
	return nil
}

// Ready requires at least one selected department, each with at least one
// complete entry.
func (d *DepartmentSet) Ready() error {
	const op = "departments"
	if len(d.order) == 0 {
		return response.Precondition(op, response.ErrIncompleteFields, "Select at least one department.")
	}
	for _, dept := range d.order {
		if !hasComplete(d.exams[dept]) {
			return response.Precondition(op, response.ErrIncompleteFields,
				fmt.Sprintf("Please fill at least one complete exam (Name, Code, Date, Session, Start Time, End Time) for %s.", dept))
		}
	}
	return nil
}

// CheckDates requires every complete entry to fall within [start, end].
func (d *DepartmentSet) CheckDates(start, end string) error {
	const op = "departments"
	from, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return response.Precondition(op, response.ErrInvalidDateRange, "The exam start date is not set.")
	}
	to, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return response.Precondition(op, response.ErrInvalidDateRange, "The exam end date is not set.")
	}

	for _, dept := range d.order {
		for _, e := range d.exams[dept] {
			if !e.Complete() {
				continue
			}
			day, err := time.Parse(model.DateLayout, e.Date)
			if err != nil || day.Before(from) || day.After(to) {
				return response.Precondition(op, response.ErrDateOutOfRange,
					fmt.Sprintf("%s (%s) on %s is outside %s to %s.", e.Name, dept, e.Date, start, end))
			}
		}
	}
	return nil
}

// Batch returns the complete entries of every selected department.
func (d *DepartmentSet) Batch() []model.DepartmentBatch {
	out := make([]model.DepartmentBatch, 0, len(d.order))
	for _, dept := range d.order {
		var exams []model.DepartmentExam
		for _, e := range d.exams[dept] {
			if e.Complete() {
				exams = append(exams, e)
			}
		}
		if len(exams) > 0 {
			out = append(out, model.DepartmentBatch{Department: dept, Exams: exams})
		}
	}
	return out
}

func hasComplete(entries []model.DepartmentExam) bool {
	for _, e := range entries {
		if e.Complete() {
			return true
		}
	}
	return false
}
