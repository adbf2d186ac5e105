package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/stemsi/seatdesk/internal/grid"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/wizard"
)

func roomTitle(building, number string) string {
	return building + " " + number
}

// renderPlan draws every room of a freshly generated plan.
func (d Deps) renderPlan(plan model.SeatingPlan) {
	d.printf("Seating: %d student(s), %d seat(s) allocated in %d room(s)\n",
		plan.TotalStudents, plan.TotalSeatsAllocated, plan.TotalRooms)
	for _, room := range plan.Rooms {
		d.printf("\n")
		title := roomTitle(room.Building, room.RoomNumber)
		if len(room.Departments) > 0 {
			title += " [" + strings.Join(room.Departments, ", ") + "]"
		}
		_ = grid.Render(d.Out, title, grid.Layout(room.Capacity, room.Allocations()))
	}
}

// renderSummary draws the exam, its papers, rosters and the grid of every
// room.
func (d Deps) renderSummary(s *model.ExamSummary) {
	d.printf("%s (%s to %s)\n", s.Exam.Name, s.Exam.StartDate, s.Exam.EndDate)
	d.printf("Students: %d  Seats allocated: %d  Rooms: %d\n\n", s.TotalStudents, s.TotalSeatsAllocated, len(s.Rooms))

	tw := tabwriter.NewWriter(d.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPARTMENT\tPAPER\tCODE\tDATE\tSESSION\tTIME")
	for _, p := range s.Departments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s - %s\n", p.Department, p.ExamName, p.PaperCode, p.ExamDate,
			p.Session, wizard.Display12(p.StartTime), wizard.Display12(p.EndTime))
	}
	_ = tw.Flush()

	if len(s.StudentFiles) > 0 {
		d.printf("\n")
		tw = tabwriter.NewWriter(d.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DEPARTMENT\tYEAR\tSEMESTER\tSTUDENTS")
		for _, row := range studentsByTerm(s.StudentFiles) {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		_ = tw.Flush()
	}

	for _, room := range s.Rooms {
		d.printf("\n[room %d] ", room.ID)
		_ = grid.Render(d.Out, roomTitle(room.Building, room.RoomNumber), grid.Layout(room.Capacity, s.RoomSeats(room)))
	}
}

// studentsByTerm totals roster sizes per department, year and semester.
func studentsByTerm(files []model.UploadedFile) [][]string {
	type key struct {
		dept     string
		year     model.Term
		semester model.Term
	}
	totals := make(map[key]int)
	var keys []key
	for _, f := range files {
		k := key{f.Department, f.Year, f.Semester}
		if _, ok := totals[k]; !ok {
			keys = append(keys, k)
		}
		totals[k] += f.StudentCount
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].dept != keys[j].dept {
			return keys[i].dept < keys[j].dept
		}
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].semester < keys[j].semester
	})

	out := make([][]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, []string{k.dept, k.year.String(), k.semester.String(), strconv.Itoa(totals[k])})
	}
	return out
}
