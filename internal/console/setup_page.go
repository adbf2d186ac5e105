package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/stemsi/seatdesk/internal/collection"
	"github.com/stemsi/seatdesk/internal/draft"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/wizard"
)

// SetupPage is the six-step exam setup wizard: details, departments and
// papers, rooms, student data, seating review and summary.
type SetupPage struct {
	Deps

	drafts  *draft.Manager
	session *wizard.ExamSession
	files   *collection.Fetcher[model.UploadedFile]
	wiz     *wizard.Controller
	result  *model.CompleteResult
}

// NewSetupPage creates the page. Call Open before anything else.
func NewSetupPage(d Deps) *SetupPage {
	return &SetupPage{Deps: d, drafts: d.newDrafts(), files: d.filesFetcher()}
}

// Open starts a draft and resets the wizard.
func (p *SetupPage) Open(ctx context.Context) error {
	id, err := p.drafts.Init(ctx)
	if err != nil {
		return err
	}
	p.session = wizard.NewExamSession(id)
	p.result = nil
	p.wiz = wizard.NewController("exam_setup", p.Log,
		wizard.Step{Name: "Exam Details", Ready: p.detailsReady, Submit: p.submitDetails},
		wizard.Step{Name: "Departments", Ready: p.session.Departments.Ready, Submit: p.submitDepartments},
		wizard.Step{Name: "Rooms", Ready: p.session.Rooms.Ready, Submit: p.submitRooms},
		wizard.Step{Name: "Student Data", Ready: p.session.Files.Valid, Submit: p.submitStudents},
		wizard.Step{Name: "Seating", Ready: p.seatingReady, Submit: p.submitSeating},
		wizard.Step{Name: "Summary", Ready: p.summaryReady, Submit: p.submitSummary},
	)
	return nil
}

// Close abandons an unfinished draft without waiting for the server.
func (p *SetupPage) Close() { p.drafts.Abandon() }

// Drafts exposes the draft manager so the caller can wait on cleanup.
func (p *SetupPage) Drafts() *draft.Manager { return p.drafts }

// Session returns the wizard session.
func (p *SetupPage) Session() *wizard.ExamSession { return p.session }

// Wizard returns the step controller.
func (p *SetupPage) Wizard() *wizard.Controller { return p.wiz }

// Files returns the roster list.
func (p *SetupPage) Files() *collection.Fetcher[model.UploadedFile] { return p.files }

// Result is the completion acknowledgement, nil until the wizard finishes.
func (p *SetupPage) Result() *model.CompleteResult { return p.result }

// SetDetails fills the first step.
func (p *SetupPage) SetDetails(name, start, end string) {
	p.session.Details = wizard.ExamDetails{
		Name:      strings.TrimSpace(name),
		StartDate: strings.TrimSpace(start),
		EndDate:   strings.TrimSpace(end),
	}
}

// AddRoom appends a room. Duplicates and name clashes are rejected locally.
func (p *SetupPage) AddRoom(r model.Room) error {
	return p.session.Rooms.Add(r)
}

// ToggleFile flips the selection of roster id.
func (p *SetupPage) ToggleFile(id int) error {
	if _, ok := p.files.Find(func(f model.UploadedFile) bool { return f.ID == id }); !ok {
		return response.Precondition("select file", response.ErrNotFound, fmt.Sprintf("No file with id %d.", id))
	}
	p.session.Files.Toggle(id)
	return nil
}

// Next advances the wizard.
func (p *SetupPage) Next(ctx context.Context) error { return p.wiz.Advance(ctx) }

// Back retreats one step.
func (p *SetupPage) Back() bool { return p.wiz.Retreat() }

func (p *SetupPage) detailsReady() error { return p.session.Details.Ready() }

func (p *SetupPage) submitDetails(ctx context.Context) error {
	return p.API.SaveExamDetails(ctx, p.session.Details.Request(p.session.ExamID))
}

func (p *SetupPage) submitDepartments(ctx context.Context) error {
	d := p.session.Details
	if err := p.session.Departments.CheckDates(d.StartDate, d.EndDate); err != nil {
		return err
	}
	return p.API.AddDepartments(ctx, model.AddDepartmentsRequest{
		ExamID:      p.session.ExamID,
		Departments: p.session.Departments.Batch(),
	})
}

func (p *SetupPage) submitRooms(ctx context.Context) error {
	err := p.API.AddRooms(ctx, model.AddRoomsRequest{ExamID: p.session.ExamID, Rooms: p.session.Rooms.Rooms()})
	if err != nil {
		return err
	}
	// A failed load leaves a placeholder; the next step cannot advance
	// without a selection anyway.
	_, _ = p.files.Load(ctx)
	return nil
}

func (p *SetupPage) submitStudents(ctx context.Context) error {
	if err := p.session.CheckStudentData(p.files.Items()); err != nil {
		return err
	}
	res, err := p.API.SaveSelectedFiles(ctx, model.SaveSelectedFilesRequest{
		ExamID:        p.session.ExamID,
		SelectedFiles: p.session.FileSelections(p.files.Items()),
	})
	if err != nil {
		return err
	}
	p.session.Students = res
	p.printf("%d student(s) assigned from %d file(s)\n", res.TotalStudents, len(res.Files))

	return p.generate(ctx)
}

func (p *SetupPage) generate(ctx context.Context) error {
	seating, err := p.API.GenerateSeating(ctx, p.session.ExamID)
	if err != nil {
		return err
	}
	p.session.Seating = seating
	p.renderPlan(seating.Plan)
	return nil
}

// Regenerate asks the server for a new plan, after confirmation. The
// previous plan is kept if the call fails.
func (p *SetupPage) Regenerate(ctx context.Context) error {
	if p.wiz.Current() != 4 {
		return response.Precondition("regenerate seating", response.ErrStepNotReady, "Seating can only be regenerated during review.")
	}
	if !p.Prompt.Confirm("Discard this arrangement and generate a new one?") {
		return response.Precondition("regenerate seating", response.ErrNotConfirmed, "")
	}
	return p.generate(ctx)
}

func (p *SetupPage) seatingReady() error {
	if p.session.Seating == nil {
		return response.Precondition("seating", response.ErrSeatingMissing, "")
	}
	return nil
}

func (p *SetupPage) submitSeating(ctx context.Context) error {
	msg, err := p.API.LockSeating(ctx, p.session.ExamID, p.session.Seating)
	if err != nil {
		return err
	}
	p.session.Locked = true
	if msg != "" {
		p.printf("%s\n", msg)
	}

	summary, err := p.API.ExamSummary(ctx, p.session.ExamID)
	if err != nil {
		return err
	}
	p.session.Summary = summary
	p.renderSummary(summary)
	p.showPortalQR()
	return nil
}

func (p *SetupPage) showPortalQR() {
	url := p.Config.PortalURL()
	qr, err := portalQR(url)
	if err != nil {
		p.Log.Warn().Err(err).Msg("Failed to render portal QR code")
		return
	}
	p.printf("\nStudents can find their seats at %s\n%s", url, qr)
}

func (p *SetupPage) summaryReady() error {
	if p.session.Summary == nil {
		return response.Precondition("summary", response.ErrStepNotReady, "The summary has not loaded.")
	}
	return nil
}

func (p *SetupPage) submitSummary(ctx context.Context) error {
	res, err := p.drafts.Complete(ctx, p.Prompt, "Finish setting up "+p.session.Details.Name+"?")
	if err != nil {
		return err
	}
	p.result = res
	p.printf("%s\n", res.Message)
	if res.DashboardURL != "" {
		p.printf("Dashboard: %s\n", res.DashboardURL)
	}
	return nil
}

// Run drives the page from operator commands until it finishes or the input
// ends. The draft is abandoned when leaving early.
func (p *SetupPage) Run(ctx context.Context) error {
	if err := p.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if !p.wiz.Done() {
			p.Close()
		}
	}()

	p.help()
	return p.loop(ctx, "setup> ", func(ctx context.Context, c command) (bool, error) {
		var err error
		switch c.verb {
		case "details":
			if len(c.args) < 3 {
				return false, response.Precondition("details", response.ErrIncompleteFields, "Usage: details <start YYYY-MM-DD> <end YYYY-MM-DD> <name>")
			}
			p.SetDetails(strings.Join(c.args[2:], " "), c.arg(0), c.arg(1))
		case "dept":
			p.session.Departments.Select(strings.ToUpper(c.arg(0)))
		case "undept":
			p.session.Departments.Deselect(strings.ToUpper(c.arg(0)))
		case "paper":
			idx := -1
			if len(c.args) > 1 {
				var n int
				if n, err = c.intArg(1); err != nil {
					break
				}
				idx = n - 1
			}
			err = p.promptPaper(strings.ToUpper(c.arg(0)), idx)
		case "unpaper":
			var n int
			if n, err = c.intArg(1); err == nil {
				err = p.session.Departments.RemoveEntry(strings.ToUpper(c.arg(0)), n-1)
			}
		case "room":
			err = p.promptRoom(c)
		case "unroom":
			var i int
			if i, err = c.intArg(0); err == nil {
				err = p.session.Rooms.Remove(i - 1)
			}
		case "select":
			var id int
			if id, err = c.intArg(0); err == nil {
				err = p.ToggleFile(id)
			}
		case "filter":
			p.files.Filter(c.rest())
		case "all":
			p.files.ShowAll()
		case "regen":
			err = p.Regenerate(ctx)
		case "next":
			if err = p.Next(ctx); err == nil && p.wiz.Done() {
				return true, nil
			}
		case "back":
			p.Back()
		case "quit":
			return true, nil
		default:
			p.help()
			return false, nil
		}
		if err != nil {
			return false, err
		}
		p.status()
		return false, nil
	})
}

// promptPaper fills paper entry idx of dept, or the next free entry when idx
// is negative, selecting dept if needed.
func (p *SetupPage) promptPaper(dept string, idx int) error {
	if dept == "" {
		return response.Precondition("paper", response.ErrIncompleteFields, "Usage: paper <department> [n]")
	}
	if idx >= 0 && idx >= len(p.session.Departments.Entries(dept)) {
		return response.Precondition("paper", response.ErrNotFound, fmt.Sprintf("%s has no paper %d.", dept, idx+1))
	}
	p.session.Departments.Select(dept)

	var e model.DepartmentExam
	var err error
	fields := []struct {
		label   string
		choices []string
		dst     *string
	}{
		{"Paper name", nil, &e.Name},
		{"Paper code", nil, &e.Code},
		{"Date (YYYY-MM-DD)", nil, &e.Date},
		{"Session", p.Catalog.Sessions, &e.Session},
		{"Start time (e.g. 9:30 AM)", nil, &e.StartTime},
		{"End time (e.g. 12:30 PM)", nil, &e.EndTime},
	}
	for _, f := range fields {
		if *f.dst, err = p.askField(f.label, f.choices); err != nil {
			return err
		}
	}
	if e.StartTime, err = wizard.Normalize24(e.StartTime); err != nil {
		return response.Precondition("paper", response.ErrIncompleteFields, "Start time: "+err.Error())
	}
	if e.EndTime, err = wizard.Normalize24(e.EndTime); err != nil {
		return response.Precondition("paper", response.ErrIncompleteFields, "End time: "+err.Error())
	}

	if idx >= 0 {
		return p.session.Departments.SetEntry(dept, idx, e)
	}

	// The blank entry made by Select is filled first.
	entries := p.session.Departments.Entries(dept)
	idx = len(entries) - 1
	if idx < 0 || entries[idx].Complete() {
		if idx, err = p.session.Departments.AddEntry(dept); err != nil {
			return err
		}
	}
	return p.session.Departments.SetEntry(dept, idx, e)
}

func (p *SetupPage) promptRoom(c command) error {
	if len(c.args) < 3 {
		return response.Precondition("room", response.ErrIncompleteFields,
			"Usage: room <building> <room number> <capacity>")
	}
	capacity, err := c.intArg(2)
	if err != nil {
		return err
	}
	return p.AddRoom(model.Room{Building: c.arg(0), RoomNumber: c.arg(1), Capacity: capacity})
}

func (p *SetupPage) status() {
	p.printf("%s\n", p.wiz.Indicator())
	if err := p.wiz.Blocker(); err != nil {
		p.printf("  next: %s\n", response.DisplayOf(err))
	}
}

func (p *SetupPage) help() {
	p.printf("%s\n", p.wiz.Indicator())
	p.printf("Commands: details <start> <end> <name>, dept <code>, undept <code>, paper <code> [n], unpaper <code> <n>,\n")
	p.printf("  room <building> <number> <capacity>, unroom <n>, select <file id>, filter <text>, all,\n")
	p.printf("  regen, next, back, quit\n")
}
