package console

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stemsi/seatdesk/internal/collection"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/shell"
	"github.com/stemsi/seatdesk/internal/validator"
)

// Dashboard tabs and modals.
const (
	TabCreateExam    = "create-exam"
	TabUploadData    = "upload-data"
	TabGenerateSheet = "generate-sheet"
	TabExams         = "exams"

	ModalNewExam     = "new-exam"
	ModalUploadCheck = "upload-check"
)

// SheetStats are the counters of the generate-sheet tab.
type SheetStats struct {
	Total    int
	Sessions int
}

// DashboardPage is the tabbed landing page. It launches the setup and
// attendance wizards and the exam viewer.
type DashboardPage struct {
	Deps

	shell  *shell.Shell
	files  *collection.Fetcher[model.UploadedFile]
	sheets *collection.Fetcher[model.SheetRecord]
	exams  *collection.Fetcher[model.ExamListItem]
	stats  SheetStats
}

// NewDashboardPage creates the page with its tabs and modals registered.
func NewDashboardPage(d Deps) *DashboardPage {
	if d.Drafts == nil {
		d.Drafts = d.newDrafts()
	}
	p := &DashboardPage{Deps: d, files: d.filesFetcher()}

	p.sheets = collection.New(collection.Options[model.SheetRecord]{
		Name:      "generated_sheets",
		Load:      d.API.GeneratedSheets,
		Field:     func(s model.SheetRecord) string { return s.ExamName },
		Render:    NewTable(d.Out, []string{"EXAM", "FILE", "GENERATED", "STUDENTS", "SHEETS"}, sheetColumns),
		EmptyText: "No sheets generated yet.",
	}, d.Log)

	p.exams = collection.New(collection.Options[model.ExamListItem]{
		Name:      "exams",
		Load:      d.API.ListExams,
		Field:     func(e model.ExamListItem) string { return e.Name },
		Render:    NewTable(d.Out, []string{"ID", "NAME", "DEPARTMENTS", "STUDENTS", "DATES", "DAYS", "STATUS"}, examColumns),
		EmptyText: "No exams yet.",
	}, d.Log)

	p.shell = shell.New(d.Log,
		shell.Tab{Name: TabCreateExam, Title: "Create Exam", Refresh: p.refreshCreate},
		shell.Tab{Name: TabUploadData, Title: "Upload Data", Refresh: p.refreshFiles},
		shell.Tab{Name: TabGenerateSheet, Title: "Generate Sheet", Refresh: p.refreshSheets},
		shell.Tab{Name: TabExams, Title: "Exams", Refresh: p.refreshExams},
	)
	p.shell.AddModal(shell.Modal{Name: ModalNewExam, Title: "New Exam"})
	p.shell.AddModal(shell.Modal{Name: ModalUploadCheck, Title: "Student Data Check"})
	return p
}

func sheetColumns(s model.SheetRecord) []string {
	return []string{s.ExamName, s.FileName, s.GeneratedAt, strconv.Itoa(s.StudentCount), strconv.Itoa(s.SheetCount)}
}

func examColumns(e model.ExamListItem) []string {
	days := "-"
	if e.DurationDays != nil {
		days = strconv.Itoa(*e.DurationDays)
	}
	return []string{
		strconv.Itoa(e.ID), e.Name, strings.Join(e.Departments, ","), strconv.Itoa(e.StudentCount),
		e.StartDate + " to " + e.EndDate, days, string(e.Status),
	}
}

// Close deletes any draft left open or pre-initialized and waits for the
// cleanup calls. Call it when the program exits.
func (p *DashboardPage) Close() {
	p.Drafts.Close()
}

// Shell returns the tab and modal chrome.
func (p *DashboardPage) Shell() *shell.Shell { return p.shell }

// Files returns the upload-data list.
func (p *DashboardPage) Files() *collection.Fetcher[model.UploadedFile] { return p.files }

// Sheets returns the generate-sheet list.
func (p *DashboardPage) Sheets() *collection.Fetcher[model.SheetRecord] { return p.sheets }

// Exams returns the exams list.
func (p *DashboardPage) Exams() *collection.Fetcher[model.ExamListItem] { return p.exams }

// Stats returns the generate-sheet counters from the last refresh.
func (p *DashboardPage) Stats() SheetStats { return p.stats }

// Activate switches tab and refreshes it.
func (p *DashboardPage) Activate(ctx context.Context, tab string) error {
	p.printf("\n%s\n", p.shell.Header())
	return p.shell.Activate(ctx, tab)
}

func (p *DashboardPage) refreshCreate(ctx context.Context) error {
	p.printf("Type 'new' to create an exam or 'attendance' to generate attendance sheets.\n")
	return nil
}

func (p *DashboardPage) refreshFiles(ctx context.Context) error {
	_, err := p.files.Load(ctx)
	return err
}

// refreshSheets reloads the generated-sheet list. The total counts records
// and sessions counts distinct exam names.
func (p *DashboardPage) refreshSheets(ctx context.Context) error {
	items, err := p.sheets.Load(ctx)
	if err != nil {
		p.stats = SheetStats{}
		return err
	}
	names := make(map[string]struct{}, len(items))
	for _, s := range items {
		names[s.ExamName] = struct{}{}
	}
	p.stats = SheetStats{Total: len(items), Sessions: len(names)}
	p.printf("Total sheets: %d  Exam sessions: %d\n", p.stats.Total, p.stats.Sessions)
	return nil
}

func (p *DashboardPage) refreshExams(ctx context.Context) error {
	_, err := p.exams.Load(ctx)
	return err
}

// Upload sends the roster at path and refreshes the file list.
func (p *DashboardPage) Upload(ctx context.Context, path string, meta model.UploadMeta) (*model.UploadedFile, error) {
	if fields := validator.Struct(meta); fields != nil {
		return nil, response.Precondition("upload", response.ErrIncompleteFields, validator.Summary(fields))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, response.Precondition("upload", response.ErrFileRequired, err.Error())
	}
	defer f.Close()

	file, err := p.API.UploadStudentFile(ctx, path, f, meta)
	if err != nil {
		return nil, err
	}
	p.printf("Uploaded %s: %d student(s)\n", file.FileName, file.StudentCount)
	return file, p.refreshFiles(ctx)
}

// DeleteExam removes a permanent exam after confirmation.
func (p *DashboardPage) DeleteExam(ctx context.Context, examID int) error {
	item, ok := p.exams.Find(func(e model.ExamListItem) bool { return e.ID == examID })
	name := strconv.Itoa(examID)
	if ok {
		name = item.Name
	}
	if !p.Prompt.Confirm(fmt.Sprintf("Delete exam %q? This cannot be undone.", name)) {
		return response.Precondition("delete exam", response.ErrNotConfirmed, "")
	}
	if err := p.API.DeleteExam(ctx, examID); err != nil {
		return err
	}
	return p.refreshExams(ctx)
}

// CheckUploads runs the upload-check modal before the attendance wizard. It
// reports whether any roster exists; when none does the modal stays open
// with a hint to upload first.
func (p *DashboardPage) CheckUploads(ctx context.Context) (bool, error) {
	_ = p.shell.OpenModal(ModalUploadCheck)
	files, err := p.API.UploadedFiles(ctx)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		p.printf("No student data uploaded yet. Upload a roster from the %s tab first.\n", TabUploadData)
		return false, nil
	}
	p.shell.CloseModal(ModalUploadCheck)
	return true, nil
}

// Run shows the dashboard and dispatches commands until quit or end of input.
func (p *DashboardPage) Run(ctx context.Context) error {
	if err := p.Activate(ctx, TabCreateExam); err != nil {
		p.report(err)
	}
	p.help()

	return p.loop(ctx, "seatdesk> ", func(ctx context.Context, c command) (bool, error) {
		if m, ok := p.shell.Current(); ok {
			return false, p.handleModal(ctx, m, c)
		}

		switch c.verb {
		case "tab":
			return false, p.Activate(ctx, c.arg(0))
		case "menu":
			if p.shell.ToggleSidebar() {
				p.printf("Sidebar shown\n")
			} else {
				p.printf("Sidebar hidden\n")
			}
		case "new":
			_ = p.shell.OpenModal(ModalNewExam)
			p.printf("New exam: 'upload' to add student data first, 'setup' to start, 'esc' to cancel.\n")
		case "attendance":
			ok, err := p.CheckUploads(ctx)
			if err != nil || !ok {
				return false, err
			}
			return false, p.runChild(ctx, NewAttendancePage(p.Deps).Run, TabGenerateSheet)
		case "upload":
			return false, p.promptUpload(ctx, c)
		case "filter":
			p.activeFilter(c.rest())
		case "all":
			p.activeFilter("")
		case "view":
			id, err := c.intArg(0)
			if err != nil {
				return false, err
			}
			return false, p.runChild(ctx, NewViewExamPage(p.Deps, id).Run, TabExams)
		case "delete":
			id, err := c.intArg(0)
			if err != nil {
				return false, err
			}
			return false, p.DeleteExam(ctx, id)
		case "quit", "exit":
			return true, nil
		default:
			p.help()
		}
		return false, nil
	})
}

func (p *DashboardPage) handleModal(ctx context.Context, m shell.Modal, c command) error {
	if p.shell.Key(c.verb) {
		return nil
	}
	switch {
	case m.Name == ModalNewExam && c.verb == "upload":
		p.shell.CloseModal(m.Name)
		return p.Activate(ctx, TabUploadData)
	case m.Name == ModalNewExam && c.verb == "setup":
		p.shell.CloseModal(m.Name)
		return p.runChild(ctx, NewSetupPage(p.Deps).Run, TabExams)
	case c.verb == "close" || c.verb == "outside":
		p.shell.ClickOutside()
		return nil
	}
	p.printf("%s is open; 'esc' closes it.\n", m.Title)
	return nil
}

// runChild runs a wizard page and then returns to tab.
func (p *DashboardPage) runChild(ctx context.Context, run func(context.Context) error, tab string) error {
	if err := run(ctx); err != nil {
		return err
	}
	return p.Activate(ctx, tab)
}

func (p *DashboardPage) activeFilter(q string) {
	switch p.shell.Active() {
	case TabUploadData:
		p.files.Filter(q)
	case TabGenerateSheet:
		p.sheets.Filter(q)
	case TabExams:
		p.exams.Filter(q)
	}
}

func (p *DashboardPage) promptUpload(ctx context.Context, c command) error {
	if len(c.args) < 4 {
		return response.Precondition("upload", response.ErrIncompleteFields,
			"Usage: upload <file.xlsx> <year> <semester> <department>")
	}
	year, err := c.intArg(1)
	if err != nil {
		return err
	}
	semester, err := c.intArg(2)
	if err != nil {
		return err
	}
	_, err = p.Upload(ctx, c.arg(0), model.UploadMeta{Year: year, Semester: semester, Department: strings.ToUpper(c.arg(3))})
	return err
}

func (p *DashboardPage) help() {
	p.printf("Commands: tab <%s|%s|%s|%s>, new, attendance, upload <file> <year> <sem> <dept>,\n",
		TabCreateExam, TabUploadData, TabGenerateSheet, TabExams)
	p.printf("  filter <text>, all, view <exam id>, delete <exam id>, menu, quit\n")
}
