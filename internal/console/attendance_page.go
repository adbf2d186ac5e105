package console

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/stemsi/seatdesk/internal/collection"
	"github.com/stemsi/seatdesk/internal/draft"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/sheet"
	"github.com/stemsi/seatdesk/internal/wizard"
)

// AttendancePage is the three-step attendance sheet wizard: name the batch,
// pick exactly one roster, then preview, export and save the pages.
type AttendancePage struct {
	Deps

	drafts  *draft.Manager
	session *wizard.AttendanceSession
	files   *collection.Fetcher[model.UploadedFile]
	wiz     *wizard.Controller
	result  *model.CompleteResult
}

// NewAttendancePage creates the page. Call Open before anything else.
func NewAttendancePage(d Deps) *AttendancePage {
	return &AttendancePage{Deps: d, drafts: d.newDrafts(), files: d.filesFetcher()}
}

// Open starts a draft and resets the wizard. Without a draft the page is
// unusable, so the error is returned to the caller.
func (p *AttendancePage) Open(ctx context.Context) error {
	id, err := p.drafts.Init(ctx)
	if err != nil {
		return err
	}
	p.session = wizard.NewAttendanceSession(id)
	p.result = nil
	p.wiz = wizard.NewController("attendance", p.Log,
		wizard.Step{Name: "Exam Name", Ready: p.session.NameReady, Submit: p.submitName},
		wizard.Step{Name: "Student File", Ready: p.session.Files.Valid, Submit: p.submitFile},
		wizard.Step{Name: "Preview", Ready: p.previewReady, Submit: p.submitPreview},
	)
	return nil
}

// Close abandons an unfinished draft without waiting for the server.
func (p *AttendancePage) Close() {
	p.drafts.Abandon()
}

// Drafts exposes the draft manager so the caller can wait on cleanup.
func (p *AttendancePage) Drafts() *draft.Manager { return p.drafts }

// Session returns the wizard session.
func (p *AttendancePage) Session() *wizard.AttendanceSession { return p.session }

// Wizard returns the step controller.
func (p *AttendancePage) Wizard() *wizard.Controller { return p.wiz }

// Files returns the roster list.
func (p *AttendancePage) Files() *collection.Fetcher[model.UploadedFile] { return p.files }

// Result is the completion acknowledgement, nil until the wizard finishes.
func (p *AttendancePage) Result() *model.CompleteResult { return p.result }

// SetName sets the sheet batch name.
func (p *AttendancePage) SetName(name string) {
	p.session.Name = strings.TrimSpace(name)
}

// SelectFile makes id the only selected roster.
func (p *AttendancePage) SelectFile(id int) error {
	if _, ok := p.files.Find(func(f model.UploadedFile) bool { return f.ID == id }); !ok {
		return response.Precondition("select file", response.ErrNotFound, fmt.Sprintf("No file with id %d.", id))
	}
	p.session.Files.Clear()
	p.session.Files.Select(id)
	return nil
}

// Next advances the wizard.
func (p *AttendancePage) Next(ctx context.Context) error {
	return p.wiz.Advance(ctx)
}

// Back retreats one step.
func (p *AttendancePage) Back() bool {
	return p.wiz.Retreat()
}

func (p *AttendancePage) submitName(ctx context.Context) error {
	p.drafts.Update(ctx, p.session.Name)
	// A failed load leaves a placeholder and an empty selection list.
	_, _ = p.files.Load(ctx)
	return nil
}

func (p *AttendancePage) submitFile(ctx context.Context) error {
	id := p.session.Files.Keys()[0]
	file, ok := p.files.Find(func(f model.UploadedFile) bool { return f.ID == id })
	if !ok {
		return response.Precondition("generate sheets", response.ErrNotFound, fmt.Sprintf("No file with id %d.", id))
	}

	gen, err := p.API.GenerateSheets(ctx, p.session.ExamID, file)
	if err != nil {
		return err
	}
	if len(gen.Pages) == 0 {
		return response.Precondition("generate sheets", response.ErrNoStudents, "")
	}
	p.session.File = file
	p.session.Sheets = gen
	p.session.Saved = false
	p.renderPreview()
	return nil
}

func (p *AttendancePage) previewReady() error {
	if p.session.Sheets == nil {
		return response.Precondition("preview", response.ErrStepNotReady, "Generate the sheets first.")
	}
	return nil
}

// submitPreview asks once, then saves the pages and completes the draft.
// Declining sends nothing.
func (p *AttendancePage) submitPreview(ctx context.Context) error {
	if !p.Prompt.Confirm("Save these attendance sheets?") {
		return response.Precondition("save sheets", response.ErrNotConfirmed, "")
	}
	if !p.session.Saved {
		if err := p.API.SaveSheets(ctx, p.session.ExamID, p.session.File.ID, p.session.Sheets); err != nil {
			return err
		}
		p.session.Saved = true
	}
	res, err := p.drafts.Complete(ctx, nil, "")
	if err != nil {
		return err
	}
	p.result = res
	p.printf("%s\n", res.Message)
	return nil
}

// Export writes the previewed pages to an XLSX workbook.
func (p *AttendancePage) Export() (string, error) {
	if err := p.previewReady(); err != nil {
		return "", err
	}
	path, err := sheet.Export(p.Config.SheetExportDir, p.session.Sheets)
	if err != nil {
		return "", err
	}
	p.Log.Info().Str("path", path).Msg("Attendance sheets exported")
	return path, nil
}

func (p *AttendancePage) renderPreview() {
	gen := p.session.Sheets
	p.printf("%s: %d sheet(s)\n", gen.ExamName, len(gen.Pages))
	for pi, page := range gen.Pages {
		first := gen.FirstSerial(pi)
		p.printf("\n-- Sheet %d of %d  Branch %s  Semester %s --\n", page.PageIndex+1, page.TotalSheets, page.Branch, page.Semester)
		tw := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SL\tNAME\tROLL NO\tREG NO")
		for i, s := range page.Students {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", first+i, s.Name, s.RollNumber, s.RegistrationNumber)
		}
		_ = tw.Flush()
	}
}

// Run drives the page from operator commands until it finishes or the input
// ends. The draft is abandoned when leaving early.
func (p *AttendancePage) Run(ctx context.Context) error {
	if err := p.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if !p.wiz.Done() {
			p.Close()
		}
	}()

	p.help()
	return p.loop(ctx, "attendance> ", func(ctx context.Context, c command) (bool, error) {
		switch c.verb {
		case "name":
			p.SetName(c.rest())
		case "select":
			id, err := c.intArg(0)
			if err != nil {
				return false, err
			}
			return false, p.SelectFile(id)
		case "filter":
			p.files.Filter(c.rest())
		case "all":
			p.files.ShowAll()
		case "export":
			path, err := p.Export()
			if err == nil {
				p.printf("Saved %s\n", path)
			}
			return false, err
		case "next":
			if err := p.Next(ctx); err != nil {
				return false, err
			}
			if p.wiz.Done() {
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
		p.printf("%s\n", p.wiz.Indicator())
		return false, nil
	})
}

func (p *AttendancePage) help() {
	p.printf("%s\n", p.wiz.Indicator())
	p.printf("Commands: name <text>, select <file id>, filter <text>, all, next, back, export, quit\n")
}
