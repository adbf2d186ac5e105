package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/apiclient"
	"github.com/stemsi/seatdesk/internal/collection"
	"github.com/stemsi/seatdesk/internal/config"
	"github.com/stemsi/seatdesk/internal/draft"
	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// Deps are shared by every page.
type Deps struct {
	Config  *config.Config
	Catalog *config.Catalog
	API     *apiclient.Client
	Prompt  Prompter
	Out     io.Writer
	Log     zerolog.Logger
	// Drafts, when set, is shared by the wizard pages so the draft
	// pre-initialized by one completion opens the next page.
	Drafts *draft.Manager
}

func (d Deps) newDrafts() *draft.Manager {
	if d.Drafts != nil {
		return d.Drafts
	}
	return draft.NewManager(d.API, d.Log, d.Config.AbandonTimeout)
}

func (d Deps) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.Out, format, args...)
}

// report prints a failure the way the operator should see it. Server
// messages are shown verbatim.
func (d Deps) report(err error) {
	if err == nil {
		return
	}
	d.printf("Error: %s\n", response.DisplayOf(err))
}

func (d Deps) filesFetcher() *collection.Fetcher[model.UploadedFile] {
	return collection.New(collection.Options[model.UploadedFile]{
		Name:      "uploaded_files",
		Load:      d.API.UploadedFiles,
		Field:     func(f model.UploadedFile) string { return f.FileName },
		Render:    NewTable(d.Out, []string{"ID", "FILE", "DEPARTMENT", "YEAR", "SEM", "STUDENTS", "UPLOADED"}, fileColumns),
		EmptyText: "No student data uploaded yet.",
	}, d.Log)
}

func fileColumns(f model.UploadedFile) []string {
	return []string{
		strconv.Itoa(f.ID), f.FileName, f.Department,
		f.Year.String(), f.Semester.String(),
		strconv.Itoa(f.StudentCount), f.UploadedAt,
	}
}

// command is one line of operator input split into a verb and arguments.
type command struct {
	verb string
	args []string
	raw  string
}

func (c command) arg(i int) string {
	if i < len(c.args) {
		return c.args[i]
	}
	return ""
}

func (c command) intArg(i int) (int, error) {
	n, err := strconv.Atoi(c.arg(i))
	if err != nil {
		return 0, response.Precondition(c.verb, response.ErrInvalidID, fmt.Sprintf("%q is not a number", c.arg(i)))
	}
	return n, nil
}

// rest returns the raw text after the verb.
func (c command) rest() string {
	i := strings.IndexFunc(c.raw, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(c.raw[i:])
}

func parseCommand(line string) command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}
	}
	return command{verb: strings.ToLower(fields[0]), args: fields[1:], raw: strings.TrimSpace(line)}
}

// loop reads commands until handle reports done, the input ends or ctx is
// canceled. Handler errors are reported and the loop continues.
func (d Deps) loop(ctx context.Context, label string, handle func(ctx context.Context, c command) (bool, error)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := d.Prompt.Ask(label)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		c := parseCommand(line)
		if c.verb == "" {
			continue
		}
		done, err := handle(ctx, c)
		if err != nil {
			d.report(err)
		}
		if done {
			return nil
		}
	}
}

// askField prompts until a non-empty reply, offering choices when given.
func (d Deps) askField(label string, choices []string) (string, error) {
	if len(choices) > 0 {
		label = fmt.Sprintf("%s (%s): ", label, strings.Join(choices, "/"))
	} else {
		label += ": "
	}
	return d.Prompt.Ask(label)
}
