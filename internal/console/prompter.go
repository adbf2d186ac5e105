package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads operator input.
type Prompter interface {
	// Ask prints label and returns the trimmed reply. io.EOF ends the session.
	Ask(label string) (string, error)
	// Secret reads a reply without echo when attached to a terminal.
	Secret(label string) (string, error)
	// Confirm asks a yes/no question. Anything but y or yes is no.
	Confirm(question string) bool
}

// Terminal is a Prompter over a reader and writer, normally stdin/stdout.
// Ask gives up when ctx is canceled. The line being read is kept for the
// next Ask.
type Terminal struct {
	ctx context.Context
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool

	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewTerminal wraps in and out. Passwords are read without echo when in is
// an interactive terminal.
func NewTerminal(ctx context.Context, in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{ctx: ctx, in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		t.tty = true
	}
	return t
}

// Ask implements Prompter.
func (t *Terminal) Ask(label string) (string, error) {
	if err := t.ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, label)

	if t.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := t.in.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
		t.pending = ch
	}

	select {
	case r := <-t.pending:
		t.pending = nil
		if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
			return "", r.err
		}
		return strings.TrimSpace(r.line), nil
	case <-t.ctx.Done():
		fmt.Fprintln(t.out)
		return "", t.ctx.Err()
	}
}

// Secret implements Prompter.
func (t *Terminal) Secret(label string) (string, error) {
	if !t.tty || t.pending != nil {
		return t.Ask(label)
	}
	if err := t.ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, label)
	b, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out) // Newline after password input
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(question string) bool {
	answer, err := t.Ask(question + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
