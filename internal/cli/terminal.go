// Package cli implements the sequential terminal menu for the loan
// service. The session loop talks to a Terminal capability so tests can
// drive it with a scripted fake.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is the rendering and input capability used by the session
// loop. Secret input must never be echoed or logged.
type Terminal interface {
	Header(title string)
	Say(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Fail(format string, args ...any)
	Prompt(label string) (string, error)
	Secret(label string) (string, error)
}

// ANSI color codes matching the classic terminal UI
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorBlue   = "\033[94m"
	colorCyan   = "\033[96m"
	colorGreen  = "\033[92m"
	colorYellow = "\033[93m"
	colorRed    = "\033[91m"
)

// ansiTerminal renders to stdout with ANSI colors and reads stdin
type ansiTerminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewANSITerminal creates the interactive terminal implementation
func NewANSITerminal(in io.Reader, out io.Writer) Terminal {
	return &ansiTerminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (t *ansiTerminal) Header(title string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintf(t.out, "\n%s%s\n", colorBlue, line)
	fmt.Fprintf(t.out, "%s%s%s\n", colorBold, centered(title, 60), colorReset)
	fmt.Fprintf(t.out, "%s%s%s\n\n", colorBlue, line, colorReset)
}

func (t *ansiTerminal) Say(format string, args ...any) {
	fmt.Fprintf(t.out, colorCyan+format+colorReset+"\n", args...)
}

func (t *ansiTerminal) Success(format string, args ...any) {
	fmt.Fprintf(t.out, colorGreen+colorBold+"✓ "+format+colorReset+"\n", args...)
}

func (t *ansiTerminal) Warn(format string, args ...any) {
	fmt.Fprintf(t.out, colorYellow+colorBold+"⚠ "+format+colorReset+"\n", args...)
}

func (t *ansiTerminal) Fail(format string, args ...any) {
	fmt.Fprintf(t.out, colorRed+colorBold+"✗ "+format+colorReset+"\n", args...)
}

func (t *ansiTerminal) Prompt(label string) (string, error) {
	fmt.Fprintf(t.out, "%s%s: %s", colorYellow, label, colorReset)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret reads a line without echoing when stdin is a real terminal,
// and falls back to a plain read otherwise (pipes, tests).
func (t *ansiTerminal) Secret(label string) (string, error) {
	fmt.Fprintf(t.out, "%s%s: %s", colorYellow, label, colorReset)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func centered(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
