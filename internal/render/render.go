// Package render formats the run report for the terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// Writer writes progress lines to the terminal. Diagnostics belong to
// slog; this is the operator-facing report only.
type Writer struct {
	out io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

func Stdout() *Writer {
	return NewWriter(os.Stdout)
}

func (w *Writer) Println(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

func (w *Writer) Line() {
	fmt.Fprintln(w.out)
}

// Header writes a banner with a rule above and below.
func (w *Writer) Header(title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w.out, rule)
	fmt.Fprintln(w.out, title)
	fmt.Fprintln(w.out, rule)
}

// Item writes an indented detail line.
func (w *Writer) Item(format string, args ...any) {
	fmt.Fprintf(w.out, "  "+format+"\n", args...)
}

func (w *Writer) Success(format string, args ...any) {
	w.Item("%s %s", green("✓"), fmt.Sprintf(format, args...))
}

func (w *Writer) Warn(format string, args ...any) {
	w.Item("%s %s", yellow("!"), fmt.Sprintf(format, args...))
}

func (w *Writer) Error(format string, args ...any) {
	w.Item("%s %s", red("✗"), fmt.Sprintf(format, args...))
}
