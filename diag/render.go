package diag

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// maxLineBytes clamps how much of an offending line is reprinted.
const maxLineBytes = 240

// Render writes the diagnostic with source context to w: the previous
// line, the offending line, a caret span aligned under the offending
// token, the following line, then the substituted message. src supplies
// the original document bytes (the file is re-read by the caller).
func Render(w io.Writer, src io.Reader, e *Error) {
	caption := captionColor(w)("ConfigError::%s", e.Kind)
	fmt.Fprintf(w, "%s\n", caption)

	prev, cur, next, col := contextLines(src, e.Pos)
	if prev != "" || e.Pos.Line > 1 {
		fmt.Fprintf(w, "%3d |%s\n", e.Pos.Line-1, prev)
	}
	fmt.Fprintf(w, "%3d |%s\n", e.Pos.Line, cur)

	span := e.Pos.Len
	if span < 1 {
		span = 1
	}
	if col > len(cur) {
		col = len(cur)
	}
	if col+span > len(cur) {
		span = len(cur) - col
	}
	if span < 1 {
		span = 1
	}
	carets := strings.Repeat(" ", col) + caretColor(w)(strings.Repeat("^", span))
	fmt.Fprintf(w, "    |%s\n", carets)

	if next != "" {
		fmt.Fprintf(w, "%3d |%s\n", e.Pos.Line+1, next)
	}
	fmt.Fprintf(w, "\n%s\n", e.Message())
}

// Exit renders e to stderr with context from srcPath and terminates the
// process with status 1. It never returns.
func Exit(srcPath string, e *Error) {
	f, err := os.Open(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ConfigError::%s\n\n%s\n", e.Kind, e.Message())
		os.Exit(1)
	}
	Render(os.Stderr, f, e)
	f.Close()
	os.Exit(1)
}

// contextLines scans src for the line containing pos plus its
// neighbors, clamped to maxLineBytes, and returns the caret column
// within the clamped offending line.
func contextLines(src io.Reader, pos Pos) (prev, cur, next string, col int) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		switch ln {
		case pos.Line - 1:
			prev = clampLine(sc.Bytes())
		case pos.Line:
			cur = clampLine(sc.Bytes())
		case pos.Line + 1:
			next = clampLine(sc.Bytes())
		}
		if ln > pos.Line {
			break
		}
	}
	col = pos.Col - 1
	if col < 0 {
		col = 0
	}
	if col > len(cur) {
		col = len(cur)
	}
	return prev, cur, next, col
}

func clampLine(b []byte) string {
	if len(b) > maxLineBytes {
		b = b[:maxLineBytes]
	}
	// Tabs would misalign the caret span; render them as single spaces.
	return string(bytes.ReplaceAll(b, []byte{'\t'}, []byte{' '}))
}

func captionColor(w io.Writer) func(string, ...any) string {
	if !colorEnabled(w) {
		return fmt.Sprintf
	}
	return color.New(color.FgRed, color.Bold).Sprintf
}

func caretColor(w io.Writer) func(string) string {
	if !colorEnabled(w) {
		return func(s string) string { return s }
	}
	red := color.New(color.FgRed).SprintfFunc()
	return func(s string) string { return red("%s", s) }
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
