// Package diag implements the compiler's diagnostics sink: an ordered,
// append-only list of errors and warnings bound to source positions
// (spec.md §4.1).
package diag

import (
	"fmt"
	"strings"

	"github.com/saaam-lang/compiler/pkgs/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single compiler message bound to a byte offset.
type Diagnostic struct {
	Severity Severity
	Message  string
	Offset   int
}

// Render formats the diagnostic against src in a caret-pointer style,
// e.g.:
//
//	3:1: warning: "x" declared but never used
//	  |
//	 3 | var x = 1;
//	  | ^
func (d Diagnostic) Render(src string) string {
	line, col := token.LineCol(src, d.Offset)
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d: %s: %s\n", line, col, d.Severity, d.Message)

	lines := strings.Split(src, "\n")
	if line-1 >= 0 && line-1 < len(lines) {
		content := lines[line-1]
		fmt.Fprintf(&b, "  |\n%2d | %s\n  | ", line, content)
		if col > 0 && col <= len(content)+1 {
			b.WriteString(strings.Repeat(" ", col-1) + "^")
		}
	}
	return b.String()
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (offset %d)", d.Severity, d.Message, d.Offset)
}

// Sink is the ordered, append-only diagnostics collector threaded through
// every compiler stage. It never aborts; abort is the caller's decision.
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Error records an ERROR diagnostic at offset.
func (s *Sink) Error(offset int, format string, args ...any) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Offset:   offset,
	})
}

// Warn records a WARNING diagnostic at offset.
func (s *Sink) Warn(offset int, format string, args ...any) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Offset:   offset,
	})
}

// HasErrors reports whether any ERROR diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns every diagnostic in insertion order.
func (s *Sink) All() []Diagnostic {
	return s.diagnostics
}

// Errors returns only the ERROR diagnostics, in insertion order.
func (s *Sink) Errors() []Diagnostic {
	return s.filter(Error)
}

// Warnings returns only the WARNING diagnostics, in insertion order.
func (s *Sink) Warnings() []Diagnostic {
	return s.filter(Warning)
}

func (s *Sink) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range s.diagnostics {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}
