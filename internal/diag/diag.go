// Package diag defines the diagnostic types shared by every compiler phase:
// positions, single errors and sortable error lists that batch multiple
// diagnostics into one reported failure.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Position identifies a location in a source file for error reporting.
type Position struct {
	Filename string
	Line     int // 1-based, 0 if unknown
	Col      int // 1-based, 0 if unknown
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	var b strings.Builder
	if p.Filename != "" {
		b.WriteString(p.Filename)
	}
	if p.IsValid() {
		if b.Len() > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%d:%d", p.Line, p.Col)
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// Error is a single positioned diagnostic message.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string {
	if e.Pos.IsValid() || e.Pos.Filename != "" {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// List is an accumulating, sortable collection of diagnostics. The resolver
// uses it to batch every diagnostic found across the whole tree before
// failing atomically; the lexer and parser stop at their first error and
// return it directly instead.
type List struct {
	errs []Error
}

// Add appends a diagnostic at the given position.
func (l *List) Add(pos Position, msg string) {
	l.errs = append(l.errs, Error{Pos: pos, Msg: msg})
}

// Addf appends a formatted diagnostic at the given position.
func (l *List) Addf(pos Position, format string, args ...any) {
	l.Add(pos, fmt.Sprintf(format, args...))
}

// Len reports the number of diagnostics accumulated so far.
func (l *List) Len() int { return len(l.errs) }

// Reset discards all accumulated diagnostics.
func (l *List) Reset() { l.errs = l.errs[:0] }

// Sort orders diagnostics by filename then line then column, stabilizing
// output across map-iteration-order-dependent callers.
func (l *List) Sort() {
	sort.SliceStable(l.errs, func(i, j int) bool {
		a, b := l.errs[i].Pos, l.errs[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}

// Err returns nil if the list is empty, otherwise itself as an error, so
// callers can propagate "no diagnostics" as a nil error in the usual way.
func (l *List) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return &listError{errs: l.errs}
}

// listError is the error value returned by List.Err, exposing every
// accumulated diagnostic via Unwrap() []error for errors.Is/As/Join-style
// inspection by callers.
type listError struct {
	errs []Error
}

func (e *listError) Error() string {
	var b strings.Builder
	for i, er := range e.errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(er.Error())
	}
	return b.String()
}

func (e *listError) Unwrap() []error {
	out := make([]error, len(e.errs))
	for i, er := range e.errs {
		out[i] = er
	}
	return out
}

// Messages returns the plain message text of every diagnostic, in order,
// without positions. The package-level Messages function exposes it.
func (e *listError) Messages() []string {
	out := make([]string, len(e.errs))
	for i, er := range e.errs {
		out[i] = er.Msg
	}
	return out
}

// Messages extracts the ordered message text from an error returned by
// List.Err, if it came from a List; otherwise it returns a single-element
// slice with err.Error().
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	if le, ok := err.(*listError); ok {
		return le.Messages()
	}
	return []string{err.Error()}
}
