// Package bufwriter collects the statements produced while rendering one operation.
package bufwriter

import (
	"fmt"
	"strings"
)

// Writer accumulates complete SQL statements. It is not safe for concurrent use.
type Writer struct {
	statements []string
	buf        strings.Builder
}

// WriteStatement appends a complete statement. Trailing semicolons and
// surrounding whitespace are trimmed; empty statements are dropped.
func (w *Writer) WriteStatement(stmt string) {
	stmt = strings.TrimSpace(stmt)
	stmt = strings.TrimSpace(strings.TrimRight(stmt, ";"))
	if stmt == "" {
		return
	}
	w.statements = append(w.statements, stmt)
}

// WriteStatementf formats and appends a complete statement.
func (w *Writer) WriteStatementf(format string, args ...any) {
	w.WriteStatement(fmt.Sprintf(format, args...))
}

// WriteString appends s to the statement under construction.
func (w *Writer) WriteString(s string) {
	w.buf.WriteString(s)
}

// WriteStringf formats and appends to the statement under construction.
func (w *Writer) WriteStringf(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
}

// EndStatement closes the statement under construction.
func (w *Writer) EndStatement() {
	w.WriteStatement(w.buf.String())
	w.buf.Reset()
}

// Statements returns a copy of the statements written since the last Reset.
func (w *Writer) Statements() []string {
	out := make([]string, len(w.statements))
	copy(out, w.statements)
	return out
}

// Reset discards everything written so far.
func (w *Writer) Reset() {
	w.statements = nil
	w.buf.Reset()
}
