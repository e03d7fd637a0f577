// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decl parses the declaration mini-language AlgoFSM blocks use
// to introduce registered/local variables with an initial value:
// lines of `` local|reg [width] name = init`` (comma-separated for
// several names sharing one width), producing the derived text
// fragments the glue layer splices into the generated always-block
// (local flop declarations, reset assignments, per-cycle update
// statements, combinational defaults, and the undecorated wire
// aliases). Grounded on fsm_converter.py's extract_initial.
package decl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/miguel-guerrero/AlgoFSM/internal/config"
	"github.com/miguel-guerrero/AlgoFSM/internal/diag"
)

// Set holds the text fragments extracted from one block's declaration
// section, plus the raw initial-value-per-signal map used by callers
// that need the init expression directly (e.g. for behavioral output).
type Set struct {
	LocalDeclIn  string
	RstIn        string
	UpdateFfs    string
	UpdateFfsBeh string
	UpdateNxt    string
	RenameFfs    string
	RegTrackInit map[string]string
}

var (
	reEquals = regexp.MustCompile(`\s*=\s*`)
	reReg    = regexp.MustCompile(`reg\s*`)
	reLocal  = regexp.MustCompile(`local\s*`)
	reWidth  = regexp.MustCompile(`(\[.*\])\s*(.*)`)
	reLeadWS = regexp.MustCompile(`^\s*`)
)

// Extract parses txt (one declaration line per signal or
// comma-separated group of signals sharing a width) and returns the
// derived Set. lineDeclBase is the 1-based number of the line
// immediately preceding txt's first line (the SmBegin line, as the
// scanner passes it), so txt's first line is reported as
// lineDeclBase+1 in diagnostics; the
// original implementation never threaded this through to its one
// call site, making line numbers in its errors always wrong for any
// declaration block after the first line of the file.
func Extract(cfg config.Config, oname string, behav bool, txt string, lineDeclBase int) Set {
	set := Set{RegTrackInit: map[string]string{}}
	curr := cfg.StateSuffix
	sd := cfg.SD()
	lineNo := lineDeclBase

	for _, rawLine := range strings.Split(txt, "\n") {
		lineNo++
		line := strings.ReplaceAll(rawLine, ";", "")
		line = strings.TrimRight(line, " \t\r\n")
		if line == "" {
			continue
		}

		width := ""
		local := false
		reg := false

		for _, initAssign := range strings.Split(line, ",") {
			parts := reEquals.Split(initAssign, -1)
			if len(parts) != 2 {
				panic(diag.Errorf(diag.Semantic,
					"'%s' is missing an initial val. line %d: %s", initAssign, lineNo, line))
			}
			varName, init := parts[0], parts[1]
			if strings.HasSuffix(varName, "<") {
				panic(diag.Errorf(diag.Semantic,
					"non-blocking assignments shouldn't be used in algofsm blocks while processing: %s", initAssign))
			}

			if strings.Contains(varName, "reg") {
				reg = true
				varName = reReg.ReplaceAllString(varName, "")
			}
			if strings.Contains(varName, "local") {
				local = true
				varName = reLocal.ReplaceAllString(varName, "")
			}

			width, varName = splitWidth(width, varName)

			set.RegTrackInit[varName] = init

			if !local && !reg {
				panic(diag.Errorf(diag.Semantic, "missing local or reg. line %d: %s", lineNo, line))
			}

			set.LocalDeclIn += fmt.Sprintf("reg %s%s%s, %s;\n", width, varName, curr, varName)

			if init != "" {
				if behav {
					set.RstIn += fmt.Sprintf("%s = %s;\n", varName, init)
				} else {
					set.RstIn += fmt.Sprintf("%s%s <= %s%s;\n", varName, curr, sd, init)
				}
			}

			set.UpdateFfs += fmt.Sprintf("%s%s <= %s%s;\n", varName, curr, sd, varName)

			scope := oname + "."
			set.UpdateFfsBeh += fmt.Sprintf("%s%s%s <= %s%s%s;\n", scope, varName, curr, sd, scope, varName)

			set.UpdateNxt += fmt.Sprintf("%s = %s%s;\n", varName, varName, curr)

			if !local {
				set.RenameFfs += fmt.Sprintf("wire %s%s = %s%s%s;\n", width, varName, scope, varName, curr)
			}
		}
	}
	return set
}

// splitWidth pulls a leading "[msb:lsb]" off var, returning it (with a
// trailing space) as the new width alongside the remaining variable
// name; if var has no bracketed width, the previously-seen width
// carries over and only leading whitespace is stripped from var.
func splitWidth(width, v string) (string, string) {
	if m := reWidth.FindStringSubmatch(v); m != nil {
		return m[1] + " ", m[2]
	}
	return width, reLeadWS.ReplaceAllString(v, "")
}
