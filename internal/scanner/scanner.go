// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner implements the outer fence state machine that finds
// SmBegin/SmForever/SmEnd regions in a source file, passing everything
// outside them through verbatim and handing each region's body to the
// glue package for translation. Grounded on
// original_source/algofsm/parse_input.py's ParserState-driven
// parseInputFile.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/miguel-guerrero/AlgoFSM/internal/config"
	"github.com/miguel-guerrero/AlgoFSM/internal/decl"
	"github.com/miguel-guerrero/AlgoFSM/internal/diag"
	"github.com/miguel-guerrero/AlgoFSM/internal/glue"
)

type fenceState int

const (
	idle fenceState = iota
	done
	inSmBegin
	inSmForever
)

var reSmDecl = regexp.MustCompile(`^(\s*)SmDecl:\s*(.*)`)

// Run scans r line by line, copying everything outside an
// SmBegin/SmForever/SmEnd region straight to w, and translating each
// region's body through glue.Block, writing the generated text to w in
// its place. dump, if non-nil, is forwarded to every block's debug
// hook. A malformed fence (SmBegin without SmForever, or SmForever
// without SmEnd) or a parse error in a block's body is returned as an
// error; other fatal diagnostics raised while translating a block (a
// bad declaration, a case containing a tick, a loop without a tick)
// panic with a *diag.FatalKind and are not recovered here. A file with
// no SmBegin at all is only a warning, reported through rep.
func Run(cfg config.Config, r io.Reader, w io.Writer, fileBase string, rep *diag.Reporter, dump glue.DumpHook) error {
	br := bufio.NewReader(r)

	state := idle
	lineNo := 0
	lineBase := 0
	declBase := 0
	smNum := 0
	var declIn, inp strings.Builder

	for {
		line, readErr := br.ReadString('\n')
		if len(line) == 0 && readErr != nil {
			break
		}
		lineNo++
		trimmed := strings.TrimSpace(line)

		switch state {
		case idle, done:
			if trimmed == "SmBegin" {
				state = inSmBegin
				declBase = lineNo
				declIn.Reset()
				inp.Reset()
			} else {
				fmt.Fprint(w, line)
			}

		case inSmBegin:
			if trimmed == "SmForever" {
				lineBase = lineNo
				state = inSmForever
			} else {
				declIn.WriteString(line)
			}

		case inSmForever:
			if trimmed == "SmEnd" {
				oname := fmt.Sprintf("%s%d", cfg.Name, smNum)
				declSet := decl.Extract(cfg, oname, cfg.Behav, declIn.String(), declBase)

				b := glue.New(cfg, smNum, declSet)
				b.Dump = dump

				var text string
				if cfg.Behav {
					text = b.ProcessBehavioral(inp.String(), "", lineBase, fileBase)
				} else {
					var err error
					text, err = b.ProcessRTL(inp.String(), "", lineBase, fileBase)
					if err != nil {
						return err
					}
				}
				fmt.Fprintln(w, text)

				smNum++
				state = done
			} else if m := reSmDecl.FindStringSubmatch(line); m != nil {
				declIn.WriteString(m[1] + m[2] + "\n")
			} else {
				inp.WriteString(line)
			}
		}

		if readErr != nil {
			break
		}
	}

	switch state {
	case idle:
		if rep != nil {
			rep.Warn("SmBegin section not found")
		}
	case inSmBegin:
		return diag.Errorf(diag.Structural, "SmCombo/SmForever section not found")
	case inSmForever:
		return diag.Errorf(diag.Structural, "SmEnd not found")
	}
	return nil
}
