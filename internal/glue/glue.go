// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glue ties the declaration extractor, parser, and DAG passes
// together into the two output modes AlgoFSM supports: a behavioral
// passthrough (for verifying the algorithm's intent with minimal
// transformation) and the full RTL finite-state-machine translation.
// Grounded on fsm_converter.py's process_block (behavioral) and
// fsm_converter_rtl.py's process_block/dump_dag_sm (RTL).
package glue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/miguel-guerrero/AlgoFSM/internal/config"
	"github.com/miguel-guerrero/AlgoFSM/internal/dagconv"
	"github.com/miguel-guerrero/AlgoFSM/internal/decl"
	"github.com/miguel-guerrero/AlgoFSM/internal/diag"
	"github.com/miguel-guerrero/AlgoFSM/internal/emit"
	"github.com/miguel-guerrero/AlgoFSM/internal/expand"
	"github.com/miguel-guerrero/AlgoFSM/internal/langutil"
	"github.com/miguel-guerrero/AlgoFSM/internal/merge"
	"github.com/miguel-guerrero/AlgoFSM/internal/node"
	"github.com/miguel-guerrero/AlgoFSM/internal/parser"
)

// DumpHook receives a debug snapshot at each named pass boundary; nil
// disables dumping. Its shape matches expand.DumpFunc/dagconv.DumpFunc
// so it can be passed straight through to both.
type DumpHook func(tag string, root, changed *node.Node)

// Block drives one SmBegin..SmEnd translation unit through to output
// text. One Block exists per block in the source file; Block.SmNum
// gives it the same per-instance numbering fsm_converter.py's
// FsmConverter.sm_num class counter produces.
type Block struct {
	Cfg   config.Config
	SmNum int
	Oname string
	Decl  decl.Set
	Dump  DumpHook

	oprefix     string
	ostate      string
	renameState map[*node.Node]int
}

// New builds a Block for translation unit smNum, deriving its output
// name from cfg.Name the way FsmConverter.__init__ does.
func New(cfg config.Config, smNum int, declSet decl.Set) *Block {
	return &Block{
		Cfg:   cfg,
		SmNum: smNum,
		Oname: fmt.Sprintf("%s%d", cfg.Name, smNum),
		Decl:  declSet,
	}
}

func expandInput(behIn string) string {
	return "while(1) begin\n`tick;\n" + behIn + "end\n"
}

// ProcessRTL wraps behIn in an infinite loop with a leading tick,
// parses it, lowers it to a DAG, merges equivalent states, and
// renders the full synthesizable always-block. A syntax error in behIn
// is returned as an ordinary error; any later structural error (an
// unreachable tick, a loop without a tick, a case statement with a
// tick) panics with a *diag.FatalKind, left unrecovered so it reaches
// the single top-level boundary the caller establishes.
func (b *Block) ProcessRTL(behIn, ind string, lineBase int, fileBase string) (string, error) {
	b.oprefix = fmt.Sprintf("%s%d_", b.Cfg.Prefix, b.SmNum)
	b.ostate = fmt.Sprintf("%s%d", b.Cfg.State, b.SmNum)

	tick, _ := b.Cfg.Ticks()
	resetCond, _ := b.Cfg.Resets()
	tab := b.Cfg.Tab()
	sd := b.Cfg.SD()
	curr := b.Cfg.StateSuffix

	inp := expandInput(behIn)

	store := node.New()
	p := parser.New(store, inp, lineBase, fileBase)
	root, err := p.Parse()
	if err != nil {
		return "", err
	}

	dump := func(tag string, r, changed *node.Node) {
		if b.Dump != nil {
			b.Dump(fmt.Sprintf("%d_%s", b.SmNum, tag), r, changed)
		}
	}

	expand.Tree(store, root, root, dump)
	dagconv.ToDAG(store, root, root, dump)
	merge.States(store, tab)

	tksByCode := map[string]*node.Node{}
	for _, n := range store.Live() {
		if n.Kind == node.Tk {
			tksByCode[n.Code] = n
		}
	}

	stateBitsM1 := computeStateBits(len(tksByCode))
	b.renameState = map[*node.Node]int{}
	parOut := b.computeLocalParams(tksByCode)

	initNode := findFirstTick(store, root)
	initState := b.stateName(initNode)

	enaGuard := ""
	if b.Cfg.Ena != "" {
		enaGuard = fmt.Sprintf("if (%s%d) ", b.Cfg.Ena, b.SmNum)
	}

	var out dumper
	out.dump()
	out.dump(fmt.Sprintf("// AlgoFSM%d {\n", b.SmNum))
	out.dump("// state constant definition")
	out.dump(langutil.Indent(ind, parOut))

	out.dump()
	out.dump(ind + fmt.Sprintf("always %s begin : %s", tick, b.Oname))

	if b.Decl.LocalDeclIn != "" {
		out.dump()
		out.dump(ind + tab + "// local flop declarations")
		out.dump(langutil.Indent(ind+tab, b.Decl.LocalDeclIn))
	}

	out.dump(ind + tab + fmt.Sprintf("reg [%d:0] %s%s, %s;", stateBitsM1, b.ostate, curr, b.ostate))

	out.dump()
	out.dump(ind + tab + fmt.Sprintf("if (%s) begin", resetCond))
	if b.Decl.RstIn != "" {
		out.dump(langutil.Indent(ind+strings.Repeat(tab, 2), b.Decl.RstIn))
	}
	out.dump(ind + strings.Repeat(tab, 2) + fmt.Sprintf("%s%s <= %s%s;", b.ostate, curr, sd, initState))
	out.dump(ind + tab + "end")
	out.dump(ind + tab + fmt.Sprintf("else %sbegin", enaGuard))
	out.dump(ind + strings.Repeat(tab, 2) + "// set defaults for next state ")
	out.dump(langutil.Indent(ind+strings.Repeat(tab, 2), b.Decl.UpdateNxt))
	out.dump(ind + strings.Repeat(tab, 2) + fmt.Sprintf("%s = %s%s;", b.ostate, b.ostate, curr))
	out.dump()
	out.dump(ind + strings.Repeat(tab, 2) + "// SmForever")
	out.dump(ind + strings.Repeat(tab, 2) + fmt.Sprintf("case (%s%s)", b.ostate, curr))

	codes := make([]string, 0, len(tksByCode))
	for c := range tksByCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, code := range codes {
		tk := tksByCode[code]
		stName := b.stateName(tk)
		out.dump(ind + strings.Repeat(tab, 3) + fmt.Sprintf("%s: begin", stName))
		body := emit.DumpSubDAG(emit.Options{
			Tab:       tab,
			Mode:      emit.Rel,
			StateReg:  b.ostate,
			StateNode: tk,
			NameState: b.stateName,
		}, tk.Succ(), ind+strings.Repeat(tab, 4), map[int]bool{})
		out.dump(body)
		out.dumpNonl(ind + strings.Repeat(tab, 3) + "end")
	}

	out.dump(ind + strings.Repeat(tab, 2) + "endcase")
	out.dump(ind + strings.Repeat(tab, 2) + "// SmEnd")
	out.dump()
	out.dump(ind + strings.Repeat(tab, 2) + "// Update state registers")
	out.dump(langutil.Indent(ind+strings.Repeat(tab, 2), b.Decl.UpdateFfs))
	out.dump(ind + strings.Repeat(tab, 2) + fmt.Sprintf("%s%s <= %s%s;", b.ostate, curr, sd, b.ostate))
	out.dump(ind + tab + "end")
	out.dump(ind + "end")

	out.dump()
	out.dump(ind + "// rename local state registers dropping suffix")
	out.dump(langutil.Indent(ind, b.Decl.RenameFfs))

	out.dump()
	out.dump(fmt.Sprintf("// } AlgoFSM%d\n", b.SmNum))

	return out.val(), nil
}

// ProcessBehavioral renders the non-transforming behavioral mode: the
// input body is wrapped verbatim in a disable-able loop driven by a
// `tick macro, with no control-flow lowering at all.
func (b *Block) ProcessBehavioral(behIn, ind string, lineBase int, fileBase string) string {
	tick, _ := b.Cfg.Ticks()
	resetCond, notResetCond := b.Cfg.Resets()
	tab := b.Cfg.Tab()

	ena := ""
	if b.Cfg.Ena != "" {
		ena = fmt.Sprintf("%s%d", b.Cfg.Ena, b.SmNum)
	}

	var out dumper
	out.dump()
	out.dump(fmt.Sprintf("// AlgoFSM%d {", b.SmNum))
	out.dump()

	if ena == "" {
		out.dump(ind + fmt.Sprintf(
			"`define tick \\\n"+
				"    do begin \\\n"+
				"        %s_update_ffs; \\\n"+
				"        %s; \\\n"+
				"        if (%s) \\\n"+
				"            disable %s_loop; \\\n"+
				"    end while (0)",
			b.Oname, tick, resetCond, b.Oname))
	} else {
		out.dump(ind + fmt.Sprintf(
			"`define tick \\\n"+
				"    do begin \\\n"+
				"        %s_update_ffs; \\\n"+
				"        do %s; while(~%s); \\\n"+
				"        if (%s) \\\n"+
				"            disable %s_loop; \\\n"+
				"    end while (0)",
			b.Oname, tick, ena, resetCond, b.Oname))
	}

	out.dump()
	b.dumpTaskUpdateFfs(ind, &out)

	out.dump()
	out.dump(ind + fmt.Sprintf("always %s begin : %s", tick, b.Oname))

	if b.Decl.LocalDeclIn != "" {
		out.dump()
		out.dump(ind + tab + "// local declarations")
		out.dump(langutil.Indent(ind+tab, b.Decl.LocalDeclIn))
	}

	out.dump()
	out.dump(ind + tab + fmt.Sprintf("if (%s) begin // not in reset", notResetCond))
	out.dump(ind + strings.Repeat(tab, 2) + fmt.Sprintf("begin : %s_loop", b.Oname))
	out.dump(ind + strings.Repeat(tab, 3) + "while (1) begin")
	out.dump(ind + strings.Repeat(tab, 4) + fmt.Sprintf("// SmForever verbatim from %s:%d", fileBase, lineBase))
	out.dump(langutil.Indent(ind+strings.Repeat(tab, 3), behIn))
	out.dump(ind + strings.Repeat(tab, 4) + "// SmEnd verbatim end")
	out.dump(ind + strings.Repeat(tab, 4) + "`tick;")
	out.dump(ind + strings.Repeat(tab, 3) + "end")
	out.dump(ind + strings.Repeat(tab, 2) + "end")
	out.dump(ind + tab + "end")

	if b.Decl.RstIn != "" {
		out.dump(ind + tab + "// reset behavior")
		out.dump(langutil.Indent(ind+tab, b.Decl.RstIn))
		out.dump(langutil.Indent(ind+tab, fmt.Sprintf("%s_update_ffs;", b.Oname)))
	}

	out.dump(ind + "end")

	out.dump()
	out.dump(ind + "// rename local registered signals dropping suffix")
	out.dump(langutil.Indent(ind, b.Decl.RenameFfs))

	out.dump()
	out.dump(ind + "`undef tick")
	out.dump()
	out.dump(fmt.Sprintf("// } AlgoFSM%d\n", b.SmNum))

	return out.val()
}

func (b *Block) dumpTaskUpdateFfs(ind string, out *dumper) {
	tab := b.Cfg.Tab()
	out.dump(ind + fmt.Sprintf("task %s_update_ffs;", b.Oname))
	out.dump(ind + tab + "begin")
	out.dump(langutil.Indent(ind+strings.Repeat(tab, 2), b.Decl.UpdateFfsBeh))
	out.dump(ind + tab + "end")
	out.dump(ind + "endtask")
}

// stateName names a tick node for RTL output: its raw label under the
// block's state-constant prefix, or its post-sort index when
// cfg.RenameStates requests the shorter numbered form.
func (b *Block) stateName(n *node.Node) string {
	stName := fmt.Sprintf("%sS%s", b.oprefix, n.Code)
	if b.Cfg.RenameStates {
		if renamed, ok := b.renameState[n]; ok {
			stName = fmt.Sprintf("%s%d", b.oprefix, renamed)
		}
	}
	return stName
}

// computeLocalParams assigns each code's tick node a stable sorted
// index, recording it in b.renameState, and returns the
// "localparam NAME = i;" text block.
func (b *Block) computeLocalParams(tks map[string]*node.Node) string {
	codes := make([]string, 0, len(tks))
	for c := range tks {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	var d dumper
	for i, code := range codes {
		tk := tks[code]
		b.renameState[tk] = i
		d.dump(fmt.Sprintf("localparam %s = %d;", b.stateName(tk), i))
	}
	return d.val()
}

// computeStateBits returns the number of extra address bits beyond the
// first needed to uniquely number count states (0 for 1 or 2 states, 1
// for 3 or 4, 2 for 5 through 8, and so on).
func computeStateBits(count int) int {
	stateBitsM1 := 0
	maxState := 2
	for i := 0; i < count; i++ {
		if i >= maxState {
			maxState *= 2
			stateBitsM1++
		}
	}
	return stateBitsM1
}

// findFirstTick locates the tick reached first along a depth-first walk
// from root (true branch, false branch, reserved child, then
// sequential successor, matching the original's child probe order),
// marking nodes visited as it goes so cycles terminate the search
// instead of looping forever. No tick anywhere is a fatal NotFound
// diagnostic: there is no way to pick a reset state.
func findFirstTick(store *node.Store, root *node.Node) *node.Node {
	store.ResetVisited()

	var walk func(n *node.Node) *node.Node
	walk = func(n *node.Node) *node.Node {
		if n == nil || n.Visited {
			return nil
		}
		n.Visited = true
		if n.Kind == node.Tk {
			return n
		}
		for _, c := range []*node.Node{n.Child[1], n.Child[2], n.Child[0], n.Next} {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}

	found := walk(root)
	if found == nil {
		panic(diag.Errorf(diag.NotFound, "cannot determine initial state (no `tick at all found)"))
	}
	return found
}
