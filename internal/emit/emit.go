// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit walks a lowered DAG rooted at a tick node and renders
// its per-state RTL body: literal statements, nested if/while/for/case
// control structures that never needed DAG lowering (because they
// contain no tick), and eif terminators rendered as synthesized
// if/else blocks with constant folding and a branch-swap optimization.
// Grounded on fsm_converter_rtl.py's dump_subdag_sm.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/miguel-guerrero/AlgoFSM/internal/diag"
	"github.com/miguel-guerrero/AlgoFSM/internal/langutil"
	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

// Mode selects how a tick leaf renders: Abs always emits an explicit
// state assignment; Rel renders a transition back to stateNode itself
// as "// stay in state".
type Mode int

const (
	Abs Mode = iota
	Rel
)

const stayText = "// stay in state"

// StateNamer maps a tick node to its RTL state constant name.
type StateNamer func(tk *node.Node) string

// Options bundles the per-translation parameters DumpSubDAG needs
// beyond the node graph itself.
type Options struct {
	Tab       string
	Mode      Mode
	StateReg  string // e.g. "state0": the register assigned on a state transition
	StateNode *node.Node
	NameState StateNamer
}

// DumpSubDAG renders the RTL text for the sub-DAG reachable from n,
// stopping at (and rendering) the first tick node on each path. A
// non-tick node's Visited-tracking is scoped to the set of nodes
// visited so far within *this* per-state emission (visited is a set
// of UIDs), not shared across states; re-entering an already-visited
// non-tick node is a "loop without tick" fatal error.
func DumpSubDAG(opt Options, n *node.Node, ind string, visited map[int]bool) string {
	visited = cloneVisited(visited)
	var out strings.Builder

	for n != nil {
		if visited[n.UID] {
			ids := make([]int, 0, len(visited))
			for id := range visited {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			panic(diag.Errorf(diag.Structural,
				"there is a loop path without `tick within the set of nodes %v, currently @%d",
				ids, n.UID))
		}

		nx, ch1, ch2 := n.Next, n.Child[1], n.Child[2]

		if n.Removed {
			fmt.Fprintf(&out, "%s// ignoring node=%v kind=%v code=%q\n", ind, n, n.Kind, n.Code)
			n = n.Succ()
			continue
		}

		switch n.Kind {
		case node.Eif:
			visited[n.UID] = true
			cond := n.Code
			switch {
			case langutil.IsOne(cond):
				out.WriteString(DumpSubDAG(opt, ch1, ind, visited))
			case langutil.IsZero(cond):
				target := ch2
				if target == nil {
					target = nx
				}
				if target != nil {
					out.WriteString(DumpSubDAG(opt, target, ind, visited))
				}
			default:
				trueBlk := DumpSubDAG(opt, ch1, ind+opt.Tab, visited)
				target := ch2
				if target == nil {
					target = nx
				}
				var falseBlk string
				hasFalse := target != nil
				if hasFalse {
					falseBlk = DumpSubDAG(opt, target, ind+opt.Tab, visited)
				}
				out.WriteString(buildIfElse(opt, ind, cond, trueBlk, hasFalse, falseBlk))
			}
			n = nil

		case node.If:
			visited[n.UID] = true
			cond := n.Code
			switch {
			case langutil.IsOne(cond):
				out.WriteString(DumpSubDAG(opt, ch1, ind, visited))
			case langutil.IsZero(cond):
				out.WriteString(DumpSubDAG(opt, ch2, ind, visited))
			default:
				trueBlk := DumpSubDAG(opt, ch1, ind+opt.Tab, visited)
				hasFalse := ch2 != nil
				var falseBlk string
				if hasFalse {
					falseBlk = DumpSubDAG(opt, ch2, ind+opt.Tab, visited)
				}
				out.WriteString(buildIfElse(opt, ind, cond, trueBlk, hasFalse, falseBlk))
			}
			n = nx

		case node.Fo:
			visited[n.UID] = true
			fmt.Fprintf(&out, "%sfor (%s) begin\n", ind, n.Code)
			out.WriteString(DumpSubDAG(opt, ch1, ind+opt.Tab, visited))
			fmt.Fprintf(&out, "%send\n", ind)
			n = nx

		case node.Wh:
			visited[n.UID] = true
			fmt.Fprintf(&out, "%swhile (%s) begin\n", ind, n.Code)
			out.WriteString(DumpSubDAG(opt, ch1, ind+opt.Tab, visited))
			fmt.Fprintf(&out, "%send\n", ind)
			n = nx

		case node.Sn:
			visited[n.UID] = true
			fmt.Fprintf(&out, "%s%s;\n", ind, n.Code)
			n = n.Succ()

		case node.Cm:
			fmt.Fprintf(&out, "%s%s", ind, n.Code)
			n = n.Succ()

		case node.Cs:
			visited[n.UID] = true
			fmt.Fprintf(&out, "%scase (%s)\n", ind, n.Code)
			out.WriteString(DumpSubDAG(opt, ch1, ind+opt.Tab, visited))
			fmt.Fprintf(&out, "%sendcase\n", ind)
			n = nx

		case node.Csb:
			visited[n.UID] = true
			fmt.Fprintf(&out, "%s%s begin\n", ind, n.Code)
			out.WriteString(DumpSubDAG(opt, ch1, ind+opt.Tab, visited))
			fmt.Fprintf(&out, "%send\n", ind)
			n = nx

		case node.Tk:
			if opt.Mode == Rel && n == opt.StateNode {
				fmt.Fprintf(&out, "%s%s\n", ind, stayText)
			} else {
				fmt.Fprintf(&out, "%s%s = %s;\n", ind, opt.StateReg, opt.NameState(n))
			}
			n = nil

		default:
			fmt.Fprintf(&out, "%s// ignoring node=%v kind=%v code=%q\n", ind, n, n.Kind, n.Code)
			n = n.Succ()
		}
	}
	return out.String()
}

func buildIfElse(opt Options, ind, cond, trueBlk string, hasFalse bool, falseBlk string) string {
	var out strings.Builder
	if hasFalse && langutil.IsOnlyStay(stayText, trueBlk) {
		fmt.Fprintf(&out, "%sif (%s) begin\n", ind, langutil.Negate(cond))
		out.WriteString(falseBlk)
		fmt.Fprintf(&out, "%send\n", ind)
	} else {
		fmt.Fprintf(&out, "%sif (%s) begin\n", ind, cond)
		out.WriteString(trueBlk)
		fmt.Fprintf(&out, "%send\n", ind)
		if hasFalse {
			fmt.Fprintf(&out, "%selse begin\n", ind)
			out.WriteString(falseBlk)
			fmt.Fprintf(&out, "%send\n", ind)
		}
	}
	return out.String()
}

func cloneVisited(visited map[int]bool) map[int]bool {
	out := make(map[int]bool, len(visited))
	for k, v := range visited {
		out[k] = v
	}
	return out
}
