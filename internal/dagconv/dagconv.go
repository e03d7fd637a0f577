// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dagconv lowers the expanded statement tree into the DAG the
// rest of the pipeline consumes: if/while/do-while become eif
// terminator nodes carrying explicit successor and back-edge links,
// leaving tick nodes as the only vertices that participate in cycles.
// Grounded on dag_utils.py's convert_to_dag.
package dagconv

import (
	"fmt"

	"github.com/miguel-guerrero/AlgoFSM/internal/diag"
	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

// DumpFunc, when non-nil, is called after each lowering step so a
// caller can capture a numbered debug snapshot of the in-progress DAG.
type DumpFunc func(tag string, root, changed *node.Node)

// ToDAG walks root's statement chain starting at n and lowers every
// tick-containing control structure into an eif terminator.
func ToDAG(store *node.Store, root, n *node.Node, dump DumpFunc) {
	cnt := 0
	convert(store, root, n, nil, dump, &cnt)
}

func convert(store *node.Store, root, n, topNext *node.Node, dump DumpFunc, cnt *int) {
	for n != nil {
		orgNext := n.Next
		nxt := orgNext
		if nxt == nil {
			nxt = topNext
		}
		expanded := false

		if node.HasTick(n) {
			switch n.Kind {
			case node.Do:
				body := n.Child[1]
				eifNode := node.Add(store, node.Eif, n.Code, nil)
				n.CopyFieldsFrom(body)
				store.Remove(body)
				convert(store, root, n, eifNode, dump, cnt)
				eifNode.Child = [3]*node.Node{nil, n, nxt}
				expanded = true

			case node.If:
				trueBranch := n.Child[1]
				convert(store, root, trueBranch, nxt, dump, cnt)
				falseBranch := n.Child[2]
				convert(store, root, falseBranch, nxt, dump, cnt)
				if falseBranch == nil {
					n.Child[2] = nxt
				}
				n.Kind = node.Eif
				n.Next = nil
				expanded = true

			case node.Wh:
				body := n.Child[1]
				convert(store, root, body, n, dump, cnt)
				n.Child[2] = nxt
				n.Kind = node.Eif
				n.Next = nil
				expanded = true

			case node.Fo, node.Cs:
				panic(diag.Errorf(diag.Structural,
					"internal '%v' is expected to be pre-expanded in the structural expander", n.Kind))

			default:
				// tk and any other tick-bearing leaf: its continuation
				// becomes the DAG successor link rather than the chain's.
				n.Child[1] = nxt
				n.Next = nil
			}
		} else {
			n.Next = nxt
		}

		if expanded && dump != nil {
			dump(fmt.Sprintf("03_during_convert_to_dag%d", *cnt), root, n)
			*cnt++
		}

		n = orgNext
	}
}
