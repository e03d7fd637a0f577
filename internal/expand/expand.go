// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expand rewrites control structures whose subtree contains a
// tick: for-loops are lowered into an init statement, a while loop,
// and a post statement spliced onto the loop body; if/while/do bodies
// are descended into looking for further ticks. Constructs with no
// tick anywhere inside are left structurally untouched, to be linked
// straight through by dagconv. Grounded on dag_utils.py's
// expand_tree_structs.
package expand

import (
	"fmt"
	"strings"

	"github.com/miguel-guerrero/AlgoFSM/internal/diag"
	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

// DumpFunc, when non-nil, is called after each structural rewrite so a
// caller can capture a numbered debug snapshot of the in-progress tree.
type DumpFunc func(tag string, root, changed *node.Node)

// Tree walks root's statement chain starting at n, expanding for-loops
// and descending into tick-containing control structures in place.
// Fatal errors (a case containing a tick, a malformed for header) are
// reported by panicking with a *diag.FatalKind; callers should recover
// at the translation boundary.
func Tree(store *node.Store, root, n *node.Node, dump DumpFunc) {
	cnt := 0
	expandTree(store, root, n, dump, &cnt)
}

func expandTree(store *node.Store, root, n *node.Node, dump DumpFunc, cnt *int) {
	for n != nil {
		orgNext := n.Next
		expanded := false

		if node.HasTick(n) {
			switch n.Kind {
			case node.Cs:
				panic(diag.Errorf(diag.Structural, "case with `tick inside are not supported yet"))

			case node.Do:
				expandTree(store, root, n.Child[1], dump, cnt)

			case node.Fo:
				parts := strings.Split(n.Code, ";")
				if len(parts) != 3 {
					panic(diag.Errorf(diag.Syntax, "syntax error in for statement (%s)", n.Code))
				}
				init, cond, post := parts[0], parts[1], parts[2]
				body := n.Child[1]

				initNode := node.Add(store, node.Sn, init, n)
				store.Preinsert(initNode, n)

				n.Kind = node.Wh
				n.Code = cond

				postNode := node.Add(store, node.Sn, post, nil)
				if body != nil {
					if ending := node.FindLastInChain(body); ending != nil {
						ending.Next = postNode
					}
				}

				expandTree(store, root, body, dump, cnt)
				expanded = true

			case node.If:
				expandTree(store, root, n.Child[1], dump, cnt)
				expandTree(store, root, n.Child[2], dump, cnt)

			case node.Wh:
				expandTree(store, root, n.Child[1], dump, cnt)

			case node.Eif:
				panic(fmt.Sprintf("expand: unexpected eif node %v during structural expansion", n))
			}
		} else {
			n.Next = orgNext
		}

		if expanded && dump != nil {
			dump(fmt.Sprintf("01_during_expand_structs%d", *cnt), root, n)
			*cnt++
		}

		n = orgNext
	}
}
