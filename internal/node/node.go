// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package node owns every vertex of an AlgoFSM translation: the parse
// tree the parser builds, the DAG the later passes rewrite it into,
// and the tombstones left behind by the merger. All vertices for one
// translation live in a single flat Store; edges are plain *Node
// pointers into it. This mirrors topdown.py's Node/TopDown split in
// the original implementation.
package node

import "fmt"

// Kind is the closed set of node tags. Unlike the Python original's
// string typ field (where tombstoning prefixes "rm"), Go gets a real
// tagged union: Removed is tracked separately on Node so every Kind
// switch the compiler forces us to keep exhaustive still works after
// a node is tombstoned.
type Kind int

const (
	// Sn is a blocking-assignment statement (or any catch-all "up to
	// the next ;" fragment).
	Sn Kind = iota
	// Cm is a preserved line comment (the /// form).
	Cm
	// Tk is a tick / state marker.
	Tk
	// If is an if/else, pre-DAG-conversion.
	If
	// Eif is the DAG form of a branch: a terminator, not a continuation.
	Eif
	// Wh is a while loop, pre-DAG-conversion.
	Wh
	// Fo is a for loop, pre-expansion.
	Fo
	// Do is a do-while loop, pre-DAG-conversion.
	Do
	// Cs is a case statement.
	Cs
	// Csb is one case arm.
	Csb
	// Pexpr is a parenthesized-expression parse helper, removed
	// shortly after it is consumed by the rule that wanted its code.
	Pexpr
	// CaseExpr is a case-arm-label parse helper, likewise short-lived.
	CaseExpr
)

func (k Kind) String() string {
	switch k {
	case Sn:
		return "sn"
	case Cm:
		return "cm"
	case Tk:
		return "tk"
	case If:
		return "if"
	case Eif:
		return "eif"
	case Wh:
		return "wh"
	case Fo:
		return "fo"
	case Do:
		return "do"
	case Cs:
		return "cs"
	case Csb:
		return "csb"
	case Pexpr:
		return "pexpr"
	case CaseExpr:
		return "case_expr"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is the single kind of graph vertex. Child[1] is the true/body
// branch, Child[2] is the false branch, Child[0] is reserved.
type Node struct {
	UID     int
	CloneID int
	Kind    Kind
	Code    string
	Child   [3]*Node
	Next    *Node
	Visited bool

	// Removed marks a tombstoned node. The Kind field keeps its
	// original value so diagnostics can still say what it used to be;
	// downstream passes must treat a Removed node as logically absent.
	Removed bool
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("id%d", n.UID)
}

// TypeString reproduces the Python "rm<tag>" tombstone rendering used
// in debug dumps and dot output.
func (n *Node) TypeString() string {
	if n.Removed {
		return "rm" + n.Kind.String()
	}
	return n.Kind.String()
}

// Succ returns the node's "next statement to execute" link: the true
// branch if one exists, else the sequential successor.
func (n *Node) Succ() *Node {
	if n.Child[1] != nil {
		return n.Child[1]
	}
	return n.Next
}

// CopyFieldsFrom overwrites n's Kind/Code/Next/Child in place from src,
// preserving n's UID and any incoming links. Used by the DAG converter
// to fold a do-while's body into the node that used to be the loop
// header, per the "identity survives retagging" design rule.
func (n *Node) CopyFieldsFrom(src *Node) {
	n.Kind = src.Kind
	n.Code = src.Code
	n.Next = src.Next
	n.Child = src.Child
}

// EdgeKind identifies which of a node's outgoing links a predecessor
// edge uses.
type EdgeKind int

const (
	// EdgeTrue is Child[1] (true/body branch).
	EdgeTrue EdgeKind = iota
	// EdgeFalse is Child[2] (false branch).
	EdgeFalse
	// EdgeNext is Next (sequential successor).
	EdgeNext
)

func (e EdgeKind) String() string {
	switch e {
	case EdgeTrue:
		return "bt"
	case EdgeFalse:
		return "bf"
	case EdgeNext:
		return "nx"
	default:
		return "?"
	}
}

// Store owns every node created during one translation. It is
// single-threaded and scoped to exactly one FSM block.
type Store struct {
	nodes []*Node
	cnt   int
}

// New returns an empty store with its UID counter reset, matching
// Node.reset() being called at the start of each parse in the
// original implementation.
func New() *Store {
	return &Store{}
}

// Add appends a new node with a fresh UID. child is used verbatim if
// it already has 3 slots; callers may also pass fewer and the rest
// default to nil.
func Add(s *Store, kind Kind, code string, next *Node, child ...*Node) *Node {
	var c [3]*Node
	copy(c[:], child)
	n := &Node{UID: s.cnt, CloneID: s.cnt, Kind: kind, Code: code, Next: next, Child: c}
	s.cnt++
	s.nodes = append(s.nodes, n)
	return n
}

// Clone makes a shallow copy of n with a fresh UID and CloneID set to
// n's UID, so dot dumps can rank clones together.
func (s *Store) Clone(n *Node) *Node {
	c := &Node{
		UID:     s.cnt,
		CloneID: n.UID,
		Kind:    n.Kind,
		Code:    n.Code,
		Next:    n.Next,
		Child:   n.Child,
	}
	s.cnt++
	s.nodes = append(s.nodes, c)
	return c
}

// Remove tombstones n in place: it stays in the store (so references
// held by other passes remain valid pointers) but is retagged Removed.
func (s *Store) Remove(n *Node) {
	n.Removed = true
}

// RewriteLinksTo scans every live node and redirects any Next or
// Child link equal to old so that it points to newNode instead.
func (s *Store) RewriteLinksTo(newNode, old *Node) {
	for _, n := range s.nodes {
		if n.Next == old {
			n.Next = newNode
		}
		for i, c := range n.Child {
			if c == old {
				n.Child[i] = newNode
			}
		}
	}
}

// Preinsert rewrites every existing link to ref so it instead points
// to newNode, then chains newNode.Next = ref. After this call newNode
// runs immediately before ref in every path that used to reach ref.
func (s *Store) Preinsert(newNode, ref *Node) {
	s.RewriteLinksTo(newNode, ref)
	newNode.Next = ref
}

// Predecessors computes the inverse edge set: for every live node
// that links to dst, the set of edge kinds it uses to do so.
func (s *Store) Predecessors(dst *Node) map[*Node][]EdgeKind {
	out := map[*Node][]EdgeKind{}
	for _, n := range s.nodes {
		var kinds []EdgeKind
		if n.Child[1] == dst {
			kinds = append(kinds, EdgeTrue)
		}
		if n.Child[2] == dst {
			kinds = append(kinds, EdgeFalse)
		}
		if n.Next == dst {
			kinds = append(kinds, EdgeNext)
		}
		if len(kinds) > 0 {
			out[n] = kinds
		}
	}
	return out
}

// FindLastInChain follows Next links from n until it finds a node with
// no successor, and returns that terminal node.
func FindLastInChain(n *Node) *Node {
	for n.Next != nil {
		n = n.Next
	}
	return n
}

// ResetVisited clears the Visited bit on every live node. Traversals
// that use Visited as a transient marker must call this first.
func (s *Store) ResetVisited() {
	for _, n := range s.nodes {
		n.Visited = false
	}
}

// Nodes returns every node ever created in this store, in insertion
// order (including tombstones), for deterministic iteration.
func (s *Store) Nodes() []*Node {
	return s.nodes
}

// Live returns every non-tombstoned node, in insertion order.
func (s *Store) Live() []*Node {
	out := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		if !n.Removed {
			out = append(out, n)
		}
	}
	return out
}

// HasTick reports whether n's subtree (following loop bodies and if
// branches, but not sequential Next chains beyond the construct
// itself) contains a tick node. sn, cm, and tombstoned nodes never
// contain a tick.
func HasTick(n *Node) bool {
	if n == nil {
		return false
	}
	if n.Removed {
		return false
	}
	switch n.Kind {
	case Tk:
		return true
	case Wh, Do, Fo:
		return hasTickChain(n.Child[1])
	case If:
		return hasTickChain(n.Child[1]) || hasTickChain(n.Child[2])
	case Cs:
		return hasTickInArms(n.Child[1])
	case Sn, Cm:
		return false
	default:
		panic(fmt.Sprintf("node: Kind %v not handled in HasTick", n.Kind))
	}
}

// hasTickInArms walks a chain of csb (case-arm) nodes, checking each
// arm's body for a tick.
func hasTickInArms(csb *Node) bool {
	for csb != nil {
		if hasTickChain(csb.Child[1]) {
			return true
		}
		csb = csb.Next
	}
	return false
}

func hasTickChain(n *Node) bool {
	for n != nil {
		if HasTick(n) {
			return true
		}
		n = n.Next
	}
	return false
}
