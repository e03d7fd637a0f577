// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import "testing"

func TestAddAssignsDenseUIDs(t *testing.T) {
	s := New()
	a := Add(s, Sn, "a=1", nil)
	b := Add(s, Sn, "b=2", nil)
	if a.UID == b.UID {
		t.Errorf("want distinct UIDs, got %d and %d", a.UID, b.UID)
	}
	if a.UID != 0 || b.UID != 1 {
		t.Errorf("want dense UIDs starting at 0, got %d, %d", a.UID, b.UID)
	}
}

func TestCloneTracksCloneID(t *testing.T) {
	s := New()
	orig := Add(s, Sn, "x=1", nil)
	clone := s.Clone(orig)
	if clone.UID == orig.UID {
		t.Errorf("clone should get a fresh UID")
	}
	if clone.CloneID != orig.UID {
		t.Errorf("want CloneID %d, got %d", orig.UID, clone.CloneID)
	}
}

func TestRemoveTombstones(t *testing.T) {
	s := New()
	n := Add(s, Sn, "x=1", nil)
	s.Remove(n)
	if !n.Removed {
		t.Errorf("want node removed")
	}
	if n.TypeString() != "rmsn" {
		t.Errorf("want tombstone type rmsn, got %s", n.TypeString())
	}
	found := false
	for _, live := range s.Live() {
		if live == n {
			found = true
		}
	}
	if found {
		t.Errorf("tombstoned node should not appear in Live()")
	}
	found = false
	for _, all := range s.Nodes() {
		if all == n {
			found = true
		}
	}
	if !found {
		t.Errorf("tombstoned node should still appear in Nodes()")
	}
}

func TestRewriteLinksTo(t *testing.T) {
	s := New()
	target := Add(s, Tk, "0", nil)
	a := Add(s, Sn, "a", target)
	b := Add(s, If, "c", nil, nil, target, target)
	repl := Add(s, Tk, "1", nil)
	s.RewriteLinksTo(repl, target)
	if a.Next != repl {
		t.Errorf("want a.Next rewritten to repl")
	}
	if b.Child[1] != repl || b.Child[2] != repl {
		t.Errorf("want both branches of b rewritten to repl")
	}
}

func TestPreinsert(t *testing.T) {
	s := New()
	ref := Add(s, Sn, "ref", nil)
	pred := Add(s, Sn, "pred", ref)
	newNode := Add(s, Sn, "new", nil)
	s.Preinsert(newNode, ref)
	if pred.Next != newNode {
		t.Errorf("want pred to now point at newNode")
	}
	if newNode.Next != ref {
		t.Errorf("want newNode to chain into ref")
	}
}

func TestPredecessors(t *testing.T) {
	s := New()
	dst := Add(s, Tk, "0", nil)
	other := Add(s, Tk, "1", nil)
	a := Add(s, Sn, "a", dst)
	b := Add(s, If, "c", nil, nil, dst, other)
	preds := s.Predecessors(dst)
	if len(preds) != 2 {
		t.Fatalf("want 2 predecessors of dst, got %d", len(preds))
	}
	if kinds := preds[a]; len(kinds) != 1 || kinds[0] != EdgeNext {
		t.Errorf("want a -> dst via EdgeNext, got %v", kinds)
	}
	if kinds := preds[b]; len(kinds) != 1 || kinds[0] != EdgeTrue {
		t.Errorf("want b -> dst via EdgeTrue, got %v", kinds)
	}
}

func TestFindLastInChain(t *testing.T) {
	s := New()
	c := Add(s, Sn, "c", nil)
	b := Add(s, Sn, "b", c)
	a := Add(s, Sn, "a", b)
	if got := FindLastInChain(a); got != c {
		t.Errorf("want last node c, got %v", got)
	}
}

func TestSucc(t *testing.T) {
	s := New()
	next := Add(s, Sn, "next", nil)
	body := Add(s, Sn, "body", nil)
	withBody := Add(s, If, "c", next, nil, body)
	if got := withBody.Succ(); got != body {
		t.Errorf("want Succ to prefer Child[1], got %v", got)
	}
	withoutBody := Add(s, Sn, "leaf", next)
	if got := withoutBody.Succ(); got != next {
		t.Errorf("want Succ to fall back to Next, got %v", got)
	}
}

func TestHasTick(t *testing.T) {
	s := New()
	tk := Add(s, Tk, "0", nil)
	body := Add(s, Sn, "x=1", tk)
	wh := Add(s, Wh, "cond", nil, nil, body)
	if !HasTick(wh) {
		t.Errorf("want while containing a tick to report true")
	}

	s2 := New()
	leaf := Add(s2, Sn, "x=1", nil)
	wh2 := Add(s2, Wh, "cond", nil, nil, leaf)
	if HasTick(wh2) {
		t.Errorf("want while without a tick to report false")
	}

	removed := Add(s2, Tk, "0", nil)
	s2.Remove(removed)
	if HasTick(removed) {
		t.Errorf("want tombstoned node to never contain a tick")
	}
}

func TestHasTickCaseArms(t *testing.T) {
	s := New()
	quietBody := Add(s, Sn, "a=1", nil)
	quietArm := Add(s, Csb, "1:", nil, nil, quietBody)
	cs := Add(s, Cs, "x", nil, nil, quietArm)
	if HasTick(cs) {
		t.Errorf("want case with no ticks in any arm to report false")
	}

	tk := Add(s, Tk, "0", nil)
	tickBody := Add(s, Sn, "b=2", tk)
	tickArm := Add(s, Csb, "2:", nil, nil, tickBody)
	quietArm.Next = tickArm
	if !HasTick(cs) {
		t.Errorf("want case with a tick in one arm to report true")
	}
}
