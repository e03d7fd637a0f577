// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"testing"

	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

func TestStatesMergesIdenticalTicks(t *testing.T) {
	s := node.New()
	tkA := node.Add(s, node.Tk, "0", nil)
	tkB := node.Add(s, node.Tk, "1", nil)
	predA := node.Add(s, node.Sn, "x=1", tkA)
	predB := node.Add(s, node.Sn, "y=1", tkB)

	States(s, "  ")

	live := 0
	for _, n := range s.Live() {
		if n.Kind == node.Tk {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("want exactly one surviving tick, got %d", live)
	}
	if predA.Next != predB.Next {
		t.Errorf("want both predecessors to point at the same surviving tick")
	}
}

func TestStatesLeavesDistinctTicksAlone(t *testing.T) {
	s := node.New()
	snX := node.Add(s, node.Sn, "x=1", nil)
	snY := node.Add(s, node.Sn, "y=2", nil)
	tkA := node.Add(s, node.Tk, "0", snX)
	tkB := node.Add(s, node.Tk, "1", snY)

	States(s, "  ")

	live := 0
	for _, n := range s.Live() {
		if n.Kind == node.Tk {
			live++
		}
	}
	if live != 2 {
		t.Errorf("want both ticks, whose downstream differs, to survive, got %d", live)
	}
	_ = tkA
	_ = tkB
}

func TestMergeKeepingFirstJoinsLabels(t *testing.T) {
	s := node.New()
	a := node.Add(s, node.Tk, "0", nil)
	b := node.Add(s, node.Tk, "1", nil)
	pred := node.Add(s, node.Sn, "x=1", b)

	mergeKeepingFirst(s, a, b)

	if a.Code != "0_1" {
		t.Errorf("want joined label 0_1, got %q", a.Code)
	}
	if !b.Removed {
		t.Errorf("want b tombstoned")
	}
	if pred.Next != a {
		t.Errorf("want predecessor rewired to a")
	}
}
