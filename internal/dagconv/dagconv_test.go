// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dagconv

import (
	"testing"

	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

func TestIfLoweredToEif(t *testing.T) {
	s := node.New()
	tkT := node.Add(s, node.Tk, "0", nil)
	tkF := node.Add(s, node.Tk, "1", nil)
	after := node.Add(s, node.Sn, "done=1", nil)
	ifNode := node.Add(s, node.If, "cond", after, nil, tkT, tkF)

	ToDAG(s, ifNode, ifNode, nil)

	if ifNode.Kind != node.Eif {
		t.Fatalf("want if retagged eif, got %v", ifNode.Kind)
	}
	if ifNode.Next != nil {
		t.Errorf("want eif.Next nulled, got %v", ifNode.Next)
	}
	if ifNode.Child[1] != tkT {
		t.Errorf("want true branch preserved as Child[1]")
	}
	if ifNode.Child[2] != tkF {
		t.Errorf("want false branch preserved as Child[2]")
	}
	if tkT.Child[1] != after || tkF.Child[1] != after {
		t.Errorf("want both branches' successor rewired to after (got %v, %v)", tkT.Child[1], tkF.Child[1])
	}
}

func TestIfWithoutElseUsesContinuationAsFalseBranch(t *testing.T) {
	s := node.New()
	tkT := node.Add(s, node.Tk, "0", nil)
	after := node.Add(s, node.Sn, "done=1", nil)
	ifNode := node.Add(s, node.If, "cond", after, nil, tkT)

	ToDAG(s, ifNode, ifNode, nil)

	if ifNode.Child[2] != after {
		t.Errorf("want false branch defaulted to the continuation, got %v", ifNode.Child[2])
	}
}

func TestWhileLoweredToEifWithBackEdge(t *testing.T) {
	s := node.New()
	tk := node.Add(s, node.Tk, "0", nil)
	after := node.Add(s, node.Sn, "done=1", nil)
	wh := node.Add(s, node.Wh, "cond", after, nil, tk)

	ToDAG(s, wh, wh, nil)

	if wh.Kind != node.Eif {
		t.Fatalf("want while retagged eif, got %v", wh.Kind)
	}
	if wh.Child[2] != after {
		t.Errorf("want false branch = continuation, got %v", wh.Child[2])
	}
	if tk.Child[1] != wh {
		t.Errorf("want loop body's tick to back-edge to the eif itself, got %v", tk.Child[1])
	}
}

func TestDoWhileBackEdgeToBody(t *testing.T) {
	s := node.New()
	after := node.Add(s, node.Sn, "done=1", nil)
	tk := node.Add(s, node.Tk, "0", nil)
	doNode := node.Add(s, node.Do, "cond", after, nil, tk)

	ToDAG(s, doNode, doNode, nil)

	if doNode.Kind != node.Tk {
		t.Fatalf("want do-node to take on the body's kind (tk), got %v", doNode.Kind)
	}
	if tk.Removed != true {
		t.Errorf("want original body node tombstoned after copy-in-place")
	}

	var eif *node.Node
	for _, n := range s.Live() {
		if n.Kind == node.Eif {
			eif = n
		}
	}
	if eif == nil {
		t.Fatalf("want a synthesized eif terminator")
	}
	if eif.Child[1] != doNode {
		t.Errorf("want eif true branch to loop back to the repurposed body node")
	}
	if eif.Child[2] != after {
		t.Errorf("want eif false branch to be the continuation")
	}
	if doNode.Child[1] != eif {
		t.Errorf("want the repurposed body's successor to be the eif, got %v", doNode.Child[1])
	}
}

func TestForWithTickAtDagStageIsFatal(t *testing.T) {
	s := node.New()
	tk := node.Add(s, node.Tk, "0", nil)
	forNode := node.Add(s, node.Fo, "i=0;i<2;i=i+1", nil, nil, tk)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("want panic for an un-expanded for-loop reaching dagconv")
		}
	}()
	ToDAG(s, forNode, forNode, nil)
}
