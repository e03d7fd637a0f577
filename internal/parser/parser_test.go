// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"testing"

	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

func chain(n *node.Node) []*node.Node {
	var out []*node.Node
	for n != nil {
		out = append(out, n)
		n = n.Next
	}
	return out
}

func TestParseTickSequence(t *testing.T) {
	s := node.New()
	p := New(s, "`tick; a=1; `tick;", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := chain(root)
	if len(seq) != 3 {
		t.Fatalf("want 3 statements, got %d: %v", len(seq), seq)
	}
	if seq[0].Kind != node.Tk {
		t.Errorf("want first node tk, got %v", seq[0].Kind)
	}
	if seq[1].Kind != node.Sn || seq[1].Code != "a=1" {
		t.Errorf("want sn %q, got %v %q", "a=1", seq[1].Kind, seq[1].Code)
	}
	if seq[2].Kind != node.Tk {
		t.Errorf("want third node tk, got %v", seq[2].Kind)
	}
}

func TestParseIfElse(t *testing.T) {
	s := node.New()
	p := New(s, "if (a) x=1; else y=2;", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != node.If {
		t.Fatalf("want if node, got %v", root.Kind)
	}
	if root.Code != "a" {
		t.Errorf("want cond code %q, got %q", "a", root.Code)
	}
	if root.Child[1] == nil || root.Child[1].Code != "x=1" {
		t.Errorf("want true branch sn x=1, got %v", root.Child[1])
	}
	if root.Child[2] == nil || root.Child[2].Code != "y=2" {
		t.Errorf("want false branch sn y=2, got %v", root.Child[2])
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	s := node.New()
	p := New(s, "if (a) x=1;", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != node.If {
		t.Fatalf("want if node, got %v", root.Kind)
	}
	if root.Child[2] != nil {
		t.Errorf("want no false branch, got %v", root.Child[2])
	}
}

func TestParseWhile(t *testing.T) {
	s := node.New()
	p := New(s, "while (a==1) begin x=1; `tick; end", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != node.Wh {
		t.Fatalf("want while node, got %v", root.Kind)
	}
	if root.Code != "a==1" {
		t.Errorf("want cond %q, got %q", "a==1", root.Code)
	}
	body := chain(root.Child[1])
	if len(body) != 2 {
		t.Fatalf("want 2 body statements, got %d", len(body))
	}
}

func TestParseDoWhile(t *testing.T) {
	s := node.New()
	p := New(s, "do x=1; while (a);", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != node.Do {
		t.Fatalf("want do node, got %v", root.Kind)
	}
	if root.Code != "a" {
		t.Errorf("want cond %q, got %q", "a", root.Code)
	}
}

func TestParseFor(t *testing.T) {
	s := node.New()
	p := New(s, "for (i=0;i<4;i=i+1) x=1;", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != node.Fo {
		t.Fatalf("want for node, got %v", root.Kind)
	}
	if root.Code != "i=0;i<4;i=i+1" {
		t.Errorf("want cond %q, got %q", "i=0;i<4;i=i+1", root.Code)
	}
}

func TestParseCase(t *testing.T) {
	s := node.New()
	p := New(s, "case (x) 1: a=1; 2: b=2; endcase", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != node.Cs {
		t.Fatalf("want case node, got %v", root.Kind)
	}
	arms := chain(root.Child[1])
	if len(arms) != 2 {
		t.Fatalf("want 2 case arms, got %d", len(arms))
	}
	if arms[0].Kind != node.Csb || arms[0].Code != "1:" {
		t.Errorf("want first arm label %q, got %v %q", "1:", arms[0].Kind, arms[0].Code)
	}
	if arms[0].Child[0] == nil || arms[0].Child[0].Kind != node.CaseExpr {
		t.Errorf("want arm Child[0] to be the case_expr node, got %v", arms[0].Child[0])
	}
	if arms[0].Child[1] == nil || arms[0].Child[1].Code != "a=1" {
		t.Errorf("want arm body sn a=1, got %v", arms[0].Child[1])
	}
}

func TestParsePreservedComment(t *testing.T) {
	s := node.New()
	p := New(s, "/// keep me\nx=1;", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := chain(root)
	if len(seq) != 2 {
		t.Fatalf("want 2 statements, got %d", len(seq))
	}
	if seq[0].Kind != node.Cm {
		t.Errorf("want first node cm, got %v", seq[0].Kind)
	}
}

func TestParseNonBlockingAssignIsFatal(t *testing.T) {
	s := node.New()
	p := New(s, "x <= 1;", 1, "t.v")
	_, err := p.Parse()
	if err == nil {
		t.Fatalf("want error for non-blocking assignment, got nil")
	}
}

func TestParseSyntaxErrorOnMismatchedBlock(t *testing.T) {
	s := node.New()
	p := New(s, "begin x=1;", 1, "t.v")
	_, err := p.Parse()
	if err == nil {
		t.Fatalf("want error for unterminated block, got nil")
	}
}

func TestParseBlockSequence(t *testing.T) {
	s := node.New()
	p := New(s, "begin a=1; b=2; end", 1, "t.v")
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq := chain(root)
	if len(seq) != 2 {
		t.Fatalf("want 2 statements, got %d", len(seq))
	}
}
