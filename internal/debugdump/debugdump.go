// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package debugdump renders the DOT form of a translation's node graph
// at each pass boundary, for -dbg N inspection. Grounded on
// aclements-go-misc/obj/internal/graph/dot.go's Dot.Fprint: a digraph
// header, one node statement per vertex, one edge statement per
// out-link, and a dotString quoter for labels. Node tags and the
// clone-rank grouping are new, since the teacher's Graph is plain
// integer-indexed and has no notion of a node's original (its CloneID)
// or of "tick" nodes needing visual emphasis.
package debugdump

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/miguel-guerrero/AlgoFSM/internal/config"
	"github.com/miguel-guerrero/AlgoFSM/internal/node"
)

// Dumper accumulates one DOT file per (tag) call made through its Hook
// method, writing each to "<Prefix><NNN>_<tag>.dot" (NNN a running
// three-digit sequence number) and, if cfg.DotCmd names
// a command template, shelling out to render it.
type Dumper struct {
	cfg    config.Config
	Prefix string
	seq    int
}

// New builds a Dumper that is a no-op unless cfg.Debug > 0.
func New(cfg config.Config) *Dumper {
	return &Dumper{cfg: cfg, Prefix: "dbg_"}
}

// Hook matches glue.DumpHook/expand.DumpFunc/dagconv.DumpFunc's shape,
// so it can be wired directly as a pass's dump callback.
func (d *Dumper) Hook(tag string, root, changed *node.Node) {
	if d.cfg.Debug <= 0 || root == nil {
		return
	}
	d.seq++
	name := fmt.Sprintf("%s%03d_%s", d.Prefix, d.seq, sanitize(tag))

	dot := render(root, changed)

	path := name + ".dot"
	if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "debugdump: %s\n", err)
		return
	}

	if d.cfg.DotCmd != "" {
		runDotCmd(d.cfg.DotCmd, path, name)
	}
}

func sanitize(tag string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == ' ' {
			return '_'
		}
		return r
	}, tag)
}

// render walks every node reachable from root over Next and Child
// links (cycle-safe via a visited set, since a lowered DAG's tick
// back-edges would otherwise loop the walk forever), emitting a DOT
// digraph. Tick nodes are drawn as red boxes; changed, when non-nil, is
// outlined in blue; nodes sharing a CloneID (more than one of them
// live) are grouped under a "same rank" constraint so a merge's
// original and its clones draw side by side.
func render(root, changed *node.Node) string {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "digraph G {")

	visited := map[int]bool{}
	clones := map[int][]*node.Node{}
	var walk func(n *node.Node)
	walk = func(n *node.Node) {
		if n == nil || visited[n.UID] {
			return
		}
		visited[n.UID] = true
		clones[n.CloneID] = append(clones[n.CloneID], n)

		attrs := fmt.Sprintf(`label=%s`, dotString(fmt.Sprintf("id%d %s\n%s", n.UID, n.TypeString(), n.Code)))
		if n.Kind == node.Tk {
			attrs += `,shape=box,color=red`
		}
		if n == changed {
			attrs += `,penwidth=3,color=blue`
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.UID, attrs)

		for i, c := range n.Child {
			if c == nil {
				continue
			}
			fmt.Fprintf(&buf, "  n%d -> n%d [label=\"c%d\"];\n", n.UID, c.UID, i)
		}
		if n.Next != nil {
			fmt.Fprintf(&buf, "  n%d -> n%d [label=\"nx\"];\n", n.UID, n.Next.UID)
		}

		walk(n.Child[1])
		walk(n.Child[2])
		walk(n.Child[0])
		walk(n.Next)
	}
	walk(root)

	for _, group := range clones {
		if len(group) < 2 {
			continue
		}
		fmt.Fprint(&buf, "  { rank=same;")
		for _, n := range group {
			fmt.Fprintf(&buf, " n%d;", n.UID)
		}
		fmt.Fprintln(&buf, " }")
	}

	fmt.Fprintln(&buf, "}")
	return buf.String()
}

func dotString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString(`\n`)
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

// runDotCmd expands the {in}/{out} placeholders in tmpl and runs the
// resulting command line, splitting it shell-style so quoted arguments
// in the template survive (e.g. a -Tsvg path with spaces).
func runDotCmd(tmpl, inPath, outBase string) {
	expanded := strings.NewReplacer("{in}", inPath, "{out}", outBase).Replace(tmpl)
	args, err := shellquote.Split(expanded)
	if err != nil || len(args) == 0 {
		fmt.Fprintf(os.Stderr, "debugdump: bad dot command template %q: %v\n", tmpl, err)
		return
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "debugdump: %s\n", err)
	}
}
