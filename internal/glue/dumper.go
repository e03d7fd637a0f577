// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glue

import "strings"

// dumper accumulates output line by line, mirroring utils.py's Dumper:
// dump appends a new line (space-joining its arguments), dumpNonl
// appends to the last line already written instead of starting a new
// one, and val joins everything with newlines.
type dumper struct {
	lines []string
}

func (d *dumper) dump(parts ...string) {
	d.lines = append(d.lines, strings.Join(parts, " "))
}

func (d *dumper) dumpNonl(parts ...string) {
	d.lines[len(d.lines)-1] += strings.Join(parts, " ")
}

func (d *dumper) val() string {
	return strings.Join(d.lines, "\n")
}
