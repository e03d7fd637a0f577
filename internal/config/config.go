// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the AlgoFSM configuration record (spec.md §6)
// and methods that derive fields from it on each call, mirroring
// algo_fsm.py:mainCmdParser's post-processing of argparse's Namespace.
package config

import (
	"strconv"
	"strings"
)

// Config is the full configuration surface consumed by the core.
type Config struct {
	// Name is the block-name prefix; the final block name is
	// Name + the per-translation SM index.
	Name string
	// Prefix is the state-constant prefix (default "SM").
	Prefix string
	// State is the state variable base name.
	State string
	// StateSuffix suffixes the registered form of a signal (default "_r").
	StateSuffix string
	// Clk is the clock name; a leading '~' means negedge.
	Clk string
	// Rst is the reset name; a leading '~' means active-low, a
	// trailing ':' means synchronous.
	Rst string
	// Ena is the optional active-high enable signal base name; the FSM
	// index is appended when used.
	Ena string
	// Delay is the integer "#N" delay applied before non-blocking
	// register assignments; 0 means no delay.
	Delay int
	// IndentWidth is the number of spaces per indent level.
	IndentWidth int
	// Behav selects behavioral (non-FSM) output when true.
	Behav bool
	// RenameStates renames states to their post-sort index rather than
	// their raw tick-label text.
	RenameStates bool
	// Debug is the debug verbosity level; higher emits more dumps.
	Debug int
	// Fingerprint requests a content hash of the emitted output on stderr.
	Fingerprint bool
	// DotCmd, if non-empty, is a command template used to render DOT
	// debug dumps (e.g. "dot -Tsvg -o {out}.svg {in}").
	DotCmd string
}

// Default returns a Config populated with AlgoFSM's command-line
// defaults (algo_fsm.py:mainCmdParser).
func Default() Config {
	return Config{
		Name:         "algofsm",
		Prefix:       "SM",
		State:        "state",
		StateSuffix:  "_r",
		Clk:          "clk",
		Rst:          "~rst_n",
		Ena:          "",
		Delay:        0,
		IndentWidth:  4,
		Behav:        false,
		RenameStates: true,
		Debug:        0,
	}
}

// Tab returns the indent unit: IndentWidth spaces.
func (c Config) Tab() string {
	return strings.Repeat(" ", c.IndentWidth)
}

// SD returns the delay prefix to place before non-blocking assignments:
// "#N " when Delay > 0, else "".
func (c Config) SD() string {
	if c.Delay <= 0 {
		return ""
	}
	return "#" + strconv.Itoa(c.Delay) + " "
}

// ClkEdge unpacks the clock name and whether it is negedge-sensitive.
func (c Config) ClkEdge() (name string, negedge bool) {
	clk := strings.TrimSpace(c.Clk)
	if strings.HasPrefix(clk, "~") {
		return clk[1:], true
	}
	return clk, false
}

// RstPolarity unpacks the reset name, whether it is active-low, and
// whether it is synchronous.
func (c Config) RstPolarity() (name string, lowActive, sync bool) {
	rst := strings.TrimSpace(c.Rst)
	if strings.HasPrefix(rst, "~") {
		lowActive = true
		rst = rst[1:]
	}
	if strings.HasSuffix(rst, ":") {
		sync = true
		rst = rst[:len(rst)-1]
	}
	return rst, lowActive, sync
}

// Ticks returns the clock/reset sensitivity list (e.g.
// "@(posedge clk or negedge rst_n)") and the clock-only sensitivity
// list used when reset is synchronous, per utils.get_ticks.
func (c Config) Ticks() (tick, tickNoRst string) {
	clk, negedge := c.ClkEdge()
	rst, lowActive, sync := c.RstPolarity()

	edge := "posedge "
	if negedge {
		edge = "negedge "
	}
	tick = "@(" + edge + clk
	tickNoRst = tick + ")"

	if !sync {
		rstEdge := "posedge "
		if lowActive {
			rstEdge = "negedge "
		}
		tick += " or " + rstEdge + rst
	}
	tick += ")"
	return tick, tickNoRst
}

// Resets returns the "we are in reset" and "we are not in reset"
// boolean expressions, per utils.get_resets.
func (c Config) Resets() (resetCond, notResetCond string) {
	rst, lowActive, _ := c.RstPolarity()
	if lowActive {
		return "!" + rst, rst
	}
	return rst, "!" + rst
}
