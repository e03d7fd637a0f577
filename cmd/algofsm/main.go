// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command algofsm translates a tick-annotated, Verilog-like sequential
// algorithm description (an SmBegin/SmForever/SmEnd block) into a
// synthesizable RTL finite-state-machine, or into a behavioral
// passthrough when -behav is given. Grounded on algo_fsm.py's
// mainCmdParser/parseInputFile split.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/miguel-guerrero/AlgoFSM/internal/config"
	"github.com/miguel-guerrero/AlgoFSM/internal/debugdump"
	"github.com/miguel-guerrero/AlgoFSM/internal/diag"
	"github.com/miguel-guerrero/AlgoFSM/internal/fingerprint"
	"github.com/miguel-guerrero/AlgoFSM/internal/scanner"
)

func main() {
	os.Exit(run())
}

// run parses flags, drives the scanner over the input file, and
// returns the process exit code. It is the single point that recovers
// a *diag.FatalKind panic from anywhere in the translation core,
// matching spec's "no local recovery inside the core" rule: every
// fatal diagnostic surfaces here, not partway through a pass.
func run() (exitCode int) {
	cfg := config.Default()

	var (
		outPath  string
		sd       int
		dbg      int
		fp       bool
		dotCmd   string
		renameSt bool
	)

	flag.StringVar(&outPath, "out", "/dev/stdout", "generated output filename")
	flag.BoolVar(&cfg.Behav, "behav", false, "output is behavioral; by default output is synthesizable")
	flag.StringVar(&cfg.Clk, "clk", cfg.Clk, "clock signal name; prefix with ~ for negedge active")
	flag.StringVar(&cfg.Rst, "rst", cfg.Rst, "reset signal name; prefix with ~ for negedge active, suffix with : for sync")
	flag.StringVar(&cfg.Ena, "ena", cfg.Ena, "if provided the FSM enable will advance controlled by this active-high signal (FSM number appended)")
	flag.IntVar(&sd, "sd", 0, "delay for <= assignments, e.g. 1 for #1; 0 for no delay")
	flag.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "prefix for localparam state constants")
	flag.StringVar(&cfg.State, "state", cfg.State, "name of state variable generated")
	flag.StringVar(&cfg.Name, "name", cfg.Name, "prefix used to derive block name etc")
	flag.IntVar(&cfg.IndentWidth, "indent", cfg.IndentWidth, "number of spaces used to indent")
	flag.StringVar(&cfg.StateSuffix, "state_suffix", cfg.StateSuffix, "suffix for flopped state variables")
	flag.IntVar(&dbg, "dbg", 0, "debug level; higher emits more dumps")
	flag.BoolVar(&fp, "fingerprint", false, "print a content fingerprint of the generated output to stderr")
	flag.StringVar(&dotCmd, "dotcmd", "", "command `template` to render DOT debug dumps, e.g. \"dot -Tsvg -o {out}.svg {in}\"")
	flag.BoolVar(&renameSt, "rename_states", true, "rename states to their post-sort index rather than raw tick labels")
	flag.Parse()

	cfg.Debug = dbg
	cfg.Fingerprint = fp
	cfg.DotCmd = dotCmd
	cfg.RenameStates = renameSt
	if sd > 0 {
		cfg.Delay = sd
	}

	filePath := "/dev/stdin"
	if flag.NArg() > 0 && flag.Arg(0) != "-" {
		filePath = flag.Arg(0)
	}
	if outPath == "-" {
		outPath = "/dev/stdout"
	}

	in, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return 1
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return 1
	}
	defer out.Close()

	rep := diag.NewReporter(os.Stderr)

	defer func() {
		if r := recover(); r != nil {
			fatal, ok := r.(*diag.FatalKind)
			if !ok {
				panic(r)
			}
			rep.Report(fatal)
			exitCode = 1
		}
	}()

	dumper := debugdump.New(cfg)

	if err := scanner.Run(cfg, in, out, filePath, rep, dumper.Hook); err != nil {
		fatal, ok := err.(*diag.FatalKind)
		if ok {
			rep.Report(fatal)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		}
		return 1
	}

	if cfg.Fingerprint {
		fingerprint.Report(os.Stderr, out)
	}

	return 0
}
