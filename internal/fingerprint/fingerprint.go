// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fingerprint computes a short content hash of generated
// output, for -fingerprint diffing across runs without comparing full
// text. There is no fingerprinting concern in the teacher to ground
// this on directly; it adopts golang.org/x/crypto/blake2b, the one
// hash package in the pack, in place of a hand-rolled stdlib
// crypto/sha256 call, since the corpus consistently prefers an
// x/crypto primitive over the stdlib equivalent when one is available.
package fingerprint

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// Report reads every byte of f (rewinding to the start first) and
// prints its blake2b-256 fingerprint to w as a hex string.
func Report(w io.Writer, f *os.File) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		fmt.Fprintf(w, "fingerprint: %s\n", err)
		return
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		fmt.Fprintf(w, "fingerprint: %s\n", err)
		return
	}
	if _, err := io.Copy(h, f); err != nil {
		fmt.Fprintf(w, "fingerprint: %s\n", err)
		return
	}

	fmt.Fprintf(w, "fingerprint: %x\n", h.Sum(nil))
}
