// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"os"

	"github.com/alttpo/trex"
	"github.com/alttpo/trex/diagnostics"
)

func runDump(ctx *trex.Context) error {
	diagnostics.Dump(os.Stdout, ctx)
	return nil
}
