// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"os"

	"github.com/alttpo/trex"
	"github.com/alttpo/trex/diagnostics"
)

func runStatus(ctx *trex.Context) error {
	diagnostics.RenderStatusTable(os.Stdout, statusRows(ctx))
	return nil
}

func statusRows(ctx *trex.Context) []diagnostics.MachineRow {
	rows := make([]diagnostics.MachineRow, len(ctx.Machines))
	for i, m := range ctx.Machines {
		rows[i] = diagnostics.MachineRow{
			Index:      i,
			State:      m.St,
			NextState:  m.Nxst,
			ExecStatus: m.ExecStatus.String(),
			Iterations: m.Iterations,
		}
	}
	return rows
}
