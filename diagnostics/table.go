// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

// Package diagnostics renders host-facing views of a running Context: a
// status table for `corevmctl status`, a binary-annotated disassembly for
// inspecting a handler byte by byte, and a full structural dump for bug
// reports.
package diagnostics

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// MachineRow is the subset of Machine state worth a status line. Kept
// independent of package trex's Machine type so diagnostics has no import
// back onto the runtime it inspects; the host (cmd/corevmctl) adapts.
type MachineRow struct {
	Index      int
	State      uint16
	NextState  uint16
	ExecStatus string
	Iterations int
}

// RenderStatusTable writes an ASCII table of rows to w.
func RenderStatusTable(w io.Writer, rows []MachineRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "state", "next", "status", "iter"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)

	for _, r := range rows {
		table.Append([]string{
			itoa(r.Index),
			itoa(int(r.State)),
			itoa(int(r.NextState)),
			r.ExecStatus,
			itoa(r.Iterations),
		})
	}
	table.Render()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
