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

package hostapi

import (
	"net/http"
	"os"
	"time"

	"github.com/fjl/memsize"
	"github.com/julienschmidt/httprouter"
	"github.com/shirou/gopsutil/process"
)

type healthView struct {
	UptimeSeconds    float64 `json:"uptime_seconds"`
	InterpreterSize  string  `json:"interpreter_size"`
	InterpreterBytes uint64  `json:"interpreter_bytes"`
	ProcessRSSBytes  uint64  `json:"process_rss_bytes,omitempty"`
	ProcessCPUPct    float64 `json:"process_cpu_percent,omitempty"`
}

// handleHealth reports the deep memory footprint of the live Context
// (memsize.Scan walks the locals arrays, handler tables, and shared stack)
// alongside host process CPU/RSS, so an operator can correlate scheduler
// load with actual resource use.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sizes := memsize.Scan(s.ctx)

	view := healthView{
		UptimeSeconds:    time.Since(s.startedAt).Seconds(),
		InterpreterSize:  sizes.Report(),
		InterpreterBytes: uint64(sizes.Total),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			view.ProcessRSSBytes = mem.RSS
		}
		if pct, err := proc.CPUPercent(); err == nil {
			view.ProcessCPUPct = pct
		}
	}

	writeJSON(w, http.StatusOK, view)
}
