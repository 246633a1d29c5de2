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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/alttpo/trex"
)

// machineView is the JSON shape of one Machine, independent of trex's
// internal field visibility so the wire format stays stable even if the
// runtime's unexported bookkeeping changes.
type machineView struct {
	Index      int    `json:"index"`
	TraceID    string `json:"trace_id"`
	State      uint16 `json:"state"`
	NextState  uint16 `json:"next_state"`
	ExecStatus string `json:"exec_status"`
	Iterations int    `json:"iterations"`
	Handlers   int    `json:"handlers"`
}

type statusView struct {
	CyclesPerExec int           `json:"cycles_per_exec"`
	MachineCount  int           `json:"machine_count"`
	Machines      []machineView `json:"machines"`
}

func viewOf(idx int, m *trex.Machine) machineView {
	return machineView{
		Index:      idx,
		TraceID:    m.TraceID.String(),
		State:      m.St,
		NextState:  m.Nxst,
		ExecStatus: m.ExecStatus.String(),
		Iterations: m.Iterations,
		Handlers:   len(m.Handlers),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	views := make([]machineView, len(s.ctx.Machines))
	for i, m := range s.ctx.Machines {
		views[i] = viewOf(i, m)
	}
	writeJSON(w, http.StatusOK, statusView{
		CyclesPerExec: s.ctx.CyclesPerExec,
		MachineCount:  len(s.ctx.Machines),
		Machines:      views,
	})
}

func (s *Server) handleMachines(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	views := make([]machineView, len(s.ctx.Machines))
	for i, m := range s.ctx.Machines {
		views[i] = viewOf(i, m)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleMachine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if idx, err := strconv.Atoi(id); err == nil {
		if idx < 0 || idx >= len(s.ctx.Machines) {
			http.Error(w, "no such machine", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(idx, s.ctx.Machines[idx]))
		return
	}

	for i, m := range s.ctx.Machines {
		if m.TraceID.String() == id {
			writeJSON(w, http.StatusOK, viewOf(i, m))
			return
		}
	}
	http.Error(w, "no such machine", http.StatusNotFound)
}
