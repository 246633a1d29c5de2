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

package trex

// Exec drives one tick: round-robin across Machines, starting from the
// machine the previous tick left off on, until the shared cycle budget is
// exhausted or no machine can make progress.
func (ctx *Context) Exec() {
	n := len(ctx.Machines)
	if n == 0 {
		return
	}

	budget := ctx.CyclesPerExec
	idle := 0
	for budget > 0 {
		if ctx.current == nil {
			idx, ok := ctx.findRunnable(ctx.currMachine, n)
			if !ok {
				return
			}
			ctx.currMachine = idx
			ctx.current = ctx.Machines[idx]
			ctx.current.iterationsRemaining = ctx.current.Iterations
		}

		m := ctx.current
		used := ctx.runMachine(m, budget)
		budget -= used

		switch {
		case m.ExecStatus == Ready:
			m.iterationsRemaining--
			if m.Iterations > 0 && m.iterationsRemaining <= 0 {
				ctx.release()
			}
		case m.ExecStatus.Terminal():
			if ctx.Log != nil && m.ExecStatus != Halted {
				ctx.Log.Error("machine entered a terminal error state",
					"trace", m.TraceID, "status", m.ExecStatus.String(), "state", m.St, "pc", m.InvalidPC)
			}
			ctx.release()
		default:
			// Executing (partial cycle budget) or InSyscall: stays current.
		}

		if used == 0 {
			// No cycle was consumed (e.g. a zero-length handler, or a machine
			// that is not executable): rotate away from it, and once n picks
			// in a row have made no progress, stop rather than spin.
			if ctx.current == m {
				ctx.release()
			}
			idle++
			if idle >= n {
				return
			}
		} else {
			idle = 0
		}
	}
}

// release frees the current machine and rotates so the next findRunnable
// starts one past it.
func (ctx *Context) release() {
	ctx.currMachine = (ctx.currMachine + 1) % len(ctx.Machines)
	ctx.current = nil
}

// findRunnable scans Machines starting at start, wrapping around, for the
// first one whose status is runnable and which has at least one handler.
func (ctx *Context) findRunnable(start, n int) (int, bool) {
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if ctx.Machines[idx].Runnable() {
			return idx, true
		}
	}
	return 0, false
}
