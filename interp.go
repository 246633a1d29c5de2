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

import "github.com/alttpo/trex/opcode"

func le16(b []byte) uint32 { return uint32(b[0]) | uint32(b[1])<<8 }
func le24(b []byte) uint32 { return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 }
func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// runMachine runs m's current handler for up to cyclesAvail cycles (one
// cycle per dispatched opcode), entering a fresh iteration if m is Ready,
// resuming saved registers if m is Executing. It yields on cycle exhaustion,
// RET, HALT, or an unrecoverable error, writing registers back to m before
// returning. It reports the number of cycles actually consumed.
//
// Relies on the handler having been verified: no stack, locals, or code
// access here is bounds-checked.
func (ctx *Context) runMachine(m *Machine, cyclesAvail int) int {
	if m.ExecStatus == Ready {
		m.St = m.Nxst
		m.pc = 0
		m.sp = len(ctx.stack)
		m.a = 0
		m.ExecStatus = Executing
	}
	if m.ExecStatus != Executing {
		return 0
	}

	h := &m.Handlers[m.St]
	if !h.Verified() {
		m.ExecStatus = ErrUnverified
		m.InvalidPC = m.pc
		return 0
	}

	code := h.Code
	pc, sp, a := m.pc, m.sp, m.a
	used := 0

	for used < cyclesAvail {
		if pc >= len(code) {
			m.ExecStatus = Ready
			break
		}

		op := opcode.Opcode(code[pc])
		pc++
		used++

		switch op {
		case opcode.HALT:
			m.ExecStatus = Halted

		case opcode.RET:
			m.ExecStatus = Ready

		case opcode.IMM1:
			a = uint32(code[pc])
			pc++
		case opcode.IMM2:
			a = le16(code[pc:])
			pc += 2
		case opcode.IMM3:
			a = le24(code[pc:])
			pc += 3
		case opcode.IMM4:
			a = le32(code[pc:])
			pc += 4

		case opcode.PSH1:
			sp--
			ctx.stack[sp] = uint32(code[pc])
			pc++
		case opcode.PSH2:
			sp--
			ctx.stack[sp] = le16(code[pc:])
			pc += 2
		case opcode.PSH3:
			sp--
			ctx.stack[sp] = le24(code[pc:])
			pc += 3
		case opcode.PSH4:
			sp--
			ctx.stack[sp] = le32(code[pc:])
			pc += 4
		case opcode.PSHA:
			sp--
			ctx.stack[sp] = a
		case opcode.POP:
			a = ctx.stack[sp]
			sp++

		case opcode.LDL1:
			a = m.Locals[code[pc]]
			pc++
		case opcode.LDL2:
			a = m.Locals[le16(code[pc:])]
			pc += 2
		case opcode.STL1:
			m.Locals[code[pc]] = a
			pc++
		case opcode.STL2:
			m.Locals[le16(code[pc:])] = a
			pc += 2

		case opcode.SST1:
			m.Nxst = uint16(code[pc])
			pc++
		case opcode.SST2:
			m.Nxst = uint16(le16(code[pc:]))
			pc += 2

		case opcode.BZ:
			off := code[pc]
			if a == 0 {
				pc += int(off)
			}
			pc++
		case opcode.BNZ:
			off := code[pc]
			if a != 0 {
				pc += int(off)
			}
			pc++

		case opcode.OR:
			sp++
			a = ctx.stack[sp-1] | a
		case opcode.XOR:
			sp++
			a = ctx.stack[sp-1] ^ a
		case opcode.AND:
			sp++
			a = ctx.stack[sp-1] & a
		case opcode.EQ:
			sp++
			a = b2u(ctx.stack[sp-1] == a)
		case opcode.NE:
			sp++
			a = b2u(ctx.stack[sp-1] != a)
		case opcode.LTU:
			sp++
			a = b2u(ctx.stack[sp-1] < a)
		case opcode.LTS:
			sp++
			a = b2u(int32(ctx.stack[sp-1]) < int32(a))
		case opcode.GTU:
			sp++
			a = b2u(ctx.stack[sp-1] > a)
		case opcode.GTS:
			sp++
			a = b2u(int32(ctx.stack[sp-1]) > int32(a))
		case opcode.LEU:
			sp++
			a = b2u(ctx.stack[sp-1] <= a)
		case opcode.LES:
			sp++
			a = b2u(int32(ctx.stack[sp-1]) <= int32(a))
		case opcode.GEU:
			sp++
			a = b2u(ctx.stack[sp-1] >= a)
		case opcode.GES:
			sp++
			a = b2u(int32(ctx.stack[sp-1]) >= int32(a))
		case opcode.SHL:
			sp++
			a = ctx.stack[sp-1] << (a & 31)
		case opcode.SHRU:
			sp++
			a = ctx.stack[sp-1] >> (a & 31)
		case opcode.SHRS:
			sp++
			a = uint32(int32(ctx.stack[sp-1]) >> (a & 31))
		case opcode.ADD:
			sp++
			a = ctx.stack[sp-1] + a
		case opcode.SUB:
			sp++
			a = ctx.stack[sp-1] - a
		case opcode.MUL:
			sp++
			a = ctx.stack[sp-1] * a

		case opcode.SYS1, opcode.SYS2:
			var idx int
			if op == opcode.SYS1 {
				idx = int(code[pc])
				pc++
			} else {
				idx = int(le16(code[pc:]))
				pc += 2
			}
			pc, sp, a = ctx.dispatchSyscall(m, idx, pc, sp, a)

		default:
			// Unreachable for a verified handler; conservatively stop.
			m.ExecStatus = ErrUnverified
			m.InvalidPC = pc - 1
		}

		if m.ExecStatus != Executing {
			break
		}
	}

	m.pc, m.sp, m.a = pc, sp, a
	return used
}

func b2u(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// dispatchSyscall invokes the syscall at idx, syncing the interpreter's
// cached registers with the context's authoritative ones around the call so
// Context.Push/Pop (used by the syscall's Call) see consistent state.
func (ctx *Context) dispatchSyscall(m *Machine, idx int, pc, sp int, a uint32) (int, int, uint32) {
	s := ctx.Syscalls[idx]

	m.ExecStatus = InSyscall
	ctx.execInSyscall = true
	ctx.expectedPops = int(s.Args)
	ctx.expectedPush = int(s.Returns)
	ctx.sp = sp
	m.pc, m.a = pc, a

	err := s.Call(ctx)

	sp = ctx.sp
	ctx.execInSyscall = false

	switch {
	case err != nil:
		m.ExecStatus = ErrSyscInvalidArg
		m.InvalidPC = pc
	case m.ExecStatus == InSyscall:
		switch {
		case ctx.expectedPops != 0:
			m.ExecStatus = ErrSyscMismatchedArgs
			m.InvalidPC = pc
		case ctx.expectedPush != 0:
			m.ExecStatus = ErrSyscMismatchedRets
			m.InvalidPC = pc
		default:
			m.ExecStatus = Executing
		}
	default:
		// The syscall itself called ctx.Trap to set a terminal error status;
		// leave it as-is.
	}

	return pc, sp, a
}
