package verify

import "github.com/alttpo/trex/opcode"

// pass1 walks the code linearly once, confirming every opcode is known,
// every immediate fits before pc_end, every closed-set operand (local
// index, state index, syscall index/mapping) is in range, and every branch
// target lands on an opcode start or exactly on pc_end.
//
// Adapted from trex_verify.c's single-pass verifier, split out as pass 1
// here (stack depth is pass 2's job, not this one — the original combines
// both into one pass since it never forks).
func pass1(p Params, capacity int) Result {
	targets := newTargetSet(capacity)
	code := p.Code
	pc := 0

	for pc < len(code) {
		if front, ok := targets.front(); ok {
			switch {
			case front < pc:
				// a previously recorded target lies strictly behind us: it
				// must have pointed into the middle of an instruction we
				// already decoded.
				return failTarget(InvalidBranchTarget, pc, front)
			case front == pc:
				targets.popFront()
			default:
				// target is still ahead; leave it pending.
			}
		}

		invalidPC := pc
		op := opcode.Opcode(code[pc])
		if !op.Valid() {
			return failAt(InvalidOpcode, invalidPC)
		}
		pc++
		width := op.ImmediateWidth()

		switch {
		case op.IsBranch():
			if pc >= len(code) {
				return failAt(InvalidOpcodeIncomplete, invalidPC)
			}
			offset := int(code[pc])
			target := pc + 1 + offset
			if target > len(code) {
				return failTarget(InvalidBranchTarget, invalidPC, target)
			}
			if !targets.insert(target) {
				return failTarget(InvalidTooManyBranches, invalidPC, target)
			}
			pc++

		case op == opcode.LDL1 || op == opcode.LDL2 || op == opcode.STL1 || op == opcode.STL2:
			if pc+width > len(code) {
				return failAt(InvalidOpcodeIncomplete, invalidPC)
			}
			idx := readImm(code[pc : pc+width])
			if idx >= uint32(p.LocalsCount) {
				return failAt(InvalidLocal, invalidPC)
			}
			pc += width

		case op == opcode.SST1 || op == opcode.SST2:
			if pc+width > len(code) {
				return failAt(InvalidOpcodeIncomplete, invalidPC)
			}
			idx := readImm(code[pc : pc+width])
			if idx >= uint32(p.HandlersCount) {
				return failAt(InvalidState, invalidPC)
			}
			pc += width

		case op.IsSyscall():
			if pc+width > len(code) {
				return failAt(InvalidOpcodeIncomplete, invalidPC)
			}
			idx := readImm(code[pc : pc+width])
			if int(idx) >= len(p.Syscalls) {
				return failAt(InvalidSyscallNumber, invalidPC)
			}
			if !p.Syscalls[idx].Mapped {
				return failAt(InvalidSyscallUnmapped, invalidPC)
			}
			pc += width

		default:
			if pc+width > len(code) {
				return failAt(InvalidOpcodeIncomplete, invalidPC)
			}
			pc += width
		}
	}

	if pc > len(code) {
		return failAt(InvalidBranchTarget, pc)
	}

	for _, t := range targets.remaining() {
		if t != pc {
			return failTarget(InvalidBranchTarget, pc, t)
		}
	}

	return Result{Status: Unverified, InvalidPC: -1, InvalidTarget: -1, MaxTargets: targets.maxSeen}
}

// readImm decodes a 1-4 byte little-endian immediate.
func readImm(b []byte) uint32 {
	var v uint32
	for i, x := range b {
		v |= uint32(x) << (8 * uint(i))
	}
	return v
}
