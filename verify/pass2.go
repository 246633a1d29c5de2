package verify

import "github.com/alttpo/trex/opcode"

// walker carries the shared, mutable bookkeeping across every forked path
// of pass 2's symbolic stack-depth walk: path count and max depth are
// aggregated across the whole handler, not per path.
type walker struct {
	code    []byte
	cap     int // StackCapacity
	sys     []SyscallInfo
	paths   int
	maxSeen int // max relative stack depth seen across all paths
	budget  int // remaining path-fork budget
}

// pass2 performs the symbolic branch-path walk: a stack-depth-only
// symbolic executor with a single aknown/aZero flag standing in for the
// accumulator's concrete value, forking only at conditional branches whose
// condition cannot be statically resolved.
func pass2(p Params, pathCap int) Result {
	w := &walker{code: p.Code, cap: p.StackCapacity, sys: p.Syscalls, budget: pathCap}
	status, pc, target := w.walk(0, 0, true, true)
	if status != Verified {
		return Result{Status: status, InvalidPC: pc, InvalidTarget: target, BranchPaths: w.paths, MaxDepth: w.maxSeen}
	}
	return Result{Status: Verified, InvalidPC: -1, InvalidTarget: -1, BranchPaths: w.paths, MaxDepth: w.maxSeen}
}

// walk follows one path from (pc, depth, aKnown, aZero) until it terminates
// at RET, HALT, or pc_end, or forks at an unresolved conditional branch.
// It returns (Verified, -1, -1) on success, or the failing status plus the
// PC/target that caused it.
func (w *walker) walk(pc, depth int, aKnown, aZero bool) (Status, int, int) {
	for {
		if depth > w.maxSeen {
			w.maxSeen = depth
		}
		if pc == len(w.code) {
			if depth != 0 {
				return InvalidStackMustBeEmptyOnReturn, pc, -1
			}
			w.paths++
			return Verified, -1, -1
		}

		invalidPC := pc
		op := opcode.Opcode(w.code[pc])
		pc++
		width := op.ImmediateWidth()

		switch {
		case op == opcode.RET || op == opcode.HALT:
			if depth != 0 {
				return InvalidStackMustBeEmptyOnReturn, invalidPC, -1
			}
			w.paths++
			return Verified, -1, -1

		case op == opcode.IMM1 || op == opcode.IMM2 || op == opcode.IMM3 || op == opcode.IMM4:
			imm := readImm(w.code[pc : pc+width])
			aKnown, aZero = true, imm == 0
			pc += width

		case op == opcode.PSH1 || op == opcode.PSH2 || op == opcode.PSH3 || op == opcode.PSH4:
			depth++
			if depth > w.cap {
				return InvalidStackOverflow, invalidPC, -1
			}
			pc += width

		case op == opcode.PSHA:
			depth++
			if depth > w.cap {
				return InvalidStackOverflow, invalidPC, -1
			}

		case op == opcode.POP:
			depth--
			if depth < 0 {
				return InvalidStackUnderflow, invalidPC, -1
			}
			aKnown = false

		case op == opcode.LDL1 || op == opcode.LDL2:
			aKnown = false
			pc += width

		case op == opcode.STL1 || op == opcode.STL2:
			pc += width

		case op == opcode.SST1 || op == opcode.SST2:
			pc += width

		case op.IsBinaryOp():
			depth--
			if depth < 0 {
				return InvalidStackUnderflow, invalidPC, -1
			}
			aKnown = false

		case op.IsSyscall():
			idx := readImm(w.code[pc : pc+width])
			pc += width
			s := w.sys[idx]
			for i := uint8(0); i < s.Args; i++ {
				depth--
				if depth < 0 {
					return InvalidStackUnderflow, invalidPC, -1
				}
			}
			for i := uint8(0); i < s.Returns; i++ {
				depth++
				if depth > w.cap {
					return InvalidStackOverflow, invalidPC, -1
				}
			}

		case op.IsBranch():
			offset := int(w.code[pc])
			fallPC := pc + 1
			targetPC := fallPC + offset

			if offset == 0 {
				pc = fallPC
				continue
			}

			if aKnown {
				takeBranch := (op == opcode.BZ && aZero) || (op == opcode.BNZ && !aZero)
				if takeBranch {
					pc = targetPC
				} else {
					pc = fallPC
				}
				continue
			}

			// Unresolved: fork. The taken edge fixes A to the value that
			// would have caused the branch; the fall-through edge fixes it
			// to the opposite.
			if w.budget <= 0 {
				return InvalidTooManyBranches, invalidPC, targetPC
			}
			w.budget--

			takenZero := op == opcode.BZ
			if status, failPC, failTarget := w.walk(targetPC, depth, true, takenZero); status != Verified {
				return status, failPC, failTarget
			}
			aKnown, aZero = true, !takenZero
			pc = fallPC
			continue

		default:
			// pass1 already rejected any opcode not in this set.
			return InvalidOpcode, invalidPC, -1
		}
	}
}
