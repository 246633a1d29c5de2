package verify

import (
	"testing"

	"github.com/alttpo/trex/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b(ops ...interface{}) []byte {
	out := make([]byte, 0, len(ops))
	for _, o := range ops {
		switch v := o.(type) {
		case opcode.Opcode:
			out = append(out, byte(v))
		case int:
			out = append(out, byte(v))
		case byte:
			out = append(out, v)
		default:
			panic("unsupported literal in bytecode builder")
		}
	}
	return out
}

func TestSingleReturn(t *testing.T) {
	// S1: Handler = [RET]. Verify -> verified.
	r := Verify(Params{
		Code:          b(opcode.RET),
		StackCapacity: 8,
		HandlersCount: 1,
	})
	assert.Equal(t, Verified, r.Status)
	assert.Equal(t, -1, r.InvalidPC)
}

func TestBranchIntoInstructionInterior(t *testing.T) {
	// S2: Handler = [IMM1, 0, BZ, 1, RET, PSHA]. The branch is always taken
	// (A==0 right after IMM1 0) and lands on PSHA with no matching pop
	// before the handler ends, so the stack is non-empty on exit.
	r := Verify(Params{
		Code:          b(opcode.IMM1, 0, opcode.BZ, 1, opcode.RET, opcode.PSHA),
		StackCapacity: 8,
		HandlersCount: 1,
	})
	assert.NotEqual(t, Verified, r.Status)
	assert.Equal(t, InvalidStackMustBeEmptyOnReturn, r.Status)
}

func TestAccumulatorLocalAndStateTransition(t *testing.T) {
	// S3 (verifier half): Handler0 pushes a constant, calls a (1,0) syscall,
	// pops into a local, sets next state, returns. The syscall consumes the
	// only pushed value, so the POP that follows has nothing to pop and the
	// handler is rejected as a stack underflow.
	r := Verify(Params{
		Code: b(
			opcode.PSH1, 0x2A,
			opcode.SYS1, 0,
			opcode.POP,
			opcode.STL1, 0,
			opcode.SST1, 1,
			opcode.RET,
		),
		StackCapacity: 8,
		LocalsCount:   1,
		HandlersCount: 2,
		Syscalls:      []SyscallInfo{{Args: 1, Returns: 0, Mapped: true}},
	})
	require.Equal(t, InvalidStackUnderflow, r.Status)
}

func TestHaltIsTerminalAndVerifies(t *testing.T) {
	// S4: Handler = [HALT]. A bare halt is trivially stack-balanced.
	r := Verify(Params{
		Code:          b(opcode.HALT),
		StackCapacity: 8,
		HandlersCount: 1,
	})
	assert.Equal(t, Verified, r.Status)
}

func TestSyscallUnderflowTrap(t *testing.T) {
	// S5: syscall declared args=2 but only one PSH1 precedes the call.
	r := Verify(Params{
		Code: b(
			opcode.PSH1, 5,
			opcode.SYS1, 0,
			opcode.RET,
		),
		StackCapacity: 8,
		HandlersCount: 1,
		Syscalls:      []SyscallInfo{{Args: 2, Returns: 0, Mapped: true}},
	})
	assert.Equal(t, InvalidStackUnderflow, r.Status)
}

func TestUnknownOpcodeRejected(t *testing.T) {
	r := Verify(Params{
		Code:          []byte{0xFF},
		StackCapacity: 8,
		HandlersCount: 1,
	})
	assert.Equal(t, InvalidOpcode, r.Status)
	assert.Equal(t, 0, r.InvalidPC)
}

func TestTruncatedImmediateRejected(t *testing.T) {
	r := Verify(Params{
		Code:          b(opcode.IMM4, 1, 2), // needs 4 immediate bytes, only 2 supplied
		StackCapacity: 8,
		HandlersCount: 1,
	})
	assert.Equal(t, InvalidOpcodeIncomplete, r.Status)
}

func TestBranchTargetMustBeOpcodeStart(t *testing.T) {
	// BZ offset lands one byte into the following RET's (nonexistent)
	// immediate — RET has no immediate, so the target lands mid-stream
	// relative to nothing decodable; here we force it to overshoot into the
	// middle of a 2-byte PSH1 operand instead.
	r := Verify(Params{
		Code: b(
			opcode.IMM1, 1, // A = 1, so BNZ below is taken... use BZ with A!=0 not taken instead
			opcode.BZ, 1, // A != 0 so this would fall through in pass2, but pass1 must still validate the target regardless of reachability
			opcode.PSH1, 9, // target lands here at offset of the immediate byte, not the opcode byte
			opcode.RET,
		),
		StackCapacity: 8,
		HandlersCount: 1,
	})
	// target = pc_of_offset_byte + 1 + offset. BZ's offset byte is at index 3,
	// so target = 3 + 1 + 1 = 5, which is the immediate byte of PSH1 (opcode
	// at 4, immediate at 5) — not a valid opcode start.
	assert.Equal(t, InvalidBranchTarget, r.Status)
}

func TestBranchTargetEqualToPcEndIsLegal(t *testing.T) {
	// offset chosen so the branch target lands exactly at len(code).
	r := Verify(Params{
		Code: b(
			opcode.IMM1, 0,
			opcode.BZ, 1, // target = 3+1+1 = 5 == len(code); A==0, so the branch skips the RET
			opcode.RET,
		),
		StackCapacity: 8,
		HandlersCount: 1,
	})
	assert.Equal(t, Verified, r.Status)
}

func TestLocalIndexOutOfRange(t *testing.T) {
	r := Verify(Params{
		Code:          b(opcode.LDL1, 3, opcode.STL1, 0, opcode.RET),
		StackCapacity: 8,
		LocalsCount:   2,
		HandlersCount: 1,
	})
	assert.Equal(t, InvalidLocal, r.Status)
}

func TestStateIndexOutOfRange(t *testing.T) {
	r := Verify(Params{
		Code:          b(opcode.SST1, 5, opcode.RET),
		StackCapacity: 8,
		HandlersCount: 2,
	})
	assert.Equal(t, InvalidState, r.Status)
}

func TestSyscallIndexOutOfRange(t *testing.T) {
	r := Verify(Params{
		Code:          b(opcode.SYS1, 1, opcode.RET),
		StackCapacity: 8,
		HandlersCount: 1,
		Syscalls:      []SyscallInfo{{Args: 0, Returns: 0, Mapped: true}},
	})
	assert.Equal(t, InvalidSyscallNumber, r.Status)
}

func TestSyscallUnmapped(t *testing.T) {
	r := Verify(Params{
		Code:          b(opcode.SYS1, 0, opcode.RET),
		StackCapacity: 8,
		HandlersCount: 1,
		Syscalls:      []SyscallInfo{{Mapped: false}},
	})
	assert.Equal(t, InvalidSyscallUnmapped, r.Status)
}

func TestStackOverflow(t *testing.T) {
	code := b(
		opcode.PSH1, 1,
		opcode.PSH1, 2,
		opcode.PSH1, 3,
		opcode.POP,
		opcode.POP,
		opcode.POP,
		opcode.RET,
	)
	r := Verify(Params{
		Code:          code,
		StackCapacity: 2, // third PSH1 overflows a capacity-2 stack
		HandlersCount: 1,
	})
	assert.Equal(t, InvalidStackOverflow, r.Status)
}

func TestUnresolvedBranchForksBothEdges(t *testing.T) {
	// A cannot be statically known here (comes from LDL1), so pass 2 must
	// fork: the taken edge must also leave the stack empty on return.
	r := Verify(Params{
		Code: b(
			opcode.LDL1, 0,
			opcode.BNZ, 3, // unresolved: taken edge skips the PSH1/POP pair entirely
			opcode.PSH1, 7,
			opcode.POP,
			opcode.RET,
		),
		StackCapacity: 8,
		LocalsCount:   1,
		HandlersCount: 1,
	})
	assert.Equal(t, Verified, r.Status)
	assert.True(t, r.BranchPaths >= 2)
}

func TestUnresolvedBranchImbalancedPathRejected(t *testing.T) {
	// Same shape, but the taken edge skips the POP that balances the PSH1,
	// so the taken path reaches RET with depth 1.
	r := Verify(Params{
		Code: b(
			opcode.LDL1, 0,
			opcode.PSH1, 7,
			opcode.BNZ, 1, // unresolved: taken edge skips POP, leaves stack depth 1 at RET
			opcode.POP,
			opcode.RET,
		),
		StackCapacity: 8,
		LocalsCount:   1,
		HandlersCount: 1,
	})
	assert.Equal(t, InvalidStackMustBeEmptyOnReturn, r.Status)
}

func TestShiftAndWrappingOpsVerifyAsOrdinaryBinaryOps(t *testing.T) {
	r := Verify(Params{
		Code: b(
			opcode.PSH1, 1,
			opcode.IMM1, 40,
			opcode.SHL,
			opcode.RET,
		),
		StackCapacity: 8,
		HandlersCount: 1,
	})
	assert.Equal(t, Verified, r.Status)
}

func TestPendingTargetCapacityExceeded(t *testing.T) {
	// Two branches, each targeting a distinct, still-unreached location,
	// decoded back to back: the second insert finds the set already full.
	r := Verify(Params{
		Code: b(
			opcode.BZ, 4, // target = 1+1+4 = 6
			opcode.BZ, 5, // target = 3+1+5 = 9 == len(code), still a second distinct pending target
			opcode.RET, opcode.RET, opcode.RET, opcode.RET, opcode.RET,
		),
		StackCapacity:         8,
		HandlersCount:         1,
		PendingTargetCapacity: 1,
	})
	assert.Equal(t, InvalidTooManyBranches, r.Status)
}

func TestDefaultsAppliedWhenZero(t *testing.T) {
	r := Verify(Params{
		Code:          b(opcode.RET),
		StackCapacity: 8,
		HandlersCount: 1,
	})
	require.Equal(t, Verified, r.Status)
}
