package verify_test

import (
	"testing"

	"github.com/alttpo/trex"
	"github.com/alttpo/trex/verify"
	fuzz "github.com/google/gofuzz"
)

// TestFuzzSoundness checks the verifier's soundness claim directly: for any
// byte sequence the verifier marks Verified, running it through the real
// interpreter must never panic — no out-of-bounds stack, locals, or code
// access, regardless of what garbage bytes produced a "valid" program.
func TestFuzzSoundness(t *testing.T) {
	const (
		stackCap    = 16
		localsCount = 4
		syscallArgs = 2
	)
	syscalls := []verify.SyscallInfo{
		{Args: 0, Returns: 0, Mapped: true},
		{Args: 1, Returns: 0, Mapped: true},
		{Args: 0, Returns: 1, Mapped: true},
		{Args: 2, Returns: 1, Mapped: true},
	}

	f := fuzz.New().NilChance(0).NumElements(0, 48)

	verified := 0
	for i := 0; i < 2000; i++ {
		var code []byte
		f.Fuzz(&code)

		r := verify.Verify(verify.Params{
			Code:          code,
			StackCapacity: stackCap,
			LocalsCount:   localsCount,
			HandlersCount: 1,
			Syscalls:      syscalls,
		})
		if r.Status != verify.Verified {
			continue
		}
		verified++

		runSoundly(t, code, stackCap, localsCount, syscalls)
	}
	t.Logf("fuzz: %d/2000 random byte sequences verified", verified)
}

func runSoundly(t *testing.T, code []byte, stackCap, localsCount int, syscallInfos []verify.SyscallInfo) {
	t.Helper()

	trexSyscalls := make([]trex.Syscall, len(syscallInfos))
	for i, s := range syscallInfos {
		args, rets := s.Args, s.Returns
		trexSyscalls[i] = trex.Syscall{
			Args: args, Returns: rets,
			Call: func(ctx *trex.Context) error {
				for j := uint8(0); j < args; j++ {
					if _, err := ctx.Pop(); err != nil {
						return err
					}
				}
				for j := uint8(0); j < rets; j++ {
					if err := ctx.Push(0); err != nil {
						return err
					}
				}
				return nil
			},
		}
	}

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("verified program panicked during execution: %v\ncode: % x", r, code)
		}
	}()

	ctx := trex.NewContext(stackCap, 10_000, trexSyscalls)
	m := trex.NewMachine(localsCount, 4)
	m.Handlers = []trex.Handler{{Code: code}}
	ctx.AddMachine(m)
	ctx.MachineVerify(m)
	if !m.Handlers[0].Verified() {
		t.Fatalf("MachineVerify disagreed with verify.Verify for the same code")
	}

	for i := 0; i < 8; i++ {
		ctx.Exec()
		if m.ExecStatus == trex.Halted {
			break
		}
	}
}
