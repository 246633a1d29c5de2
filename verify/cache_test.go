package verify

import (
	"testing"

	"github.com/alttpo/trex/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReturnsSameResultForSameCode(t *testing.T) {
	c, err := NewCache(8)
	require.NoError(t, err)

	p := Params{Code: b(opcode.RET), StackCapacity: 4, LocalsCount: 0, HandlersCount: 1}
	r1 := c.Verify(p)
	r2 := c.Verify(p)

	assert.Equal(t, Verified, r1.Status)
	assert.Equal(t, r1, r2)
}

func TestCacheDistinguishesDifferentSyscallShapes(t *testing.T) {
	c, err := NewCache(8)
	require.NoError(t, err)

	code := b(opcode.SYS1, 0, opcode.RET)
	pNoArgs := Params{Code: code, StackCapacity: 4, HandlersCount: 1,
		Syscalls: []SyscallInfo{{Args: 0, Returns: 0, Mapped: true}}}
	pWithArgs := Params{Code: code, StackCapacity: 4, HandlersCount: 1,
		Syscalls: []SyscallInfo{{Args: 1, Returns: 0, Mapped: true}}}

	r1 := c.Verify(pNoArgs)
	r2 := c.Verify(pWithArgs)

	assert.Equal(t, Verified, r1.Status)
	assert.Equal(t, InvalidStackUnderflow, r2.Status)
}
