package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T) *Core {
	t.Helper()
	return NewCore(4096)
}

func writeWord(t *testing.T, c *Core, addr uint64, word uint32) {
	t.Helper()
	require.NoError(t, c.Mem.WriteU32(addr, word))
}

func TestStep_Addi(t *testing.T) {
	c := newTestCore(t)
	writeWord(t, c, 0, encodeI(0b0010011, 0, X1, X0, 5)) // addi x1, x0, 5
	status, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, uint64(5), c.Reg(X1))
	assert.Equal(t, uint64(4), c.Reg(PC))
}

func TestStep_JalCapturesPostAdvancePC(t *testing.T) {
	c := newTestCore(t)
	writeWord(t, c, 0, 0) // filler, overwritten below
	// jal x1, 8: target = pc(0) + 8 = 8, link = pc + 4 = 4
	imm := int32(8)
	bit20 := uint32(imm>>20) & 0x1
	bits19_12 := uint32(imm>>12) & 0xFF
	bit11 := uint32(imm>>11) & 0x1
	bits10_1 := uint32(imm>>1) & 0x3FF
	word := (bit20 << 31) | (bits10_1 << 21) | (bit11 << 20) | (bits19_12 << 12) | (uint32(X1) << 7) | 0b1101111
	writeWord(t, c, 0, word)

	status, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, uint64(4), c.Reg(X1))
	assert.Equal(t, uint64(8), c.Reg(PC))
}

func TestStep_JalrDoesNotMaskLowBit(t *testing.T) {
	c := newTestCore(t)
	c.SetReg(X2, 5) // deliberately odd target base
	writeWord(t, c, 0, encodeI(0b1100111, 0, X1, X2, 0))
	status, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, uint64(5), c.Reg(PC)) // not masked down to 4
	assert.Equal(t, uint64(4), c.Reg(X1))
}

func TestStep_EcallEbreak(t *testing.T) {
	c := newTestCore(t)
	writeWord(t, c, 0, encodeI(0b1110011, 0, X0, X0, 0)) // ecall
	status, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusEcall, status)

	c.SetReg(PC, 4)
	writeWord(t, c, 4, encodeI(0b1110011, 0, X0, X0, 1)) // ebreak
	status, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusEbreak, status)
}

func TestStep_LoadStoreRoundTrip(t *testing.T) {
	c := newTestCore(t)
	c.SetReg(X1, 100)
	c.SetReg(X2, 0xDEADBEEF)
	// sw x2, 0(x1)
	word := (uint32(X2) << 20) | (uint32(X1) << 15) | (0b010 << 12) | 0b0100011
	writeWord(t, c, 0, word)
	status, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)

	c.SetReg(PC, 4)
	// lw x3, 0(x1)
	writeWord(t, c, 4, encodeI(0b0000011, 0b010, X3, X1, 0))
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), c.Reg(X3))
}

func TestStep_MemoryFaultOutOfRange(t *testing.T) {
	c := newTestCore(t)
	c.SetReg(PC, c.Mem.Size()-1)
	_, err := c.Step()
	require.Error(t, err)
	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, FaultMemory, fault.Kind)
}

func TestCSR_CsrrwSuppressesReadAtX0(t *testing.T) {
	c := newTestCore(t)
	c.SetReg(X1, 0x42)
	read := false
	c.SetCSRHooks(func(uint16, uint64) (uint64, bool) { read = true; return 0, false }, nil)
	writeWord(t, c, 0, encodeI(0b1110011, 0b001, X0, X1, 0x100))
	_, err := c.Step()
	require.NoError(t, err)
	assert.False(t, read, "csrrw with rd=x0 must not read the CSR")
	got, err := c.ReadCSR(0x100)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x42), got)
}

func TestCSR_CsrrsSuppressesWriteAtX0Source(t *testing.T) {
	c := newTestCore(t)
	require.NoError(t, c.WriteCSR(0x100, 0x7))
	wrote := false
	c.SetCSRHooks(nil, func(uint16, uint64) bool { wrote = true; return false })
	writeWord(t, c, 0, encodeI(0b1110011, 0b010, X5, X0, 0x100)) // csrrs x5, 0x100, x0
	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7), c.Reg(X5))
	assert.False(t, wrote, "csrrs with x0 source must not invoke the write hook")
}

func TestAMO_AmoaddW(t *testing.T) {
	c := newTestCore(t)
	require.NoError(t, c.Mem.WriteU32(64, 10))
	c.SetReg(X1, 64)
	c.SetReg(X2, 5)
	word := (uint32(0b00000) << 27) | (uint32(X2) << 20) | (uint32(X1) << 15) | (0b010 << 12) | (uint32(X3) << 7) | 0b0101111
	writeWord(t, c, 0, word)
	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), c.Reg(X3)) // loaded value, sign-extended
	v, err := c.Mem.ReadU32(64)
	require.NoError(t, err)
	assert.Equal(t, uint32(15), v)
}

func TestRun_StopsAtEcall(t *testing.T) {
	c := newTestCore(t)
	writeWord(t, c, 0, encodeI(0b0010011, 0, X1, X0, 1)) // addi x1, x0, 1
	writeWord(t, c, 4, encodeI(0b1110011, 0, X0, X0, 0)) // ecall
	result, err := c.Run(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusEcall, result.Status)
	assert.Equal(t, uint64(2), result.Steps)
}

func TestRun_StopsAtSentinelReturn(t *testing.T) {
	c := NewCore(0x100000)
	c.SetReg(SP, 0x100000)
	c.SetReg(RA, 0xffff1337)
	c.SetReg(X10, 6)
	c.SetReg(X11, 5)

	// fn(a0, a1) = a0 + a1; return via jalr x0, ra, 0
	writeWord(t, c, 0, encodeR(0b0110011, 0, 0, X10, X10, X11)) // add a0, a0, a1
	writeWord(t, c, 4, encodeI(0b1100111, 0, X0, RA, 0))        // jalr x0, ra, 0

	result, err := c.Run(0, 0xffff1337)
	require.NoError(t, err)
	assert.Equal(t, StatusSentinel, result.Status)
	assert.Equal(t, uint64(0xffff1337), c.Reg(PC))
	assert.Equal(t, uint64(11), c.Reg(X10))
}
