package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ciWord builds a quadrant-1 CI-format word: funct3 | imm[5] | rd/rs1[4:0] | imm[4:0] | op.
func ciWord(funct3 uint16, imm6 int32, rd Register, op uint16) uint16 {
	u := uint32(imm6)
	bit5 := uint16(u>>5) & 0x1
	bits4_0 := uint16(u) & 0x1F
	return (funct3 << 13) | (bit5 << 12) | (uint16(rd) << 7) | (bits4_0 << 2) | op
}

func TestDecode16_Nop(t *testing.T) {
	half := ciWord(0b000, 0, X0, 0b01)
	inst := Decode16(half)
	assert.Equal(t, OpCNop, inst.Op)
	assert.Equal(t, uint8(2), inst.Length)
}

func TestDecode16_AddiHint(t *testing.T) {
	half := ciWord(0b000, 1, X0, 0b01)
	inst := Decode16(half)
	assert.Equal(t, OpHint, inst.Op)
}

func TestDecode16_Addi(t *testing.T) {
	half := ciWord(0b000, 1, X1, 0b01)
	inst := Decode16(half)
	require.Equal(t, OpCAddi, inst.Op)
	assert.Equal(t, X1, inst.Rd)
	assert.Equal(t, X1, inst.Rs1)
	assert.Equal(t, int32(1), inst.Imm)
}

// clWord builds a quadrant-0 CL-format word for C.LW: funct3 | imm[5:3] | rs1'[2:0] | imm[2] | imm[6] | rd'[2:0] | op.
func clWord(funct3 uint16, rs1p, rdp uint8, imm uint32, op uint16) uint16 {
	bits5_3 := uint16(imm>>3) & 0x7
	bit2 := uint16(imm>>2) & 0x1
	bit6 := uint16(imm>>6) & 0x1
	return (funct3 << 13) | (bits5_3 << 10) | (uint16(rs1p) << 7) | (bit2 << 6) | (bit6 << 5) | (uint16(rdp) << 2) | op
}

func TestDecode16_LwPrimeRegisters(t *testing.T) {
	half := clWord(0b010, 0, 1, 0, 0b00) // rs1'=0 (x8), rd'=1 (x9)
	inst := Decode16(half)
	require.Equal(t, OpCLw, inst.Op)
	assert.Equal(t, X8, inst.Rs1)
	assert.Equal(t, X9, inst.Rd)
}

func TestDecode16_Addi4spnReservedWhenZero(t *testing.T) {
	half := uint16(0b000_00000000_000_00)
	inst := Decode16(half)
	assert.Equal(t, OpUndefinedCompressed, inst.Op)
}

// crWord builds a quadrant-2 CR-format word: funct4 | rd/rs1[4:0] | rs2[4:0] | op.
func crWord(funct4 uint16, rd, rs2 Register, op uint16) uint16 {
	return (funct4 << 12) | (uint16(rd) << 7) | (uint16(rs2) << 2) | op
}

func TestDecode16_JrReservedAtX0(t *testing.T) {
	half := crWord(0b1000, X0, X0, 0b10)
	inst := Decode16(half)
	assert.Equal(t, OpUndefinedCompressed, inst.Op)
}

func TestDecode16_JrValid(t *testing.T) {
	half := crWord(0b1000, X1, X0, 0b10)
	inst := Decode16(half)
	require.Equal(t, OpCJr, inst.Op)
	assert.Equal(t, X1, inst.Rs1)
}

func TestDecode16_EbreakAndJalr(t *testing.T) {
	ebreak := crWord(0b1001, X0, X0, 0b10)
	inst := Decode16(ebreak)
	assert.Equal(t, OpCEbreak, inst.Op)

	jalr := crWord(0b1001, X5, X0, 0b10)
	inst = Decode16(jalr)
	require.Equal(t, OpCJalr, inst.Op)
	assert.Equal(t, RA, inst.Rd)
	assert.Equal(t, X5, inst.Rs1)
}

func TestDecode16_AddHintAtRdZero(t *testing.T) {
	half := crWord(0b1001, X0, X1, 0b10)
	inst := Decode16(half)
	assert.Equal(t, OpHint, inst.Op)
}

func TestDecode16_Lui(t *testing.T) {
	half := ciWord(0b011, 1, X1, 0b01) // rd=x1 (not sp), nzimm=1
	inst := Decode16(half)
	require.Equal(t, OpCLui, inst.Op)
	assert.NotEqual(t, int32(0), inst.Imm)
}

func TestDecode16_Addi16sp(t *testing.T) {
	// rd=2 (sp) routes to C.ADDI16SP instead of C.LUI; imm packing differs
	// from plain CI, so just confirm dispatch and reservation.
	half := uint16(0b011_0_00010_00000_01)
	inst := Decode16(half)
	assert.Equal(t, OpUndefinedCompressed, inst.Op) // nzimm=0 is reserved
}
