package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeR(opcode, f3, f7 uint32, rd, rs1, rs2 Register) uint32 {
	return (f7 << 25) | (uint32(rs2) << 20) | (uint32(rs1) << 15) | (f3 << 12) | (uint32(rd) << 7) | opcode
}

func encodeI(opcode, f3 uint32, rd, rs1 Register, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | (uint32(rs1) << 15) | (f3 << 12) | (uint32(rd) << 7) | opcode
}

func TestDecode32_Add(t *testing.T) {
	word := encodeR(0b0110011, 0, 0, X5, X6, X7)
	inst := Decode32(word)
	assert.Equal(t, OpAdd, inst.Op)
	assert.Equal(t, X5, inst.Rd)
	assert.Equal(t, X6, inst.Rs1)
	assert.Equal(t, X7, inst.Rs2)
	assert.Equal(t, uint8(4), inst.Length)
}

func TestDecode32_Addi(t *testing.T) {
	word := encodeI(0b0010011, 0, X1, X2, -5)
	inst := Decode32(word)
	require.Equal(t, OpAddi, inst.Op)
	assert.Equal(t, int32(-5), inst.Imm)
}

func TestDecode32_MulAndDiv(t *testing.T) {
	mul := Decode32(encodeR(0b0110011, 0b000, 0b0000001, X10, X11, X12))
	assert.Equal(t, OpMul, mul.Op)

	div := Decode32(encodeR(0b0110011, 0b100, 0b0000001, X10, X11, X12))
	assert.Equal(t, OpDiv, div.Op)

	remw := Decode32(encodeR(0b0111011, 0b110, 0b0000001, X10, X11, X12))
	assert.Equal(t, OpRemw, remw.Op)
}

func TestDecode32_EcallEbreak(t *testing.T) {
	ecall := Decode32(encodeI(0b1110011, 0, X0, X0, 0))
	assert.Equal(t, OpEcall, ecall.Op)

	ebreak := Decode32(encodeI(0b1110011, 0, X0, X0, 1))
	assert.Equal(t, OpEbreak, ebreak.Op)
}

func TestDecode32_Csrrw(t *testing.T) {
	word := encodeI(0b1110011, 0b001, X5, X6, 0x300)
	inst := Decode32(word)
	assert.Equal(t, OpCsrrw, inst.Op)
	assert.Equal(t, uint16(0x300), inst.Csr)
}

func TestDecode32_AmoaddW(t *testing.T) {
	word := (uint32(0b00000) << 27) | (uint32(X7) << 20) | (uint32(X8) << 15) | (0b010 << 12) | (uint32(X9) << 7) | 0b0101111
	inst := Decode32(word)
	assert.Equal(t, OpAmoaddW, inst.Op)
	assert.Equal(t, X9, inst.Rd)
	assert.Equal(t, X8, inst.Rs1)
	assert.Equal(t, X7, inst.Rs2)
}

func TestDecode32_Undefined(t *testing.T) {
	inst := Decode32(0x0000007F) // opcode bits = 0b1111111, not in table
	assert.Equal(t, OpUndefined, inst.Op)
}

func TestDecode32_BranchImmediateSignExtends(t *testing.T) {
	// beq x1, x2, -4
	var word uint32
	imm := int32(-4)
	bit12 := uint32(imm>>12) & 0x1
	bit11 := uint32(imm>>11) & 0x1
	bits10_5 := uint32(imm>>5) & 0x3F
	bits4_1 := uint32(imm>>1) & 0xF
	word = (bit12 << 31) | (bits10_5 << 25) | (uint32(X2) << 20) | (uint32(X1) << 15) | (0 << 12) | (bits4_1 << 8) | (bit11 << 7) | 0b1100011
	inst := Decode32(word)
	require.Equal(t, OpBeq, inst.Op)
	assert.Equal(t, int32(-4), inst.Imm)
}

func TestDecode32_JalImmediateSignExtends(t *testing.T) {
	var word uint32
	imm := int32(-2048)
	bit20 := uint32(imm>>20) & 0x1
	bits19_12 := uint32(imm>>12) & 0xFF
	bit11 := uint32(imm>>11) & 0x1
	bits10_1 := uint32(imm>>1) & 0x3FF
	word = (bit20 << 31) | (bits10_1 << 21) | (bit11 << 20) | (bits19_12 << 12) | (uint32(X1) << 7) | 0b1101111
	inst := Decode32(word)
	require.Equal(t, OpJal, inst.Op)
	assert.Equal(t, imm, inst.Imm)
}
