package core

// ============================================================================
// RV64 Instruction Encoding Constants
// ============================================================================
// Shift/mask constants used by the decoder's 32-bit field accessors below.
// The asm package packs its fields with its own literal shifts.

const (
	OpcodeMask = 0x7F // low 7 bits select the base format

	RdShift   = 7
	Rs1Shift  = 15
	Rs2Shift  = 20
	Funct3Shift = 12
	Funct7Shift = 25

	Mask5Bit  = 0x1F
	Mask3Bit  = 0x7
	Mask7Bit  = 0x7F
	Mask6Bit  = 0x3F
)

func rd(inst uint32) Register  { return Register((inst >> RdShift) & Mask5Bit) }
func rs1(inst uint32) Register { return Register((inst >> Rs1Shift) & Mask5Bit) }
func rs2(inst uint32) Register { return Register((inst >> Rs2Shift) & Mask5Bit) }
func funct3(inst uint32) uint32 { return (inst >> Funct3Shift) & Mask3Bit }
func funct7(inst uint32) uint32 { return (inst >> Funct7Shift) & Mask7Bit }
func opcode(inst uint32) uint32 { return inst & OpcodeMask }

// sext sign-extends the low `bits` bits of value to a full 32-bit signed int.
func sext(value uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}

// sext64 sign-extends a 32-bit signed immediate to 64 bits, the operation
// every RV64I semantic rule in spec.md §4.4 performs before adding to a
// 64-bit register or PC.
func sext64(imm int32) uint64 {
	return uint64(int64(imm))
}

// iImm reconstructs the I-type immediate: imm = sext(inst[31:20], 12).
func iImm(inst uint32) int32 {
	return sext(inst>>20, 12)
}

// sImm reconstructs the S-type immediate: inst[31:25] ∥ inst[11:7].
func sImm(inst uint32) int32 {
	hi := (inst >> 25) & Mask7Bit
	lo := (inst >> 7) & Mask5Bit
	return sext((hi<<5)|lo, 12)
}

// bImm reconstructs the B-type immediate: inst[31] ∥ inst[7] ∥ inst[30:25] ∥ inst[11:8] ∥ 0.
func bImm(inst uint32) int32 {
	bit12 := (inst >> 31) & 0x1
	bit11 := (inst >> 7) & 0x1
	bits10_5 := (inst >> 25) & 0x3F
	bits4_1 := (inst >> 8) & 0xF
	v := (bit12 << 12) | (bit11 << 11) | (bits10_5 << 5) | (bits4_1 << 1)
	return sext(v, 13)
}

// uImm reconstructs the U-type immediate: the 20-bit field is already
// pre-shifted into bits 31..12.
func uImm(inst uint32) int32 {
	return int32(inst & 0xFFFFF000)
}

// jImm reconstructs the J-type immediate: inst[31] ∥ inst[19:12] ∥ inst[20] ∥ inst[30:21] ∥ 0.
func jImm(inst uint32) int32 {
	bit20 := (inst >> 31) & 0x1
	bits19_12 := (inst >> 12) & 0xFF
	bit11 := (inst >> 20) & 0x1
	bits10_1 := (inst >> 21) & 0x3FF
	v := (bit20 << 20) | (bits19_12 << 12) | (bit11 << 11) | (bits10_1 << 1)
	return sext(v, 21)
}
