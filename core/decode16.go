package core

// ============================================================================
// RVC (compressed) field extraction
// ============================================================================
// The 16-bit formats (CR, CI, CSS, CIW, CL, CS, CA, CB, CJ) pack operands at
// different bit positions than the 32-bit formats, so they get their own
// small set of accessors rather than reusing fields.go's.

func cQuadrant(half uint16) uint16 { return half & 0x3 }
func cFunct3(half uint16) uint16   { return (half >> 13) & 0x7 }

// cFull5 reads a full 5-bit register field at bits [11:7] (rd/rs1 in CR/CI).
func cFull5(half uint16) Register { return Register((half >> 7) & 0x1F) }

// cFull5b reads a full 5-bit register field at bits [6:2] (rs2 in CR/CSS).
func cFull5b(half uint16) Register { return Register((half >> 2) & 0x1F) }

func cRdPrime(half uint16) Register  { return PrimeRegister(uint8((half >> 2) & 0x7)) }
func cRs1Prime(half uint16) Register { return PrimeRegister(uint8((half >> 7) & 0x7)) }
func cRs2Prime(half uint16) Register { return PrimeRegister(uint8((half >> 2) & 0x7)) }

// Decode16 is the pure decode function for a 16-bit compressed code word. It
// never panics: any reserved or unimplemented encoding resolves to
// OpUndefinedCompressed, and hint encodings resolve to OpHint (spec.md §8
// invariant 3, §4.5 compressed hint/reserved table).
func Decode16(half uint16) Instruction {
	inst := decode16(half)
	inst.Raw = uint32(half)
	inst.Length = 2
	return inst
}

func decode16(half uint16) Instruction {
	switch cQuadrant(half) {
	case 0b00:
		return decodeCQ0(half)
	case 0b01:
		return decodeCQ1(half)
	case 0b10:
		return decodeCQ2(half)
	}
	return Instruction{Op: OpUndefinedCompressed}
}

func decodeCQ0(half uint16) Instruction {
	rdp := cRdPrime(half)
	rs1p := cRs1Prime(half)

	switch cFunct3(half) {
	case 0b000: // C.ADDI4SPN
		bits10_7 := (half >> 7) & 0xF
		bits12_11 := (half >> 11) & 0x3
		bit5 := (half >> 5) & 0x1
		bit6 := (half >> 6) & 0x1
		nzuimm := (uint32(bits10_7) << 6) | (uint32(bits12_11) << 4) | (uint32(bit5) << 3) | (uint32(bit6) << 2)
		if nzuimm == 0 {
			return Instruction{Op: OpUndefinedCompressed}
		}
		return Instruction{Op: OpCAddi4spn, Rd: rdp, Rs1: SP, Imm: int32(nzuimm)}

	case 0b010: // C.LW
		return Instruction{Op: OpCLw, Rd: rdp, Rs1: rs1p, Imm: cLwImm(half)}

	case 0b011: // C.LD
		return Instruction{Op: OpCLd, Rd: rdp, Rs1: rs1p, Imm: cLdImm(half)}

	case 0b110: // C.SW
		return Instruction{Op: OpCSw, Rs1: rs1p, Rs2: cRs2Prime(half), Imm: cLwImm(half)}

	case 0b111: // C.SD
		return Instruction{Op: OpCSd, Rs1: rs1p, Rs2: cRs2Prime(half), Imm: cLdImm(half)}
	}

	return Instruction{Op: OpUndefinedCompressed}
}

func cLwImm(half uint16) int32 {
	bit5 := (half >> 5) & 0x1
	bits12_10 := (half >> 10) & 0x7
	bit6 := (half >> 6) & 0x1
	v := (uint32(bit5) << 6) | (uint32(bits12_10) << 3) | (uint32(bit6) << 2)
	return int32(v)
}

func cLdImm(half uint16) int32 {
	bits12_10 := (half >> 10) & 0x7
	bits6_5 := (half >> 5) & 0x3
	v := (uint32(bits6_5) << 6) | (uint32(bits12_10) << 3)
	return int32(v)
}

// cNzimm6 reconstructs a sign-extended 6-bit immediate packed as
// inst[12]:inst[6:2], the shape shared by C.ADDI/C.ADDIW/C.LI/C.ANDI.
func cNzimm6(half uint16) int32 {
	bit5 := (half >> 12) & 0x1
	bits4_0 := (half >> 2) & 0x1F
	v := (uint32(bit5) << 5) | uint32(bits4_0)
	return sext(v, 6)
}

// cShamt6 reconstructs the full 6-bit (RV64) unsigned shift amount packed as
// inst[12]:inst[6:2], used by C.SLLI/C.SRLI/C.SRAI.
func cShamt6(half uint16) uint32 {
	bit5 := (half >> 12) & 0x1
	bits4_0 := (half >> 2) & 0x1F
	return (uint32(bit5) << 5) | uint32(bits4_0)
}

func decodeCQ1(half uint16) Instruction {
	switch cFunct3(half) {
	case 0b000: // C.ADDI / C.NOP
		rd := cFull5(half)
		imm := cNzimm6(half)
		if rd == X0 {
			if imm == 0 {
				return Instruction{Op: OpCNop}
			}
			return Instruction{Op: OpHint}
		}
		return Instruction{Op: OpCAddi, Rd: rd, Rs1: rd, Imm: imm}

	case 0b001: // C.ADDIW
		rd := cFull5(half)
		if rd == X0 {
			return Instruction{Op: OpUndefinedCompressed}
		}
		return Instruction{Op: OpCAddiw, Rd: rd, Rs1: rd, Imm: cNzimm6(half)}

	case 0b010: // C.LI
		rd := cFull5(half)
		imm := cNzimm6(half)
		if rd == X0 {
			return Instruction{Op: OpHint}
		}
		return Instruction{Op: OpCLi, Rd: rd, Imm: imm}

	case 0b011:
		rd := cFull5(half)
		if rd == SP { // C.ADDI16SP
			imm := cAddi16spImm(half)
			if imm == 0 {
				return Instruction{Op: OpUndefinedCompressed}
			}
			return Instruction{Op: OpCAddi16sp, Rd: rd, Rs1: rd, Imm: imm}
		}
		// C.LUI
		imm := cLuiImm(half)
		if imm == 0 {
			return Instruction{Op: OpUndefinedCompressed}
		}
		if rd == X0 {
			return Instruction{Op: OpHint}
		}
		return Instruction{Op: OpCLui, Rd: rd, Imm: imm}

	case 0b100:
		return decodeCQ1Arith(half)

	case 0b101: // C.J
		return Instruction{Op: OpCJ, Imm: cJImm(half)}

	case 0b110: // C.BEQZ
		return Instruction{Op: OpCBeqz, Rs1: cRs1Prime(half), Imm: cBImm(half)}

	case 0b111: // C.BNEZ
		return Instruction{Op: OpCBnez, Rs1: cRs1Prime(half), Imm: cBImm(half)}
	}

	return Instruction{Op: OpUndefinedCompressed}
}

func cAddi16spImm(half uint16) int32 {
	bit9 := (half >> 12) & 0x1
	bits8_7 := (half >> 3) & 0x3
	bit6 := (half >> 5) & 0x1
	bit5 := (half >> 2) & 0x1
	bit4 := (half >> 6) & 0x1
	v := (uint32(bit9) << 9) | (uint32(bits8_7) << 7) | (uint32(bit6) << 6) | (uint32(bit5) << 5) | (uint32(bit4) << 4)
	return sext(v, 10)
}

func cLuiImm(half uint16) int32 {
	bit17 := (half >> 12) & 0x1
	bits16_12 := (half >> 2) & 0x1F
	v := (uint32(bit17) << 17) | (uint32(bits16_12) << 12)
	return sext(v, 18)
}

func cJImm(half uint16) int32 {
	bit11 := (half >> 12) & 0x1
	bit4 := (half >> 11) & 0x1
	bits9_8 := (half >> 9) & 0x3
	bit10 := (half >> 8) & 0x1
	bit6 := (half >> 7) & 0x1
	bit7 := (half >> 6) & 0x1
	bits3_1 := (half >> 3) & 0x7
	bit5 := (half >> 2) & 0x1
	v := (uint32(bit11) << 11) | (uint32(bit4) << 4) | (uint32(bits9_8) << 8) | (uint32(bit10) << 10) |
		(uint32(bit6) << 6) | (uint32(bit7) << 7) | (uint32(bits3_1) << 1) | (uint32(bit5) << 5)
	return sext(v, 12)
}

func cBImm(half uint16) int32 {
	bit8 := (half >> 12) & 0x1
	bits4_3 := (half >> 10) & 0x3
	bits7_6 := (half >> 5) & 0x3
	bits2_1 := (half >> 3) & 0x3
	bit5 := (half >> 2) & 0x1
	v := (uint32(bit8) << 8) | (uint32(bits4_3) << 3) | (uint32(bits7_6) << 6) | (uint32(bits2_1) << 1) | (uint32(bit5) << 5)
	return sext(v, 9)
}

func decodeCQ1Arith(half uint16) Instruction {
	rdp := cRdPrime(half)
	funct2Hi := (half >> 10) & 0x3

	switch funct2Hi {
	case 0b00: // C.SRLI
		shamt := cShamt6(half)
		if shamt == 0 {
			return Instruction{Op: OpHint}
		}
		return Instruction{Op: OpCSrli, Rd: rdp, Rs1: rdp, Imm: int32(shamt)}

	case 0b01: // C.SRAI
		shamt := cShamt6(half)
		if shamt == 0 {
			return Instruction{Op: OpHint}
		}
		return Instruction{Op: OpCSrai, Rd: rdp, Rs1: rdp, Imm: int32(shamt)}

	case 0b10: // C.ANDI
		return Instruction{Op: OpCAndi, Rd: rdp, Rs1: rdp, Imm: cNzimm6(half)}

	case 0b11:
		rs2p := cRs2Prime(half)
		bit12 := (half >> 12) & 0x1
		funct2Lo := (half >> 5) & 0x3
		switch {
		case bit12 == 0 && funct2Lo == 0b00:
			return Instruction{Op: OpCSub, Rd: rdp, Rs1: rdp, Rs2: rs2p}
		case bit12 == 0 && funct2Lo == 0b01:
			return Instruction{Op: OpCXor, Rd: rdp, Rs1: rdp, Rs2: rs2p}
		case bit12 == 0 && funct2Lo == 0b10:
			return Instruction{Op: OpCOr, Rd: rdp, Rs1: rdp, Rs2: rs2p}
		case bit12 == 0 && funct2Lo == 0b11:
			return Instruction{Op: OpCAnd, Rd: rdp, Rs1: rdp, Rs2: rs2p}
		case bit12 == 1 && funct2Lo == 0b00:
			return Instruction{Op: OpCSubw, Rd: rdp, Rs1: rdp, Rs2: rs2p}
		case bit12 == 1 && funct2Lo == 0b01:
			return Instruction{Op: OpCAddw, Rd: rdp, Rs1: rdp, Rs2: rs2p}
		}
	}

	return Instruction{Op: OpUndefinedCompressed}
}

func cLwspImm(half uint16) int32 {
	bit5 := (half >> 12) & 0x1
	bits4_2 := (half >> 4) & 0x7
	bits7_6 := (half >> 2) & 0x3
	v := (uint32(bit5) << 5) | (uint32(bits4_2) << 2) | (uint32(bits7_6) << 6)
	return int32(v)
}

func cLdspImm(half uint16) int32 {
	bit5 := (half >> 12) & 0x1
	bits4_3 := (half >> 5) & 0x3
	bits8_6 := (half >> 2) & 0x7
	v := (uint32(bit5) << 5) | (uint32(bits4_3) << 3) | (uint32(bits8_6) << 6)
	return int32(v)
}

func cSwspImm(half uint16) int32 {
	bits5_2 := (half >> 9) & 0xF
	bits7_6 := (half >> 7) & 0x3
	v := (uint32(bits5_2) << 2) | (uint32(bits7_6) << 6)
	return int32(v)
}

func cSdspImm(half uint16) int32 {
	bits5_3 := (half >> 10) & 0x7
	bits8_6 := (half >> 7) & 0x7
	v := (uint32(bits5_3) << 3) | (uint32(bits8_6) << 6)
	return int32(v)
}

func decodeCQ2(half uint16) Instruction {
	rd := cFull5(half)

	switch cFunct3(half) {
	case 0b000: // C.SLLI
		shamt := cShamt6(half)
		if shamt == 0 || rd == X0 {
			return Instruction{Op: OpHint}
		}
		return Instruction{Op: OpCSlli, Rd: rd, Rs1: rd, Imm: int32(shamt)}

	case 0b010: // C.LWSP
		if rd == X0 {
			return Instruction{Op: OpUndefinedCompressed}
		}
		return Instruction{Op: OpCLwsp, Rd: rd, Rs1: SP, Imm: cLwspImm(half)}

	case 0b011: // C.LDSP
		if rd == X0 {
			return Instruction{Op: OpUndefinedCompressed}
		}
		return Instruction{Op: OpCLdsp, Rd: rd, Rs1: SP, Imm: cLdspImm(half)}

	case 0b100:
		return decodeCQ2Jump(half, rd)

	case 0b110: // C.SWSP
		return Instruction{Op: OpCSwsp, Rs1: SP, Rs2: cFull5b(half), Imm: cSwspImm(half)}

	case 0b111: // C.SDSP
		return Instruction{Op: OpCSdsp, Rs1: SP, Rs2: cFull5b(half), Imm: cSdspImm(half)}
	}

	return Instruction{Op: OpUndefinedCompressed}
}

func decodeCQ2Jump(half uint16, rd Register) Instruction {
	rs2 := cFull5b(half)
	bit12 := (half >> 12) & 0x1

	if bit12 == 0 {
		if rs2 == X0 {
			if rd == X0 {
				return Instruction{Op: OpUndefinedCompressed}
			}
			return Instruction{Op: OpCJr, Rs1: rd}
		}
		if rd == X0 {
			return Instruction{Op: OpHint}
		}
		return Instruction{Op: OpCMv, Rd: rd, Rs2: rs2}
	}

	if rs2 == X0 {
		if rd == X0 {
			return Instruction{Op: OpCEbreak}
		}
		return Instruction{Op: OpCJalr, Rd: RA, Rs1: rd}
	}

	if rd == X0 {
		return Instruction{Op: OpHint}
	}
	return Instruction{Op: OpCAdd, Rd: rd, Rs1: rd, Rs2: rs2}
}
