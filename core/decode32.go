package core

// baseFormat is the recognized instruction format for a 7-bit opcode, or
// formatNone when the opcode has no base format at all.
type baseFormat int

const (
	formatNone baseFormat = iota
	formatR
	formatI
	formatS
	formatB
	formatU
	formatJ
)

func (f baseFormat) String() string {
	switch f {
	case formatR:
		return "R"
	case formatI:
		return "I"
	case formatS:
		return "S"
	case formatB:
		return "B"
	case formatU:
		return "U"
	case formatJ:
		return "J"
	default:
		return ""
	}
}

// opcodeFormatTable maps the 7-bit primary opcode to its base format,
// extended with the AMO opcode (0b0101111, dispatched as R-type).
var opcodeFormatTable = buildOpcodeFormatTable()

func buildOpcodeFormatTable() [128]baseFormat {
	var t [128]baseFormat
	t[0b0000011] = formatI // LOAD
	t[0b0001111] = formatI // MISC-MEM (FENCE, FENCE.I)
	t[0b0010011] = formatI // OP-IMM
	t[0b0010111] = formatU // AUIPC
	t[0b0011011] = formatI // OP-IMM-32
	t[0b0100011] = formatS // STORE
	t[0b0101111] = formatR // AMO
	t[0b0110011] = formatR // OP
	t[0b0110111] = formatU // LUI
	t[0b0111011] = formatR // OP-32
	t[0b1100011] = formatB // BRANCH
	t[0b1100111] = formatI // JALR
	t[0b1101111] = formatJ // JAL
	t[0b1110011] = formatI // SYSTEM
	return t
}

// Decode32 is the pure decode function for a 32-bit code word. It never
// panics: unrecognized encodings resolve to OpUndefined (spec.md §8
// invariant 3).
func Decode32(word uint32) Instruction {
	op := opcode(word)
	format := opcodeFormatTable[op]

	var inst Instruction
	switch format {
	case formatR:
		inst = decodeR(word, op)
	case formatI:
		inst = decodeI(word, op)
	case formatS:
		inst = decodeS(word, op)
	case formatB:
		inst = decodeB(word, op)
	case formatU:
		inst = decodeU(word, op)
	case formatJ:
		inst = decodeJ(word, op)
	default:
		inst = Instruction{Op: OpUndefined, Raw: word}
	}
	inst.Raw = word
	inst.Length = 4
	return inst
}

func decodeR(word, op uint32) Instruction {
	rdReg, rs1Reg, rs2Reg := rd(word), rs1(word), rs2(word)
	f3, f7 := funct3(word), funct7(word)

	switch op {
	case 0b0110011: // OP
		switch {
		case f7 == 0b0000000 && f3 == 0b000:
			return Instruction{Op: OpAdd, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0100000 && f3 == 0b000:
			return Instruction{Op: OpSub, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b001:
			return Instruction{Op: OpSll, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b010:
			return Instruction{Op: OpSlt, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b011:
			return Instruction{Op: OpSltu, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b100:
			return Instruction{Op: OpXor, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b101:
			return Instruction{Op: OpSrl, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0100000 && f3 == 0b101:
			return Instruction{Op: OpSra, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b110:
			return Instruction{Op: OpOr, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b111:
			return Instruction{Op: OpAnd, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b000:
			return Instruction{Op: OpMul, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b001:
			return Instruction{Op: OpMulh, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b010:
			return Instruction{Op: OpMulhsu, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b011:
			return Instruction{Op: OpMulhu, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b100:
			return Instruction{Op: OpDiv, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b101:
			return Instruction{Op: OpDivu, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b110:
			return Instruction{Op: OpRem, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b111:
			return Instruction{Op: OpRemu, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		}

	case 0b0111011: // OP-32
		switch {
		case f7 == 0b0000000 && f3 == 0b000:
			return Instruction{Op: OpAddw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0100000 && f3 == 0b000:
			return Instruction{Op: OpSubw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b001:
			return Instruction{Op: OpSllw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000000 && f3 == 0b101:
			return Instruction{Op: OpSrlw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0100000 && f3 == 0b101:
			return Instruction{Op: OpSraw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b000:
			return Instruction{Op: OpMulw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b100:
			return Instruction{Op: OpDivw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b101:
			return Instruction{Op: OpDivuw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b110:
			return Instruction{Op: OpRemw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		case f7 == 0b0000001 && f3 == 0b111:
			return Instruction{Op: OpRemuw, Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg}
		}

	case 0b0101111: // AMO, funct5 in bits 31:27, aq/rl in bits 26/25
		funct5 := (word >> 27) & Mask5Bit
		aq := (word>>26)&0x1 != 0
		rl := (word>>25)&0x1 != 0
		if f3 != 0b010 {
			break // only word-sized AMOs are in scope
		}
		inst := Instruction{Rd: rdReg, Rs1: rs1Reg, Rs2: rs2Reg, AQ: aq, RL: rl}
		switch funct5 {
		case 0b00001:
			inst.Op = OpAmoswapW
		case 0b00000:
			inst.Op = OpAmoaddW
		case 0b00100:
			inst.Op = OpAmoxorW
		case 0b01100:
			inst.Op = OpAmoandW
		case 0b01000:
			inst.Op = OpAmoorW
		case 0b10000:
			inst.Op = OpAmominW
		case 0b10100:
			inst.Op = OpAmomaxW
		case 0b11000:
			inst.Op = OpAmominuW
		case 0b11100:
			inst.Op = OpAmomaxuW
		default:
			return Instruction{Op: OpUndefined}
		}
		return inst
	}

	return Instruction{Op: OpUndefined}
}

func decodeI(word, op uint32) Instruction {
	rdReg, rs1Reg := rd(word), rs1(word)
	f3 := funct3(word)
	imm := iImm(word)

	switch op {
	case 0b1100111: // JALR
		if f3 == 0b000 {
			return Instruction{Op: OpJalr, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		}

	case 0b0000011: // LOAD
		switch f3 {
		case 0b000:
			return Instruction{Op: OpLb, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b001:
			return Instruction{Op: OpLh, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b010:
			return Instruction{Op: OpLw, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b100:
			return Instruction{Op: OpLbu, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b101:
			return Instruction{Op: OpLhu, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b110:
			return Instruction{Op: OpLwu, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b011:
			return Instruction{Op: OpLd, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		}

	case 0b0010011: // OP-IMM
		switch f3 {
		case 0b000:
			return Instruction{Op: OpAddi, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b010:
			return Instruction{Op: OpSlti, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b011:
			return Instruction{Op: OpSltiu, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b100:
			return Instruction{Op: OpXori, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b110:
			return Instruction{Op: OpOri, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b111:
			return Instruction{Op: OpAndi, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b001:
			shamt := imm & 0b111111
			return Instruction{Op: OpSlli, Rd: rdReg, Rs1: rs1Reg, Imm: shamt}
		case 0b101:
			shamt := imm & 0b111111
			mode := (imm >> 6) & 0b111111
			switch mode {
			case 0b000000:
				return Instruction{Op: OpSrli, Rd: rdReg, Rs1: rs1Reg, Imm: shamt}
			case 0b010000:
				return Instruction{Op: OpSrai, Rd: rdReg, Rs1: rs1Reg, Imm: shamt}
			}
		}

	case 0b0011011: // OP-IMM-32
		switch f3 {
		case 0b000:
			return Instruction{Op: OpAddiw, Rd: rdReg, Rs1: rs1Reg, Imm: imm}
		case 0b001:
			// *W shifts take a 5-bit shamt; bit 25 (imm bit 5) set is illegal.
			if imm&0b100000 != 0 {
				break
			}
			shamt := imm & 0b11111
			return Instruction{Op: OpSlliw, Rd: rdReg, Rs1: rs1Reg, Imm: shamt}
		case 0b101:
			if imm&0b100000 != 0 {
				break
			}
			shamt := imm & 0b11111
			mode := (imm >> 5) & 0b1111111
			switch mode {
			case 0b0000000:
				return Instruction{Op: OpSrliw, Rd: rdReg, Rs1: rs1Reg, Imm: shamt}
			case 0b0100000:
				return Instruction{Op: OpSraiw, Rd: rdReg, Rs1: rs1Reg, Imm: shamt}
			}
		}

	case 0b0001111: // MISC-MEM
		switch f3 {
		case 0b000:
			return Instruction{Op: OpFence}
		case 0b001:
			return Instruction{Op: OpFenceI}
		}

	case 0b1110011: // SYSTEM
		csr := uint16(imm) & 0xFFF
		uimm := uint8((word >> 15) & Mask5Bit)
		switch f3 {
		case 0b000:
			switch imm & 0xFFF {
			case 0:
				return Instruction{Op: OpEcall}
			case 1:
				return Instruction{Op: OpEbreak}
			}
		case 0b001:
			return Instruction{Op: OpCsrrw, Rd: rdReg, Rs1: rs1Reg, Csr: csr}
		case 0b010:
			return Instruction{Op: OpCsrrs, Rd: rdReg, Rs1: rs1Reg, Csr: csr}
		case 0b011:
			return Instruction{Op: OpCsrrc, Rd: rdReg, Rs1: rs1Reg, Csr: csr}
		case 0b101:
			return Instruction{Op: OpCsrrwi, Rd: rdReg, Uimm: uimm, Csr: csr}
		case 0b110:
			return Instruction{Op: OpCsrrsi, Rd: rdReg, Uimm: uimm, Csr: csr}
		case 0b111:
			return Instruction{Op: OpCsrrci, Rd: rdReg, Uimm: uimm, Csr: csr}
		}
	}

	return Instruction{Op: OpUndefined}
}

func decodeS(word, op uint32) Instruction {
	rs1Reg, rs2Reg := rs1(word), rs2(word)
	imm := sImm(word)

	if op == 0b0100011 {
		switch funct3(word) {
		case 0b000:
			return Instruction{Op: OpSb, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		case 0b001:
			return Instruction{Op: OpSh, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		case 0b010:
			return Instruction{Op: OpSw, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		case 0b011:
			return Instruction{Op: OpSd, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		}
	}

	return Instruction{Op: OpUndefined}
}

func decodeB(word, op uint32) Instruction {
	rs1Reg, rs2Reg := rs1(word), rs2(word)
	imm := bImm(word)

	if op == 0b1100011 {
		switch funct3(word) {
		case 0b000:
			return Instruction{Op: OpBeq, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		case 0b001:
			return Instruction{Op: OpBne, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		case 0b100:
			return Instruction{Op: OpBlt, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		case 0b101:
			return Instruction{Op: OpBge, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		case 0b110:
			return Instruction{Op: OpBltu, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		case 0b111:
			return Instruction{Op: OpBgeu, Rs1: rs1Reg, Rs2: rs2Reg, Imm: imm}
		}
	}

	return Instruction{Op: OpUndefined}
}

func decodeU(word, op uint32) Instruction {
	rdReg := rd(word)
	imm := uImm(word)

	switch op {
	case 0b0110111:
		return Instruction{Op: OpLui, Rd: rdReg, Imm: imm}
	case 0b0010111:
		return Instruction{Op: OpAuipc, Rd: rdReg, Imm: imm}
	}

	return Instruction{Op: OpUndefined}
}

func decodeJ(word, op uint32) Instruction {
	rdReg := rd(word)
	imm := jImm(word)

	if op == 0b1101111 {
		return Instruction{Op: OpJal, Rd: rdReg, Imm: imm}
	}

	return Instruction{Op: OpUndefined}
}
