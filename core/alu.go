package core

// Integer-computational semantics: OP-IMM, OP, OP-IMM-32, OP-32, and their
// compressed equivalents. The compressed decoder already places operands
// into the same Rd/Rs1/Rs2/Imm shape as the base instructions, so a single
// switch covers both (spec.md §4.5 "C extension instructions execute as
// their base equivalents").
func (c *Core) execALU(inst Instruction) error {
	rs1 := c.Regs.Reg(inst.Rs1)
	rs2 := c.Regs.Reg(inst.Rs2)
	imm := sext64(inst.Imm)
	shamt := uint(inst.Imm) & 0x3F
	shamt32 := uint(inst.Imm) & 0x1F

	switch inst.Op {
	case OpAddi, OpCAddi, OpCAddi16sp, OpCAddi4spn, OpCLi:
		c.Regs.SetReg(inst.Rd, rs1+imm)
	case OpSlti:
		c.Regs.SetReg(inst.Rd, boolToU64(int64(rs1) < int64(imm)))
	case OpSltiu:
		c.Regs.SetReg(inst.Rd, boolToU64(rs1 < uint64(imm)))
	case OpXori:
		c.Regs.SetReg(inst.Rd, rs1^imm)
	case OpOri:
		c.Regs.SetReg(inst.Rd, rs1|imm)
	case OpAndi, OpCAndi:
		c.Regs.SetReg(inst.Rd, rs1&imm)
	case OpSlli, OpCSlli:
		c.Regs.SetReg(inst.Rd, rs1<<shamt)
	case OpSrli, OpCSrli:
		c.Regs.SetReg(inst.Rd, rs1>>shamt)
	case OpSrai, OpCSrai:
		c.Regs.SetReg(inst.Rd, uint64(int64(rs1)>>shamt))

	case OpAddiw, OpCAddiw:
		c.Regs.SetReg(inst.Rd, sext64(int32(uint32(rs1)+uint32(imm))))
	case OpSlliw:
		c.Regs.SetReg(inst.Rd, sext64(int32(uint32(rs1)<<shamt32)))
	case OpSrliw:
		c.Regs.SetReg(inst.Rd, sext64(int32(uint32(rs1)>>shamt32)))
	case OpSraiw:
		c.Regs.SetReg(inst.Rd, sext64(int32(rs1)>>shamt32))

	case OpAdd, OpCAdd, OpCMv:
		c.Regs.SetReg(inst.Rd, rs1+rs2)
	case OpSub, OpCSub:
		c.Regs.SetReg(inst.Rd, rs1-rs2)
	case OpSll:
		c.Regs.SetReg(inst.Rd, rs1<<(rs2&0x3F))
	case OpSlt:
		c.Regs.SetReg(inst.Rd, boolToU64(int64(rs1) < int64(rs2)))
	case OpSltu:
		c.Regs.SetReg(inst.Rd, boolToU64(rs1 < rs2))
	case OpXor, OpCXor:
		c.Regs.SetReg(inst.Rd, rs1^rs2)
	case OpSrl:
		c.Regs.SetReg(inst.Rd, rs1>>(rs2&0x3F))
	case OpSra:
		c.Regs.SetReg(inst.Rd, uint64(int64(rs1)>>(rs2&0x3F)))
	case OpOr, OpCOr:
		c.Regs.SetReg(inst.Rd, rs1|rs2)
	case OpAnd, OpCAnd:
		c.Regs.SetReg(inst.Rd, rs1&rs2)

	case OpAddw, OpCAddw:
		c.Regs.SetReg(inst.Rd, sext64(int32(uint32(rs1)+uint32(rs2))))
	case OpSubw, OpCSubw:
		c.Regs.SetReg(inst.Rd, sext64(int32(uint32(rs1)-uint32(rs2))))
	case OpSllw:
		c.Regs.SetReg(inst.Rd, sext64(int32(uint32(rs1)<<(rs2&0x1F))))
	case OpSrlw:
		c.Regs.SetReg(inst.Rd, sext64(int32(uint32(rs1)>>(rs2&0x1F))))
	case OpSraw:
		c.Regs.SetReg(inst.Rd, sext64(int32(rs1)>>(rs2&0x1F)))
	}

	return nil
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (c *Core) execMulDiv(inst Instruction) error {
	rs1 := c.Regs.Reg(inst.Rs1)
	rs2 := c.Regs.Reg(inst.Rs2)

	switch inst.Op {
	case OpMul:
		c.Regs.SetReg(inst.Rd, execMul(rs1, rs2))
	case OpMulh:
		c.Regs.SetReg(inst.Rd, execMulh(int64(rs1), int64(rs2)))
	case OpMulhsu:
		c.Regs.SetReg(inst.Rd, execMulhsu(int64(rs1), rs2))
	case OpMulhu:
		c.Regs.SetReg(inst.Rd, execMulhu(rs1, rs2))
	case OpDiv:
		c.Regs.SetReg(inst.Rd, execDiv(int64(rs1), int64(rs2)))
	case OpDivu:
		c.Regs.SetReg(inst.Rd, execDivu(rs1, rs2))
	case OpRem:
		c.Regs.SetReg(inst.Rd, execRem(int64(rs1), int64(rs2)))
	case OpRemu:
		c.Regs.SetReg(inst.Rd, execRemu(rs1, rs2))
	case OpMulw:
		c.Regs.SetReg(inst.Rd, sext64(int32(uint32(rs1)*uint32(rs2))))
	case OpDivw:
		c.Regs.SetReg(inst.Rd, execDivw(int32(rs1), int32(rs2)))
	case OpDivuw:
		c.Regs.SetReg(inst.Rd, execDivuw(uint32(rs1), uint32(rs2)))
	case OpRemw:
		c.Regs.SetReg(inst.Rd, execRemw(int32(rs1), int32(rs2)))
	case OpRemuw:
		c.Regs.SetReg(inst.Rd, execRemuw(uint32(rs1), uint32(rs2)))
	}

	return nil
}
