package core

// Control-transfer semantics. PC has already been advanced past the
// fetched instruction by the time these run; pc is the address the
// instruction was fetched from, used to compute PC-relative targets.
// JAL/JALR/CJAL capture the post-advance PC as the return address.

func (c *Core) execJump(inst Instruction, pc uint64) error {
	link := c.Regs.Reg(PC)
	c.Regs.SetReg(inst.Rd, link)
	c.Regs.SetReg(PC, pc+sext64(inst.Imm))
	return nil
}

// execJumpReg implements JALR and its compressed forms (C.JR, C.JALR).
// The target's low bit is NOT masked to zero; this core deliberately
// departs from the official JALR alignment rule (spec.md §9).
func (c *Core) execJumpReg(inst Instruction, pc uint64) error {
	_ = pc
	target := c.Regs.Reg(inst.Rs1) + sext64(inst.Imm)
	link := c.Regs.Reg(PC)
	c.Regs.SetReg(inst.Rd, link)
	c.Regs.SetReg(PC, target)
	return nil
}

func (c *Core) execBranch(inst Instruction, pc uint64) error {
	rs1 := c.Regs.Reg(inst.Rs1)
	rs2 := c.Regs.Reg(inst.Rs2)

	var taken bool
	switch inst.Op {
	case OpBeq:
		taken = rs1 == rs2
	case OpBne:
		taken = rs1 != rs2
	case OpBlt:
		taken = int64(rs1) < int64(rs2)
	case OpBge:
		taken = int64(rs1) >= int64(rs2)
	case OpBltu:
		taken = rs1 < rs2
	case OpBgeu:
		taken = rs1 >= rs2
	case OpCBeqz:
		taken = rs1 == 0
	case OpCBnez:
		taken = rs1 != 0
	}

	if taken {
		c.Regs.SetReg(PC, pc+sext64(inst.Imm))
	}
	return nil
}
