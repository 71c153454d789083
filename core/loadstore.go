package core

// Load/store semantics, base and compressed. Every multi-byte access
// decomposes into the Memory package's byte-composed Read/Write calls;
// there is no alignment enforcement (spec.md §4.1).

func (c *Core) execLoad(inst Instruction) error {
	addr := c.Regs.Reg(inst.Rs1) + sext64(inst.Imm)

	switch inst.Op {
	case OpLb:
		v, err := c.Mem.ReadU8(addr)
		if err != nil {
			return c.memoryFault(err)
		}
		c.Regs.SetReg(inst.Rd, sext64(int32(int8(v))))
	case OpLbu:
		v, err := c.Mem.ReadU8(addr)
		if err != nil {
			return c.memoryFault(err)
		}
		c.Regs.SetReg(inst.Rd, uint64(v))
	case OpLh:
		v, err := c.Mem.ReadU16(addr)
		if err != nil {
			return c.memoryFault(err)
		}
		c.Regs.SetReg(inst.Rd, sext64(int32(int16(v))))
	case OpLhu:
		v, err := c.Mem.ReadU16(addr)
		if err != nil {
			return c.memoryFault(err)
		}
		c.Regs.SetReg(inst.Rd, uint64(v))
	case OpLw, OpCLw, OpCLwsp:
		v, err := c.Mem.ReadU32(addr)
		if err != nil {
			return c.memoryFault(err)
		}
		c.Regs.SetReg(inst.Rd, sext64(int32(v)))
	case OpLwu:
		v, err := c.Mem.ReadU32(addr)
		if err != nil {
			return c.memoryFault(err)
		}
		c.Regs.SetReg(inst.Rd, uint64(v))
	case OpLd, OpCLd, OpCLdsp:
		v, err := c.Mem.ReadU64(addr)
		if err != nil {
			return c.memoryFault(err)
		}
		c.Regs.SetReg(inst.Rd, v)
	}

	return nil
}

func (c *Core) execStore(inst Instruction) error {
	addr := c.Regs.Reg(inst.Rs1) + sext64(inst.Imm)
	val := c.Regs.Reg(inst.Rs2)

	switch inst.Op {
	case OpSb:
		if err := c.Mem.WriteU8(addr, uint8(val)); err != nil {
			return c.memoryFault(err)
		}
	case OpSh:
		if err := c.Mem.WriteU16(addr, uint16(val)); err != nil {
			return c.memoryFault(err)
		}
	case OpSw, OpCSw, OpCSwsp:
		if err := c.Mem.WriteU32(addr, uint32(val)); err != nil {
			return c.memoryFault(err)
		}
	case OpSd, OpCSd, OpCSdsp:
		if err := c.Mem.WriteU64(addr, val); err != nil {
			return c.memoryFault(err)
		}
	}

	return nil
}
