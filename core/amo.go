package core

// A-extension word-sized atomics. This core runs a single hart, so the
// read-modify-write sequence is performed without any cross-hart contention:
// aq/rl are decoded and carried on the Instruction but don't change
// single-hart behavior (spec.md §9 Open Questions).

func (c *Core) execAMO(inst Instruction) error {
	addr := c.Regs.Reg(inst.Rs1)
	raw, err := c.Mem.ReadU32(addr)
	if err != nil {
		return c.memoryFault(err)
	}
	loaded := int64(int32(raw))
	operand := int64(int32(uint32(c.Regs.Reg(inst.Rs2))))

	var result int32
	switch inst.Op {
	case OpAmoswapW:
		result = int32(operand)
	case OpAmoaddW:
		result = int32(loaded) + int32(operand)
	case OpAmoxorW:
		result = int32(loaded) ^ int32(operand)
	case OpAmoandW:
		result = int32(loaded) & int32(operand)
	case OpAmoorW:
		result = int32(loaded) | int32(operand)
	case OpAmominW:
		result = minI32(int32(loaded), int32(operand))
	case OpAmomaxW:
		result = maxI32(int32(loaded), int32(operand))
	case OpAmominuW:
		result = int32(minU32(uint32(loaded), uint32(operand)))
	case OpAmomaxuW:
		result = int32(maxU32(uint32(loaded), uint32(operand)))
	}

	if err := c.Mem.WriteU32(addr, uint32(result)); err != nil {
		return c.memoryFault(err)
	}
	c.Regs.SetReg(inst.Rd, sext64(int32(loaded)))
	return nil
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
