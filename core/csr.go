package core

// Zicsr semantics. CSRRW/CSRRWI always write but suppress the CSR read when
// rd=x0; CSRRS/CSRRC/CSRRSI/CSRRCI always read but suppress the CSR write
// when the source (register or immediate) is zero, per spec.md §4.4. The
// suppression is a genuine skip of the Read/Write call, not a same-value
// write, so a CSRWriteHook never observes a spurious write.

func (c *Core) execCSR(inst Instruction) error {
	switch inst.Op {
	case OpCsrrw:
		return c.csrSwap(inst.Csr, inst.Rd, inst.Rd != X0, c.Regs.Reg(inst.Rs1))
	case OpCsrrwi:
		return c.csrSwap(inst.Csr, inst.Rd, inst.Rd != X0, uint64(inst.Uimm))
	case OpCsrrs:
		return c.csrSetClear(inst.Csr, inst.Rd, inst.Rs1 != X0, c.Regs.Reg(inst.Rs1), true)
	case OpCsrrc:
		return c.csrSetClear(inst.Csr, inst.Rd, inst.Rs1 != X0, c.Regs.Reg(inst.Rs1), false)
	case OpCsrrsi:
		return c.csrSetClear(inst.Csr, inst.Rd, inst.Uimm != 0, uint64(inst.Uimm), true)
	case OpCsrrci:
		return c.csrSetClear(inst.Csr, inst.Rd, inst.Uimm != 0, uint64(inst.Uimm), false)
	}
	return nil
}

// csrSwap implements CSRRW/CSRRWI: always writes value, and reads the prior
// contents into rd only when doRead is set.
func (c *Core) csrSwap(addr uint16, rd Register, doRead bool, value uint64) error {
	if doRead {
		old, err := c.CSR.Read(addr)
		if err != nil {
			return c.csrFault(err)
		}
		if err := c.CSR.Write(addr, value); err != nil {
			return c.csrFault(err)
		}
		c.Regs.SetReg(rd, old)
		return nil
	}
	if err := c.CSR.Write(addr, value); err != nil {
		return c.csrFault(err)
	}
	return nil
}

// csrSetClear implements CSRRS/CSRRC/CSRRSI/CSRRCI: always reads the prior
// contents into rd, and writes the modified value only when doWrite is set.
func (c *Core) csrSetClear(addr uint16, rd Register, doWrite bool, mask uint64, set bool) error {
	old, err := c.CSR.Read(addr)
	if err != nil {
		return c.csrFault(err)
	}
	c.Regs.SetReg(rd, old)

	if !doWrite {
		return nil
	}
	var next uint64
	if set {
		next = old | mask
	} else {
		next = old &^ mask
	}
	if err := c.CSR.Write(addr, next); err != nil {
		return c.csrFault(err)
	}
	return nil
}
