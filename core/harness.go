package core

import "fmt"

// RunResult summarizes how a Run call ended.
type RunResult struct {
	Status ExitStatus
	Steps  uint64
}

// LoadBytes copies a flat program image into memory at offset, the shape a
// bare-metal loader hands to a freshly reset core.
func (c *Core) LoadBytes(offset uint64, image []byte) error {
	return c.Mem.LoadBytes(offset, image)
}

// Reg reads a general-purpose register or PC.
func (c *Core) Reg(r Register) uint64 {
	return c.Regs.Reg(r)
}

// SetReg writes a general-purpose register or PC.
func (c *Core) SetReg(r Register, v uint64) {
	c.Regs.SetReg(r, v)
}

// ReadCSR reads a CSR through the attached CSRFile, including any attached hook.
func (c *Core) ReadCSR(addr uint16) (uint64, error) {
	v, err := c.CSR.Read(addr)
	if err != nil {
		return 0, c.csrFault(err)
	}
	return v, nil
}

// WriteCSR writes a CSR through the attached CSRFile, including any attached hook.
func (c *Core) WriteCSR(addr uint16, value uint64) error {
	if err := c.CSR.Write(addr, value); err != nil {
		return c.csrFault(err)
	}
	return nil
}

// SetCSRHooks attaches read/write observers to the CSR file. Either may be nil.
func (c *Core) SetCSRHooks(read CSRReadHook, write CSRWriteHook) {
	c.CSR.ReadHook = read
	c.CSR.WriteHook = write
}

// Run steps the core until it hits a stopping condition: an ecall, an
// ebreak, the PC reaching sentinel (the calling-convention-style return
// address a caller plants in ra; 0 disables this check), a fault, or
// maxSteps instructions (0 means unbounded). This is the harness's
// batteries-included driver for the tests and for the cmd front end's
// non-interactive mode.
func (c *Core) Run(maxSteps, sentinel uint64) (RunResult, error) {
	var steps uint64
	for maxSteps == 0 || steps < maxSteps {
		status, err := c.Step()
		steps++
		if err != nil {
			return RunResult{Status: status, Steps: steps}, err
		}
		if status != StatusRunning {
			return RunResult{Status: status, Steps: steps}, nil
		}
		if sentinel != 0 && c.Regs.Reg(PC) == sentinel {
			return RunResult{Status: StatusSentinel, Steps: steps}, nil
		}
	}
	return RunResult{Status: StatusRunning, Steps: steps}, fmt.Errorf("exceeded max steps (%d) without a sentinel return", maxSteps)
}

// DumpState renders a compact register/PC snapshot for diagnostics.
func (c *Core) DumpState() string {
	out := fmt.Sprintf("pc=0x%016x cycles=%d\n", c.Regs.Reg(PC), c.Cycles)
	for i := 0; i < 32; i += 4 {
		out += fmt.Sprintf("%-4s=0x%016x %-4s=0x%016x %-4s=0x%016x %-4s=0x%016x\n",
			regName(Register(i)), c.Regs.Reg(Register(i)),
			regName(Register(i+1)), c.Regs.Reg(Register(i+1)),
			regName(Register(i+2)), c.Regs.Reg(Register(i+2)),
			regName(Register(i+3)), c.Regs.Reg(Register(i+3)))
	}
	return out
}
