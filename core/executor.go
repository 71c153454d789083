package core

import "fmt"

// ExitStatus reports why Step returned control to the caller.
type ExitStatus int

const (
	// StatusRunning means the instruction completed normally; the caller
	// should call Step again.
	StatusRunning ExitStatus = iota
	StatusEcall
	StatusEbreak
	// StatusSentinel means Run's caller-supplied sentinel PC was reached.
	// Step itself never returns this status; only Run checks for it.
	StatusSentinel
)

func (s ExitStatus) String() string {
	switch s {
	case StatusEcall:
		return "ecall"
	case StatusEbreak:
		return "ebreak"
	case StatusSentinel:
		return "sentinel"
	default:
		return "running"
	}
}

// Core is the RV64GC execution state: the register file, the CSR file, and
// the attached memory. It carries no knowledge of a loader, a debugger, or
// a CLI; those sit in their own packages and operate on Core through its
// exported methods.
type Core struct {
	Regs   RegisterFile
	CSR    CSRFile
	Mem    *Memory
	Cycles uint64
}

// NewCore builds a Core with a fresh memory of the given size. Register x2
// (sp) is left at zero; callers that want a stack set it explicitly.
func NewCore(memSize uint64) *Core {
	return &Core{Mem: NewMemory(memSize)}
}

// Reset zeroes registers, CSRs, and cycle count, and clears memory.
func (c *Core) Reset() {
	c.Regs.Reset()
	c.CSR.Reset()
	c.Mem.Reset()
	c.Cycles = 0
}

func (c *Core) memoryFault(err error) error {
	f := newMemoryFault(c.Regs.Reg(PC), err.Error())
	f.Wrapped = err
	return f
}

func (c *Core) csrFault(err error) error {
	f := newCSRFault(c.Regs.Reg(PC), err.Error())
	f.Wrapped = err
	return f
}

func (c *Core) decodeFault(word uint32, format, message string) error {
	return newDecodeFault(c.Regs.Reg(PC), word, format, message)
}

// Step fetches, decodes, and executes exactly one instruction. It advances
// PC past the fetched instruction BEFORE executing semantics, so that
// link-register captures (JAL/JALR/C.JALR) see the post-advance PC, while
// branch and jump targets are computed from the address the instruction
// was fetched from; a taken branch or jump overwrites the advanced PC.
func (c *Core) Step() (ExitStatus, error) {
	pc := c.Regs.Reg(PC)

	lo, err := c.Mem.ReadU16(pc)
	if err != nil {
		return StatusRunning, c.memoryFault(err)
	}

	var inst Instruction
	if lo&0x3 == 0x3 {
		hi, err := c.Mem.ReadU16(pc + 2)
		if err != nil {
			return StatusRunning, c.memoryFault(err)
		}
		word := uint32(lo) | uint32(hi)<<16
		inst = Decode32(word)
		c.Regs.SetReg(PC, pc+4)
	} else {
		inst = Decode16(lo)
		c.Regs.SetReg(PC, pc+2)
	}

	c.Cycles++

	if inst.Op == OpUndefined {
		format := opcodeFormatTable[inst.Raw&0x7F].String()
		detail := fmt.Sprintf("opcode=0x%02x", opcode(inst.Raw))
		switch format {
		case "R":
			detail += fmt.Sprintf(" funct3=0x%x funct7=0x%02x", funct3(inst.Raw), funct7(inst.Raw))
		case "I", "S", "B":
			detail += fmt.Sprintf(" funct3=0x%x", funct3(inst.Raw))
		}
		return StatusRunning, c.decodeFault(inst.Raw, format, fmt.Sprintf("unrecognized 32-bit encoding at pc=0x%016x (%s)", pc, detail))
	}
	if inst.Op == OpUndefinedCompressed {
		return StatusRunning, c.decodeFault(inst.Raw, "C", fmt.Sprintf("unrecognized compressed encoding at pc=0x%016x", pc))
	}

	return c.execute(inst, pc)
}

// execute runs the semantics of a decoded instruction. pc is the address
// the instruction was fetched from (PC has already been advanced past it).
func (c *Core) execute(inst Instruction, pc uint64) (ExitStatus, error) {
	switch inst.Op {
	case OpHint, OpCNop:
		return StatusRunning, nil

	case OpEcall:
		return StatusEcall, nil
	case OpEbreak, OpCEbreak:
		return StatusEbreak, nil

	case OpFence, OpFenceI:
		return StatusRunning, nil

	case OpLui:
		c.Regs.SetReg(inst.Rd, sext64(inst.Imm))
		return StatusRunning, nil
	case OpCLui:
		c.Regs.SetReg(inst.Rd, sext64(inst.Imm))
		return StatusRunning, nil

	case OpAuipc:
		c.Regs.SetReg(inst.Rd, pc+sext64(inst.Imm))
		return StatusRunning, nil

	case OpJal, OpCJ:
		return StatusRunning, c.execJump(inst, pc)
	case OpJalr, OpCJr, OpCJalr:
		return StatusRunning, c.execJumpReg(inst, pc)

	case OpBeq, OpBne, OpBlt, OpBge, OpBltu, OpBgeu, OpCBeqz, OpCBnez:
		return StatusRunning, c.execBranch(inst, pc)

	case OpLb, OpLh, OpLw, OpLbu, OpLhu, OpLwu, OpLd,
		OpCLw, OpCLd, OpCLwsp, OpCLdsp:
		return StatusRunning, c.execLoad(inst)

	case OpSb, OpSh, OpSw, OpSd, OpCSw, OpCSd, OpCSwsp, OpCSdsp:
		return StatusRunning, c.execStore(inst)

	case OpAddi, OpSlti, OpSltiu, OpXori, OpOri, OpAndi, OpSlli, OpSrli, OpSrai,
		OpAddiw, OpSlliw, OpSrliw, OpSraiw,
		OpAdd, OpSub, OpSll, OpSlt, OpSltu, OpXor, OpSrl, OpSra, OpOr, OpAnd,
		OpAddw, OpSubw, OpSllw, OpSrlw, OpSraw,
		OpCAddi, OpCAddiw, OpCLi, OpCAddi16sp, OpCAddi4spn,
		OpCSrli, OpCSrai, OpCAndi, OpCSub, OpCXor, OpCOr, OpCAnd,
		OpCSubw, OpCAddw, OpCSlli, OpCMv, OpCAdd:
		return StatusRunning, c.execALU(inst)

	case OpMul, OpMulh, OpMulhsu, OpMulhu, OpDiv, OpDivu, OpRem, OpRemu,
		OpMulw, OpDivw, OpDivuw, OpRemw, OpRemuw:
		return StatusRunning, c.execMulDiv(inst)

	case OpCsrrw, OpCsrrs, OpCsrrc, OpCsrrwi, OpCsrrsi, OpCsrrci:
		return StatusRunning, c.execCSR(inst)

	case OpAmoswapW, OpAmoaddW, OpAmoxorW, OpAmoandW, OpAmoorW,
		OpAmominW, OpAmomaxW, OpAmominuW, OpAmomaxuW:
		return StatusRunning, c.execAMO(inst)
	}

	return StatusRunning, c.decodeFault(inst.Raw, "", "instruction recognized but not implemented")
}
