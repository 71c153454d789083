package core

import "fmt"

var regNames = [...]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func regName(r Register) string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return "pc"
}

var mnemonics = map[Op]string{
	OpLui: "lui", OpAuipc: "auipc", OpJal: "jal", OpJalr: "jalr",
	OpBeq: "beq", OpBne: "bne", OpBlt: "blt", OpBge: "bge", OpBltu: "bltu", OpBgeu: "bgeu",
	OpLb: "lb", OpLh: "lh", OpLw: "lw", OpLbu: "lbu", OpLhu: "lhu", OpLwu: "lwu", OpLd: "ld",
	OpSb: "sb", OpSh: "sh", OpSw: "sw", OpSd: "sd",
	OpAddi: "addi", OpSlti: "slti", OpSltiu: "sltiu", OpXori: "xori", OpOri: "ori", OpAndi: "andi",
	OpSlli: "slli", OpSrli: "srli", OpSrai: "srai",
	OpAddiw: "addiw", OpSlliw: "slliw", OpSrliw: "srliw", OpSraiw: "sraiw",
	OpAdd: "add", OpSub: "sub", OpSll: "sll", OpSlt: "slt", OpSltu: "sltu",
	OpXor: "xor", OpSrl: "srl", OpSra: "sra", OpOr: "or", OpAnd: "and",
	OpAddw: "addw", OpSubw: "subw", OpSllw: "sllw", OpSrlw: "srlw", OpSraw: "sraw",
	OpFence: "fence", OpFenceI: "fence.i", OpEcall: "ecall", OpEbreak: "ebreak",
	OpMul: "mul", OpMulh: "mulh", OpMulhsu: "mulhsu", OpMulhu: "mulhu",
	OpDiv: "div", OpDivu: "divu", OpRem: "rem", OpRemu: "remu",
	OpMulw: "mulw", OpDivw: "divw", OpDivuw: "divuw", OpRemw: "remw", OpRemuw: "remuw",
	OpCsrrw: "csrrw", OpCsrrs: "csrrs", OpCsrrc: "csrrc",
	OpCsrrwi: "csrrwi", OpCsrrsi: "csrrsi", OpCsrrci: "csrrci",
	OpAmoswapW: "amoswap.w", OpAmoaddW: "amoadd.w", OpAmoxorW: "amoxor.w",
	OpAmoandW: "amoand.w", OpAmoorW: "amoor.w", OpAmominW: "amomin.w",
	OpAmomaxW: "amomax.w", OpAmominuW: "amominu.w", OpAmomaxuW: "amomaxu.w",
	OpCAddi4spn: "c.addi4spn", OpCLw: "c.lw", OpCLd: "c.ld", OpCSw: "c.sw", OpCSd: "c.sd",
	OpCNop: "c.nop", OpCAddi: "c.addi", OpCAddiw: "c.addiw", OpCLi: "c.li",
	OpCAddi16sp: "c.addi16sp", OpCLui: "c.lui", OpCSrli: "c.srli", OpCSrai: "c.srai",
	OpCAndi: "c.andi", OpCSub: "c.sub", OpCXor: "c.xor", OpCOr: "c.or", OpCAnd: "c.and",
	OpCSubw: "c.subw", OpCAddw: "c.addw", OpCJ: "c.j", OpCBeqz: "c.beqz", OpCBnez: "c.bnez",
	OpCSlli: "c.slli", OpCLwsp: "c.lwsp", OpCLdsp: "c.ldsp", OpCJr: "c.jr", OpCMv: "c.mv",
	OpCJalr: "c.jalr", OpCAdd: "c.add", OpCSwsp: "c.swsp", OpCSdsp: "c.sdsp", OpCEbreak: "c.ebreak",
}

// Disassemble renders a decoded Instruction in objdump-like textual form.
// It is best-effort: the exact operand order matches typical RISC-V
// disassembler conventions (rd, rs1, rs2/imm) rather than modeling every
// pseudo-instruction alias.
func Disassemble(inst Instruction) string {
	name, ok := mnemonics[inst.Op]
	if !ok {
		switch inst.Op {
		case OpUndefined:
			return fmt.Sprintf("<undefined 0x%08x>", inst.Raw)
		case OpUndefinedCompressed:
			return fmt.Sprintf("<undefined.c 0x%04x>", inst.Raw)
		case OpHint:
			return "<hint>"
		default:
			return "<unknown>"
		}
	}

	switch inst.Op {
	case OpLui, OpAuipc, OpCLui:
		return fmt.Sprintf("%s %s, 0x%x", name, regName(inst.Rd), uint32(inst.Imm)>>12)
	case OpJal, OpCJ:
		return fmt.Sprintf("%s %s, %d", name, regName(inst.Rd), inst.Imm)
	case OpJalr, OpCJr, OpCJalr:
		return fmt.Sprintf("%s %s, %s, %d", name, regName(inst.Rd), regName(inst.Rs1), inst.Imm)
	case OpBeq, OpBne, OpBlt, OpBge, OpBltu, OpBgeu:
		return fmt.Sprintf("%s %s, %s, %d", name, regName(inst.Rs1), regName(inst.Rs2), inst.Imm)
	case OpCBeqz, OpCBnez:
		return fmt.Sprintf("%s %s, %d", name, regName(inst.Rs1), inst.Imm)
	case OpLb, OpLh, OpLw, OpLbu, OpLhu, OpLwu, OpLd, OpCLw, OpCLd, OpCLwsp, OpCLdsp:
		return fmt.Sprintf("%s %s, %d(%s)", name, regName(inst.Rd), inst.Imm, regName(inst.Rs1))
	case OpSb, OpSh, OpSw, OpSd, OpCSw, OpCSd, OpCSwsp, OpCSdsp:
		return fmt.Sprintf("%s %s, %d(%s)", name, regName(inst.Rs2), inst.Imm, regName(inst.Rs1))
	case OpFence, OpFenceI, OpEcall, OpEbreak, OpCEbreak, OpCNop:
		return name
	case OpCsrrw, OpCsrrs, OpCsrrc:
		return fmt.Sprintf("%s %s, 0x%03x, %s", name, regName(inst.Rd), inst.Csr, regName(inst.Rs1))
	case OpCsrrwi, OpCsrrsi, OpCsrrci:
		return fmt.Sprintf("%s %s, 0x%03x, %d", name, regName(inst.Rd), inst.Csr, inst.Uimm)
	case OpAmoswapW, OpAmoaddW, OpAmoxorW, OpAmoandW, OpAmoorW,
		OpAmominW, OpAmomaxW, OpAmominuW, OpAmomaxuW:
		return fmt.Sprintf("%s %s, %s, (%s)", name, regName(inst.Rd), regName(inst.Rs2), regName(inst.Rs1))
	case OpCMv, OpCAdd:
		return fmt.Sprintf("%s %s, %s", name, regName(inst.Rd), regName(inst.Rs2))
	case OpAddi, OpSlti, OpSltiu, OpXori, OpOri, OpAndi, OpSlli, OpSrli, OpSrai,
		OpAddiw, OpSlliw, OpSrliw, OpSraiw,
		OpCAddi, OpCAddiw, OpCLi, OpCAddi16sp, OpCAddi4spn, OpCSrli, OpCSrai, OpCAndi, OpCSlli:
		return fmt.Sprintf("%s %s, %s, %d", name, regName(inst.Rd), regName(inst.Rs1), inst.Imm)
	default:
		if inst.Rs2 != 0 || inst.Rs1 != 0 {
			return fmt.Sprintf("%s %s, %s, %s", name, regName(inst.Rd), regName(inst.Rs1), regName(inst.Rs2))
		}
		return fmt.Sprintf("%s %s, %s, %d", name, regName(inst.Rd), regName(inst.Rs1), inst.Imm)
	}
}
