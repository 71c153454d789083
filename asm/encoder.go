// Package asm assembles decoded RV64GC instructions back into code words,
// bit-packing fields into an opcode. It takes a core.Instruction directly
// rather than parsing mnemonic text, since this repo has no assembly-source
// front end of its own; its job is to support the decoder round-trip tests
// and any future caller that builds instructions programmatically.
package asm

import (
	"fmt"

	"github.com/lookbusy1344/riscv64-emulator/core"
)

// EncodingError reports a field that can't be represented in the target
// encoding (an immediate out of range, an operand that doesn't apply).
type EncodingError struct {
	Op      core.Op
	Message string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %v: %s", e.Op, e.Message)
}

// Encode32 assembles a 32-bit instruction's code word from its decoded form.
func Encode32(inst core.Instruction) (uint32, error) {
	enc, ok := encoders32[inst.Op]
	if !ok {
		return 0, &EncodingError{Op: inst.Op, Message: "not a 32-bit base opcode"}
	}
	return enc(inst)
}

type encodeFunc func(core.Instruction) (uint32, error)

var encoders32 map[core.Op]encodeFunc

func init() {
	encoders32 = map[core.Op]encodeFunc{}
	registerRType()
	registerIType()
	registerSType()
	registerBType()
	registerUType()
	registerJType()
	registerAMO()
	registerSystem()
}

func rWord(opcode, f3, f7 uint32, rd, rs1, rs2 core.Register) uint32 {
	return (f7 << 25) | (uint32(rs2) << 20) | (uint32(rs1) << 15) | (f3 << 12) | (uint32(rd) << 7) | opcode
}

func iWord(opcode, f3 uint32, rd, rs1 core.Register, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | (uint32(rs1) << 15) | (f3 << 12) | (uint32(rd) << 7) | opcode
}

func sWord(opcode, f3 uint32, rs1, rs2 core.Register, imm int32) uint32 {
	u := uint32(imm)
	hi := (u >> 5) & 0x7F
	lo := u & 0x1F
	return (hi << 25) | (uint32(rs2) << 20) | (uint32(rs1) << 15) | (f3 << 12) | (lo << 7) | opcode
}

func bWord(opcode, f3 uint32, rs1, rs2 core.Register, imm int32) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 0x1
	bit11 := (u >> 11) & 0x1
	bits10_5 := (u >> 5) & 0x3F
	bits4_1 := (u >> 1) & 0xF
	return (bit12 << 31) | (bits10_5 << 25) | (uint32(rs2) << 20) | (uint32(rs1) << 15) |
		(f3 << 12) | (bits4_1 << 8) | (bit11 << 7) | opcode
}

func uWord(opcode uint32, rd core.Register, imm int32) uint32 {
	return (uint32(imm) & 0xFFFFF000) | (uint32(rd) << 7) | opcode
}

func jWord(opcode uint32, rd core.Register, imm int32) uint32 {
	u := uint32(imm)
	bit20 := (u >> 20) & 0x1
	bits19_12 := (u >> 12) & 0xFF
	bit11 := (u >> 11) & 0x1
	bits10_1 := (u >> 1) & 0x3FF
	return (bit20 << 31) | (bits10_1 << 21) | (bit11 << 20) | (bits19_12 << 12) | (uint32(rd) << 7) | opcode
}

func registerRType() {
	type def struct {
		op     core.Op
		opcode uint32
		f3, f7 uint32
	}
	defs := []def{
		{core.OpAdd, 0b0110011, 0b000, 0b0000000},
		{core.OpSub, 0b0110011, 0b000, 0b0100000},
		{core.OpSll, 0b0110011, 0b001, 0b0000000},
		{core.OpSlt, 0b0110011, 0b010, 0b0000000},
		{core.OpSltu, 0b0110011, 0b011, 0b0000000},
		{core.OpXor, 0b0110011, 0b100, 0b0000000},
		{core.OpSrl, 0b0110011, 0b101, 0b0000000},
		{core.OpSra, 0b0110011, 0b101, 0b0100000},
		{core.OpOr, 0b0110011, 0b110, 0b0000000},
		{core.OpAnd, 0b0110011, 0b111, 0b0000000},
		{core.OpMul, 0b0110011, 0b000, 0b0000001},
		{core.OpMulh, 0b0110011, 0b001, 0b0000001},
		{core.OpMulhsu, 0b0110011, 0b010, 0b0000001},
		{core.OpMulhu, 0b0110011, 0b011, 0b0000001},
		{core.OpDiv, 0b0110011, 0b100, 0b0000001},
		{core.OpDivu, 0b0110011, 0b101, 0b0000001},
		{core.OpRem, 0b0110011, 0b110, 0b0000001},
		{core.OpRemu, 0b0110011, 0b111, 0b0000001},
		{core.OpAddw, 0b0111011, 0b000, 0b0000000},
		{core.OpSubw, 0b0111011, 0b000, 0b0100000},
		{core.OpSllw, 0b0111011, 0b001, 0b0000000},
		{core.OpSrlw, 0b0111011, 0b101, 0b0000000},
		{core.OpSraw, 0b0111011, 0b101, 0b0100000},
		{core.OpMulw, 0b0111011, 0b000, 0b0000001},
		{core.OpDivw, 0b0111011, 0b100, 0b0000001},
		{core.OpDivuw, 0b0111011, 0b101, 0b0000001},
		{core.OpRemw, 0b0111011, 0b110, 0b0000001},
		{core.OpRemuw, 0b0111011, 0b111, 0b0000001},
	}
	for _, d := range defs {
		d := d
		encoders32[d.op] = func(inst core.Instruction) (uint32, error) {
			return rWord(d.opcode, d.f3, d.f7, inst.Rd, inst.Rs1, inst.Rs2), nil
		}
	}
}

func registerIType() {
	type def struct {
		op         core.Op
		opcode, f3 uint32
	}
	defs := []def{
		{core.OpJalr, 0b1100111, 0b000},
		{core.OpLb, 0b0000011, 0b000},
		{core.OpLh, 0b0000011, 0b001},
		{core.OpLw, 0b0000011, 0b010},
		{core.OpLd, 0b0000011, 0b011},
		{core.OpLbu, 0b0000011, 0b100},
		{core.OpLhu, 0b0000011, 0b101},
		{core.OpLwu, 0b0000011, 0b110},
		{core.OpAddi, 0b0010011, 0b000},
		{core.OpSlti, 0b0010011, 0b010},
		{core.OpSltiu, 0b0010011, 0b011},
		{core.OpXori, 0b0010011, 0b100},
		{core.OpOri, 0b0010011, 0b110},
		{core.OpAndi, 0b0010011, 0b111},
		{core.OpAddiw, 0b0011011, 0b000},
	}
	for _, d := range defs {
		d := d
		encoders32[d.op] = func(inst core.Instruction) (uint32, error) {
			return iWord(d.opcode, d.f3, inst.Rd, inst.Rs1, inst.Imm), nil
		}
	}

	encoders32[core.OpSlli] = func(inst core.Instruction) (uint32, error) {
		return iWord(0b0010011, 0b001, inst.Rd, inst.Rs1, inst.Imm&0x3F), nil
	}
	encoders32[core.OpSrli] = func(inst core.Instruction) (uint32, error) {
		return iWord(0b0010011, 0b101, inst.Rd, inst.Rs1, inst.Imm&0x3F), nil
	}
	encoders32[core.OpSrai] = func(inst core.Instruction) (uint32, error) {
		return iWord(0b0010011, 0b101, inst.Rd, inst.Rs1, (inst.Imm&0x3F)|(0b010000<<6)), nil
	}
	encoders32[core.OpSlliw] = func(inst core.Instruction) (uint32, error) {
		return iWord(0b0011011, 0b001, inst.Rd, inst.Rs1, inst.Imm&0x1F), nil
	}
	encoders32[core.OpSrliw] = func(inst core.Instruction) (uint32, error) {
		return iWord(0b0011011, 0b101, inst.Rd, inst.Rs1, inst.Imm&0x1F), nil
	}
	encoders32[core.OpSraiw] = func(inst core.Instruction) (uint32, error) {
		return iWord(0b0011011, 0b101, inst.Rd, inst.Rs1, (inst.Imm&0x1F)|(0b0100000<<5)), nil
	}
	encoders32[core.OpFence] = func(core.Instruction) (uint32, error) {
		return iWord(0b0001111, 0b000, 0, 0, 0), nil
	}
	encoders32[core.OpFenceI] = func(core.Instruction) (uint32, error) {
		return iWord(0b0001111, 0b001, 0, 0, 0), nil
	}
}

func registerSType() {
	type def struct {
		op         core.Op
		opcode, f3 uint32
	}
	defs := []def{
		{core.OpSb, 0b0100011, 0b000},
		{core.OpSh, 0b0100011, 0b001},
		{core.OpSw, 0b0100011, 0b010},
		{core.OpSd, 0b0100011, 0b011},
	}
	for _, d := range defs {
		d := d
		encoders32[d.op] = func(inst core.Instruction) (uint32, error) {
			return sWord(d.opcode, d.f3, inst.Rs1, inst.Rs2, inst.Imm), nil
		}
	}
}

func registerBType() {
	type def struct {
		op         core.Op
		opcode, f3 uint32
	}
	defs := []def{
		{core.OpBeq, 0b1100011, 0b000},
		{core.OpBne, 0b1100011, 0b001},
		{core.OpBlt, 0b1100011, 0b100},
		{core.OpBge, 0b1100011, 0b101},
		{core.OpBltu, 0b1100011, 0b110},
		{core.OpBgeu, 0b1100011, 0b111},
	}
	for _, d := range defs {
		d := d
		encoders32[d.op] = func(inst core.Instruction) (uint32, error) {
			return bWord(d.opcode, d.f3, inst.Rs1, inst.Rs2, inst.Imm), nil
		}
	}
}

func registerUType() {
	encoders32[core.OpLui] = func(inst core.Instruction) (uint32, error) {
		return uWord(0b0110111, inst.Rd, inst.Imm), nil
	}
	encoders32[core.OpAuipc] = func(inst core.Instruction) (uint32, error) {
		return uWord(0b0010111, inst.Rd, inst.Imm), nil
	}
}

func registerJType() {
	encoders32[core.OpJal] = func(inst core.Instruction) (uint32, error) {
		return jWord(0b1101111, inst.Rd, inst.Imm), nil
	}
}

func registerAMO() {
	type def struct {
		op     core.Op
		funct5 uint32
	}
	defs := []def{
		{core.OpAmoswapW, 0b00001},
		{core.OpAmoaddW, 0b00000},
		{core.OpAmoxorW, 0b00100},
		{core.OpAmoandW, 0b01100},
		{core.OpAmoorW, 0b01000},
		{core.OpAmominW, 0b10000},
		{core.OpAmomaxW, 0b10100},
		{core.OpAmominuW, 0b11000},
		{core.OpAmomaxuW, 0b11100},
	}
	for _, d := range defs {
		d := d
		encoders32[d.op] = func(inst core.Instruction) (uint32, error) {
			aq, rl := uint32(0), uint32(0)
			if inst.AQ {
				aq = 1
			}
			if inst.RL {
				rl = 1
			}
			word := (d.funct5 << 27) | (aq << 26) | (rl << 25) | (uint32(inst.Rs2) << 20) |
				(uint32(inst.Rs1) << 15) | (0b010 << 12) | (uint32(inst.Rd) << 7) | 0b0101111
			return word, nil
		}
	}
}

func registerSystem() {
	encoders32[core.OpEcall] = func(core.Instruction) (uint32, error) {
		return iWord(0b1110011, 0, 0, 0, 0), nil
	}
	encoders32[core.OpEbreak] = func(core.Instruction) (uint32, error) {
		return iWord(0b1110011, 0, 0, 0, 1), nil
	}

	type def struct {
		op         core.Op
		f3         uint32
		hasUimm    bool
	}
	defs := []def{
		{core.OpCsrrw, 0b001, false},
		{core.OpCsrrs, 0b010, false},
		{core.OpCsrrc, 0b011, false},
		{core.OpCsrrwi, 0b101, true},
		{core.OpCsrrsi, 0b110, true},
		{core.OpCsrrci, 0b111, true},
	}
	for _, d := range defs {
		d := d
		encoders32[d.op] = func(inst core.Instruction) (uint32, error) {
			rs1 := inst.Rs1
			if d.hasUimm {
				rs1 = core.Register(inst.Uimm)
			}
			return iWord(0b1110011, d.f3, inst.Rd, rs1, int32(inst.Csr)), nil
		}
	}
}
