package instr

import (
	"math/bits"

	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

func init() {
	registry.RegisterInstruction("and", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, logicOp(func(s, b uint32) uint32 { return s & b }))
	registry.RegisterInstruction("andc", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, logicOp(func(s, b uint32) uint32 { return s &^ b }))
	registry.RegisterInstruction("or", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, logicOp(func(s, b uint32) uint32 { return s | b }))
	registry.RegisterInstruction("orc", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, logicOp(func(s, b uint32) uint32 { return s | ^b }))
	registry.RegisterInstruction("xor", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, logicOp(func(s, b uint32) uint32 { return s ^ b }))
	registry.RegisterInstruction("eqv", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, logicOp(func(s, b uint32) uint32 { return ^(s ^ b) }))
	registry.RegisterInstruction("nand", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, logicOp(func(s, b uint32) uint32 { return ^(s & b) }))
	registry.RegisterInstruction("nor", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, logicOp(func(s, b uint32) uint32 { return ^(s | b) }))

	registry.RegisterInstruction("andi", "{ra:gpr},{rs:gpr},{ui:ui}", true, false, immLogicOp(false, func(s, imm uint32) uint32 { return s & imm }))
	registry.RegisterInstruction("andis", "{ra:gpr},{rs:gpr},{ui:ui}", true, false, immLogicOp(true, func(s, imm uint32) uint32 { return s & imm }))
	registry.RegisterInstruction("ori", "{ra:gpr},{rs:gpr},{ui:ui}", true, false, immLogicOp(false, func(s, imm uint32) uint32 { return s | imm }))
	registry.RegisterInstruction("oris", "{ra:gpr},{rs:gpr},{ui:ui}", true, false, immLogicOp(true, func(s, imm uint32) uint32 { return s | imm }))
	registry.RegisterInstruction("xori", "{ra:gpr},{rs:gpr},{ui:ui}", true, false, immLogicOp(false, func(s, imm uint32) uint32 { return s ^ imm }))
	registry.RegisterInstruction("xoris", "{ra:gpr},{rs:gpr},{ui:ui}", true, false, immLogicOp(true, func(s, imm uint32) uint32 { return s ^ imm }))

	registry.RegisterInstruction("extsb", "{rt:gpr},{ra:gpr}", true, false, opExtsb)
	registry.RegisterInstruction("extsh", "{rt:gpr},{ra:gpr}", true, false, opExtsh)
	registry.RegisterInstruction("cntlzw", "{rt:gpr},{ra:gpr}", true, false, opCntlzw)
}

// logicOp builds an instruction body for the direct register-register
// bitwise family (and/or/xor/...): ra := f(rs, rb).
func logicOp(f func(s, b uint32) uint32) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
		st := ctx.State()
		ra, rs, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
		result := f(st.Gpr(rs).U32(), st.Gpr(rb).U32())
		st.Gpr(ra).Set(result)
		maybeRecord(ctx, bits, int32(result))
		return nil
	}
}

// immLogicOp builds an instruction body for the immediate bitwise family
// (andi/ori/xori and their "is" shift-left-16 siblings). The immediate is
// always zero-extended per spec §4.7; the "is" variants additionally
// shift it left by 16 before combining.
func immLogicOp(shift16 bool, f func(s, imm uint32) uint32) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
		st := ctx.State()
		ra, rs, ui := gprIdx(a, 0), gprIdx(a, 1), uint32(uint16(imm(a, 2)))
		if shift16 {
			ui <<= 16
		}
		result := f(st.Gpr(rs).U32(), ui)
		st.Gpr(ra).Set(result)
		maybeRecord(ctx, bits, int32(result))
		return nil
	}
}

func opExtsb(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	result := int32(st.Gpr(ra).S8())
	st.Gpr(rt).Set(uint32(result))
	maybeRecord(ctx, bits, result)
	return nil
}

func opExtsh(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	result := int32(st.Gpr(ra).S16())
	st.Gpr(rt).Set(uint32(result))
	maybeRecord(ctx, bits, result)
	return nil
}

func opCntlzw(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	result := int32(bits32LeadingZeros(st.Gpr(ra).U32()))
	st.Gpr(rt).Set(uint32(result))
	maybeRecord(ctx, bits, result)
	return nil
}

func bits32LeadingZeros(v uint32) int {
	return bits.LeadingZeros32(v)
}
