package instr

import (
	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

func init() {
	registry.RegisterInstruction("rlwinm", "{ra:gpr},{rs:gpr},{sh:bit},{mb:bit},{me:bit}", true, false, opRlwinm)
	registry.RegisterInstruction("rlwnm", "{ra:gpr},{rs:gpr},{rb:gpr},{mb:bit},{me:bit}", true, false, opRlwnm)
	registry.RegisterInstruction("rlwimi", "{ra:gpr},{rs:gpr},{sh:bit},{mb:bit},{me:bit}", true, false, opRlwimi)

	registry.RegisterInstruction("slw", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, opSlw)
	registry.RegisterInstruction("srw", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, opSrw)
	registry.RegisterInstruction("sraw", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, opSraw)
	registry.RegisterInstruction("srawi", "{ra:gpr},{rs:gpr},{sh:bit}", true, false, opSrawi)

	registry.RegisterInstruction("slwi", "{ra:gpr},{rs:gpr},{n:bit}", true, false, synthRlwinm(func(n int32) (sh, mb, me int32) { return n, 0, 31 - n }))
	registry.RegisterInstruction("srwi", "{ra:gpr},{rs:gpr},{n:bit}", true, false, synthRlwinm(func(n int32) (sh, mb, me int32) { return 32 - n, n, 31 }))
	registry.RegisterInstruction("rotlwi", "{ra:gpr},{rs:gpr},{n:bit}", true, false, synthRlwinm(func(n int32) (sh, mb, me int32) { return n, 0, 31 }))
	registry.RegisterInstruction("rotrwi", "{ra:gpr},{rs:gpr},{n:bit}", true, false, synthRlwinm(func(n int32) (sh, mb, me int32) { return 32 - n, 0, 31 }))
	registry.RegisterInstruction("clrlwi", "{ra:gpr},{rs:gpr},{n:bit}", true, false, synthRlwinm(func(n int32) (sh, mb, me int32) { return 0, n, 31 }))
	registry.RegisterInstruction("clrrwi", "{ra:gpr},{rs:gpr},{n:bit}", true, false, synthRlwinm(func(n int32) (sh, mb, me int32) { return 0, 0, 31 - n }))

	registry.RegisterInstruction("extlwi", "{ra:gpr},{rs:gpr},{n:bit},{b:bit}", true, false, synthRlwinm2(func(n, b int32) (sh, mb, me int32) { return b, 0, n - 1 }))
	registry.RegisterInstruction("extrwi", "{ra:gpr},{rs:gpr},{n:bit},{b:bit}", true, false, synthRlwinm2(func(n, b int32) (sh, mb, me int32) { return b + n, 32 - n, 31 }))
	registry.RegisterInstruction("clrlslwi", "{ra:gpr},{rs:gpr},{b:bit},{n:bit}", true, false, synthRlwinm2(func(b, n int32) (sh, mb, me int32) { return n, b - n, 31 - n }))

	registry.RegisterInstruction("inslwi", "{ra:gpr},{rs:gpr},{n:bit},{b:bit}", true, false, synthRlwimi(func(n, b int32) (sh, mb, me int32) { return 32 - b, b, b + n - 1 }))
	registry.RegisterInstruction("insrwi", "{ra:gpr},{rs:gpr},{n:bit},{b:bit}", true, false, synthRlwimi(func(n, b int32) (sh, mb, me int32) { return 32 - (b + n), b, b + n - 1 }))

	registry.RegisterInstruction("rotlw", "{ra:gpr},{rs:gpr},{rb:gpr}", true, false, opRotlw)
}

func rlwinmCompute(st *cpu.State, rs int, sh, mb, me int32) uint32 {
	rotated := cpu.Rot32(st.Gpr(rs).U32(), uint(sh))
	return rotated & cpu.Mask(uint(mb), uint(me))
}

func opRlwinm(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	ra, rs, sh, mb, me := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2), imm(a, 3), imm(a, 4)
	result := rlwinmCompute(st, rs, sh, mb, me)
	st.Gpr(ra).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

// opRlwnm is rlwinm with the shift amount taken from the low 5 bits of
// gpr[rb] instead of an immediate, matching spec §4.7's "rlwnm uses the
// low 5 bits of gpr[rb] as the shift".
func opRlwnm(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	ra, rs, rb, mb, me := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2), imm(a, 3), imm(a, 4)
	sh := st.Gpr(rb).U32() & 0x1F
	result := rlwinmCompute(st, rs, int32(sh), mb, me)
	st.Gpr(ra).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

// opRlwimi preserves the unmasked bits of the destination register:
// ra := (rotated & M) | (ra & ~M).
func opRlwimi(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	ra, rs, sh, mb, me := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2), imm(a, 3), imm(a, 4)
	m := cpu.Mask(uint(mb), uint(me))
	rotated := cpu.Rot32(st.Gpr(rs).U32(), uint(sh))
	result := (rotated & m) | (st.Gpr(ra).U32() &^ m)
	st.Gpr(ra).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

// synthRlwinm builds an instruction body for a two-operand (ra,rs,n)
// synthetic mnemonic that expands to a single rlwinm, per the table in
// spec §4.7.
func synthRlwinm(expand func(n int32) (sh, mb, me int32)) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
		st := ctx.State()
		ra, rs, n := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
		sh, mb, me := expand(n)
		result := rlwinmCompute(st, rs, sh, mb, me)
		st.Gpr(ra).Set(result)
		maybeRecord(ctx, bits, int32(result))
		return nil
	}
}

// synthRlwinm2 is synthRlwinm for the three-operand (ra,rs,n,b) synthetic
// mnemonics (extlwi/extrwi/clrlslwi).
func synthRlwinm2(expand func(n, b int32) (sh, mb, me int32)) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
		st := ctx.State()
		ra, rs, n, b := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2), imm(a, 3)
		sh, mb, me := expand(n, b)
		result := rlwinmCompute(st, rs, sh, mb, me)
		st.Gpr(ra).Set(result)
		maybeRecord(ctx, bits, int32(result))
		return nil
	}
}

// synthRlwimi is synthRlwinm2 for the rlwimi-based synthetic mnemonics
// (inslwi/insrwi), which merge into the destination rather than replace it.
func synthRlwimi(expand func(n, b int32) (sh, mb, me int32)) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
		st := ctx.State()
		ra, rs, n, b := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2), imm(a, 3)
		sh, mb, me := expand(n, b)
		m := cpu.Mask(uint(mb), uint(me))
		rotated := cpu.Rot32(st.Gpr(rs).U32(), uint(sh))
		result := (rotated & m) | (st.Gpr(ra).U32() &^ m)
		st.Gpr(ra).Set(result)
		maybeRecord(ctx, bits, int32(result))
		return nil
	}
}

// opRotlw is the register-controlled full-word rotate supplement
// (rlwnm with mb=0,me=31), present in the original but absent from
// spec.md's own instruction table.
func opRotlw(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	ra, rs, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	sh := st.Gpr(rb).U32() & 0x1F
	result := cpu.Rot32(st.Gpr(rs).U32(), uint(sh))
	st.Gpr(ra).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

// opSlw shifts left by the low 6 bits of gpr[rb], producing zero when bit
// 0x20 is set (a shift amount >= 32), matching spec §4.7.
func opSlw(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	ra, rs, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	shiftReg := st.Gpr(rb).U32()
	var result uint32
	if shiftReg&0x20 == 0 {
		result = st.Gpr(rs).U32() << (shiftReg & 0x1F)
	}
	st.Gpr(ra).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opSrw(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	ra, rs, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	shiftReg := st.Gpr(rb).U32()
	var result uint32
	if shiftReg&0x20 == 0 {
		result = st.Gpr(rs).U32() >> (shiftReg & 0x1F)
	}
	st.Gpr(ra).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

// opSraw performs an arithmetic right shift by the low 6 bits of gpr[rb]
// (>=32 yields all sign-bit copies) and sets CA iff the source was
// negative and any shifted-out bit was 1.
func opSraw(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	ra, rs, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	src := st.Gpr(rs).S32()
	shiftReg := st.Gpr(rb).U32()
	n := shiftReg & 0x3F
	result, ca := arithShiftRight(src, n)
	st.Gpr(ra).Set(uint32(result))
	st.SetXERCA(ca)
	maybeRecord(ctx, bits, result)
	return nil
}

func opSrawi(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	ra, rs, sh := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	src := st.Gpr(rs).S32()
	result, ca := arithShiftRight(src, uint32(sh))
	st.Gpr(ra).Set(uint32(result))
	st.SetXERCA(ca)
	maybeRecord(ctx, bits, result)
	return nil
}

func arithShiftRight(src int32, n uint32) (result int32, carry bool) {
	if n >= 32 {
		if src < 0 {
			return -1, true
		}
		return 0, false
	}
	result = src >> n
	if src < 0 && n > 0 {
		mask := uint32(1)<<n - 1
		carry = uint32(src)&mask != 0
	}
	return result, carry
}
