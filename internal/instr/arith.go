package instr

import (
	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

func init() {
	registry.RegisterInstruction("addi", "{rt:gpr},{ra:gpr},{si:si}", true, false, opAddi)
	registry.RegisterInstruction("addis", "{rt:gpr},{ra:gpr},{si:si}", true, false, opAddis)
	registry.RegisterInstruction("subi", "{rt:gpr},{ra:gpr},{si:si}", true, false, opSubi)
	registry.RegisterInstruction("subis", "{rt:gpr},{ra:gpr},{si:si}", true, false, opSubis)
	registry.RegisterInstruction("addic", "{rt:gpr},{ra:gpr},{si:si}", true, false, opAddic)
	registry.RegisterInstruction("subic", "{rt:gpr},{ra:gpr},{si:si}", true, false, opSubic)

	registry.RegisterInstruction("adde", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opAdde)
	registry.RegisterInstruction("addze", "{rt:gpr},{ra:gpr}", true, true, opAddze)
	registry.RegisterInstruction("subfe", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opSubfe)
	registry.RegisterInstruction("subfze", "{rt:gpr},{ra:gpr}", true, true, opSubfze)
	registry.RegisterInstruction("subfme", "{rt:gpr},{ra:gpr}", true, true, opSubfme)

	registry.RegisterInstruction("sub", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opSub)
	registry.RegisterInstruction("subf", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opSubf)
	registry.RegisterInstruction("subfc", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opSubfc)
	registry.RegisterInstruction("subfic", "{rt:gpr},{ra:gpr},{si:si}", true, false, opSubfic)

	registry.RegisterInstruction("mullw", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opMullw)
	registry.RegisterInstruction("mullwu", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opMullwu)
	registry.RegisterInstruction("mulhw", "{rt:gpr},{ra:gpr},{rb:gpr}", true, false, opMulhw)
	registry.RegisterInstruction("mulhwu", "{rt:gpr},{ra:gpr},{rb:gpr}", true, false, opMulhwu)
	registry.RegisterInstruction("mulli", "{rt:gpr},{ra:gpr},{si:si}", true, false, opMulli)

	registry.RegisterInstruction("divw", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opDivw)
	registry.RegisterInstruction("divwu", "{rt:gpr},{ra:gpr},{rb:gpr}", true, true, opDivwu)

	registry.RegisterInstruction("abs", "{rt:gpr},{ra:gpr}", true, true, opAbs)
	registry.RegisterInstruction("nabs", "{rt:gpr},{ra:gpr}", true, true, opNabs)
	registry.RegisterInstruction("neg", "{rt:gpr},{ra:gpr}", true, true, opNeg)
}

func opAddi(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	result := baseOrZero(st, ra) + uint32(si)
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opAddis(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	result := baseOrZero(st, ra) + uint32(si)<<16
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opSubi(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	result := baseOrZero(st, ra) - uint32(si)
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opSubis(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	result := baseOrZero(st, ra) - uint32(si)<<16
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opAddic(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	lhs := baseOrZero(st, ra)
	rhs := uint32(si)
	result := lhs + rhs
	st.Gpr(rt).Set(result)
	st.SetXERCA(cpu.Carry(lhs, rhs))
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opSubic(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	lhs := baseOrZero(st, ra)
	rhs := -uint32(si)
	result := lhs + rhs
	st.Gpr(rt).Set(result)
	st.SetXERCA(cpu.Carry(lhs, rhs))
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opAdde(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	sum, carry := addWithCarry(st.Gpr(ra).U32(), st.Gpr(rb).U32(), st.GetXERCA())
	st.Gpr(rt).Set(sum)
	st.SetXERCA(carry)
	maybeRecord(ctx, bits, int32(sum))
	return nil
}

func opAddze(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	sum, carry := addWithCarry(st.Gpr(ra).U32(), 0, st.GetXERCA())
	st.Gpr(rt).Set(sum)
	st.SetXERCA(carry)
	maybeRecord(ctx, bits, int32(sum))
	return nil
}

func opSubfe(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	sum, carry := addWithCarry(st.Gpr(rb).U32(), ^st.Gpr(ra).U32(), st.GetXERCA())
	st.Gpr(rt).Set(sum)
	st.SetXERCA(carry)
	maybeRecord(ctx, bits, int32(sum))
	return nil
}

func opSubfze(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	sum, carry := addWithCarry(^st.Gpr(ra).U32(), 0, st.GetXERCA())
	st.Gpr(rt).Set(sum)
	st.SetXERCA(carry)
	maybeRecord(ctx, bits, int32(sum))
	return nil
}

func opSubfme(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	sum, carry := addWithCarry(^st.Gpr(ra).U32(), 0xFFFFFFFF, st.GetXERCA())
	st.Gpr(rt).Set(sum)
	st.SetXERCA(carry)
	maybeRecord(ctx, bits, int32(sum))
	return nil
}

// opSub implements sub(rt,ra,rb) = ra - rb.
func opSub(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	result := st.Gpr(ra).U32() - st.Gpr(rb).U32()
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

// opSubf implements subf(rt,ra,rb) = rb - ra.
func opSubf(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	result := st.Gpr(rb).U32() - st.Gpr(ra).U32()
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opSubfc(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	sum, carry := addWithCarry(st.Gpr(rb).U32(), ^st.Gpr(ra).U32(), true)
	st.Gpr(rt).Set(sum)
	st.SetXERCA(carry)
	maybeRecord(ctx, bits, int32(sum))
	return nil
}

func opSubfic(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	sum, carry := addWithCarry(uint32(si), ^st.Gpr(ra).U32(), true)
	st.Gpr(rt).Set(sum)
	st.SetXERCA(carry)
	maybeRecord(ctx, bits, int32(sum))
	return nil
}

func opMullw(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	product := int64(st.Gpr(ra).S32()) * int64(st.Gpr(rb).S32())
	result := uint32(product)
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opMullwu(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	product := uint64(st.Gpr(ra).U32()) * uint64(st.Gpr(rb).U32())
	result := uint32(product)
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opMulhw(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	product := int64(st.Gpr(ra).S32()) * int64(st.Gpr(rb).S32())
	result := uint32(product >> 32)
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opMulhwu(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	product := uint64(st.Gpr(ra).U32()) * uint64(st.Gpr(rb).U32())
	result := uint32(product >> 32)
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opMulli(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	product := int64(st.Gpr(ra).S32()) * int64(si)
	result := uint32(product)
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

// opDivw implements divw. Division by zero is host-defined in the
// original (an actual machine trap); this interpreter returns zero
// rather than panicking, per spec §4.6's note to flag such cases as a
// test skip rather than crash the session.
func opDivw(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	divisor := st.Gpr(rb).S32()
	var result int32
	if divisor != 0 {
		result = st.Gpr(ra).S32() / divisor
	}
	st.Gpr(rt).Set(uint32(result))
	maybeRecord(ctx, bits, result)
	return nil
}

func opDivwu(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	divisor := st.Gpr(rb).U32()
	var result uint32
	if divisor != 0 {
		result = st.Gpr(ra).U32() / divisor
	}
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

func opAbs(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	result := absInt32(st.Gpr(ra).S32())
	st.Gpr(rt).Set(uint32(result))
	maybeRecord(ctx, bits, result)
	return nil
}

func opNabs(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	result := -absInt32(st.Gpr(ra).S32())
	st.Gpr(rt).Set(uint32(result))
	maybeRecord(ctx, bits, result)
	return nil
}

func opNeg(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	result := -st.Gpr(ra).S32()
	st.Gpr(rt).Set(uint32(result))
	maybeRecord(ctx, bits, result)
	return nil
}
