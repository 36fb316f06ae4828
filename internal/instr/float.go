package instr

import (
	"math"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

func init() {
	registry.RegisterInstruction("lfs", "{frt:fpr},{d:si}({ra:gpr})", false, false, loadFloatDisp(loadLfs, false))
	registry.RegisterInstruction("lfsx", "{frt:fpr},{ra:gpr},{rb:gpr}", false, false, loadFloatIndexed(loadLfs, false))
	registry.RegisterInstruction("lfsu", "{frt:fpr},{d:si}({ra:gpr})", false, false, loadFloatDisp(loadLfs, true))
	registry.RegisterInstruction("lfsux", "{frt:fpr},{ra:gpr},{rb:gpr}", false, false, loadFloatIndexed(loadLfs, true))

	registry.RegisterInstruction("lfd", "{frt:fpr},{d:si}({ra:gpr})", false, false, loadFloatDisp(loadLfd, false))
	registry.RegisterInstruction("lfdx", "{frt:fpr},{ra:gpr},{rb:gpr}", false, false, loadFloatIndexed(loadLfd, false))
	registry.RegisterInstruction("lfdu", "{frt:fpr},{d:si}({ra:gpr})", false, false, loadFloatDisp(loadLfd, true))
	registry.RegisterInstruction("lfdux", "{frt:fpr},{ra:gpr},{rb:gpr}", false, false, loadFloatIndexed(loadLfd, true))

	registry.RegisterInstruction("stfs", "{frs:fpr},{d:si}({ra:gpr})", false, false, storeFloatDisp(storeStfs, false))
	registry.RegisterInstruction("stfsx", "{frs:fpr},{ra:gpr},{rb:gpr}", false, false, storeFloatIndexed(storeStfs, false))
	registry.RegisterInstruction("stfsu", "{frs:fpr},{d:si}({ra:gpr})", false, false, storeFloatDisp(storeStfs, true))
	registry.RegisterInstruction("stfsux", "{frs:fpr},{ra:gpr},{rb:gpr}", false, false, storeFloatIndexed(storeStfs, true))

	registry.RegisterInstruction("stfd", "{frs:fpr},{d:si}({ra:gpr})", false, false, storeFloatDisp(storeStfd, false))
	registry.RegisterInstruction("stfdx", "{frs:fpr},{ra:gpr},{rb:gpr}", false, false, storeFloatIndexed(storeStfd, false))
	registry.RegisterInstruction("stfdu", "{frs:fpr},{d:si}({ra:gpr})", false, false, storeFloatDisp(storeStfd, true))
	registry.RegisterInstruction("stfdux", "{frs:fpr},{ra:gpr},{rb:gpr}", false, false, storeFloatIndexed(storeStfd, true))

	registry.RegisterInstruction("fadd", "{frt:fpr},{fra:fpr},{frb:fpr}", true, false, floatBinOp(func(a, b float64) float64 { return a + b }, false))
	registry.RegisterInstruction("fsub", "{frt:fpr},{fra:fpr},{frb:fpr}", true, false, floatBinOp(func(a, b float64) float64 { return a - b }, false))
	registry.RegisterInstruction("fmul", "{frt:fpr},{fra:fpr},{frb:fpr}", true, false, floatBinOp(func(a, b float64) float64 { return a * b }, false))
	registry.RegisterInstruction("fdiv", "{frt:fpr},{fra:fpr},{frb:fpr}", true, false, floatBinOp(func(a, b float64) float64 { return a / b }, false))

	registry.RegisterInstruction("fadds", "{frt:fpr},{fra:fpr},{frb:fpr}", true, false, floatBinOp(func(a, b float64) float64 { return a + b }, true))
	registry.RegisterInstruction("fsubs", "{frt:fpr},{fra:fpr},{frb:fpr}", true, false, floatBinOp(func(a, b float64) float64 { return a - b }, true))
	registry.RegisterInstruction("fmuls", "{frt:fpr},{fra:fpr},{frb:fpr}", true, false, floatBinOp(func(a, b float64) float64 { return a * b }, true))
	registry.RegisterInstruction("fdivs", "{frt:fpr},{fra:fpr},{frb:fpr}", true, false, floatBinOp(func(a, b float64) float64 { return a / b }, true))

	registry.RegisterInstruction("fmadd", "{frt:fpr},{fra:fpr},{frc:fpr},{frb:fpr}", true, false, floatFusedOp(false, false, false))
	registry.RegisterInstruction("fmsub", "{frt:fpr},{fra:fpr},{frc:fpr},{frb:fpr}", true, false, floatFusedOp(false, true, false))
	registry.RegisterInstruction("fnmadd", "{frt:fpr},{fra:fpr},{frc:fpr},{frb:fpr}", true, false, floatFusedOp(true, false, false))
	registry.RegisterInstruction("fnmsub", "{frt:fpr},{fra:fpr},{frc:fpr},{frb:fpr}", true, false, floatFusedOp(true, true, false))

	registry.RegisterInstruction("fmadds", "{frt:fpr},{fra:fpr},{frc:fpr},{frb:fpr}", true, false, floatFusedOp(false, false, true))
	registry.RegisterInstruction("fmsubs", "{frt:fpr},{fra:fpr},{frc:fpr},{frb:fpr}", true, false, floatFusedOp(false, true, true))
	registry.RegisterInstruction("fnmadds", "{frt:fpr},{fra:fpr},{frc:fpr},{frb:fpr}", true, false, floatFusedOp(true, false, true))
	registry.RegisterInstruction("fnmsubs", "{frt:fpr},{fra:fpr},{frc:fpr},{frb:fpr}", true, false, floatFusedOp(true, true, true))

	registry.RegisterInstruction("fabs", "{frt:fpr},{frb:fpr}", true, false, opFabs)
	registry.RegisterInstruction("fnabs", "{frt:fpr},{frb:fpr}", true, false, opFnabs)
	registry.RegisterInstruction("fneg", "{frt:fpr},{frb:fpr}", true, false, opFneg)
	registry.RegisterInstruction("fmr", "{frt:fpr},{frb:fpr}", true, false, opFmr)
	registry.RegisterInstruction("fres", "{frt:fpr},{frb:fpr}", true, false, opFres)
	registry.RegisterInstruction("frsqrte", "{frt:fpr},{frb:fpr}", true, false, opFrsqrte)
	registry.RegisterInstruction("frsp", "{frt:fpr},{frb:fpr}", true, false, opFrsp)

	registry.RegisterInstruction("fsqrt", "{frt:fpr},{frb:fpr}", true, false, floatUnaryOp(math.Sqrt, false))
	registry.RegisterInstruction("fsqrts", "{frt:fpr},{frb:fpr}", true, false, floatUnaryOp(math.Sqrt, true))
}

type floatLoadFunc func(mem *cpu.Memory, addr uint32) (cpu.FPR, error)

func loadLfs(mem *cpu.Memory, addr uint32) (cpu.FPR, error) {
	v, err := mem.Lfs(addr)
	return cpu.NewFPRFromF32(v), err
}

func loadLfd(mem *cpu.Memory, addr uint32) (cpu.FPR, error) {
	v, err := mem.Lfd(addr)
	return cpu.NewFPRFromF64(v), err
}

// loadFloatDisp mirrors loadDisp's d(ra)-form shape (internal/instr/loadstore.go)
// for the floating-point load family; update write-back is suppressed only
// when ra==0 (frt names an FPR, so no ra==rt check applies).
func loadFloatDisp(load floatLoadFunc, update bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		st, mem := ctx.State(), ctx.Memory()
		frt, d, ra := gprIdx(a, 0), int16(imm(a, 1)), gprIdx(a, 2)
		ea := st.EaDisp(d, ra)
		value, err := load(mem, ea)
		if err != nil {
			return err
		}
		*st.Fpr(frt) = value
		if update && ra != 0 {
			st.Gpr(ra).Set(ea)
		}
		return nil
	}
}

func loadFloatIndexed(load floatLoadFunc, update bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		st, mem := ctx.State(), ctx.Memory()
		frt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
		ea := st.EaIndexed(ra, rb)
		value, err := load(mem, ea)
		if err != nil {
			return err
		}
		*st.Fpr(frt) = value
		if update && ra != 0 {
			st.Gpr(ra).Set(ea)
		}
		return nil
	}
}

type floatStoreFunc func(mem *cpu.Memory, addr uint32, v cpu.FPR) error

func storeStfs(mem *cpu.Memory, addr uint32, v cpu.FPR) error { return mem.Stfs(addr, v.F32()) }
func storeStfd(mem *cpu.Memory, addr uint32, v cpu.FPR) error { return mem.Stfd(addr, v.F64()) }

func storeFloatDisp(store floatStoreFunc, update bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		st, mem := ctx.State(), ctx.Memory()
		frs, d, ra := gprIdx(a, 0), int16(imm(a, 1)), gprIdx(a, 2)
		ea := st.EaDisp(d, ra)
		if err := store(mem, ea, *st.Fpr(frs)); err != nil {
			return err
		}
		if update && ra != 0 {
			st.Gpr(ra).Set(ea)
		}
		return nil
	}
}

func storeFloatIndexed(store floatStoreFunc, update bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		st, mem := ctx.State(), ctx.Memory()
		frs, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
		ea := st.EaIndexed(ra, rb)
		if err := store(mem, ea, *st.Fpr(frs)); err != nil {
			return err
		}
		if update && ra != 0 {
			st.Gpr(ra).Set(ea)
		}
		return nil
	}
}

// floatBinOp builds the fadd/fsub/fmul/fdiv family. single requests the
// "s"-suffixed single-precision-rounded sibling: the double result is
// narrowed to float32 and widened back before storing, matching the
// original's frsp-on-write behaviour for the single-precision forms.
func floatBinOp(f func(a, b float64) float64, single bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
		st := ctx.State()
		frt, fra, frb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
		result := f(st.Fpr(fra).F64(), st.Fpr(frb).F64())
		if single {
			result = float64(float32(result))
		}
		st.Fpr(frt).SetF64(result)
		if bits.RC {
			st.UpdateCr1()
		}
		return nil
	}
}

func floatUnaryOp(f func(float64) float64, single bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
		st := ctx.State()
		frt, frb := gprIdx(a, 0), gprIdx(a, 1)
		result := f(st.Fpr(frb).F64())
		if single {
			result = float64(float32(result))
		}
		st.Fpr(frt).SetF64(result)
		if bits.RC {
			st.UpdateCr1()
		}
		return nil
	}
}

// floatFusedOp builds the fmadd/fmsub/fnmadd/fnmsub family: frt := ±(fra*frc ± frb).
// negate flips the sign of the whole product-sum; subtract selects frb's sign.
func floatFusedOp(negate, subtract, single bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
		st := ctx.State()
		frt, fra, frc, frb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2), gprIdx(a, 3)
		product := st.Fpr(fra).F64() * st.Fpr(frc).F64()
		var result float64
		if subtract {
			result = product - st.Fpr(frb).F64()
		} else {
			result = product + st.Fpr(frb).F64()
		}
		if negate {
			result = -result
		}
		if single {
			result = float64(float32(result))
		}
		st.Fpr(frt).SetF64(result)
		if bits.RC {
			st.UpdateCr1()
		}
		return nil
	}
}

// opFabs/opFnabs/opFneg manipulate the raw sign bit rather than going
// through a float64 round-trip, matching the original's bitwise fabs/fneg.
func opFabs(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	frt, frb := gprIdx(a, 0), gprIdx(a, 1)
	st.Fpr(frt).SetBits(st.Fpr(frb).U64() &^ (1 << 63))
	if bits.RC {
		st.UpdateCr1()
	}
	return nil
}

func opFnabs(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	frt, frb := gprIdx(a, 0), gprIdx(a, 1)
	st.Fpr(frt).SetBits(st.Fpr(frb).U64() | (1 << 63))
	if bits.RC {
		st.UpdateCr1()
	}
	return nil
}

func opFneg(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	frt, frb := gprIdx(a, 0), gprIdx(a, 1)
	st.Fpr(frt).SetBits(st.Fpr(frb).U64() ^ (1 << 63))
	if bits.RC {
		st.UpdateCr1()
	}
	return nil
}

func opFmr(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	frt, frb := gprIdx(a, 0), gprIdx(a, 1)
	*st.Fpr(frt) = *st.Fpr(frb)
	if bits.RC {
		st.UpdateCr1()
	}
	return nil
}

// opFres computes a single-precision reciprocal estimate. This interpreter
// has no reduced-precision reciprocal table, so it returns the exact
// reciprocal narrowed to float32, matching the spec's observed "estimate may
// be computed exactly" allowance for host-defined precision instructions.
func opFres(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	frt, frb := gprIdx(a, 0), gprIdx(a, 1)
	result := float64(float32(1 / st.Fpr(frb).F64()))
	st.Fpr(frt).SetF64(result)
	if bits.RC {
		st.UpdateCr1()
	}
	return nil
}

func opFrsqrte(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	frt, frb := gprIdx(a, 0), gprIdx(a, 1)
	result := 1 / math.Sqrt(st.Fpr(frb).F64())
	st.Fpr(frt).SetF64(result)
	if bits.RC {
		st.UpdateCr1()
	}
	return nil
}

// opFrsp rounds a double to single precision and widens it back, the
// explicit form of the narrowing floatBinOp/floatUnaryOp apply implicitly
// for their "s"-suffixed siblings.
func opFrsp(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	frt, frb := gprIdx(a, 0), gprIdx(a, 1)
	st.Fpr(frt).SetF64(float64(float32(st.Fpr(frb).F64())))
	if bits.RC {
		st.UpdateCr1()
	}
	return nil
}
