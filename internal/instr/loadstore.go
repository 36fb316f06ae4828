package instr

import (
	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

func init() {
	registry.RegisterInstruction("li", "{rt:gpr},{si:si}", false, false, opLi)
	registry.RegisterInstruction("lis", "{rt:gpr},{si:si}", false, false, opLis)
	registry.RegisterInstruction("mr", "{rt:gpr},{ra:gpr}", true, false, opMr)

	registry.RegisterInstruction("lbz", "{rt:gpr},{d:si}({ra:gpr})", false, false, loadDisp(loadLbz, false))
	registry.RegisterInstruction("lbzx", "{rt:gpr},{ra:gpr},{rb:gpr}", false, false, loadIndexed(loadLbz, false))
	registry.RegisterInstruction("lbzu", "{rt:gpr},{d:si}({ra:gpr})", false, false, loadDisp(loadLbz, true))
	registry.RegisterInstruction("lbzux", "{rt:gpr},{ra:gpr},{rb:gpr}", false, false, loadIndexed(loadLbz, true))

	registry.RegisterInstruction("lha", "{rt:gpr},{d:si}({ra:gpr})", false, false, loadDisp(loadLha, false))
	registry.RegisterInstruction("lhax", "{rt:gpr},{ra:gpr},{rb:gpr}", false, false, loadIndexed(loadLha, false))
	registry.RegisterInstruction("lhau", "{rt:gpr},{d:si}({ra:gpr})", false, false, loadDisp(loadLha, true))
	registry.RegisterInstruction("lhaux", "{rt:gpr},{ra:gpr},{rb:gpr}", false, false, loadIndexed(loadLha, true))

	registry.RegisterInstruction("lhz", "{rt:gpr},{d:si}({ra:gpr})", false, false, loadDisp(loadLhz, false))
	registry.RegisterInstruction("lhzx", "{rt:gpr},{ra:gpr},{rb:gpr}", false, false, loadIndexed(loadLhz, false))
	registry.RegisterInstruction("lhzu", "{rt:gpr},{d:si}({ra:gpr})", false, false, loadDisp(loadLhz, true))
	registry.RegisterInstruction("lhzux", "{rt:gpr},{ra:gpr},{rb:gpr}", false, false, loadIndexed(loadLhz, true))

	registry.RegisterInstruction("lwz", "{rt:gpr},{d:si}({ra:gpr})", false, false, loadDisp(loadLwz, false))
	registry.RegisterInstruction("lwzx", "{rt:gpr},{ra:gpr},{rb:gpr}", false, false, loadIndexed(loadLwz, false))
	registry.RegisterInstruction("lwzu", "{rt:gpr},{d:si}({ra:gpr})", false, false, loadDisp(loadLwz, true))
	registry.RegisterInstruction("lwzux", "{rt:gpr},{ra:gpr},{rb:gpr}", false, false, loadIndexed(loadLwz, true))

	registry.RegisterInstruction("stb", "{rs:gpr},{d:si}({ra:gpr})", false, false, storeDisp(storeStb, false))
	registry.RegisterInstruction("stbx", "{rs:gpr},{ra:gpr},{rb:gpr}", false, false, storeIndexed(storeStb, false))
	registry.RegisterInstruction("stbu", "{rs:gpr},{d:si}({ra:gpr})", false, false, storeDisp(storeStb, true))
	registry.RegisterInstruction("stbux", "{rs:gpr},{ra:gpr},{rb:gpr}", false, false, storeIndexed(storeStb, true))

	registry.RegisterInstruction("sth", "{rs:gpr},{d:si}({ra:gpr})", false, false, storeDisp(storeSth, false))
	registry.RegisterInstruction("sthx", "{rs:gpr},{ra:gpr},{rb:gpr}", false, false, storeIndexed(storeSth, false))
	registry.RegisterInstruction("sthu", "{rs:gpr},{d:si}({ra:gpr})", false, false, storeDisp(storeSth, true))
	registry.RegisterInstruction("sthux", "{rs:gpr},{ra:gpr},{rb:gpr}", false, false, storeIndexed(storeSth, true))

	registry.RegisterInstruction("stw", "{rs:gpr},{d:si}({ra:gpr})", false, false, storeDisp(storeStw, false))
	registry.RegisterInstruction("stwx", "{rs:gpr},{ra:gpr},{rb:gpr}", false, false, storeIndexed(storeStw, false))
	registry.RegisterInstruction("stwu", "{rs:gpr},{d:si}({ra:gpr})", false, false, storeDisp(storeStw, true))
	registry.RegisterInstruction("stwux", "{rs:gpr},{ra:gpr},{rb:gpr}", false, false, storeIndexed(storeStw, true))

	registry.RegisterInstruction("lmw", "{rt:gpr},{d:si}({ra:gpr})", false, false, opLmw)
	registry.RegisterInstruction("stmw", "{rs:gpr},{d:si}({ra:gpr})", false, false, opStmw)
}

func opLi(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	rt, si := gprIdx(a, 0), imm(a, 1)
	st.Gpr(rt).Set(uint32(si))
	return nil
}

func opLis(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	rt, si := gprIdx(a, 0), imm(a, 1)
	st.Gpr(rt).Set(uint32(si) << 16)
	return nil
}

// opMr is implemented as addi(rt,ra,0), matching the original: when
// ra==0 the result is zero, not a copy of GPR 0's contents.
func opMr(ctx registry.Context, a *sig.Args, bits registry.Bits) error {
	st := ctx.State()
	rt, ra := gprIdx(a, 0), gprIdx(a, 1)
	result := baseOrZero(st, ra)
	st.Gpr(rt).Set(result)
	maybeRecord(ctx, bits, int32(result))
	return nil
}

type loadFunc func(mem *cpu.Memory, addr uint32) (uint32, error)

func loadLbz(mem *cpu.Memory, addr uint32) (uint32, error) {
	v, err := mem.Lbz(addr)
	return uint32(v), err
}

func loadLha(mem *cpu.Memory, addr uint32) (uint32, error) {
	v, err := mem.Lha(addr)
	return uint32(int32(v)), err
}

func loadLhz(mem *cpu.Memory, addr uint32) (uint32, error) {
	v, err := mem.Lhz(addr)
	return uint32(v), err
}

func loadLwz(mem *cpu.Memory, addr uint32) (uint32, error) {
	return mem.Lwz(addr)
}

// loadDisp builds a d(ra)-form load body. update requests the
// write-back-EA-into-ra behaviour, suppressed per invariant (iv) when
// ra==0 or ra==rt.
func loadDisp(load loadFunc, update bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		st, mem := ctx.State(), ctx.Memory()
		rt, d, ra := gprIdx(a, 0), int16(imm(a, 1)), gprIdx(a, 2)
		ea := st.EaDisp(d, ra)
		value, err := load(mem, ea)
		if err != nil {
			return err
		}
		st.Gpr(rt).Set(value)
		if update && ra != 0 && ra != rt {
			st.Gpr(ra).Set(ea)
		}
		return nil
	}
}

func loadIndexed(load loadFunc, update bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		st, mem := ctx.State(), ctx.Memory()
		rt, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
		ea := st.EaIndexed(ra, rb)
		value, err := load(mem, ea)
		if err != nil {
			return err
		}
		st.Gpr(rt).Set(value)
		if update && ra != 0 && ra != rt {
			st.Gpr(ra).Set(ea)
		}
		return nil
	}
}

type storeFunc func(mem *cpu.Memory, addr uint32, value uint32) error

func storeStb(mem *cpu.Memory, addr, value uint32) error { return mem.Stb(addr, uint8(value)) }
func storeSth(mem *cpu.Memory, addr, value uint32) error { return mem.Sth(addr, uint16(value)) }
func storeStw(mem *cpu.Memory, addr, value uint32) error { return mem.Stw(addr, value) }

func storeDisp(store storeFunc, update bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		st, mem := ctx.State(), ctx.Memory()
		rs, d, ra := gprIdx(a, 0), int16(imm(a, 1)), gprIdx(a, 2)
		ea := st.EaDisp(d, ra)
		if err := store(mem, ea, st.Gpr(rs).U32()); err != nil {
			return err
		}
		if update && ra != 0 {
			st.Gpr(ra).Set(ea)
		}
		return nil
	}
}

func storeIndexed(store storeFunc, update bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		st, mem := ctx.State(), ctx.Memory()
		rs, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
		ea := st.EaIndexed(ra, rb)
		if err := store(mem, ea, st.Gpr(rs).U32()); err != nil {
			return err
		}
		if update && ra != 0 {
			st.Gpr(ra).Set(ea)
		}
		return nil
	}
}

// opLmw loads gpr[rt..31] from consecutive words starting at EA, matching
// spec §4.8's "iterate word-wise from the destination index up to 31".
func opLmw(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st, mem := ctx.State(), ctx.Memory()
	rt, d, ra := gprIdx(a, 0), int16(imm(a, 1)), gprIdx(a, 2)
	ea := st.EaDisp(d, ra)
	for i := rt; i <= 31; i++ {
		v, err := mem.Lwz(ea + 4*uint32(i-rt))
		if err != nil {
			return err
		}
		st.Gpr(i).Set(v)
	}
	return nil
}

func opStmw(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st, mem := ctx.State(), ctx.Memory()
	rs, d, ra := gprIdx(a, 0), int16(imm(a, 1)), gprIdx(a, 2)
	ea := st.EaDisp(d, ra)
	for i := rs; i <= 31; i++ {
		if err := mem.Stw(ea+4*uint32(i-rs), st.Gpr(i).U32()); err != nil {
			return err
		}
	}
	return nil
}
