package instr

import (
	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

func init() {
	registry.RegisterInstruction("cmpw", "{bf:cr},{ra:gpr},{rb:gpr}", false, false, opCmpw)
	registry.RegisterInstruction("cmpwi", "{bf:cr},{ra:gpr},{si:si}", false, false, opCmpwi)
	registry.RegisterInstruction("cmplw", "{bf:cr},{ra:gpr},{rb:gpr}", false, false, opCmplw)
	registry.RegisterInstruction("cmplwi", "{bf:cr},{ra:gpr},{ui:ui}", false, false, opCmplwi)
}

// crFromCompare builds a CR field value from a signed or unsigned
// three-way comparison, honouring XER.SO exactly like UpdateCr0.
func crFromCompare(st *cpu.State, lt, gt bool) uint8 {
	var f uint8
	switch {
	case lt:
		f = cpu.CRLT
	case gt:
		f = cpu.CRGT
	default:
		f = cpu.CREQ
	}
	if st.XER&cpu.XERSO != 0 {
		f |= cpu.CRSO
	}
	return f
}

func opCmpw(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	bf, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	lv, rv := st.Gpr(ra).S32(), st.Gpr(rb).S32()
	st.SetCr(bf, crFromCompare(st, lv < rv, lv > rv))
	return nil
}

func opCmpwi(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	bf, ra, si := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	lv := st.Gpr(ra).S32()
	st.SetCr(bf, crFromCompare(st, lv < si, lv > si))
	return nil
}

func opCmplw(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	bf, ra, rb := gprIdx(a, 0), gprIdx(a, 1), gprIdx(a, 2)
	lv, rv := st.Gpr(ra).U32(), st.Gpr(rb).U32()
	st.SetCr(bf, crFromCompare(st, lv < rv, lv > rv))
	return nil
}

// opCmplwi compares gpr[ra] against the zero-extended 16-bit immediate
// directly. The original's cmplwi mistakenly treats the raw immediate as
// a second GPR index (`gpr(rb).u32()`); this interpreter implements the
// behaviour the mnemonic's name and spec §4.6 actually describe — an
// unsigned compare against the immediate — rather than replicate that
// bug.
func opCmplwi(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	bf, ra, ui := gprIdx(a, 0), gprIdx(a, 1), imm(a, 2)
	lv, rv := st.Gpr(ra).U32(), uint32(ui)
	st.SetCr(bf, crFromCompare(st, lv < rv, lv > rv))
	return nil
}
