package instr

import (
	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

// BO bit values, matching spec §4.5 exactly (bit 0 = MSB of the 5-bit
// field): 0x10 skips the CR test (always true), 0x08 is the CR-test
// sense, 0x04 skips the CTR decrement/test (always true), 0x02 is the
// CTR-test sense (1 => branch when CTR==0, "decrement and branch if
// zero"; 0 => branch when CTR!=0).
const (
	boSkipCR    = 0x10
	boCRSense   = 0x08
	boSkipCTR   = 0x04
	boCTRZero   = 0x02
	boUncond    = boSkipCR | boSkipCTR
	boCtrOnlyDZ = boSkipCR | boCTRZero // bdz-style: test CTR==0, ignore CR
	boCtrOnlyNZ = boSkipCR             // bdnz-style: test CTR!=0, ignore CR
)

// target destinations for the register-indirect branch families.
type branchDest int

const (
	destLabel branchDest = iota
	destLR
	destCTR
)

func init() {
	registry.RegisterInstruction("b", "{target:addr}", false, false, unconditionalBranch(destLabel, false))
	registry.RegisterInstruction("bl", "{target:addr}", false, false, unconditionalBranch(destLabel, true))
	registry.RegisterInstruction("blr", "", false, false, unconditionalBranch(destLR, false))
	registry.RegisterInstruction("blrl", "", false, false, unconditionalBranch(destLR, true))
	registry.RegisterInstruction("bctr", "", false, false, unconditionalBranch(destCTR, false))
	registry.RegisterInstruction("bctrl", "", false, false, unconditionalBranch(destCTR, true))

	registry.RegisterInstruction("mtctr", "{ra:gpr}", false, false, opMtctr)
	registry.RegisterInstruction("mfctr", "{rt:gpr}", false, false, opMfctr)
	registry.RegisterInstruction("mtlr", "{ra:gpr}", false, false, opMtlr)
	registry.RegisterInstruction("mflr", "{rt:gpr}", false, false, opMflr)

	for _, cond := range conditionAliases {
		registerConditionFamily(cond)
	}
	for _, ctr := range ctrAliases {
		registerCtrFamily(ctr)
	}
}

// conditionAlias describes one of the blt/ble/beq/bge/bgt/bnl/bne/bng
// mnemonic stems: which CR bit it tests (field offset within the 4-bit
// CR nibble: 0=LT, 1=GT, 2=EQ) and whether it branches when that bit is
// set or clear.
type conditionAlias struct {
	stem        string
	fieldOffset uint
	branchOnSet bool
}

var conditionAliases = []conditionAlias{
	{"blt", 0, true},  // LT set
	{"ble", 1, false}, // not GT
	{"beq", 2, true},  // EQ set
	{"bge", 0, false}, // not LT
	{"bgt", 1, true},  // GT set
	{"bnl", 0, false}, // not LT (alias of bge)
	{"bne", 2, false}, // not EQ
	{"bng", 1, false}, // not GT (alias of ble)
}

// registerConditionFamily registers the six suffix variants of one
// conditional-branch stem: bare and "l" (label target), "lr"/"lrl" (to
// LR), "ctr"/"ctrl" (to CTR) — the table-driven replacement for the
// original's ~70 hand-written static branch-alias objects.
func registerConditionFamily(cond conditionAlias) {
	bo := boSkipCTR
	if cond.branchOnSet {
		bo |= boCRSense
	}

	register := func(suffix string, dest branchDest, lk bool, hasTarget bool) {
		sigStr := "[{bf:cr},]{target:addr}"
		if !hasTarget {
			sigStr = "[{bf:cr}]"
		}
		registry.RegisterInstruction(cond.stem+suffix, sigStr, false, false, conditionalBranch(uint8(bo), cond.fieldOffset, dest, lk, hasTarget))
	}

	register("", destLabel, false, true)
	register("l", destLabel, true, true)
	register("lr", destLR, false, false)
	register("lrl", destLR, true, false)
	register("ctr", destCTR, false, false)
	register("ctrl", destCTR, true, false)
}

// ctrAlias describes the CTR-decrementing bdz/bdnz stems.
type ctrAlias struct {
	stem  string
	bo    uint8
	toReg bool // whether "lr"-suffixed register-target variants exist
}

var ctrAliases = []ctrAlias{
	{"bdz", boCtrOnlyDZ, true},
	{"bdnz", boCtrOnlyNZ, true},
}

func registerCtrFamily(ctr ctrAlias) {
	registry.RegisterInstruction(ctr.stem, "{target:addr}", false, false, ctrBranch(ctr.bo, destLabel, false, true))
	registry.RegisterInstruction(ctr.stem+"l", "{target:addr}", false, false, ctrBranch(ctr.bo, destLabel, true, true))
	if ctr.toReg {
		registry.RegisterInstruction(ctr.stem+"lr", "", false, false, ctrBranch(ctr.bo, destLR, false, false))
		registry.RegisterInstruction(ctr.stem+"lrl", "", false, false, ctrBranch(ctr.bo, destLR, true, false))
	}
}

// crBitMasks maps a CR field's 2-bit sub-offset (0=LT, 1=GT, 2=EQ, 3=SO) to
// the named condition-register bit, in the same order the BI field encodes.
var crBitMasks = [4]uint8{cpu.CRLT, cpu.CRGT, cpu.CREQ, cpu.CRSO}

// bc is the common conditional-branch routine described by spec §4.5.
// bi is the absolute 5-bit BI field (field*4 + offset); dest selects the
// target (LR, CTR, or the named label). There is no absolute-target (bd)
// parameter: this text interpreter's grammar only ever supplies named
// labels, which always go through ctx.Branch.
func bc(ctx registry.Context, bo uint8, bi uint8, lk bool, dest branchDest, label string) {
	st := ctx.State()

	if lk {
		st.LR = uint32(ctx.Tell())
	}

	ctrOK := true
	if bo&boSkipCTR == 0 {
		st.CTR--
		ctrZero := st.CTR == 0
		senseZero := bo&boCTRZero != 0
		if senseZero {
			ctrOK = ctrZero
		} else {
			ctrOK = !ctrZero
		}
	}
	if !ctrOK {
		return
	}

	crOK := true
	if bo&boSkipCR == 0 {
		field := bi >> 2
		mask := crBitMasks[bi&3]
		bitSet := st.Cr(int(field))&mask != 0
		senseSet := bo&boCRSense != 0
		if senseSet {
			crOK = bitSet
		} else {
			crOK = !bitSet
		}
	}
	if !crOK {
		return
	}

	switch dest {
	case destLR:
		ctx.Seek(int64(st.LR))
	case destCTR:
		ctx.Seek(int64(st.CTR))
	default:
		ctx.Branch(label)
	}
}

func conditionalBranch(bo uint8, fieldOffset uint, dest branchDest, lk bool, hasTarget bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		bf := 0
		if len(a.Values) > 0 {
			bf = int(a.Values[0].Int)
		}
		bi := uint8(bf)*4 + uint8(fieldOffset)
		label := ""
		if hasTarget {
			label = a.Label
		}
		bc(ctx, bo, bi, lk, dest, label)
		return nil
	}
}

func ctrBranch(bo uint8, dest branchDest, lk bool, hasTarget bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		label := ""
		if hasTarget {
			label = a.Label
		}
		bc(ctx, bo, 0, lk, dest, label)
		return nil
	}
}

func unconditionalBranch(dest branchDest, lk bool) registry.InstructionFunc {
	return func(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
		label := ""
		if dest == destLabel {
			label = a.Label
		}
		bc(ctx, boUncond, 0, lk, dest, label)
		return nil
	}
}

func opMtctr(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	st.CTR = st.Gpr(gprIdx(a, 0)).U32()
	return nil
}

func opMfctr(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	st.Gpr(gprIdx(a, 0)).Set(st.CTR)
	return nil
}

func opMtlr(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	st.LR = st.Gpr(gprIdx(a, 0)).U32()
	return nil
}

func opMflr(ctx registry.Context, a *sig.Args, _ registry.Bits) error {
	st := ctx.State()
	st.Gpr(gprIdx(a, 0)).Set(st.LR)
	return nil
}
