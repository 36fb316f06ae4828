package instr_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	_ "github.com/lookbusy1344/ppc-interp/internal/instr"
	"github.com/lookbusy1344/ppc-interp/internal/interp"
)

func newArithContext(t *testing.T, source string) (*interp.Context, *cpu.State) {
	t.Helper()
	state := cpu.NewState()
	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	var out strings.Builder
	return interp.NewContext(source, state, mem, &out), state
}

func TestMullw_MultipliesSignedValues(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,6\nli r2,7\nmullw r3,r1,r2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(3).S32(); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestDivw_DividesSignedValues(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,20\nli r2,3\ndivw r3,r1,r2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(3).S32(); got != 6 {
		t.Errorf("got %d, want 6 (truncated toward zero)", got)
	}
}

func TestDivw_DivisionByZeroReturnsZero(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,20\nli r2,0\ndivw r3,r1,r2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(3).S32(); got != 0 {
		t.Errorf("got %d, want 0 for division by zero", got)
	}
}

func TestAddic_SetsCarryOnOverflow(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,-1\naddic r2,r1,1\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).U32(); got != 0 {
		t.Errorf("got %#x, want 0", got)
	}
	if !st.GetXERCA() {
		t.Error("expected XER CA to be set when 0xFFFFFFFF + 1 wraps")
	}
}

func TestAdde_AddsWithIncomingCarry(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,-1\naddic r2,r1,1\nli r3,5\nli r4,10\nadde r5,r3,r4\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(5).S32(); got != 16 {
		t.Errorf("got %d, want 16 (5+10+carry-in)", got)
	}
}

func TestNeg_NegatesValue(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,5\nneg r2,r1\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).S32(); got != -5 {
		t.Errorf("got %d, want -5", got)
	}
}

func TestAbs_ReturnsMagnitude(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,-9\nabs r2,r1\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).S32(); got != 9 {
		t.Errorf("got %d, want 9", got)
	}
}

func TestAddiDot_SetsCr0FromResult(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,0\naddi. r2,r1,0\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Cr(0); got != cpu.CREQ {
		t.Errorf("cr0: got %#x, want CREQ (zero result)", got)
	}
}

func TestMulliDot_SetsCr0FromResult(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,3\nmulli. r2,r1,0\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Cr(0); got != cpu.CREQ {
		t.Errorf("cr0: got %#x, want CREQ (zero result)", got)
	}
	if got := st.Gpr(2).S32(); got != 0 {
		t.Errorf("r2: got %d, want 0", got)
	}
}

func TestSubfic_ComputesImmediateMinusRegister(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,3\nsubfic r2,r1,10\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).S32(); got != 7 {
		t.Errorf("r2: got %d, want 7 (si-ra)", got)
	}
}

func TestSubf_SubtractsInReverseOperandOrder(t *testing.T) {
	ctx, st := newArithContext(t, "li r1,3\nli r2,10\nsubf r3,r1,r2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(3).S32(); got != 7 {
		t.Errorf("got %d, want 7 (rb-ra)", got)
	}
}
