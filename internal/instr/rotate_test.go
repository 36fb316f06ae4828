package instr_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	_ "github.com/lookbusy1344/ppc-interp/internal/instr"
	"github.com/lookbusy1344/ppc-interp/internal/interp"
)

func newRotateContext(t *testing.T, source string) (*interp.Context, *cpu.State) {
	t.Helper()
	state := cpu.NewState()
	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	var out strings.Builder
	return interp.NewContext(source, state, mem, &out), state
}

func TestSlwi_ShiftsLeft(t *testing.T) {
	ctx, st := newRotateContext(t, "li r1,1\nslwi r2,r1,4\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).U32(); got != 16 {
		t.Errorf("got %d, want 16", got)
	}
}

func TestSrwi_ShiftsRightLogical(t *testing.T) {
	ctx, st := newRotateContext(t, "li r1,0x100\nsrwi r2,r1,4\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).U32(); got != 0x10 {
		t.Errorf("got %#x, want 0x10", got)
	}
}

func TestRotlwi_RotatesBitsAround(t *testing.T) {
	ctx, st := newRotateContext(t, "li r1,1\nrotlwi r2,r1,31\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).U32(); got != 0x80000000 {
		t.Errorf("got %#x, want 0x80000000 (bottom bit rotated to the top)", got)
	}
}

func TestSrawi_ArithmeticShiftPreservesSign(t *testing.T) {
	ctx, st := newRotateContext(t, "li r1,-16\nsrawi r2,r1,2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).S32(); got != -4 {
		t.Errorf("got %d, want -4", got)
	}
}

func TestSrawi_SetsCarryWhenBitsShiftedOut(t *testing.T) {
	ctx, st := newRotateContext(t, "li r1,-1\nsrawi r2,r1,1\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.GetXERCA() {
		t.Error("expected XER CA to be set when shifting out a 1 bit from a negative value")
	}
}

func TestSlw_ShiftAmountOf32YieldsZero(t *testing.T) {
	ctx, st := newRotateContext(t, "li r1,1\nli r2,32\nslw r3,r1,r2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(3).U32(); got != 0 {
		t.Errorf("got %d, want 0 for shift amount >= 32", got)
	}
}

func TestRlwinm_MasksAndRotates(t *testing.T) {
	ctx, st := newRotateContext(t, "li r1,0xFF\nrlwinm r2,r1,4,0,31\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(2).U32(); got != 0xFF0 {
		t.Errorf("got %#x, want 0xff0", got)
	}
}
