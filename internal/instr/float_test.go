package instr_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	_ "github.com/lookbusy1344/ppc-interp/internal/instr"
	"github.com/lookbusy1344/ppc-interp/internal/interp"
)

func newFloatContext(t *testing.T, source string) (*interp.Context, *cpu.State) {
	t.Helper()
	state := cpu.NewState()
	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	state.Fpr(1).SetF64(2.5)
	state.Fpr(2).SetF64(4.0)
	var out strings.Builder
	return interp.NewContext(source, state, mem, &out), state
}

func TestFadd_AddsDoubles(t *testing.T) {
	ctx, st := newFloatContext(t, "fadd f3,f1,f2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Fpr(3).F64(); got != 6.5 {
		t.Errorf("got %v, want 6.5", got)
	}
}

func TestFmul_MultipliesDoubles(t *testing.T) {
	ctx, st := newFloatContext(t, "fmul f3,f1,f2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Fpr(3).F64(); got != 10.0 {
		t.Errorf("got %v, want 10.0", got)
	}
}

func TestFsub_SubtractsDoubles(t *testing.T) {
	ctx, st := newFloatContext(t, "fsub f3,f2,f1\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Fpr(3).F64(); got != 1.5 {
		t.Errorf("got %v, want 1.5", got)
	}
}

func TestFneg_FlipsSignBit(t *testing.T) {
	ctx, st := newFloatContext(t, "fneg f3,f1\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Fpr(3).F64(); got != -2.5 {
		t.Errorf("got %v, want -2.5", got)
	}
}

func TestFabs_ClearsSignBit(t *testing.T) {
	ctx, st := newFloatContext(t, "fneg f3,f1\nfabs f4,f3\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Fpr(4).F64(); got != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
}

func TestFmr_CopiesWholeRegister(t *testing.T) {
	ctx, st := newFloatContext(t, "fmr f3,f1\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Fpr(3).F64(); got != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
}

func TestFmadd_FusedMultiplyAdd(t *testing.T) {
	ctx, st := newFloatContext(t, "fmadd f3,f1,f2,f1\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 2.5*4.0 + 2.5
	if got := st.Fpr(3).F64(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFsqrt_ComputesSquareRoot(t *testing.T) {
	ctx, st := newFloatContext(t, "fsqrt f3,f2\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Fpr(3).F64(); got != 2.0 {
		t.Errorf("got %v, want 2.0", got)
	}
}

func TestStfdLfd_RoundTripThroughMemory(t *testing.T) {
	ctx, st := newFloatContext(t, "stfd f1,0(r5)\nlfd f6,0(r5)\n.exit\n")
	st.Gpr(5).Set(cpu.MappedBase + 0x40)
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Fpr(6).F64(); got != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
}
