package interp_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/interp"
	_ "github.com/lookbusy1344/ppc-interp/internal/instr"
)

func newContext(t *testing.T, source string) (*interp.Context, *cpu.State, *strings.Builder) {
	t.Helper()
	state := cpu.NewState()
	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	var out strings.Builder
	return interp.NewContext(source, state, mem, &out), state, &out
}

func TestRun_AddiSequence(t *testing.T) {
	ctx, st, _ := newContext(t, "addi r3,r0,5\naddi r4,r3,10\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(3).S32(); got != 5 {
		t.Errorf("r3: got %d, want 5", got)
	}
	if got := st.Gpr(4).S32(); got != 15 {
		t.Errorf("r4: got %d, want 15", got)
	}
}

func TestRun_EchoOutput(t *testing.T) {
	ctx, _, out := newContext(t, "addi r1,r0,7\n.echo \"r1={r1}\"\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "r1=7\n" {
		t.Errorf("echo output: got %q, want %q", got, "r1=7\n")
	}
}

func TestRun_ForwardBranchSkipsBody(t *testing.T) {
	source := "addi r1,r0,1\nb skip\naddi r1,r0,99\nskip:\naddi r2,r0,2\n.exit\n"
	ctx, st, _ := newContext(t, source)
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(1).S32(); got != 1 {
		t.Errorf("r1: got %d, want 1 (forward-branch body should be skipped)", got)
	}
	if got := st.Gpr(2).S32(); got != 2 {
		t.Errorf("r2: got %d, want 2", got)
	}
}

func TestRun_BackwardBranchLoops(t *testing.T) {
	source := "addi r1,r0,0\naddi r2,r0,3\nloop:\naddi r1,r1,1\nsubi r2,r2,1\ncmpwi cr0,r2,0\nbne loop\n.exit\n"
	ctx, st, _ := newContext(t, source)
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := st.Gpr(1).S32(); got != 3 {
		t.Errorf("r1: got %d, want 3 after looping", got)
	}
}

func TestRun_UnknownOperationErrors(t *testing.T) {
	ctx, _, _ := newContext(t, "bogus r1,r2\n")
	if err := ctx.Run(); err == nil {
		t.Error("expected error for unknown operation")
	}
}

func TestStep_SingleStepsOneLine(t *testing.T) {
	ctx, st, _ := newContext(t, "addi r1,r0,1\naddi r2,r0,2\n.exit\n")

	halted, err := ctx.Step()
	if err != nil || halted {
		t.Fatalf("unexpected first step result: halted=%v err=%v", halted, err)
	}
	if st.Gpr(1).S32() != 1 {
		t.Errorf("expected r1=1 after first step, got %d", st.Gpr(1).S32())
	}
	if st.Gpr(2).S32() != 0 {
		t.Errorf("expected r2 untouched after first step, got %d", st.Gpr(2).S32())
	}

	halted, err = ctx.Step()
	if err != nil || halted {
		t.Fatalf("unexpected second step result: halted=%v err=%v", halted, err)
	}
	if st.Gpr(2).S32() != 2 {
		t.Errorf("expected r2=2 after second step, got %d", st.Gpr(2).S32())
	}
}

func TestRun_MissingBranchTargetErrors(t *testing.T) {
	ctx, _, _ := newContext(t, "b nowhere\n")
	if err := ctx.Run(); err == nil {
		t.Error("expected error for unresolved forward branch at EOF")
	}
}

func TestRun_CommentsAndBlankLinesIgnored(t *testing.T) {
	source := "; a comment\n\naddi r1,r0,1 ; trailing comment\n.exit\n"
	ctx, st, _ := newContext(t, source)
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Gpr(1).S32() != 1 {
		t.Errorf("expected r1=1, got %d", st.Gpr(1).S32())
	}
}
