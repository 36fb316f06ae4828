package instr_test

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	_ "github.com/lookbusy1344/ppc-interp/internal/instr"
	"github.com/lookbusy1344/ppc-interp/internal/interp"
)

func newDirectivesContext(t *testing.T, source string) (*interp.Context, *strings.Builder) {
	t.Helper()
	state := cpu.NewState()
	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	var out strings.Builder
	return interp.NewContext(source, state, mem, &out), &out
}

func TestEcho_AcceptsDoubleQuotedString(t *testing.T) {
	ctx, out := newDirectivesContext(t, "li r1,7\n.echo \"r1={r1}\"\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "r1=7\n" {
		t.Errorf("got %q, want %q", got, "r1=7\n")
	}
}

func TestEcho_AcceptsSingleQuotedString(t *testing.T) {
	ctx, out := newDirectivesContext(t, "li r1,7\n.echo 'r1={r1}'\n.exit\n")
	if err := ctx.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "r1=7\n" {
		t.Errorf("got %q, want %q", got, "r1=7\n")
	}
}

func TestEcho_RejectsMismatchedQuotes(t *testing.T) {
	ctx, _ := newDirectivesContext(t, ".echo \"unterminated'\n.exit\n")
	if err := ctx.Run(); err == nil {
		t.Error("expected an error for mismatched opening/closing quotes")
	}
}
