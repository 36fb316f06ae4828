package registry

import (
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

func noopInstr(ctx Context, args *sig.Args, bits Bits) error { return nil }
func noopDir(ctx Context, raw string) (bool, error)          { return true, nil }

func TestLookupInstruction_ExactMatch(t *testing.T) {
	Reset()
	defer Reset()

	RegisterInstruction("add", "{rd:gpr},{ra:gpr},{rb:gpr}", true, true, noopInstr)

	e, bits, ok := LookupInstruction("add")
	if !ok {
		t.Fatal("expected exact match to succeed")
	}
	if bits.RC || bits.OE {
		t.Errorf("expected no suffix bits for exact match, got %+v", bits)
	}
	if e.Key != "add" {
		t.Errorf("expected key 'add', got %q", e.Key)
	}
}

func TestLookupInstruction_RecordAndOverflowSuffixes(t *testing.T) {
	Reset()
	defer Reset()

	RegisterInstruction("add", "{rd:gpr},{ra:gpr},{rb:gpr}", true, true, noopInstr)

	_, bits, ok := LookupInstruction("add.")
	if !ok || !bits.RC {
		t.Fatalf("expected add. to match with RC set, got ok=%v bits=%+v", ok, bits)
	}

	_, bits, ok = LookupInstruction("addo")
	if !ok || !bits.OE {
		t.Fatalf("expected addo to match with OE set, got ok=%v bits=%+v", ok, bits)
	}

	_, bits, ok = LookupInstruction("addo.")
	if !ok || !bits.OE || !bits.RC {
		t.Fatalf("expected addo. to match with both bits set, got ok=%v bits=%+v", ok, bits)
	}
}

func TestLookupInstruction_SuffixDeniedWhenNotAllowed(t *testing.T) {
	Reset()
	defer Reset()

	RegisterInstruction("b", "{target:addr}", false, false, noopInstr)

	if _, _, ok := LookupInstruction("b."); ok {
		t.Error("expected suffix match to fail when AllowRC is false")
	}
}

func TestLookupInstruction_UnknownMnemonicFails(t *testing.T) {
	Reset()
	defer Reset()

	if _, _, ok := LookupInstruction("bogus"); ok {
		t.Error("expected unknown mnemonic to fail lookup")
	}
}

func TestRegisterInstruction_DuplicatePanics(t *testing.T) {
	Reset()
	defer Reset()

	RegisterInstruction("add", "{rd:gpr}", false, false, noopInstr)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	RegisterInstruction("add", "{rd:gpr}", false, false, noopInstr)
}

func TestLookupDirective(t *testing.T) {
	Reset()
	defer Reset()

	RegisterDirective(".exit", noopDir)

	e, ok := LookupDirective(".exit")
	if !ok || e.Key != ".exit" {
		t.Fatalf("expected .exit to be registered, got ok=%v e=%+v", ok, e)
	}

	if _, ok := LookupDirective(".bogus"); ok {
		t.Error("expected unknown directive to fail lookup")
	}
}
