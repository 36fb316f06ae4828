// Package registry implements the two self-registering operation tables —
// directives and instructions — described by the spec's Operation
// Registry component. Unlike the original's construction-order-dependent
// linked list of static objects (CDirective/CInstruction's `sFirst`/`next`
// chain), entries here are collected into an explicit map built by each
// instruction family's init() function, exactly the upgrade called for by
// the spec's own design note: "replace construction-order side effects
// with an explicit registry built during initialization".
package registry

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

// Bits carries the record (rc) and overflow-enable (oe) bits recovered
// from an instruction mnemonic's suffix.
type Bits struct {
	RC bool
	OE bool
}

// Context is everything an instruction or directive body needs from the
// running interpreter: the architected register/memory state and the
// branch-control hooks. internal/interp.Context implements this
// interface; registry itself has no dependency on internal/interp,
// avoiding an import cycle between dispatch and the line reader.
type Context interface {
	State() *cpu.State
	Memory() *cpu.Memory
	// Branch jumps to the pending label if its position is already
	// known, otherwise arms the forward-branch-pending flag.
	Branch(label string)
	// Seek performs an absolute jump to a previously resolved stream
	// position (used for bd-form branches and for resuming at a label
	// once the pending flag clears).
	Seek(pos int64)
	// Tell returns the current stream position, used to capture return
	// addresses for linked branches.
	Tell() int64
	// Echo writes formatted .echo output to the session's output sink.
	Echo(s string)
}

// InstructionFunc is the body of a registered instruction.
type InstructionFunc func(ctx Context, args *sig.Args, bits Bits) error

// DirectiveFunc is the body of a registered directive. Directives do not
// go through the typed-slot signature grammar — .echo's quoted-string
// argument with backslash escapes has no typed-slot representation, so
// every directive simply receives the raw text following its name and
// parses it itself, matching the original's directive bodies calling
// readString directly rather than through parseSignature. The returned
// bool is false only for directives that should stop the interpreter
// (.exit), matching the original's "boolean return propagates" dispatch
// rule.
type DirectiveFunc func(ctx Context, rawArgs string) (bool, error)

// InstrEntry is one registered instruction.
type InstrEntry struct {
	Key       string
	Signature *sig.Signature
	Body      InstructionFunc
	AllowRC   bool
	AllowOE   bool
}

// DirEntry is one registered directive.
type DirEntry struct {
	Key  string
	Body DirectiveFunc
}

// Registry holds the two operation tables. A single package-level
// instance (Default) is populated by each instruction family's init().
type Registry struct {
	instructions map[string]*InstrEntry
	directives   map[string]*DirEntry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		instructions: make(map[string]*InstrEntry),
		directives:   make(map[string]*DirEntry),
	}
}

// Default is the process-wide registry populated by internal/instr's
// family init() functions, and consulted by internal/interp.
var Default = New()

// RegisterInstruction adds an instruction under key, compiling signature
// once. allowRC/allowOE declare whether the "." and "o" mnemonic suffixes
// are recognized for this instruction (most fixed-point ops allow both;
// branches and directives-adjacent ops typically allow neither).
func RegisterInstruction(key, signature string, allowRC, allowOE bool, body InstructionFunc) {
	compiled := sig.MustCompile(signature)
	if _, exists := Default.instructions[key]; exists {
		panic(fmt.Sprintf("registry: instruction %q already registered", key))
	}
	Default.instructions[key] = &InstrEntry{
		Key:       key,
		Signature: compiled,
		Body:      body,
		AllowRC:   allowRC,
		AllowOE:   allowOE,
	}
}

// RegisterDirective adds a directive under its literal key (including the
// leading '.').
func RegisterDirective(key string, body DirectiveFunc) {
	if _, exists := Default.directives[key]; exists {
		panic(fmt.Sprintf("registry: directive %q already registered", key))
	}
	Default.directives[key] = &DirEntry{
		Key:  key,
		Body: body,
	}
}

// LookupDirective finds a directive by its exact literal key.
func LookupDirective(word string) (*DirEntry, bool) {
	e, ok := Default.directives[word]
	return e, ok
}

// LookupInstruction finds an instruction by mnemonic, tolerating a
// trailing "." (record bit) and/or "o" (overflow-enable bit), in that
// order, matching CInstruction::Fetch in the original: the exact word is
// tried first, then the word is stripped of a trailing "." and then a
// trailing "o" and the remainder is looked up; the bits are only honored
// if the matched entry declares it allows them.
func LookupInstruction(word string) (*InstrEntry, Bits, bool) {
	if e, ok := Default.instructions[word]; ok {
		return e, Bits{}, true
	}

	key := word
	var rc, oe bool
	if strings.HasSuffix(key, ".") {
		rc = true
		key = key[:len(key)-1]
	}
	if strings.HasSuffix(key, "o") {
		oe = true
		key = key[:len(key)-1]
	}
	if key == word {
		return nil, Bits{}, false
	}

	e, ok := Default.instructions[key]
	if !ok {
		return nil, Bits{}, false
	}
	if rc && !e.AllowRC {
		return nil, Bits{}, false
	}
	if oe && !e.AllowOE {
		return nil, Bits{}, false
	}
	return e, Bits{RC: rc, OE: oe}, true
}

// Reset clears the default registry; used only by tests that need a
// pristine table.
func Reset() {
	Default = New()
}
