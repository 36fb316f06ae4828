package interp

import (
	"io"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
)

// Context is the line interpreter's running state: architected
// registers/memory, the label table, and the pending-forward-branch
// flag. It implements registry.Context so instruction/directive bodies
// can reach back into the interpreter without internal/registry
// depending on internal/interp.
type Context struct {
	state *cpu.State
	mem   *cpu.Memory
	src   *Source
	out   io.Writer
	text  string

	labels map[string]int64

	pendingBranch bool
	pendingLabel  string

	lineNo int

	// InstructionHook, if set, is called after every dispatched
	// instruction with its mnemonic and source line — the seam
	// internal/trace's instruction tracer attaches to.
	InstructionHook func(line int, mnemonic string)
}

// NewContext builds an interpreter context over program text, a register
// file, and a memory buffer.
func NewContext(text string, state *cpu.State, mem *cpu.Memory, out io.Writer) *Context {
	return &Context{
		state:  state,
		mem:    mem,
		src:    NewSource(text),
		out:    out,
		text:   text,
		labels: make(map[string]int64),
	}
}

// SourceText returns the program text the context was built from, the
// seam a frontend (TUI, API) uses to show source lines without
// re-implementing the seekable Source itself.
func (c *Context) SourceText() string { return c.text }

// State returns the architected register file.
func (c *Context) State() *cpu.State { return c.state }

// Memory returns the flat memory buffer.
func (c *Context) Memory() *cpu.Memory { return c.mem }

// Tell returns the current stream position.
func (c *Context) Tell() int64 { return c.src.Tell() }

// Seek performs an absolute jump within the source stream.
func (c *Context) Seek(pos int64) { c.src.Seek(pos) }

// Echo writes formatted .echo output.
func (c *Context) Echo(s string) {
	if c.out != nil {
		io.WriteString(c.out, s)
	}
}

// Branch jumps to label if its position is already known (a backward or
// already-resolved branch); otherwise it arms the forward-branch-pending
// flag so the run loop skips ahead looking for the declaration.
func (c *Context) Branch(label string) {
	if pos, ok := c.labels[label]; ok {
		c.src.Seek(pos)
		return
	}
	c.pendingBranch = true
	c.pendingLabel = label
}

// LineNo returns the 1-based number of the line currently executing.
func (c *Context) LineNo() int { return c.lineNo }
