// Package debugger wraps an internal/interp.Context with breakpoints and
// command history, the line-oriented counterpart to the original's
// address-oriented breakpoint/watchpoint/TUI debugger. Breakpoints.go and
// history.go are carried over from that original nearly unchanged — a
// source line number serves the same role a memory address did there.
package debugger

import (
	"fmt"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/interp"
)

// StopReason explains why Continue returned control to the caller.
type StopReason int

const (
	StopHalted StopReason = iota
	StopBreakpoint
	StopStepLimit
)

// Debugger drives a Context one line (or one breakpoint-bounded run) at a
// time, recording the command history of whatever frontend (CLI REPL, TUI,
// HTTP API) is built on top of it.
type Debugger struct {
	Ctx         *interp.Context
	Breakpoints *BreakpointManager
	History     *CommandHistory
}

// New wraps ctx with a fresh breakpoint manager and command history.
func New(ctx *interp.Context) *Debugger {
	return &Debugger{
		Ctx:         ctx,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(),
	}
}

// State exposes the register file for display/expression evaluation.
func (d *Debugger) State() *cpu.State { return d.Ctx.State() }

// Step executes exactly one source line, returning the new halted status.
func (d *Debugger) Step() (halted bool, err error) {
	return d.Ctx.Step()
}

// Continue single-steps until a breakpoint's line is reached, the program
// halts, or maxSteps is exhausted (0 disables the limit). The TUI's
// continue command passes DisplayUpdateFrequency so the display repaints
// between chunks of a long run.
func (d *Debugger) Continue(maxSteps int) (StopReason, error) {
	steps := 0
	for {
		halted, err := d.Ctx.Step()
		if err != nil {
			return StopHalted, err
		}
		if halted {
			return StopHalted, nil
		}
		steps++

		line := uint32(d.Ctx.LineNo())
		if bp := d.Breakpoints.GetBreakpoint(line); bp != nil && bp.Enabled {
			d.Breakpoints.ProcessHit(line)
			return StopBreakpoint, nil
		}

		if maxSteps > 0 && steps >= maxSteps {
			return StopStepLimit, nil
		}
	}
}

// Disassemble-free status line: current line number plus a short register
// summary, grounded on the original debugger's compact status display.
func (d *Debugger) Status() string {
	st := d.State()
	return fmt.Sprintf("line=%d r0=%d r1=%d lr=%#x ctr=%#x", d.Ctx.LineNo(), st.Gpr(0).S32(), st.Gpr(1).S32(), st.LR, st.CTR)
}
