package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/ppc-interp/internal/format"
)

// TUI is the full-screen tcell/tview debugger front end, grounded on the
// teacher's debugger/tui.go layout but scoped down to what this
// interpreter has to show: no disassembly or memory-hexdump panel (there
// is no decode step), so the source pane doubles as both, and the
// register panel lists GPRs/CR/XER/CTR/LR instead of R0-R15/CPSR.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout      *tview.Flex
	SourceView      *tview.TextView
	RegisterView    *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	sourceLines []string
}

// NewTUI builds a TUI wrapping dbg.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger:    dbg,
		App:         tview.NewApplication(),
		sourceLines: strings.Split(dbg.Ctx.SourceText(), "\n"),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Echo output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, RegisterViewRows, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.SourceView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.Debugger.History.Add(cmd)
		t.executeCommand(cmd)
		t.CommandInput.SetText("")
	}
}

// executeCommand implements step/continue/break <line|label>/print <key>[:style],
// the same minimal command grammar the teacher's executeCommand dispatches
// to, reduced to this interpreter's line-numbered breakpoints and echo
// format mini-language.
func (t *TUI) executeCommand(cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "step":
		halted, err := t.Debugger.Step()
		t.report(halted, err)

	case "continue":
		// Run in DisplayUpdateFrequency-sized chunks so the TUI repaints
		// periodically during a long continuous run instead of only once
		// execution finally stops.
		for {
			reason, err := t.Debugger.Continue(DisplayUpdateFrequency)
			if err != nil {
				t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
				break
			}
			if reason != StopStepLimit {
				t.WriteOutput(fmt.Sprintf("stopped: %s\n", reasonString(reason)))
				break
			}
			t.RefreshAll()
		}

	case "break":
		if len(fields) < 2 {
			t.WriteOutput("[red]usage: break <line|label>[white]\n")
			break
		}
		line, ok := t.resolveBreakTarget(fields[1])
		if !ok {
			t.WriteOutput(fmt.Sprintf("[red]unknown line or label: %s[white]\n", fields[1]))
			break
		}
		bp := t.Debugger.Breakpoints.AddBreakpoint(uint32(line), false, "")
		t.WriteOutput(fmt.Sprintf("breakpoint %d set at line %d\n", bp.ID, line))

	case "print":
		if len(fields) < 2 {
			t.WriteOutput("[red]usage: print <key>[:style][white]\n")
			break
		}
		rendered, err := format.Render(t.Debugger.State(), "{"+fields[1]+"}")
		if err != nil {
			t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
			break
		}
		t.WriteOutput(rendered + "\n")

	case "help":
		t.WriteOutput("step | continue | break <line|label> | print <key>[:style]\n")

	default:
		t.WriteOutput(fmt.Sprintf("[red]unknown command:[white] %s\n", fields[0]))
	}

	t.RefreshAll()
}

func (t *TUI) report(halted bool, err error) {
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
		return
	}
	if halted {
		t.WriteOutput("[yellow]program halted[white]\n")
	}
}

func reasonString(r StopReason) string {
	switch r {
	case StopHalted:
		return "halted"
	case StopBreakpoint:
		return "breakpoint"
	case StopStepLimit:
		return "step limit"
	default:
		return "unknown"
	}
}

// WriteOutput appends text to the output pane and scrolls to the end.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current debugger state.
func (t *TUI) RefreshAll() {
	t.updateSourceView()
	t.updateRegisterView()
	t.updateBreakpointsView()
	t.App.Draw()
}

// resolveBreakTarget accepts either a 1-based line number or a label name
// (per spec §4.15, breakpoints are keyed by either) and returns the 1-based
// line to break at. Labels are resolved by scanning the source text for a
// "<word>:" declaration line, independent of internal/interp.Context's own
// lazily-populated label table (which may not yet know a forward label the
// debugger hasn't executed past).
func (t *TUI) resolveBreakTarget(target string) (int, bool) {
	if line, err := strconv.Atoi(target); err == nil {
		return line, true
	}
	for i, raw := range t.sourceLines {
		trimmed := strings.TrimLeft(raw, " ")
		word, rest := splitWord(trimmed)
		if word == target && strings.HasPrefix(strings.TrimLeft(rest, " "), ":") {
			return i + 1, true
		}
	}
	return 0, false
}

// splitWord mirrors internal/interp's label-line recognition: the leading
// run up to the first space or ':'.
func splitWord(s string) (word, rest string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == ':' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func (t *TUI) updateSourceView() {
	t.SourceView.Clear()
	current := t.Debugger.Ctx.LineNo()

	const before, after = CodeContextLinesBeforeCompact, CodeContextLinesAfterCompact
	start := current - before
	if start < 0 {
		start = 0
	}
	end := current + after
	if end > len(t.sourceLines) {
		end = len(t.sourceLines)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		lineNo := i + 1
		marker := "  "
		if lineNo == current {
			marker = "->"
		}
		if t.Debugger.Breakpoints.HasBreakpoint(uint32(lineNo)) {
			fmt.Fprintf(&b, "[red]%s %4d %s[white]\n", marker, lineNo, t.sourceLines[i])
		} else {
			fmt.Fprintf(&b, "%s %4d %s\n", marker, lineNo, t.sourceLines[i])
		}
	}
	t.SourceView.SetText(b.String())
}

func (t *TUI) updateRegisterView() {
	st := t.Debugger.State()
	var lines []string
	for i := 0; i < 32/RegisterGroupSize; i++ {
		var cols []string
		for j := 0; j < RegisterGroupSize; j++ {
			reg := i*RegisterGroupSize + j
			cols = append(cols, fmt.Sprintf("r%-2d: %#010x", reg, st.Gpr(reg).U32()))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("cr0: %04b  xer: %#04x  ctr: %#010x  lr: %#010x", st.Cr(0), st.XER, st.CTR, st.LR))
	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateBreakpointsView() {
	t.BreakpointsView.Clear()
	var b strings.Builder
	for _, bp := range t.Debugger.Breakpoints.GetAllBreakpoints() {
		state := "enabled"
		if !bp.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(&b, "#%d line %d (%s, hits=%d)\n", bp.ID, bp.Line, state, bp.HitCount)
	}
	t.BreakpointsView.SetText(b.String())
}

// Run starts the TUI event loop; it blocks until the user quits.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]ippc interactive debugger[white]\n")
	t.WriteOutput("F11 step, F5 continue, Ctrl-C quit. Type 'help' for commands.\n\n")
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}

// Stop halts the TUI event loop.
func (t *TUI) Stop() { t.App.Stop() }

// RunTUI builds and runs a TUI over dbg, the entry point cmd/ippc uses for
// -tui mode.
func RunTUI(dbg *Debugger) error {
	return NewTUI(dbg).Run()
}
