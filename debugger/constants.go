package debugger

// TUI Display Update Constants
const (
	// DisplayUpdateFrequency controls how often the TUI display updates during continuous execution
	// (every N cycles to keep display responsive without overwhelming the terminal)
	DisplayUpdateFrequency = 100
)

// Code View Context Constants
const (
	// CodeContextLinesBeforeCompact is the number of lines to show before PC in the source panel
	CodeContextLinesBeforeCompact = 5

	// CodeContextLinesAfterCompact is the number of lines to show after PC in the source panel
	CodeContextLinesAfterCompact = 10
)

// Register Display Constants
const (
	// RegisterViewRows is the fixed height of the register view panel
	// (8 rows of GPRs + blank line + status line + borders)
	RegisterViewRows = 12

	// RegisterGroupSize is the number of GPRs displayed per row (32 GPRs / 4 = 8 rows)
	RegisterGroupSize = 4
)
