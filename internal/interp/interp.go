package interp

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/internal/sig"
)

// Run executes the program until a directive requests a stop (.exit),
// the source is exhausted, or an error occurs. It implements the spec's
// §4.4 line interpreter algorithm directly, driven by repeated Step calls
// so a debugger can interpose between them.
func (c *Context) Run() error {
	for {
		halted, err := c.Step()
		if err != nil || halted {
			return err
		}
	}
}

// Step processes exactly one source line: a blank line, a comment, a label
// declaration, or one dispatched instruction/directive. It returns
// halted=true when the program has nothing left to execute (.exit ran, or
// the source is exhausted) — internal/debugger uses this to single-step
// without re-implementing the line algorithm.
func (c *Context) Step() (halted bool, err error) {
	line, ok := c.src.ReadLine()
	if !ok {
		if c.pendingBranch {
			return true, &SemanticError{
				Line:    c.lineNo,
				Message: fmt.Sprintf("missing branch target '%s'", c.pendingLabel),
			}
		}
		return true, nil
	}
	c.lineNo++

	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return false, nil
	}

	word, rest := splitWord(trimmed)

	if afterWord := strings.TrimLeft(rest, " "); len(afterWord) > 0 && afterWord[0] == ':' {
		pos := c.src.Tell()
		c.labels[word] = pos
		if c.pendingBranch && c.pendingLabel == word {
			c.pendingBranch = false
		}
		return false, nil
	}

	if c.pendingBranch {
		return false, nil
	}

	operandText := strings.TrimLeft(rest, " ")

	if strings.HasPrefix(word, ".") {
		entry, ok := registry.LookupDirective(word)
		if !ok {
			return true, &SemanticError{Line: c.lineNo, Message: "unknown operation"}
		}
		cont, err := entry.Body(c, operandText)
		if err != nil {
			return true, err
		}
		return !cont, nil
	}

	entry, bits, ok := registry.LookupInstruction(word)
	if !ok {
		return true, &SemanticError{Line: c.lineNo, Message: "unknown operation"}
	}

	cursor := sig.NewCursor(operandText)
	args, err := sig.Match(entry.Signature, cursor)
	if err != nil {
		return true, &SyntaxError{Line: c.lineNo, Message: err.Error()}
	}

	if err := entry.Body(c, args, bits); err != nil {
		return true, err
	}

	if c.InstructionHook != nil {
		c.InstructionHook(c.lineNo, word)
	}
	return false, nil
}

// splitWord returns the leading run of s up to (but not including) the
// first space or ':' as word, and the remainder (including the
// terminator, if any) as rest.
func splitWord(s string) (word, rest string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == ':' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
