package instr

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/ppc-interp/internal/format"
	"github.com/lookbusy1344/ppc-interp/internal/registry"
	"github.com/lookbusy1344/ppc-interp/parser"
)

func init() {
	registry.RegisterDirective(".exit", opExit)
	registry.RegisterDirective(".echo", opEcho)
}

// opExit halts the run loop, mirroring the original's ".exit" directive
// callback returning false to stop interpretation.
func opExit(_ registry.Context, _ string) (bool, error) {
	return false, nil
}

// opEcho reads a quoted string literal (single or double quotes), expands its backslash
// escapes, renders its "{key[:style]}" placeholders against the current
// register file, and writes the result followed by a newline — the Go
// equivalent of the original's readString()+PrintRegistre() pipeline.
func opEcho(ctx registry.Context, rawArgs string) (bool, error) {
	literal, err := readQuotedString(rawArgs)
	if err != nil {
		return false, err
	}
	unescaped := parser.ProcessEscapeSequences(literal)

	rendered, err := format.Render(ctx.State(), unescaped)
	if err != nil {
		return false, err
	}

	ctx.Echo(rendered)
	ctx.Echo("\n")
	return true, nil
}

// readQuotedString expects a single string literal, terminated by whichever
// quote character opens it (" or '), optionally surrounded by whitespace.
func readQuotedString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", fmt.Errorf(".echo: expected a quoted string")
	}
	terminator := s[0]
	if terminator != '"' && terminator != '\'' || s[len(s)-1] != terminator {
		return "", fmt.Errorf(".echo: expected a quoted string")
	}
	return s[1 : len(s)-1], nil
}
