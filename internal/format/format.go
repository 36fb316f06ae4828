// Package format implements the .echo register-format mini-language:
// "{key[:style]}" placeholders inside a quoted directive string, where key
// names a GPR ("r0".."r31") or FPR ("f0".."f31") and style is an optional
// run of flags, width, and (FPR-only) precision, terminated by a type
// character. Grounded on original_source/directive.cpp's PrintRegistre.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
)

// Render expands every "{key[:style]}" placeholder in text against st,
// doubling "{{" to a literal "{". It returns the first formatting error
// encountered, matching the original's "bad print sequence" abort-on-first-
// error behaviour.
func Render(st *cpu.State, text string) (string, error) {
	var out strings.Builder
	cursor := text

	for cursor != "" {
		start := strings.IndexByte(cursor, '{')
		if start == -1 {
			out.WriteString(cursor)
			break
		}
		out.WriteString(cursor[:start])
		cursor = cursor[start+1:]

		if cursor == "" {
			return "", fmt.Errorf("bad print sequence")
		}
		if cursor[0] == '{' {
			out.WriteByte('{')
			cursor = cursor[1:]
			continue
		}

		end := strings.IndexByte(cursor, '}')
		if end == -1 {
			return "", fmt.Errorf("bad print sequence")
		}
		field := cursor[:end]
		cursor = cursor[end+1:]

		key, style, _ := strings.Cut(field, ":")
		if key == "" {
			return "", fmt.Errorf("bad print sequence")
		}
		rendered, err := renderField(st, key, style)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
	}

	return out.String(), nil
}

func renderField(st *cpu.State, key, style string) (string, error) {
	switch key[0] {
	case 'r':
		return renderGPR(st, key, style)
	case 'f':
		return renderFPR(st, key, style)
	default:
		return "", fmt.Errorf("bad print sequence")
	}
}

// parseIndex accepts 1-2 decimal digits after the one-letter prefix,
// matching the original's hand-rolled "key.size()==2 || key.size()==3"
// check (index range 0-32, not 0-31: the original never tightens this,
// and out-of-range indices are caught downstream by State.Gpr/Fpr).
func parseIndex(key string) (int, error) {
	digits := key[1:]
	if len(digits) < 1 || len(digits) > 2 {
		return 0, fmt.Errorf("bad print sequence")
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("bad print sequence")
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n > 32 {
		return 0, fmt.Errorf("bad print sequence")
	}
	return n, nil
}

// styleFlags holds the scanned "-+#0" prefix flags, width, and (FPR-only)
// precision that precede the terminal type character.
type styleFlags struct {
	leftAlign bool
	showSign  bool
	showBase  bool // '#': showbase for GPR hex, showpoint for FPR
	zeroPad   bool
	width     int
	hasPrec   bool
	precision int
}

func scanFlags(style string) (styleFlags, string) {
	var f styleFlags
	for style != "" {
		switch style[0] {
		case '-':
			f.leftAlign = true
		case '+':
			f.showSign = true
		case '#':
			f.showBase = true
		case '0':
			f.zeroPad = true
		default:
			return f, style
		}
		style = style[1:]
	}
	return f, style
}

func scanWidth(style string) (int, string) {
	width := 0
	for style != "" && style[0] >= '0' && style[0] <= '9' {
		width = width*10 + int(style[0]-'0')
		style = style[1:]
	}
	return width, style
}

func renderGPR(st *cpu.State, key, style string) (string, error) {
	idx, err := parseIndex(key)
	if err != nil {
		return "", err
	}
	gpr := st.Gpr(idx)

	if style == "" {
		return strconv.FormatInt(int64(gpr.S32()), 10), nil
	}

	flags, rest := scanFlags(style)
	flags.width, rest = scanWidth(rest)
	if len(rest) != 1 {
		return "", fmt.Errorf("bad print sequence")
	}

	var body string
	switch rest[0] {
	case 'd', 'i':
		body = signedDecimal(int64(gpr.S32()), flags)
	case 'u':
		body = strconv.FormatUint(uint64(gpr.U32()), 10)
	case 'x':
		body = hexString(uint64(gpr.U32()), flags, false)
	case 'X':
		body = hexString(uint64(gpr.U32()), flags, true)
	default:
		return "", fmt.Errorf("bad print sequence")
	}
	return pad(body, flags), nil
}

func renderFPR(st *cpu.State, key, style string) (string, error) {
	idx, err := parseIndex(key)
	if err != nil {
		return "", err
	}
	fpr := st.Fpr(idx)

	if style == "" {
		return strconv.FormatFloat(fpr.F64(), 'g', -1, 64), nil
	}

	flags, rest := scanFlags(style)
	flags.width, rest = scanWidth(rest)
	if strings.HasPrefix(rest, ".") {
		flags.hasPrec = true
		flags.precision, rest = scanWidth(rest[1:])
	}
	if len(rest) != 1 {
		return "", fmt.Errorf("bad print sequence")
	}

	prec := -1
	if flags.hasPrec {
		prec = flags.precision
	}

	var body string
	switch rest[0] {
	case 'f':
		body = signedFloat(fpr.F64(), prec, flags)
	case 'h':
		body = signedFloat(float64(fpr.PS0()), prec, flags)
	case 'l':
		body = signedFloat(float64(fpr.PS1()), prec, flags)
	case 'u':
		body = strconv.FormatUint(fpr.U64(), 10)
	case 'x':
		body = hexString(fpr.U64(), flags, false)
	case 'X':
		body = hexString(fpr.U64(), flags, true)
	default:
		return "", fmt.Errorf("bad print sequence")
	}
	return pad(body, flags), nil
}

func signedDecimal(v int64, flags styleFlags) string {
	s := strconv.FormatInt(v, 10)
	if flags.showSign && v >= 0 {
		s = "+" + s
	}
	return s
}

func signedFloat(v float64, prec int, flags styleFlags) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if flags.showSign && v >= 0 {
		s = "+" + s
	}
	return s
}

func hexString(v uint64, flags styleFlags, upper bool) string {
	verb := "%x"
	if upper {
		verb = "%X"
	}
	s := fmt.Sprintf(verb, v)
	if flags.showBase {
		if upper {
			s = "0X" + s
		} else {
			s = "0x" + s
		}
	}
	return s
}

// pad applies width/alignment/zero-fill, matching std::ostream's width()
// plus setfill('0') combination used throughout PrintRegistre.
func pad(s string, flags styleFlags) string {
	if flags.width <= len(s) {
		return s
	}
	fill := byte(' ')
	if flags.zeroPad && !flags.leftAlign {
		fill = '0'
	}
	padding := strings.Repeat(string(fill), flags.width-len(s))
	if flags.leftAlign {
		return s + padding
	}
	return padding + s
}
