package interp

import "strings"

// Source is a replayable, seekable line source. The spec requires the
// input be replayable because forward branches re-scan it; loading the
// whole script into memory and tracking a byte offset is the simplest
// faithful implementation of "seek-based forward-branch resolution",
// mirroring the original's ifstream-backed seekg/tellg/getline calls.
type Source struct {
	text string
	pos  int64
}

// NewSource wraps program text for line-oriented, seekable reading.
func NewSource(text string) *Source {
	return &Source{text: text}
}

// Tell returns the current byte offset.
func (s *Source) Tell() int64 { return s.pos }

// Seek moves to an absolute byte offset.
func (s *Source) Seek(pos int64) { s.pos = pos }

// ReadLine returns the next line (without its trailing newline) and
// advances past it. ok is false once the source is exhausted.
func (s *Source) ReadLine() (line string, ok bool) {
	if s.pos >= int64(len(s.text)) {
		return "", false
	}
	rest := s.text[s.pos:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		line = rest[:idx]
		s.pos += int64(idx) + 1
	} else {
		line = rest
		s.pos = int64(len(s.text))
	}
	line = strings.TrimSuffix(line, "\r")
	return line, true
}
