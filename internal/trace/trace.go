// Package trace provides optional execution tracing and statistics for
// internal/interp.Context, grounded on the teacher's vm/register_trace.go
// (diff-based register change log) and vm/statistics.go (dispatch-count
// JSON export). Both collaborators are nil by default, matching the
// teacher's Enabled-flag pattern of zero overhead when tracing is off.
package trace

import (
	"encoding/json"
	"io"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
)

// RegisterDelta records one register's value before and after a traced
// instruction, the same before/after pair the teacher's RegisterTrace
// derives by diffing against lastRegValues.
type RegisterDelta struct {
	Name string
	Old  uint32
	New  uint32
}

// Entry is one ring-buffer slot: the source line and mnemonic dispatched,
// plus whichever GPRs changed value as a result.
type Entry struct {
	Sequence uint64
	Line     int
	Mnemonic string
	Changes  []RegisterDelta
}

// InstructionTrace is a fixed-capacity ring buffer of dispatched
// instructions with register deltas, the line-oriented counterpart to the
// teacher's address-keyed RegisterTrace.
type InstructionTrace struct {
	entries  []Entry
	capacity int
	next     int
	full     bool
	sequence uint64

	last [32]uint32
	have bool
}

// NewInstructionTrace builds a trace buffer holding at most capacity
// entries; once full, older entries are overwritten, matching the
// teacher's maxEntries cutoff (though the teacher simply stops recording
// past the limit — a ring buffer keeps the most recent window instead,
// since REPL sessions run indefinitely and the oldest history is the
// least useful part to keep).
func NewInstructionTrace(capacity int) *InstructionTrace {
	if capacity <= 0 {
		capacity = 1000
	}
	return &InstructionTrace{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Record diffs st's GPRs against the previous call's snapshot and appends
// an entry for line/mnemonic listing only the registers that changed.
func (t *InstructionTrace) Record(line int, mnemonic string, st *cpu.State) {
	if t == nil {
		return
	}
	t.sequence++

	var changes []RegisterDelta
	if t.have {
		for i := 0; i < 32; i++ {
			cur := st.Gpr(i).U32()
			if cur != t.last[i] {
				changes = append(changes, RegisterDelta{
					Name: gprName(i),
					Old:  t.last[i],
					New:  cur,
				})
			}
		}
	}
	for i := 0; i < 32; i++ {
		t.last[i] = st.Gpr(i).U32()
	}
	t.have = true

	t.entries[t.next] = Entry{
		Sequence: t.sequence,
		Line:     line,
		Mnemonic: mnemonic,
		Changes:  changes,
	}
	t.next = (t.next + 1) % t.capacity
	if t.next == 0 {
		t.full = true
	}
}

// Entries returns the recorded entries in chronological order.
func (t *InstructionTrace) Entries() []Entry {
	if t == nil {
		return nil
	}
	if !t.full {
		out := make([]Entry, t.next)
		copy(out, t.entries[:t.next])
		return out
	}
	out := make([]Entry, t.capacity)
	copy(out, t.entries[t.next:])
	copy(out[t.capacity-t.next:], t.entries[:t.next])
	return out
}

func gprName(n int) string {
	const digits = "0123456789"
	if n < 10 {
		return "r" + string(digits[n])
	}
	return "r" + string(digits[n/10]) + string(digits[n%10])
}

// Statistics counts directive/instruction dispatches and a handful of
// interpreter-level events, mirroring the teacher's PerformanceStatistics
// but scoped to what this line interpreter can observe (no cycle-count
// model, since the spec assigns no per-instruction timing).
type Statistics struct {
	TotalLines      uint64
	InstructionHits map[string]uint64
	BranchesTaken   uint64
	BranchesSkipped uint64
	Segfaults       uint64
	ParseErrors     uint64
}

// NewStatistics returns an empty counter set.
func NewStatistics() *Statistics {
	return &Statistics{InstructionHits: make(map[string]uint64)}
}

// RecordInstruction increments the dispatch count for mnemonic and the
// total-lines counter.
func (s *Statistics) RecordInstruction(mnemonic string) {
	if s == nil {
		return
	}
	s.TotalLines++
	s.InstructionHits[mnemonic]++
}

// RecordBranch tallies a resolved branch as taken or not-taken.
func (s *Statistics) RecordBranch(taken bool) {
	if s == nil {
		return
	}
	if taken {
		s.BranchesTaken++
	} else {
		s.BranchesSkipped++
	}
}

// RecordSegfault tallies an out-of-range memory access.
func (s *Statistics) RecordSegfault() {
	if s == nil {
		return
	}
	s.Segfaults++
}

// RecordParseError tallies a signature-match or unknown-operation failure.
func (s *Statistics) RecordParseError() {
	if s == nil {
		return
	}
	s.ParseErrors++
}

// WriteJSON exports the counters as indented JSON, mirroring the
// teacher's PerformanceStatistics.ExportJSON.
func (s *Statistics) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
