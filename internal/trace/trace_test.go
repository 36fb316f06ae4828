package trace_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/trace"
)

func TestInstructionTrace_RecordsNoChangesOnFirstCall(t *testing.T) {
	tr := trace.NewInstructionTrace(4)
	st := cpu.NewState()

	tr.Record(1, "addi", st)

	entries := tr.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(entries[0].Changes) != 0 {
		t.Errorf("expected no changes on first recorded instruction, got %+v", entries[0].Changes)
	}
	if entries[0].Line != 1 || entries[0].Mnemonic != "addi" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestInstructionTrace_DiffsChangedRegisters(t *testing.T) {
	tr := trace.NewInstructionTrace(4)
	st := cpu.NewState()

	tr.Record(1, "addi", st)
	st.Gpr(3).Set(42)
	tr.Record(2, "addi", st)

	entries := tr.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	changes := entries[1].Changes
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	if changes[0].Name != "r3" || changes[0].Old != 0 || changes[0].New != 42 {
		t.Errorf("unexpected delta: %+v", changes[0])
	}
}

func TestInstructionTrace_RingBufferWrapsAtCapacity(t *testing.T) {
	tr := trace.NewInstructionTrace(2)
	st := cpu.NewState()

	tr.Record(1, "a", st)
	tr.Record(2, "b", st)
	tr.Record(3, "c", st)

	entries := tr.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected ring buffer to hold 2 entries, got %d", len(entries))
	}
	if entries[0].Line != 2 || entries[1].Line != 3 {
		t.Errorf("expected entries for lines 2,3 in order, got %+v", entries)
	}
}

func TestInstructionTrace_NilReceiverIsNoOp(t *testing.T) {
	var tr *trace.InstructionTrace
	st := cpu.NewState()

	tr.Record(1, "addi", st)
	if entries := tr.Entries(); entries != nil {
		t.Errorf("expected nil entries from nil trace, got %+v", entries)
	}
}

func TestStatistics_RecordInstruction(t *testing.T) {
	stats := trace.NewStatistics()

	stats.RecordInstruction("addi")
	stats.RecordInstruction("add")
	stats.RecordInstruction("addi")

	if stats.TotalLines != 3 {
		t.Errorf("expected 3 total lines, got %d", stats.TotalLines)
	}
	if stats.InstructionHits["addi"] != 2 {
		t.Errorf("expected 2 addi hits, got %d", stats.InstructionHits["addi"])
	}
}

func TestStatistics_RecordBranch(t *testing.T) {
	stats := trace.NewStatistics()

	stats.RecordBranch(true)
	stats.RecordBranch(false)
	stats.RecordBranch(true)

	if stats.BranchesTaken != 2 {
		t.Errorf("expected 2 taken, got %d", stats.BranchesTaken)
	}
	if stats.BranchesSkipped != 1 {
		t.Errorf("expected 1 skipped, got %d", stats.BranchesSkipped)
	}
}

func TestStatistics_RecordSegfaultAndParseError(t *testing.T) {
	stats := trace.NewStatistics()

	stats.RecordSegfault()
	stats.RecordSegfault()
	stats.RecordParseError()

	if stats.Segfaults != 2 {
		t.Errorf("expected 2 segfaults, got %d", stats.Segfaults)
	}
	if stats.ParseErrors != 1 {
		t.Errorf("expected 1 parse error, got %d", stats.ParseErrors)
	}
}

func TestStatistics_NilReceiverIsNoOp(t *testing.T) {
	var stats *trace.Statistics
	stats.RecordInstruction("addi")
	stats.RecordBranch(true)
	stats.RecordSegfault()
	stats.RecordParseError()
}

func TestStatistics_WriteJSON(t *testing.T) {
	stats := trace.NewStatistics()
	stats.RecordInstruction("addi")
	stats.RecordBranch(true)

	var buf bytes.Buffer
	if err := stats.WriteJSON(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded trace.Statistics
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}
	if decoded.TotalLines != 1 || decoded.BranchesTaken != 1 {
		t.Errorf("unexpected decoded statistics: %+v", decoded)
	}
}
