package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/loader"
)

func TestLoadBytes_CopiesIntoMemoryAtBase(t *testing.T) {
	mem := cpu.NewMemory(1024)
	base := uint32(cpu.MappedBase + 0x10)

	if err := loader.LoadBytes(mem, []byte{0xDE, 0xAD, 0xBE, 0xEF}, base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := mem.Lwz(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %#x, want 0xdeadbeef", got)
	}
}

func TestLoadBytes_SegfaultPropagatesError(t *testing.T) {
	mem := cpu.NewMemory(1024)
	if err := loader.LoadBytes(mem, []byte{0x01}, 0); err == nil {
		t.Error("expected error when preloading below the mapped base")
	}
}

func TestLoadImage_ReadsFileAndLoads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	if err := os.WriteFile(path, []byte{0x01, 0x02, 0x03, 0x04}, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	mem := cpu.NewMemory(1024)
	base := uint32(cpu.MappedBase)
	if err := loader.LoadImage(mem, path, base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := mem.Lwz(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0x01020304 {
		t.Errorf("got %#x, want 0x01020304", got)
	}
}

func TestLoadImage_MissingFileErrors(t *testing.T) {
	mem := cpu.NewMemory(1024)
	if err := loader.LoadImage(mem, "/nonexistent/path/image.bin", cpu.MappedBase); err == nil {
		t.Error("expected error for missing file")
	}
}
