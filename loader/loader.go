// Package loader preloads a raw binary memory image into the interpreter's
// address space before a program runs — the counterpart to the original's
// LoadProgramIntoVM, which placed an assembled program's encoded
// instructions and data directives into VM memory. This interpreter has no
// assemble step (instructions dispatch straight from source text), so the
// only thing left to preload is raw data: fixtures, ROM-like constant
// tables, or a prior session's memory snapshot.
package loader

import (
	"fmt"
	"os"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
)

// LoadImage reads the file at path and copies its bytes into mem starting
// at base, matching the original's practice of writing data directives
// directly into VM memory ahead of execution.
func LoadImage(mem *cpu.Memory, path string, base uint32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	return LoadBytes(mem, data, base)
}

// LoadBytes copies data into mem starting at base, byte by byte through
// cpu.Memory.Stb so the same segfault/mapping rules a running program
// would see apply to the preload as well.
func LoadBytes(mem *cpu.Memory, data []byte, base uint32) error {
	for i, b := range data {
		if err := mem.Stb(base+uint32(i), b); err != nil {
			return fmt.Errorf("loader: preloading at offset %d: %w", i, err)
		}
	}
	return nil
}
