package cpu

import (
	"fmt"
	"math"
)

// DefaultMemorySize matches the original CProcessor's default
// memory_size=24*1024*1024 constructor argument.
const DefaultMemorySize = 24 * 1024 * 1024

// MappedBase is the lowest address the interpreter will translate; any
// address below it segfaults, matching the original's `addr < 0x80000000`
// check.
const MappedBase = 0x80000000

// addrMask strips the segment bits the original discards via
// `addr & ~0xC0000000` when computing the physical offset into mMemory.
const addrMask = ^uint32(0xC0000000)

// SegfaultError is returned (never recovered internally) when an access
// falls outside the mapped, in-bounds range. The original terminates the
// whole process on this condition (`std::cerr << "segfault"` then
// std::terminate()); this interpreter surfaces it as a distinguished error
// so the caller (CLI, TUI, API) can report it before exiting, but the
// net observable effect — execution stops — is the same.
type SegfaultError struct {
	Addr uint32
}

func (e *SegfaultError) Error() string {
	return fmt.Sprintf("segfault: address 0x%08X is not accessible", e.Addr)
}

// Memory is the flat byte-addressable backing store for the interpreter.
// Unlike the teacher's segmented, permission-checked Memory, this is a
// single contiguous buffer: the spec's address space has no
// code/data/heap/stack segmentation, only the one mapped-base-and-mask
// translation the original implements in CProcessor::ram.
type Memory struct {
	buf []byte
}

// NewMemory allocates a zeroed memory buffer of the given size in bytes.
func NewMemory(size int) *Memory {
	return &Memory{buf: make([]byte, size)}
}

// Size returns the size of the backing buffer in bytes.
func (m *Memory) Size() int { return len(m.buf) }

// Raw exposes the backing buffer for bulk access. The loader package does
// not use it: it writes through Stb so preloads get the same address checks.
func (m *Memory) Raw() []byte { return m.buf }

// translate converts an architected address into a buffer offset,
// returning SegfaultError for anything the original would have
// terminated on.
func (m *Memory) translate(addr uint32) (int, error) {
	if addr < MappedBase {
		return 0, &SegfaultError{Addr: addr}
	}
	phys := addr & addrMask
	if int(phys) >= len(m.buf) {
		return 0, &SegfaultError{Addr: addr}
	}
	return int(phys), nil
}

// byteAt returns a pointer to the backing byte at addr, or an error.
func (m *Memory) byteAt(addr uint32) (*byte, error) {
	off, err := m.translate(addr)
	if err != nil {
		return nil, err
	}
	return &m.buf[off], nil
}

// Lbz loads an unsigned byte, matching CProcessor::lbz.
func (m *Memory) Lbz(addr uint32) (uint8, error) {
	b, err := m.byteAt(addr)
	if err != nil {
		return 0, err
	}
	return *b, nil
}

// Lhz loads an unsigned halfword big-endian, matching CProcessor::lhz.
func (m *Memory) Lhz(addr uint32) (uint16, error) {
	hi, err := m.Lbz(addr)
	if err != nil {
		return 0, err
	}
	lo, err := m.Lbz(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Lha loads a halfword big-endian, sign-extended, matching CProcessor::lha.
func (m *Memory) Lha(addr uint32) (int16, error) {
	v, err := m.Lhz(addr)
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

// Lwz loads a word big-endian, matching CProcessor::lwz.
func (m *Memory) Lwz(addr uint32) (uint32, error) {
	b0, err := m.Lbz(addr)
	if err != nil {
		return 0, err
	}
	b1, err := m.Lbz(addr + 1)
	if err != nil {
		return 0, err
	}
	b2, err := m.Lbz(addr + 2)
	if err != nil {
		return 0, err
	}
	b3, err := m.Lbz(addr + 3)
	if err != nil {
		return 0, err
	}
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3), nil
}

// Lfs loads a single-precision float by reinterpreting a word load,
// matching CProcessor::lfs.
func (m *Memory) Lfs(addr uint32) (float32, error) {
	bits, err := m.Lwz(addr)
	if err != nil {
		return 0, err
	}
	return bitsToF32(bits), nil
}

// Lfd loads a double-precision float from two consecutive word loads,
// matching CProcessor::lfd.
func (m *Memory) Lfd(addr uint32) (float64, error) {
	hi, err := m.Lwz(addr)
	if err != nil {
		return 0, err
	}
	lo, err := m.Lwz(addr + 4)
	if err != nil {
		return 0, err
	}
	bits := uint64(hi)<<32 | uint64(lo)
	return bitsToF64(bits), nil
}

// Stb stores a byte, matching CProcessor::stb.
func (m *Memory) Stb(addr uint32, b uint8) error {
	p, err := m.byteAt(addr)
	if err != nil {
		return err
	}
	*p = b
	return nil
}

// Sth stores a halfword big-endian, matching CProcessor::sth.
func (m *Memory) Sth(addr uint32, h uint16) error {
	if err := m.Stb(addr, uint8(h>>8)); err != nil {
		return err
	}
	return m.Stb(addr+1, uint8(h))
}

// Stw stores a word big-endian, matching CProcessor::stw.
func (m *Memory) Stw(addr uint32, w uint32) error {
	if err := m.Stb(addr, uint8(w>>24)); err != nil {
		return err
	}
	if err := m.Stb(addr+1, uint8(w>>16)); err != nil {
		return err
	}
	if err := m.Stb(addr+2, uint8(w>>8)); err != nil {
		return err
	}
	return m.Stb(addr+3, uint8(w))
}

// Stfs stores a single-precision float as its bit pattern, matching
// CProcessor::stfs.
func (m *Memory) Stfs(addr uint32, v float32) error {
	return m.Stw(addr, math.Float32bits(v))
}

// Stfd stores a double-precision float as two consecutive word stores,
// matching CProcessor::stfd.
func (m *Memory) Stfd(addr uint32, v float64) error {
	bits := f64ToBits(v)
	if err := m.Stw(addr, uint32(bits>>32)); err != nil {
		return err
	}
	return m.Stw(addr+4, uint32(bits))
}
