package cpu_test

import (
	"testing"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_StwLwzRoundTrip(t *testing.T) {
	mem := cpu.NewMemory(1024)

	addr := cpu.MappedBase + 0x10
	require.NoError(t, mem.Stw(addr, 0xDEADBEEF))

	got, err := mem.Lwz(addr)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), got)
}

func TestMemory_BigEndianByteOrder(t *testing.T) {
	mem := cpu.NewMemory(1024)
	addr := cpu.MappedBase

	require.NoError(t, mem.Stw(addr, 0x01020304))

	b0, err := mem.Lbz(addr)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), b0, "most significant byte stored first")

	b3, err := mem.Lbz(addr + 3)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x04), b3, "least significant byte stored last")
}

func TestMemory_SegfaultBelowMappedBase(t *testing.T) {
	mem := cpu.NewMemory(1024)

	_, err := mem.Lbz(0)
	require.Error(t, err)
	var segErr *cpu.SegfaultError
	assert.ErrorAs(t, err, &segErr)
}

func TestMemory_SegfaultBeyondSize(t *testing.T) {
	mem := cpu.NewMemory(16)

	_, err := mem.Lbz(cpu.MappedBase + 1000)
	require.Error(t, err)
}

func TestMemory_AddressMasking(t *testing.T) {
	mem := cpu.NewMemory(1024)

	// Segment bits above the mask are discarded, so an address with the
	// 0xC0000000 bits set maps to the same byte as the masked address.
	require.NoError(t, mem.Stb(cpu.MappedBase+0x40000000+4, 0x42))

	v, err := mem.Lbz(cpu.MappedBase + 4)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v)
}

func TestMemory_FloatRoundTrip(t *testing.T) {
	mem := cpu.NewMemory(1024)
	addr := cpu.MappedBase + 0x20

	require.NoError(t, mem.Stfs(addr, 3.5))
	f, err := mem.Lfs(addr)
	require.NoError(t, err)
	assert.InDelta(t, float32(3.5), f, 0.0001)

	require.NoError(t, mem.Stfd(addr, 2.25))
	d, err := mem.Lfd(addr)
	require.NoError(t, err)
	assert.InDelta(t, 2.25, d, 0.0001)
}
