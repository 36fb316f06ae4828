// Package cpu implements the architected state of the interpreter: general
// and floating-point registers, condition/status fields, and the flat
// masked-address memory that backs load/store operations.
package cpu

import "math"

// GPR is a 32-bit general-purpose register with typed narrow/sign-extended
// views, mirroring the original CGPR's s8/s16/s32/u8/u16/u32 accessors.
type GPR struct {
	value uint32
}

// NewGPR builds a GPR from a raw 32-bit value.
func NewGPR(value uint32) GPR { return GPR{value: value} }

// Set overwrites the register's raw value.
func (g *GPR) Set(value uint32) { g.value = value }

// S8 returns the low byte, sign-extended.
func (g GPR) S8() int8 { return int8(g.value & 0xFF) }

// S16 returns the low halfword, sign-extended.
func (g GPR) S16() int16 { return int16(g.value & 0xFFFF) }

// S32 returns the register as a signed 32-bit value.
func (g GPR) S32() int32 { return int32(g.value) }

// U8 returns the low byte.
func (g GPR) U8() uint8 { return uint8(g.value & 0xFF) }

// U16 returns the low halfword.
func (g GPR) U16() uint16 { return uint16(g.value & 0xFFFF) }

// U32 returns the raw 32-bit value.
func (g GPR) U32() uint32 { return g.value }

// FPR is a 64-bit floating-point register. Storage is a raw bit pattern so
// that raw-bit operations (fabs/fneg/fctiwz-style manipulation) and the
// paired-single view share one representation, matching the original CFPR
// union. Paired-single opcodes themselves are out of scope; PS0/PS1 exist
// only so the echo formatter's h/l styles and fabs-family bit manipulation
// have somewhere to read from.
type FPR struct {
	bits uint64
}

// NewFPRFromF64 builds an FPR holding a double-precision value.
func NewFPRFromF64(v float64) FPR { return FPR{bits: f64ToBits(v)} }

// NewFPRFromF32 builds an FPR holding a single-precision value widened to
// double, matching CFPR(float) which stores through f64.
func NewFPRFromF32(v float32) FPR { return FPR{bits: f64ToBits(float64(v))} }

// NewFPRFromBits builds an FPR from a raw 64-bit pattern.
func NewFPRFromBits(bits uint64) FPR { return FPR{bits: bits} }

// SetF64 overwrites the register with a double-precision value.
func (f *FPR) SetF64(v float64) { f.bits = f64ToBits(v) }

// SetBits overwrites the register's raw bit pattern.
func (f *FPR) SetBits(bits uint64) { f.bits = bits }

// U64 returns the raw bit pattern.
func (f FPR) U64() uint64 { return f.bits }

// F64 returns the register's value as a double.
func (f FPR) F64() float64 { return bitsToF64(f.bits) }

// F32 returns the register's value narrowed to single precision.
func (f FPR) F32() float32 { return float32(f.F64()) }

// PS0 returns the high word reinterpreted as float32 (paired-single slot 0).
func (f FPR) PS0() float32 { return bitsToF32(uint32(f.bits >> 32)) }

// PS1 returns the low word reinterpreted as float32 (paired-single slot 1).
func (f FPR) PS1() float32 { return bitsToF32(uint32(f.bits)) }

func f64ToBits(v float64) uint64 { return math.Float64bits(v) }
func bitsToF64(b uint64) float64 { return math.Float64frombits(b) }
func bitsToF32(b uint32) float32 { return math.Float32frombits(b) }

// GQRType enumerates the quantization types a GQR load/store scale can use.
type GQRType uint8

// Quantization types, matching EGQR in the original (paired-single loads
// and stores that would consume these are out of scope; the type exists so
// GQR state can still be read/written by mtspr/mfspr-style accessors).
const (
	GQRTypeF32 GQRType = 0
	GQRTypeU8  GQRType = 4
	GQRTypeU16 GQRType = 5
	GQRTypeS8  GQRType = 6
	GQRTypeS16 GQRType = 7
)

// GQR is a graphics quantization register (store/load scale and type pair).
type GQR struct {
	StoreType  GQRType
	StoreScale int32
	LoadType   GQRType
	LoadScale  int32
}

// CRField bits, matching ECR in the original.
const (
	CRLT uint8 = 0b00000001
	CRGT uint8 = 0b00000010
	CREQ uint8 = 0b00000100
	CRSO uint8 = 0b00001000
	CRUN uint8 = CRSO
)

// XER status bits, matching EXER in the original. Only CA is maintained by
// this interpreter (SO/OV exist as named bits for completeness of the
// field's shape but no instruction here sets them, matching the spec's
// observed scope).
const (
	XERSO uint8 = 0b00000001
	XEROV uint8 = 0b00000010
	XERCA uint8 = 0b00000100
)
