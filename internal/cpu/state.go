package cpu

import "fmt"

// State holds the complete architected register file: 32 GPRs, 32 FPRs,
// 8 GQRs, 8 condition-register fields, the XER status byte, and CTR/LR.
// It is grounded on the original's CProcessor register surface, split from
// memory (see Memory) because the spec models memory as a shared resource
// a session can preload independently of the register file.
type State struct {
	GPR [32]GPR
	FPR [32]FPR
	GQR [8]GQR
	CR  [8]uint8
	XER uint8
	CTR uint32
	LR  uint32
}

// NewState returns a zeroed register file, matching the original's
// default-constructed CProcessor members (all-zero GPR/FPR/CR/XER/CTR/LR).
func NewState() *State {
	return &State{}
}

// Gpr returns the GPR at index n, panicking on out-of-range n the same way
// the original's unchecked array index would corrupt memory; callers
// validate n via the signature parser before reaching here.
func (s *State) Gpr(n int) *GPR {
	if n < 0 || n > 31 {
		panic(fmt.Sprintf("cpu: gpr index out of range: %d", n))
	}
	return &s.GPR[n]
}

// Fpr returns the FPR at index n.
func (s *State) Fpr(n int) *FPR {
	if n < 0 || n > 31 {
		panic(fmt.Sprintf("cpu: fpr index out of range: %d", n))
	}
	return &s.FPR[n]
}

// Gqr returns the GQR at index n.
func (s *State) Gqr(n int) *GQR {
	if n < 0 || n > 7 {
		panic(fmt.Sprintf("cpu: gqr index out of range: %d", n))
	}
	return &s.GQR[n]
}

// Cr returns the condition-register field at index n (0-7).
func (s *State) Cr(n int) uint8 {
	if n < 0 || n > 7 {
		panic(fmt.Sprintf("cpu: cr index out of range: %d", n))
	}
	return s.CR[n]
}

// SetCr overwrites condition-register field n.
func (s *State) SetCr(n int, value uint8) {
	if n < 0 || n > 7 {
		panic(fmt.Sprintf("cpu: cr index out of range: %d", n))
	}
	s.CR[n] = value
}

// UpdateCr0 sets CR field 0 from a signed comparison against zero, the
// standard "rc=1" side effect for fixed-point instructions (sets LT/GT/EQ;
// SO is carried over from the current XER.SO as the original does via its
// separate record-bit helper).
func (s *State) UpdateCr0(result int32) {
	var f uint8
	switch {
	case result < 0:
		f = CRLT
	case result > 0:
		f = CRGT
	default:
		f = CREQ
	}
	if s.XER&XERSO != 0 {
		f |= CRSO
	}
	s.CR[0] = f
}

// UpdateCr1 sets CR field 1 from an FPSCR-style floating exception summary.
// This interpreter does not track IEEE-754 exception flags (spec
// Non-goals), so cr1 is always cleared when an "rc=1" floating instruction
// requests it, matching the spec's observed no-op behaviour.
func (s *State) UpdateCr1() {
	s.CR[1] = 0
}

// SetXERCA sets or clears the carry bit in XER.
func (s *State) SetXERCA(carry bool) {
	if carry {
		s.XER |= XERCA
	} else {
		s.XER &^= XERCA
	}
}

// GetXERCA reports the carry bit in XER.
func (s *State) GetXERCA() bool {
	return s.XER&XERCA != 0
}
