package cpu

// EaDisp computes the displacement-form effective address used by
// d(ra)-style operands: `ra==0 ? sign_extend(d) : gpr[ra].u16 + d`.
// Note the original narrows the base register to its low 16 bits before
// adding the displacement (CProcessor::ea(int16_t,size_t) reads
// `mGPR[ra].u16()`), which looks like a bug for any base above 0xFFFF but
// is preserved here exactly: the spec calls this out as observed,
// intentional-for-this-interpreter behaviour, not something to silently
// "fix".
func (s *State) EaDisp(d int16, ra int) uint32 {
	if ra == 0 {
		return uint32(int32(d))
	}
	return uint32(s.GPR[ra].U16()) + uint32(d)
}

// EaIndexed computes the indexed-form effective address used by
// rA,rB-style operands: `ra==0 ? gpr[rb].u32 : gpr[ra].u32 + gpr[rb].u32`.
func (s *State) EaIndexed(ra, rb int) uint32 {
	if ra == 0 {
		return s.GPR[rb].U32()
	}
	return s.GPR[ra].U32() + s.GPR[rb].U32()
}
