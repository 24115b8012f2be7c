package mldsa

// Field helpers on canonical residues in [0,Q). Reductions use mask
// arithmetic; no branch depends on the operand values.

func fieldAdd(a, b uint32) uint32 {
	r := a + b - Q
	return r + (Q & uint32(int32(r)>>31))
}

func fieldSub(a, b uint32) uint32 {
	r := a - b
	return r + (Q & uint32(int32(r)>>31))
}

// fieldCenter maps a canonical residue to the symmetric range
// (-Q/2, Q/2].
func fieldCenter(a uint32) int32 {
	r := int32(a)
	r -= (((Q-1)/2 - r) >> 31) & Q
	return r
}

// Power2Round splits r into (r1, r0) with r = r1*2^D + r0 mod Q and r0 in
// (-2^(D-1), 2^(D-1)].
func Power2Round(r uint32) (r1 int32, r0 int32) {
	r1 = int32((r + (1 << (D - 1)) - 1) >> D)
	r0 = int32(r) - r1<<D
	return r1, r0
}

// Decompose splits r into (r1, r0) with r = r1*2*gamma2 + r0 mod Q and r0
// in (-gamma2, gamma2]. gamma2 must be one of the two supported rounding
// ranges. The arithmetic follows the reference branch-free formulation.
func Decompose(r uint32, gamma2 int32) (r1 int32, r0 int32) {
	r1 = int32(r+127) >> 7
	if gamma2 == Gamma2QMinus1Div32 {
		r1 = (r1*1025 + (1 << 21)) >> 22
		r1 &= 15
	} else {
		r1 = (r1*11275 + (1 << 23)) >> 24
		r1 ^= ((43 - r1) >> 31) & r1
	}
	r0 = int32(r) - r1*2*gamma2
	r0 -= (((Q-1)/2 - r0) >> 31) & Q
	return r1, r0
}

// HighBits is the high part of Decompose.
func HighBits(r uint32, gamma2 int32) int32 {
	r1, _ := Decompose(r, gamma2)
	return r1
}

// MakeHint returns 1 when adding z to r changes its high bits, 0
// otherwise.
func MakeHint(z, r uint32, gamma2 int32) int32 {
	if HighBits(fieldAdd(r, z), gamma2) != HighBits(r, gamma2) {
		return 1
	}
	return 0
}

// UseHint recovers the high bits of the perturbed value from the hint bit.
func UseHint(hint int32, r uint32, gamma2 int32) int32 {
	r1, r0 := Decompose(r, gamma2)
	if hint == 0 {
		return r1
	}
	if gamma2 == Gamma2QMinus1Div32 {
		if r0 > 0 {
			return (r1 + 1) & 15
		}
		return (r1 - 1) & 15
	}
	if r0 > 0 {
		if r1 == 43 {
			return 0
		}
		return r1 + 1
	}
	if r1 == 0 {
		return 43
	}
	return r1 - 1
}
