package mldsa

// Poly is a polynomial with N coefficients in symmetric (centered)
// representation. Each value is owned by the call that produced it and is
// never shared across concurrent invocations.
type Poly [N]int32

// InfNorm returns the infinity norm of the polynomial. The absolute value
// is computed with mask arithmetic so the memory access pattern and branch
// structure do not depend on the (possibly secret) coefficients.
func (p *Poly) InfNorm() int32 {
	var max int32
	for i := range p {
		v := p[i]
		mask := v >> 31
		v = (v ^ mask) - mask
		gt := (max - v) >> 31 // all ones when v > max
		max = (v & gt) | (max &^ gt)
	}
	return max
}

// Weight returns the number of nonzero coefficients.
func (p *Poly) Weight() int {
	w := 0
	for i := range p {
		// (v | -v) has its sign bit set exactly when v != 0.
		v := p[i]
		w += int(uint32(v|-v) >> 31)
	}
	return w
}

// VecInfNorm returns the largest infinity norm across a vector of
// polynomials.
func VecInfNorm(v []Poly) int32 {
	var max int32
	for i := range v {
		n := v[i].InfNorm()
		gt := (max - n) >> 31
		max = (n & gt) | (max &^ gt)
	}
	return max
}

// VecWeight returns the total number of nonzero coefficients across a
// vector of polynomials.
func VecWeight(v []Poly) int {
	w := 0
	for i := range v {
		w += v[i].Weight()
	}
	return w
}
