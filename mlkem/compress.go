package mlkem

// Poly is a polynomial in canonical representation: N coefficients in [0,Q).
type Poly [N]uint16

// Compress maps x in [0,Q) to the nearest point of the 2^bits grid,
// reduced modulo 2^bits. Ties round up. bits=0 degenerates to 0, which is
// a valid width, not an error. The computation is a fixed sequence of
// integer operations with no data-dependent branches, since x may derive
// from secret material.
func Compress(x uint16, bits int) uint16 {
	if bits == 0 {
		return 0
	}
	// floor((2*x*2^bits + Q) / 2Q) == round-half-up(x*2^bits / Q).
	// x < 2^12 and bits <= 12, so the numerator fits in 32 bits.
	v := (uint32(x)<<uint(bits+1) + Q) / (2 * Q)
	return uint16(v) & uint16(1<<uint(bits)-1)
}

// Decompress maps v in [0,2^bits) back to the nearest coefficient in [0,Q),
// rounding half up. Together with Compress the absolute round-trip error is
// at most ceil(Q/2^(bits+1)), modulo wraparound at the Q boundary.
func Decompress(v uint16, bits int) uint16 {
	if bits == 0 {
		return 0
	}
	return uint16((uint32(v)*Q + 1<<uint(bits-1)) >> uint(bits))
}

// CompressPoly applies Compress coefficient-wise.
func CompressPoly(p *Poly, bits int) Poly {
	var out Poly
	for i := range p {
		out[i] = Compress(p[i], bits)
	}
	return out
}

// DecompressPoly applies Decompress coefficient-wise.
func DecompressPoly(p *Poly, bits int) Poly {
	var out Poly
	for i := range p {
		out[i] = Decompress(p[i], bits)
	}
	return out
}

// RoundTripErrorBound is the worst-case absolute error guaranteed by a
// Compress/Decompress round trip at the given width, with distance taken
// modulo Q. It also covers bits=0, where every coefficient collapses to 0.
func RoundTripErrorBound(bits int) int {
	d := 1 << uint(bits+1)
	return (Q + d - 1) / d
}
