package mldsa

import (
	"errors"
	"fmt"
	mathbits "math/bits"
)

// PackZPoly serializes one response polynomial. Coefficients lie in
// (-Gamma1, Gamma1]; each is stored as Gamma1-z in log2(Gamma1)+1 bits,
// filled LSB-first, reproducing the reference layout.
func PackZPoly(z *Poly, gamma1 int32) ([]byte, error) {
	bits := mathbits.Len(uint(gamma1))
	out := make([]byte, N*bits/8)
	var acc uint64
	accBits := 0
	pos := 0
	for i := range z {
		if z[i] <= -gamma1 || z[i] > gamma1 {
			return nil, fmt.Errorf("mldsa: z coefficient %d outside (-GAMMA1, GAMMA1]", z[i])
		}
		acc |= uint64(uint32(gamma1-z[i])) << uint(accBits)
		accBits += bits
		for accBits >= 8 {
			out[pos] = byte(acc)
			acc >>= 8
			accBits -= 8
			pos++
		}
	}
	return out, nil
}

// UnpackZPoly reverses PackZPoly.
func UnpackZPoly(buf []byte, gamma1 int32) (Poly, error) {
	bits := mathbits.Len(uint(gamma1))
	var z Poly
	if len(buf) != N*bits/8 {
		return z, fmt.Errorf("mldsa: packed z poly is %d bytes, want %d", len(buf), N*bits/8)
	}
	mask := uint64(1)<<uint(bits) - 1
	var acc uint64
	accBits := 0
	pos := 0
	for i := range z {
		for accBits < bits {
			acc |= uint64(buf[pos]) << uint(accBits)
			accBits += 8
			pos++
		}
		z[i] = gamma1 - int32(acc&mask)
		acc >>= uint(bits)
		accBits -= bits
	}
	return z, nil
}

// PackZVec packs the full response vector in index order.
func PackZVec(z []Poly, p Params) ([]byte, error) {
	if len(z) != p.L {
		return nil, fmt.Errorf("mldsa: response vector has %d polynomials, want L=%d", len(z), p.L)
	}
	out := make([]byte, 0, p.L*p.PolyZBytes())
	for i := range z {
		b, err := PackZPoly(&z[i], p.Gamma1)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// PackHint serializes the hint vector into the Omega+K reference layout:
// the positions of the set bits in index order, then one running count per
// polynomial. A hint heavier than Omega cannot be encoded, and neither can
// a running count above 255: the layout stores each count in a single byte,
// so an OMEGA above 255 leaves hint weights past that point unrepresentable.
func PackHint(h []Poly, p Params) ([]byte, error) {
	if len(h) != p.K {
		return nil, fmt.Errorf("mldsa: hint vector has %d polynomials, want K=%d", len(h), p.K)
	}
	out := make([]byte, p.HintBytes())
	idx := 0
	for i := range h {
		for j := 0; j < N; j++ {
			if h[i][j] != 0 {
				if idx >= p.Omega {
					return nil, errors.New("mldsa: hint weight exceeds OMEGA")
				}
				if idx >= 255 {
					return nil, errors.New("mldsa: hint count overflows the one-byte count field")
				}
				out[idx] = byte(j)
				idx++
			}
		}
		out[p.Omega+i] = byte(idx)
	}
	return out, nil
}

// UnpackHint reverses PackHint, enforcing the canonical encoding: counts
// must be monotone and within Omega, positions strictly increasing within
// each polynomial, and unused position bytes zero.
func UnpackHint(buf []byte, p Params) ([]Poly, error) {
	if len(buf) != p.HintBytes() {
		return nil, fmt.Errorf("mldsa: packed hint is %d bytes, want %d", len(buf), p.HintBytes())
	}
	h := make([]Poly, p.K)
	idx := 0
	for i := 0; i < p.K; i++ {
		end := int(buf[p.Omega+i])
		if end < idx || end > p.Omega {
			return nil, errors.New("mldsa: malformed hint counts")
		}
		for k := idx; k < end; k++ {
			if k > idx && buf[k] <= buf[k-1] {
				return nil, errors.New("mldsa: hint positions not increasing")
			}
			h[i][buf[k]] = 1
		}
		idx = end
	}
	for k := idx; k < p.Omega; k++ {
		if buf[k] != 0 {
			return nil, errors.New("mldsa: nonzero padding in hint encoding")
		}
	}
	return h, nil
}

// PackChallenge serializes a challenge polynomial. Ternary alphabets use 2
// bits per coefficient (value+1); the expanded alphabet needs 3 bits
// (value+2), widening the packed size from 64 to 96 bytes as reported by
// Params.ChallengeBytes.
func PackChallenge(c *Poly, p Params) ([]byte, error) {
	bits := 2
	offset := int32(1)
	if p.Challenge == ChallengeExpandedRange {
		bits = 3
		offset = 2
	}
	out := make([]byte, p.ChallengeBytes())
	var acc uint32
	accBits := 0
	pos := 0
	for i := range c {
		v := c[i] + offset
		if v < 0 || v > 2*offset {
			return nil, fmt.Errorf("mldsa: challenge coefficient %d outside the %s alphabet", c[i], p.Challenge)
		}
		acc |= uint32(v) << uint(accBits)
		accBits += bits
		for accBits >= 8 {
			out[pos] = byte(acc)
			acc >>= 8
			accBits -= 8
			pos++
		}
	}
	return out, nil
}

// UnpackChallenge reverses PackChallenge.
func UnpackChallenge(buf []byte, p Params) (Poly, error) {
	bits := 2
	offset := int32(1)
	if p.Challenge == ChallengeExpandedRange {
		bits = 3
		offset = 2
	}
	var c Poly
	if len(buf) != p.ChallengeBytes() {
		return c, fmt.Errorf("mldsa: packed challenge is %d bytes, want %d", len(buf), p.ChallengeBytes())
	}
	mask := uint32(1)<<uint(bits) - 1
	var acc uint32
	accBits := 0
	pos := 0
	for i := range c {
		for accBits < bits {
			acc |= uint32(buf[pos]) << uint(accBits)
			accBits += 8
			pos++
		}
		c[i] = int32(acc&mask) - offset
		acc >>= uint(bits)
		accBits -= bits
	}
	return c, nil
}
