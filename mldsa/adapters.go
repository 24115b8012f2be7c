package mldsa

import (
	"errors"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// NewRing builds the lattigo ring the external NTT collaborator works in;
// Q is NTT-friendly for degree N.
func NewRing() (*ring.Ring, error) {
	return ring.NewRing(N, []uint64{Q})
}

// CenteredToRingNTT lifts a centered polynomial into the ring, switches it
// to the Montgomery domain and applies the forward NTT, matching the form
// MulCoeffsMontgomery expects for its first operand.
func CenteredToRingNTT(r *ring.Ring, p *Poly) *ring.Poly {
	out := r.NewPoly()
	q := int64(r.Modulus[0])
	for i := 0; i < N; i++ {
		v := int64(p[i]) % q
		if v < 0 {
			v += q
		}
		out.Coeffs[0][i] = uint64(v)
	}
	r.MForm(out, out)
	r.NTT(out, out)
	return out
}

// RingNTTToCentered inverts the NTT, leaves the Montgomery domain and
// re-centers the coefficients into (-Q/2, Q/2].
func RingNTTToCentered(r *ring.Ring, a *ring.Poly) (Poly, error) {
	var out Poly
	if a.N() != N {
		return out, errors.New("mldsa: ring polynomial degree mismatch")
	}
	tmp := a.CopyNew()
	r.InvNTT(tmp, tmp)
	r.InvMForm(tmp, tmp)
	q := int64(r.Modulus[0])
	half := q / 2
	for i := 0; i < N; i++ {
		v := int64(tmp.Coeffs[0][i])
		if v > half {
			v -= q
		}
		out[i] = int32(v)
	}
	return out, nil
}

// MulChallenge multiplies a challenge polynomial by a centered secret-side
// polynomial through the ring, returning the centered product. This is the
// bridge a driver uses to build c*s1, c*s2 and c*t0 terms.
func MulChallenge(r *ring.Ring, c, s *Poly) (Poly, error) {
	cr := CenteredToRingNTT(r, c)
	sr := r.NewPoly()
	q := int64(r.Modulus[0])
	for i := 0; i < N; i++ {
		v := int64(s[i]) % q
		if v < 0 {
			v += q
		}
		sr.Coeffs[0][i] = uint64(v)
	}
	r.NTT(sr, sr)
	out := r.NewPoly()
	r.MulCoeffsMontgomery(cr, sr, out)
	r.InvNTT(out, out)
	half := q / 2
	var res Poly
	for i := 0; i < N; i++ {
		v := int64(out.Coeffs[0][i])
		if v > half {
			v -= q
		}
		res[i] = int32(v)
	}
	return res, nil
}
