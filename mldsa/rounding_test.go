package mldsa

import (
	"io"
	"testing"
)

func TestPower2RoundInvariant(t *testing.T) {
	for r := uint32(0); r < Q; r++ {
		r1, r0 := Power2Round(r)
		if int32(r) != r1<<D+r0 {
			t.Fatalf("r=%d: r1=%d r0=%d do not recompose", r, r1, r0)
		}
		if r0 <= -(1<<(D-1)) || r0 > 1<<(D-1) {
			t.Fatalf("r=%d: low part %d outside (-2^%d, 2^%d]", r, r0, D-1, D-1)
		}
	}
}

func TestDecomposeInvariant(t *testing.T) {
	for _, gamma2 := range []int32{Gamma2QMinus1Div88, Gamma2QMinus1Div32} {
		bands := int32((Q - 1) / (2 * gamma2))
		for r := uint32(0); r < Q; r++ {
			r1, r0 := Decompose(r, gamma2)
			if r1 < 0 || r1 >= bands {
				t.Fatalf("gamma2=%d r=%d: high part %d outside [0,%d)", gamma2, r, r1, bands)
			}
			abs := r0
			if abs < 0 {
				abs = -abs
			}
			if abs > gamma2 {
				t.Fatalf("gamma2=%d r=%d: low part %d exceeds the rounding range", gamma2, r, r0)
			}
			diff := (int64(r1)*2*int64(gamma2) + int64(r0) - int64(r)) % Q
			if diff < 0 {
				diff += Q
			}
			if diff != 0 {
				t.Fatalf("gamma2=%d r=%d: r1=%d r0=%d do not recompose mod Q", gamma2, r, r1, r0)
			}
		}
	}
}

func TestFieldCenterRange(t *testing.T) {
	for _, r := range []uint32{0, 1, (Q - 1) / 2, (Q-1)/2 + 1, Q - 1} {
		c := fieldCenter(r)
		if c <= -(Q+1)/2 || c > (Q-1)/2 {
			t.Fatalf("r=%d centered to %d, outside the symmetric range", r, c)
		}
		back := c
		if back < 0 {
			back += Q
		}
		if uint32(back) != r {
			t.Fatalf("r=%d center/lift mismatch: %d", r, back)
		}
	}
}

// UseHint must recover the high bits of the perturbed value whenever the
// perturbation stays within the rejection margin.
func TestUseHintRecoversHighBits(t *testing.T) {
	p, err := PresetBaseline()
	if err != nil {
		t.Fatal(err)
	}
	prng := keyedPRNG(t, 0x61)
	buf := make([]byte, 4)
	for _, gamma2 := range []int32{Gamma2QMinus1Div88, Gamma2QMinus1Div32} {
		for trial := 0; trial < 20000; trial++ {
			if _, err := io.ReadFull(prng, buf); err != nil {
				t.Fatal(err)
			}
			word := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
			r := word % Q
			z := int32(word>>8)%(2*int32(p.Beta)+1) - int32(p.Beta)
			zc := uint32(z + (z>>31)&Q)
			h := MakeHint(zc, r, gamma2)
			want := HighBits(fieldAdd(r, zc), gamma2)
			if got := UseHint(h, r, gamma2); got != want {
				t.Fatalf("gamma2=%d r=%d z=%d: UseHint=%d, want %d", gamma2, r, z, got, want)
			}
		}
	}
}

func TestMakeHintZeroPerturbation(t *testing.T) {
	for _, r := range []uint32{0, 1, 12345, Q / 2, Q - 1} {
		if MakeHint(0, r, Gamma2QMinus1Div88) != 0 {
			t.Fatalf("r=%d: zero perturbation produced a hint", r)
		}
	}
}
