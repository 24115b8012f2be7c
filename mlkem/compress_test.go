package mlkem

import (
	"math"
	"testing"
)

var usedWidths = []int{1, 2, 3, 4, 5, 10, 11, 12}

func TestCompressRoundTripBound(t *testing.T) {
	for _, bits := range usedWidths {
		bound := RoundTripErrorBound(bits)
		for x := 0; x < Q; x++ {
			d := int(Decompress(Compress(uint16(x), bits), bits))
			diff := d - x
			if diff < 0 {
				diff = -diff
			}
			if wrap := Q - diff; wrap < diff {
				diff = wrap
			}
			if diff > bound {
				t.Fatalf("bits=%d x=%d: round-trip error %d exceeds bound %d", bits, x, diff, bound)
			}
		}
	}
}

func TestCompressMatchesRounding(t *testing.T) {
	for _, bits := range usedWidths {
		mod := uint32(1) << uint(bits)
		for x := 0; x < Q; x++ {
			want := uint16(uint32(math.Round(float64(x)*float64(mod)/Q)) % mod)
			if got := Compress(uint16(x), bits); got != want {
				t.Fatalf("bits=%d x=%d: Compress=%d want %d", bits, x, got, want)
			}
		}
	}
}

func TestCompressZeroWidth(t *testing.T) {
	for x := 0; x < Q; x += 97 {
		if got := Compress(uint16(x), 0); got != 0 {
			t.Fatalf("Compress(%d, 0) = %d, want 0", x, got)
		}
	}
	if got := Decompress(0, 0); got != 0 {
		t.Fatalf("Decompress(0, 0) = %d, want 0", got)
	}
	// The degenerate width still honors the generic error bound thanks to
	// wraparound distance.
	if bound := RoundTripErrorBound(0); bound != (Q+1)/2 {
		t.Fatalf("RoundTripErrorBound(0) = %d, want %d", bound, (Q+1)/2)
	}
}

func TestDecompressExtremes(t *testing.T) {
	if got := Decompress(1, 1); got != (Q+1)/2 {
		t.Fatalf("Decompress(1,1) = %d, want %d", got, (Q+1)/2)
	}
	for _, bits := range usedWidths {
		top := uint16(1<<uint(bits) - 1)
		if got := Decompress(top, bits); int(got) >= Q {
			t.Fatalf("bits=%d: Decompress(%d) = %d escapes [0,Q)", bits, top, got)
		}
	}
}
