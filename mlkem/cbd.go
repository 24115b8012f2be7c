package mlkem

import (
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Noise width limits. Widths 4 and 5 extend the traditional {2,3} range to
// support the wide-noise presets.
const (
	MinNoiseWidth = 2
	MaxNoiseWidth = 5
)

// CenteredPoly is a polynomial in symmetric representation; SampleCBD
// produces coefficients in [-width, width].
type CenteredPoly [N]int16

// SampleCBD draws one polynomial from the centered binomial distribution of
// the given width: each coefficient is the population count of the first
// `width` bits minus the population count of the next `width` bits, taken
// from consecutive 2*width-bit windows of buf. The caller must supply
// exactly NoiseBufferBytes(width) uniformly random bytes; anything shorter
// is a fatal precondition violation. Bit counting is the only operation
// applied to the random bits, so control flow does not depend on them.
func SampleCBD(buf []byte, width int) CenteredPoly {
	if width < MinNoiseWidth || width > MaxNoiseWidth {
		panic(fmt.Sprintf("mlkem: noise width %d outside [%d,%d]", width, MinNoiseWidth, MaxNoiseWidth))
	}
	if len(buf) != NoiseBufferBytes(width) {
		panic(fmt.Sprintf("mlkem: SampleCBD needs %d bytes for width %d, got %d", NoiseBufferBytes(width), width, len(buf)))
	}
	var f CenteredPoly
	for i := 0; i < N; i++ {
		var a, b int
		for j := 0; j < width; j++ {
			a += bitAt(buf, 2*i*width+j)
			b += bitAt(buf, 2*i*width+width+j)
		}
		f[i] = int16(a - b)
	}
	return f
}

// SamplePoly draws the random buffer from the injected PRNG and samples one
// noise polynomial. The PRNG is the only source of randomness, so a keyed
// PRNG yields a deterministic polynomial.
func SamplePoly(prng utils.PRNG, width int) (CenteredPoly, error) {
	if width < MinNoiseWidth || width > MaxNoiseWidth {
		return CenteredPoly{}, fmt.Errorf("mlkem: noise width %d outside [%d,%d]", width, MinNoiseWidth, MaxNoiseWidth)
	}
	buf := make([]byte, NoiseBufferBytes(width))
	if _, err := io.ReadFull(prng, buf); err != nil {
		return CenteredPoly{}, fmt.Errorf("mlkem: noise prng read: %w", err)
	}
	return SampleCBD(buf, width), nil
}

func bitAt(b []byte, i int) int {
	return int(b[i/8]>>(uint(i)%8)) & 1
}
