package mlkem

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v4/utils"
)

func keyedPRNG(t *testing.T, key byte) utils.PRNG {
	t.Helper()
	prng, err := utils.NewKeyedPRNG([]byte{key, 0x5e, 0xed})
	require.NoError(t, err)
	return prng
}

func TestSampleCBDRange(t *testing.T) {
	for width := MinNoiseWidth; width <= MaxNoiseWidth; width++ {
		prng := keyedPRNG(t, byte(width))
		for run := 0; run < 200; run++ {
			f, err := SamplePoly(prng, width)
			require.NoError(t, err)
			for i, v := range f {
				if int(v) < -width || int(v) > width {
					t.Fatalf("width=%d coeff[%d]=%d outside [-%d,%d]", width, i, v, width, width)
				}
			}
		}
	}
}

// binomialPMF is the exact law of popcount(w bits) - popcount(w bits).
func binomialPMF(width, v int) float64 {
	total := 0.0
	n := 2 * width
	for k := 0; k <= n; k++ {
		if k-width == v {
			total += float64(binom(n, k))
		}
	}
	return total / math.Pow(2, float64(n))
}

func binom(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	r := int64(1)
	for i := 1; i <= k; i++ {
		r = r * int64(n-i+1) / int64(i)
	}
	return r
}

func TestSampleCBDDistribution(t *testing.T) {
	const polys = 500 // 128,000 coefficients per width
	for width := MinNoiseWidth; width <= MaxNoiseWidth; width++ {
		prng := keyedPRNG(t, byte(0x40 + width))
		counts := make(map[int]int)
		samples := make([]float64, 0, polys*N)
		for run := 0; run < polys; run++ {
			f, err := SamplePoly(prng, width)
			require.NoError(t, err)
			for _, v := range f {
				counts[int(v)]++
				samples = append(samples, float64(v))
			}
		}
		total := float64(len(samples))
		for v := -width; v <= width; v++ {
			emp := float64(counts[v]) / total
			exp := binomialPMF(width, v)
			require.InDeltaf(t, exp, emp, 0.01,
				"width=%d value=%d: empirical %.4f vs binomial %.4f", width, v, emp, exp)
		}
		mean, err := stats.Mean(samples)
		require.NoError(t, err)
		require.InDelta(t, 0.0, mean, 0.05, "width=%d mean", width)
		variance, err := stats.SampleVariance(samples)
		require.NoError(t, err)
		want := float64(width) / 2
		require.InDelta(t, want, variance, 0.05*want, "width=%d variance", width)
	}
}

func TestSampleCBDDeterministic(t *testing.T) {
	a, err := SamplePoly(keyedPRNG(t, 7), 3)
	require.NoError(t, err)
	b, err := SamplePoly(keyedPRNG(t, 7), 3)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSampleCBDShortBuffer(t *testing.T) {
	require.Panics(t, func() {
		SampleCBD(make([]byte, NoiseBufferBytes(3)-1), 3)
	})
	require.Panics(t, func() {
		SampleCBD(make([]byte, NoiseBufferBytes(2)), 6)
	})
}

func TestSamplePolyRejectsBadWidth(t *testing.T) {
	_, err := SamplePoly(keyedPRNG(t, 1), 1)
	require.Error(t, err)
	_, err = SamplePoly(keyedPRNG(t, 1), 6)
	require.Error(t, err)
}
