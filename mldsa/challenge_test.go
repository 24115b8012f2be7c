package mldsa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSeed(b byte) []byte {
	seed := make([]byte, CTildeBytes)
	for i := range seed {
		seed[i] = b ^ byte(i)
	}
	return seed
}

func TestChallengeWeight(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := PresetByName(name)
		if err != nil {
			t.Fatal(err)
		}
		for b := byte(0); b < 20; b++ {
			c := SampleChallenge(testSeed(b), p)
			if got := c.Weight(); got != p.Tau {
				t.Fatalf("%s seed %d: weight %d, want TAU=%d", name, b, got, p.Tau)
			}
		}
	}
}

func TestChallengeAlphabets(t *testing.T) {
	ternary := map[int32]bool{-1: true, 1: true}
	expanded := map[int32]bool{-2: true, -1: true, 1: true, 2: true}
	for variant, allowed := range map[ChallengeVariant]map[int32]bool{
		ChallengeStandard:      ternary,
		ChallengeFixedDigest:   ternary,
		ChallengeExpandedRange: expanded,
	} {
		p := level2()
		p.Name = "alphabet-check"
		p.Challenge = variant
		p, err := NewParams(p)
		if err != nil {
			t.Fatal(err)
		}
		for b := byte(0); b < 10; b++ {
			c := SampleChallenge(testSeed(b), p)
			for i, v := range c {
				if v != 0 && !allowed[v] {
					t.Fatalf("%s: coefficient %d holds %d, outside the alphabet", variant, i, v)
				}
			}
		}
	}
}

func TestChallengeDeterministic(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := PresetByName(name)
		if err != nil {
			t.Fatal(err)
		}
		a := SampleChallenge(testSeed(7), p)
		b := SampleChallenge(testSeed(7), p)
		if a != b {
			t.Fatalf("%s: same seed produced different polynomials", name)
		}
		c := SampleChallenge(testSeed(8), p)
		if a == c {
			t.Fatalf("%s: distinct seeds produced the same polynomial", name)
		}
	}
}

// A challenge weight well past the fixed buffer's position supply forces
// the cursor to wrap; the sampler must still terminate with exactly Tau
// nonzero coefficients.
func TestFixedDigestWraparound(t *testing.T) {
	p := level2()
	p.Name = "fixed-digest-heavy"
	p.Challenge = ChallengeFixedDigest
	p.Tau = 200
	p.Omega = 256
	p.Beta = 400
	p, err := NewParams(p)
	if err != nil {
		t.Fatal(err)
	}
	c := SampleChallenge(testSeed(3), p)
	if got := c.Weight(); got != p.Tau {
		t.Fatalf("weight %d after wraparound, want %d", got, p.Tau)
	}
	d := SampleChallenge(testSeed(3), p)
	if c != d {
		t.Fatal("wraparound path must stay seed-deterministic")
	}
}

// The mod-5 reduction maps two of the eight 3-bit fields to each negative
// value but only one to each positive value, so negative coefficients must
// dominate in aggregate.
func TestExpandedRangeBias(t *testing.T) {
	p, err := PresetExpandedChallenge()
	if err != nil {
		t.Fatal(err)
	}
	counts := map[int32]int{}
	for b := 0; b < 300; b++ {
		c := SampleChallenge(testSeed(byte(b)), p)
		for _, v := range c {
			if v != 0 {
				counts[v]++
			}
		}
	}
	if counts[-2] <= counts[2] {
		t.Fatalf("expected -2 to dominate +2, got %d vs %d", counts[-2], counts[2])
	}
	if counts[-1] <= counts[1] {
		t.Fatalf("expected -1 to dominate +1, got %d vs %d", counts[-1], counts[1])
	}
}

func TestChallengeSeedLength(t *testing.T) {
	p, err := PresetBaseline()
	require.NoError(t, err)
	require.Panics(t, func() { SampleChallenge(make([]byte, CTildeBytes-1), p) })
	require.Panics(t, func() { SampleChallenge(make([]byte, CTildeBytes+1), p) })
}
