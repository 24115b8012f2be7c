package mldsa

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v4/utils"
)

func checkOK(t *testing.T, pol Policy, a *Attempt, prng utils.PRNG) Verdict {
	t.Helper()
	v, err := pol.Check(a, prng)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestStrictBoundaries(t *testing.T) {
	p, err := PresetBaseline()
	if err != nil {
		t.Fatal(err)
	}
	pol := PolicyFor(p)
	good := Attempt{
		ZNorm:      p.Gamma1 - int32(p.Beta) - 1,
		R0Norm:     p.Gamma2 - int32(p.Beta) - 1,
		CT0Norm:    p.Gamma2 - 1,
		HintWeight: p.Omega,
	}
	if v := checkOK(t, pol, &good, nil); !v.Accept {
		t.Fatal("attempt just inside every bound must be accepted")
	}
	cases := []struct {
		name   string
		mutate func(*Attempt)
	}{
		{"z norm at bound", func(a *Attempt) { a.ZNorm = p.Gamma1 - int32(p.Beta) }},
		{"r0 norm at bound", func(a *Attempt) { a.R0Norm = p.Gamma2 - int32(p.Beta) }},
		{"ct0 norm at bound", func(a *Attempt) { a.CT0Norm = p.Gamma2 }},
		{"hint over omega", func(a *Attempt) { a.HintWeight = p.Omega + 1 }},
	}
	for _, tc := range cases {
		a := good
		tc.mutate(&a)
		if v := checkOK(t, pol, &a, nil); v.Accept {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}
}

// Every attempt the strict policy accepts must pass the relaxed policy as
// well, and the relaxed policy must admit responses the strict one rejects.
func TestRelaxedIsStrictSuperset(t *testing.T) {
	p, err := PresetRelaxedRejection()
	if err != nil {
		t.Fatal(err)
	}
	strict := strictPolicy{p: p}
	relaxed := PolicyFor(p)
	for zNorm := p.Gamma1 - int32(p.Beta) - 3; zNorm <= p.Gamma1; zNorm++ {
		a := Attempt{ZNorm: zNorm, HintWeight: 1}
		sv := checkOK(t, strict, &a, nil)
		rv := checkOK(t, relaxed, &a, nil)
		if sv.Accept && !rv.Accept {
			t.Fatalf("z norm %d: strict accepted but relaxed rejected", zNorm)
		}
	}
	widened := Attempt{ZNorm: p.Gamma1 - int32(p.Beta), HintWeight: 1}
	if checkOK(t, strict, &widened, nil).Accept {
		t.Fatal("widened attempt should fail the strict bound")
	}
	if !checkOK(t, relaxed, &widened, nil).Accept {
		t.Fatal("widened attempt should pass the relaxed bound")
	}
}

func TestBypassRate(t *testing.T) {
	p, err := PresetBypassRejection()
	require.NoError(t, err)
	pol := PolicyFor(p)
	prng := keyedPRNG(t, 0x42)
	rejected := Attempt{ZNorm: p.Gamma1} // fails the strict z bound
	const trials = 10000
	accepted := 0
	for i := 0; i < trials; i++ {
		v, err := pol.Check(&rejected, prng)
		require.NoError(t, err)
		if v.Accept {
			require.True(t, v.Bypassed, "a bound-violating accept must carry the bypass mark")
			accepted++
		}
	}
	rate := float64(accepted) / trials
	require.Greaterf(t, rate, 0.08, "bypass rate %.4f too low", rate)
	require.Lessf(t, rate, 0.12, "bypass rate %.4f too high", rate)
}

func TestBypassLeavesAcceptedAttemptsAlone(t *testing.T) {
	p, err := PresetBypassRejection()
	if err != nil {
		t.Fatal(err)
	}
	pol := PolicyFor(p)
	prng := keyedPRNG(t, 0x43)
	ok := Attempt{ZNorm: 1, R0Norm: 1, CT0Norm: 1, HintWeight: 1}
	v := checkOK(t, pol, &ok, prng)
	if !v.Accept || v.Bypassed {
		t.Fatalf("clean attempt verdict %+v, want plain accept", v)
	}
}

func TestPolicyNames(t *testing.T) {
	for _, variant := range []RejectionVariant{RejectionStrict, RejectionRelaxedBound, RejectionProbabilisticBypass} {
		p := level2()
		p.Name = "policy-name"
		p.Rejection = variant
		p, err := NewParams(p)
		if err != nil {
			t.Fatal(err)
		}
		if got := PolicyFor(p).Name(); got != variant.String() {
			t.Fatalf("policy name %q, want %q", got, variant.String())
		}
	}
}
