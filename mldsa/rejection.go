package mldsa

import (
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Verdict is the outcome of one acceptance check. Bypassed marks attempts
// that only passed through the probabilistic bypass.
type Verdict struct {
	Accept   bool
	Bypassed bool
}

// Policy gates a signing attempt's candidate response. Implementations are
// stateless values bound when the parameter set is constructed.
type Policy interface {
	Name() string
	// Check judges one attempt. The PRNG is only consumed by policies
	// that need fresh randomness for their decision.
	Check(a *Attempt, prng utils.PRNG) (Verdict, error)
}

// PolicyFor returns the policy bound to the parameter set's rejection
// variant.
func PolicyFor(p Params) Policy {
	switch p.Rejection {
	case RejectionStrict:
		return strictPolicy{p: p}
	case RejectionRelaxedBound:
		return relaxedPolicy{p: p}
	case RejectionProbabilisticBypass:
		return bypassPolicy{strict: strictPolicy{p: p}}
	}
	panic(fmt.Sprintf("mldsa: unknown rejection variant %d", int(p.Rejection)))
}

// strictPolicy is the reference check: the response norm must stay below
// Gamma1-Beta, the low-order part below Gamma2-Beta, c*t0 below Gamma2,
// and the hint weight within Omega.
type strictPolicy struct{ p Params }

func (s strictPolicy) Name() string { return RejectionStrict.String() }

func (s strictPolicy) Check(a *Attempt, _ utils.PRNG) (Verdict, error) {
	return Verdict{Accept: admits(s.p, a, int32(s.p.Beta))}, nil
}

// admits evaluates every bound with mask arithmetic and combines them
// without short-circuiting, so the time taken does not depend on which
// bound failed. The norms derive from secret material.
func admits(p Params, a *Attempt, zMargin int32) bool {
	acc := ltMask(a.ZNorm, p.Gamma1-zMargin)
	acc &= ltMask(a.R0Norm, p.Gamma2-int32(p.Beta))
	acc &= ltMask(a.CT0Norm, p.Gamma2)
	acc &= ltMask(int32(a.HintWeight), int32(p.Omega)+1)
	return acc != 0
}

// ltMask returns all ones when a < b, zero otherwise. Operands stay far
// from the int32 boundaries, so the subtraction cannot overflow.
func ltMask(a, b int32) uint32 {
	return uint32((a - b) >> 31)
}

// relaxedPolicy halves the response-norm margin, so every attempt the
// strict policy admits is admitted here as well; the remaining checks are
// identical.
type relaxedPolicy struct{ p Params }

func (r relaxedPolicy) Name() string { return RejectionRelaxedBound.String() }

func (r relaxedPolicy) Check(a *Attempt, _ utils.PRNG) (Verdict, error) {
	return Verdict{Accept: admits(r.p, a, int32(r.p.Beta)/2)}, nil
}

// bypassPolicy evaluates the strict check first; a failed attempt is then
// force-accepted when one fresh random byte reduces to zero mod 10, a 10%
// bypass applied only to attempts the strict policy rejected. Signatures
// accepted this way may violate the nominal bound; callers must opt into
// this mode knowingly.
type bypassPolicy struct{ strict strictPolicy }

func (b bypassPolicy) Name() string { return RejectionProbabilisticBypass.String() }

func (b bypassPolicy) Check(a *Attempt, prng utils.PRNG) (Verdict, error) {
	v, err := b.strict.Check(a, prng)
	if err != nil || v.Accept {
		return v, err
	}
	var one [1]byte
	if _, err := io.ReadFull(prng, one[:]); err != nil {
		return Verdict{}, fmt.Errorf("mldsa: bypass draw: %w", err)
	}
	if one[0]%10 == 0 {
		return Verdict{Accept: true, Bypassed: true}, nil
	}
	return Verdict{}, nil
}
