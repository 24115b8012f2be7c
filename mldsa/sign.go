package mldsa

import (
	"errors"
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// ErrRetriesExhausted reports that the signing loop hit its attempt
// ceiling without an acceptance. It is a defensive guard against broken
// configurations, distinct from the ordinary per-attempt rejection that
// the loop absorbs internally.
var ErrRetriesExhausted = errors.New("mldsa: signing retries exhausted")

// Attempt is the transient state of one signing iteration: the candidate
// response, the derived hint and the bound values the policy judges. An
// attempt is created from fresh randomness, discarded on rejection and
// promoted into the signature on acceptance; it is never reused.
type Attempt struct {
	// Z is the candidate response vector (L polynomials).
	Z []Poly
	// Hint carries the 0/1 hint polynomials (K entries).
	Hint []Poly
	// ZNorm, R0Norm and CT0Norm are the infinity norms the policy
	// compares against the rounding-range bounds.
	ZNorm   int32
	R0Norm  int32
	CT0Norm int32
	// HintWeight is the total nonzero count across Hint.
	HintWeight int
}

// AttemptSampler produces one candidate attempt from fresh randomness and
// the challenge polynomial. Real drivers back this with the module
// arithmetic; tests and the sweep tool use SimulatedProver.
type AttemptSampler func(prng utils.PRNG, c Poly) (*Attempt, error)

// Stats aggregates one Sign invocation. Counters are per call, returned to
// the caller for aggregation; there is no process-wide state.
type Stats struct {
	Attempts   int `json:"attempts"`
	Rejections int `json:"rejections"`
	Bypassed   int `json:"bypassed"`
}

// Signature is the assembled output of an accepted attempt.
type Signature struct {
	CTilde []byte
	Z      []byte
	Hint   []byte
}

// Bytes concatenates the signature fields in wire order; the result is
// Params.SignatureBytes() long.
func (s *Signature) Bytes() []byte {
	out := make([]byte, 0, len(s.CTilde)+len(s.Z)+len(s.Hint))
	out = append(out, s.CTilde...)
	out = append(out, s.Z...)
	return append(out, s.Hint...)
}

// Sign runs the signing loop: derive the challenge from the seed, then
// repeatedly sample a candidate and consult the rejection policy until it
// accepts or the attempt ceiling is reached. Every iteration draws fresh
// randomness from the injected PRNG; rejected attempts are discarded
// wholesale. The returned stats cover exactly this invocation.
func Sign(prng utils.PRNG, seed []byte, sample AttemptSampler, p Params) (*Signature, Stats, error) {
	c := SampleChallenge(seed, p)
	policy := PolicyFor(p)
	var st Stats
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		st.Attempts++
		a, err := sample(prng, c)
		if err != nil {
			return nil, st, fmt.Errorf("mldsa: sample attempt: %w", err)
		}
		v, err := policy.Check(a, prng)
		if err != nil {
			return nil, st, err
		}
		if v.Bypassed {
			st.Bypassed++
		}
		if v.Accept {
			sig, err := assemble(seed, a, p)
			if err != nil {
				return nil, st, err
			}
			return sig, st, nil
		}
		st.Rejections++
	}
	return nil, st, ErrRetriesExhausted
}

func assemble(seed []byte, a *Attempt, p Params) (*Signature, error) {
	z, err := PackZVec(a.Z, p)
	if err != nil {
		return nil, err
	}
	hint, err := PackHint(a.Hint, p)
	if err != nil {
		return nil, err
	}
	return &Signature{
		CTilde: append([]byte(nil), seed...),
		Z:      z,
		Hint:   hint,
	}, nil
}

// SimulatedProver returns an attempt sampler that reproduces the norm
// profile of a real signing driver without the module arithmetic: the
// response is uniform inside the masking range, the low-order norm comes
// from decomposing a uniform commitment, and the hint is derived through
// MakeHint from a Beta-bounded perturbation.
func SimulatedProver(p Params) AttemptSampler {
	return func(prng utils.PRNG, _ Poly) (*Attempt, error) {
		a := &Attempt{
			Z:    make([]Poly, p.L),
			Hint: make([]Poly, p.K),
		}
		for i := 0; i < p.L; i++ {
			if err := fillUniformCentered(prng, &a.Z[i], p.Gamma1-1); err != nil {
				return nil, err
			}
		}
		var r0Max int32
		ct0 := make([]Poly, p.K)
		for i := 0; i < p.K; i++ {
			var w Poly
			if err := fillUniformMod(prng, &w); err != nil {
				return nil, err
			}
			var e Poly
			if err := fillUniformCentered(prng, &e, int32(p.Beta)); err != nil {
				return nil, err
			}
			if err := fillUniformCentered(prng, &ct0[i], int32(p.Beta)); err != nil {
				return nil, err
			}
			for j := 0; j < N; j++ {
				_, r0 := Decompose(uint32(w[j]), p.Gamma2)
				mask := r0 >> 31
				abs := (r0 ^ mask) - mask
				gt := (r0Max - abs) >> 31
				r0Max = (abs & gt) | (r0Max &^ gt)
				z := e[j]
				zc := uint32(z + (z>>31)&Q) // lift to canonical [0,Q)
				a.Hint[i][j] = MakeHint(zc, uint32(w[j]), p.Gamma2)
			}
		}
		a.ZNorm = VecInfNorm(a.Z)
		a.R0Norm = r0Max
		a.CT0Norm = VecInfNorm(ct0)
		a.HintWeight = VecWeight(a.Hint)
		return a, nil
	}
}

// fillUniformCentered fills p with coefficients uniform in [-bound, bound].
// The tiny modulo bias is irrelevant for simulation purposes.
func fillUniformCentered(prng utils.PRNG, p *Poly, bound int32) error {
	span := uint32(2*bound + 1)
	buf := make([]byte, 4*N)
	if _, err := io.ReadFull(prng, buf); err != nil {
		return fmt.Errorf("mldsa: prng read: %w", err)
	}
	for i := 0; i < N; i++ {
		word := uint32(buf[4*i]) | uint32(buf[4*i+1])<<8 | uint32(buf[4*i+2])<<16 | uint32(buf[4*i+3])<<24
		p[i] = int32(word%span) - bound
	}
	return nil
}

// fillUniformMod fills p with canonical residues uniform in [0,Q) via
// 23-bit rejection, the reference expansion step.
func fillUniformMod(prng utils.PRNG, p *Poly) error {
	var b [3]byte
	for i := 0; i < N; {
		if _, err := io.ReadFull(prng, b[:]); err != nil {
			return fmt.Errorf("mldsa: prng read: %w", err)
		}
		v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2]&0x7f)<<16
		if v < Q {
			p[i] = int32(v)
			i++
		}
	}
	return nil
}
