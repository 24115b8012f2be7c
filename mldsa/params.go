package mldsa

import (
	"fmt"
	mathbits "math/bits"
)

const (
	// N is the polynomial degree.
	N = 256
	// Q is the signature-side coefficient modulus.
	Q = 8380417
	// D is the number of bits dropped by Power2Round.
	D = 13
	// CTildeBytes is the length of a challenge seed (the commitment
	// digest handed in by the signing protocol).
	CTildeBytes = 32
)

// Gamma2 values supported by Decompose; both divide (Q-1)/2.
const (
	Gamma2QMinus1Div88 = (Q - 1) / 88
	Gamma2QMinus1Div32 = (Q - 1) / 32
)

// ChallengeVariant selects one of the challenge derivation strategies.
type ChallengeVariant int

const (
	// ChallengeStandard streams positions and signs from SHAKE-256 with
	// unbounded refill; alphabet {-1,+1}.
	ChallengeStandard ChallengeVariant = iota
	// ChallengeFixedDigest draws everything from a fixed 128-byte buffer
	// built from four SHA3-256 digests; alphabet {-1,+1}.
	ChallengeFixedDigest
	// ChallengeExpandedRange streams positions like ChallengeStandard but
	// draws values from {-2,-1,1,2} via a 3-bit field reduced mod 5.
	ChallengeExpandedRange
)

func (v ChallengeVariant) String() string {
	switch v {
	case ChallengeStandard:
		return "standard"
	case ChallengeFixedDigest:
		return "fixed-digest"
	case ChallengeExpandedRange:
		return "expanded-range"
	}
	return fmt.Sprintf("challenge-variant(%d)", int(v))
}

// RejectionVariant selects one of the acceptance policies.
type RejectionVariant int

const (
	// RejectionStrict is the reference bound check.
	RejectionStrict RejectionVariant = iota
	// RejectionRelaxedBound halves the response-norm margin; its
	// acceptance region strictly contains RejectionStrict's.
	RejectionRelaxedBound
	// RejectionProbabilisticBypass force-accepts 10% of the attempts
	// RejectionStrict would reject. Non-conformant: output signatures may
	// violate the nominal bound. Never a drop-in for RejectionStrict.
	RejectionProbabilisticBypass
)

func (v RejectionVariant) String() string {
	switch v {
	case RejectionStrict:
		return "strict"
	case RejectionRelaxedBound:
		return "relaxed-bound"
	case RejectionProbabilisticBypass:
		return "probabilistic-bypass"
	}
	return fmt.Sprintf("rejection-variant(%d)", int(v))
}

// Params binds the primitive constants of one signature-scheme variant and
// the challenge/rejection strategies it uses. A value is validated by
// NewParams and must be treated as immutable afterwards: switching presets
// once key material exists is unsupported. Derived byte sizes are methods,
// recomputed from the primitive fields on every call.
type Params struct {
	Name string
	// K and L are the module dimensions of the verification and secret
	// vectors.
	K, L int
	// Eta bounds the secret key coefficients.
	Eta int
	// Tau is the challenge weight: the exact number of nonzero challenge
	// coefficients.
	Tau int
	// Omega bounds the total weight of the hint vector.
	Omega int
	// Beta is the rejection margin; conventionally Tau*Eta.
	Beta int
	// Gamma1 bounds the masking vector; must be a power of two.
	Gamma1 int32
	// Gamma2 is the low-order rounding range.
	Gamma2 int32
	// Challenge and Rejection select the variant strategies.
	Challenge ChallengeVariant
	Rejection RejectionVariant
	// MaxAttempts caps the signing loop. Exceeding it is reported as
	// ErrRetriesExhausted, distinct from ordinary per-attempt rejection.
	MaxAttempts int
}

// NewParams validates the configuration invariants and returns the
// parameter set. Beta != Tau*Eta is deliberately not an error; it is
// surfaced through BetaConsistent and Warnings instead.
func NewParams(p Params) (Params, error) {
	if p.K < 1 || p.L < 1 {
		return Params{}, fmt.Errorf("mldsa: module dimensions K=%d L=%d must be positive", p.K, p.L)
	}
	if p.Tau < 1 || p.Tau > N {
		return Params{}, fmt.Errorf("mldsa: challenge weight TAU=%d outside [1,%d]", p.Tau, N)
	}
	if p.Omega < p.K || p.Omega > N*p.K {
		return Params{}, fmt.Errorf("mldsa: hint bound OMEGA=%d outside [K=%d, N*K=%d]", p.Omega, p.K, N*p.K)
	}
	if p.Eta < 1 {
		return Params{}, fmt.Errorf("mldsa: noise bound ETA=%d must be positive", p.Eta)
	}
	if p.Beta < 1 {
		return Params{}, fmt.Errorf("mldsa: rejection margin BETA=%d must be positive", p.Beta)
	}
	if p.Gamma1 < 2 || p.Gamma1&(p.Gamma1-1) != 0 {
		return Params{}, fmt.Errorf("mldsa: GAMMA1=%d must be a power of two", p.Gamma1)
	}
	if p.Gamma2 != Gamma2QMinus1Div88 && p.Gamma2 != Gamma2QMinus1Div32 {
		return Params{}, fmt.Errorf("mldsa: GAMMA2=%d not a supported rounding range", p.Gamma2)
	}
	if int32(p.Beta) >= p.Gamma1 || int32(p.Beta) >= p.Gamma2 {
		return Params{}, fmt.Errorf("mldsa: BETA=%d leaves no acceptance region", p.Beta)
	}
	switch p.Challenge {
	case ChallengeStandard, ChallengeFixedDigest, ChallengeExpandedRange:
	default:
		return Params{}, fmt.Errorf("mldsa: unknown challenge variant %d", int(p.Challenge))
	}
	switch p.Rejection {
	case RejectionStrict, RejectionRelaxedBound, RejectionProbabilisticBypass:
	default:
		return Params{}, fmt.Errorf("mldsa: unknown rejection variant %d", int(p.Rejection))
	}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.MaxAttempts < 1 {
		return Params{}, fmt.Errorf("mldsa: MaxAttempts=%d must be positive", p.MaxAttempts)
	}
	return p, nil
}

const defaultMaxAttempts = 1024

// BetaConsistent reports whether Beta equals Tau*Eta, the conventional
// relation. An inconsistent value is legal but flagged.
func (p Params) BetaConsistent() bool { return p.Beta == p.Tau*p.Eta }

// Warnings lists configuration oddities that are permitted but worth
// surfacing to the caller before key material is generated.
func (p Params) Warnings() []string {
	var w []string
	if !p.BetaConsistent() {
		w = append(w, fmt.Sprintf("BETA=%d does not equal TAU*ETA=%d", p.Beta, p.Tau*p.Eta))
	}
	if p.Rejection == RejectionProbabilisticBypass {
		w = append(w, "probabilistic-bypass rejection emits signatures that may violate the nominal norm bound")
	}
	return w
}

// PolyZBytes is the packed size of one response polynomial: coefficients in
// (-Gamma1, Gamma1] stored as Gamma1-z in log2(Gamma1)+1 bits each.
func (p Params) PolyZBytes() int { return N * mathbits.Len(uint(p.Gamma1)) / 8 }

// HintBytes is the packed size of the hint vector: Omega position bytes
// plus one cumulative-count byte per polynomial.
func (p Params) HintBytes() int { return p.Omega + p.K }

// ChallengeBytes is the packed size of a challenge polynomial: 2-bit
// coefficients for the ternary alphabets, widened to 3 bits for the
// five-valued expanded alphabet.
func (p Params) ChallengeBytes() int {
	if p.Challenge == ChallengeExpandedRange {
		return N * 3 / 8
	}
	return N * 2 / 8
}

// SignatureBytes is the total signature length on the wire.
func (p Params) SignatureBytes() int {
	return CTildeBytes + p.L*p.PolyZBytes() + p.HintBytes()
}

// PublicKeyBytes is the packed public key length (t1 at 10 bits per
// coefficient plus the 32-byte matrix seed).
func (p Params) PublicKeyBytes() int { return 32 + p.K*N*10/8 }

// PrivateKeyBytes is the packed secret key length.
func (p Params) PrivateKeyBytes() int {
	etaBits := mathbits.Len(uint(2 * p.Eta))
	return 128 + (p.K+p.L)*N*etaBits/8 + p.K*N*D/8
}
