package mldsa

import (
	"fmt"
	"sort"
)

// level2 returns the shared level-2 constants; the preset constructors
// override the tweaked fields before validation.
func level2() Params {
	return Params{
		K:      4,
		L:      4,
		Eta:    2,
		Tau:    39,
		Omega:  80,
		Beta:   78,
		Gamma1: 1 << 17,
		Gamma2: Gamma2QMinus1Div88,
	}
}

// PresetBaseline is the unmodified level-2 configuration
// (TAU=39, OMEGA=80, BETA=78; 2420-byte signatures).
func PresetBaseline() (Params, error) {
	p := level2()
	p.Name = "baseline"
	return NewParams(p)
}

// PresetModifiedBounds raises the challenge weight and lowers the hint
// bound (TAU=50, OMEGA=70, BETA=100; 2410-byte signatures). Signatures are
// not cross-verifiable with baseline material.
func PresetModifiedBounds() (Params, error) {
	p := level2()
	p.Name = "modified-bounds"
	p.Tau = 50
	p.Omega = 70
	p.Beta = 100
	return NewParams(p)
}

// PresetFixedDigestChallenge swaps the challenge XOF for the fixed
// four-digest construction; all bounds match baseline.
func PresetFixedDigestChallenge() (Params, error) {
	p := level2()
	p.Name = "fixed-digest-challenge"
	p.Challenge = ChallengeFixedDigest
	return NewParams(p)
}

// PresetExpandedChallenge widens the challenge alphabet to {-2,-1,1,2};
// the packed challenge grows from 64 to 96 bytes.
func PresetExpandedChallenge() (Params, error) {
	p := level2()
	p.Name = "expanded-challenge"
	p.Challenge = ChallengeExpandedRange
	return NewParams(p)
}

// PresetRelaxedRejection relaxes the rejection margin (BETA=100, flagged as
// inconsistent with TAU*ETA) and uses the relaxed-bound policy.
func PresetRelaxedRejection() (Params, error) {
	p := level2()
	p.Name = "relaxed-rejection"
	p.Beta = 100
	p.Rejection = RejectionRelaxedBound
	return NewParams(p)
}

// PresetBypassRejection keeps the baseline bounds but force-accepts 10% of
// rejected attempts. Non-conformant; see RejectionProbabilisticBypass.
func PresetBypassRejection() (Params, error) {
	p := level2()
	p.Name = "bypass-rejection"
	p.Rejection = RejectionProbabilisticBypass
	return NewParams(p)
}

var presets = map[string]func() (Params, error){
	"baseline":               PresetBaseline,
	"modified-bounds":        PresetModifiedBounds,
	"fixed-digest-challenge": PresetFixedDigestChallenge,
	"expanded-challenge":     PresetExpandedChallenge,
	"relaxed-rejection":      PresetRelaxedRejection,
	"bypass-rejection":       PresetBypassRejection,
}

// PresetByName resolves a signature-side preset by its registry name.
func PresetByName(name string) (Params, error) {
	ctor, ok := presets[name]
	if !ok {
		return Params{}, fmt.Errorf("mldsa: unknown preset %q", name)
	}
	return ctor()
}

// PresetNames lists the registered presets in lexical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
