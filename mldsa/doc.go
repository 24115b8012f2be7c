// Package mldsa implements the configurable signature-side building blocks
// of the tweaked lattice suite: sparse challenge generation (three
// interchangeable derivation variants), the rejection-sampling acceptance
// policies (three variants), and the bounded signing loop that ties them
// together. Parameter presets bind one challenge variant and one rejection
// variant at construction time; there are no build-time toggles.
//
// The module arithmetic that produces signing candidates (NTT, matrix
// expansion, key handling) is an external collaborator: the signing loop
// consumes candidates through an injected AttemptSampler and only judges
// and assembles them.
package mldsa
