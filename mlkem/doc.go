// Package mlkem implements the configurable encryption-side building blocks
// of the tweaked lattice suite: the lossy coefficient compression codec and
// the centered-binomial noise sampler, together with the parameter presets
// that select compression widths and noise widths per variant.
//
// Polynomial arithmetic (NTT), the KEM transform and key/ciphertext
// serialization beyond the packed layouts implemented here live in external
// drivers; this package only fixes the behavior that changes between
// presets.
package mlkem
