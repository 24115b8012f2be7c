package mlkem

import (
	"fmt"
	"sort"
)

// PresetRank2Baseline returns the rank-2 reference parameters
// (widths 10/4, noise 3/2; 768-byte ciphertext).
func PresetRank2Baseline() (Params, error) {
	return NewParams("rank2-baseline", 2, 10, 4, 3, 2, 0)
}

// PresetRank2WideNoise keeps the rank-2 wire layout but widens the first
// noise distribution to exercise the extended sampler range.
func PresetRank2WideNoise() (Params, error) {
	return NewParams("rank2-widenoise", 2, 10, 4, 4, 2, 0)
}

// PresetRank3Baseline returns the rank-3 reference parameters
// (widths 10/4; 1088-byte ciphertext).
func PresetRank3Baseline() (Params, error) {
	return NewParams("rank3-baseline", 3, 10, 4, 2, 2, 0)
}

// PresetRank4Baseline returns the rank-4 reference parameters
// (widths 11/5; 1568-byte ciphertext).
func PresetRank4Baseline() (Params, error) {
	return NewParams("rank4-baseline", 4, 11, 5, 2, 2, 0)
}

// PresetRank4Compressed is the high-compression rank-4 variant: widths 11/3
// and a 32-byte confirmation tag, reproducing the 1536-byte round-1 wire
// layout. Ciphertexts are not cross-decodable with rank4-baseline.
func PresetRank4Compressed() (Params, error) {
	return NewParams("rank4-compressed", 4, 11, 3, 2, 2, 32)
}

// PresetRank4WideNoise pairs the baseline rank-4 layout with the widest
// supported noise widths.
func PresetRank4WideNoise() (Params, error) {
	return NewParams("rank4-widenoise", 4, 11, 5, 5, 4, 0)
}

var presets = map[string]func() (Params, error){
	"rank2-baseline":   PresetRank2Baseline,
	"rank2-widenoise":  PresetRank2WideNoise,
	"rank3-baseline":   PresetRank3Baseline,
	"rank4-baseline":   PresetRank4Baseline,
	"rank4-compressed": PresetRank4Compressed,
	"rank4-widenoise":  PresetRank4WideNoise,
}

// PresetByName resolves an encryption-side preset by its registry name.
func PresetByName(name string) (Params, error) {
	ctor, ok := presets[name]
	if !ok {
		return Params{}, fmt.Errorf("mlkem: unknown preset %q", name)
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
