package mlkem

import (
	"errors"
	"fmt"
)

const (
	// N is the polynomial degree shared by every preset.
	N = 256
	// Q is the encryption-side coefficient modulus.
	Q = 3329
)

// Params binds the primitive constants of one encryption-scheme variant.
// A value is validated by NewParams and must be treated as immutable
// afterwards: swapping parameters once key material exists under the old
// preset is unsupported. Every derived byte size is a method so it is
// recomputed from the primitive fields on each call, never cached.
type Params struct {
	Name string
	// K is the module rank.
	K int
	// Du and Dv are the compression widths (bits) for the ciphertext
	// vector part and the ciphertext polynomial part.
	Du, Dv int
	// Eta1 and Eta2 are the centered-binomial noise widths.
	Eta1, Eta2 int
	// ConfirmBytes is the length of the confirmation tag appended to the
	// ciphertext by presets that keep the round-1 wire layout; 0 otherwise.
	ConfirmBytes int
}

// NewParams validates the primitive fields and returns an immutable Params.
func NewParams(name string, k, du, dv, eta1, eta2, confirmBytes int) (Params, error) {
	if k < 2 || k > 4 {
		return Params{}, fmt.Errorf("mlkem: module rank K=%d outside {2,3,4}", k)
	}
	if du < 1 || du > 12 {
		return Params{}, fmt.Errorf("mlkem: vector width Du=%d outside [1,12]", du)
	}
	if dv < 0 || dv > du {
		return Params{}, fmt.Errorf("mlkem: poly width Dv=%d outside [0,Du=%d]", dv, du)
	}
	for _, eta := range []int{eta1, eta2} {
		if eta < MinNoiseWidth || eta > MaxNoiseWidth {
			return Params{}, fmt.Errorf("mlkem: noise width %d outside [%d,%d]", eta, MinNoiseWidth, MaxNoiseWidth)
		}
	}
	if confirmBytes < 0 {
		return Params{}, errors.New("mlkem: negative confirmation tag length")
	}
	return Params{Name: name, K: k, Du: du, Dv: dv, Eta1: eta1, Eta2: eta2, ConfirmBytes: confirmBytes}, nil
}

// PolyVecCompressedBytes is the packed size of the K-vector ciphertext part.
func (p Params) PolyVecCompressedBytes() int { return p.K * PolyCompressedBytes(p.Du) }

// PolyCompressedBytesV is the packed size of the ciphertext polynomial part.
func (p Params) PolyCompressedBytesV() int { return PolyCompressedBytes(p.Dv) }

// CiphertextBytes is the total ciphertext length on the wire.
func (p Params) CiphertextBytes() int {
	return p.PolyVecCompressedBytes() + p.PolyCompressedBytesV() + p.ConfirmBytes
}

// PublicKeyBytes is the packed public key length (12-bit coefficients plus
// the 32-byte matrix seed).
func (p Params) PublicKeyBytes() int { return p.K*PolyCompressedBytes(12) + 32 }

// SecretKeyBytes is the packed CPA secret key length.
func (p Params) SecretKeyBytes() int { return p.K * PolyCompressedBytes(12) }

// NoiseBufferBytes is the number of uniformly random bytes SampleCBD
// consumes for one polynomial at the given width.
func NoiseBufferBytes(width int) int { return 2 * width * N / 8 }

// PolyCompressedBytes is the packed size of one polynomial whose
// coefficients are compressed to the given bit width.
func PolyCompressedBytes(bits int) int { return N * bits / 8 }
