package mldsa

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"
)

// SampleChallenge deterministically maps a challenge seed to a polynomial
// with exactly Tau nonzero coefficients, dispatching on the variant bound
// in the parameter set. The same seed always yields a bit-identical
// polynomial; no state survives the call. A seed of the wrong length is a
// fatal precondition violation.
func SampleChallenge(seed []byte, p Params) Poly {
	if len(seed) != CTildeBytes {
		panic(fmt.Sprintf("mldsa: challenge seed must be %d bytes, got %d", CTildeBytes, len(seed)))
	}
	switch p.Challenge {
	case ChallengeStandard:
		return challengeStandard(seed, p.Tau)
	case ChallengeFixedDigest:
		return challengeFixedDigest(seed, p.Tau)
	case ChallengeExpandedRange:
		return challengeExpandedRange(seed, p.Tau)
	}
	panic(fmt.Sprintf("mldsa: unknown challenge variant %d", int(p.Challenge)))
}

// challengeStandard follows the reference in-ball sampler: a SHAKE-256
// stream seeded with the commitment digest supplies a 64-bit sign word and
// then position bytes, reject-resampled until the drawn byte fits the
// reservoir index. The stream refills without bound.
func challengeStandard(seed []byte, tau int) Poly {
	xof := sha3.NewShake256()
	mustWrite(xof, seed)
	signs, bitsLeft := readSignWord(xof)
	var c Poly
	for i := N - tau; i < N; i++ {
		b := samplePosition(xof, i)
		if bitsLeft == 0 {
			signs, bitsLeft = readSignWord(xof)
		}
		c[i] = c[b]
		c[b] = 1 - 2*int32(signs&1)
		signs >>= 1
		bitsLeft--
	}
	return c
}

const (
	fixedDigestIterations = 4
	fixedDigestBytes      = fixedDigestIterations * 32
	fixedDigestSignBytes  = 8
)

// challengeFixedDigest derives a fixed 128-byte buffer from four SHA3-256
// digests: the bare seed first, then seed||counter for counters 1..3 (a
// 4-byte field whose first byte carries the iteration). Positions and
// signs come only from this buffer. When the position cursor runs off the
// end it wraps back to byte 8; for large Tau this reuses position entropy
// and biases the selection. The wraparound is a known, seed-reproducible
// limitation of the construction and is preserved deliberately: a refill
// would change every existing vector.
func challengeFixedDigest(seed []byte, tau int) Poly {
	var buf [fixedDigestBytes]byte
	d := sha3.Sum256(seed)
	copy(buf[:32], d[:])
	msg := make([]byte, len(seed)+4)
	copy(msg, seed)
	for i := 1; i < fixedDigestIterations; i++ {
		msg[len(seed)] = byte(i)
		d = sha3.Sum256(msg)
		copy(buf[i*32:], d[:])
	}
	signs := binary.LittleEndian.Uint64(buf[:fixedDigestSignBytes])
	pos := fixedDigestSignBytes
	var c Poly
	for i := N - tau; i < N; i++ {
		var b int
		for {
			if pos >= fixedDigestBytes {
				pos = fixedDigestSignBytes
			}
			b = int(buf[pos])
			pos++
			if b <= i {
				break
			}
		}
		c[i] = c[b]
		c[b] = 1 - 2*int32(signs&1)
		signs >>= 1
	}
	return c
}

// challengeExpandedRange streams positions exactly like challengeStandard
// but assigns values from a 3-bit field reduced mod 5 and shifted to
// [-2,2]. The mod-5 reduction maps two of the eight field values onto the
// same output twice; that bias is part of the variant's definition and is
// kept as-is. Fields that reduce to 0 are redrawn so the polynomial ends
// up with exactly tau nonzero coefficients.
func challengeExpandedRange(seed []byte, tau int) Poly {
	xof := sha3.NewShake256()
	mustWrite(xof, seed)
	signs, bitsLeft := readSignWord(xof)
	var c Poly
	for i := N - tau; i < N; i++ {
		b := samplePosition(xof, i)
		c[i] = c[b]
		for {
			if bitsLeft < 3 {
				signs, bitsLeft = readSignWord(xof)
			}
			v := int32(signs&7)%5 - 2
			signs >>= 3
			bitsLeft -= 3
			if v != 0 {
				c[b] = v
				break
			}
		}
	}
	return c
}

// samplePosition draws bytes from the stream until one fits in [0,max],
// the unbiased rejection step shared by the refillable variants.
func samplePosition(r io.Reader, max int) int {
	var b [1]byte
	for {
		mustRead(r, b[:])
		if int(b[0]) <= max {
			return int(b[0])
		}
	}
}

func readSignWord(r io.Reader) (uint64, int) {
	var b [8]byte
	mustRead(r, b[:])
	return binary.LittleEndian.Uint64(b[:]), 64
}

func mustWrite(w io.Writer, p []byte) {
	if _, err := w.Write(p); err != nil {
		panic(fmt.Errorf("mldsa: xof write: %w", err))
	}
}

func mustRead(r io.Reader, p []byte) {
	if _, err := io.ReadFull(r, p); err != nil {
		panic(fmt.Errorf("mldsa: xof read: %w", err))
	}
}
