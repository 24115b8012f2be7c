package mlkem

import "fmt"

// PackPoly serializes a compressed polynomial (coefficients already reduced
// to [0,2^bits)) into the reference bit-exact layout: coefficients in index
// order, each contributing its low `bits` bits, filled LSB-first.
func PackPoly(p *Poly, bits int) []byte {
	out := make([]byte, PolyCompressedBytes(bits))
	mask := uint32(1)<<uint(bits) - 1
	var acc uint32
	accBits := 0
	pos := 0
	for i := range p {
		acc |= (uint32(p[i]) & mask) << uint(accBits)
		accBits += bits
		for accBits >= 8 {
			out[pos] = byte(acc)
			acc >>= 8
			accBits -= 8
			pos++
		}
	}
	return out
}

// UnpackPoly reverses PackPoly. The buffer length must match the width.
func UnpackPoly(buf []byte, bits int) (Poly, error) {
	var p Poly
	if len(buf) != PolyCompressedBytes(bits) {
		return p, fmt.Errorf("mlkem: packed poly is %d bytes, want %d for width %d", len(buf), PolyCompressedBytes(bits), bits)
	}
	if bits == 0 {
		return p, nil
	}
	mask := uint32(1)<<uint(bits) - 1
	var acc uint32
	accBits := 0
	pos := 0
	for i := range p {
		for accBits < bits {
			acc |= uint32(buf[pos]) << uint(accBits)
			accBits += 8
			pos++
		}
		p[i] = uint16(acc & mask)
		acc >>= uint(bits)
		accBits -= bits
	}
	return p, nil
}
