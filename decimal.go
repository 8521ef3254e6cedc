package avro

import (
	"fmt"
	"math/big"
)

// signExtend widens a two's-complement big-endian integer to width bytes,
// padding with 0xFF when the input's sign bit is set and 0x00 otherwise.
// An empty input decodes to zero. It is an error for b to already be
// wider than width.
func signExtend(b []byte, width int) ([]byte, error) {
	if len(b) > width {
		return nil, fmt.Errorf("%w: decimal value of %d bytes overflows %d-byte storage", ErrParse, len(b), width)
	}

	out := make([]byte, width)
	if len(b) == 0 {
		return out, nil
	}

	pad := byte(0x00)
	if b[0]&0x80 != 0 {
		pad = 0xFF
	}
	for i := range out {
		out[i] = pad
	}
	copy(out[width-len(b):], b)
	return out, nil
}

// decimalBigInt interprets b as a big-endian two's-complement integer,
// sign-extending it to width bytes (16 or 32) first.
func decimalBigInt(b []byte, width int) (*big.Int, error) {
	ext, err := signExtend(b, width)
	if err != nil {
		return nil, err
	}

	v := new(big.Int).SetBytes(ext)
	if len(ext) > 0 && ext[0]&0x80 != 0 {
		modulus := new(big.Int).Lsh(big.NewInt(1), uint(8*width))
		v.Sub(v, modulus)
	}
	return v, nil
}

// checkDecimalPrecision reports the number of digits in value and whether
// that count fits within prec (true when it does not exceed prec).
func checkDecimalPrecision(value *big.Int, prec int) (int, bool) {
	digits := len(new(big.Int).Abs(value).String())
	return digits, digits <= prec
}
