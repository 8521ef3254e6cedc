package avro

// The helpers below build Avro wire encodings for use in tests; the
// decoder tests in builder_test.go are their users. They are unexported
// and not part of the package's public surface.

func appendZigZagVarint(buf []byte, v int64) []byte {
	u := uint64((v << 1) ^ (v >> 63))
	for u >= 0x80 {
		buf = append(buf, byte(u)|0x80)
		u >>= 7
	}
	return append(buf, byte(u))
}

func encodeInt(v int32) []byte    { return appendZigZagVarint(nil, int64(v)) }
func encodeLong(v int64) []byte   { return appendZigZagVarint(nil, v) }
func encodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func encodeBytes(b []byte) []byte {
	out := encodeLong(int64(len(b)))
	return append(out, b...)
}

func encodeString(s string) []byte {
	return encodeBytes([]byte(s))
}
