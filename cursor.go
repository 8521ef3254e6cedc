package avro

import (
	"errors"
	"fmt"
	"io"
	"unsafe"
)

const (
	maxIntBufSize  = 5
	maxLongBufSize = 10
)

// Cursor walks a complete, already-buffered Avro-encoded byte slice,
// decoding the primitive wire values one at a time. Unlike a buffered
// io.Reader it never blocks for more input: running off the end of the
// slice sets Error to io.ErrUnexpectedEOF.
//
// A Cursor is reused across rows; callers track how many bytes were
// consumed (Pos) between calls to know where the next record starts.
type Cursor struct {
	buf   []byte
	pos   int
	Error error
}

// NewCursor creates a Cursor over buf, starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Reset points the Cursor at a new byte slice and clears any error.
func (c *Cursor) Reset(buf []byte) {
	c.buf = buf
	c.pos = 0
	c.Error = nil
}

// Pos returns the current read offset into the underlying slice.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the number of unread bytes remaining in the slice.
func (c *Cursor) Len() int {
	return len(c.buf) - c.pos
}

// ReportError records an error with the current cursor position, keeping
// the first non-EOF error if one is already set.
func (c *Cursor) ReportError(operation, msg string) {
	if c.Error != nil && !errors.Is(c.Error, io.EOF) {
		return
	}
	c.Error = fmt.Errorf("avro: %s: %s (at offset %d)", operation, msg, c.pos)
}

func (c *Cursor) readByte() byte {
	if c.pos >= len(c.buf) {
		c.Error = io.ErrUnexpectedEOF
		return 0
	}
	b := c.buf[c.pos]
	c.pos++
	return b
}

// ReadBool reads a Boolean from the cursor.
func (c *Cursor) ReadBool() bool {
	b := c.readByte()
	if b != 0 && b != 1 {
		c.ReportError("ReadBool", "invalid bool")
	}
	return b == 1
}

// ReadInt reads a zig-zag varint-encoded int32 from the cursor.
func (c *Cursor) ReadInt() int32 {
	if c.Error != nil {
		return 0
	}

	var (
		n int
		v uint32
		s uint8
	)

	tail := len(c.buf)
	if tail-c.pos > maxIntBufSize {
		tail = c.pos + maxIntBufSize
	}

	for i, b := range c.buf[c.pos:tail] {
		v |= uint32(b&0x7f) << s
		if b&0x80 == 0 {
			c.pos += i + 1
			return int32((v >> 1) ^ -(v & 1))
		}
		s += 7
		n++
	}

	if n >= maxIntBufSize {
		c.ReportError("ReadInt", "int overflow")
		return 0
	}
	c.Error = io.ErrUnexpectedEOF
	return 0
}

// ReadLong reads a zig-zag varint-encoded int64 from the cursor.
func (c *Cursor) ReadLong() int64 {
	if c.Error != nil {
		return 0
	}

	var (
		n int
		v uint64
		s uint8
	)

	tail := len(c.buf)
	if tail-c.pos > maxLongBufSize {
		tail = c.pos + maxLongBufSize
	}

	for i, b := range c.buf[c.pos:tail] {
		v |= uint64(b&0x7f) << s
		if b&0x80 == 0 {
			c.pos += i + 1
			return int64((v >> 1) ^ -(v & 1))
		}
		s += 7
		n++
	}

	if n >= maxLongBufSize {
		c.ReportError("ReadLong", "long overflow")
		return 0
	}
	c.Error = io.ErrUnexpectedEOF
	return 0
}

// ReadFloat reads a raw little-endian IEEE-754 single-precision float.
func (c *Cursor) ReadFloat() float32 {
	if c.pos+4 > len(c.buf) {
		c.Error = io.ErrUnexpectedEOF
		return 0
	}
	buf := c.buf[c.pos : c.pos+4]
	c.pos += 4
	return *(*float32)(unsafe.Pointer(&buf[0]))
}

// ReadDouble reads a raw little-endian IEEE-754 double-precision float.
func (c *Cursor) ReadDouble() float64 {
	if c.pos+8 > len(c.buf) {
		c.Error = io.ErrUnexpectedEOF
		return 0
	}
	buf := c.buf[c.pos : c.pos+8]
	c.pos += 8
	return *(*float64)(unsafe.Pointer(&buf[0]))
}

// ReadBytes reads a length-prefixed byte sequence.
func (c *Cursor) ReadBytes() []byte {
	return c.readBytes("bytes")
}

// ReadString reads a length-prefixed UTF-8 string.
func (c *Cursor) ReadString() string {
	b := c.readBytes("string")
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}

func (c *Cursor) readBytes(op string) []byte {
	size := int(c.ReadLong())
	if c.Error != nil {
		return nil
	}
	if size < 0 {
		c.ReportError("Read"+op, "invalid "+op+" length")
		return nil
	}
	if size == 0 {
		return []byte{}
	}
	if c.pos+size > len(c.buf) {
		c.Error = io.ErrUnexpectedEOF
		return nil
	}

	buf := c.buf[c.pos : c.pos+size]
	c.pos += size
	return buf
}

// ReadFixed reads exactly n raw bytes.
func (c *Cursor) ReadFixed(n int) []byte {
	if c.pos+n > len(c.buf) {
		c.Error = io.ErrUnexpectedEOF
		return nil
	}
	buf := c.buf[c.pos : c.pos+n]
	c.pos += n
	return buf
}

// ReadBlockHeader reads an array/map block count, returning the number
// of items in the block and, when the count was encoded negative, the
// byte size of the block that follows the count (0 otherwise).
func (c *Cursor) ReadBlockHeader() (int64, int64) {
	count := c.ReadLong()
	if count < 0 {
		size := c.ReadLong()
		return -count, size
	}
	return count, 0
}
