package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrOutOfRange is returned whenever a read would cross the declared end of
// the cursor. Decoders treat it as a truncated field.
var ErrOutOfRange = errors.New("wire: span out of range")

// Cursor is a read-only window [start, end) over a byte buffer. Offsets
// passed to its methods are absolute positions in the underlying buffer, so
// a sub-cursor reports the same offsets as its parent.
type Cursor struct {
	buf   []byte
	start int
	end   int
}

func New(buf []byte) Cursor {
	return Cursor{buf: buf, end: len(buf)}
}

// NewRange returns a cursor over buf[off:off+n].
func NewRange(buf []byte, off, n int) (Cursor, error) {
	return New(buf).Sub(off, n)
}

func (c Cursor) Start() int { return c.start }
func (c Cursor) End() int   { return c.end }
func (c Cursor) Len() int   { return c.end - c.start }

func (c Cursor) check(off, n int) error {
	if off < c.start || off > c.end || n < 0 || n > c.end-off {
		return ErrOutOfRange
	}
	return nil
}

// Has reports whether n bytes are readable at off.
func (c Cursor) Has(off, n int) bool {
	return c.check(off, n) == nil
}

// Remaining is the number of readable bytes from off to the end, or 0 when
// off is outside the window.
func (c Cursor) Remaining(off int) int {
	if off < c.start || off > c.end {
		return 0
	}
	return c.end - off
}

// Clamp shrinks n so that [off, off+n) stays inside the window.
func (c Cursor) Clamp(off, n int) int {
	if r := c.Remaining(off); n > r {
		return r
	}
	if n < 0 {
		return 0
	}
	return n
}

func (c Cursor) Byte(off int) (byte, error) {
	if err := c.check(off, 1); err != nil {
		return 0, err
	}
	return c.buf[off], nil
}

func (c Cursor) Uint16(off int) (uint16, error) {
	if err := c.check(off, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(c.buf[off:]), nil
}

func (c Cursor) Uint32(off int) (uint32, error) {
	if err := c.check(off, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(c.buf[off:]), nil
}

// Bytes returns buf[off:off+n]. The slice has its capacity capped so an
// append by the caller can never write into the shared buffer.
func (c Cursor) Bytes(off, n int) ([]byte, error) {
	if err := c.check(off, n); err != nil {
		return nil, err
	}
	return c.buf[off : off+n : off+n], nil
}

// Rest returns every byte from off to the end of the window, or nil.
func (c Cursor) Rest(off int) []byte {
	b, _ := c.Bytes(off, c.Remaining(off))
	return b
}

// Find returns the absolute offset of the first b in [from, from+n), or -1.
// n is clamped to the window.
func (c Cursor) Find(from, n int, b byte) int {
	n = c.Clamp(from, n)
	if n == 0 {
		return -1
	}
	if i := bytes.IndexByte(c.buf[from:from+n], b); i >= 0 {
		return from + i
	}
	return -1
}

// Sub narrows the window to [off, off+n).
func (c Cursor) Sub(off, n int) (Cursor, error) {
	if err := c.check(off, n); err != nil {
		return Cursor{}, err
	}
	return Cursor{buf: c.buf, start: off, end: off + n}, nil
}
