package codec

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads fields from a record body. Every read is bounds checked and
// fails with ErrTruncatedStream instead of running past the body.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor positioned at the start of data
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Offset returns the current read position
func (c *Cursor) Offset() int {
	return c.pos
}

func (c *Cursor) need(n int, what string) error {
	if n < 0 || c.Remaining() < n {
		return fmt.Errorf("%w: %s needs %d bytes at offset %d, %d left",
			ErrTruncatedStream, what, n, c.pos, c.Remaining())
	}
	return nil
}

// Byte reads one byte
func (c *Cursor) Byte() (byte, error) {
	if err := c.need(1, "byte"); err != nil {
		return 0, err
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Uint16 reads a little-endian 16-bit value
func (c *Cursor) Uint16() (uint16, error) {
	if err := c.need(2, "word"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

// Bytes reads n bytes. The returned slice aliases the body.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n, "data"); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Rest reads everything that is left
func (c *Cursor) Rest() []byte {
	b := c.data[c.pos:]
	c.pos = len(c.data)
	return b
}

// Name reads a length-prefixed string
func (c *Cursor) Name() (string, error) {
	n, err := c.Byte()
	if err != nil {
		return "", err
	}
	b, err := c.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Index reads an OMF index: one byte below 0x80, otherwise two bytes with
// the high bit of the first byte cleared.
func (c *Cursor) Index() (uint16, error) {
	b, err := c.Byte()
	if err != nil {
		return 0, err
	}
	if b&0x80 == 0 {
		return uint16(b), nil
	}
	lo, err := c.Byte()
	if err != nil {
		return 0, err
	}
	return uint16(b&0x7F)<<8 | uint16(lo), nil
}

// AppendName appends a length-prefixed string. Names longer than 255 bytes
// cannot be represented and must be rejected by the caller.
func AppendName(b []byte, name string) []byte {
	b = append(b, byte(len(name)))
	return append(b, name...)
}

// AppendUint16 appends a little-endian 16-bit value
func AppendUint16(b []byte, v uint16) []byte {
	return append(b, byte(v), byte(v>>8))
}

// AppendIndex appends an OMF index in its one or two byte form
func AppendIndex(b []byte, idx uint16) []byte {
	if idx < 0x80 {
		return append(b, byte(idx))
	}
	return append(b, byte(idx>>8)|0x80, byte(idx))
}
