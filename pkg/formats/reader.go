package formats

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ByteCursor is a sequential little-endian reader over an in-memory file.
// A failed read never advances the cursor.
type ByteCursor struct {
	data   []byte
	offset int
}

// NewByteCursor returns a cursor positioned at the start of data.
func NewByteCursor(data []byte) *ByteCursor {
	return &ByteCursor{data: data}
}

// OpenByteCursor reads the whole file at path and returns a cursor over it.
func OpenByteCursor(path string) (*ByteCursor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StructuralError{Op: "opening file", Offset: 0, Err: fmt.Errorf("%w: %v", ErrUnreadableFile, err)}
	}
	return NewByteCursor(data), nil
}

// Offset returns the number of bytes consumed so far.
func (c *ByteCursor) Offset() int {
	return c.offset
}

// Len returns the total length of the underlying data.
func (c *ByteCursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *ByteCursor) Remaining() int {
	return len(c.data) - c.offset
}

// take returns the next n bytes and advances past them.
func (c *ByteCursor) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read of %d bytes at offset %d", ErrInvalidChunkSize, n, c.offset)
	}
	if n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedVOXData, n, c.offset, c.Remaining())
	}
	b := c.data[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

// ReadString returns the next n bytes as text.
func (c *ByteCursor) ReadString(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadInt returns the next n bytes (1..8) as a sign-extended little-endian integer.
func (c *ByteCursor) ReadInt(n int) (int64, error) {
	if n < 1 || n > 8 {
		return 0, fmt.Errorf("formats: unsupported integer width %d", n)
	}
	b, err := c.take(n)
	if err != nil {
		return 0, err
	}
	var u uint64
	for i := n - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	shift := uint(64 - 8*n)
	return int64(u<<shift) >> shift, nil
}

// ReadInt32 returns the next 4 bytes as a little-endian int32.
func (c *ByteCursor) ReadInt32() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadByte returns the next unsigned byte.
func (c *ByteCursor) ReadByte() (byte, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBytes returns the next n bytes. The slice aliases the cursor's data.
func (c *ByteCursor) ReadBytes(n int) ([]byte, error) {
	return c.take(n)
}

// Skip advances the cursor by n bytes without interpreting them.
func (c *ByteCursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}
