// Package bitstream implements forward-only, MSB-first bit streams over a
// fixed-capacity byte buffer. The codec pipelines use it for every header
// field, Rice gap and Huffman code, and for the byte-aligned rANS tail.
package bitstream

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a write would exceed the declared
	// capacity or a read would go past the end of the buffer.
	ErrOutOfBounds = errors.New("bitstream: out of bounds")
	// ErrNotAligned is returned by byte operations on an unaligned stream.
	ErrNotAligned = errors.New("bitstream: not byte aligned")
)

// Writer appends bits MSB-first into a buffer of fixed capacity.
type Writer struct {
	buf      []byte
	position int  // index of the byte currently being filled
	bitIndex uint // next bit to fill inside buf[position], 7 is the MSB
}

// NewWriter returns a writer that refuses to grow past capacity bytes.
func NewWriter(capacity int) *Writer {
	if capacity < 0 {
		capacity = 0
	}
	return &Writer{buf: make([]byte, capacity), bitIndex: 7}
}

// Capacity returns the declared capacity in bytes.
func (w *Writer) Capacity() int { return len(w.buf) }

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() int {
	return w.position*8 + int(7-w.bitIndex)
}

// Len returns the number of bytes touched so far.
func (w *Writer) Len() int {
	return (w.BitLen() + 7) / 8
}

// Aligned reports whether the next write starts on a byte boundary.
func (w *Writer) Aligned() bool { return w.bitIndex == 7 }

func (w *Writer) room(bits uint) error {
	if w.BitLen()+int(bits) > len(w.buf)*8 {
		return fmt.Errorf("%w: %d+%d bits exceeds %d bytes", ErrOutOfBounds, w.BitLen(), bits, len(w.buf))
	}
	return nil
}

// WriteBit appends the low bit of bit.
func (w *Writer) WriteBit(bit uint) error {
	if err := w.room(1); err != nil {
		return err
	}
	w.buf[w.position] |= byte(bit&1) << w.bitIndex
	if w.bitIndex == 0 {
		w.bitIndex = 7
		w.position++
	} else {
		w.bitIndex--
	}
	return nil
}

// WriteBits appends the low k bits of v, most significant first. k <= 64.
func (w *Writer) WriteBits(v uint64, k uint) error {
	if k > 64 {
		return fmt.Errorf("bitstream: cannot write %d bits at once", k)
	}
	if k == 0 {
		return nil
	}
	if err := w.room(k); err != nil {
		return err
	}
	remaining := k
	// Fill the partial byte first.
	for remaining > 0 && w.bitIndex != 7 {
		remaining--
		w.buf[w.position] |= byte((v>>remaining)&1) << w.bitIndex
		if w.bitIndex == 0 {
			w.bitIndex = 7
			w.position++
		} else {
			w.bitIndex--
		}
	}
	for remaining >= 8 {
		remaining -= 8
		w.buf[w.position] = byte(v >> remaining)
		w.position++
	}
	if remaining > 0 {
		mask := uint64(1)<<remaining - 1
		w.buf[w.position] |= byte((v&mask)<<(8-remaining))
		w.bitIndex = 7 - remaining
	}
	return nil
}

// Align pads the current byte with zero bits.
func (w *Writer) Align() {
	if w.bitIndex != 7 {
		w.bitIndex = 7
		w.position++
	}
}

// WriteByte appends one byte. The stream must be aligned.
func (w *Writer) WriteByte(b byte) error {
	if w.bitIndex != 7 {
		return ErrNotAligned
	}
	if w.position >= len(w.buf) {
		return fmt.Errorf("%w: byte %d of %d", ErrOutOfBounds, w.position, len(w.buf))
	}
	w.buf[w.position] = b
	w.position++
	return nil
}

// WriteBytes appends p verbatim. The stream must be aligned.
func (w *Writer) WriteBytes(p []byte) error {
	if w.bitIndex != 7 {
		return ErrNotAligned
	}
	if w.position+len(p) > len(w.buf) {
		return fmt.Errorf("%w: %d bytes at %d of %d", ErrOutOfBounds, len(p), w.position, len(w.buf))
	}
	copy(w.buf[w.position:], p)
	w.position += len(p)
	return nil
}

// Finish returns the touched prefix of the buffer, the last partial byte
// padded with zero bits. The writer must not be used afterwards.
func (w *Writer) Finish() []byte {
	return w.buf[:w.Len()]
}
