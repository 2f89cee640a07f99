package bitstream

import "fmt"

// Reader consumes bits MSB-first from a byte slice.
type Reader struct {
	buf      []byte
	position int
	bitIndex uint
}

// NewReader wraps buf without copying it.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, bitIndex: 7}
}

// BitPos returns the number of bits consumed so far.
func (r *Reader) BitPos() int {
	return r.position*8 + int(7-r.bitIndex)
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return len(r.buf)*8 - r.BitPos()
}

// Aligned reports whether the next read starts on a byte boundary.
func (r *Reader) Aligned() bool { return r.bitIndex == 7 }

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (uint, error) {
	if r.position >= len(r.buf) {
		return 0, fmt.Errorf("%w: read past %d bytes", ErrOutOfBounds, len(r.buf))
	}
	bit := uint(r.buf[r.position]>>r.bitIndex) & 1
	if r.bitIndex == 0 {
		r.bitIndex = 7
		r.position++
	} else {
		r.bitIndex--
	}
	return bit, nil
}

// ReadBits returns the next k bits as an unsigned value, first bit most
// significant. k <= 64.
func (r *Reader) ReadBits(k uint) (uint64, error) {
	if k > 64 {
		return 0, fmt.Errorf("bitstream: cannot read %d bits at once", k)
	}
	if int(k) > r.Remaining() {
		return 0, fmt.Errorf("%w: need %d bits, have %d", ErrOutOfBounds, k, r.Remaining())
	}
	var res uint64
	remaining := k
	for remaining > 0 && r.bitIndex != 7 {
		remaining--
		res = res<<1 | uint64(r.buf[r.position]>>r.bitIndex)&1
		if r.bitIndex == 0 {
			r.bitIndex = 7
			r.position++
		} else {
			r.bitIndex--
		}
	}
	for remaining >= 8 {
		remaining -= 8
		res = res<<8 | uint64(r.buf[r.position])
		r.position++
	}
	if remaining > 0 {
		res = res<<remaining | uint64(r.buf[r.position]>>(8-remaining))&(1<<remaining-1)
		r.bitIndex = 7 - remaining
	}
	return res, nil
}

// Align skips to the next byte boundary.
func (r *Reader) Align() {
	if r.bitIndex != 7 {
		r.bitIndex = 7
		r.position++
	}
}

// ReadByte returns the next byte. The stream must be aligned.
func (r *Reader) ReadByte() (byte, error) {
	if r.bitIndex != 7 {
		return 0, ErrNotAligned
	}
	if r.position >= len(r.buf) {
		return 0, fmt.Errorf("%w: read past %d bytes", ErrOutOfBounds, len(r.buf))
	}
	b := r.buf[r.position]
	r.position++
	return b, nil
}

// Rest returns every unread byte and marks them consumed. The stream must be
// aligned.
func (r *Reader) Rest() ([]byte, error) {
	if r.bitIndex != 7 {
		return nil, ErrNotAligned
	}
	if r.position > len(r.buf) {
		return nil, fmt.Errorf("%w: position %d past %d bytes", ErrOutOfBounds, r.position, len(r.buf))
	}
	rest := r.buf[r.position:]
	r.position = len(r.buf)
	return rest, nil
}
