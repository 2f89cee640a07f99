package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// RansLowerBound is L, the lower end of the normalised state interval
// [L, L·256).
const RansLowerBound = 1 << 16

const ransStateBytes = 4

type ransEncPhase uint8

const (
	encActive ransEncPhase = iota
	encRenorming
	encFlushed
)

var errRansFlushed = errors.New("codec: rans encoder already flushed")

// RansEncoder is a byte-wise rANS encoder. Symbols must be fed in reverse
// stream order; the decoder then yields them front to back.
type RansEncoder struct {
	t     *FreqTable
	state uint32
	out   []byte
	phase ransEncPhase
	n     int
}

// NewRansEncoder starts an encoder at state L.
func NewRansEncoder(t *FreqTable) *RansEncoder {
	return &RansEncoder{t: t, state: RansLowerBound}
}

// Put encodes one symbol.
func (e *RansEncoder) Put(sym int) error {
	if e.phase == encFlushed {
		return errRansFlushed
	}
	if sym < 0 || sym >= e.t.Len() {
		return fmt.Errorf("%w: symbol %d outside alphabet of %d", ErrCorruptCodebook, sym, e.t.Len())
	}
	f := e.t.freq[sym]
	if f == 0 {
		return fmt.Errorf("%w: symbol %d has zero frequency", ErrCorruptCodebook, sym)
	}
	m := e.t.total
	xmax := (RansLowerBound / m) * 256 * f
	e.phase = encRenorming
	for e.state >= xmax {
		e.out = append(e.out, byte(e.state))
		e.state >>= 8
	}
	e.phase = encActive
	e.state = (e.state/f)*m + e.t.cum[sym] + e.state%f
	e.n++
	return nil
}

// State returns the current coder state.
func (e *RansEncoder) State() uint32 { return e.state }

// Bytes flushes the encoder: renormalisation bytes in production order
// followed by the final state as 4 little-endian bytes.
func (e *RansEncoder) Bytes() []byte {
	if e.phase != encFlushed {
		e.out = binary.LittleEndian.AppendUint32(e.out, e.state)
		e.phase = encFlushed
		dbg("[rANS] encode n=%d M=%d bytes=%d\n", e.n, e.t.total, len(e.out))
	}
	return e.out
}

// EncodeRans encodes syms and returns the flushed stream.
func EncodeRans(t *FreqTable, syms []int) ([]byte, error) {
	e := NewRansEncoder(t)
	for i := len(syms) - 1; i >= 0; i-- {
		if err := e.Put(syms[i]); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

type ransDecPhase uint8

const (
	decPrimed ransDecPhase = iota
	decDecoding
	decRenorming
	decExhausted
)

// RansDecoder reads a stream produced by RansEncoder. Renormalisation bytes
// are consumed backwards from just before the 4-byte state.
type RansDecoder struct {
	t     *FreqTable
	src   []byte
	pos   int
	state uint32
	left  int
	phase ransDecPhase
}

// NewRansDecoder loads the final state from the tail of src and prepares to
// decode count symbols.
func NewRansDecoder(t *FreqTable, src []byte, count int) (*RansDecoder, error) {
	if len(src) < ransStateBytes {
		return nil, corruptf("rans stream of %d bytes has no state", len(src))
	}
	pos := len(src) - ransStateBytes
	state := binary.LittleEndian.Uint32(src[pos:])
	if state < RansLowerBound || state >= RansLowerBound<<8 {
		return nil, corruptf("rans state %#x outside [L, 256·L)", state)
	}
	d := &RansDecoder{t: t, src: src, pos: pos, state: state, left: count}
	if count == 0 {
		d.phase = decExhausted
	}
	return d, nil
}

// Next decodes one symbol and renormalises.
func (d *RansDecoder) Next() (int, error) {
	if d.phase == decExhausted {
		return 0, corruptf("rans stream exhausted")
	}
	d.phase = decDecoding
	m := d.t.total
	slot := d.state & (m - 1)
	sym := d.t.Lookup(slot)
	d.state = d.t.freq[sym]*(d.state/m) + slot - d.t.cum[sym]
	d.phase = decRenorming
	for d.state < RansLowerBound {
		if d.pos == 0 {
			return 0, corruptf("rans stream truncated")
		}
		d.pos--
		d.state = d.state<<8 | uint32(d.src[d.pos])
	}
	d.left--
	if d.left == 0 {
		d.phase = decExhausted
	} else {
		d.phase = decDecoding
	}
	return sym, nil
}

// State returns the current coder state.
func (d *RansDecoder) State() uint32 { return d.state }

// Close checks that the stream was consumed exactly: every symbol decoded,
// every byte read and the state back at L.
func (d *RansDecoder) Close() error {
	if d.left != 0 {
		return corruptf("%d rans symbols left undecoded", d.left)
	}
	if d.pos != 0 || d.state != RansLowerBound {
		return corruptf("rans stream has trailing data (state %#x, %d bytes)", d.state, d.pos)
	}
	return nil
}

// DecodeRans decodes count symbols from src and verifies the stream ends
// exactly.
func DecodeRans(t *FreqTable, src []byte, count int) ([]int, error) {
	d, err := NewRansDecoder(t, src, count)
	if err != nil {
		return nil, err
	}
	out := make([]int, count)
	for i := range out {
		if out[i], err = d.Next(); err != nil {
			return nil, err
		}
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	dbg("[rANS] decode n=%d M=%d bytes=%d\n", count, t.total, len(src))
	return out, nil
}
