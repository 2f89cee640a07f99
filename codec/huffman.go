package codec

import (
	"container/heap"
	"fmt"
	"sort"

	"vSIS-Codec/bitstream"
)

// MaxHuffmanLen caps canonical code lengths.
const MaxHuffmanLen = 16

// HuffmanCode is a canonical prefix code over symbols 0..n-1. Symbols with
// length zero are not part of the code.
type HuffmanCode struct {
	lengths []uint8
	codes   []uint32
	// Decoding tables: count[l] codes of length l, sorted lists the
	// symbols in canonical order.
	count  [MaxHuffmanLen + 1]int
	sorted []int
	maxLen int
}

type huffNode struct {
	weight uint64
	order  int // smallest symbol below the node, for deterministic ties
	symbol int
	left   *huffNode
	right  *huffNode
}

type huffHeap []*huffNode

func (h huffHeap) Len() int { return len(h) }
func (h huffHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].order < h[j].order
}
func (h huffHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *huffHeap) Push(x any)   { *h = append(*h, x.(*huffNode)) }
func (h *huffHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// NewHuffmanCode builds a canonical code from symbol frequencies by
// repeatedly merging the two lightest nodes. A single used symbol gets a
// 1-bit code. Lengths are capped at MaxHuffmanLen.
func NewHuffmanCode(freqs []uint32) (*HuffmanCode, error) {
	lengths, err := huffmanLengths(freqs, MaxHuffmanLen)
	if err != nil {
		return nil, err
	}
	return NewHuffmanCodeFromLengths(lengths)
}

func huffmanLengths(freqs []uint32, limit int) ([]uint8, error) {
	h := make(huffHeap, 0, len(freqs))
	for s, f := range freqs {
		if f > 0 {
			h = append(h, &huffNode{weight: uint64(f), order: s, symbol: s})
		}
	}
	if len(h) == 0 {
		return nil, fmt.Errorf("%w: huffman alphabet has no used symbol", ErrInvalidArgument)
	}
	lengths := make([]uint8, len(freqs))
	if len(h) == 1 {
		lengths[h[0].symbol] = 1
		return lengths, nil
	}
	heap.Init(&h)
	for h.Len() > 1 {
		a := heap.Pop(&h).(*huffNode)
		b := heap.Pop(&h).(*huffNode)
		order := a.order
		if b.order < order {
			order = b.order
		}
		heap.Push(&h, &huffNode{weight: a.weight + b.weight, order: order, symbol: -1, left: a, right: b})
	}
	depths := make([]int, len(freqs))
	var walk func(n *huffNode, depth int)
	walk = func(n *huffNode, depth int) {
		if n.left == nil {
			depths[n.symbol] = depth
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(h[0], 0)
	limitLengths(depths, limit)
	for s, d := range depths {
		lengths[s] = uint8(d)
	}
	return lengths, nil
}

// limitLengths clamps depths to limit and then lengthens the deepest codes
// still below the limit until the Kraft sum fits again.
func limitLengths(depths []int, limit int) {
	over := false
	for _, d := range depths {
		if d > limit {
			over = true
			break
		}
	}
	if !over {
		return
	}
	kraft := 0 // in units of 2^-limit
	for s, d := range depths {
		if d > limit {
			depths[s] = limit
		}
		if depths[s] > 0 {
			kraft += 1 << (limit - depths[s])
		}
	}
	for kraft > 1<<limit {
		best := -1
		for s, d := range depths {
			if d > 0 && d < limit && (best < 0 || d > depths[best]) {
				best = s
			}
		}
		if best < 0 {
			return
		}
		kraft -= 1 << (limit - depths[best] - 1)
		depths[best]++
	}
}

// NewHuffmanCodeFromLengths rebuilds a canonical code from code lengths
// alone: shorter codes first, equal lengths in symbol order.
func NewHuffmanCodeFromLengths(lengths []uint8) (*HuffmanCode, error) {
	h := &HuffmanCode{
		lengths: append([]uint8(nil), lengths...),
		codes:   make([]uint32, len(lengths)),
	}
	for s, l := range lengths {
		if l == 0 {
			continue
		}
		if int(l) > MaxHuffmanLen {
			return nil, fmt.Errorf("%w: code length %d for symbol %d", ErrCorruptCodebook, l, s)
		}
		h.count[l]++
		h.sorted = append(h.sorted, s)
		if int(l) > h.maxLen {
			h.maxLen = int(l)
		}
	}
	if len(h.sorted) == 0 {
		return nil, fmt.Errorf("%w: empty huffman code", ErrCorruptCodebook)
	}
	// Kraft inequality; a lone symbol may leave half the space unused.
	kraft := uint64(0)
	for l := 1; l <= MaxHuffmanLen; l++ {
		kraft += uint64(h.count[l]) << (MaxHuffmanLen - l)
	}
	if kraft > 1<<MaxHuffmanLen {
		return nil, fmt.Errorf("%w: code lengths oversubscribe the code space", ErrCorruptCodebook)
	}
	sort.SliceStable(h.sorted, func(i, j int) bool {
		return lengths[h.sorted[i]] < lengths[h.sorted[j]]
	})
	code := uint32(0)
	prev := lengths[h.sorted[0]]
	for _, s := range h.sorted {
		l := lengths[s]
		code <<= l - prev
		prev = l
		h.codes[s] = code
		code++
	}
	return h, nil
}

// Len returns the alphabet size.
func (h *HuffmanCode) Len() int { return len(h.lengths) }

// Lengths returns the code length of every symbol (0 when unused).
func (h *HuffmanCode) Lengths() []uint8 { return append([]uint8(nil), h.lengths...) }

// Code returns the canonical code and its length for sym.
func (h *HuffmanCode) Code(sym int) (uint32, uint8) {
	return h.codes[sym], h.lengths[sym]
}

// Encode writes the code of sym MSB-first.
func (h *HuffmanCode) Encode(w *bitstream.Writer, sym int) error {
	if sym < 0 || sym >= len(h.lengths) || h.lengths[sym] == 0 {
		return fmt.Errorf("%w: symbol %d has no huffman code", ErrCorruptCodebook, sym)
	}
	return w.WriteBits(uint64(h.codes[sym]), uint(h.lengths[sym]))
}

// Decode reads one symbol. A prefix that matches no code fails with
// ErrCorruptBitstream.
func (h *HuffmanCode) Decode(rd *bitstream.Reader) (int, error) {
	code, first, index := 0, 0, 0
	for l := 1; l <= h.maxLen; l++ {
		bit, err := rd.ReadBit()
		if err != nil {
			return 0, readErr("huffman code", err)
		}
		code |= int(bit)
		count := h.count[l]
		if code-first < count {
			return h.sorted[index+code-first], nil
		}
		index += count
		first = (first + count) << 1
		code <<= 1
	}
	return 0, fmt.Errorf("%w: unknown huffman prefix", ErrCorruptBitstream)
}
