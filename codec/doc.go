// Package codec implements the entropy coders for short lattice vectors and
// the four pipelines built from them.
//
// The layers are: Rice coding of position gaps, canonical Huffman coding of
// a small signed alphabet, frequency normalisation onto a power-of-two total,
// an rANS coder driven by a shared normalised table, and a bit-level
// arithmetic coder with adaptive models. Every layer writes through a
// bitstream.Writer.
//
// The pipelines are plain function pairs:
//
//	EncodeSparse / DecodeSparse             one sparse signed vector, Huffman values
//	EncodeSparseBatch / DecodeSparseBatch   many sparse vectors, one shared rANS table
//	EncodeDenseRange / DecodeDenseRange     one dense vector, class-prefixed, no table
//	EncodeDenseBatch / DecodeDenseBatch     many dense vectors, one shared rANS table
//
// Header fields are written MSB-first in a fixed order and fixed widths. The
// rANS payload always starts on a byte boundary and ends with the 4-byte
// little-endian final state.
package codec
