package codec

import (
	"errors"
	"fmt"

	"vSIS-Codec/bitstream"
)

var (
	// ErrInvalidArgument reports empty inputs, out-of-range dimensions,
	// values or moduli.
	ErrInvalidArgument = errors.New("codec: invalid argument")
	// ErrOutOfMemory reports a request for more than MaxCoefficients
	// decoded coefficients.
	ErrOutOfMemory = errors.New("codec: allocation limit exceeded")
	// ErrBufferOverflow reports an encoder that outgrew its worst-case size
	// estimate. It indicates a bug, not bad input.
	ErrBufferOverflow = errors.New("codec: buffer overflow")
	// ErrCorruptBitstream reports truncated input, an oversized Rice
	// quotient, an unknown Huffman prefix or inconsistent stream contents.
	ErrCorruptBitstream = errors.New("codec: corrupt bitstream")
	// ErrCorruptCodebook reports a frequency table that cannot drive the
	// coder: a bad sum or a zero frequency for a used symbol.
	ErrCorruptCodebook = errors.New("codec: corrupt codebook")
	// ErrShapeMismatch reports a header whose vector count or dimension
	// disagrees with the caller.
	ErrShapeMismatch = errors.New("codec: shape mismatch")
)

// MaxCoefficients bounds num_vectors·dimension on decode.
const MaxCoefficients = 1 << 26

// MaxDimension is the largest vector dimension any pipeline accepts.
const MaxDimension = 1<<16 - 1

// MaxVectors is the largest batch size a 16-bit header can carry.
const MaxVectors = 1<<16 - 1

// readErr maps a bitstream failure during decoding to ErrCorruptBitstream
// while keeping the cause matchable.
func readErr(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bitstream.ErrOutOfBounds) {
		return fmt.Errorf("%w: %s: %w", ErrCorruptBitstream, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// writeErr maps a bitstream failure during encoding to ErrBufferOverflow.
func writeErr(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bitstream.ErrOutOfBounds) {
		return fmt.Errorf("%w: %s: %w", ErrBufferOverflow, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func invalidf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, a...))
}

func corruptf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptBitstream, fmt.Sprintf(format, a...))
}

func shapef(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrShapeMismatch, fmt.Sprintf(format, a...))
}

// checkShape guards decoder allocations against oversized requests.
func checkShape(n, dim int) error {
	if n < 1 || n > MaxVectors {
		return invalidf("vector count %d outside [1,%d]", n, MaxVectors)
	}
	if dim < 1 || dim > MaxDimension {
		return invalidf("dimension %d outside [1,%d]", dim, MaxDimension)
	}
	if n*dim > MaxCoefficients {
		return fmt.Errorf("%w: %d×%d coefficients", ErrOutOfMemory, n, dim)
	}
	return nil
}
