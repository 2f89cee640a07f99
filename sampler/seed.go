package sampler

import "golang.org/x/crypto/sha3"

// DeriveSeed expands a domain label and arbitrary material into a 32-byte
// seed with SHAKE-256.
func DeriveSeed(label string, parts ...[]byte) [32]byte {
	h := sha3.NewShake256()
	h.Write([]byte(label))
	for _, p := range parts {
		h.Write(p)
	}
	var seed [32]byte
	h.Read(seed[:])
	return seed
}
