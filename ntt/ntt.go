package ntt

import (
	"fmt"
	"math/bits"

	"vSIS-Codec/modq"
)

// N is the default transform length.
const N = 1 << 14

// Context carries the precomputed tables for transforms of one length.
type Context struct {
	n      int
	logN   int
	omega  uint32
	w      []uint32 // w[i] = ω^i
	wInv   []uint32 // wInv[i] = ω^-i
	nInv   uint32
	rev    []uint32
	psi    []uint32 // psi[i] = ψ^i, ψ² = ω
	psiInv []uint32 // psiInv[i] = ψ^-i · N^-1
}

// NewContext builds the tables for length n, a power of two with
// 2n dividing Q-1.
func NewContext(n int) (*Context, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("ntt: length %d is not a power of two >= 2", n)
	}
	logN := bits.TrailingZeros(uint(n))
	if logN+1 > modq.MaxLogN {
		return nil, fmt.Errorf("ntt: length 2^%d exceeds the 2-adic order of Q-1", logN)
	}
	dbg("[NTT] NewContext n=%d\n", n)
	c := &Context{n: n, logN: logN}
	c.omega = modq.Pow(modq.Generator, uint64(modq.Q-1)/uint64(n))
	psi := modq.Pow(modq.Generator, uint64(modq.Q-1)/uint64(2*n))
	omegaInv := modq.Inv(c.omega)
	psiInv := modq.Inv(psi)
	c.nInv = modq.Inv(uint32(n))

	c.w = make([]uint32, n)
	c.wInv = make([]uint32, n)
	c.psi = make([]uint32, n)
	c.psiInv = make([]uint32, n)
	c.rev = make([]uint32, n)
	c.w[0], c.wInv[0], c.psi[0] = 1, 1, 1
	c.psiInv[0] = c.nInv
	for i := 1; i < n; i++ {
		c.w[i] = modq.Mul(c.w[i-1], c.omega)
		c.wInv[i] = modq.Mul(c.wInv[i-1], omegaInv)
		c.psi[i] = modq.Mul(c.psi[i-1], psi)
		c.psiInv[i] = modq.Mul(c.psiInv[i-1], psiInv)
	}
	shift := 32 - logN
	for i := 0; i < n; i++ {
		c.rev[i] = bits.Reverse32(uint32(i)) >> shift
	}
	return c, nil
}

// Len returns the transform length.
func (c *Context) Len() int { return c.n }

// Root returns the principal n-th root of unity ω used by the tables.
func (c *Context) Root() uint32 { return c.omega }

func (c *Context) check(a []uint32) error {
	if len(a) != c.n {
		return fmt.Errorf("ntt: vector length %d, want %d", len(a), c.n)
	}
	return nil
}

// Forward replaces a, whose entries must lie in [0,Q), by its NTT.
func (c *Context) Forward(a []uint32) error {
	if err := c.check(a); err != nil {
		return err
	}
	c.transform(a, c.w)
	return nil
}

// Inverse undoes Forward, including the final scaling by N^-1.
func (c *Context) Inverse(a []uint32) error {
	if err := c.check(a); err != nil {
		return err
	}
	c.transform(a, c.wInv)
	for i := range a {
		a[i] = modq.Mul(a[i], c.nInv)
	}
	return nil
}

func (c *Context) transform(a []uint32, tw []uint32) {
	n := c.n
	for i := 0; i < n; i++ {
		if j := int(c.rev[i]); i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
	for s := 1; s <= c.logN; s++ {
		m := 1 << s
		h := m >> 1
		stride := n / m
		for k := 0; k < n; k += m {
			for j := 0; j < h; j++ {
				t := modq.Mul(tw[j*stride], a[k+j+h])
				u := a[k+j]
				a[k+j] = modq.Add(u, t)
				a[k+j+h] = modq.Sub(u, t)
			}
		}
	}
}

// MulPointwise sets out[i] = a[i]·b[i] mod Q. out may alias a or b.
func (c *Context) MulPointwise(a, b, out []uint32) error {
	for _, v := range [][]uint32{a, b, out} {
		if err := c.check(v); err != nil {
			return err
		}
	}
	for i := range out {
		out[i] = modq.Mul(a[i], b[i])
	}
	return nil
}

func (c *Context) load(a []uint32) ([]uint32, error) {
	if err := c.check(a); err != nil {
		return nil, err
	}
	out := make([]uint32, c.n)
	for i, v := range a {
		out[i] = v % modq.Q
	}
	return out, nil
}

// Convolve returns the cyclic convolution of a and b (product modulo
// x^N - 1). Inputs are reduced modulo Q and left untouched.
func (c *Context) Convolve(a, b []uint32) ([]uint32, error) {
	fa, err := c.load(a)
	if err != nil {
		return nil, err
	}
	fb, err := c.load(b)
	if err != nil {
		return nil, err
	}
	c.transform(fa, c.w)
	c.transform(fb, c.w)
	for i := range fa {
		fa[i] = modq.Mul(fa[i], fb[i])
	}
	if err := c.Inverse(fa); err != nil {
		return nil, err
	}
	return fa, nil
}

// ConvolveNegacyclic returns the product of a and b modulo x^N + 1.
func (c *Context) ConvolveNegacyclic(a, b []uint32) ([]uint32, error) {
	fa, err := c.load(a)
	if err != nil {
		return nil, err
	}
	fb, err := c.load(b)
	if err != nil {
		return nil, err
	}
	for i := range fa {
		fa[i] = modq.Mul(fa[i], c.psi[i])
		fb[i] = modq.Mul(fb[i], c.psi[i])
	}
	c.transform(fa, c.w)
	c.transform(fb, c.w)
	for i := range fa {
		fa[i] = modq.Mul(fa[i], fb[i])
	}
	c.transform(fa, c.wInv)
	// psiInv already folds in N^-1.
	for i := range fa {
		fa[i] = modq.Mul(fa[i], c.psiInv[i])
	}
	return fa, nil
}
