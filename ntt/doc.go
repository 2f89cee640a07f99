// Package ntt implements an integer-exact radix-2 Number Theoretic Transform
// over Z_Q with Q = 998244353.
//
// A Context owns the twiddle tables for one transform length and is
// read-only after NewContext returns, so it may be shared between callers.
// Convolve multiplies modulo x^N-1; ConvolveNegacyclic multiplies modulo
// x^N+1 by twisting the inputs with powers of a primitive 2N-th root.
package ntt
