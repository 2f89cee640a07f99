package ntt

import "vSIS-Codec/modq"

// NaiveCyclic computes the schoolbook product of a and b modulo (x^n-1, Q).
func NaiveCyclic(a, b []uint32) []uint32 {
	n := len(a)
	res := make([]uint32, n)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			k := (i + j) % n
			res[k] = modq.Add(res[k], modq.Mul(ai%modq.Q, bj%modq.Q))
		}
	}
	return res
}

// NaiveNegacyclic computes the schoolbook product of a and b modulo
// (x^n+1, Q).
func NaiveNegacyclic(a, b []uint32) []uint32 {
	n := len(a)
	res := make([]uint32, n)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			tmp := modq.Mul(ai%modq.Q, bj%modq.Q)
			k := i + j
			if k < n {
				res[k] = modq.Add(res[k], tmp)
			} else {
				res[k-n] = modq.Sub(res[k-n], tmp)
			}
		}
	}
	return res
}
