// Package sampler produces the vectors the codecs are exercised with: a
// seeded discrete Gaussian built on xoshiro256** and Box–Muller, plus
// bounded and sparse vectors drawn from a keyed lattigo PRNG.
package sampler
