// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// Shared machinery for the transcendental approximations. Every
// function here takes an exact positive epsilon and returns a rational
// within 0.75*eps of the true value; the slack absorbs a final display
// rounding without observable error.

// checkEps validates a caller-supplied epsilon.
func checkEps(eps Number) {
	if eps.Sign() <= 0 {
		Errorf(ErrInvalidArg, "epsilon must be positive")
	}
}

// epsDiv returns eps/n.
func epsDiv(eps Number, n int64) Number {
	return Number{x: new(big.Rat).Quo(eps.x, new(big.Rat).SetInt64(n))}
}

// epsShift returns m with 2^-m <= eps, for deriving dyadic grids.
func epsShift(eps Number) uint {
	// ceil(log2(den/num)): den/num >= 1 is the interesting case.
	num, den := eps.x.Num(), eps.x.Denom()
	if num.Cmp(den) >= 0 {
		return 1
	}
	q := new(big.Int).Quo(den, num)
	return uint(q.BitLen())
}

// truncDyadic rounds x to the dyadic grid 2^-m, keeping denominators
// small after a long exact summation. The error is at most 2^-m.
func truncDyadic(x Number, m uint) Number {
	scaled := new(big.Rat).Mul(x.x, new(big.Rat).SetInt(new(big.Int).Lsh(oneInt, m)))
	k := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	return NewFrac(k, new(big.Int).Lsh(oneInt, m))
}

// absLess reports |x| < bound.
func absLess(x, bound Number) bool {
	return new(big.Rat).Abs(x.x).Cmp(bound.x) < 0
}

var oneInt = big.NewInt(1)

var (
	half = Number{x: big.NewRat(1, 2)}
	two  = NewInt(2)
)
