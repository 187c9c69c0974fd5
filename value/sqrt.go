// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math/big"

	"calq.io/calq/zmath"
)

// ratSqrt returns a rational within 0.75*eps of the square root of x.
// The value is computed as an integer square root on a dyadic grid
// finer than eps; the integer root itself converges by Newton
// iteration.
func ratSqrt(x, eps Number) Number {
	checkEps(eps)
	if x.Sign() < 0 {
		Errorf(ErrDomain, "sqrt of negative number")
	}
	if x.Sign() == 0 {
		return zeroNum
	}
	// Grid 2^-m with 2/2^m <= eps/2.
	m := epsShift(epsDiv(eps, 4))
	scale := new(big.Int).Lsh(oneInt, m)
	// t = floor(x * 2^(2m)); |isqrt(t) - sqrt(x)*2^m| <= 2.
	t := new(big.Int).Mul(x.x.Num(), new(big.Int).Mul(scale, scale))
	t.Quo(t, x.x.Denom())
	r, err := zmath.Isqrt(t)
	if err != nil {
		Errorf(ErrDomain, "sqrt: %v", err)
	}
	return NewFrac(r, scale)
}

// RootValue is the entry for the root builtin.
func RootValue(x Number, n int64, eps Number) Value {
	return ratRoot(x, n, eps)
}

// ratRoot returns the principal nth root of x to within 0.75*eps.
// n must be positive; even roots of negative values are a domain
// fault (the complex path handles them above this level).
func ratRoot(x Number, n int64, eps Number) Number {
	checkEps(eps)
	if n <= 0 {
		Errorf(ErrInvalidArg, "root: index must be positive")
	}
	if n == 1 {
		return x
	}
	if x.Sign() < 0 {
		if n%2 == 0 {
			Errorf(ErrDomain, "root: even root of negative number")
		}
		return negNum(ratRoot(absNum(x), n, eps))
	}
	if x.Sign() == 0 {
		return zeroNum
	}
	if n == 2 {
		return ratSqrt(x, eps)
	}
	m := epsShift(epsDiv(eps, 4))
	scale := new(big.Int).Lsh(oneInt, m)
	t := new(big.Int).Exp(scale, big.NewInt(n), nil)
	t.Mul(t, x.x.Num())
	t.Quo(t, x.x.Denom())
	r, err := zmath.Iroot(t, n)
	if err != nil {
		Errorf(ErrDomain, "root: %v", err)
	}
	return NewFrac(r, scale)
}
