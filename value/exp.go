// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// ratExp returns e**x to within 0.75*eps. The argument is split into
// integer and fractional parts: the fraction goes through the Taylor
// series, the integer part through an exact power of a sufficiently
// precise approximation of e.
func ratExp(x, eps Number) Number {
	checkEps(eps)
	if x.Sign() < 0 {
		// exp(-x) >= ... : exp(x) = 1/exp(-x), and for exp(-x) >= 1
		// the reciprocal does not amplify the error.
		y := ratExp(negNum(x), epsDiv(eps, 4))
		return truncDyadic(invNum(y), epsShift(epsDiv(eps, 4)))
	}
	k := x.IntPart() // k >= 0
	if !k.x.Num().IsInt64() || k.x.Num().Int64() > 1<<20 {
		Errorf(ErrInvalidArg, "exp: argument %s too large", x.String())
	}
	ki := k.x.Num().Int64()
	f := subNum(x, k)

	if ki == 0 {
		return expTaylor(f, epsDiv(eps, 2))
	}
	// Error budget: |e^k' * e^f' - e^x| <= e^k*df + e^f*dk + dk*df.
	// With e^x < 3^(k+1), spending eps/4 on each side keeps the total
	// under 0.75*eps.
	bound := new(big.Int).Exp(big.NewInt(3), big.NewInt(ki+1), nil)
	budget := Number{x: new(big.Rat).SetFrac(eps.x.Num(), new(big.Int).Mul(eps.x.Denom(), new(big.Int).Mul(bound, big.NewInt(4))))}
	// e to absolute precision budget/k: the k-th power multiplies the
	// error by at most k*e^(k-1) < k*3^k.
	eApprox := expTaylor(oneNum, epsDiv(budget, ki))
	ek := powIntExp(eApprox, big.NewInt(ki)).(Number)
	ef := expTaylor(f, budget)
	r := mulNum(ek, ef)
	return truncDyadic(r, epsShift(epsDiv(eps, 8)))
}

// expTaylor sums the series for e**f, 0 <= f < 1, to within eps.
func expTaylor(f, eps Number) Number {
	sum := oneNum
	term := oneNum
	for i := int64(1); ; i++ {
		term = mulNum(term, divNum(f, NewInt(i)))
		sum = addNum(sum, term)
		// Tail <= term * (f/(i+1)) / (1 - f/(i+2)) <= 2*term once
		// i+1 > 2f, which holds from the first iteration for f < 1.
		if absLess(mulNum(term, two), eps) {
			break
		}
	}
	return sum
}

// ratCosh and ratSinh derive from exp; used by the complex layer.
// Both evaluate at |x| so the reciprocal term stays below one and
// cannot amplify the error.
func ratCosh(x, eps Number) Number {
	e := ratExp(absNum(x), epsDiv(eps, 4))
	return mulNum(half, addNum(e, invNum(e)))
}

func ratSinh(x, eps Number) Number {
	if x.Sign() == 0 {
		return zeroNum
	}
	e := ratExp(absNum(x), epsDiv(eps, 4))
	s := mulNum(half, subNum(e, invNum(e)))
	if x.Sign() < 0 {
		s = negNum(s)
	}
	return s
}
