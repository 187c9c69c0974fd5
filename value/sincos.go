// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// ratSin and ratCos reduce the argument modulo 2*pi computed finely
// enough that the reduction error stays inside the budget, then sum
// the alternating Taylor series.

func ratSin(x, eps Number) Number {
	r := twoPiReduce(x, epsDiv(eps, 4))
	return sincosSeries(r, epsDiv(eps, 4), true)
}

func ratCos(x, eps Number) Number {
	r := twoPiReduce(x, epsDiv(eps, 4))
	return sincosSeries(r, epsDiv(eps, 4), false)
}

// twoPiReduce returns x minus a multiple of 2*pi near x/(2*pi),
// accurate to within eps. For moderate positive x the result lies
// within [-4, 4] (a little over pi). roundNearest truncates toward
// zero, so for negative x the result can lie up to one period below
// -pi; for very large |x| the coarse pi estimate adds a further drift.
func twoPiReduce(x, eps Number) Number {
	if absLess(x, NewInt(4)) {
		return x
	}
	// Estimate the multiple with a coarse pi, then subtract a fine one.
	coarse := Number{x: big.NewRat(355, 113)}
	n := roundNearest(divNum(x, mulNum(two, coarse)))
	if n.Sign() == 0 {
		return x
	}
	if !n.IsInt64() {
		Errorf(ErrInvalidArg, "sin/cos: argument too large to reduce")
	}
	fine := ratPi(Number{x: new(big.Rat).SetFrac(eps.x.Num(),
		new(big.Int).Mul(eps.x.Denom(), new(big.Int).Lsh(new(big.Int).Abs(n), 2)))})
	return subNum(x, mulNum(NewBigInt(n), mulNum(two, fine)))
}

// roundNearest rounds a rational to an integer near it. An off-by-one
// choice is harmless to the callers: periodicity absorbs it and the
// series guards handle the slightly larger reduced argument.
func roundNearest(x Number) *big.Int {
	num := new(big.Int).Lsh(x.x.Num(), 1)
	num.Add(num, x.x.Denom())
	den := new(big.Int).Lsh(x.x.Denom(), 1)
	return new(big.Int).Quo(num, den)
}

// sincosSeries sums the alternating series for sin (odd powers) or
// cos (even powers) of r to within eps.
func sincosSeries(r, eps Number, sine bool) Number {
	var sum, term Number
	var k int64
	if sine {
		sum, term, k = r, r, 1
	} else {
		sum, term, k = oneNum, oneNum, 0
	}
	r2 := negNum(mulNum(r, r))
	for {
		term = divNum(mulNum(term, r2), NewInt((k+1)*(k+2)))
		k += 2
		sum = addNum(sum, term)
		// Once k exceeds |r| the terms decrease and the alternating
		// tail is bounded by the next term; 16 covers a reduction
		// that lands one period out.
		if k > 16 && absLess(term, eps) {
			break
		}
	}
	return sum
}
