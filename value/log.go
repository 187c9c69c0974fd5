// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// ratLn returns the natural logarithm of x > 0 to within 0.75*eps.
// The argument is reduced exactly by powers of two, x = 2^k * m with
// m in [1, 2); ln m then comes from the Maclaurin series of
// 2*atanh((m-1)/(m+1)), whose argument stays within [0, 1/3].
func ratLn(x, eps Number) Number {
	checkEps(eps)
	if x.Sign() <= 0 {
		Errorf(ErrDomain, "ln of non-positive number")
	}
	// Scale by 2^-k, adjusting k so m lands in [1, 2).
	k := int64(x.x.Num().BitLen() - x.x.Denom().BitLen())
	m := scalePow2(x, -k)
	if cmpNum(m, oneNum) < 0 {
		k--
		m = scalePow2(x, -k)
	}
	if k == 0 {
		return lnSeries(m, eps)
	}
	absK := k
	if absK < 0 {
		absK = -absK
	}
	ln2 := lnTwo(epsDiv(eps, 4*absK))
	r := addNum(mulNum(NewInt(k), ln2), lnSeries(m, epsDiv(eps, 4)))
	return truncDyadic(r, epsShift(epsDiv(eps, 8)))
}

// scalePow2 returns x * 2^k exactly.
func scalePow2(x Number, k int64) Number {
	if k >= 0 {
		return Number{x: new(big.Rat).SetFrac(
			new(big.Int).Lsh(x.x.Num(), uint(k)), x.x.Denom())}
	}
	return Number{x: new(big.Rat).SetFrac(
		x.x.Num(), new(big.Int).Lsh(x.x.Denom(), uint(-k)))}
}

// lnSeries computes ln m for m in [1, 2) via the atanh series.
func lnSeries(m, eps Number) Number {
	u := divNum(subNum(m, oneNum), addNum(m, oneNum)) // in [0, 1/3]
	if u.Sign() == 0 {
		return zeroNum
	}
	u2 := mulNum(u, u)
	sum := u
	pow := u
	for i := int64(1); ; i++ {
		pow = mulNum(pow, u2)
		term := divNum(pow, NewInt(2*i+1))
		sum = addNum(sum, term)
		// Tail <= term * u^2/(1-u^2) <= term/8 for u <= 1/3.
		if absLess(term, eps) {
			break
		}
	}
	return mulNum(two, sum)
}

// lnTwo caches ln 2 at the finest precision requested so far.
var ln2Cache struct {
	val Number
	eps Number
}

func lnTwo(eps Number) Number {
	if ln2Cache.val.x != nil && cmpNum(ln2Cache.eps, eps) <= 0 {
		return ln2Cache.val
	}
	v := lnSeries(two, eps)
	ln2Cache.val, ln2Cache.eps = v, eps
	return v
}
