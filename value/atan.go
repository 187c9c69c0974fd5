// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// ratAtan returns arctan x to within 0.75*eps. Arguments above 1/2
// are folded down with the identities atan x = pi/2 - atan(1/x) and
// atan x = pi/4 + atan((x-1)/(x+1)) until the Maclaurin series
// converges geometrically.
func ratAtan(x, eps Number) Number {
	checkEps(eps)
	if x.Sign() < 0 {
		return negNum(ratAtan(negNum(x), eps))
	}
	switch {
	case cmpNum(x, oneNum) > 0:
		pi := ratPi(epsDiv(eps, 4))
		return subNum(mulNum(half, pi), ratAtan(invNum(x), epsDiv(eps, 4)))
	case cmpNum(x, half) > 0:
		pi := ratPi(epsDiv(eps, 4))
		u := divNum(subNum(x, oneNum), addNum(x, oneNum)) // in (-1/3, 0]
		return addNum(divNum(pi, NewInt(4)), atanSeries(u, epsDiv(eps, 4)))
	}
	return atanSeries(x, epsDiv(eps, 2))
}

// atanSeries sums the alternating Maclaurin series for |u| <= 1/2.
func atanSeries(u, eps Number) Number {
	if u.Sign() == 0 {
		return zeroNum
	}
	sum := u
	pow := u
	nu2 := negNum(mulNum(u, u))
	for i := int64(1); ; i++ {
		pow = mulNum(pow, nu2)
		term := divNum(pow, NewInt(2*i+1))
		sum = addNum(sum, term)
		// Alternating, strictly decreasing: tail < |term|.
		if absLess(term, eps) {
			break
		}
	}
	return sum
}

// Atan2Value and PiValue are the entries for the atan2 and pi
// builtins.
func Atan2Value(y, x, eps Number) Value {
	checkEps(eps)
	return ratAtan2(y, x, eps)
}

func PiValue(eps Number) Value {
	return ratPi(eps)
}

// ratAtan2 returns the angle of the point (x, y) in (-pi, pi].
func ratAtan2(y, x, eps Number) Number {
	switch {
	case x.Sign() > 0:
		return ratAtan(divNum(y, x), eps)
	case x.Sign() == 0:
		if y.Sign() == 0 {
			Errorf(ErrDomain, "atan2(0, 0) undefined")
		}
		pi := ratPi(epsDiv(eps, 2))
		if y.Sign() > 0 {
			return mulNum(half, pi)
		}
		return negNum(mulNum(half, pi))
	default:
		pi := ratPi(epsDiv(eps, 4))
		a := ratAtan(divNum(y, x), epsDiv(eps, 4))
		if y.Sign() < 0 {
			return subNum(a, pi)
		}
		return addNum(a, pi)
	}
}

// ratPi returns pi to within eps by Machin's formula,
// pi = 16*atan(1/5) - 4*atan(1/239), caching the finest value
// computed so far.
var piCache struct {
	val Number
	eps Number
}

func ratPi(eps Number) Number {
	checkEps(eps)
	if piCache.val.x != nil && cmpNum(piCache.eps, eps) <= 0 {
		return piCache.val
	}
	a5 := atanInv(5, epsDiv(eps, 32))
	a239 := atanInv(239, epsDiv(eps, 16))
	v := subNum(mulNum(NewInt(16), a5), mulNum(NewInt(4), a239))
	piCache.val, piCache.eps = v, eps
	return v
}

// atanInv sums atan(1/n) for integer n > 1; the series over 1/n
// converges a digit or more per term.
func atanInv(n int64, eps Number) Number {
	u := Number{x: big.NewRat(1, n)}
	return atanSeries(u, eps)
}
