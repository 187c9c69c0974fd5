// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// Power. Integer exponents are exact; a fractional exponent takes the
// principal real root to the configured epsilon.

const maxExpBits = 32

// powNum implements u ** v for rational operands.
func powNum(c Context, u, v Number) Value {
	if v.IsInt() {
		return powIntExp(u, v.x.Num())
	}
	// Fractional exponent p/q: root first, then the integer power.
	p, q := v.x.Num(), v.x.Denom()
	if u.Sign() == 0 {
		if p.Sign() < 0 {
			Errorf(ErrZeroPower, "zero raised to negative power")
		}
		return zeroNum
	}
	if !q.IsInt64() {
		Errorf(ErrInvalidArg, "**: root index %s too large", q)
	}
	neg := false
	base := u
	if u.Sign() < 0 {
		if q.Bit(0) == 0 {
			Errorf(ErrDomain, "**: even root of negative number")
		}
		neg = p.Bit(0) == 1
		base = absNum(u)
	}
	eps := NewNumber(new(big.Rat).Set(c.Config().Epsilon()))
	r := ratRoot(base, q.Int64(), eps)
	w := powIntExp(r, p)
	if neg {
		w = negNum(w.(Number))
	}
	return w
}

// powIntExp raises u to an exact integer power.
func powIntExp(u Number, e *big.Int) Value {
	if e.Sign() == 0 {
		// 0**0 is 1, as in the original system.
		return oneNum
	}
	if u.Sign() == 0 && e.Sign() < 0 {
		Errorf(ErrZeroPower, "zero raised to negative power")
	}
	if e.BitLen() > maxExpBits {
		Errorf(ErrInvalidArg, "**: exponent %s too large", e)
	}
	abs := new(big.Int).Abs(e)
	num := new(big.Int).Exp(u.x.Num(), abs, nil)
	den := new(big.Int).Exp(u.x.Denom(), abs, nil)
	if e.Sign() < 0 {
		num, den = den, num
	}
	return NewFrac(num, den)
}

// powCpx raises a complex to an integer power by repeated squaring.
func powCpx(c Context, u, v Complex) Value {
	if v.im.Sign() != 0 || !v.re.IsInt() {
		Errorf(ErrDomain, "**: complex exponent not supported")
	}
	e := v.re.x.Num()
	if e.BitLen() > maxExpBits {
		Errorf(ErrInvalidArg, "**: exponent %s too large", e)
	}
	if e.Sign() == 0 {
		return oneNum
	}
	invert := e.Sign() < 0
	n := new(big.Int).Abs(e).Int64()
	var acc Value = oneNum
	base := Value(u)
	for n > 0 {
		if n&1 == 1 {
			acc = mulCpx(asComplex(acc), asComplex(base))
		}
		base = mulCpx(asComplex(base), asComplex(base))
		n >>= 1
	}
	if invert {
		acc = divCpx(asComplex(oneNum), asComplex(acc))
	}
	return acc
}
