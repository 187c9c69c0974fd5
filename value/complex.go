// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"calq.io/calq/config"
)

// Complex is a pair of exact rationals. A Complex never has a zero
// imaginary part: construction demotes purely real results to Number.
type Complex struct {
	re, im Number
}

// NewComplex builds re+im*i, demoting to Number when im is zero.
func NewComplex(re, im Number) Value {
	if im.Sign() == 0 {
		return re
	}
	return Complex{re: re, im: im}
}

func (c Complex) Components() (Number, Number) {
	return c.re, c.im
}

func (c Complex) String() string {
	return "(" + c.re.String() + "," + c.im.String() + ")"
}

func (c Complex) Sprint(conf *config.Config) string {
	im := formatNumber(conf, c.im)
	if c.re.Sign() == 0 {
		return im + "i"
	}
	re := formatNumber(conf, c.re)
	if c.im.Sign() > 0 {
		return re + "+" + im + "i"
	}
	return re + im + "i" // im's formatting carries the minus sign
}

func (c Complex) Type() T { return TComplex }

// asComplex lifts a Number to a Complex for mixed arithmetic.
func asComplex(v Value) Complex {
	switch v := v.(type) {
	case Number:
		return Complex{re: v, im: zeroNum}
	case Complex:
		return v
	}
	Errorf(ErrTypeMismatch, "cannot use %s as complex", v.Type())
	panic("unreachable")
}

func addCpx(u, v Complex) Value {
	return NewComplex(addNum(u.re, v.re), addNum(u.im, v.im))
}

func subCpx(u, v Complex) Value {
	return NewComplex(subNum(u.re, v.re), subNum(u.im, v.im))
}

func mulCpx(u, v Complex) Value {
	re := subNum(mulNum(u.re, v.re), mulNum(u.im, v.im))
	im := addNum(mulNum(u.re, v.im), mulNum(u.im, v.re))
	return NewComplex(re, im)
}

func divCpx(u, v Complex) Value {
	den := addNum(mulNum(v.re, v.re), mulNum(v.im, v.im))
	if den.Sign() == 0 {
		Errorf(ErrDivByZero, "complex division by zero")
	}
	re := divNum(addNum(mulNum(u.re, v.re), mulNum(u.im, v.im)), den)
	im := divNum(subNum(mulNum(u.im, v.re), mulNum(u.re, v.im)), den)
	return NewComplex(re, im)
}

func negCpx(u Complex) Value {
	return Complex{re: negNum(u.re), im: negNum(u.im)}
}

func conjCpx(u Complex) Value {
	return Complex{re: u.re, im: negNum(u.im)}
}

func eqCpx(u, v Complex) bool {
	return cmpNum(u.re, v.re) == 0 && cmpNum(u.im, v.im) == 0
}

// Conj returns the complex conjugate of a Number or Complex.
func Conj(v Value) Value {
	switch v := v.(type) {
	case Number:
		return v
	case Complex:
		return conjCpx(v)
	}
	Errorf(ErrTypeMismatch, "conj: not a number")
	panic("unreachable")
}

// Re and Im project components; both accept plain Numbers.

func Re(v Value) Number {
	switch v := v.(type) {
	case Number:
		return v
	case Complex:
		return v.re
	}
	Errorf(ErrTypeMismatch, "re: not a number")
	panic("unreachable")
}

func Im(v Value) Number {
	switch v := v.(type) {
	case Number:
		return zeroNum
	case Complex:
		return v.im
	}
	Errorf(ErrTypeMismatch, "im: not a number")
	panic("unreachable")
}
