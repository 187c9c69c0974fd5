// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Complex transcendentals, derived componentwise from the real ones.
// Each component is computed to eps/4 so the result stays within the
// 0.75*eps contract in the max norm.

func cpxExp(z Complex, eps Number) Value {
	// exp(a+bi) = e^a (cos b + i sin b)
	e4 := epsDiv(eps, 4)
	ea := ratExp(z.re, e4)
	return NewComplex(mulNum(ea, ratCos(z.im, e4)), mulNum(ea, ratSin(z.im, e4)))
}

func cpxLn(z Complex, eps Number) Value {
	// ln z = ln |z| + i arg z
	e4 := epsDiv(eps, 4)
	mod2 := addNum(mulNum(z.re, z.re), mulNum(z.im, z.im))
	if mod2.Sign() == 0 {
		Errorf(ErrDomain, "ln of zero")
	}
	return NewComplex(mulNum(half, ratLn(mod2, e4)), ratAtan2(z.im, z.re, e4))
}

func cpxSin(z Complex, eps Number) Value {
	// sin(a+bi) = sin a cosh b + i cos a sinh b
	e4 := epsDiv(eps, 4)
	return NewComplex(
		mulNum(ratSin(z.re, e4), ratCosh(z.im, e4)),
		mulNum(ratCos(z.re, e4), ratSinh(z.im, e4)))
}

func cpxCos(z Complex, eps Number) Value {
	// cos(a+bi) = cos a cosh b - i sin a sinh b
	e4 := epsDiv(eps, 4)
	return NewComplex(
		mulNum(ratCos(z.re, e4), ratCosh(z.im, e4)),
		negNum(mulNum(ratSin(z.re, e4), ratSinh(z.im, e4))))
}

func cpxSqrt(z Complex, eps Number) Value {
	// sqrt(a+bi) = p + qi with p = sqrt((|z|+a)/2), q = sign(b)*sqrt((|z|-a)/2).
	e4 := epsDiv(eps, 4)
	mod2 := addNum(mulNum(z.re, z.re), mulNum(z.im, z.im))
	mod := ratSqrt(mod2, mulNum(e4, e4)) // extra precision before the outer root
	p := ratSqrt(mulNum(half, addNum(mod, z.re)), e4)
	q := ratSqrt(mulNum(half, subNum(mod, z.re)), e4)
	if z.im.Sign() < 0 {
		q = negNum(q)
	}
	return NewComplex(p, q)
}

// SqrtValue is the entry for the sqrt builtin: negative reals promote
// to the complex plane rather than fault.
func SqrtValue(v Value, eps Number) Value {
	switch v := v.(type) {
	case Number:
		if v.Sign() < 0 {
			return NewComplex(zeroNum, ratSqrt(negNum(v), eps))
		}
		return ratSqrt(v, eps)
	case Complex:
		return cpxSqrt(v, eps)
	}
	Errorf(ErrTypeMismatch, "sqrt: not a number")
	panic("unreachable")
}

// TranscendValue applies a real/complex transcendental by name; used
// by the builtin registry.
func TranscendValue(name string, v Value, eps Number) Value {
	switch v := v.(type) {
	case Number:
		switch name {
		case "sin":
			return ratSin(v, eps)
		case "cos":
			return ratCos(v, eps)
		case "exp":
			return ratExp(v, eps)
		case "ln":
			if v.Sign() < 0 {
				return cpxLn(asComplex(v), eps)
			}
			return ratLn(v, eps)
		case "atan":
			return ratAtan(v, eps)
		case "sinh":
			return ratSinh(v, eps)
		case "cosh":
			return ratCosh(v, eps)
		case "tan":
			c := ratCos(v, epsDiv(eps, 8))
			if c.Sign() == 0 {
				Errorf(ErrDomain, "tan: argument near a pole")
			}
			return divNum(ratSin(v, epsDiv(eps, 8)), c)
		}
	case Complex:
		switch name {
		case "sin":
			return cpxSin(v, eps)
		case "cos":
			return cpxCos(v, eps)
		case "exp":
			return cpxExp(v, eps)
		case "ln":
			return cpxLn(v, eps)
		}
		Errorf(ErrDomain, "%s: complex argument not supported", name)
	}
	Errorf(ErrTypeMismatch, "%s: not a number", name)
	panic("unreachable")
}
