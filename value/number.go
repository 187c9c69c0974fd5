// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math/big"
	"strings"

	"calq.io/calq/config"
	"calq.io/calq/zmath"
)

// Number is an exact rational, always in lowest terms with a positive
// denominator. Integers are Numbers with denominator one. A Number is
// immutable once built; the wrapped Rat must not be mutated.
type Number struct {
	x *big.Rat
}

func NewNumber(r *big.Rat) Number {
	return Number{x: r}
}

func NewInt(i int64) Number {
	return Number{x: new(big.Rat).SetInt64(i)}
}

func NewBigInt(i *big.Int) Number {
	return Number{x: new(big.Rat).SetInt(i)}
}

// NewFrac builds num/den, reduced. den must be nonzero.
func NewFrac(num, den *big.Int) Number {
	if den.Sign() == 0 {
		Errorf(ErrDivByZero, "division by zero")
	}
	return Number{x: new(big.Rat).SetFrac(num, den)}
}

// ParseNumber accepts decimal, 0x/0o/0b prefixed integers, decimal
// fractions (1.25), and exponent forms (1e10, 2.5e-3).
func ParseNumber(s string) (Number, bool) {
	if s == "" {
		return Number{}, false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") ||
		strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") ||
		strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O") {
		i, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return Number{}, false
		}
		return NewBigInt(i), true
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Number{}, false
	}
	return Number{x: r}, true
}

func (n Number) String() string {
	return n.x.RatString()
}

func (n Number) Sprint(conf *config.Config) string {
	return formatNumber(conf, n)
}

func (n Number) Type() T { return TNumber }

func (n Number) Sign() int { return n.x.Sign() }

// Rat returns the inner rational. Callers must not mutate it.
func (n Number) Rat() *big.Rat { return n.x }

// IsInt reports whether n has denominator one.
func (n Number) IsInt() bool { return n.x.IsInt() }

// Int returns the numerator of an integral Number, or faults.
func (n Number) Int(what string) *big.Int {
	if !n.x.IsInt() {
		Errorf(ErrNonInteger, "%s: non-integer %s", what, n.x.RatString())
	}
	return n.x.Num()
}

// Int64 returns the value as an int64, faulting when it does not fit.
func (n Number) Int64(what string) int64 {
	i := n.Int(what)
	if !i.IsInt64() {
		Errorf(ErrInvalidArg, "%s: %s out of range", what, i)
	}
	return i.Int64()
}

var (
	zeroNum = NewInt(0)
	oneNum  = NewInt(1)
)

// addNum adds exactly, pulling the gcd of the denominators out before
// cross-multiplying so the intermediate magnitudes stay small:
// a/b + c/d = (a*(d/g) + c*(b/g)) / (b * (d/g)) with g = gcd(b, d).
func addNum(u, v Number) Number {
	a, b := u.x.Num(), u.x.Denom()
	c, d := v.x.Num(), v.x.Denom()
	g := zmath.Gcd(b, d)
	dg := new(big.Int).Quo(d, g)
	bg := new(big.Int).Quo(b, g)
	num := new(big.Int).Mul(a, dg)
	num.Add(num, new(big.Int).Mul(c, bg))
	den := new(big.Int).Mul(b, dg)
	return Number{x: new(big.Rat).SetFrac(num, den)}
}

func subNum(u, v Number) Number {
	return addNum(u, negNum(v))
}

func mulNum(u, v Number) Number {
	return Number{x: new(big.Rat).Mul(u.x, v.x)}
}

func divNum(u, v Number) Number {
	if v.Sign() == 0 {
		Errorf(ErrDivByZero, "division by zero")
	}
	return Number{x: new(big.Rat).Quo(u.x, v.x)}
}

func negNum(u Number) Number {
	return Number{x: new(big.Rat).Neg(u.x)}
}

func absNum(u Number) Number {
	return Number{x: new(big.Rat).Abs(u.x)}
}

func invNum(u Number) Number {
	if u.Sign() == 0 {
		Errorf(ErrDivByZero, "inverse of zero")
	}
	return Number{x: new(big.Rat).Inv(u.x)}
}

func cmpNum(u, v Number) int {
	return u.x.Cmp(v.x)
}

// QuoMod returns the rounded quotient of a/b under mode and the
// matching remainder, satisfying quo*b + mod == a exactly.
func QuoMod(a, b Number, mode config.RoundMode) (Number, Number) {
	if b.Sign() == 0 {
		Errorf(ErrDivByZero, "division by zero")
	}
	ratio := new(big.Rat).Quo(a.x, b.x)
	quo := config.RoundQuo(ratio.Num(), ratio.Denom(), mode)
	quoN := NewBigInt(quo)
	mod := subNum(a, mulNum(quoN, b))
	return quoN, mod
}

// IntPart returns the integer part of n truncated toward zero.
func (n Number) IntPart() Number {
	return NewBigInt(new(big.Int).Quo(n.x.Num(), n.x.Denom()))
}

// FracPart returns n minus its integer part.
func (n Number) FracPart() Number {
	return subNum(n, n.IntPart())
}

// Floor returns the largest integer not above n.
func (n Number) Floor() Number {
	return NewBigInt(config.RoundQuo(n.x.Num(), n.x.Denom(), config.RoundDown))
}

// Ceil returns the smallest integer not below n.
func (n Number) Ceil() Number {
	return NewBigInt(config.RoundQuo(n.x.Num(), n.x.Denom(), config.RoundUp))
}

// shiftCount validates a shift amount.
func shiftCount(v Number) uint {
	i := v.Int("shift count")
	if i.Sign() < 0 || !i.IsInt64() || i.Int64() > 1<<24 {
		Errorf(ErrInvalidArg, "illegal shift count %s", i)
	}
	return uint(i.Int64())
}

func lshNum(u, v Number) Number {
	i := u.Int("<<")
	return NewBigInt(new(big.Int).Lsh(i, shiftCount(v)))
}

func rshNum(u, v Number) Number {
	i := u.Int(">>")
	return NewBigInt(new(big.Int).Rsh(i, shiftCount(v)))
}

func andNum(u, v Number) Number {
	return NewBigInt(new(big.Int).And(u.Int("&"), v.Int("&")))
}

func orNum(u, v Number) Number {
	return NewBigInt(new(big.Int).Or(u.Int("|"), v.Int("|")))
}

func xorNum(u, v Number) Number {
	return NewBigInt(new(big.Int).Xor(u.Int("^"), v.Int("^")))
}

func notNum(u Number) Number {
	return NewBigInt(new(big.Int).Not(u.Int("~")))
}

// Approx rounds n to the grid of multiples of eps under mode.
// eps must be positive.
func Approx(n Number, eps Number, mode config.RoundMode) Number {
	if eps.Sign() <= 0 {
		Errorf(ErrInvalidArg, "appr: epsilon must be positive")
	}
	steps := new(big.Rat).Quo(n.x, eps.x)
	k := config.RoundQuo(steps.Num(), steps.Denom(), mode)
	return mulNum(NewBigInt(k), eps)
}
