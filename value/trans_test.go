// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// within checks |got - want| < bound for float reference values.
func within(t *testing.T, got Number, want float64, bound float64, what string) {
	t.Helper()
	g, _ := got.x.Float64()
	assert.InDelta(t, want, g, bound, what)
}

func eps20() Number {
	return Number{x: new(big.Rat).SetFrac(big.NewInt(1),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil))}
}

func TestCosOne(t *testing.T) {
	// cos(1) to 1e-20: the first 19 decimals must be exact.
	got := ratCos(oneNum, eps20())
	want, ok := new(big.Rat).SetString("5403023058681397174/10000000000000000000")
	require.True(t, ok)
	diff := new(big.Rat).Sub(got.x, want)
	diff.Abs(diff)
	bound := new(big.Rat).SetFrac(big.NewInt(1),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(19), nil))
	assert.True(t, diff.Cmp(bound) < 0, "cos(1) = %s", got.x.FloatString(25))
}

func TestSinCos(t *testing.T) {
	e := num("1/100000000000")
	for _, x := range []string{"0", "1", "-1", "1/2", "3", "-7/2", "100", "-1000"} {
		v := num(x)
		f, _ := v.x.Float64()
		within(t, ratSin(v, e), math.Sin(f), 1e-9, "sin "+x)
		within(t, ratCos(v, e), math.Cos(f), 1e-9, "cos "+x)
	}
	// Identity sin^2 + cos^2 == 1 to the combined error bound.
	s := ratSin(num("5/7"), e)
	c := ratCos(num("5/7"), e)
	sum := addNum(mulNum(s, s), mulNum(c, c))
	assert.True(t, absLess(subNum(sum, oneNum), num("1/100000000")), "sin^2+cos^2 = %s", sum)
}

func TestExpLn(t *testing.T) {
	e := num("1/100000000000")
	for _, x := range []string{"0", "1", "-1", "5/2", "10", "-10", "1/7"} {
		v := num(x)
		f, _ := v.x.Float64()
		within(t, ratExp(v, e), math.Exp(f), 1e-6, "exp "+x)
	}
	for _, x := range []string{"1", "2", "1/2", "10", "355/113", "1000000"} {
		v := num(x)
		f, _ := v.x.Float64()
		within(t, ratLn(v, e), math.Log(f), 1e-9, "ln "+x)
	}
	// ln(exp(3)) returns to 3.
	y := ratLn(ratExp(num("3"), num("1/100000000000000")), e)
	assert.True(t, absLess(subNum(y, num("3")), num("1/1000000000")), "ln exp 3 = %s", y)

	f := catchFault(func() { ratLn(num("0"), e) })
	require.NotNil(t, f)
	assert.Equal(t, ErrDomain, f.Code)
}

func TestAtanPi(t *testing.T) {
	e := num("1/100000000000")
	for _, x := range []string{"0", "1", "-1", "1/3", "3", "-10", "239"} {
		v := num(x)
		f, _ := v.x.Float64()
		within(t, ratAtan(v, e), math.Atan(f), 1e-9, "atan "+x)
	}
	pi := ratPi(eps20())
	want, _ := new(big.Rat).SetString("314159265358979323846/100000000000000000000")
	diff := new(big.Rat).Sub(pi.x, want)
	diff.Abs(diff)
	bound := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(19), nil))
	assert.True(t, diff.Cmp(bound) < 0, "pi = %s", pi.x.FloatString(25))

	within(t, ratAtan2(num("1"), num("1"), e), math.Pi/4, 1e-9, "atan2(1,1)")
	within(t, ratAtan2(num("1"), num("-1"), e), 3*math.Pi/4, 1e-9, "atan2(1,-1)")
	within(t, ratAtan2(num("-1"), num("-1"), e), -3*math.Pi/4, 1e-9, "atan2(-1,-1)")
	within(t, ratAtan2(num("1"), num("0"), e), math.Pi/2, 1e-9, "atan2(1,0)")
}

func TestSqrtRoot(t *testing.T) {
	e := num("1/100000000000000000000")
	r := ratSqrt(num("2"), e)
	sq := mulNum(r, r)
	assert.True(t, absLess(subNum(sq, two), num("1/1000000000000000000")), "sqrt2^2 = %s", sq)

	r = ratSqrt(num("225/64"), e)
	assert.True(t, absLess(subNum(r, num("15/8")), e), "sqrt(225/64) = %s", r)

	r = ratRoot(num("27"), 3, e)
	assert.True(t, absLess(subNum(r, num("3")), e), "cbrt 27 = %s", r)

	r = ratRoot(num("-27"), 3, e)
	assert.True(t, absLess(subNum(r, num("-3")), e), "cbrt -27 = %s", r)

	f := catchFault(func() { ratSqrt(num("-1"), e) })
	require.NotNil(t, f)
	assert.Equal(t, ErrDomain, f.Code)

	// The builtin path promotes instead.
	v := SqrtValue(num("-4"), e)
	z, ok := v.(Complex)
	require.True(t, ok)
	re, im := z.Components()
	assert.Zero(t, re.Sign())
	assert.True(t, absLess(subNum(im, two), e), "sqrt(-4) = %s", v)
}

func TestComplexTranscendentals(t *testing.T) {
	e := num("1/1000000000000")
	z := Complex{re: num("1"), im: num("1")}
	g := cpxExp(z, e).(Complex)
	gr, gi := g.Components()
	within(t, gr, math.E*math.Cos(1), 1e-9, "re exp(1+i)")
	within(t, gi, math.E*math.Sin(1), 1e-9, "im exp(1+i)")

	l := cpxLn(z, e).(Complex)
	lr, li := l.Components()
	within(t, lr, 0.5*math.Log(2), 1e-9, "re ln(1+i)")
	within(t, li, math.Pi/4, 1e-9, "im ln(1+i)")

	s := cpxSqrt(Complex{re: num("0"), im: num("2")}, e).(Complex)
	sr, si := s.Components()
	within(t, sr, 1, 1e-9, "re sqrt(2i)")
	within(t, si, 1, 1e-9, "im sqrt(2i)")
}

func TestBernoulliEuler(t *testing.T) {
	assert.Equal(t, "1", Bernoulli(0).String())
	assert.Equal(t, "-1/2", Bernoulli(1).String())
	assert.Equal(t, "1/6", Bernoulli(2).String())
	assert.Equal(t, "0", Bernoulli(3).String())
	assert.Equal(t, "-1/30", Bernoulli(4).String())
	assert.Equal(t, "5/66", Bernoulli(10).String())
	assert.Equal(t, "-3617/510", Bernoulli(16).String())

	assert.Equal(t, "1", Euler(0).String())
	assert.Equal(t, "-1", Euler(2).String())
	assert.Equal(t, "5", Euler(4).String())
	assert.Equal(t, "-61", Euler(6).String())
	assert.Equal(t, "1385", Euler(8).String())
}
