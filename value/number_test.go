// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calq.io/calq/config"
)

// testContext is the minimal Context for dispatch tests; user calls
// always miss.
type testContext struct {
	conf config.Config
}

func (t *testContext) Config() *config.Config { return &t.conf }

func (t *testContext) UserCall(name string, args []Value) (Value, bool) {
	return nil, false
}

func num(s string) Number {
	n, ok := ParseNumber(s)
	if !ok {
		panic("bad test number " + s)
	}
	return n
}

// catchFault runs f and returns the Fault it raises, if any.
func catchFault(f func()) (fault *Fault) {
	defer func() {
		if r := recover(); r != nil {
			if fv, ok := r.(Fault); ok {
				fault = &fv
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}

func TestNumberArith(t *testing.T) {
	c := &testContext{}
	r := Binary(c, num("1/6"), "+", num("1/10"))
	assert.Equal(t, "4/15", r.(Number).String())

	r = Binary(c, num("2/3"), "*", num("9/4"))
	assert.Equal(t, "3/2", r.(Number).String())

	r = Binary(c, num("7"), "-", num("10"))
	assert.Equal(t, "-3", r.(Number).String())

	r = Binary(c, num("1"), "/", num("3"))
	assert.Equal(t, "1/3", r.(Number).String())

	f := catchFault(func() { Binary(c, num("1"), "/", num("0")) })
	require.NotNil(t, f)
	assert.Equal(t, ErrDivByZero, f.Code)
}

func TestQuoModIdentity(t *testing.T) {
	cases := []struct{ a, b string }{
		{"5", "3"}, {"-5", "3"}, {"5", "-3"}, {"-5", "-3"},
		{"7/2", "1/3"}, {"-22/7", "5/3"}, {"10", "5"}, {"0", "7"},
	}
	for mode := config.RoundMode(0); int(mode) < config.NumRoundModes; mode++ {
		for _, tc := range cases {
			a, b := num(tc.a), num(tc.b)
			quo, mod := QuoMod(a, b, mode)
			back := addNum(mulNum(quo, b), mod)
			assert.Zero(t, cmpNum(back, a),
				"mode %v: %s quo %s: %s*%s+%s != %s", mode, tc.a, tc.b,
				quo, tc.b, mod, tc.a)
			assert.True(t, quo.IsInt(), "quotient %s not integral", quo)
		}
	}
}

func TestPow(t *testing.T) {
	c := &testContext{}
	r := Binary(c, num("2"), "**", num("10"))
	assert.Equal(t, "1024", r.(Number).String())

	r = Binary(c, num("2/3"), "**", num("-2"))
	assert.Equal(t, "9/4", r.(Number).String())

	// 0**0 is 1.
	r = Binary(c, num("0"), "**", num("0"))
	assert.Equal(t, "1", r.(Number).String())

	f := catchFault(func() { Binary(c, num("0"), "**", num("-1")) })
	require.NotNil(t, f)
	assert.Equal(t, ErrZeroPower, f.Code)

	// Fractional exponent: 4**(1/2) == 2 to within epsilon.
	r = Binary(c, num("4"), "**", num("1/2"))
	diff := subNum(r.(Number), num("2"))
	assert.True(t, absLess(diff, num("1/1000000000000")), "4**(1/2) = %s", r)
}

func TestComplexArith(t *testing.T) {
	c := &testContext{}
	i := NewComplex(num("0"), num("1"))
	r := Binary(c, i, "*", i)
	// i*i demotes to the real number -1.
	n, ok := r.(Number)
	require.True(t, ok, "i*i should demote to Number, got %T", r)
	assert.Equal(t, "-1", n.String())

	z := NewComplex(num("3"), num("4"))
	r = Binary(c, z, "*", Conj(z))
	n, ok = r.(Number)
	require.True(t, ok)
	assert.Equal(t, "25", n.String())

	r = Binary(c, num("1"), "+", NewComplex(num("0"), num("2")))
	cz, ok := r.(Complex)
	require.True(t, ok)
	re, im := cz.Components()
	assert.Equal(t, "1", re.String())
	assert.Equal(t, "2", im.String())
}

func TestShiftsAndBits(t *testing.T) {
	c := &testContext{}
	assert.Equal(t, "20", Binary(c, num("5"), "<<", num("2")).(Number).String())
	assert.Equal(t, "5", Binary(c, num("20"), ">>", num("2")).(Number).String())
	assert.Equal(t, "4", Binary(c, num("6"), "&", num("12")).(Number).String())
	assert.Equal(t, "14", Binary(c, num("6"), "|", num("12")).(Number).String())
	assert.Equal(t, "10", Binary(c, num("6"), "^", num("12")).(Number).String())

	f := catchFault(func() { Binary(c, num("1/2"), "&", num("1")) })
	require.NotNil(t, f)
	assert.Equal(t, ErrNonInteger, f.Code)
}

func TestErrorPassThrough(t *testing.T) {
	c := &testContext{}
	e := NewError(ErrDivByZero, "")
	r := Binary(c, e, "+", num("1"))
	assert.Equal(t, e, r)
	r = Binary(c, num("1"), "*", e)
	assert.Equal(t, e, r)
	r = Unary(c, "-", e)
	assert.Equal(t, e, r)
}

func TestTypeMismatch(t *testing.T) {
	c := &testContext{}
	f := catchFault(func() { Binary(c, String("x"), "*", num("3")) })
	require.NotNil(t, f)
	assert.Equal(t, ErrTypeMismatch, f.Code)
}

func TestApprox(t *testing.T) {
	// 355/113 = 3.14159...; rounded toward zero on the hundredths
	// grid that's 3.14.
	got := Approx(num("355/113"), num("1/100"), config.RoundZero)
	assert.Zero(t, cmpNum(got, num("157/50")))
	got = Approx(num("-355/113"), num("1/100"), config.RoundZero)
	assert.Zero(t, cmpNum(got, num("-157/50")))
}

func TestFormatReal(t *testing.T) {
	var conf config.Config
	conf.SetDisplay(4)
	conf.SetTilde(true)
	s := num("1/3").Sprint(&conf)
	assert.Equal(t, "~.3333", s)
	s = num("1/4").Sprint(&conf)
	assert.Equal(t, ".25", s)
	s = num("-7").Sprint(&conf)
	assert.Equal(t, "-7", s)
	conf.SetLeadZero(true)
	s = num("1/4").Sprint(&conf)
	assert.Equal(t, "0.25", s)
	conf.SetMode(config.ModeFrac)
	s = num("1/3").Sprint(&conf)
	assert.Equal(t, "1/3", s)
}
