// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zmath

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bi(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad test integer " + s)
	}
	return n
}

func TestIsqrt(t *testing.T) {
	for _, s := range []string{
		"0", "1", "2", "3", "4", "15", "16", "17",
		"99999999999999999999", "100000000000000000000",
		"340282366920938463463374607431768211456", // 2^128
	} {
		n := bi(s)
		r, err := Isqrt(n)
		require.NoError(t, err)
		r2 := new(big.Int).Mul(r, r)
		assert.True(t, r2.Cmp(n) <= 0, "isqrt(%s)^2 > n", s)
		r1 := new(big.Int).Add(r, big.NewInt(1))
		r1.Mul(r1, r1)
		assert.True(t, r1.Cmp(n) > 0, "(isqrt(%s)+1)^2 <= n", s)
	}
	_, err := Isqrt(big.NewInt(-1))
	assert.Error(t, err)
}

func TestIsSquare(t *testing.T) {
	root, ok := IsSquare(bi("152415787532388367501905199875019052100"))
	require.True(t, ok)
	assert.Equal(t, "12345678901234567890", root.String())

	_, ok = IsSquare(bi("152415787532388367501905199875019052101"))
	assert.False(t, ok)
	_, ok = IsSquare(big.NewInt(-4))
	assert.False(t, ok)
}

func TestIroot(t *testing.T) {
	r, err := Iroot(bi("1000000000000000000000000000"), 3)
	require.NoError(t, err)
	assert.Equal(t, "1000000000", r.String())

	r, err = Iroot(big.NewInt(80), 4)
	require.NoError(t, err)
	assert.Equal(t, "2", r.String())

	r, err = Iroot(big.NewInt(-27), 3)
	require.NoError(t, err)
	assert.Equal(t, "-3", r.String())

	r, err = Iroot(big.NewInt(-28), 3)
	require.NoError(t, err)
	assert.Equal(t, "-4", r.String())

	_, err = Iroot(big.NewInt(-4), 2)
	assert.Error(t, err)
	_, err = Iroot(big.NewInt(4), 0)
	assert.Error(t, err)
}

func TestPowMod(t *testing.T) {
	got, err := PowMod(big.NewInt(3), big.NewInt(100), bi("1000000007"))
	require.NoError(t, err)
	// 3^100 mod 1000000007, computed independently.
	want := new(big.Int).Exp(big.NewInt(3), big.NewInt(100), bi("1000000007"))
	assert.Equal(t, want, got)

	// Negative exponent via modular inverse.
	got, err = PowMod(big.NewInt(3), big.NewInt(-1), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, "5", got.String()) // 3*5 = 15 = 1 mod 7

	_, err = PowMod(big.NewInt(3), big.NewInt(2), big.NewInt(0))
	assert.Error(t, err)
}

func TestJacobi(t *testing.T) {
	j, err := Jacobi(big.NewInt(2), big.NewInt(15))
	require.NoError(t, err)
	assert.Equal(t, 1, j)
	j, err = Jacobi(big.NewInt(7), big.NewInt(15))
	require.NoError(t, err)
	assert.Equal(t, -1, j)
	_, err = Jacobi(big.NewInt(3), big.NewInt(8))
	assert.Error(t, err)
}

func TestPtest(t *testing.T) {
	// 561 is the smallest Carmichael number; Miller-Rabin must flag it.
	assert.False(t, Ptest(big.NewInt(561), 5, nil))
	assert.False(t, Ptest(big.NewInt(561), 5, rand.New(rand.NewSource(1))))

	assert.True(t, Ptest(big.NewInt(2), 5, nil))
	assert.True(t, Ptest(big.NewInt(193707721), 10, nil))
	assert.True(t, Ptest(bi("761838257287"), 10, nil))
	// 2^67-1 is composite: 193707721 * 761838257287.
	assert.False(t, Ptest(bi("147573952589676412927"), 10, nil))
	assert.False(t, Ptest(big.NewInt(1), 5, nil))
	assert.False(t, Ptest(big.NewInt(0), 5, nil))
}

func TestCandidates(t *testing.T) {
	next := NextCand(big.NewInt(100), 5, 0, nil)
	assert.Equal(t, "101", next.String())
	next = NextCand(big.NewInt(100), 5, 1, nil)
	assert.Equal(t, "103", next.String())
	prev := PrevCand(big.NewInt(100), 5, 0, nil)
	assert.Equal(t, "97", prev.String())
	assert.Nil(t, PrevCand(big.NewInt(2), 5, 0, nil))
	assert.Equal(t, "2", PrevCand(big.NewInt(3), 5, 0, nil).String())
}

func TestGcdLcm(t *testing.T) {
	g := Gcd(big.NewInt(-12), big.NewInt(18))
	assert.Equal(t, "6", g.String())
	assert.Equal(t, "18", Gcd(big.NewInt(0), big.NewInt(-18)).String())
	assert.Equal(t, "36", Lcm(big.NewInt(12), big.NewInt(18)).String())
	assert.Equal(t, "0", Lcm(big.NewInt(0), big.NewInt(5)).String())
}

func TestFibFact(t *testing.T) {
	assert.Equal(t, "0", Fib(0).String())
	assert.Equal(t, "1", Fib(1).String())
	assert.Equal(t, "55", Fib(10).String())
	assert.Equal(t, "354224848179261915075", Fib(100).String())
	assert.Equal(t, "-8", Fib(-6).String())
	assert.Equal(t, "13", Fib(-7).String())

	f, err := Fact(10)
	require.NoError(t, err)
	assert.Equal(t, "3628800", f.String())
	f, err = Fact(0)
	require.NoError(t, err)
	assert.Equal(t, "1", f.String())
	_, err = Fact(-1)
	assert.Error(t, err)
}

func TestPopcountBits(t *testing.T) {
	assert.Equal(t, 3, Popcount(big.NewInt(0b10101)))
	assert.Equal(t, 0, Popcount(big.NewInt(0)))
	set, err := BitTest(big.NewInt(8), 3)
	require.NoError(t, err)
	assert.True(t, set)
	set, err = BitTest(big.NewInt(8), 2)
	require.NoError(t, err)
	assert.False(t, set)
	_, err = BitTest(big.NewInt(8), -1)
	assert.Error(t, err)
}
