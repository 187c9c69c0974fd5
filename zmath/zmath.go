// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zmath provides the integer operations the calculator needs
// above raw bignum arithmetic: integer roots, modular exponentiation,
// Jacobi symbols, primality testing, and prime-candidate search.
package zmath // import "calq.io/calq/zmath"

import (
	"errors"
	"math/big"
	"math/bits"
)

var (
	ErrDivByZero  = errors.New("division by zero")
	ErrInvalidArg = errors.New("invalid argument")
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Gcd returns the greatest common divisor of |a| and |b|.
// Gcd(0, 0) is 0.
func Gcd(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	if x.Sign() == 0 {
		return y
	}
	if y.Sign() == 0 {
		return x
	}
	return new(big.Int).GCD(nil, nil, x, y)
}

// Lcm returns the least common multiple of |a| and |b|, or 0 if
// either is zero.
func Lcm(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := Gcd(a, b)
	q := new(big.Int).Quo(new(big.Int).Abs(a), g)
	return q.Mul(q, new(big.Int).Abs(b))
}

// ModInverse returns the inverse of a modulo m, or an error if
// gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrInvalidArg
	}
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, ErrInvalidArg
	}
	return inv, nil
}

// Isqrt returns the integer square root r of n, with r*r <= n < (r+1)*(r+1).
// The iteration is Newton's method on integers; the candidate is
// verified against both bounds before being returned.
func Isqrt(n *big.Int) (*big.Int, error) {
	if n.Sign() < 0 {
		return nil, ErrInvalidArg
	}
	if n.Sign() == 0 {
		return new(big.Int), nil
	}
	// Initial estimate: 2^ceil(bits/2) bounds the root from above.
	r := new(big.Int).Lsh(one, uint(n.BitLen()+1)/2)
	t := new(big.Int)
	for {
		// t = (r + n/r) / 2
		t.Quo(n, r)
		t.Add(t, r)
		t.Rsh(t, 1)
		if t.Cmp(r) >= 0 {
			break
		}
		r.Set(t)
	}
	// Newton can overshoot by one on the last step.
	for square(t.Set(r)).Cmp(n) > 0 {
		r.Sub(r, one)
	}
	return r, nil
}

func square(x *big.Int) *big.Int {
	return x.Mul(x, x)
}

// IsSquare reports whether n is a perfect square and, if so, returns
// its root. This is a hot path for the factoring routines in the
// script library, so cheap residue filters run before the full root.
func IsSquare(n *big.Int) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	// Squares mod 64 and mod 63 are sparse; filter on the low word.
	low := new(big.Int).And(n, big.NewInt(63)).Int64()
	if squaresMod64>>uint(low)&1 == 0 {
		return nil, false
	}
	m63 := new(big.Int).Mod(n, big.NewInt(63)).Int64()
	if squaresMod63>>uint(m63)&1 == 0 {
		return nil, false
	}
	r, err := Isqrt(n)
	if err != nil {
		return nil, false
	}
	if new(big.Int).Mul(r, r).Cmp(n) == 0 {
		return r, true
	}
	return nil, false
}

// Bitmasks of quadratic residues.
var squaresMod64, squaresMod63 uint64

func init() {
	for i := int64(0); i < 64; i++ {
		squaresMod64 |= 1 << uint(i*i%64)
		squaresMod63 |= 1 << uint(i*i%63)
	}
}

// Iroot returns the integer nth root r of x, with r^n <= x < (r+1)^n.
// n must be positive; x must be nonnegative unless n is odd.
func Iroot(x *big.Int, n int64) (*big.Int, error) {
	if n <= 0 {
		return nil, ErrInvalidArg
	}
	if n == 1 {
		return new(big.Int).Set(x), nil
	}
	if x.Sign() < 0 {
		if n%2 == 0 {
			return nil, ErrInvalidArg
		}
		r, err := Iroot(new(big.Int).Neg(x), n)
		if err != nil {
			return nil, err
		}
		// -r is the floor root only when r^n == -x exactly;
		// otherwise floor moves one further down.
		if new(big.Int).Exp(r, big.NewInt(n), nil).Cmp(new(big.Int).Neg(x)) != 0 {
			r.Add(r, one)
		}
		return r.Neg(r), nil
	}
	if x.Sign() == 0 {
		return new(big.Int), nil
	}
	if n == 2 {
		return Isqrt(x)
	}
	nn := big.NewInt(n)
	nm1 := big.NewInt(n - 1)
	// Initial estimate from the bit length.
	r := new(big.Int).Lsh(one, uint(int64(x.BitLen())/n+1))
	t := new(big.Int)
	pow := new(big.Int)
	for {
		// t = ((n-1)*r + x/r^(n-1)) / n
		pow.Exp(r, nm1, nil)
		t.Quo(x, pow)
		t.Add(t, new(big.Int).Mul(nm1, r))
		t.Quo(t, nn)
		if t.Cmp(r) >= 0 {
			break
		}
		r.Set(t)
	}
	for pow.Exp(r, nn, nil).Cmp(x) > 0 {
		r.Sub(r, one)
	}
	return r, nil
}

// PowMod returns a^e mod m for m > 0; a negative e uses the modular
// inverse of a and fails when none exists. The result is always in
// [0, m).
func PowMod(a, e, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrDivByZero
	}
	if e.Sign() < 0 {
		inv, err := ModInverse(a, m)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Exp(inv, new(big.Int).Neg(e), m), nil
	}
	return new(big.Int).Exp(a, e, m), nil
}

// Jacobi returns the Jacobi symbol (a/b). b must be odd and positive.
func Jacobi(a, b *big.Int) (int, error) {
	if b.Sign() <= 0 || b.Bit(0) == 0 {
		return 0, ErrInvalidArg
	}
	return big.Jacobi(a, b), nil
}

// Popcount returns the number of one bits in |n|.
func Popcount(n *big.Int) int {
	count := 0
	for _, w := range n.Bits() {
		for ; w != 0; w &= w - 1 {
			count++
		}
	}
	return count
}

// BitTest reports whether bit i of |n| is set.
func BitTest(n *big.Int, i int) (bool, error) {
	if i < 0 {
		return false, ErrInvalidArg
	}
	abs := n
	if n.Sign() < 0 {
		abs = new(big.Int).Abs(n)
	}
	return abs.Bit(i) == 1, nil
}

// Fact returns n! for n >= 0.
func Fact(n int64) (*big.Int, error) {
	if n < 0 {
		return nil, ErrInvalidArg
	}
	return new(big.Int).MulRange(1, n), nil
}

// Fib returns the nth Fibonacci number, with Fib(0)=0, Fib(1)=1.
// Negative indexes follow the standard extension F(-n) = (-1)^(n+1) F(n).
func Fib(n int64) *big.Int {
	neg := false
	if n < 0 {
		n = -n
		neg = n%2 == 0
	}
	a, b := new(big.Int), big.NewInt(1) // F(k), F(k+1)
	// Fast doubling, consuming bits of n from the top.
	for i := 63 - bits.LeadingZeros64(uint64(n)); i >= 0; i-- {
		// F(2k) = F(k) * (2*F(k+1) - F(k))
		// F(2k+1) = F(k)^2 + F(k+1)^2
		t := new(big.Int).Lsh(b, 1)
		t.Sub(t, a)
		t.Mul(t, a)
		u := new(big.Int).Mul(a, a)
		u.Add(u, new(big.Int).Mul(b, b))
		a, b = t, u
		if n>>uint(i)&1 == 1 {
			a, b = b, new(big.Int).Add(a, b)
		}
	}
	if neg {
		a.Neg(a)
	}
	return a
}
