// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zmath

import (
	"math/big"
	"math/rand"
)

// smallPrimes is the trial-division table run before Miller-Rabin.
var smallPrimes []int64

func init() {
	sieve := make([]bool, 1000)
	for p := int64(2); p < 1000; p++ {
		if sieve[p] {
			continue
		}
		smallPrimes = append(smallPrimes, p)
		for q := p * p; q < 1000; q += p {
			sieve[q] = true
		}
	}
}

// Ptest reports whether |n| is probably prime, using trial division
// by the small primes followed by count Miller-Rabin witnesses.
// With a nil source the witnesses are the first count small primes,
// making the test deterministic; otherwise they are drawn from rnd.
// A false result is always correct.
func Ptest(n *big.Int, count int, rnd *rand.Rand) bool {
	n = new(big.Int).Abs(n)
	if n.Cmp(two) < 0 {
		return false
	}
	for _, p := range smallPrimes {
		bp := big.NewInt(p)
		if new(big.Int).Mod(n, bp).Sign() == 0 {
			return n.Cmp(bp) == 0
		}
	}
	if count <= 0 {
		count = 1
	}
	// n-1 = d * 2^s with d odd.
	nm1 := new(big.Int).Sub(n, one)
	s := 0
	d := new(big.Int).Set(nm1)
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}
	nm3 := new(big.Int).Sub(n, big.NewInt(3))
	for i := 0; i < count; i++ {
		var a *big.Int
		if rnd != nil {
			// Witness in [2, n-2].
			a = new(big.Int).Rand(rnd, nm3)
			a.Add(a, two)
		} else {
			a = big.NewInt(smallPrimes[i%len(smallPrimes)])
		}
		if !mrWitness(n, nm1, d, s, a) {
			return false
		}
	}
	return true
}

// mrWitness runs one Miller-Rabin round; false means n is composite.
func mrWitness(n, nm1, d *big.Int, s int, a *big.Int) bool {
	x := new(big.Int).Exp(a, d, n)
	if x.Cmp(one) == 0 || x.Cmp(nm1) == 0 {
		return true
	}
	for i := 1; i < s; i++ {
		x.Mul(x, x).Mod(x, n)
		if x.Cmp(nm1) == 0 {
			return true
		}
		if x.Cmp(one) == 0 {
			return false
		}
	}
	return false
}

// NextCand returns the smallest integer greater than n that passes
// Ptest with count witnesses, skipping skip hits first.
func NextCand(n *big.Int, count int, skip int64, rnd *rand.Rand) *big.Int {
	c := new(big.Int).Set(n)
	if c.Sign() < 0 {
		c.SetInt64(1)
	}
	for {
		c.Add(c, one)
		if c.Bit(0) == 0 && c.Cmp(two) != 0 {
			continue
		}
		if Ptest(c, count, rnd) {
			if skip > 0 {
				skip--
				continue
			}
			return c
		}
	}
}

// PrevCand returns the largest integer less than n that passes Ptest,
// or nil if there is none.
func PrevCand(n *big.Int, count int, skip int64, rnd *rand.Rand) *big.Int {
	c := new(big.Int).Set(n)
	for {
		c.Sub(c, one)
		if c.Cmp(two) < 0 {
			return nil
		}
		if c.Bit(0) == 0 && c.Cmp(two) != 0 {
			continue
		}
		if Ptest(c, count, rnd) {
			if skip > 0 {
				skip--
				continue
			}
			return c
		}
	}
}
