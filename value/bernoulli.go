// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// Bernoulli and Euler numbers are exact and cached process-wide; the
// tables extend on demand. Evaluation is single-threaded, so the
// caches need no locking.

var bernoulliCache []*big.Rat // B_0, B_1, ...

// Bernoulli returns B_n (B_1 = -1/2).
func Bernoulli(n int) Number {
	if n < 0 {
		Errorf(ErrInvalidArg, "bern: negative index")
	}
	if len(bernoulliCache) == 0 {
		bernoulliCache = []*big.Rat{big.NewRat(1, 1)}
	}
	for k := len(bernoulliCache); k <= n; k++ {
		if k > 1 && k%2 == 1 {
			bernoulliCache = append(bernoulliCache, new(big.Rat))
			continue
		}
		// B_k = -1/(k+1) * sum_{j<k} C(k+1, j) B_j
		sum := new(big.Rat)
		for j := 0; j < k; j++ {
			c := new(big.Int).Binomial(int64(k+1), int64(j))
			term := new(big.Rat).Mul(new(big.Rat).SetInt(c), bernoulliCache[j])
			sum.Add(sum, term)
		}
		sum.Quo(sum, new(big.Rat).SetInt64(int64(k+1)))
		sum.Neg(sum)
		bernoulliCache = append(bernoulliCache, sum)
	}
	return Number{x: bernoulliCache[n]}
}

var eulerCache []*big.Int // E_0, E_1, ...

// Euler returns the Euler number E_n; odd indexes are zero.
func Euler(n int) Number {
	if n < 0 {
		Errorf(ErrInvalidArg, "euler: negative index")
	}
	if len(eulerCache) == 0 {
		eulerCache = []*big.Int{big.NewInt(1)}
	}
	for k := len(eulerCache); k <= n; k++ {
		if k%2 == 1 {
			eulerCache = append(eulerCache, new(big.Int))
			continue
		}
		// sum_{j even, 0..k} C(k, j) E_j = 0 solves for E_k.
		sum := new(big.Int)
		for j := 0; j < k; j += 2 {
			c := new(big.Int).Binomial(int64(k), int64(j))
			sum.Add(sum, c.Mul(c, eulerCache[j]))
		}
		eulerCache = append(eulerCache, sum.Neg(sum))
	}
	return NewBigInt(eulerCache[n])
}
