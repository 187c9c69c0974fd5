// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"math/big"
	"math/rand"

	"calq.io/calq/config"
)

// Randstate is an explicit random-number generator state. The default
// state is a singleton in the environment; srand(seed) reseeds it and
// scripts may hold additional states as values.
type Randstate struct {
	seed int64
	rnd  *rand.Rand
}

func NewRandstate(seed int64) *Randstate {
	return &Randstate{seed: seed, rnd: rand.New(rand.NewSource(seed))}
}

func (r *Randstate) Type() T { return TRand }

// Seed resets the generator.
func (r *Randstate) Seed(seed int64) {
	r.seed = seed
	r.rnd = rand.New(rand.NewSource(seed))
}

// Source exposes the generator for the primality tester.
func (r *Randstate) Source() *rand.Rand { return r.rnd }

// Below returns a uniform integer in [0, n).
func (r *Randstate) Below(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		Errorf(ErrInvalidArg, "rand: bound must be positive")
	}
	return new(big.Int).Rand(r.rnd, n)
}

// Bits returns a uniform integer with at most n bits.
func (r *Randstate) Bits(n int) *big.Int {
	if n < 0 {
		Errorf(ErrInvalidArg, "randbit: negative bit count")
	}
	bound := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return new(big.Int).Rand(r.rnd, bound)
}

func (r *Randstate) String() string {
	return fmt.Sprintf("randstate(%d)", r.seed)
}

func (r *Randstate) Sprint(conf *config.Config) string {
	return "randstate"
}
