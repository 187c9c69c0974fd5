// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "math/big"

// RoundMode selects how an inexact quotient is rounded to an integer.
// One enum serves every config slot (quo, mod, sqrt, appr, cfappr,
// outround) through RoundQuo.
type RoundMode int

const (
	RoundZero     RoundMode = iota // toward zero
	RoundDown                      // toward minus infinity
	RoundUp                        // toward plus infinity
	RoundAway                      // away from zero
	RoundHalfUp                    // nearest, ties up
	RoundNearEven                  // nearest, ties to even
	RoundTrunc                     // drop the fraction, same sign handling as RoundZero

	NumRoundModes = int(RoundTrunc) + 1
)

var roundNames = []string{"zero", "down", "up", "away", "halfup", "neareven", "trunc"}

func (m RoundMode) String() string {
	if 0 <= int(m) && int(m) < len(roundNames) {
		return roundNames[m]
	}
	return "invalid"
}

// ParseRoundMode maps a config name to a mode; numeric codes are not
// accepted here.
func ParseRoundMode(s string) (RoundMode, bool) {
	for i, name := range roundNames {
		if name == s {
			return RoundMode(i), true
		}
	}
	return 0, false
}

// RoundQuo returns num/den rounded to an integer under mode.
// den must be nonzero; sign handling follows the mathematical
// quotient, not the operand signs.
func RoundQuo(num, den *big.Int, mode RoundMode) *big.Int {
	if den.Sign() < 0 {
		num = new(big.Int).Neg(num)
		den = new(big.Int).Neg(den)
	}
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() == 0 {
		return quo
	}
	negative := num.Sign() < 0
	switch mode {
	case RoundZero, RoundTrunc:
		// QuoRem already truncates toward zero.
	case RoundDown:
		if negative {
			quo.Sub(quo, oneInt)
		}
	case RoundUp:
		if !negative {
			quo.Add(quo, oneInt)
		}
	case RoundAway:
		if negative {
			quo.Sub(quo, oneInt)
		} else {
			quo.Add(quo, oneInt)
		}
	case RoundHalfUp, RoundNearEven:
		// Compare 2*|rem| against den.
		twice := new(big.Int).Abs(rem)
		twice.Lsh(twice, 1)
		cmp := twice.Cmp(den)
		var bump bool
		switch {
		case cmp > 0:
			bump = true
		case cmp < 0:
			bump = false
		case mode == RoundHalfUp:
			bump = !negative // ties go toward plus infinity
		default:
			bump = quo.Bit(0) == 1 // ties make the result even
		}
		if bump {
			if negative {
				quo.Sub(quo, oneInt)
			} else {
				quo.Add(quo, oneInt)
			}
		}
	}
	return quo
}

// RoundRat rounds the rational x to an integer under mode.
func RoundRat(x *big.Rat, mode RoundMode) *big.Int {
	return RoundQuo(x.Num(), x.Denom(), mode)
}

var oneInt = big.NewInt(1)
