// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"math/big"
	"strings"

	"calq.io/calq/config"
)

// formatNumber renders a rational under the configuration: output
// mode, displayed digits, output rounding, lead/full zero flags, and
// the tilde marking an inexact display of an exact value.

func formatNumber(conf *config.Config, n Number) string {
	switch conf.Mode() {
	case config.ModeFrac:
		return n.x.RatString()
	case config.ModeInt:
		i := config.RoundRat(n.x, conf.OutRound())
		return tildePrefix(conf, !n.IsInt()) + i.String()
	case config.ModeReal:
		return realString(conf, n)
	case config.ModeExp:
		return expString(conf, n)
	case config.ModeHex:
		return baseString(conf, n, 16, "0x")
	case config.ModeOctal:
		return baseString(conf, n, 8, "0o")
	case config.ModeBinary:
		return baseString(conf, n, 2, "0b")
	case config.ModeString:
		return stringModeString(n)
	}
	return n.x.RatString()
}

func tildePrefix(conf *config.Config, inexact bool) string {
	if inexact && conf.Tilde() {
		return "~"
	}
	return ""
}

// realString prints a fixed-point decimal expansion.
func realString(conf *config.Config, n Number) string {
	if n.IsInt() {
		return n.x.Num().String()
	}
	d := conf.Display()
	if d <= 0 {
		d = 1
	}
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d)), nil)
	scaledNum := new(big.Int).Mul(n.x.Num(), pow)
	k := config.RoundQuo(scaledNum, n.x.Denom(), conf.OutRound())
	// Exact iff k/10^d equals n.
	back := new(big.Rat).SetFrac(k, pow)
	inexact := back.Cmp(n.x) != 0

	neg := k.Sign() < 0
	abs := new(big.Int).Abs(k)
	s := abs.String()
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	intPart, fracPart := s[:len(s)-d], s[len(s)-d:]
	if !conf.FullZero() {
		fracPart = strings.TrimRight(fracPart, "0")
	}
	var b strings.Builder
	b.WriteString(tildePrefix(conf, inexact))
	if neg {
		b.WriteString("-")
	}
	if intPart == "0" && !conf.LeadZero() {
		// ".5" rather than "0.5".
	} else {
		b.WriteString(intPart)
	}
	if fracPart != "" {
		b.WriteString(".")
		b.WriteString(fracPart)
	} else if intPart == "0" && !conf.LeadZero() {
		b.WriteString("0")
	}
	return b.String()
}

// expString prints d.dddd...e+xx scientific notation.
func expString(conf *config.Config, n Number) string {
	if n.Sign() == 0 {
		return "0e+0"
	}
	neg := n.Sign() < 0
	abs := absNum(n)
	// Exponent: floor(log10 |n|).
	e := 0
	ten := big.NewRat(10, 1)
	m := new(big.Rat).Set(abs.x)
	for m.Cmp(ten) >= 0 {
		m.Quo(m, ten)
		e++
	}
	one := big.NewRat(1, 1)
	for m.Cmp(one) < 0 {
		m.Mul(m, ten)
		e--
	}
	d := conf.Display()
	if d <= 0 {
		d = 1
	}
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d)), nil)
	scaled := new(big.Int).Mul(m.Num(), pow)
	k := config.RoundQuo(scaled, m.Denom(), conf.OutRound())
	digits := k.String()
	// Rounding may carry into an extra digit (9.99 -> 10.0).
	if len(digits) > d+1 {
		digits = digits[:len(digits)-1]
		e++
	}
	mantissa := digits[:1]
	frac := strings.TrimRight(digits[1:], "0")
	if conf.FullZero() {
		frac = digits[1:]
	}
	inexact := true
	// Exact when the mantissa times 10^e reproduces n.
	check := new(big.Rat).SetFrac(k, pow)
	scale := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(absInt64(int64(e))), nil))
	if e >= 0 {
		check.Mul(check, scale)
	} else {
		check.Quo(check, scale)
	}
	if check.Cmp(abs.x) == 0 {
		inexact = false
	}
	var b strings.Builder
	b.WriteString(tildePrefix(conf, inexact))
	if neg {
		b.WriteString("-")
	}
	b.WriteString(mantissa)
	if frac != "" {
		b.WriteString("." + frac)
	}
	fmt.Fprintf(&b, "e%+d", e)
	return b.String()
}

func absInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// baseString prints integers (and fraction components) in a power-of-
// two base with its conventional prefix.
func baseString(conf *config.Config, n Number, base int, prefix string) string {
	format := map[int]string{16: "%x", 8: "%o", 2: "%b"}[base]
	sign := ""
	num := n.x.Num()
	if num.Sign() < 0 {
		sign = "-"
		num = new(big.Int).Abs(num)
	}
	s := sign + prefix + fmt.Sprintf(format, num)
	if !n.IsInt() {
		s += "/" + prefix + fmt.Sprintf(format, n.x.Denom())
	}
	return s
}

// stringModeString prints an integer's bytes as raw characters.
func stringModeString(n Number) string {
	if !n.IsInt() || n.Sign() < 0 {
		return n.x.RatString()
	}
	return string(n.x.Num().Bytes())
}
