// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the configuration record consulted by the
// display and arithmetic subsystems on every operation.
package config // import "calq.io/calq/config"

import (
	"io"
	"math/big"
	"os"
)

// Mode selects the numeric output format.
type Mode int

const (
	ModeReal Mode = iota // decimal expansion to Display digits
	ModeFrac             // exact p/q
	ModeInt              // integer part only
	ModeExp              // scientific notation
	ModeHex
	ModeOctal
	ModeBinary
	ModeString // numbers printed as raw byte strings
)

var modeNames = []string{"real", "frac", "int", "exp", "hex", "octal", "binary", "string"}

func (m Mode) String() string {
	if 0 <= int(m) && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "invalid"
}

// ParseMode recognizes the mode names accepted by config("mode", s).
func ParseMode(s string) (Mode, bool) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), true
		}
	}
	// Aliases from the original surface language.
	switch s {
	case "oct":
		return ModeOctal, true
	case "bin":
		return ModeBinary, true
	case "dec", "float":
		return ModeReal, true
	case "fraction":
		return ModeFrac, true
	case "integer":
		return ModeInt, true
	}
	return 0, false
}

// Config is the set of display and evaluation options. The zero value
// lazily initializes itself to the defaults on first access.
type Config struct {
	inited     bool
	mode       Mode
	display    int      // fractional digits shown in real/exp mode
	epsilon    *big.Rat // default transcendental precision
	tilde      bool     // prefix inexact displays with ~
	tab        int      // indent for matrix/list display
	quoRound   RoundMode
	modRound   RoundMode
	quomodRnd  RoundMode
	sqrtRound  RoundMode
	apprRound  RoundMode
	cfApprRnd  RoundMode
	outRound   RoundMode
	leadZero   bool
	fullZero   bool
	maxPrint   int // element cap on auto-printed containers
	prompt     string
	more       string
	calcDebug  uint64
	libDebug   uint64
	resDebug   uint64
	userDebug  uint64
	stopOnErr  int
	output     io.Writer
	errOutput  io.Writer
	maxStack   int
	mrWitness  int // default Miller-Rabin witness count
	fileAccess int // -m mode bits
}

func (c *Config) init() {
	if c.inited {
		return
	}
	c.inited = true
	if c.output == nil {
		c.output = os.Stdout
	}
	if c.errOutput == nil {
		c.errOutput = os.Stderr
	}
	c.display = 20
	c.epsilon = defaultEpsilon(c.display)
	c.tilde = true
	c.tab = 8
	c.maxPrint = 16
	c.prompt = "; "
	c.more = ";; "
	c.maxStack = 2048
	c.mrWitness = 25
	c.fileAccess = 7
	c.quoRound = RoundZero
	c.modRound = RoundZero
	c.sqrtRound = RoundZero
	c.apprRound = RoundZero
	c.cfApprRnd = RoundNearEven
	c.outRound = RoundNearEven
}

// defaultEpsilon returns 1/10**digits.
func defaultEpsilon(digits int) *big.Rat {
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	return new(big.Rat).SetFrac(big.NewInt(1), den)
}

func (c *Config) Mode() Mode             { c.init(); return c.mode }
func (c *Config) SetMode(m Mode)         { c.init(); c.mode = m }
func (c *Config) Display() int           { c.init(); return c.display }
func (c *Config) SetDisplay(n int)       { c.init(); c.display = n }
func (c *Config) Tilde() bool            { c.init(); return c.tilde }
func (c *Config) SetTilde(t bool)        { c.init(); c.tilde = t }
func (c *Config) Tab() int               { c.init(); return c.tab }
func (c *Config) SetTab(n int)           { c.init(); c.tab = n }
func (c *Config) LeadZero() bool         { c.init(); return c.leadZero }
func (c *Config) SetLeadZero(t bool)     { c.init(); c.leadZero = t }
func (c *Config) FullZero() bool         { c.init(); return c.fullZero }
func (c *Config) SetFullZero(t bool)     { c.init(); c.fullZero = t }
func (c *Config) MaxPrint() int          { c.init(); return c.maxPrint }
func (c *Config) SetMaxPrint(n int)      { c.init(); c.maxPrint = n }
func (c *Config) Prompt() string         { c.init(); return c.prompt }
func (c *Config) SetPrompt(s string)     { c.init(); c.prompt = s }
func (c *Config) More() string           { c.init(); return c.more }
func (c *Config) SetMore(s string)       { c.init(); c.more = s }
func (c *Config) MaxStack() int          { c.init(); return c.maxStack }
func (c *Config) SetMaxStack(n int)      { c.init(); c.maxStack = n }
func (c *Config) MRWitnesses() int       { c.init(); return c.mrWitness }
func (c *Config) SetMRWitnesses(n int)   { c.init(); c.mrWitness = n }
func (c *Config) FileAccess() int        { c.init(); return c.fileAccess }
func (c *Config) SetFileAccess(m int)    { c.init(); c.fileAccess = m & 7 }

// Epsilon returns the default precision for transcendentals.
// Callers must not mutate the result.
func (c *Config) Epsilon() *big.Rat { c.init(); return c.epsilon }

func (c *Config) SetEpsilon(eps *big.Rat) {
	c.init()
	if eps.Sign() > 0 {
		c.epsilon = new(big.Rat).Set(eps)
	}
}

// Rounding-policy slots. Each operator class consults its own slot.

func (c *Config) QuoRound() RoundMode        { c.init(); return c.quoRound }
func (c *Config) SetQuoRound(m RoundMode)    { c.init(); c.quoRound = m }
func (c *Config) ModRound() RoundMode        { c.init(); return c.modRound }
func (c *Config) SetModRound(m RoundMode)    { c.init(); c.modRound = m }
func (c *Config) QuomodRound() RoundMode     { c.init(); return c.quomodRnd }
func (c *Config) SetQuomodRound(m RoundMode) { c.init(); c.quomodRnd = m }
func (c *Config) SqrtRound() RoundMode       { c.init(); return c.sqrtRound }
func (c *Config) SetSqrtRound(m RoundMode)   { c.init(); c.sqrtRound = m }
func (c *Config) ApprRound() RoundMode       { c.init(); return c.apprRound }
func (c *Config) SetApprRound(m RoundMode)   { c.init(); c.apprRound = m }
func (c *Config) CfApprRound() RoundMode     { c.init(); return c.cfApprRnd }
func (c *Config) SetCfApprRound(m RoundMode) { c.init(); c.cfApprRnd = m }
func (c *Config) OutRound() RoundMode        { c.init(); return c.outRound }
func (c *Config) SetOutRound(m RoundMode)    { c.init(); c.outRound = m }

// Debug bitmasks.

func (c *Config) CalcDebug() uint64         { c.init(); return c.calcDebug }
func (c *Config) SetCalcDebug(b uint64)     { c.init(); c.calcDebug = b }
func (c *Config) LibDebug() uint64          { c.init(); return c.libDebug }
func (c *Config) SetLibDebug(b uint64)      { c.init(); c.libDebug = b }
func (c *Config) ResourceDebug() uint64     { c.init(); return c.resDebug }
func (c *Config) SetResourceDebug(b uint64) { c.init(); c.resDebug = b }
func (c *Config) UserDebug() uint64         { c.init(); return c.userDebug }
func (c *Config) SetUserDebug(b uint64)     { c.init(); c.userDebug = b }

// Debug bits within calcDebug.
const (
	DebugOpcodes = 1 << iota // trace each executed opcode
	DebugCalls               // trace calls and returns
	DebugParse               // dump compiled functions
)

// StopOnError is the counter controlling fatal-vs-returnable error
// behavior. While positive, the next trapped error aborts the
// statement and decrements the counter. Negative means never stop;
// zero means errors flow as values.
func (c *Config) StopOnError() int     { c.init(); return c.stopOnErr }
func (c *Config) SetStopOnError(n int) { c.init(); c.stopOnErr = n }

// DecStopOnError consumes one stop credit, reporting whether the
// current error should abort the statement.
func (c *Config) DecStopOnError() bool {
	c.init()
	if c.stopOnErr > 0 {
		c.stopOnErr--
		return true
	}
	return false
}

func (c *Config) Output() io.Writer        { c.init(); return c.output }
func (c *Config) SetOutput(w io.Writer)    { c.init(); c.output = w }
func (c *Config) ErrOutput() io.Writer     { c.init(); return c.errOutput }
func (c *Config) SetErrOutput(w io.Writer) { c.init(); c.errOutput = w }
