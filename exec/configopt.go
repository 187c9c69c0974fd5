// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"math/big"

	"calq.io/calq/config"
	"calq.io/calq/value"
)

// configGet and configSet back the config() builtin. Every recognized
// option reads and writes through the configuration record; config()
// returns the previous value so scripts can save and restore.

func configGet(c *Context, name string) value.Value {
	conf := c.Config()
	switch name {
	case "mode":
		return value.String(conf.Mode().String())
	case "display":
		return value.NewInt(int64(conf.Display()))
	case "epsilon":
		return value.NewNumber(new(big.Rat).Set(conf.Epsilon()))
	case "tilde":
		return boolValue(conf.Tilde())
	case "tab":
		return value.NewInt(int64(conf.Tab()))
	case "quo":
		return value.NewInt(int64(conf.QuoRound()))
	case "mod":
		return value.NewInt(int64(conf.ModRound()))
	case "quomod":
		return value.NewInt(int64(conf.QuomodRound()))
	case "sqrt":
		return value.NewInt(int64(conf.SqrtRound()))
	case "appr":
		return value.NewInt(int64(conf.ApprRound()))
	case "cfappr":
		return value.NewInt(int64(conf.CfApprRound()))
	case "outround":
		return value.NewInt(int64(conf.OutRound()))
	case "leadzero":
		return boolValue(conf.LeadZero())
	case "fullzero":
		return boolValue(conf.FullZero())
	case "maxprint":
		return value.NewInt(int64(conf.MaxPrint()))
	case "prompt":
		return value.String(conf.Prompt())
	case "more":
		return value.String(conf.More())
	case "calc_debug":
		return value.NewInt(int64(conf.CalcDebug()))
	case "lib_debug":
		return value.NewInt(int64(conf.LibDebug()))
	case "resource_debug":
		return value.NewInt(int64(conf.ResourceDebug()))
	case "user_debug":
		return value.NewInt(int64(conf.UserDebug()))
	case "stoponerror":
		return value.NewInt(int64(conf.StopOnError()))
	case "maxstack":
		return value.NewInt(int64(conf.MaxStack()))
	case "ptest":
		return value.NewInt(int64(conf.MRWitnesses()))
	}
	value.Errorf(value.ErrInvalidArg, "config: unknown option %q", name)
	panic("unreachable")
}

func configSet(c *Context, name string, v value.Value) {
	conf := c.Config()
	switch name {
	case "mode":
		s, ok := v.(value.String)
		if !ok {
			value.Errorf(value.ErrTypeMismatch, "config: mode takes a string")
		}
		m, ok := config.ParseMode(string(s))
		if !ok {
			value.Errorf(value.ErrInvalidArg, "config: unknown mode %q", s)
		}
		conf.SetMode(m)
	case "display":
		conf.SetDisplay(int(cfgInt(name, v)))
	case "epsilon":
		n, ok := v.(value.Number)
		if !ok || n.Sign() <= 0 {
			value.Errorf(value.ErrInvalidArg, "config: epsilon must be a positive number")
		}
		conf.SetEpsilon(n.Rat())
	case "tilde":
		conf.SetTilde(value.Truth(v))
	case "tab":
		conf.SetTab(int(cfgInt(name, v)))
	case "quo":
		conf.SetQuoRound(cfgRound(name, v))
	case "mod":
		conf.SetModRound(cfgRound(name, v))
	case "quomod":
		conf.SetQuomodRound(cfgRound(name, v))
	case "sqrt":
		conf.SetSqrtRound(cfgRound(name, v))
	case "appr":
		conf.SetApprRound(cfgRound(name, v))
	case "cfappr":
		conf.SetCfApprRound(cfgRound(name, v))
	case "outround":
		conf.SetOutRound(cfgRound(name, v))
	case "leadzero":
		conf.SetLeadZero(value.Truth(v))
	case "fullzero":
		conf.SetFullZero(value.Truth(v))
	case "maxprint":
		conf.SetMaxPrint(int(cfgInt(name, v)))
	case "prompt":
		conf.SetPrompt(cfgStr(name, v))
	case "more":
		conf.SetMore(cfgStr(name, v))
	case "calc_debug":
		conf.SetCalcDebug(uint64(cfgInt(name, v)))
	case "lib_debug":
		conf.SetLibDebug(uint64(cfgInt(name, v)))
	case "resource_debug":
		conf.SetResourceDebug(uint64(cfgInt(name, v)))
	case "user_debug":
		conf.SetUserDebug(uint64(cfgInt(name, v)))
	case "stoponerror":
		conf.SetStopOnError(int(cfgInt(name, v)))
	case "maxstack":
		conf.SetMaxStack(int(cfgInt(name, v)))
	case "ptest":
		conf.SetMRWitnesses(int(cfgInt(name, v)))
	default:
		value.Errorf(value.ErrInvalidArg, "config: unknown option %q", name)
	}
}

func cfgInt(name string, v value.Value) int64 {
	n, ok := v.(value.Number)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "config: %s takes an integer", name)
	}
	return n.Int64("config " + name)
}

func cfgStr(name string, v value.Value) string {
	s, ok := v.(value.String)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "config: %s takes a string", name)
	}
	return string(s)
}

func cfgRound(name string, v value.Value) config.RoundMode {
	if s, ok := v.(value.String); ok {
		m, ok := config.ParseRoundMode(string(s))
		if !ok {
			value.Errorf(value.ErrInvalidArg, "config: unknown rounding mode %q", s)
		}
		return m
	}
	n := cfgInt(name, v)
	if n < 0 || int(n) >= config.NumRoundModes {
		value.Errorf(value.ErrInvalidArg, "config: bad rounding mode %d", n)
	}
	return config.RoundMode(n)
}
