// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"calq.io/calq/config"
	"calq.io/calq/value"
	"calq.io/calq/zmath"
)

// QuitCode is the fault code raised by quit(); it is a control
// signal, never caught by TRY or converted to an error value.
const QuitCode = -1

type builtinFn func(c *Context, args []value.Value) value.Value

type builtin struct {
	name    string
	minArgs int
	maxArgs int // -1 means variadic
	fn      builtinFn
}

var builtins []builtin
var builtinIndex = make(map[string]int)

func register(name string, minArgs, maxArgs int, fn builtinFn) {
	builtinIndex[name] = len(builtins)
	builtins = append(builtins, builtin{name, minArgs, maxArgs, fn})
}

// callBuiltin dispatches CALL_BUILTIN.
func callBuiltin(c *Context, id int, args []value.Value) value.Value {
	if id < 0 || id >= len(builtins) {
		value.Errorf(value.ErrUndefFunc, "bad builtin id %d", id)
	}
	b := builtins[id]
	if len(args) < b.minArgs || (b.maxArgs >= 0 && len(args) > b.maxArgs) {
		value.Errorf(value.ErrInvalidArg, "%s: wrong argument count %d", b.name, len(args))
	}
	// Errors flow through builtins like through operators.
	for _, a := range args {
		if e, ok := a.(value.Error); ok {
			return e
		}
	}
	return b.fn(c, args)
}

// Argument access helpers. Each faults with the taxonomy code on a
// type mismatch.

func argNum(name string, args []value.Value, i int) value.Number {
	n, ok := args[i].(value.Number)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "%s: argument %d must be a number", name, i+1)
	}
	return n
}

func argInt(name string, args []value.Value, i int) *big.Int {
	return argNum(name, args, i).Int(name)
}

func argInt64(name string, args []value.Value, i int) int64 {
	return argNum(name, args, i).Int64(name)
}

func argStr(name string, args []value.Value, i int) string {
	s, ok := args[i].(value.String)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "%s: argument %d must be a string", name, i+1)
	}
	return string(s)
}

func argList(name string, args []value.Value, i int) *value.List {
	l, ok := args[i].(*value.List)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "%s: argument %d must be a list", name, i+1)
	}
	return l
}

func argMatrix(name string, args []value.Value, i int) *value.Matrix {
	m, ok := args[i].(*value.Matrix)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "%s: argument %d must be a matrix", name, i+1)
	}
	return m
}

func argFile(name string, args []value.Value, i int) *value.File {
	f, ok := args[i].(*value.File)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "%s: argument %d must be a file", name, i+1)
	}
	return f
}

func argBlock(name string, args []value.Value, i int) *value.Block {
	b, ok := args[i].(*value.Block)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "%s: argument %d must be a block", name, i+1)
	}
	return b
}

// argEps returns args[i] as an epsilon if present, else the
// configured default.
func argEps(c *Context, name string, args []value.Value, i int) value.Number {
	if i < len(args) {
		eps := argNum(name, args, i)
		if eps.Sign() <= 0 {
			value.Errorf(value.ErrInvalidArg, "%s: epsilon must be positive", name)
		}
		return eps
	}
	return value.NewNumber(new(big.Rat).Set(c.Config().Epsilon()))
}

func init() {
	registerNumeric()
	registerKernel()
	registerTranscendental()
	registerContainer()
	registerString()
	registerEnvironment()
	registerFile()
}

func registerNumeric() {
	register("abs", 1, 2, func(c *Context, args []value.Value) value.Value {
		if z, ok := args[0].(value.Complex); ok {
			re, im := z.Components()
			mod2 := value.Binary(c, value.Binary(c, re, "*", re), "+", value.Binary(c, im, "*", im))
			return value.SqrtValue(mod2, argEps(c, "abs", args, 1))
		}
		return value.Unary(c, "abs", args[0])
	})
	register("ceil", 1, 1, func(c *Context, args []value.Value) value.Value {
		return argNum("ceil", args, 0).Ceil()
	})
	register("floor", 1, 1, func(c *Context, args []value.Value) value.Value {
		return argNum("floor", args, 0).Floor()
	})
	register("int", 1, 1, func(c *Context, args []value.Value) value.Value {
		return argNum("int", args, 0).IntPart()
	})
	register("frac", 1, 1, func(c *Context, args []value.Value) value.Value {
		return argNum("frac", args, 0).FracPart()
	})
	register("num", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewBigInt(argNum("num", args, 0).Rat().Num())
	})
	register("den", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewBigInt(argNum("den", args, 0).Rat().Denom())
	})
	register("sgn", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewInt(int64(argNum("sgn", args, 0).Sign()))
	})
	register("min", 1, -1, func(c *Context, args []value.Value) value.Value {
		best := argNum("min", args, 0)
		for i := 1; i < len(args); i++ {
			n := argNum("min", args, i)
			if value.Truth(value.Binary(c, n, "<", best)) {
				best = n
			}
		}
		return best
	})
	register("max", 1, -1, func(c *Context, args []value.Value) value.Value {
		best := argNum("max", args, 0)
		for i := 1; i < len(args); i++ {
			n := argNum("max", args, i)
			if value.Truth(value.Binary(c, n, ">", best)) {
				best = n
			}
		}
		return best
	})
	register("appr", 1, 3, func(c *Context, args []value.Value) value.Value {
		x := argNum("appr", args, 0)
		eps := argEps(c, "appr", args, 1)
		mode := c.Config().ApprRound()
		if len(args) == 3 {
			mode = roundModeArg("appr", args, 2)
		}
		return value.Approx(x, eps, mode)
	})
	register("round", 1, 2, func(c *Context, args []value.Value) value.Value {
		x := argNum("round", args, 0)
		digits := int64(0)
		if len(args) == 2 {
			digits = argInt64("round", args, 1)
		}
		pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(digits), nil)
		eps := value.NewFrac(big.NewInt(1), pow)
		return value.Approx(x, eps, config.RoundHalfUp)
	})
	register("quomod", 2, 2, func(c *Context, args []value.Value) value.Value {
		a := argNum("quomod", args, 0)
		b := argNum("quomod", args, 1)
		quo, mod := value.QuoMod(a, b, c.Config().QuomodRound())
		return value.NewList(quo, mod)
	})
	register("inv", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.Unary(c, "inv", args[0])
	})
}

func roundModeArg(name string, args []value.Value, i int) config.RoundMode {
	n := argInt64(name, args, i)
	if n < 0 || int(n) >= config.NumRoundModes {
		value.Errorf(value.ErrInvalidArg, "%s: bad rounding mode %d", name, n)
	}
	return config.RoundMode(n)
}

func registerKernel() {
	register("gcd", 1, -1, func(c *Context, args []value.Value) value.Value {
		g := new(big.Int).Abs(argInt("gcd", args, 0))
		for i := 1; i < len(args); i++ {
			g = zmath.Gcd(g, argInt("gcd", args, i))
		}
		return value.NewBigInt(g)
	})
	register("lcm", 1, -1, func(c *Context, args []value.Value) value.Value {
		l := new(big.Int).Abs(argInt("lcm", args, 0))
		for i := 1; i < len(args); i++ {
			l = zmath.Lcm(l, argInt("lcm", args, i))
		}
		return value.NewBigInt(l)
	})
	register("isqrt", 1, 1, func(c *Context, args []value.Value) value.Value {
		r, err := zmath.Isqrt(argInt("isqrt", args, 0))
		if err != nil {
			value.Errorf(value.ErrDomain, "isqrt: %v", err)
		}
		return value.NewBigInt(r)
	})
	register("iroot", 2, 2, func(c *Context, args []value.Value) value.Value {
		r, err := zmath.Iroot(argInt("iroot", args, 0), argInt64("iroot", args, 1))
		if err != nil {
			value.Errorf(value.ErrDomain, "iroot: %v", err)
		}
		return value.NewBigInt(r)
	})
	register("issq", 1, 1, func(c *Context, args []value.Value) value.Value {
		// A rational is a square iff numerator and denominator are.
		n := argNum("issq", args, 0)
		_, okn := zmath.IsSquare(n.Rat().Num())
		_, okd := zmath.IsSquare(n.Rat().Denom())
		return boolValue(okn && okd)
	})
	register("pmod", 3, 3, func(c *Context, args []value.Value) value.Value {
		r, err := zmath.PowMod(argInt("pmod", args, 0), argInt("pmod", args, 1), argInt("pmod", args, 2))
		if err != nil {
			value.Errorf(value.ErrDivByZero, "pmod: %v", err)
		}
		return value.NewBigInt(r)
	})
	register("jacobi", 2, 2, func(c *Context, args []value.Value) value.Value {
		j, err := zmath.Jacobi(argInt("jacobi", args, 0), argInt("jacobi", args, 1))
		if err != nil {
			value.Errorf(value.ErrInvalidArg, "jacobi: %v", err)
		}
		return value.NewInt(int64(j))
	})
	register("ptest", 1, 3, func(c *Context, args []value.Value) value.Value {
		n := argInt("ptest", args, 0)
		count := c.Config().MRWitnesses()
		if len(args) >= 2 {
			count = int(argInt64("ptest", args, 1))
		}
		rnd := c.rand.Source()
		if len(args) == 3 {
			rnd = value.NewRandstate(argInt64("ptest", args, 2)).Source()
		}
		return boolValue(zmath.Ptest(n, count, rnd))
	})
	register("nextcand", 1, 3, func(c *Context, args []value.Value) value.Value {
		n := argInt("nextcand", args, 0)
		count, skip := candArgs(c, "nextcand", args)
		return value.NewBigInt(zmath.NextCand(n, count, skip, nil))
	})
	register("prevcand", 1, 3, func(c *Context, args []value.Value) value.Value {
		n := argInt("prevcand", args, 0)
		count, skip := candArgs(c, "prevcand", args)
		r := zmath.PrevCand(n, count, skip, nil)
		if r == nil {
			return value.NewInt(0)
		}
		return value.NewBigInt(r)
	})
	register("fib", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewBigInt(zmath.Fib(argInt64("fib", args, 0)))
	})
	register("fact", 1, 1, func(c *Context, args []value.Value) value.Value {
		f, err := zmath.Fact(argInt64("fact", args, 0))
		if err != nil {
			value.Errorf(value.ErrInvalidArg, "fact: %v", err)
		}
		return value.NewBigInt(f)
	})
	register("comb", 2, 2, func(c *Context, args []value.Value) value.Value {
		n := argInt64("comb", args, 0)
		k := argInt64("comb", args, 1)
		if k < 0 || n < 0 || k > n {
			return value.NewInt(0)
		}
		return value.NewBigInt(new(big.Int).Binomial(n, k))
	})
	register("perm", 2, 2, func(c *Context, args []value.Value) value.Value {
		n := argInt64("perm", args, 0)
		k := argInt64("perm", args, 1)
		if k < 0 || n < 0 || k > n {
			return value.NewInt(0)
		}
		return value.NewBigInt(new(big.Int).MulRange(n-k+1, n))
	})
	register("popcnt", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewInt(int64(zmath.Popcount(argInt("popcnt", args, 0))))
	})
	register("bit", 2, 2, func(c *Context, args []value.Value) value.Value {
		set, err := zmath.BitTest(argInt("bit", args, 0), int(argInt64("bit", args, 1)))
		if err != nil {
			value.Errorf(value.ErrInvalidArg, "bit: %v", err)
		}
		return boolValue(set)
	})
	register("bern", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.Bernoulli(int(argInt64("bern", args, 0)))
	})
	register("euler", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.Euler(int(argInt64("euler", args, 0)))
	})
}

func candArgs(c *Context, name string, args []value.Value) (count int, skip int64) {
	count = c.Config().MRWitnesses()
	if len(args) >= 2 {
		count = int(argInt64(name, args, 1))
	}
	if len(args) == 3 {
		skip = argInt64(name, args, 2)
	}
	return count, skip
}

func registerTranscendental() {
	simple := func(name string) {
		register(name, 1, 2, func(c *Context, args []value.Value) value.Value {
			return value.TranscendValue(name, args[0], argEps(c, name, args, 1))
		})
	}
	simple("sin")
	simple("cos")
	simple("tan")
	simple("exp")
	simple("ln")
	simple("atan")
	simple("sinh")
	simple("cosh")
	register("log", 1, 2, func(c *Context, args []value.Value) value.Value {
		eps := argEps(c, "log", args, 1)
		quarter := value.NewFrac(eps.Rat().Num(), new(big.Int).Lsh(eps.Rat().Denom(), 4))
		ln10 := value.TranscendValue("ln", value.NewInt(10), quarter)
		lnx := value.TranscendValue("ln", args[0], quarter)
		return value.Binary(c, lnx, "/", ln10)
	})
	register("sqrt", 1, 2, func(c *Context, args []value.Value) value.Value {
		return value.SqrtValue(args[0], argEps(c, "sqrt", args, 1))
	})
	register("root", 2, 3, func(c *Context, args []value.Value) value.Value {
		x := argNum("root", args, 0)
		n := argInt64("root", args, 1)
		return value.RootValue(x, n, argEps(c, "root", args, 2))
	})
	register("atan2", 2, 3, func(c *Context, args []value.Value) value.Value {
		return value.Atan2Value(argNum("atan2", args, 0), argNum("atan2", args, 1),
			argEps(c, "atan2", args, 2))
	})
	register("pi", 0, 1, func(c *Context, args []value.Value) value.Value {
		return value.PiValue(argEps(c, "pi", args, 0))
	})
}

func registerContainer() {
	register("size", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewInt(int64(value.Size(args[0])))
	})
	register("head", 1, 1, func(c *Context, args []value.Value) value.Value {
		l := argList("head", args, 0)
		if l.Len() == 0 {
			return value.Null{}
		}
		return l.Index(0)
	})
	register("tail", 1, 1, func(c *Context, args []value.Value) value.Value {
		l := argList("tail", args, 0)
		if l.Len() == 0 {
			return value.Null{}
		}
		return l.Index(l.Len() - 1)
	})
	register("push", 2, 2, func(c *Context, args []value.Value) value.Value {
		l := argList("push", args, 0)
		l.Prepend(value.Copy(args[1]))
		return l
	})
	register("pop", 1, 1, func(c *Context, args []value.Value) value.Value {
		return argList("pop", args, 0).PopHead()
	})
	register("remove", 1, 1, func(c *Context, args []value.Value) value.Value {
		return argList("remove", args, 0).PopTail()
	})
	register("insert", 3, 3, func(c *Context, args []value.Value) value.Value {
		l := argList("insert", args, 0)
		i := int(argInt64("insert", args, 1))
		if i < 0 || i > l.Len() {
			value.Errorf(value.ErrBounds, "insert: index %d out of range", i)
		}
		l.Insert(i, value.Copy(args[2]))
		return l
	})
	register("delete", 2, -1, func(c *Context, args []value.Value) value.Value {
		return value.Delete(c, args[0], args[1:])
	})
	register("search", 2, 2, func(c *Context, args []value.Value) value.Value {
		l := argList("search", args, 0)
		return value.NewInt(int64(l.Search(c, args[1])))
	})
	register("rsearch", 2, 2, func(c *Context, args []value.Value) value.Value {
		l := argList("rsearch", args, 0)
		found := -1
		l.Do(func(i int, v value.Value) {
			if value.Truth(value.Binary(c, v, "==", args[1])) {
				found = i
			}
		})
		return value.NewInt(int64(found))
	})
	register("reverse", 1, 1, func(c *Context, args []value.Value) value.Value {
		l := argList("reverse", args, 0)
		l.Reverse()
		return l
	})
	register("sort", 1, 1, func(c *Context, args []value.Value) value.Value {
		l := argList("sort", args, 0)
		elems := make([]value.Value, 0, l.Len())
		l.Do(func(_ int, v value.Value) { elems = append(elems, v) })
		sort.SliceStable(elems, func(i, j int) bool {
			return value.Truth(value.Binary(c, elems[i], "<", elems[j]))
		})
		return value.NewList(elems...)
	})
	register("join", 2, 2, func(c *Context, args []value.Value) value.Value {
		l := argList("join", args, 0)
		sep := argStr("join", args, 1)
		var parts []string
		l.Do(func(_ int, v value.Value) {
			parts = append(parts, v.Sprint(c.Config()))
		})
		return value.String(strings.Join(parts, sep))
	})
	register("makelist", 1, 1, func(c *Context, args []value.Value) value.Value {
		n := argInt64("makelist", args, 0)
		if n < 0 {
			value.Errorf(value.ErrInvalidArg, "makelist: negative length")
		}
		l := value.NewList()
		for i := int64(0); i < n; i++ {
			l.Append(value.NewInt(0))
		}
		return l
	})
	register("assoc", 0, 0, func(c *Context, args []value.Value) value.Value {
		return value.NewAssoc()
	})
	register("matdim", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewInt(int64(argMatrix("matdim", args, 0).NDim()))
	})
	register("matmin", 2, 2, func(c *Context, args []value.Value) value.Value {
		m := argMatrix("matmin", args, 0)
		d := int(argInt64("matmin", args, 1))
		if d < 0 || d >= m.NDim() {
			value.Errorf(value.ErrBounds, "matmin: no dimension %d", d)
		}
		lo, _ := m.Bounds(d)
		return value.NewInt(int64(lo))
	})
	register("matmax", 2, 2, func(c *Context, args []value.Value) value.Value {
		m := argMatrix("matmax", args, 0)
		d := int(argInt64("matmax", args, 1))
		if d < 0 || d >= m.NDim() {
			value.Errorf(value.ErrBounds, "matmax: no dimension %d", d)
		}
		_, hi := m.Bounds(d)
		return value.NewInt(int64(hi))
	})
	register("mattrans", 1, 1, func(c *Context, args []value.Value) value.Value {
		return argMatrix("mattrans", args, 0).Transpose()
	})
	register("det", 1, 1, func(c *Context, args []value.Value) value.Value {
		return argMatrix("det", args, 0).Det(c)
	})
	register("inverse", 1, 1, func(c *Context, args []value.Value) value.Value {
		if m, ok := args[0].(*value.Matrix); ok {
			return m.Inverse(c)
		}
		return value.Unary(c, "inv", args[0])
	})
	register("matfill", 2, 2, func(c *Context, args []value.Value) value.Value {
		m := argMatrix("matfill", args, 0)
		for i := 0; i < m.Size(); i++ {
			m.SetElem(i, value.Copy(args[1]))
		}
		return m
	})
}

func registerString() {
	register("strlen", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewInt(int64(len(argStr("strlen", args, 0))))
	})
	register("strcat", 0, -1, func(c *Context, args []value.Value) value.Value {
		var b strings.Builder
		for i := range args {
			b.WriteString(argStr("strcat", args, i))
		}
		return value.String(b.String())
	})
	register("substr", 3, 3, func(c *Context, args []value.Value) value.Value {
		s := argStr("substr", args, 0)
		start := int(argInt64("substr", args, 1))
		n := int(argInt64("substr", args, 2))
		if start < 0 || start > len(s) || n < 0 {
			value.Errorf(value.ErrBounds, "substr: range out of bounds")
		}
		if start+n > len(s) {
			n = len(s) - start
		}
		return value.String(s[start : start+n])
	})
	register("strpos", 2, 2, func(c *Context, args []value.Value) value.Value {
		return value.NewInt(int64(strings.Index(argStr("strpos", args, 0), argStr("strpos", args, 1))))
	})
	register("strtoupper", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.String(strings.ToUpper(argStr("strtoupper", args, 0)))
	})
	register("strtolower", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.String(strings.ToLower(argStr("strtolower", args, 0)))
	})
	register("str", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.String(args[0].Sprint(c.Config()))
	})
	register("strprintf", 1, -1, func(c *Context, args []value.Value) value.Value {
		return value.String(sprintfValues(c, argStr("strprintf", args, 0), args[1:]))
	})
	register("printf", 1, -1, func(c *Context, args []value.Value) value.Value {
		fmt.Fprint(c.Config().Output(), sprintfValues(c, argStr("printf", args, 0), args[1:]))
		return value.Null{}
	})
}

// sprintfValues implements the %d/%s/%f/%e subset of formatted output.
func sprintfValues(c *Context, format string, args []value.Value) string {
	var b strings.Builder
	conf := c.Config()
	arg := 0
	next := func() value.Value {
		if arg >= len(args) {
			value.Errorf(value.ErrInvalidArg, "printf: missing argument for verb")
		}
		v := args[arg]
		arg++
		return v
	}
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' || i+1 >= len(format) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch format[i] {
		case '%':
			b.WriteByte('%')
		case 'd':
			v := next()
			if n, ok := v.(value.Number); ok {
				b.WriteString(n.IntPart().Rat().Num().String())
			} else {
				b.WriteString(v.Sprint(conf))
			}
		case 's', 'v':
			b.WriteString(next().Sprint(conf))
		case 'f', 'e':
			b.WriteString(next().Sprint(conf))
		default:
			value.Errorf(value.ErrInvalidArg, "printf: bad verb %%%c", format[i])
		}
	}
	return b.String()
}

func registerEnvironment() {
	register("config", 1, 2, func(c *Context, args []value.Value) value.Value {
		name := argStr("config", args, 0)
		old := configGet(c, name)
		if len(args) == 2 {
			configSet(c, name, args[1])
		}
		return old
	})
	register("epsilon", 0, 1, func(c *Context, args []value.Value) value.Value {
		old := value.NewNumber(new(big.Rat).Set(c.Config().Epsilon()))
		if len(args) == 1 {
			eps := argNum("epsilon", args, 0)
			if eps.Sign() <= 0 {
				value.Errorf(value.ErrInvalidArg, "epsilon must be positive")
			}
			c.Config().SetEpsilon(eps.Rat())
		}
		return old
	})
	register("digits", 1, 1, func(c *Context, args []value.Value) value.Value {
		n := argInt("digits", args, 0)
		return value.NewInt(int64(len(new(big.Int).Abs(n).String())))
	})
	register("typeof", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.String(args[0].Type().String())
	})
	register("errmsg", 1, 1, func(c *Context, args []value.Value) value.Value {
		if e, ok := args[0].(value.Error); ok {
			return value.String(e.Msg)
		}
		return value.String("")
	})
	register("strerror", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.String(value.ErrText(int(argInt64("strerror", args, 0))))
	})
	isType := func(name string, want value.T) {
		register(name, 1, 1, func(c *Context, args []value.Value) value.Value {
			return boolValue(args[0].Type() == want)
		})
	}
	isType("isnull", value.TNull)
	isType("isnum", value.TNumber)
	isType("iscomplex", value.TComplex)
	isType("isstr", value.TString)
	isType("islist", value.TList)
	isType("ismat", value.TMatrix)
	isType("isassoc", value.TAssoc)
	isType("isobj", value.TObject)
	isType("isfile", value.TFile)
	isType("isblk", value.TBlock)
	isType("isrand", value.TRand)
	isType("israndstate", value.TRand)
	register("isint", 1, 1, func(c *Context, args []value.Value) value.Value {
		n, ok := args[0].(value.Number)
		return boolValue(ok && n.IsInt())
	})
	register("isreal", 1, 1, func(c *Context, args []value.Value) value.Value {
		_, ok := args[0].(value.Number)
		return boolValue(ok)
	})
	register("re", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.Re(args[0])
	})
	register("im", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.Im(args[0])
	})
	register("conj", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.Conj(args[0])
	})
	register("arg", 1, 2, func(c *Context, args []value.Value) value.Value {
		re := value.Re(args[0])
		im := value.Im(args[0])
		return value.Atan2Value(im, re, argEps(c, "arg", args, 1))
	})
	register("cmplx", 2, 2, func(c *Context, args []value.Value) value.Value {
		return value.NewComplex(argNum("cmplx", args, 0), argNum("cmplx", args, 1))
	})
	register("polar", 2, 3, func(c *Context, args []value.Value) value.Value {
		r := argNum("polar", args, 0)
		theta := argNum("polar", args, 1)
		eps := argEps(c, "polar", args, 2)
		cosT := value.TranscendValue("cos", theta, eps).(value.Number)
		sinT := value.TranscendValue("sin", theta, eps).(value.Number)
		return value.NewComplex(
			value.Binary(c, r, "*", cosT).(value.Number),
			value.Binary(c, r, "*", sinT).(value.Number))
	})
	register("rand", 0, 2, func(c *Context, args []value.Value) value.Value {
		switch len(args) {
		case 0:
			// A random 64-bit integer.
			return value.NewBigInt(c.rand.Bits(64))
		case 1:
			return value.NewBigInt(c.rand.Below(argInt("rand", args, 0)))
		default:
			lo := argInt("rand", args, 0)
			hi := argInt("rand", args, 1)
			span := new(big.Int).Sub(hi, lo)
			if span.Sign() <= 0 {
				value.Errorf(value.ErrInvalidArg, "rand: empty range")
			}
			return value.NewBigInt(new(big.Int).Add(lo, c.rand.Below(span)))
		}
	})
	register("srand", 1, 1, func(c *Context, args []value.Value) value.Value {
		c.rand.Seed(argInt64("srand", args, 0))
		return c.rand
	})
	register("randbit", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewBigInt(c.rand.Bits(int(argInt64("randbit", args, 0))))
	})
	register("randstate", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewRandstate(argInt64("randstate", args, 0))
	})
	register("eval", 1, 1, func(c *Context, args []value.Value) value.Value {
		return evalString(c, argStr("eval", args, 0))
	})
	register("undefine", 1, 1, func(c *Context, args []value.Value) value.Value {
		c.RemoveFunc(argStr("undefine", args, 0))
		return value.Null{}
	})
	register("quit", 0, 1, func(c *Context, args []value.Value) value.Value {
		code := int64(0)
		if len(args) == 1 {
			code = argInt64("quit", args, 0)
		}
		panic(value.Fault{Code: QuitCode, Msg: fmt.Sprintf("quit %d", code)})
	})
}

func registerFile() {
	register("fopen", 2, 2, func(c *Context, args []value.Value) value.Value {
		f := value.OpenFile(c.Config(), argStr("fopen", args, 0), argStr("fopen", args, 1))
		c.TrackFile(f)
		return f
	})
	register("fclose", 1, 1, func(c *Context, args []value.Value) value.Value {
		argFile("fclose", args, 0).Close()
		return value.Null{}
	})
	register("fputs", 2, -1, func(c *Context, args []value.Value) value.Value {
		f := argFile("fputs", args, 0)
		for i := 1; i < len(args); i++ {
			f.Puts(argStr("fputs", args, i))
		}
		return value.Null{}
	})
	register("fgets", 1, 1, func(c *Context, args []value.Value) value.Value {
		line, ok := argFile("fgets", args, 0).Gets()
		if !ok {
			return value.Null{}
		}
		return value.String(line)
	})
	register("feof", 1, 1, func(c *Context, args []value.Value) value.Value {
		return boolValue(argFile("feof", args, 0).EOF())
	})
	register("fsize", 1, 1, func(c *Context, args []value.Value) value.Value {
		return value.NewInt(argFile("fsize", args, 0).SizeBytes())
	})
	register("files", 0, 0, func(c *Context, args []value.Value) value.Value {
		l := value.NewList()
		for _, f := range c.Files() {
			l.Append(f)
		}
		return l
	})
	register("blk", 0, 1, func(c *Context, args []value.Value) value.Value {
		n := int64(0)
		if len(args) == 1 {
			n = argInt64("blk", args, 0)
		}
		return value.NewBlock(int(n))
	})
	register("blkwrite", 2, 2, func(c *Context, args []value.Value) value.Value {
		f := argFile("blkwrite", args, 0)
		b := argBlock("blkwrite", args, 1)
		f.Puts(string(b.Bytes()))
		return value.NewInt(int64(b.Len()))
	})
	register("blkread", 2, 2, func(c *Context, args []value.Value) value.Value {
		f := argFile("blkread", args, 0)
		b := argBlock("blkread", args, 1)
		return value.NewInt(int64(f.Read(b.Bytes())))
	})
	register("read", 1, 1, func(c *Context, args []value.Value) value.Value {
		readFile(c, argStr("read", args, 0))
		return value.Null{}
	})
}
