// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Binary operators.
//
// Each operator owns a two-dimensional table indexed by the operand
// type tags. Missing entries are a type-mismatch fault. Object
// operands bypass the tables and route to the user override lookup.
// To avoid initialization cycles when the entries refer to Binary
// itself, the tables are populated in an init function.

type binaryFn func(Context, Value, Value) Value

type binaryTab [numT][numT]binaryFn

var binaryOps = make(map[string]*binaryTab)

func binPut(op string, l, r T, fn binaryFn) {
	tab := binaryOps[op]
	if tab == nil {
		tab = new(binaryTab)
		binaryOps[op] = tab
	}
	tab[l][r] = fn
}

// binNumeric registers fn for all four Number/Complex pairings.
func binNumeric(op string, num func(Context, Number, Number) Value, cpx func(Context, Complex, Complex) Value) {
	binPut(op, TNumber, TNumber, func(c Context, u, v Value) Value {
		return num(c, u.(Number), v.(Number))
	})
	mixed := func(c Context, u, v Value) Value {
		if cpx == nil {
			Errorf(ErrTypeMismatch, "operator %s undefined on complex values", op)
		}
		return cpx(c, asComplex(u), asComplex(v))
	}
	binPut(op, TNumber, TComplex, mixed)
	binPut(op, TComplex, TNumber, mixed)
	binPut(op, TComplex, TComplex, mixed)
}

// boolNum converts a truth value to the numbers 1 and 0.
func boolNum(t bool) Number {
	if t {
		return oneNum
	}
	return zeroNum
}

// Binary dispatches u op v.
func Binary(c Context, u Value, op string, v Value) Value {
	// Errors flow through arithmetic untouched, left operand first.
	if e, ok := u.(Error); ok {
		return e
	}
	if e, ok := v.(Error); ok {
		return e
	}
	if u.Type() == TObject || v.Type() == TObject {
		return objBinary(c, u, op, v)
	}
	switch op {
	case "==":
		return boolNum(equalValues(c, u, v))
	case "!=":
		return boolNum(!equalValues(c, u, v))
	}
	tab := binaryOps[op]
	if tab == nil {
		Errorf(ErrTypeMismatch, "unknown operator %s", op)
	}
	fn := tab[u.Type()][v.Type()]
	if fn == nil {
		Errorf(ErrTypeMismatch, "operator %s undefined on %s and %s", op, u.Type(), v.Type())
	}
	return fn(c, u, v)
}

func init() {
	binNumeric("+",
		func(c Context, u, v Number) Value { return addNum(u, v) },
		func(c Context, u, v Complex) Value { return addCpx(u, v) })
	binNumeric("-",
		func(c Context, u, v Number) Value { return subNum(u, v) },
		func(c Context, u, v Complex) Value { return subCpx(u, v) })
	binNumeric("*",
		func(c Context, u, v Number) Value { return mulNum(u, v) },
		func(c Context, u, v Complex) Value { return mulCpx(u, v) })
	binNumeric("/",
		func(c Context, u, v Number) Value { return divNum(u, v) },
		func(c Context, u, v Complex) Value { return divCpx(u, v) })
	binNumeric("**",
		func(c Context, u, v Number) Value { return powNum(c, u, v) },
		func(c Context, u, v Complex) Value { return powCpx(c, u, v) })

	// Integer quotient and remainder honor the configured rounding.
	binPut("//", TNumber, TNumber, func(c Context, u, v Value) Value {
		quo, _ := QuoMod(u.(Number), v.(Number), c.Config().QuoRound())
		return quo
	})
	binPut("%", TNumber, TNumber, func(c Context, u, v Value) Value {
		_, mod := QuoMod(u.(Number), v.(Number), c.Config().ModRound())
		return mod
	})

	// Ordering.
	binPut("<", TNumber, TNumber, func(c Context, u, v Value) Value {
		return boolNum(cmpNum(u.(Number), v.(Number)) < 0)
	})
	binPut("<=", TNumber, TNumber, func(c Context, u, v Value) Value {
		return boolNum(cmpNum(u.(Number), v.(Number)) <= 0)
	})
	binPut(">", TNumber, TNumber, func(c Context, u, v Value) Value {
		return boolNum(cmpNum(u.(Number), v.(Number)) > 0)
	})
	binPut(">=", TNumber, TNumber, func(c Context, u, v Value) Value {
		return boolNum(cmpNum(u.(Number), v.(Number)) >= 0)
	})
	binPut("<", TString, TString, func(c Context, u, v Value) Value {
		return boolNum(u.(String) < v.(String))
	})
	binPut("<=", TString, TString, func(c Context, u, v Value) Value {
		return boolNum(u.(String) <= v.(String))
	})
	binPut(">", TString, TString, func(c Context, u, v Value) Value {
		return boolNum(u.(String) > v.(String))
	})
	binPut(">=", TString, TString, func(c Context, u, v Value) Value {
		return boolNum(u.(String) >= v.(String))
	})

	// Bitwise; integer operands only.
	binPut("&", TNumber, TNumber, func(c Context, u, v Value) Value {
		return andNum(u.(Number), v.(Number))
	})
	binPut("|", TNumber, TNumber, func(c Context, u, v Value) Value {
		return orNum(u.(Number), v.(Number))
	})
	binPut("^", TNumber, TNumber, func(c Context, u, v Value) Value {
		return xorNum(u.(Number), v.(Number))
	})
	binPut("<<", TNumber, TNumber, func(c Context, u, v Value) Value {
		return lshNum(u.(Number), v.(Number))
	})
	binPut(">>", TNumber, TNumber, func(c Context, u, v Value) Value {
		return rshNum(u.(Number), v.(Number))
	})

	// Strings concatenate with +.
	binPut("+", TString, TString, func(c Context, u, v Value) Value {
		return u.(String) + v.(String)
	})

	// Lists concatenate with +.
	binPut("+", TList, TList, func(c Context, u, v Value) Value {
		r := u.(*List).Copy()
		v.(*List).Do(func(_ int, e Value) {
			r.Append(Copy(e))
		})
		return r
	})

	// Matrix arithmetic: elementwise + and -, linear-algebra *.
	binPut("+", TMatrix, TMatrix, func(c Context, u, v Value) Value {
		return matrixElementwise(c, u.(*Matrix), "+", v.(*Matrix))
	})
	binPut("-", TMatrix, TMatrix, func(c Context, u, v Value) Value {
		return matrixElementwise(c, u.(*Matrix), "-", v.(*Matrix))
	})
	binPut("*", TMatrix, TMatrix, func(c Context, u, v Value) Value {
		return matMul(c, u.(*Matrix), v.(*Matrix))
	})
	for _, scalar := range []T{TNumber, TComplex} {
		scalar := scalar
		for _, op := range []string{"+", "-", "*", "/"} {
			op := op
			binPut(op, TMatrix, scalar, func(c Context, u, v Value) Value {
				return matrixScalar(c, u.(*Matrix), op, v, false)
			})
		}
		for _, op := range []string{"+", "*"} {
			op := op
			binPut(op, scalar, TMatrix, func(c Context, u, v Value) Value {
				return matrixScalar(c, v.(*Matrix), op, u, true)
			})
		}
	}
}
