// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Unary operators, one dispatch table per operator indexed by the
// operand tag, populated in init to avoid initialization cycles.

type unaryFn func(Context, Value) Value

type unaryTab [numT]unaryFn

var unaryOps = make(map[string]*unaryTab)

func unPut(op string, t T, fn unaryFn) {
	tab := unaryOps[op]
	if tab == nil {
		tab = new(unaryTab)
		unaryOps[op] = tab
	}
	tab[t] = fn
}

// Unary dispatches op v.
func Unary(c Context, op string, v Value) Value {
	if e, ok := v.(Error); ok {
		return e
	}
	if op == "!" {
		// Logical not accepts every type through Truth, objects
		// included.
		return boolNum(!Truth(v))
	}
	if v.Type() == TObject {
		return objUnary(c, op, v)
	}
	tab := unaryOps[op]
	if tab == nil {
		Errorf(ErrTypeMismatch, "unknown operator %s", op)
	}
	fn := tab[v.Type()]
	if fn == nil {
		Errorf(ErrTypeMismatch, "operator %s undefined on %s", op, v.Type())
	}
	return fn(c, v)
}

func init() {
	unPut("-", TNumber, func(c Context, v Value) Value { return negNum(v.(Number)) })
	unPut("-", TComplex, func(c Context, v Value) Value { return negCpx(v.(Complex)) })
	unPut("-", TMatrix, func(c Context, v Value) Value {
		m := v.(*Matrix).Copy()
		for i := range m.data {
			m.data[i] = Unary(c, "-", m.data[i])
		}
		return m
	})

	unPut("+", TNumber, func(c Context, v Value) Value { return v })
	unPut("+", TComplex, func(c Context, v Value) Value { return v })
	unPut("+", TMatrix, func(c Context, v Value) Value { return v })

	unPut("~", TNumber, func(c Context, v Value) Value { return notNum(v.(Number)) })

	unPut("abs", TNumber, func(c Context, v Value) Value { return absNum(v.(Number)) })

	unPut("inv", TNumber, func(c Context, v Value) Value { return invNum(v.(Number)) })
	unPut("inv", TComplex, func(c Context, v Value) Value {
		return divCpx(asComplex(oneNum), v.(Complex))
	})
	unPut("inv", TMatrix, func(c Context, v Value) Value {
		return v.(*Matrix).Inverse(c)
	})

	unPut("conj", TNumber, func(c Context, v Value) Value { return v })
	unPut("conj", TComplex, func(c Context, v Value) Value { return conjCpx(v.(Complex)) })
}
