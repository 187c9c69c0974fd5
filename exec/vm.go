// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"fmt"

	"calq.io/calq/code"
	"calq.io/calq/config"
	"calq.io/calq/value"
)

// machine runs one frame: a compiled function with its evaluation
// stack, local slots, and active TRY regions.
type machine struct {
	c      *Context
	fn     *code.Function
	stack  []value.Value
	locals []value.Value
	tries  []tryRegion
	pc     int
}

type tryRegion struct {
	handler int
	depth   int // stack depth to restore when the handler runs
}

// Run executes a compiled top-level unit, converting an uncaught
// fault into an error for the REPL to report.
func (c *Context) Run(fn *code.Function) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if f, ok := r.(value.Fault); ok {
			err = f
			return
		}
		panic(r)
	}()
	c.call(fn, nil)
	return nil
}

// call runs a function to completion and returns its value. Faults
// propagate as panics; callers above the REPL recover them.
func (c *Context) call(fn *code.Function, args []value.Value) value.Value {
	if c.frames >= c.config.MaxStack() {
		value.Errorf(value.ErrStackOverflow, "call stack exhausted calling %q", fn.Name)
	}
	// Extra arguments are an error; missing ones default to null.
	if len(args) > len(fn.Params) {
		value.Errorf(value.ErrInvalidArg, "%q takes %d arguments, given %d",
			fn.Name, len(fn.Params), len(args))
	}
	c.frames++
	defer func() { c.frames-- }()

	locals := make([]value.Value, fn.LocalCount)
	for i := range locals {
		locals[i] = value.Null{}
	}
	for i, a := range args {
		locals[i] = value.Copy(a)
	}
	m := &machine{c: c, fn: fn, locals: locals}
	if c.config.CalcDebug()&config.DebugCalls != 0 {
		fmt.Fprintf(c.config.ErrOutput(), "calq: call %s/%d\n", fn.Name, len(args))
	}
	v := m.run()
	if c.config.CalcDebug()&config.DebugCalls != 0 {
		fmt.Fprintf(c.config.ErrOutput(), "calq: return from %s\n", fn.Name)
	}
	return v
}

func (m *machine) push(v value.Value) { m.stack = append(m.stack, v) }

func (m *machine) pop() value.Value {
	n := len(m.stack) - 1
	v := m.stack[n]
	m.stack = m.stack[:n]
	return v
}

func (m *machine) popN(n int) []value.Value {
	at := len(m.stack) - n
	vs := make([]value.Value, n)
	copy(vs, m.stack[at:])
	m.stack = m.stack[:at]
	return vs
}

func (m *machine) top() value.Value { return m.stack[len(m.stack)-1] }

// run is the dispatch loop.
func (m *machine) run() value.Value {
	conf := m.c.Config()
	trace := conf.CalcDebug()&config.DebugOpcodes != 0
	for m.pc < len(m.fn.Code) {
		in := m.fn.Code[m.pc]
		if trace {
			fmt.Fprintf(conf.ErrOutput(), "calq: %s:%d %s\n", m.fn.Name, m.pc, in)
		}
		switch in.Op {
		// Control flow stays outside the fault boundary.
		case code.BRANCH:
			if in.A <= m.pc {
				m.c.pollInterrupt()
			}
			m.pc = in.A
			continue
		case code.BRANCH_IF:
			if value.Truth(m.pop()) {
				if in.A <= m.pc {
					m.c.pollInterrupt()
				}
				m.pc = in.A
				continue
			}
		case code.BRANCH_IF_FALSE:
			if !value.Truth(m.pop()) {
				if in.A <= m.pc {
					m.c.pollInterrupt()
				}
				m.pc = in.A
				continue
			}
		case code.RETURN:
			return m.pop()
		case code.TRY:
			m.tries = append(m.tries, tryRegion{handler: in.A, depth: len(m.stack)})
		case code.ENDTRY:
			m.tries = m.tries[:len(m.tries)-1]
		default:
			if jumped := m.step(in); jumped {
				continue
			}
		}
		m.pc++
	}
	return value.Null{}
}

// convertible reports whether a fault in this opcode may become an
// Error value on the stack under the continue-on-error policy.
func convertible(op code.Opcode) bool {
	switch op {
	case code.OP, code.OP_UNARY, code.INDEX, code.SETINDEX,
		code.CALL_BUILTIN, code.GETFIELD, code.SETFIELD,
		code.SETELEM, code.MAKE_MATRIX, code.NEW_OBJ, code.APPEND:
		return true
	}
	return false
}

// step executes one non-control instruction under the fault boundary.
// It reports whether it changed the pc (TRY handler entry).
func (m *machine) step(in code.Instr) (jumped bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		f, ok := r.(value.Fault)
		if !ok {
			panic(r)
		}
		if f.Code == value.ErrUserAbort || f.Code < 0 {
			panic(r) // interrupts and quit unwind everything
		}
		if n := len(m.tries); n > 0 {
			// Deliver the error value to the innermost handler.
			region := m.tries[n-1]
			m.tries = m.tries[:n-1]
			m.stack = m.stack[:region.depth]
			m.push(value.FaultError(f))
			m.pc = region.handler
			jumped = true
			return
		}
		if !convertible(in.Op) || m.c.Config().DecStopOnError() {
			panic(r)
		}
		m.push(value.FaultError(f))
	}()

	c := m.c
	switch in.Op {
	case code.PUSH_CONST:
		m.push(m.fn.Consts[in.A])
	case code.PUSH_NULL:
		m.push(value.Null{})
	case code.POP:
		m.pop()
	case code.DUP:
		m.push(m.top())

	case code.LOAD_LOCAL:
		m.push(m.locals[in.A])
	case code.STORE_LOCAL:
		m.locals[in.A] = value.Copy(m.pop())
	case code.LOAD_GLOBAL:
		// Unset variables read as null, as in the original system.
		if v, ok := c.Globals[in.S]; ok {
			m.push(v)
		} else {
			m.push(value.Null{})
		}
	case code.STORE_GLOBAL:
		c.Globals[in.S] = value.Copy(m.pop())
	case code.LOAD_STATIC:
		if v, ok := c.Statics[in.S]; ok {
			m.push(v)
		} else {
			m.push(value.Null{})
		}
	case code.STORE_STATIC:
		c.Statics[in.S] = value.Copy(m.pop())

	case code.OP:
		rhs := m.pop()
		lhs := m.pop()
		m.push(value.Binary(c, lhs, in.S, rhs))
	case code.OP_UNARY:
		m.push(value.Unary(c, in.S, m.pop()))

	case code.CALL:
		c.pollInterrupt()
		args := m.popN(in.A)
		fn, ok := c.Funcs[in.S]
		if !ok {
			value.Errorf(value.ErrUndefFunc, "undefined function %q", in.S)
		}
		m.push(c.call(fn, args))
	case code.CALL_BUILTIN:
		c.pollInterrupt()
		args := m.popN(in.A)
		m.push(callBuiltin(c, in.A2, args))

	case code.INDEX:
		keys := m.popN(in.A)
		m.push(value.Index(c, m.pop(), keys))
	case code.SETINDEX:
		val := m.pop()
		keys := m.popN(in.A)
		container := m.pop()
		m.push(value.SetIndex(c, container, keys, val))
	case code.MAKE_LIST:
		m.push(value.NewList(m.popN(in.A)...))
	case code.MAKE_MATRIX:
		lo := make([]int, in.A)
		hi := make([]int, in.A)
		for d := in.A - 1; d >= 0; d-- {
			if in.A2&(1<<d) != 0 {
				hi[d] = intOperand(m.pop(), "matrix bound")
				lo[d] = intOperand(m.pop(), "matrix bound")
			} else {
				n := intOperand(m.pop(), "matrix extent")
				lo[d], hi[d] = 0, n-1
			}
		}
		m.push(value.NewMatrix(lo, hi))
	case code.SETELEM:
		val := m.pop()
		mat, ok := m.top().(*value.Matrix)
		if !ok {
			value.Errorf(value.ErrTypeMismatch, "matrix initializer on %s", m.top().Type())
		}
		mat.SetElem(in.A, value.Copy(val))
	case code.APPEND:
		val := m.pop()
		list := m.pop()
		value.Append(list, val)
		m.push(list)

	case code.NEW_OBJ:
		typ, ok := c.ObjectType(in.S)
		if !ok {
			value.Errorf(value.ErrUndefVar, "undefined object type %q", in.S)
		}
		m.push(value.NewObject(typ))
	case code.GETFIELD:
		v := m.pop()
		if e, isErr := v.(value.Error); isErr {
			m.push(e)
			break
		}
		o, ok := v.(*value.Object)
		if !ok {
			value.Errorf(value.ErrTypeMismatch, "field access on %s", v.Type())
		}
		m.push(o.Field(in.S))
	case code.SETFIELD:
		val := m.pop()
		o, ok := m.pop().(*value.Object)
		if !ok {
			value.Errorf(value.ErrTypeMismatch, "field assignment on non-object")
		}
		o.SetField(in.S, value.Copy(val))
		m.push(val)

	case code.ISERR:
		_, isErr := m.pop().(value.Error)
		m.push(boolValue(isErr))
	case code.ERRNO:
		if e, isErr := m.pop().(value.Error); isErr {
			m.push(value.NewInt(int64(e.Code)))
		} else {
			m.push(value.NewInt(0))
		}
	case code.NEWERROR:
		msg := ""
		if in.A == 2 {
			s, ok := m.pop().(value.String)
			if !ok {
				value.Errorf(value.ErrTypeMismatch, "error: message must be a string")
			}
			msg = string(s)
		}
		codeNum, ok := m.pop().(value.Number)
		if !ok {
			value.Errorf(value.ErrTypeMismatch, "error: code must be a number")
		}
		m.push(value.NewError(int(codeNum.Int64("error code")), msg))
	case code.ERROR:
		v := m.pop()
		switch v := v.(type) {
		case value.Error:
			panic(v.Fault())
		case value.Number:
			n := int(v.Int64("throw code"))
			panic(value.Fault{Code: n, Msg: value.ErrText(n)})
		}
		value.Errorf(value.ErrTypeMismatch, "throw: not an error")

	case code.PRINT:
		v := m.pop()
		if value.IsNull(v) {
			break
		}
		out := c.Config().Output()
		if in.A == 1 {
			fmt.Fprintln(out, v.Sprint(c.Config()))
		} else {
			fmt.Fprint(out, v.Sprint(c.Config()), " ")
		}

	default:
		value.Errorf(value.ErrSyntax, "unknown opcode %s", in.Op)
	}
	return false
}

func intOperand(v value.Value, what string) int {
	n, ok := v.(value.Number)
	if !ok {
		value.Errorf(value.ErrTypeMismatch, "%s must be a number", what)
	}
	return int(n.Int64(what))
}

func boolValue(t bool) value.Value {
	if t {
		return value.NewInt(1)
	}
	return value.NewInt(0)
}
