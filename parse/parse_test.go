// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calq.io/calq/code"
	"calq.io/calq/value"
)

// fakeEnv satisfies Env for compiler tests.
type fakeEnv struct {
	funcs    map[string]*code.Function
	objTypes map[string]*value.ObjectTypeDef
	builtins map[string]int
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		funcs:    make(map[string]*code.Function),
		objTypes: make(map[string]*value.ObjectTypeDef),
		builtins: map[string]int{"sqrt": 0, "size": 1},
	}
}

func (e *fakeEnv) DefineFunc(fn *code.Function) { e.funcs[fn.Name] = fn }

func (e *fakeEnv) DefineObjectType(name string, fields []string) error {
	e.objTypes[name] = &value.ObjectTypeDef{Name: name, Fields: fields}
	return nil
}

func (e *fakeEnv) ObjectType(name string) (*value.ObjectTypeDef, bool) {
	t, ok := e.objTypes[name]
	return t, ok
}

func (e *fakeEnv) BuiltinIndex(name string) (int, bool) {
	id, ok := e.builtins[name]
	return id, ok
}

func ops(fn *code.Function) []code.Opcode {
	out := make([]code.Opcode, len(fn.Code))
	for i, in := range fn.Code {
		out[i] = in.Op
	}
	return out
}

func countOp(fn *code.Function, op code.Opcode) int {
	n := 0
	for _, in := range fn.Code {
		if in.Op == op {
			n++
		}
	}
	return n
}

func TestCompileExpression(t *testing.T) {
	fn, err := Compile("t", "1 + 2 * 3;", newFakeEnv())
	require.NoError(t, err)
	// Multiplication binds tighter: consts 1 2 3, then *, then +.
	assert.Equal(t, []code.Opcode{
		code.PUSH_CONST, code.PUSH_CONST, code.PUSH_CONST,
		code.OP, code.OP, code.PRINT,
		code.PUSH_NULL, code.RETURN,
	}, ops(fn))
	assert.Equal(t, "*", fn.Code[3].S)
	assert.Equal(t, "+", fn.Code[4].S)
}

func TestPowerRightAssociative(t *testing.T) {
	fn, err := Compile("t", "2 ** 3 ** 2;", newFakeEnv())
	require.NoError(t, err)
	// 2 ** (3 ** 2): both OPs follow all three pushes.
	assert.Equal(t, []code.Opcode{
		code.PUSH_CONST, code.PUSH_CONST, code.PUSH_CONST,
		code.OP, code.OP, code.PRINT,
		code.PUSH_NULL, code.RETURN,
	}, ops(fn))
}

func TestAssignmentForms(t *testing.T) {
	env := newFakeEnv()

	fn, err := Compile("t", "x = 4;", env)
	require.NoError(t, err)
	assert.Equal(t, 1, countOp(fn, code.STORE_GLOBAL))
	assert.Equal(t, 1, countOp(fn, code.POP)) // silent statement

	fn, err = Compile("t", "a[1] = 2;", env)
	require.NoError(t, err)
	assert.Equal(t, 1, countOp(fn, code.SETINDEX))
	assert.Zero(t, countOp(fn, code.INDEX))

	fn, err = Compile("t", "p.x = 2;", env)
	require.NoError(t, err)
	assert.Equal(t, 1, countOp(fn, code.SETFIELD))

	_, err = Compile("t", "3 = 4;", env)
	assert.Error(t, err)
}

func TestCallCompilation(t *testing.T) {
	env := newFakeEnv()
	fn, err := Compile("t", "sqrt(2); foo(1, 2, 3);", env)
	require.NoError(t, err)
	assert.Equal(t, 1, countOp(fn, code.CALL_BUILTIN))
	assert.Equal(t, 1, countOp(fn, code.CALL))
	for _, in := range fn.Code {
		if in.Op == code.CALL {
			assert.Equal(t, "foo", in.S)
			assert.Equal(t, 3, in.A)
		}
	}
}

func TestDefineRegistersFunction(t *testing.T) {
	env := newFakeEnv()
	_, err := Compile("t", `
		define hyp(a, b) {
			local s;
			s = a*a + b*b;
			return sqrt(s);
		}`, env)
	require.NoError(t, err)
	fn := env.funcs["hyp"]
	require.NotNil(t, fn)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	assert.Equal(t, 3, fn.LocalCount) // two params and one local
	assert.Equal(t, 1, countOp(fn, code.CALL_BUILTIN))
	// Function statements do not auto-print.
	assert.Zero(t, countOp(fn, code.PRINT))
}

func TestObjDeclaration(t *testing.T) {
	env := newFakeEnv()
	_, err := Compile("t", "obj point {x, y};", env)
	require.NoError(t, err)
	typ, ok := env.ObjectType("point")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, typ.Fields)

	fn, err := Compile("t", "p = obj point;", env)
	require.NoError(t, err)
	assert.Equal(t, 1, countOp(fn, code.NEW_OBJ))
}

func TestMatCompilation(t *testing.T) {
	env := newFakeEnv()
	fn, err := Compile("t", "mat M[2, 1:3] = {{1,2,3},{4,5,6}};", env)
	require.NoError(t, err)
	var mm code.Instr
	for _, in := range fn.Code {
		if in.Op == code.MAKE_MATRIX {
			mm = in
		}
	}
	assert.Equal(t, 2, mm.A)
	assert.Equal(t, 2, mm.A2) // second dimension is a lo:hi pair
	assert.Equal(t, 6, countOp(fn, code.SETELEM))
	assert.Equal(t, 1, countOp(fn, code.STORE_GLOBAL))
}

func TestBranchTargets(t *testing.T) {
	env := newFakeEnv()
	fn, err := Compile("t", "while (x) x = x - 1;", env)
	require.NoError(t, err)
	// Every branch target lands inside the code.
	for _, in := range fn.Code {
		switch in.Op {
		case code.BRANCH, code.BRANCH_IF, code.BRANCH_IF_FALSE, code.TRY:
			assert.GreaterOrEqual(t, in.A, 0)
			assert.LessOrEqual(t, in.A, len(fn.Code))
		}
	}
}

func TestIncomplete(t *testing.T) {
	env := newFakeEnv()
	_, err := Compile("t", "define f(x) {", env)
	assert.Equal(t, ErrIncomplete, err)
	_, err = Compile("t", "if (x) {", env)
	assert.Equal(t, ErrIncomplete, err)
	_, err = Compile("t", "1 +", env)
	assert.Equal(t, ErrIncomplete, err)
}

func TestSyntaxErrors(t *testing.T) {
	env := newFakeEnv()
	_, err := Compile("t", "1 + );", env)
	require.Error(t, err)
	f, ok := err.(value.Fault)
	require.True(t, ok)
	assert.Equal(t, value.ErrSyntax, f.Code)

	_, err = Compile("t", "goto nowhere;", env)
	require.Error(t, err)
	f, ok = err.(value.Fault)
	require.True(t, ok)
	assert.Equal(t, value.ErrUndefLabel, f.Code)

	_, err = Compile("t", "x: 1; x: 2;", env)
	require.Error(t, err)
	f, ok = err.(value.Fault)
	require.True(t, ok)
	assert.Equal(t, value.ErrRedefined, f.Code)

	_, err = Compile("t", "break;", env)
	assert.Error(t, err)
}

func TestTryCompilation(t *testing.T) {
	env := newFakeEnv()
	fn, err := Compile("t", "try x = 1/0; catch e x = 0;", env)
	require.NoError(t, err)
	assert.Equal(t, 1, countOp(fn, code.TRY))
	assert.Equal(t, 1, countOp(fn, code.ENDTRY))
}

func TestEvalCompile(t *testing.T) {
	env := newFakeEnv()
	fn, err := CompileEval("e", "1 + 2", env)
	require.NoError(t, err)
	assert.Equal(t, code.RETURN, fn.Code[len(fn.Code)-1].Op)

	_, err = CompileEval("e", "1; 2", env)
	assert.Error(t, err)
}

func TestShortCircuitCompilation(t *testing.T) {
	env := newFakeEnv()
	fn, err := Compile("t", "a && b;", env)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, countOp(fn, code.BRANCH_IF_FALSE), 2)
	fn, err = Compile("t", "a || b;", env)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, countOp(fn, code.BRANCH_IF), 2)
}
