// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calq.io/calq/config"
	"calq.io/calq/parse"
	"calq.io/calq/value"
)

// newTestContext returns a context whose output is captured.
func newTestContext() (*Context, *strings.Builder) {
	var out strings.Builder
	var conf config.Config
	conf.SetOutput(&out)
	conf.SetErrOutput(&out)
	return NewContext(&conf), &out
}

// runSource compiles and executes src in ctx, returning the error of
// the run; output accumulates in out.
func runSource(t *testing.T, ctx *Context, out *strings.Builder, src string) error {
	t.Helper()
	fn, err := parse.Compile("test", src, ctx)
	require.NoError(t, err, "compile %q", src)
	return ctx.Run(fn)
}

// evalOutput runs src in a fresh context and returns its output.
func evalOutput(t *testing.T, src string) string {
	t.Helper()
	ctx, out := newTestContext()
	err := runSource(t, ctx, out, src)
	require.NoError(t, err, "run %q", src)
	return out.String()
}

func TestArithmeticStatements(t *testing.T) {
	assert.Equal(t, "5\n", evalOutput(t, "2 + 3;"))
	assert.Equal(t, "1024\n", evalOutput(t, "2 ** 10;"))
	assert.Equal(t, "2\n", evalOutput(t, "7 // 3;"))
	assert.Equal(t, "1\n", evalOutput(t, "7 % 3;"))
	assert.Equal(t, "~.33333333333333333333\n", evalOutput(t, "1 / 3;"))
	assert.Equal(t, "1/3\n", evalOutput(t, `old = config("mode", "frac"); 1/3;`+"\n"))
}

func TestVariablesAndAssignment(t *testing.T) {
	got := evalOutput(t, "a = 6; b = 7; a * b;")
	assert.Equal(t, "42\n", got)
	// Assignments are silent; chained assignment works.
	got = evalOutput(t, "a = b = 5; a + b;")
	assert.Equal(t, "10\n", got)
	// Compound assignment and increments.
	got = evalOutput(t, "a = 10; a += 5; a++; ++a; a;")
	assert.Equal(t, "17\n", got)
	// Unset variables read as null, which prints nothing.
	got = evalOutput(t, "nothing;")
	assert.Equal(t, "", got)
}

func TestControlFlow(t *testing.T) {
	got := evalOutput(t, `
		s = 0;
		for (i = 1; i <= 10; i++) s += i;
		s;`)
	assert.Equal(t, "55\n", got)

	got = evalOutput(t, `
		n = 0; i = 0;
		while (1) {
			i++;
			if (i % 2 == 0) continue;
			if (i > 10) break;
			n += i;
		}
		n;`)
	assert.Equal(t, "25\n", got)

	got = evalOutput(t, `
		i = 3; s = "";
		do { s = strcat(s, "x"); i--; } while (i > 0);
		s;`)
	assert.Equal(t, "xxx\n", got)

	got = evalOutput(t, `
		x = 2;
		switch (x) {
		case 1: "one";
			break;
		case 2: "two";
			break;
		default: "many";
		}`)
	assert.Equal(t, "two\n", got)

	// Fallthrough and default.
	got = evalOutput(t, `
		x = 9;
		switch (x) {
		case 1: "one";
		default: "many";
		}`)
	assert.Equal(t, "many\n", got)

	got = evalOutput(t, `
		i = 0;
	loop:
		i++;
		if (i < 3)
			goto loop;
		i;`)
	assert.Equal(t, "3\n", got)
}

func TestFunctions(t *testing.T) {
	got := evalOutput(t, `
		define fact(n) {
			if (n <= 1) return 1;
			return n * fact(n - 1);
		}
		fact(20);`)
	assert.Equal(t, "2432902008176640000\n", got)

	// Locals do not leak; undeclared names in functions are global.
	got = evalOutput(t, `
		define f() { local t; t = 99; g = 7; return t; }
		f();
		t;
		g;`)
	assert.Equal(t, "99\n7\n", got)

	// Missing arguments default to null.
	got = evalOutput(t, `
		define h(a, b) { if (isnull(b)) return "none"; return b; }
		h(1);
		h(1, 2);`)
	assert.Equal(t, "none\n2\n", got)

	// Statics persist across calls.
	got = evalOutput(t, `
		define counter() { static n; if (isnull(n)) n = 0; n++; return n; }
		counter(); counter(); counter();`)
	assert.Equal(t, "1\n2\n3\n", got)
}

func TestObjects(t *testing.T) {
	got := evalOutput(t, `
		obj point { x, y };
		define point_add(a, b) {
			local p;
			obj point p;
			p.x = a.x + b.x;
			p.y = a.y + b.y;
			return p;
		}
		A = obj point; A.x = 1; A.y = 2;
		B = obj point; B.x = 10; B.y = 20;
		C = A + B;
		C.x; C.y;`)
	assert.Equal(t, "11\n22\n", got)
}

func TestObjectRightOperandOverride(t *testing.T) {
	// Only the right operand's type owns the override; dispatch
	// swaps the arguments so the override sees its own type first.
	got := evalOutput(t, `
		obj vec { x };
		define vec_sub(a, b) {
			local r;
			obj vec r;
			r.x = a.x - b;
			return r;
		}
		V = obj vec; V.x = 10;
		L = V - 2;
		L.x;
		R = 3 - V;
		R.x;`)
	assert.Equal(t, "8\n7\n", got)
}

func TestObjectNoOperator(t *testing.T) {
	ctx, out := newTestContext()
	err := runSource(t, ctx, out, `
		obj pair { a, b };
		P = obj pair;
		Q = obj pair;
		R = P + Q;`)
	// Without stoponerror the fault becomes an error value.
	require.NoError(t, err)
	assert.NoError(t, runSource(t, ctx, out, "errno(R); iserror(R);"))
	assert.Contains(t, out.String(), "10012")
	assert.Contains(t, out.String(), "1\n")
}

func TestMatrixScenario(t *testing.T) {
	got := evalOutput(t, `
		mat M[3,3] = {{1,2,3},{4,5,6},{7,8,10}};
		det(M);
		I = inverse(M) * M;
		I[0,0]; I[1,1]; I[2,2]; I[0,1];`)
	assert.Equal(t, "-3\n1\n1\n1\n0\n", got)
}

func TestMatrixBounds(t *testing.T) {
	got := evalOutput(t, `
		mat M[1:3, 1:3];
		M[1,1] = 5;
		M[1,1];
		matmin(M, 0); matmax(M, 1);`)
	assert.Equal(t, "5\n1\n3\n", got)

	// Out-of-bounds index is an error value by default.
	got = evalOutput(t, `
		mat M[2,2];
		e = M[5,5];
		errno(e);`)
	assert.Equal(t, "10022\n", got)
}

func TestErrorsAsValues(t *testing.T) {
	// 1/0 pushes an error that propagates through arithmetic.
	got := evalOutput(t, "e = 1/0; iserror(e); errno(e); iserror(e + 5);")
	assert.Equal(t, "1\n10001\n1\n", got)
}

func TestStopOnError(t *testing.T) {
	ctx, out := newTestContext()
	require.NoError(t, runSource(t, ctx, out, `old = config("stoponerror", 1);`))
	err := runSource(t, ctx, out, "1/0;")
	require.Error(t, err)
	f, ok := err.(value.Fault)
	require.True(t, ok)
	assert.Equal(t, value.ErrDivByZero, f.Code)
	// The counter is consumed: the next error flows as a value again.
	require.NoError(t, runSource(t, ctx, out, "iserror(1/0);"))
	assert.Contains(t, out.String(), "1\n")
}

func TestTryCatch(t *testing.T) {
	got := evalOutput(t, `
		try {
			x = 1/0 + throw(error(10001));
			"not reached";
		} catch e {
			errno(e);
		}`)
	assert.Equal(t, "10001\n", got)

	// No fault: the try body runs to completion.
	got = evalOutput(t, `
		try { 42; } catch e { "caught"; }`)
	assert.Equal(t, "42\n", got)
}

func TestQuoModIdentityConfigured(t *testing.T) {
	// quomod satisfies the exact identity under every rounding mode.
	for mode := 0; mode < config.NumRoundModes; mode++ {
		ctx, out := newTestContext()
		src := `
			old = config("quomod", ` + itoa(mode) + `);
			q = quomod(-22, 7);
			q[0] * 7 + q[1] == -22;`
		require.NoError(t, runSource(t, ctx, out, src))
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		assert.Equal(t, "1", lines[len(lines)-1], "mode %d", mode)
	}
}

func itoa(n int) string {
	return string(rune('0' + n))
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, "12\n", evalOutput(t, "gcd(24, 36);"))
	assert.Equal(t, "101\n", evalOutput(t, "nextcand(100, 5);"))
	assert.Equal(t, "0\n", evalOutput(t, "ptest(561, 5);"))
	assert.Equal(t, "1\n", evalOutput(t, "ptest(193707721, 10);"))
	assert.Equal(t, "11\n", evalOutput(t, "isqrt(127);"))
	assert.Equal(t, "5\n", evalOutput(t, "size(list(1,2,3,4,5));"))
	assert.Equal(t, "3\n", evalOutput(t, "l = {1,2,3}; tail(l);"))
	assert.Equal(t, "HELLO\n", evalOutput(t, `strtoupper("hello");`))
	assert.Equal(t, "x=42!\n", evalOutput(t, `strprintf("x=%d!", 42);`))
	assert.Equal(t, "number\n", evalOutput(t, "typeof(1);"))
	assert.Equal(t, "complex\n", evalOutput(t, "typeof(2i);"))
	assert.Equal(t, "3\n4\n", evalOutput(t, "z = 3 + 4i; re(z); im(z);"))
	assert.Equal(t, "25\n", evalOutput(t, "z = 3 + 4i; z * conj(z);"))
}

func TestEvalBuiltin(t *testing.T) {
	assert.Equal(t, "7\n", evalOutput(t, `eval("3 + 4");`))
	got := evalOutput(t, `x = 5; eval("x * x");`)
	assert.Equal(t, "25\n", got)
}

func TestAssocEndToEnd(t *testing.T) {
	got := evalOutput(t, `
		a = assoc();
		a["one"] = 1;
		a[2, 3] = "pair";
		a["one"]; a[2, 3]; size(a);
		ok = delete(a, "one");
		size(a);`)
	assert.Equal(t, "1\npair\n2\n1\n", got)
}

func TestValueSemantics(t *testing.T) {
	// Assignment copies containers: mutations through w do not
	// affect v.
	got := evalOutput(t, `
		v = {1, 2, 3};
		w = v;
		w[0] = 99;
		v[0]; w[0];`)
	assert.Equal(t, "1\n99\n", got)
}

func TestInterrupt(t *testing.T) {
	ctx, out := newTestContext()
	ctx.Interrupt()
	err := runSource(t, ctx, out, "i = 0; while (1) i++;")
	require.Error(t, err)
	f, ok := err.(value.Fault)
	require.True(t, ok)
	assert.Equal(t, value.ErrUserAbort, f.Code)
}

func TestRandDeterminism(t *testing.T) {
	a := evalOutput(t, "srand(42); rand(1000000); rand(1000000);")
	b := evalOutput(t, "srand(42); rand(1000000); rand(1000000);")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, evalOutput(t, "srand(43); rand(1000000); rand(1000000);"))
}

func TestTranscendentalBuiltins(t *testing.T) {
	got := evalOutput(t, `old = config("display", 19); cos(1, 1e-20);`)
	assert.Equal(t, "~.5403023058681397174\n", got)
	got = evalOutput(t, `sqrt(4);`)
	assert.Equal(t, "2\n", got)
	got = evalOutput(t, `old = config("display", 10); pi();`)
	assert.Equal(t, "~3.1415926536\n", got)
}

func TestSizeOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	got := evalOutput(t, `f = fopen("`+path+`", "r"); size(f); fclose(f);`)
	assert.Equal(t, "5\n", got)
}

func TestPrintStatement(t *testing.T) {
	got := evalOutput(t, `print 1, 2, "three";`)
	assert.Equal(t, "1 2 three\n", got)
}
