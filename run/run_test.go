// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package run

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"calq.io/calq/config"
	"calq.io/calq/exec"
)

func newRunner() (*Runner, *strings.Builder) {
	var out strings.Builder
	var conf config.Config
	conf.SetOutput(&out)
	conf.SetErrOutput(&out)
	return New(exec.NewContext(&conf)), &out
}

func TestRunSimple(t *testing.T) {
	r, out := newRunner()
	ok := r.Run("test", strings.NewReader("2 + 2;\n"))
	assert.True(t, ok)
	assert.Equal(t, "4\n", out.String())
}

func TestRunContinuation(t *testing.T) {
	// A definition split across lines compiles once complete.
	r, out := newRunner()
	src := "define twice(x) {\n\treturn 2 * x;\n}\ntwice(21);\n"
	ok := r.Run("test", strings.NewReader(src))
	assert.True(t, ok)
	assert.Equal(t, "42\n", out.String())
}

func TestRunQuit(t *testing.T) {
	r, out := newRunner()
	ok := r.Run("test", strings.NewReader("1;\nquit();\n2;\n"))
	assert.True(t, ok)
	assert.Equal(t, "1\n", out.String())
}

func TestRunErrorStops(t *testing.T) {
	r, out := newRunner()
	ok := r.Run("test", strings.NewReader("1 + );\n2;\n"))
	assert.False(t, ok)
	assert.Contains(t, out.String(), "calq:")
	assert.NotContains(t, out.String(), "2\n")
}

func TestRunContinueOnError(t *testing.T) {
	r, out := newRunner()
	r.ContinueOnError = true
	ok := r.Run("test", strings.NewReader("1 + );\n2;\n"))
	assert.False(t, ok)
	assert.Contains(t, out.String(), "2\n")
}

func TestRunString(t *testing.T) {
	r, out := newRunner()
	err := r.RunString("test", "x = 3; x * x;")
	assert.NoError(t, err)
	assert.Equal(t, "9\n", out.String())
}
