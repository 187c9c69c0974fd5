// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(input string) []Token {
	s := New("test", input)
	var toks []Token
	for {
		t := s.Next()
		toks = append(toks, t)
		if t.Type == EOF || t.Type == Error {
			return toks
		}
	}
}

func kinds(toks []Token) []Type {
	ts := make([]Type, len(toks))
	for i, t := range toks {
		ts[i] = t.Type
	}
	return ts
}

func TestOperators(t *testing.T) {
	toks := collect("a ** b // c << 1 <= 2 != 3 && x++ -= 5")
	want := []struct {
		typ  Type
		text string
	}{
		{Identifier, "a"}, {Operator, "**"}, {Identifier, "b"},
		{Operator, "//"}, {Identifier, "c"}, {Operator, "<<"},
		{Number, "1"}, {Operator, "<="}, {Number, "2"},
		{Operator, "!="}, {Number, "3"}, {Operator, "&&"},
		{Identifier, "x"}, {Operator, "++"}, {Assign, "-="},
		{Number, "5"}, {EOF, ""},
	}
	assert.Equal(t, len(want), len(toks))
	for i, w := range want {
		assert.Equal(t, w.typ, toks[i].Type, "token %d", i)
		assert.Equal(t, w.text, toks[i].Text, "token %d", i)
	}
}

func TestComments(t *testing.T) {
	// The surface language's // is integer division, not a comment.
	toks := collect("6 // 4 /* block */ # line\n 5")
	assert.Equal(t, []Type{Number, Operator, Number, Number, EOF}, kinds(toks))
	assert.Equal(t, "//", toks[1].Text)

	toks = collect("/* unterminated")
	assert.Equal(t, Error, toks[len(toks)-1].Type)
}

func TestNumbers(t *testing.T) {
	toks := collect("0x1f 0b101 0o17 3.25 1e10 2.5e-3 .5 42")
	texts := []string{"0x1f", "0b101", "0o17", "3.25", "1e10", "2.5e-3", ".5", "42"}
	for i, want := range texts {
		assert.Equal(t, Number, toks[i].Type, "token %d", i)
		assert.Equal(t, want, toks[i].Text, "token %d", i)
	}
}

func TestImaginary(t *testing.T) {
	toks := collect("3i 2.5i x")
	assert.Equal(t, Imaginary, toks[0].Type)
	assert.Equal(t, "3", toks[0].Text)
	assert.Equal(t, Imaginary, toks[1].Type)
	assert.Equal(t, "2.5", toks[1].Text)
	assert.Equal(t, Identifier, toks[2].Type)
}

func TestStrings(t *testing.T) {
	toks := collect(`"hello\n" "a\x41b" "nul\0safe"`)
	assert.Equal(t, "hello\n", toks[0].Text)
	assert.Equal(t, "aAb", toks[1].Text)
	assert.Equal(t, "nul\x00safe", toks[2].Text)

	toks = collect(`"unterminated`)
	assert.Equal(t, Error, toks[len(toks)-1].Type)
}

func TestPunctuation(t *testing.T) {
	toks := collect("f(a, b)[1] { x.y; }")
	assert.Equal(t, []Type{
		Identifier, LeftParen, Identifier, Comma, Identifier, RightParen,
		LeftBrack, Number, RightBrack, LeftBrace, Identifier, Dot,
		Identifier, Semicolon, RightBrace, EOF,
	}, kinds(toks))
}

func TestLineNumbers(t *testing.T) {
	s := New("test", "a\nb\nc")
	assert.Equal(t, 1, s.Next().Line)
	assert.Equal(t, 2, s.Next().Line)
	assert.Equal(t, 3, s.Next().Line)
}
