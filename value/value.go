// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value implements the runtime values of the calculator: exact
// rationals, complex numbers, strings, lists, matrices, associative
// arrays, user objects, files, blocks, random states, and first-class
// errors, together with the operator dispatch tables over them.
package value // import "calq.io/calq/value"

import (
	"fmt"

	"calq.io/calq/config"
)

// T is the type tag of a runtime value.
type T int

const (
	TNull T = iota
	TNumber
	TComplex
	TString
	TList
	TMatrix
	TAssoc
	TObject
	TFile
	TBlock
	TRand
	TError

	numT = int(TError) + 1
)

var typeNames = []string{
	"null", "number", "complex", "string", "list", "matrix",
	"assoc", "object", "file", "block", "randstate", "error",
}

func (t T) String() string {
	if 0 <= int(t) && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "invalid"
}

// Value is a runtime value. String is the debug form; Sprint is the
// user-visible form under the given configuration.
type Value interface {
	String() string
	Sprint(conf *config.Config) string
	Type() T
}

// Context is the evaluation context a dispatch operation may consult.
// It is implemented by exec.Context; declaring it here avoids the
// package cycle.
type Context interface {
	Config() *config.Config

	// UserCall invokes a user-defined function by name, if one is
	// defined. The second result reports whether it was.
	UserCall(name string, args []Value) (Value, bool)
}

// Fault is a raised runtime error, distinct from the Error value kind:
// a Fault unwinds (as a Go panic) until the VM or REPL intercepts it,
// while an Error flows through expressions as data.
type Fault struct {
	Code int
	Msg  string
}

func (f Fault) Error() string {
	return f.Msg
}

// Errorf panics with a Fault carrying the code and formatted message.
func Errorf(code int, format string, args ...interface{}) Fault {
	panic(Fault{Code: code, Msg: fmt.Sprintf(format, args...)})
}

// Null is the absence of a value.
type Null struct{}

func (Null) String() string                     { return "null" }
func (Null) Sprint(conf *config.Config) string  { return "" }
func (Null) Type() T                            { return TNull }

// IsNull reports whether v is the null value (or a nil interface).
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Truth converts a value to a condition: zero, the empty string, null,
// and errors are false.
func Truth(v Value) bool {
	switch v := v.(type) {
	case nil, Null:
		return false
	case Number:
		return v.Sign() != 0
	case Complex:
		return true // nonzero by the demotion invariant
	case String:
		return len(v) > 0
	case Error:
		return false
	}
	return true
}

// Copy returns a value independent of v: containers are cloned deeply,
// atoms are immutable and returned as is. Assignment and container
// insertion go through Copy to give the language value semantics.
func Copy(v Value) Value {
	switch v := v.(type) {
	case *List:
		return v.Copy()
	case *Matrix:
		return v.Copy()
	case *Assoc:
		return v.Copy()
	case *Object:
		return v.Copy()
	case *Block:
		return v.Copy()
	}
	return v
}
