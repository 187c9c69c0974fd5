// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package code defines the bytecode: the opcode set, the instruction
// form, and the compiled function descriptor the VM executes.
package code // import "calq.io/calq/code"

import (
	"fmt"
	"strings"

	"calq.io/calq/value"
)

// Opcode identifies a VM instruction.
type Opcode byte

const (
	// Stack manipulation.
	PUSH_CONST Opcode = iota // A: constant pool index
	PUSH_NULL
	POP
	DUP

	// Variables.
	LOAD_LOCAL   // A: slot
	STORE_LOCAL  // A: slot
	LOAD_GLOBAL  // S: name
	STORE_GLOBAL // S: name
	LOAD_STATIC  // S: name (file-scoped persistent)
	STORE_STATIC // S: name

	// Operators. S names the operator for the dispatch tables.
	OP       // binary: pops two, pushes one
	OP_UNARY // unary: pops one, pushes one

	// Calls.
	CALL         // S: function name, A: arg count
	CALL_BUILTIN // A2: builtin id, A: arg count
	RETURN

	// Control flow. A: absolute target pc.
	BRANCH
	BRANCH_IF       // pops; branches when true
	BRANCH_IF_FALSE // pops; branches when false

	// Containers.
	INDEX       // A: key count; pops keys then container
	SETINDEX    // A: key count; pops value, keys, container; pushes the value
	MAKE_LIST   // A: element count
	MAKE_MATRIX // A: dimension count; A2: bitmask of dims given as lo:hi pairs
	SETELEM     // A: linear offset; pops value, matrix stays on the stack
	APPEND

	// Objects.
	NEW_OBJ  // S: type name
	GETFIELD // S: field name
	SETFIELD // S: field name; pops value and object, pushes the value

	// Errors.
	TRY    // A: handler pc
	ENDTRY
	ISERR
	ERRNO
	NEWERROR // A: arg count (code [, message])
	ERROR    // raises top of stack as a fault

	// Display. A: 1 ends the line, 0 separates with a space.
	PRINT
)

var opNames = [...]string{
	PUSH_CONST:      "PUSH_CONST",
	PUSH_NULL:       "PUSH_NULL",
	POP:             "POP",
	DUP:             "DUP",
	LOAD_LOCAL:      "LOAD_LOCAL",
	STORE_LOCAL:     "STORE_LOCAL",
	LOAD_GLOBAL:     "LOAD_GLOBAL",
	STORE_GLOBAL:    "STORE_GLOBAL",
	LOAD_STATIC:     "LOAD_STATIC",
	STORE_STATIC:    "STORE_STATIC",
	OP:              "OP",
	OP_UNARY:        "OP_UNARY",
	CALL:            "CALL",
	CALL_BUILTIN:    "CALL_BUILTIN",
	RETURN:          "RETURN",
	BRANCH:          "BRANCH",
	BRANCH_IF:       "BRANCH_IF",
	BRANCH_IF_FALSE: "BRANCH_IF_FALSE",
	INDEX:           "INDEX",
	SETINDEX:        "SETINDEX",
	MAKE_LIST:       "MAKE_LIST",
	MAKE_MATRIX:     "MAKE_MATRIX",
	SETELEM:         "SETELEM",
	APPEND:          "APPEND",
	NEW_OBJ:         "NEW_OBJ",
	GETFIELD:        "GETFIELD",
	SETFIELD:        "SETFIELD",
	TRY:             "TRY",
	ENDTRY:          "ENDTRY",
	ISERR:           "ISERR",
	ERRNO:           "ERRNO",
	NEWERROR:        "NEWERROR",
	ERROR:           "ERROR",
	PRINT:           "PRINT",
}

func (op Opcode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("op%d", int(op))
}

// Instr is one instruction. A and A2 are integer operands (constant
// index, argument count, branch target); S is a name operand.
type Instr struct {
	Op Opcode
	A  int
	A2 int
	S  string
}

func (i Instr) String() string {
	var b strings.Builder
	b.WriteString(i.Op.String())
	switch i.Op {
	case LOAD_GLOBAL, STORE_GLOBAL, LOAD_STATIC, STORE_STATIC,
		OP, OP_UNARY, NEW_OBJ, GETFIELD, SETFIELD:
		fmt.Fprintf(&b, " %s", i.S)
	case CALL:
		fmt.Fprintf(&b, " %s/%d", i.S, i.A)
	case CALL_BUILTIN:
		fmt.Fprintf(&b, " #%d/%d", i.A2, i.A)
	case PUSH_CONST, LOAD_LOCAL, STORE_LOCAL, BRANCH, BRANCH_IF,
		BRANCH_IF_FALSE, INDEX, SETINDEX, MAKE_LIST, MAKE_MATRIX,
		SETELEM, TRY, NEWERROR, PRINT:
		fmt.Fprintf(&b, " %d", i.A)
	}
	return b.String()
}

// Function is a compiled function descriptor, immutable after
// compilation.
type Function struct {
	Name       string
	Params     []string
	LocalCount int // params + locals
	Code       []Instr
	Consts     []value.Value
	Source     string // one-line source span for diagnostics
}

// Disasm renders the bytecode for debug tracing.
func (f *Function) Disasm() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s) locals=%d\n", f.Name, strings.Join(f.Params, ", "), f.LocalCount)
	for pc, in := range f.Code {
		fmt.Fprintf(&b, "%4d  %s", pc, in)
		if in.Op == PUSH_CONST && in.A < len(f.Consts) {
			fmt.Fprintf(&b, "    ; %s", f.Consts[in.A].String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// AddConst interns a constant and returns its pool index.
func (f *Function) AddConst(v value.Value) int {
	f.Consts = append(f.Consts, v)
	return len(f.Consts) - 1
}
