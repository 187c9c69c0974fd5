// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"strings"

	"calq.io/calq/config"
)

// ObjectTypeDef is a user-declared record type: an ordered field list
// under a name. Operator overrides are user functions named
// <type>_<op> (point_add, point_eq, point_neg, ...), resolved
// through the Context at dispatch time; there is no inheritance.
// Objects display through Sprint; no print override is called.
type ObjectTypeDef struct {
	Name   string
	Fields []string
}

// FieldIndex returns the position of a field name, or -1.
func (t *ObjectTypeDef) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Object is an instance of a user type.
type Object struct {
	typ    *ObjectTypeDef
	fields []Value
}

// NewObject builds an instance with null fields.
func NewObject(typ *ObjectTypeDef) *Object {
	fields := make([]Value, len(typ.Fields))
	for i := range fields {
		fields[i] = Null{}
	}
	return &Object{typ: typ, fields: fields}
}

func (o *Object) Type() T                { return TObject }
func (o *Object) TypeDef() *ObjectTypeDef { return o.typ }

// Field returns the value of the named field.
func (o *Object) Field(name string) Value {
	i := o.typ.FieldIndex(name)
	if i < 0 {
		Errorf(ErrUndefField, "type %s has no field %q", o.typ.Name, name)
	}
	return o.fields[i]
}

// SetField assigns the named field.
func (o *Object) SetField(name string, v Value) {
	i := o.typ.FieldIndex(name)
	if i < 0 {
		Errorf(ErrUndefField, "type %s has no field %q", o.typ.Name, name)
	}
	o.fields[i] = v
}

// FieldByIndex and SetFieldByIndex address fields positionally for
// the GETFIELD/SETFIELD opcodes.
func (o *Object) FieldByIndex(i int) Value {
	if i < 0 || i >= len(o.fields) {
		Errorf(ErrUndefField, "type %s has no field %d", o.typ.Name, i)
	}
	return o.fields[i]
}

func (o *Object) SetFieldByIndex(i int, v Value) {
	if i < 0 || i >= len(o.fields) {
		Errorf(ErrUndefField, "type %s has no field %d", o.typ.Name, i)
	}
	o.fields[i] = v
}

// Copy returns a deep copy sharing the type definition.
func (o *Object) Copy() *Object {
	c := &Object{typ: o.typ, fields: make([]Value, len(o.fields))}
	for i, f := range o.fields {
		c.fields[i] = Copy(f)
	}
	return c
}

func (o *Object) String() string {
	var b strings.Builder
	b.WriteString("obj " + o.typ.Name + " {")
	for i, f := range o.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(o.typ.Fields[i] + " = " + f.String())
	}
	b.WriteString("}")
	return b.String()
}

func (o *Object) Sprint(conf *config.Config) string {
	var b strings.Builder
	b.WriteString("obj " + o.typ.Name + " {")
	for i, f := range o.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Sprint(conf))
	}
	b.WriteString("}")
	return b.String()
}

// overrideName maps an operator token to the suffix of its override
// function.
var overrideName = map[string]string{
	"+":     "add",
	"-":     "sub",
	"*":     "mul",
	"/":     "div",
	"//":    "quo",
	"%":     "mod",
	"**":    "pow",
	"==":    "eq",
	"<":     "lt",
	"<=":    "le",
	"neg":   "neg",
	"abs":   "abs",
	"print": "print",
}

// objBinary dispatches a binary operator with at least one Object
// operand. Lookup order: the left operand's type, then the right's
// with the arguments swapped.
func objBinary(c Context, u Value, op string, v Value) Value {
	// Comparison derivatives reduce to the base operators.
	switch op {
	case "!=":
		return boolNum(!Truth(objBinary(c, u, "==", v)))
	case ">":
		return objBinary(c, v, "<", u)
	case ">=":
		return objBinary(c, v, "<=", u)
	}
	suffix, ok := overrideName[op]
	if !ok {
		Errorf(ErrNoOperator, "operator %s undefined for object types", op)
	}
	if o, ok := u.(*Object); ok {
		if r, ok := c.UserCall(o.typ.Name+"_"+suffix, []Value{u, v}); ok {
			return r
		}
	}
	// Fall back to the right operand's type with the arguments
	// swapped, so an override always receives its own type first.
	if o, ok := v.(*Object); ok {
		if r, ok := c.UserCall(o.typ.Name+"_"+suffix, []Value{v, u}); ok {
			return r
		}
	}
	name := "?"
	if o, ok := u.(*Object); ok {
		name = o.typ.Name
	} else if o, ok := v.(*Object); ok {
		name = o.typ.Name
	}
	Errorf(ErrNoOperator, "no %s operator for object type %s", op, name)
	panic("unreachable")
}

// objUnary dispatches a unary operator on an Object operand.
func objUnary(c Context, op string, v Value) Value {
	if op == "-" {
		op = "neg" // unary minus, not the binary sub override
	}
	suffix, ok := overrideName[op]
	if !ok {
		Errorf(ErrNoOperator, "operator %s undefined for object types", op)
	}
	o := v.(*Object)
	if r, ok := c.UserCall(o.typ.Name+"_"+suffix, []Value{v}); ok {
		return r
	}
	Errorf(ErrNoOperator, "no %s operator for object type %s", op, o.typ.Name)
	panic("unreachable")
}
