// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Container protocol: indexing, sizing, append, delete. The VM's
// INDEX and SETINDEX opcodes land here with the key tuple already
// collected.

func intKey(v Value, what string) int {
	n, ok := v.(Number)
	if !ok {
		Errorf(ErrTypeMismatch, "%s: index must be a number, not %s", what, v.Type())
	}
	return int(n.Int64(what))
}

// Index reads container[key...].
func Index(c Context, container Value, key []Value) Value {
	switch v := container.(type) {
	case Error:
		return v
	case *List:
		if len(key) != 1 {
			Errorf(ErrDimMismatch, "list takes one index")
		}
		return v.Index(intKey(key[0], "list index"))
	case *Matrix:
		index := make([]int, len(key))
		for i, k := range key {
			index[i] = intKey(k, "matrix index")
		}
		return v.Index(index)
	case *Assoc:
		if r, ok := v.Get(c, key); ok {
			return r
		}
		return Null{}
	case String:
		if len(key) != 1 {
			Errorf(ErrDimMismatch, "string takes one index")
		}
		return indexString(v, intKey(key[0], "string index"))
	case *Block:
		if len(key) != 1 {
			Errorf(ErrDimMismatch, "block takes one index")
		}
		return NewInt(int64(v.Byte(intKey(key[0], "block index"))))
	}
	Errorf(ErrTypeMismatch, "cannot index %s", container.Type())
	panic("unreachable")
}

// SetIndex writes container[key...] = val and returns val.
func SetIndex(c Context, container Value, key []Value, val Value) Value {
	switch v := container.(type) {
	case Error:
		return v
	case *List:
		if len(key) != 1 {
			Errorf(ErrDimMismatch, "list takes one index")
		}
		v.SetIndex(intKey(key[0], "list index"), Copy(val))
	case *Matrix:
		index := make([]int, len(key))
		for i, k := range key {
			index[i] = intKey(k, "matrix index")
		}
		v.SetIndex(index, Copy(val))
	case *Assoc:
		v.Set(c, key, val)
	case *Block:
		if len(key) != 1 {
			Errorf(ErrDimMismatch, "block takes one index")
		}
		n, ok := val.(Number)
		if !ok {
			Errorf(ErrTypeMismatch, "block element must be a number")
		}
		b := n.Int64("block element")
		v.SetByte(intKey(key[0], "block index"), byte(b))
	default:
		Errorf(ErrTypeMismatch, "cannot index-assign %s", container.Type())
	}
	return val
}

// Size returns the element count of a value; atoms have size 1,
// strings and blocks their byte length, files their length in bytes.
func Size(v Value) int {
	switch v := v.(type) {
	case Null:
		return 0
	case String:
		return len(v)
	case *List:
		return v.Len()
	case *Matrix:
		return v.Size()
	case *Assoc:
		return v.Len()
	case *Object:
		return len(v.fields)
	case *Block:
		return v.Len()
	case *File:
		return int(v.SizeBytes())
	}
	return 1
}

// Append adds an element at the tail of a list.
func Append(container, v Value) {
	l, ok := container.(*List)
	if !ok {
		Errorf(ErrTypeMismatch, "append: not a list")
	}
	l.Append(Copy(v))
}

// Delete removes a key from an assoc or an index from a list.
func Delete(c Context, container Value, key []Value) Value {
	switch v := container.(type) {
	case *List:
		if len(key) != 1 {
			Errorf(ErrDimMismatch, "list takes one index")
		}
		return v.Delete(intKey(key[0], "list index"))
	case *Assoc:
		return boolNum(v.Delete(c, key))
	}
	Errorf(ErrTypeMismatch, "delete: cannot delete from %s", container.Type())
	panic("unreachable")
}
