// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math/big"

// Hashing for assoc keys. Hashes combine the type tag with a
// tag-specific hash and are deterministic within a process; no
// stability across runs is promised.

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

func mix(h, x uint64) uint64 {
	h ^= x
	h *= fnvPrime
	return h
}

func hashBig(h uint64, i *big.Int) uint64 {
	if i.Sign() < 0 {
		h = mix(h, 0x5a5a)
	}
	for _, w := range i.Bits() {
		h = mix(h, uint64(w))
	}
	return h
}

func hashBytes(h uint64, b []byte) uint64 {
	for _, c := range b {
		h = mix(h, uint64(c))
	}
	return h
}

// hashValue returns the hash of a single value.
func hashValue(v Value) uint64 {
	h := mix(fnvOffset, uint64(v.Type()))
	switch v := v.(type) {
	case Null:
		// Tag alone suffices.
	case Number:
		h = hashBig(h, v.x.Num())
		h = hashBig(h, v.x.Denom())
	case Complex:
		h = hashBig(h, v.re.x.Num())
		h = hashBig(h, v.re.x.Denom())
		h = hashBig(h, v.im.x.Num())
		h = hashBig(h, v.im.x.Denom())
	case String:
		h = hashBytes(h, []byte(v))
	case *List:
		v.Do(func(_ int, e Value) {
			h = mix(h, hashValue(e))
		})
	case *Matrix:
		for d := range v.lo {
			h = mix(h, uint64(v.lo[d]))
			h = mix(h, uint64(v.hi[d]))
		}
		for _, e := range v.data {
			h = mix(h, hashValue(e))
		}
	case *Object:
		h = hashBytes(h, []byte(v.typ.Name))
		for _, f := range v.fields {
			h = mix(h, hashValue(f))
		}
	case *Block:
		h = hashBytes(h, v.data)
	case Error:
		h = mix(h, uint64(v.Code))
	default:
		Errorf(ErrTypeMismatch, "%s values cannot be assoc keys", v.Type())
	}
	return h
}

// hashKey hashes a key tuple.
func hashKey(key []Value) uint64 {
	h := mix(fnvOffset, uint64(len(key)))
	for _, v := range key {
		h = mix(h, hashValue(v))
	}
	return h
}

// equalValues is deep structural equality, used for assoc keys and
// the == operator's container cases.
func equalValues(c Context, u, v Value) bool {
	if u.Type() != v.Type() {
		// Numbers and complexes never compare equal across tags:
		// a purely real complex is stored as a Number.
		return false
	}
	switch u := u.(type) {
	case Null:
		return true
	case Number:
		return cmpNum(u, v.(Number)) == 0
	case Complex:
		return eqCpx(u, v.(Complex))
	case String:
		return u == v.(String)
	case *List:
		w := v.(*List)
		if u.Len() != w.Len() {
			return false
		}
		eq := true
		un, wn := u.head, w.head
		for un != nil {
			if !equalValues(c, un.v, wn.v) {
				eq = false
				break
			}
			un, wn = un.next, wn.next
		}
		return eq
	case *Matrix:
		w := v.(*Matrix)
		if !u.sameShape(w) {
			return false
		}
		for i := range u.data {
			if !equalValues(c, u.data[i], w.data[i]) {
				return false
			}
		}
		return true
	case *Assoc:
		w := v.(*Assoc)
		if u.Len() != w.Len() {
			return false
		}
		eq := true
		u.Do(func(key []Value, val Value) {
			if !eq {
				return
			}
			other, ok := w.Get(c, key)
			if !ok || !equalValues(c, val, other) {
				eq = false
			}
		})
		return eq
	case *Object:
		w := v.(*Object)
		if u.typ != w.typ {
			return false
		}
		for i := range u.fields {
			if !equalValues(c, u.fields[i], w.fields[i]) {
				return false
			}
		}
		return true
	case *Block:
		w := v.(*Block)
		if len(u.data) != len(w.data) {
			return false
		}
		for i := range u.data {
			if u.data[i] != w.data[i] {
				return false
			}
		}
		return true
	case *File:
		return u == v.(*File)
	case *Randstate:
		return u == v.(*Randstate)
	case Error:
		return u.Code == v.(Error).Code
	}
	return false
}
