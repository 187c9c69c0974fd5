// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOps(t *testing.T) {
	c := &testContext{}
	l := NewList(num("1"), num("2"), num("3"))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "2", l.Index(1).(Number).String())

	l.Prepend(num("0"))
	l.Append(num("4"))
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, "0", l.Index(0).(Number).String())
	assert.Equal(t, "4", l.Index(4).(Number).String())

	// Sequential scans use the index cache; spot-check correctness.
	for i := 0; i < l.Len(); i++ {
		assert.Equal(t, int64(i), l.Index(i).(Number).Int64("test"))
	}

	v := l.PopHead()
	assert.Equal(t, "0", v.(Number).String())
	v = l.PopTail()
	assert.Equal(t, "4", v.(Number).String())

	l.Insert(1, num("99"))
	assert.Equal(t, "99", l.Index(1).(Number).String())
	l.Delete(1)
	assert.Equal(t, "2", l.Index(1).(Number).String())

	assert.Equal(t, 1, l.Search(c, num("2")))
	assert.Equal(t, -1, l.Search(c, num("42")))

	l.Reverse()
	assert.Equal(t, "3", l.Index(0).(Number).String())

	f := catchFault(func() { l.Index(17) })
	require.NotNil(t, f)
	assert.Equal(t, ErrBounds, f.Code)
}

func TestListValueSemantics(t *testing.T) {
	l := NewList(num("1"))
	w := Copy(l).(*List)
	w.SetIndex(0, num("42"))
	assert.Equal(t, "1", l.Index(0).(Number).String())
	assert.Equal(t, "42", w.Index(0).(Number).String())
}

func TestAssoc(t *testing.T) {
	c := &testContext{}
	a := NewAssoc()
	a.Set(c, []Value{String("pi")}, num("355/113"))
	a.Set(c, []Value{num("1"), num("2")}, String("pair"))

	v, ok := a.Get(c, []Value{String("pi")})
	require.True(t, ok)
	assert.Equal(t, "355/113", v.(Number).String())

	v, ok = a.Get(c, []Value{num("1"), num("2")})
	require.True(t, ok)
	assert.Equal(t, String("pair"), v)

	_, ok = a.Get(c, []Value{num("2"), num("1")})
	assert.False(t, ok)

	// Replacement keeps the count.
	a.Set(c, []Value{String("pi")}, num("3"))
	assert.Equal(t, 2, a.Len())

	assert.True(t, a.Delete(c, []Value{String("pi")}))
	assert.False(t, a.Delete(c, []Value{String("pi")}))
	assert.Equal(t, 1, a.Len())

	// Growth past the initial table size.
	for i := int64(0); i < 100; i++ {
		a.Set(c, []Value{NewInt(i)}, NewInt(i * i))
	}
	assert.Equal(t, 101, a.Len())
	v, ok = a.Get(c, []Value{NewInt(77)})
	require.True(t, ok)
	assert.Equal(t, "5929", v.(Number).String())

	// Iteration is insertion-ordered.
	b := NewAssoc()
	b.Set(c, []Value{String("x")}, num("1"))
	b.Set(c, []Value{String("y")}, num("2"))
	b.Set(c, []Value{String("z")}, num("3"))
	var order []string
	b.Do(func(key []Value, val Value) {
		order = append(order, string(key[0].(String)))
	})
	assert.Equal(t, []string{"x", "y", "z"}, order)
}

func TestMatrixIndexBounds(t *testing.T) {
	// Bounds need not start at zero and are not normalized.
	m := NewMatrix([]int{1, 1}, []int{3, 3})
	m.SetIndex([]int{2, 3}, num("42"))
	assert.Equal(t, "42", m.Index([]int{2, 3}).(Number).String())

	f := catchFault(func() { m.Index([]int{0, 1}) })
	require.NotNil(t, f)
	assert.Equal(t, ErrBounds, f.Code)

	f = catchFault(func() { m.Index([]int{1}) })
	require.NotNil(t, f)
	assert.Equal(t, ErrDimMismatch, f.Code)
}

func fillMatrix(m *Matrix, vals []string) {
	for i, s := range vals {
		m.SetElem(i, num(s))
	}
}

func TestMatrixInverse(t *testing.T) {
	c := &testContext{}
	m := NewMatrix([]int{0, 0}, []int{2, 2})
	fillMatrix(m, []string{"1", "2", "3", "4", "5", "6", "7", "8", "10"})

	det := m.Det(c)
	assert.Equal(t, "-3", det.(Number).String())

	inv := m.Inverse(c)
	prod := matMul(c, inv, m).(*Matrix)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := "0"
			if i == j {
				want = "1"
			}
			assert.Equal(t, want, prod.Index([]int{i, j}).(Number).String(),
				"identity[%d,%d]", i, j)
		}
	}

	sing := NewMatrix([]int{0, 0}, []int{1, 1})
	fillMatrix(sing, []string{"1", "2", "2", "4"})
	assert.Equal(t, "0", sing.Det(c).(Number).String())
	f := catchFault(func() { sing.Inverse(c) })
	require.NotNil(t, f)
	assert.Equal(t, ErrDivByZero, f.Code)
}

func TestMatrixArith(t *testing.T) {
	c := &testContext{}
	a := NewMatrix([]int{0, 0}, []int{1, 1})
	fillMatrix(a, []string{"1", "2", "3", "4"})
	b := NewMatrix([]int{0, 0}, []int{1, 1})
	fillMatrix(b, []string{"5", "6", "7", "8"})

	sum := Binary(c, a, "+", b).(*Matrix)
	assert.Equal(t, "8", sum.Index([]int{1, 0}).(Number).String())

	prod := Binary(c, a, "*", b).(*Matrix)
	assert.Equal(t, "19", prod.Index([]int{0, 0}).(Number).String())
	assert.Equal(t, "50", prod.Index([]int{1, 1}).(Number).String())

	scaled := Binary(c, num("2"), "*", a).(*Matrix)
	assert.Equal(t, "6", scaled.Index([]int{1, 0}).(Number).String())

	tr := a.Transpose()
	assert.Equal(t, "3", tr.Index([]int{0, 1}).(Number).String())

	mismatch := NewMatrix([]int{0, 0}, []int{2, 0})
	f := catchFault(func() { Binary(c, a, "+", mismatch) })
	require.NotNil(t, f)
	assert.Equal(t, ErrDimMismatch, f.Code)
}

func TestObjectDispatch(t *testing.T) {
	typ := &ObjectTypeDef{Name: "point", Fields: []string{"x", "y"}}
	o := NewObject(typ)
	o.SetField("x", num("3"))
	o.SetField("y", num("4"))
	assert.Equal(t, "3", o.Field("x").(Number).String())

	f := catchFault(func() { o.Field("z") })
	require.NotNil(t, f)
	assert.Equal(t, ErrUndefField, f.Code)

	// Without an override, + is a NoOperator fault of the type kind.
	c := &testContext{}
	f = catchFault(func() { Binary(c, o, "+", o) })
	require.NotNil(t, f)
	assert.Equal(t, ErrNoOperator, f.Code)
}

func TestEqualValues(t *testing.T) {
	c := &testContext{}
	assert.True(t, Truth(Binary(c, NewList(num("1"), num("2")), "==", NewList(num("1"), num("2")))))
	assert.False(t, Truth(Binary(c, NewList(num("1")), "==", NewList(num("2")))))
	assert.True(t, Truth(Binary(c, String("abc"), "==", String("abc"))))
	assert.False(t, Truth(Binary(c, String("abc"), "==", num("1"))))
}
