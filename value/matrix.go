// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"strings"

	"calq.io/calq/config"
)

// Matrix is a dense array of one to four dimensions with caller-chosen
// inclusive bounds; the lower bound need not be zero and is never
// normalized away. Data is stored row-major.
type Matrix struct {
	lo, hi []int // len 1..4, hi[i] >= lo[i]-1 (empty dimension allowed)
	data   []Value
}

const maxMatrixDim = 4

// NewMatrix allocates a matrix with the given bounds, elements zero.
func NewMatrix(lo, hi []int) *Matrix {
	if len(lo) == 0 || len(lo) > maxMatrixDim || len(lo) != len(hi) {
		Errorf(ErrDimMismatch, "matrix must have 1 to %d dimensions", maxMatrixDim)
	}
	size := 1
	for i := range lo {
		n := hi[i] - lo[i] + 1
		if n < 0 {
			Errorf(ErrInvalidArg, "matrix bounds [%d:%d] reversed", lo[i], hi[i])
		}
		size *= n
	}
	m := &Matrix{
		lo:   append([]int(nil), lo...),
		hi:   append([]int(nil), hi...),
		data: make([]Value, size),
	}
	for i := range m.data {
		m.data[i] = zeroNum
	}
	return m
}

func (m *Matrix) Type() T { return TMatrix }

// NDim returns the number of dimensions.
func (m *Matrix) NDim() int { return len(m.lo) }

// Bounds returns the inclusive bounds of dimension d.
func (m *Matrix) Bounds(d int) (lo, hi int) { return m.lo[d], m.hi[d] }

// Size returns the total element count.
func (m *Matrix) Size() int { return len(m.data) }

// dim returns the extent of dimension d.
func (m *Matrix) dim(d int) int { return m.hi[d] - m.lo[d] + 1 }

// offset converts an index tuple to the linear offset, bounds-checked.
func (m *Matrix) offset(index []int) int {
	if len(index) != len(m.lo) {
		Errorf(ErrDimMismatch, "matrix has %d dimensions, %d indexes given", len(m.lo), len(index))
	}
	off := 0
	for d, i := range index {
		if i < m.lo[d] || i > m.hi[d] {
			Errorf(ErrBounds, "index %d out of bounds [%d:%d]", i, m.lo[d], m.hi[d])
		}
		off = off*m.dim(d) + (i - m.lo[d])
	}
	return off
}

// Index returns the element at the index tuple.
func (m *Matrix) Index(index []int) Value {
	return m.data[m.offset(index)]
}

// SetIndex replaces the element at the index tuple.
func (m *Matrix) SetIndex(index []int, v Value) {
	m.data[m.offset(index)] = v
}

// Elem and SetElem address elements by linear offset, used by
// double-bracket indexing and iteration.
func (m *Matrix) Elem(i int) Value {
	if i < 0 || i >= len(m.data) {
		Errorf(ErrBounds, "matrix offset %d out of range [0, %d)", i, len(m.data))
	}
	return m.data[i]
}

func (m *Matrix) SetElem(i int, v Value) {
	if i < 0 || i >= len(m.data) {
		Errorf(ErrBounds, "matrix offset %d out of range [0, %d)", i, len(m.data))
	}
	m.data[i] = v
}

// Copy returns a deep copy.
func (m *Matrix) Copy() *Matrix {
	c := &Matrix{
		lo:   append([]int(nil), m.lo...),
		hi:   append([]int(nil), m.hi...),
		data: make([]Value, len(m.data)),
	}
	for i, v := range m.data {
		c.data[i] = Copy(v)
	}
	return c
}

// sameShape reports whether two matrices have identical extents.
// Bounds may differ; the result takes the receiver's bounds.
func (m *Matrix) sameShape(n *Matrix) bool {
	if len(m.lo) != len(n.lo) {
		return false
	}
	for d := range m.lo {
		if m.dim(d) != n.dim(d) {
			return false
		}
	}
	return true
}

// matrixElementwise applies op to corresponding elements.
func matrixElementwise(c Context, u *Matrix, op string, v *Matrix) Value {
	if !u.sameShape(v) {
		Errorf(ErrDimMismatch, "%s: matrix shapes differ", op)
	}
	r := u.Copy()
	for i := range r.data {
		r.data[i] = Binary(c, u.data[i], op, v.data[i])
	}
	return r
}

// matrixScalar applies op between each element and a scalar.
func matrixScalar(c Context, u *Matrix, op string, v Value, scalarLeft bool) Value {
	r := u.Copy()
	for i := range r.data {
		if scalarLeft {
			r.data[i] = Binary(c, v, op, u.data[i])
		} else {
			r.data[i] = Binary(c, u.data[i], op, v)
		}
	}
	return r
}

// matMul is the 2-D linear-algebra product.
func matMul(c Context, u, v *Matrix) Value {
	if u.NDim() != 2 || v.NDim() != 2 {
		Errorf(ErrDimMismatch, "*: matrix product needs 2-dimensional operands")
	}
	n, k1 := u.dim(0), u.dim(1)
	k2, p := v.dim(0), v.dim(1)
	if k1 != k2 {
		Errorf(ErrDimMismatch, "*: inner dimensions %d and %d differ", k1, k2)
	}
	r := NewMatrix([]int{u.lo[0], v.lo[1]}, []int{u.hi[0], v.lo[1] + p - 1})
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			var sum Value = zeroNum
			for k := 0; k < k1; k++ {
				term := Binary(c, u.data[i*k1+k], "*", v.data[k*p+j])
				sum = Binary(c, sum, "+", term)
			}
			r.data[i*p+j] = sum
		}
	}
	return r
}

// Transpose returns the 2-D transpose.
func (m *Matrix) Transpose() *Matrix {
	if m.NDim() != 2 {
		Errorf(ErrDimMismatch, "transpose: not a 2-dimensional matrix")
	}
	rows, cols := m.dim(0), m.dim(1)
	r := NewMatrix([]int{m.lo[1], m.lo[0]}, []int{m.hi[1], m.hi[0]})
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			r.data[j*rows+i] = Copy(m.data[i*cols+j])
		}
	}
	return r
}

// square checks the receiver is 2-D with equal extents and returns n.
func (m *Matrix) square(what string) int {
	if m.NDim() != 2 || m.dim(0) != m.dim(1) {
		Errorf(ErrDimMismatch, "%s: not a square matrix", what)
	}
	return m.dim(0)
}

// Det computes the determinant by fraction-free elimination: row
// reduction tracking the accumulated divisor so each entry stays a
// single exact product, in the manner of Bareiss.
func (m *Matrix) Det(c Context) Value {
	n := m.square("det")
	if n == 0 {
		return oneNum
	}
	a := make([]Value, len(m.data))
	copy(a, m.data)
	var sign Value = oneNum
	var prev Value = oneNum
	for k := 0; k < n-1; k++ {
		// Pivot: find a nonzero entry in column k.
		pivot := -1
		for i := k; i < n; i++ {
			if Truth(a[i*n+k]) {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			return zeroNum
		}
		if pivot != k {
			for j := 0; j < n; j++ {
				a[k*n+j], a[pivot*n+j] = a[pivot*n+j], a[k*n+j]
			}
			sign = Unary(c, "-", sign)
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				num := Binary(c, Binary(c, a[k*n+k], "*", a[i*n+j]), "-",
					Binary(c, a[i*n+k], "*", a[k*n+j]))
				a[i*n+j] = Binary(c, num, "/", prev)
			}
			a[i*n+k] = zeroNum
		}
		prev = a[k*n+k]
	}
	return Binary(c, sign, "*", a[n*n-1])
}

// Inverse computes the inverse by Gauss-Jordan elimination over exact
// arithmetic, or reports a singular matrix.
func (m *Matrix) Inverse(c Context) *Matrix {
	n := m.square("inverse")
	a := make([]Value, len(m.data))
	copy(a, m.data)
	inv := NewMatrix(m.lo, m.hi)
	for i := 0; i < n; i++ {
		inv.data[i*n+i] = oneNum
	}
	for k := 0; k < n; k++ {
		pivot := -1
		for i := k; i < n; i++ {
			if Truth(a[i*n+k]) {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			Errorf(ErrDivByZero, "inverse: singular matrix")
		}
		if pivot != k {
			for j := 0; j < n; j++ {
				a[k*n+j], a[pivot*n+j] = a[pivot*n+j], a[k*n+j]
				inv.data[k*n+j], inv.data[pivot*n+j] = inv.data[pivot*n+j], inv.data[k*n+j]
			}
		}
		p := a[k*n+k]
		for j := 0; j < n; j++ {
			a[k*n+j] = Binary(c, a[k*n+j], "/", p)
			inv.data[k*n+j] = Binary(c, inv.data[k*n+j], "/", p)
		}
		for i := 0; i < n; i++ {
			if i == k || !Truth(a[i*n+k]) {
				continue
			}
			f := a[i*n+k]
			for j := 0; j < n; j++ {
				a[i*n+j] = Binary(c, a[i*n+j], "-", Binary(c, f, "*", a[k*n+j]))
				inv.data[i*n+j] = Binary(c, inv.data[i*n+j], "-", Binary(c, f, "*", inv.data[k*n+j]))
			}
		}
	}
	return inv
}

func (m *Matrix) boundsString() string {
	var b strings.Builder
	b.WriteString("[")
	for d := range m.lo {
		if d > 0 {
			b.WriteString(",")
		}
		if m.lo[d] == 0 {
			fmt.Fprintf(&b, "%d", m.dim(d))
		} else {
			fmt.Fprintf(&b, "%d:%d", m.lo[d], m.hi[d])
		}
	}
	b.WriteString("]")
	return b.String()
}

func (m *Matrix) String() string {
	return "mat" + m.boundsString()
}

func (m *Matrix) Sprint(conf *config.Config) string {
	var b strings.Builder
	b.WriteString("mat ")
	b.WriteString(m.boundsString())
	max := conf.MaxPrint()
	indent := strings.Repeat(" ", conf.Tab())
	if m.NDim() == 2 {
		rows, cols := m.dim(0), m.dim(1)
		// Pre-print for column alignment.
		cells := make([]string, len(m.data))
		width := 0
		for i, v := range m.data {
			cells[i] = v.Sprint(conf)
			if len(cells[i]) > width {
				width = len(cells[i])
			}
		}
		printed := 0
		for i := 0; i < rows; i++ {
			b.WriteString("\n")
			b.WriteString(indent)
			for j := 0; j < cols; j++ {
				if max > 0 && printed >= max {
					b.WriteString("...")
					return b.String()
				}
				if j > 0 {
					b.WriteString(" ")
				}
				s := cells[i*cols+j]
				b.WriteString(strings.Repeat(" ", width-len(s)))
				b.WriteString(s)
				printed++
			}
		}
		return b.String()
	}
	for i, v := range m.data {
		if max > 0 && i >= max {
			b.WriteString("\n" + indent + "...")
			break
		}
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString(v.Sprint(conf))
	}
	return b.String()
}
