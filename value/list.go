// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"strings"

	"calq.io/calq/config"
)

// List is an ordered sequence of values held in a doubly-linked chain
// with head and tail pointers. The element count is cached, as is the
// node of the most recently accessed index, so that forward scans by
// successive indexes cost O(1) per element.
type List struct {
	head, tail *listNode
	count      int

	// Index cache for sequential access.
	cacheIndex int
	cacheNode  *listNode
}

type listNode struct {
	prev, next *listNode
	v          Value
}

// NewList builds a list from the given elements, copying each for
// value semantics.
func NewList(elems ...Value) *List {
	l := &List{}
	for _, e := range elems {
		l.Append(Copy(e))
	}
	return l
}

func (l *List) Type() T { return TList }

func (l *List) Len() int { return l.count }

func (l *List) invalidateCache() { l.cacheNode = nil }

// node returns the node at index i, using the access cache.
func (l *List) node(i int) *listNode {
	if i < 0 || i >= l.count {
		Errorf(ErrBounds, "list index %d out of range [0, %d)", i, l.count)
	}
	var n *listNode
	var at int
	switch {
	case l.cacheNode != nil && i >= l.cacheIndex:
		n, at = l.cacheNode, l.cacheIndex
	default:
		n, at = l.head, 0
	}
	// Walking backward from the tail is cheaper for the last few.
	if i > (at+l.count)/2 && l.count-1-i < i-at {
		n, at = l.tail, l.count-1
		for ; at > i; at-- {
			n = n.prev
		}
	} else {
		for ; at < i; at++ {
			n = n.next
		}
	}
	l.cacheIndex, l.cacheNode = i, n
	return n
}

// Index returns the element at i.
func (l *List) Index(i int) Value {
	return l.node(i).v
}

// SetIndex replaces the element at i.
func (l *List) SetIndex(i int, v Value) {
	l.node(i).v = v
}

// Append adds v at the tail.
func (l *List) Append(v Value) {
	n := &listNode{prev: l.tail, v: v}
	if l.tail == nil {
		l.head = n
	} else {
		l.tail.next = n
	}
	l.tail = n
	l.count++
}

// Prepend adds v at the head.
func (l *List) Prepend(v Value) {
	n := &listNode{next: l.head, v: v}
	if l.head == nil {
		l.tail = n
	} else {
		l.head.prev = n
	}
	l.head = n
	l.count++
	l.invalidateCache()
}

// PopTail removes and returns the last element.
func (l *List) PopTail() Value {
	if l.tail == nil {
		Errorf(ErrBounds, "pop of empty list")
	}
	n := l.tail
	l.tail = n.prev
	if l.tail == nil {
		l.head = nil
	} else {
		l.tail.next = nil
	}
	l.count--
	l.invalidateCache()
	return n.v
}

// PopHead removes and returns the first element.
func (l *List) PopHead() Value {
	if l.head == nil {
		Errorf(ErrBounds, "pop of empty list")
	}
	n := l.head
	l.head = n.next
	if l.head == nil {
		l.tail = nil
	} else {
		l.head.prev = nil
	}
	l.count--
	l.invalidateCache()
	return n.v
}

// Insert places v before index i; i == Len appends.
func (l *List) Insert(i int, v Value) {
	switch {
	case i == 0:
		l.Prepend(v)
	case i == l.count:
		l.Append(v)
	default:
		at := l.node(i)
		n := &listNode{prev: at.prev, next: at, v: v}
		at.prev.next = n
		at.prev = n
		l.count++
		l.invalidateCache()
	}
}

// Delete removes the element at index i.
func (l *List) Delete(i int) Value {
	n := l.node(i)
	if n.prev == nil {
		return l.PopHead()
	}
	if n.next == nil {
		return l.PopTail()
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	l.count--
	l.invalidateCache()
	return n.v
}

// Do calls f on each element in insertion order.
func (l *List) Do(f func(i int, v Value)) {
	i := 0
	for n := l.head; n != nil; n = n.next {
		f(i, n.v)
		i++
	}
}

// Copy returns a deep copy.
func (l *List) Copy() *List {
	c := &List{}
	for n := l.head; n != nil; n = n.next {
		c.Append(Copy(n.v))
	}
	return c
}

// Reverse reverses the list in place.
func (l *List) Reverse() {
	var prev *listNode
	for n := l.head; n != nil; {
		next := n.next
		n.next, n.prev = prev, next
		prev = n
		n = next
	}
	l.head, l.tail = l.tail, l.head
	l.invalidateCache()
}

// Search returns the index of the first element equal to v, or -1.
func (l *List) Search(c Context, v Value) int {
	i := 0
	for n := l.head; n != nil; n = n.next {
		if equalValues(c, n.v, v) {
			return i
		}
		i++
	}
	return -1
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteString("list(")
	l.Do(func(i int, v Value) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	})
	b.WriteString(")")
	return b.String()
}

func (l *List) Sprint(conf *config.Config) string {
	var b strings.Builder
	b.WriteString("list (")
	max := conf.MaxPrint()
	n := l.count
	if max > 0 && n > max {
		n = max
	}
	i := 0
	for node := l.head; node != nil && i < n; node = node.next {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", conf.Tab()))
		b.WriteString(node.v.Sprint(conf))
		i++
	}
	if i < l.count {
		b.WriteString("\n  ...")
	}
	b.WriteString("\n)")
	return b.String()
}
