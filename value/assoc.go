// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"strings"

	"calq.io/calq/config"
)

// Assoc is an associative array from key tuples to values. The index
// is an open-addressed hash table over the entry list; the entry list
// preserves insertion order, which makes iteration deterministic
// within a run.
type Assoc struct {
	entries []assocEntry // insertion order; dead entries linger until rehash
	live    int
	table   []int // open-addressed: entry index + 1, 0 means empty
}

type assocEntry struct {
	hash uint64
	key  []Value
	val  Value
	dead bool
}

const assocMinTable = 8

func NewAssoc() *Assoc {
	return &Assoc{table: make([]int, assocMinTable)}
}

func (a *Assoc) Type() T { return TAssoc }

func (a *Assoc) Len() int { return a.live }

// probe walks the table from the hash position; it returns the slot
// holding the key, or the first empty slot when absent.
func (a *Assoc) probe(c Context, hash uint64, key []Value) int {
	mask := uint64(len(a.table) - 1)
	for i := hash & mask; ; i = (i + 1) & mask {
		ei := a.table[i]
		if ei == 0 {
			return int(i)
		}
		e := &a.entries[ei-1]
		if !e.dead && e.hash == hash && sameKey(c, e.key, key) {
			return int(i)
		}
	}
}

func sameKey(c Context, u, v []Value) bool {
	if len(u) != len(v) {
		return false
	}
	for i := range u {
		if !equalValues(c, u[i], v[i]) {
			return false
		}
	}
	return true
}

// grow rehashes into a table twice the size, dropping dead entries.
func (a *Assoc) grow(c Context) {
	oldEntries := a.entries
	a.entries = make([]assocEntry, 0, len(oldEntries))
	size := len(a.table) * 2
	if size < assocMinTable {
		size = assocMinTable
	}
	a.table = make([]int, size)
	a.live = 0
	for _, e := range oldEntries {
		if !e.dead {
			a.put(c, e.hash, e.key, e.val)
		}
	}
}

func (a *Assoc) put(c Context, hash uint64, key []Value, val Value) {
	slot := a.probe(c, hash, key)
	if ei := a.table[slot]; ei != 0 {
		a.entries[ei-1].val = val
		return
	}
	a.entries = append(a.entries, assocEntry{hash: hash, key: key, val: val})
	a.table[slot] = len(a.entries)
	a.live++
	// Load factor cap of 3/4 over live plus dead entries.
	if 4*len(a.entries) > 3*len(a.table) {
		a.grow(c)
	}
}

// Set inserts or replaces the value for a key tuple. Keys and values
// are copied for value semantics.
func (a *Assoc) Set(c Context, key []Value, val Value) {
	k := make([]Value, len(key))
	for i, v := range key {
		k[i] = Copy(v)
	}
	a.put(c, hashKey(k), k, Copy(val))
}

// Get returns the value for a key tuple.
func (a *Assoc) Get(c Context, key []Value) (Value, bool) {
	slot := a.probe(c, hashKey(key), key)
	if ei := a.table[slot]; ei != 0 {
		return a.entries[ei-1].val, true
	}
	return nil, false
}

// Delete removes a key tuple, reporting whether it was present.
func (a *Assoc) Delete(c Context, key []Value) bool {
	slot := a.probe(c, hashKey(key), key)
	ei := a.table[slot]
	if ei == 0 {
		return false
	}
	a.entries[ei-1].dead = true
	a.table[slot] = 0
	a.live--
	// Reinsert the probe chain following the vacated slot so open
	// addressing stays consistent.
	mask := uint64(len(a.table) - 1)
	for i := (uint64(slot) + 1) & mask; a.table[i] != 0; i = (i + 1) & mask {
		moved := a.table[i]
		a.table[i] = 0
		e := &a.entries[moved-1]
		ns := a.probe(c, e.hash, e.key)
		a.table[ns] = moved
	}
	return true
}

// Do calls f for each live entry in insertion order.
func (a *Assoc) Do(f func(key []Value, val Value)) {
	for i := range a.entries {
		if !a.entries[i].dead {
			f(a.entries[i].key, a.entries[i].val)
		}
	}
}

// Copy returns a deep copy.
func (a *Assoc) Copy() *Assoc {
	c := NewAssoc()
	for i := range a.entries {
		e := &a.entries[i]
		if e.dead {
			continue
		}
		key := make([]Value, len(e.key))
		for j, v := range e.key {
			key[j] = Copy(v)
		}
		c.put(nil, e.hash, key, Copy(e.val))
	}
	return c
}

func (a *Assoc) String() string {
	return "assoc"
}

func (a *Assoc) Sprint(conf *config.Config) string {
	var b strings.Builder
	b.WriteString("assoc (")
	indent := strings.Repeat(" ", conf.Tab())
	max := conf.MaxPrint()
	printed := 0
	a.Do(func(key []Value, val Value) {
		if max > 0 && printed >= max {
			return
		}
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString("[")
		for i, k := range key {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(k.Sprint(conf))
		}
		b.WriteString("] = ")
		b.WriteString(val.Sprint(conf))
		printed++
	})
	if a.live > printed {
		b.WriteString("\n" + indent + "...")
	}
	b.WriteString("\n)")
	return b.String()
}
