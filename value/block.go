// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"

	"calq.io/calq/config"
)

// Block is a raw byte buffer, indexable byte by byte.
type Block struct {
	data []byte
}

func NewBlock(n int) *Block {
	if n < 0 {
		Errorf(ErrInvalidArg, "blk: negative length %d", n)
	}
	return &Block{data: make([]byte, n)}
}

func BlockOf(b []byte) *Block {
	return &Block{data: b}
}

func (b *Block) Type() T { return TBlock }

func (b *Block) Len() int { return len(b.data) }

// Bytes exposes the underlying buffer for file I/O.
func (b *Block) Bytes() []byte { return b.data }

func (b *Block) Byte(i int) byte {
	if i < 0 || i >= len(b.data) {
		Errorf(ErrBounds, "block index %d out of range [0, %d)", i, len(b.data))
	}
	return b.data[i]
}

func (b *Block) SetByte(i int, c byte) {
	if i < 0 || i >= len(b.data) {
		Errorf(ErrBounds, "block index %d out of range [0, %d)", i, len(b.data))
	}
	b.data[i] = c
}

func (b *Block) Copy() *Block {
	return &Block{data: append([]byte(nil), b.data...)}
}

func (b *Block) String() string {
	return fmt.Sprintf("blk(%d)", len(b.data))
}

func (b *Block) Sprint(conf *config.Config) string {
	const preview = 16
	s := fmt.Sprintf("blk: %d bytes", len(b.data))
	n := len(b.data)
	if n > preview {
		n = preview
	}
	if n > 0 {
		s += fmt.Sprintf(" %x", b.data[:n])
		if n < len(b.data) {
			s += "..."
		}
	}
	return s
}
