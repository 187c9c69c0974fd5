// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"strconv"

	"calq.io/calq/config"
)

// String is a NUL-safe byte string. Comparisons are bytewise.
type String string

func (s String) String() string {
	return strconv.Quote(string(s))
}

func (s String) Sprint(conf *config.Config) string {
	return string(s)
}

func (s String) Type() T { return TString }

// Quote returns the source form of the string, used by debug display.
func (s String) Quote() string {
	return strconv.Quote(string(s))
}

func indexString(s String, i int) Value {
	if i < 0 || i >= len(s) {
		Errorf(ErrBounds, "string index %d out of range", i)
	}
	return NewInt(int64(s[i]))
}
