// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"

	"calq.io/calq/config"
)

// Error is a first-class error value. Arithmetic over an Error operand
// yields the operand unchanged, so errors propagate through an
// expression until something inspects them or a TRY region catches the
// fault form.
type Error struct {
	Code int
	Msg  string
}

// NewError builds an error value, defaulting the message from the
// taxonomy when none is given.
func NewError(code int, msg string) Error {
	if msg == "" {
		msg = ErrText(code)
	}
	return Error{Code: code, Msg: msg}
}

// FaultError converts a raised Fault to its value form.
func FaultError(f Fault) Error {
	return NewError(f.Code, f.Msg)
}

func (e Error) String() string {
	return fmt.Sprintf("error(%d: %s)", e.Code, e.Msg)
}

func (e Error) Sprint(conf *config.Config) string {
	return fmt.Sprintf("error %d: %s", e.Code, e.Msg)
}

func (e Error) Type() T { return TError }

// Fault converts the value back to its raisable form.
func (e Error) Fault() Fault {
	return Fault{Code: e.Code, Msg: e.Msg}
}
