// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package exec holds the execution context -- symbol tables, function
// and object-type registries, caches -- and the stack virtual machine
// that runs compiled functions.
package exec // import "calq.io/calq/exec"

import (
	"fmt"
	"sort"
	"sync/atomic"

	"calq.io/calq/code"
	"calq.io/calq/config"
	"calq.io/calq/value"
)

// Symtab is a symbol table, a map of names to values.
type Symtab map[string]value.Value

// Context is the complete execution environment. It is the only
// implementation of value.Context and of parse.Env; the REPL holds
// exactly one.
type Context struct {
	config *config.Config

	// Globals and statics. Statics are qualified by their declaring
	// scope at compile time, so one table serves every file and
	// function.
	Globals Symtab
	Statics Symtab

	// Funcs is the user function registry.
	Funcs map[string]*code.Function

	// objTypes is the user object-type registry.
	objTypes map[string]*value.ObjectTypeDef

	// rand is the default random state singleton.
	rand *value.Randstate

	// openFiles tracks open handles for files() and final cleanup.
	openFiles []*value.File

	// interrupted is set asynchronously by the signal handler and
	// polled at calls and backward branches.
	interrupted atomic.Bool

	// frames counts active VM frames for the depth limit.
	frames int
}

// NewContext returns a fresh environment bound to the configuration.
func NewContext(conf *config.Config) *Context {
	return &Context{
		config:   conf,
		Globals:  make(Symtab),
		Statics:  make(Symtab),
		Funcs:    make(map[string]*code.Function),
		objTypes: make(map[string]*value.ObjectTypeDef),
		rand:     value.NewRandstate(1),
	}
}

func (c *Context) Config() *config.Config { return c.config }

// Rand returns the default random state.
func (c *Context) Rand() *value.Randstate { return c.rand }

// Interrupt flags a pending user interrupt; the VM raises UserAbort
// at its next poll point.
func (c *Context) Interrupt() { c.interrupted.Store(true) }

// pollInterrupt raises UserAbort when an interrupt is pending.
func (c *Context) pollInterrupt() {
	if c.interrupted.CompareAndSwap(true, false) {
		value.Errorf(value.ErrUserAbort, "interrupt")
	}
}

// Lookup returns a global by name.
func (c *Context) Lookup(name string) (value.Value, bool) {
	v, ok := c.Globals[name]
	return v, ok
}

// Assign sets a global, copying for value semantics.
func (c *Context) Assign(name string, v value.Value) {
	c.Globals[name] = value.Copy(v)
}

// DefineFunc registers a compiled function, replacing any previous
// definition of the name.
func (c *Context) DefineFunc(fn *code.Function) {
	if c.config.CalcDebug()&config.DebugParse != 0 {
		fmt.Fprint(c.config.ErrOutput(), fn.Disasm())
	}
	c.Funcs[fn.Name] = fn
}

// RemoveFunc deletes a user function; used by undefine().
func (c *Context) RemoveFunc(name string) {
	delete(c.Funcs, name)
}

// DefineObjectType registers a user record type. Redeclaring a type
// with different fields is an error; an identical redeclaration is
// accepted silently, which lets resource files be re-read.
func (c *Context) DefineObjectType(name string, fields []string) error {
	if old, ok := c.objTypes[name]; ok {
		if sameFields(old.Fields, fields) {
			return nil
		}
		return fmt.Errorf("obj type %s redefined with different fields", name)
	}
	c.objTypes[name] = &value.ObjectTypeDef{Name: name, Fields: fields}
	return nil
}

func sameFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ObjectType resolves a user type by name.
func (c *Context) ObjectType(name string) (*value.ObjectTypeDef, bool) {
	t, ok := c.objTypes[name]
	return t, ok
}

// BuiltinIndex resolves a builtin name to its dispatch id.
func (c *Context) BuiltinIndex(name string) (int, bool) {
	id, ok := builtinIndex[name]
	return id, ok
}

// UserCall invokes a user-defined function if one exists; the object
// operator dispatch in the value package lands here.
func (c *Context) UserCall(name string, args []value.Value) (value.Value, bool) {
	fn, ok := c.Funcs[name]
	if !ok {
		return nil, false
	}
	return c.call(fn, args), true
}

// Names returns the defined global names, sorted, for diagnostics.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.Globals))
	for name := range c.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TrackFile records an open file handle.
func (c *Context) TrackFile(f *value.File) {
	c.openFiles = append(c.openFiles, f)
}

// Files returns the tracked open files.
func (c *Context) Files() []*value.File {
	return c.openFiles
}

// CloseAll closes every tracked file; called when the REPL exits.
func (c *Context) CloseAll() {
	for _, f := range c.openFiles {
		f.Close()
	}
	c.openFiles = nil
}
